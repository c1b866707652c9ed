package tests

import (
	"os"
	"testing"

	"github.com/trezcool/kazi/core"
)

func TestMain(m *testing.M) {
	core.InitValidators()
	os.Exit(m.Run())
}
