package main

import (
	"context"
	"os"
	"testing"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/account"
	"github.com/trezcool/kazi/core/school"
	dummydb "github.com/trezcool/kazi/storage/database/dummy"
)

func TestMain(m *testing.M) {
	core.InitValidators()
	os.Exit(m.Run())
}

func setup(t *testing.T) (*commandLine, account.Repository) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup(): %v", err)
	}
	acctRepo := dummydb.NewAccountRepository(db)
	schoolRepo := dummydb.NewSchoolRepository(db)

	return &commandLine{
		acctSvc:   account.NewService(acctRepo, schoolRepo),
		schoolSvc: school.NewService(schoolRepo, dummydb.NewSubmissionRepository(db)),
	}, acctRepo
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func Test_commandLine_run(t *testing.T) {
	cli, acctRepo := setup(t)
	ctx := context.Background()

	readPasswordFunc = func(int) ([]byte, error) {
		return []byte("s3cr3t!pass"), nil
	}

	tests := []cliTest{
		{name: "no command", args: []string{}, wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "addteacher: no username", args: []string{"addteacher"}, wantErr: errHelp},
		{name: "addteacher", args: []string{"addteacher", "-username", "mrteach"}},
		{name: "addteacher: username taken", args: []string{"addteacher", "-username", "mrteach"}, wantErrStr: "Username already taken"},
		{name: "listclasses (none)", args: []string{"listclasses"}},
		{name: "listclasses by teacher", args: []string{"listclasses", "-teacher", "mrteach"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(ctx, args)
			switch {
			case tt.wantErr != nil:
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			case tt.wantErrStr != "":
				if err == nil || err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
			case err != nil:
				t.Errorf("cli.run() unexpected error = %v", err)
			}
		})
	}

	t.Run("created account is a teacher", func(t *testing.T) {
		acct, err := acctRepo.GetAccountByUsername(ctx, "mrteach")
		if err != nil {
			t.Fatalf("GetAccountByUsername(): %v", err)
		}
		if !acct.IsTeacher() {
			t.Errorf("role = %s, want %s", acct.Role, account.RoleTeacher)
		}
		if err = acct.CheckPassword("s3cr3t!pass"); err != nil {
			t.Errorf("CheckPassword(): %v", err)
		}
	})
}

func Test_commandLine_emptyPassword(t *testing.T) {
	cli, _ := setup(t)

	readPasswordFunc = func(int) ([]byte, error) {
		return nil, nil
	}

	if err := cli.run(context.Background(), []string{"admin", "addteacher", "-username", "mrteach"}); err != errHelp {
		t.Errorf("cli.run() error = %v, wantErr %v", err, errHelp)
	}
}
