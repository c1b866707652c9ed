package submission

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/trezcool/kazi/core/school"
)

const unknownFolder = "unknown"

// unsafeChars matches every character the external file store may reject.
var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9-_() ]`)

func sanitizeFolder(s string) string {
	return unsafeChars.ReplaceAllString(strings.TrimSpace(s), "_")
}

// storageFolder derives a deterministic storage folder for an assignment from
// its class's name+code and its topic.
func storageFolder(cls school.Class, a school.Assignment) string {
	classFolder := unknownFolder
	if !cls.ID.IsZero() {
		classFolder = fmt.Sprintf("%s(%s)", cls.Name, cls.Code)
	}
	assignmentFolder := a.Topic
	if assignmentFolder == "" {
		assignmentFolder = unknownFolder
	}
	return fmt.Sprintf("assignments/%s/%s", sanitizeFolder(classFolder), sanitizeFolder(assignmentFolder))
}
