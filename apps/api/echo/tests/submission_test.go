package tests

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/kazi/core/account"
	"github.com/trezcool/kazi/core/school"
	"github.com/trezcool/kazi/core/submission"
	testutil "github.com/trezcool/kazi/tests"
)

func submitFields(studentID, username, assignmentID, classID string) map[string]string {
	return map[string]string{
		"studentID":    studentID,
		"username":     username,
		"assignmentId": assignmentID,
		"classId":      classID,
	}
}

func Test_submissionApi_submissionCreate(t *testing.T) {
	te := setup(t)
	cls := testutil.CreateClass(t, te.schoolRepo, "Algo", "ALG1", "mrteach")
	open := testutil.CreateAssignment(t, te.schoolRepo, cls.ID, "HW1", time.Now().Add(time.Hour))
	closed := testutil.CreateAssignment(t, te.schoolRepo, cls.ID, "HW0", time.Now().Add(-time.Hour))

	pdf := []byte("%PDF-1.4 fake")

	t.Run("submitted then updated", func(t *testing.T) {
		req, rec := newUploadRequest(t, "/api/submit", submitFields("S001", "bob", open.ID.Hex(), cls.ID.Hex()), "hw1.pdf", pdf)
		te.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, httpMsg{Message: "Assignment submitted"})}, rec)

		req, rec = newUploadRequest(t, "/api/submit", submitFields("S001", "bob", open.ID.Hex(), cls.ID.Hex()), "hw1-v2.pdf", pdf)
		te.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, httpMsg{Message: "Submission updated"})}, rec)
	})

	tests := []struct {
		name     string
		fields   map[string]string
		filename string
		wantCode int
		wantMsg  string
	}{
		{
			name: "deadline passed", fields: submitFields("S001", "bob", closed.ID.Hex(), cls.ID.Hex()), filename: "late.pdf",
			wantCode: http.StatusBadRequest, wantMsg: "Deadline has passed; submission not allowed",
		},
		{
			name: "no file", fields: submitFields("S001", "bob", open.ID.Hex(), cls.ID.Hex()),
			wantCode: http.StatusBadRequest, wantMsg: "No file uploaded",
		},
		{
			name: "missing fields", fields: submitFields("", "bob", open.ID.Hex(), cls.ID.Hex()), filename: "hw1.pdf",
			wantCode: http.StatusBadRequest, wantMsg: "Missing required fields: studentID, username, assignmentId, or classId",
		},
		{
			name: "malformed assignmentId", fields: submitFields("S001", "bob", "nope", cls.ID.Hex()), filename: "hw1.pdf",
			wantCode: http.StatusBadRequest, wantMsg: "Invalid assignmentId",
		},
		{
			name: "malformed classId", fields: submitFields("S001", "bob", open.ID.Hex(), "nope"), filename: "hw1.pdf",
			wantCode: http.StatusBadRequest, wantMsg: "Invalid classId",
		},
		{
			name: "unknown assignment", fields: submitFields("S001", "bob", primitive.NewObjectID().Hex(), cls.ID.Hex()), filename: "hw1.pdf",
			wantCode: http.StatusNotFound, wantMsg: "Assignment not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newUploadRequest(t, "/api/submit", tt.fields, tt.filename, []byte("late"))
			te.app.ServeHTTP(rec, req)
			checkCodeAndData(t, httpTest{wantCode: tt.wantCode, wantData: marchallObj(t, httpMsg{Message: tt.wantMsg})}, rec)
		})
	}
}

func Test_submissionApi_submissionQuery(t *testing.T) {
	te := setup(t)
	cls := testutil.CreateClass(t, te.schoolRepo, "Algo", "ALG1", "mrteach")
	a1 := testutil.CreateAssignment(t, te.schoolRepo, cls.ID, "HW1", time.Now().Add(time.Hour))
	a2 := testutil.CreateAssignment(t, te.schoolRepo, cls.ID, "HW2", time.Now().Add(time.Hour))
	testutil.CreateSubmission(t, te.subRepo, "S001", "bob", a1.ID, "dummy://a1/S001.pdf")
	testutil.CreateSubmission(t, te.subRepo, "S001", "bob", a2.ID, "dummy://a2/S001.pdf")
	testutil.CreateSubmission(t, te.subRepo, "S002", "eve", a1.ID, "dummy://a1/S002.pdf")

	t.Run("by student", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/submissions/student/bob")
		te.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var subs []submission.Submission
		decodeBody(t, rec.Body, &subs)
		require.Len(t, subs, 2)
		for _, sub := range subs {
			assert.Equal(t, "bob", sub.Username)
			require.NotNil(t, sub.Assignment)
		}
	})

	t.Run("by assignment", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/submissions/assignment/"+a1.ID.Hex())
		te.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var subs []submission.Submission
		decodeBody(t, rec.Body, &subs)
		require.Len(t, subs, 2)
		for _, sub := range subs {
			assert.Equal(t, a1.ID, sub.AssignmentID)
		}
	})

	t.Run("unknown student", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/submissions/student/ghost")
		te.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("malformed assignment id", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/submissions/assignment/nope")
		te.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpMsg{Message: "Invalid assignmentId"}),
		}, rec)
	})
}

func Test_submissionApi_submissionDownload(t *testing.T) {
	te := setup(t)
	cls := testutil.CreateClass(t, te.schoolRepo, "Algo", "ALG1", "mrteach")
	a := testutil.CreateAssignment(t, te.schoolRepo, cls.ID, "HW1", time.Now().Add(time.Hour))

	req, rec := newUploadRequest(t, "/api/submit", submitFields("S001", "bob", a.ID.Hex(), cls.ID.Hex()), "hw1.pdf", []byte("bob's work"))
	te.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("zip stream", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/download-submissions/"+a.ID.Hex())
		te.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
		assert.Equal(t,
			fmt.Sprintf(`attachment; filename="submissions-%s.zip"`, a.ID.Hex()),
			rec.Header().Get("Content-Disposition"),
		)

		zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
		require.NoError(t, err)
		require.Len(t, zr.File, 1)
		assert.Equal(t, "S001.pdf", zr.File[0].Name)
	})

	t.Run("no submissions", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/download-submissions/"+primitive.NewObjectID().Hex())
		te.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpMsg{Message: "No submissions found for this assignment"}),
		}, rec)
		assert.Equal(t, echo.MIMEApplicationJSONCharsetUTF8, rec.Header().Get("Content-Type"), "pre-stream errors stay JSON")
	})

	t.Run("malformed id", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/download-submissions/nope")
		te.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpMsg{Message: "Invalid assignmentId"}),
		}, rec)
	})
}

// Test_submissionFlow walks the full teacher/student round trip: signup,
// class and assignment creation, student enrollment, submission, resubmission
// and the final archive export.
func Test_submissionFlow(t *testing.T) {
	te := setup(t)

	post := func(t *testing.T, path string, body []byte, wantCode int) *bytes.Buffer {
		req, rec := newRequest(http.MethodPost, path, body)
		te.app.ServeHTTP(rec, req)
		require.Equal(t, wantCode, rec.Code, "POST %s: %s", path, rec.Body.String())
		return rec.Body
	}

	// teacher signs up and creates a class with one assignment
	post(t, "/api/signup", marchallObj(t, account.NewAccount{
		Username: "mrteach", Password: "s3cr3t!pass", Role: "teacher",
	}), http.StatusCreated)

	var clsResp struct {
		Class school.Class `json:"class"`
	}
	decodeBody(t, post(t, "/api/classes", marchallObj(t, school.NewClass{
		Name: "Algo", Code: "ALG1", CreatedBy: "mrteach",
	}), http.StatusCreated), &clsResp)
	classID := clsResp.Class.ID.Hex()

	var aResp struct {
		Assignment school.Assignment `json:"assignment"`
	}
	decodeBody(t, post(t, "/api/assignments", marchallObj(t, school.NewAssignment{
		Topic: "HW1", Deadline: time.Now().Add(48 * time.Hour).UTC(), ClassID: classID, CreatedBy: "mrteach",
	}), http.StatusCreated), &aResp)
	assignmentID := aResp.Assignment.ID.Hex()

	// student signs up under the class and submits twice
	post(t, "/api/signup", marchallObj(t, account.NewAccount{
		Username: "bob", Password: "s3cr3t!pass", Role: "student", StudentID: "S001", ClassID: classID,
	}), http.StatusCreated)

	req, rec := newUploadRequest(t, "/api/submit", submitFields("S001", "bob", assignmentID, classID), "hw1.pdf", []byte("draft"))
	te.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, httpMsg{Message: "Assignment submitted"})}, rec)

	req, rec = newUploadRequest(t, "/api/submit", submitFields("S001", "bob", assignmentID, classID), "hw1.pdf", []byte("final"))
	te.app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, httpMsg{Message: "Submission updated"})}, rec)

	// teacher downloads the archive; the single entry holds the latest bytes
	req, rec = newRequest(http.MethodGet, "/api/download-submissions/"+assignmentID)
	te.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "S001.pdf", zr.File[0].Name)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "final", string(data))
}
