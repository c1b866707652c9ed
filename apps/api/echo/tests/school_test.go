package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/kazi/core/account"
	"github.com/trezcool/kazi/core/school"
	testutil "github.com/trezcool/kazi/tests"

	echoapi "github.com/trezcool/kazi/apps/api/echo"
)

func Test_schoolApi_classCreate(t *testing.T) {
	te := setup(t)
	testutil.CreateClass(t, te.schoolRepo, "Crypto", "CRY1", "mrteach")

	t.Run("created", func(t *testing.T) {
		body := marchallObj(t, school.NewClass{Name: "Algo", Code: "ALG1", CreatedBy: "mrteach"})
		req, rec := newRequest(http.MethodPost, "/api/classes", body)
		te.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp echoapi.ClassCreatedResponse
		decodeBody(t, rec.Body, &resp)
		assert.Equal(t, "Class created", resp.Message)
		assert.Equal(t, "ALG1", resp.Class.Code)
		assert.False(t, resp.Class.ID.IsZero())
	})

	tests := []httpTest{
		{
			name: "code required", body: marchallObj(t, school.NewClass{Name: "Algo", CreatedBy: "mrteach"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpMsg{Message: "Course code is required"}),
		},
		{
			name: "code taken", body: marchallObj(t, school.NewClass{Name: "Crypto II", Code: "CRY1", CreatedBy: "mrteach"}),
			wantCode: http.StatusConflict, wantData: marchallObj(t, httpMsg{Message: "Course code already in use"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/classes", tt.body)
			te.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_schoolApi_classQuery(t *testing.T) {
	te := setup(t)
	testutil.CreateClass(t, te.schoolRepo, "Algo", "ALG1", "mrteach")
	testutil.CreateClass(t, te.schoolRepo, "Crypto", "CRY1", "msteach")

	t.Run("all", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/classes")
		te.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var classes []school.Class
		decodeBody(t, rec.Body, &classes)
		assert.Len(t, classes, 2)
	})

	t.Run("by teacher", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/classes/teacher/mrteach")
		te.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var classes []school.Class
		decodeBody(t, rec.Body, &classes)
		require.Len(t, classes, 1)
		assert.Equal(t, "ALG1", classes[0].Code)
	})

	t.Run("by unknown teacher", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/classes/teacher/ghost")
		te.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})
}

func Test_schoolApi_classDestroy(t *testing.T) {
	te := setup(t)
	cls := testutil.CreateClass(t, te.schoolRepo, "Algo", "ALG1", "mrteach")
	a := testutil.CreateAssignment(t, te.schoolRepo, cls.ID, "HW1", time.Now().Add(time.Hour))
	testutil.CreateSubmission(t, te.subRepo, "S001", "bob", a.ID, "dummy://a/S001.pdf")

	owner := marchallObj(t, map[string]string{"createdBy": "mrteach"})

	tests := []httpTest{
		{
			name: "not owner", method: http.MethodDelete, path: "/api/classes/" + cls.ID.Hex(),
			body:     marchallObj(t, map[string]string{"createdBy": "impostor"}),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpMsg{Message: "Class not found or not owned by you"}),
		},
		{
			name: "malformed id", method: http.MethodDelete, path: "/api/classes/nope", body: owner,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpMsg{Message: "Invalid classId"}),
		},
		{
			name: "deleted", method: http.MethodDelete, path: "/api/classes/" + cls.ID.Hex(), body: owner,
			wantCode: http.StatusOK, wantData: marchallObj(t, httpMsg{Message: "Class and associated data deleted"}),
		},
		{
			name: "already gone", method: http.MethodDelete, path: "/api/classes/" + cls.ID.Hex(), body: owner,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpMsg{Message: "Class not found or not owned by you"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			te.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("associated data gone", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/assignments?classId="+cls.ID.Hex())
		te.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())

		req, rec = newRequest(http.MethodGet, "/api/submissions/assignment/"+a.ID.Hex())
		te.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})
}

func Test_schoolApi_studentQuery(t *testing.T) {
	te := setup(t)
	cls1 := testutil.CreateClass(t, te.schoolRepo, "Algo", "ALG1", "mrteach")
	cls2 := testutil.CreateClass(t, te.schoolRepo, "Crypto", "CRY1", "mrteach")
	testutil.CreateAccount(t, te.acctRepo, "mrteach", "s3cr3t!pass", account.RoleTeacher, "", primitive.NilObjectID)
	testutil.CreateAccount(t, te.acctRepo, "bob", "s3cr3t!pass", account.RoleStudent, "S001", cls1.ID)
	testutil.CreateAccount(t, te.acctRepo, "eve", "s3cr3t!pass", account.RoleStudent, "S002", cls2.ID)

	req, rec := newRequest(http.MethodGet, "/api/students/"+cls1.ID.Hex())
	te.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var students []account.Account
	decodeBody(t, rec.Body, &students)
	require.Len(t, students, 1)
	assert.Equal(t, "bob", students[0].Username)
	assert.NotContains(t, rec.Body.String(), "password")

	t.Run("malformed id", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpMsg{Message: "Invalid classId"}),
		}
		req, rec := newRequest(http.MethodGet, "/api/students/nope")
		te.app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_schoolApi_assignmentCreate(t *testing.T) {
	te := setup(t)
	cls := testutil.CreateClass(t, te.schoolRepo, "Algo", "ALG1", "mrteach")
	deadline := time.Now().Add(48 * time.Hour).UTC()

	t.Run("created", func(t *testing.T) {
		body := marchallObj(t, school.NewAssignment{
			Topic: "HW1", Deadline: deadline, ClassID: cls.ID.Hex(), CreatedBy: "mrteach",
		})
		req, rec := newRequest(http.MethodPost, "/api/assignments", body)
		te.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp echoapi.AssignmentCreatedResponse
		decodeBody(t, rec.Body, &resp)
		assert.Equal(t, "Assignment created", resp.Message)
		assert.Equal(t, "HW1", resp.Assignment.Topic)
		assert.Equal(t, cls.ID, resp.Assignment.ClassID)
	})

	t.Run("unresolvable class", func(t *testing.T) {
		body := marchallObj(t, school.NewAssignment{
			Topic: "HW2", Deadline: deadline, ClassID: primitive.NewObjectID().Hex(), CreatedBy: "mrteach",
		})
		req, rec := newRequest(http.MethodPost, "/api/assignments", body)
		te.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func Test_schoolApi_assignmentQuery(t *testing.T) {
	te := setup(t)
	cls1 := testutil.CreateClass(t, te.schoolRepo, "Algo", "ALG1", "mrteach")
	cls2 := testutil.CreateClass(t, te.schoolRepo, "Crypto", "CRY1", "mrteach")
	testutil.CreateAssignment(t, te.schoolRepo, cls1.ID, "HW1", time.Now().Add(time.Hour))
	testutil.CreateAssignment(t, te.schoolRepo, cls2.ID, "HW2", time.Now().Add(time.Hour))

	t.Run("all", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/assignments")
		te.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var assignments []school.Assignment
		decodeBody(t, rec.Body, &assignments)
		assert.Len(t, assignments, 2)
	})

	t.Run("by class", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/assignments?classId="+cls1.ID.Hex())
		te.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var assignments []school.Assignment
		decodeBody(t, rec.Body, &assignments)
		require.Len(t, assignments, 1)
		assert.Equal(t, "HW1", assignments[0].Topic)
		require.NotNil(t, assignments[0].Class)
		assert.Equal(t, "ALG1", assignments[0].Class.Code)
	})

	t.Run("malformed filter yields empty result", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/assignments?classId=nope")
		te.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})
}
