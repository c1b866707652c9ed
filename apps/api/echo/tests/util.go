package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/account"
	"github.com/trezcool/kazi/core/school"
	"github.com/trezcool/kazi/core/submission"
	dummydb "github.com/trezcool/kazi/storage/database/dummy"
	objstore "github.com/trezcool/kazi/storage/object"
	testutil "github.com/trezcool/kazi/tests"

	. "github.com/trezcool/kazi/apps/api/echo"
)

type testEnv struct {
	app     Server
	conf    *core.Config
	storage *objstore.DummyStorage

	acctRepo   account.Repository
	schoolRepo school.Repository
	subRepo    submission.Repository
}

func setup(t *testing.T) testEnv {
	conf := &core.Config{
		Env:                "TEST",
		TestMode:           true,
		AppName:            "Kazi",
		SecretKey:          "+t35t/s3cr3t",
		JWTExpirationDelta: time.Hour,
	}

	// set up DB & repos
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup(): %v", err)
	}
	acctRepo := dummydb.NewAccountRepository(db)
	schoolRepo := dummydb.NewSchoolRepository(db)
	subRepo := dummydb.NewSubmissionRepository(db)
	storage := objstore.NewDummyStorage()
	logger := testutil.NewLogger(t)

	// set up services
	acctSvc := account.NewService(acctRepo, schoolRepo)
	schoolSvc := school.NewService(schoolRepo, subRepo)
	subSvc := submission.NewService(subRepo, schoolRepo, storage, logger)

	// set up server
	app := NewServer(
		nil, /* shutdown */
		&Options{
			Conf:           conf,
			Logger:         logger,
			DisableReqLogs: true,
			AccountSvc:     acctSvc,
			SchoolSvc:      schoolSvc,
			SubmissionSvc:  subSvc,
		},
	)
	return testEnv{
		app:        app,
		conf:       conf,
		storage:    storage,
		acctRepo:   acctRepo,
		schoolRepo: schoolRepo,
		subRepo:    subRepo,
	}
}

type httpMsg struct {
	Message string `json:"message"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

// newUploadRequest builds a multipart form request carrying the submission
// file under the "assignmentFile" field plus the identity form values.
func newUploadRequest(t *testing.T, path string, fields map[string]string, filename string, content []byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("newUploadRequest(): %v", err)
		}
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("assignmentFile", filename)
		if err != nil {
			t.Fatalf("newUploadRequest(): %v", err)
		}
		if _, err = fw.Write(content); err != nil {
			t.Fatalf("newUploadRequest(): %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("newUploadRequest(): %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func decodeBody(t *testing.T, r io.Reader, dst interface{}) {
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		t.Fatalf("decodeBody(): %v", err)
	}
}
