package echoapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/submission"
)

// maxUploadSize caps submission files at 10MB.
const maxUploadSize = 10 << 20

var (
	errNoFileUploaded = errors.New("No file uploaded")
	errFileTooLarge   = errors.New("File too large (max 10MB)")
)

type submissionAPI struct {
	service *submission.Service
}

func registerSubmissionAPI(g *echo.Group, svc *submission.Service) {
	api := submissionAPI{service: svc}

	g.POST("/submit", api.submissionCreate)
	g.GET("/submissions/student/:username", api.submissionQueryByStudent)
	g.GET("/submissions/assignment/:assignmentId", api.submissionQueryByAssignment)
	g.GET("/download-submissions/:assignmentId", api.submissionDownload)
}

// Handlers

func (api *submissionAPI) submissionCreate(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("assignmentFile")
	if err != nil {
		return core.NewValidationError(errNoFileUploaded)
	}
	if fileHeader.Size > maxUploadSize {
		return core.NewValidationError(errFileTooLarge, core.FieldError{Field: "assignmentFile", Error: errFileTooLarge.Error()})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return core.NewValidationError(errNoFileUploaded)
	}
	defer file.Close()

	ns := submission.NewSubmission{
		StudentID:    ctx.FormValue("studentID"),
		Username:     ctx.FormValue("username"),
		AssignmentID: ctx.FormValue("assignmentId"),
		ClassID:      ctx.FormValue("classId"),
		File:         file,
		Size:         fileHeader.Size,
	}

	_, created, err := api.service.Submit(ctx.Request().Context(), ns)
	if err != nil {
		return err
	}
	msg := "Submission updated"
	if created {
		msg = "Assignment submitted"
	}
	return ctx.JSON(http.StatusOK, messageResponse{Message: msg})
}

func (api *submissionAPI) submissionQueryByStudent(ctx echo.Context) error {
	subs, err := api.service.ListByStudent(ctx.Request().Context(), ctx.Param("username"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *submissionAPI) submissionQueryByAssignment(ctx echo.Context) error {
	subs, err := api.service.ListByAssignment(ctx.Request().Context(), ctx.Param("assignmentId"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *submissionAPI) submissionDownload(ctx echo.Context) error {
	assignmentID := ctx.Param("assignmentId")
	w := &archiveResponse{ctx: ctx, name: fmt.Sprintf("submissions-%s.zip", assignmentID)}
	return api.service.ExportArchive(ctx.Request().Context(), assignmentID, w)
}

// archiveResponse commits the zip response headers lazily on the first write,
// so export errors raised before any byte is streamed still surface as
// structured JSON failures.
type archiveResponse struct {
	ctx     echo.Context
	name    string
	started bool
}

func (w *archiveResponse) Write(p []byte) (int, error) {
	if !w.started {
		h := w.ctx.Response().Header()
		h.Set(echo.HeaderContentType, "application/zip")
		h.Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, w.name))
		w.ctx.Response().WriteHeader(http.StatusOK)
		w.started = true
	}
	return w.ctx.Response().Write(p)
}

func (w *archiveResponse) Flush() {
	if w.started {
		w.ctx.Response().Flush()
	}
}
