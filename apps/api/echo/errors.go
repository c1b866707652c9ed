package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/account"
	"github.com/trezcool/kazi/core/school"
	"github.com/trezcool/kazi/core/submission"
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how
// to handle our errors. The HTTP status communicates the error category:
// 404 not-found, 409 conflict, 400 validation or business-rule rejection,
// 500 anything else (reported generically, detail logged for diagnostics).
// signalShutdown is called whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(core.Translator)
			}
			code = http.StatusBadRequest
			message = echo.Map{"message": "Invalid input", "fields": fldErrs}
		case *core.ValidationError:
			code = http.StatusBadRequest
			message = origErr.Error()
		case *account.RoleMismatchError:
			code = http.StatusBadRequest
			message = origErr.Error()
		default:
			switch cause {
			case account.ErrNotFound, school.ErrClassNotFound, school.ErrAssignmentNotFound, submission.ErrNoSubmissions:
				code = http.StatusNotFound
				message = cause.Error()
			case account.ErrUsernameTaken, school.ErrCodeTaken:
				code = http.StatusConflict
				message = cause.Error()
			case account.ErrInvalidPassword, submission.ErrDeadlinePassed:
				code = http.StatusBadRequest
				message = cause.Error()
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg
				logger.Error(msg, errors.Wrap(err, msg))

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if m, ok := message.(string); ok {
			message = messageResponse{Message: m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead {
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
