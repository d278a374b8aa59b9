package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/college/core"
	"github.com/trezcool/college/core/course"
	"github.com/trezcool/college/core/schedule"
	"github.com/trezcool/college/core/student"
	"github.com/trezcool/college/core/teacher"
	"github.com/trezcool/college/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errMissingToken         = echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed jwt")
	errInvalidToken         = echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired jwt")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// translateDomainErr maps domain sentinels to their HTTP counterpart.
func translateDomainErr(err error) (*echo.HTTPError, bool) {
	switch {
	case errors.Is(err, core.ErrForbidden):
		return errHttpForbidden, true
	case errors.Is(err, user.ErrInvalidCredentials):
		return errAuthenticationFailed, true
	case errors.Is(err, user.ErrAccountDeactivated):
		return errAccountDeactivated, true
	case errors.Is(err, schedule.ErrProfileNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Record not found. Please contact an administrator."), true
	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, student.ErrNotFound),
		errors.Is(err, teacher.ErrNotFound),
		errors.Is(err, course.ErrNotFound),
		errors.Is(err, schedule.ErrNotFound):
		return errHttpNotFound, true
	}
	return nil, false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		if _, isValidation := cause.(*core.ValidationError); !isValidation {
			if herr, ok := translateDomainErr(err); ok {
				cause = herr
			}
		}

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
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			args := []interface{}{errors.Wrap(err, msg)}
			if actor, aErr := getActor(ctx); aErr == nil {
				args = append(args, actor)
			}
			logger.Error(msg, args...)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
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

