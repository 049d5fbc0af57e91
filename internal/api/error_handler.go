package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/ougirez/sdgdash/internal/domain"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/logger"
)

const internalErrorMessage = "internal server error"

func validationMessage(errs validator.ValidationErrors) string {
	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return "invalid fields: " + strings.Join(fields, ", ")
}

func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		codedErr      *constants.CodedError
		httpErr       *echo.HTTPError
		validationErr validator.ValidationErrors
	)

	code := http.StatusInternalServerError
	msg := internalErrorMessage
	switch {
	case errors.As(err, &codedErr):
		code, msg = codedErr.Code(), codedErr.Error()
	case errors.As(err, &validationErr):
		code, msg = http.StatusBadRequest, validationMessage(validationErr)
	case errors.As(err, &httpErr):
		code, msg = httpErr.Code, fmt.Sprint(httpErr.Message)
	}

	ctx := c.Request().Context()
	if code >= http.StatusInternalServerError {
		logger.Errorf(ctx, "%s %s: %s", c.Request().Method, c.Path(), err.Error())
	} else {
		logger.Debugf(ctx, "%s %s: %s", c.Request().Method, c.Path(), err.Error())
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, domain.ErrorResponse{
		Error: msg,
		Code:  code,
	})
}
