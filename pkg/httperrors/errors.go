// Package httperrors translates errors into HTTP error responses.
package httperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/kresus/backend/pkg/errcodes"
	"github.com/kresus/backend/pkg/models"
	"github.com/kresus/backend/pkg/store"
	"github.com/rs/zerolog/log"
)

var (
	ErrRequestBodyEmpty = errors.New("the request body must not be empty")
	ErrInvalidBody      = errors.New("the body of your request contains invalid or un-parseable data. Please check and try again")
	ErrInvalidQuery     = errors.New("the query string contains unparseable data. Please check the values")
)

// HTTPError is the body of every error response.
type HTTPError struct {
	Error string `json:"error" example:"unknown operation 65392deb-5e92-4268-b114-297faad6cdce"`
	Code  string `json:"code,omitempty" example:"INVALID_PASSWORD"` // Set for errors of a bank sync or a backend call
}

// New writes an error response with the given message.
func New(c *gin.Context, status int, msgAndArgs ...any) {
	msg := ""
	if len(msgAndArgs) == 1 {
		if msgAsStr, ok := msgAndArgs[0].(string); ok {
			msg = msgAsStr
		}
	}

	if len(msgAndArgs) > 1 {
		msg = fmt.Sprintf(msgAndArgs[0].(string), msgAndArgs[1:]...)
	}

	c.JSON(status, HTTPError{
		Error: msg,
	})
}

// CodeStatus is the HTTP status for an error code.
func CodeStatus(code errcodes.Code) int {
	switch code {
	case errcodes.InvalidPassword, errcodes.ExpiredPassword, errcodes.NoPassword:
		return http.StatusUnauthorized
	case errcodes.InvalidParameters:
		return http.StatusBadRequest
	case errcodes.NoAccounts, errcodes.UnknownModule:
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

// Handler writes the error response appropriate for err.
func Handler(c *gin.Context, err error) {
	var precondition *store.PreconditionError
	var syncErr *errcodes.SyncError
	var codeErr *errcodes.Error
	var unmarshalErr *json.UnmarshalTypeError
	var parseErr *time.ParseError

	switch {
	case errors.As(err, &precondition):
		New(c, http.StatusBadRequest, precondition.Message)

	case errors.As(err, &syncErr):
		c.JSON(CodeStatus(syncErr.Code()), HTTPError{
			Error: syncErr.UserMessage(),
			Code:  string(syncErr.Code()),
		})

	case errors.As(err, &codeErr):
		c.JSON(CodeStatus(codeErr.Code), HTTPError{
			Error: codeErr.Error(),
			Code:  string(codeErr.Code),
		})

	case errors.Is(err, models.ErrResourceNotFound):
		New(c, http.StatusNotFound, err.Error())

	case errors.Is(err, models.ErrAccountNumberNotUnique):
		New(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, io.EOF), errors.Is(err, ErrRequestBodyEmpty):
		New(c, http.StatusBadRequest, ErrRequestBodyEmpty.Error())

	case errors.Is(err, ErrInvalidBody), errors.Is(err, ErrInvalidQuery), errors.As(err, &unmarshalErr), errors.As(err, &parseErr):
		New(c, http.StatusBadRequest, err.Error())

	default:
		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		New(c, http.StatusInternalServerError, fmt.Sprintf("An error occurred on the server during your request, please contact your server administrator. The request id is '%v', send this to your server administrator to help them finding the problem", requestid.Get(c)))
	}
}
