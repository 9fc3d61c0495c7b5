package httputil

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/kresus/backend/pkg/httperrors"
	"github.com/rs/zerolog/log"
)

// BindData binds the JSON body of the request to data.
func BindData(c *gin.Context, data any) error {
	if err := c.ShouldBindJSON(data); err != nil {
		if errors.Is(err, io.EOF) {
			return httperrors.ErrRequestBodyEmpty
		}

		var jsonUnmarshalTypeError *json.UnmarshalTypeError
		if errors.As(err, &jsonUnmarshalTypeError) {
			return err
		}

		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		return httperrors.ErrInvalidBody
	}

	return nil
}

// BindDataHandleErrors binds the body and writes the error response if
// that fails. It reports whether binding succeeded.
func BindDataHandleErrors(c *gin.Context, data any) bool {
	if err := BindData(c, data); err != nil {
		httperrors.Handler(c, err)
		return false
	}
	return true
}
