// Package httperrors implements the error responses of the API.
//
// All error bodies carry a "detail" field: either a string or, for
// validation failures, an array of {loc, msg} entries. Clients normalize
// both shapes into one message.
package httperrors

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/go-sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// HTTPError is the response body for all error responses with a
// single message.
type HTTPError struct {
	Detail string `json:"detail" example:"Transaction not found"`
}

// ValidationError is one field-level validation failure.
type ValidationError struct {
	Loc []string `json:"loc" example:"body,amount_cents"`
	Msg string   `json:"msg" example:"must be a positive integer"`
}

// HTTPValidationError is the response body for validation failures.
type HTTPValidationError struct {
	Detail []ValidationError `json:"detail"`
}

// New writes an error response with the passed status. msgAndArgs is either
// a plain message or a format string with arguments.
func New(c *gin.Context, status int, msgAndArgs ...any) {
	msg := ""
	if len(msgAndArgs) == 1 {
		if msgAsStr, ok := msgAndArgs[0].(string); ok {
			msg = msgAsStr
		} else {
			msg = fmt.Sprintf("%+v", msgAndArgs[0])
		}
	}

	if len(msgAndArgs) > 1 {
		msg = fmt.Sprintf(msgAndArgs[0].(string), msgAndArgs[1:]...)
	}

	c.JSON(status, HTTPError{Detail: msg})
}

// Validation writes a 422 response with field-level validation errors.
func Validation(c *gin.Context, errs ...ValidationError) {
	c.JSON(http.StatusUnprocessableEntity, HTTPValidationError{Detail: errs})
}

// InvalidUUID writes the error response for an unparseable resource ID.
func InvalidUUID(c *gin.Context) {
	New(c, http.StatusBadRequest, "The specified resource ID is not a valid UUID")
}

// InvalidQueryString writes the error response for an unparseable query string.
func InvalidQueryString(c *gin.Context) {
	New(c, http.StatusBadRequest, "The query string contains unparseable data. Please check the values")
}

// DBErrorMessage returns a status code and message appropriate to the
// database error that has occurred.
func DBErrorMessage(err error) (int, string) {
	// Email addresses are unique
	if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
		return http.StatusConflict, "Email already registered"

		// A referenced resource does not exist
	} else if strings.Contains(err.Error(), "constraint failed: FOREIGN KEY constraint failed") {
		return http.StatusBadRequest, "There is no resource for the ID you specified in the reference to another resource"
	}

	log.Error().Msgf("%T: %v", err, err.Error())
	return http.StatusInternalServerError, "A database error occurred during your request"
}

// Handler writes the error response for errors raised while fetching or
// writing data.
func Handler(c *gin.Context, err error) {
	switch {
	// No record found => 404
	case errors.Is(err, gorm.ErrRecordNotFound):
		New(c, http.StatusNotFound, "There is no resource for the ID you specified")

	// Database error
	case reflect.TypeOf(err) == reflect.TypeOf(&sqlite.Error{}):
		code, msg := DBErrorMessage(err)
		New(c, code, msg)

	// End of file reached when reading the body
	case errors.Is(err, io.EOF):
		New(c, http.StatusBadRequest, "The request body must not be empty")

	// Time could not be parsed
	case reflect.TypeOf(err) == reflect.TypeOf(&time.ParseError{}):
		New(c, http.StatusBadRequest, err.Error())

	default:
		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		New(c, http.StatusInternalServerError, "An error occurred on the server during your request. The request id is '%s', send this to your server administrator to help them find the problem", requestid.Get(c))
	}
}
