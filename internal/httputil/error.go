package httputil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/program-ledger/console/internal/backend"
	"github.com/program-ledger/console/internal/types"
	"github.com/rs/zerolog/log"
)

// HTTPError is used for error responses that contain a body.
type HTTPError struct {
	Error string `json:"error"`
}

// Error is used to return an error with the corresponding HTTP status code to a controller.
type Error struct {
	Err    error
	Status int // Used with http.StatusX for the corresponding HTTP status code
}

// Nil checks if the Error is the zero value.
func (e Error) Nil() bool {
	return e.Err == nil && e.Status == 0
}

func (e Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code and the message to show for an error.
//
// Client errors of the backend are passed on with their message. All
// failures to get a usable answer from the backend are reported as 502.
func Status(c *gin.Context, err error) (int, string) {
	var httpErr Error
	if errors.As(err, &httpErr) {
		return httpErr.Status, httpErr.Err.Error()
	}

	var apiErr *backend.APIError
	var transportErr *backend.TransportError

	switch {
	case errors.Is(err, types.ErrInvalidID), errors.Is(err, types.ErrInvalidDate):
		return http.StatusBadRequest, err.Error()

	case errors.As(err, &apiErr):
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status, apiErr.Message()
		}
		return http.StatusBadGateway, fmt.Sprintf("The ledger backend failed to handle the request: %s", apiErr.Message())

	case errors.As(err, &transportErr):
		if transportErr.Timeout() {
			return http.StatusBadGateway, "The ledger backend did not answer in time"
		}
		return http.StatusBadGateway, backend.ErrUnavailable.Error()

	case errors.Is(err, backend.ErrInvalidResponse):
		return http.StatusBadGateway, backend.ErrInvalidResponse.Error()
	}

	log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
	return http.StatusInternalServerError, fmt.Sprintf("An error occurred on the server during your request, please contact your server administrator. The request id is '%v', send this to your server administrator to help them finding the problem", requestid.Get(c))
}

// NewError writes the error as JSON with the status appropriate for it.
func NewError(c *gin.Context, err error) {
	status, msg := Status(c, err)
	c.JSON(status, HTTPError{
		Error: msg,
	})
}
