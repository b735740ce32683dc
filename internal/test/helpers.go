package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/program-ledger/console/internal/backend"
	"github.com/program-ledger/console/internal/controllers"
	"github.com/program-ledger/console/internal/format"
	"github.com/program-ledger/console/internal/httputil"
	"github.com/program-ledger/console/internal/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// Now is the time the console believes it is in tests.
var Now = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

// Formatter is the formatter used by the console in tests.
func Formatter() *format.Formatter {
	return format.New(language.AmericanEnglish, currency.USD, time.UTC)
}

// Console sets up the full router of the console, talking to the backend
// at backendURL.
func Console(t *testing.T, backendURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r, teardown, err := router.Config()
	require.Nil(t, err, "Router could not be initialized")
	t.Cleanup(teardown)

	client, err := backend.New(backendURL, backend.WithTimeout(5*time.Second))
	require.Nil(t, err)

	co := controllers.New(client, Formatter())
	co.Now = func() time.Time { return Now }

	require.Nil(t, router.AttachRoutes(co, r.Group("/")))
	r.NoRoute(co.NoRoute)

	return r
}

// Request is a helper method to simplify making a HTTP request for tests.
//
// A string body is sent as is, everything else is encoded as JSON.
func Request(t *testing.T, handler http.Handler, method, url string, body any, headers ...map[string]string) httptest.ResponseRecorder {
	var byteStr []byte
	var err error

	switch {
	case body == nil:
	case reflect.TypeOf(body).Kind() == reflect.String:
		byteStr = []byte(body.(string))
	default:
		byteStr, err = json.Marshal(body)
		if err != nil {
			assert.FailNow(t, "Request body could not be marshalled from object input", err)
		}
	}

	recorder := httptest.NewRecorder()
	req, _ := http.NewRequest(method, url, bytes.NewBuffer(byteStr))

	for _, headerMap := range headers {
		for header, value := range headerMap {
			req.Header.Set(header, value)
		}
	}

	handler.ServeHTTP(recorder, req)

	return *recorder
}

// PostForm submits a form like a browser does.
func PostForm(t *testing.T, handler http.Handler, url string, values url.Values) httptest.ResponseRecorder {
	return Request(t, handler, http.MethodPost, url, values.Encode(), map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
	})
}

func AssertHTTPStatus(t *testing.T, expected int, r *httptest.ResponseRecorder) {
	assert.Equal(t, expected, r.Code, "HTTP status is wrong. Response body: %s", r.Body.String())
}

// AssertRedirect checks that a form submission redirected to location.
func AssertRedirect(t *testing.T, location string, r *httptest.ResponseRecorder) {
	AssertHTTPStatus(t, http.StatusSeeOther, r)
	assert.Equal(t, location, r.Header().Get("Location"))
}

// AssertContains checks that the rendered page contains all snippets.
func AssertContains(t *testing.T, r *httptest.ResponseRecorder, snippets ...string) {
	body := r.Body.String()
	for _, s := range snippets {
		assert.True(t, strings.Contains(body, s), "Page does not contain %q. Body: %s", s, body)
	}
}

// DecodeResponse decodes an HTTP response into a target struct.
func DecodeResponse(t *testing.T, r *httptest.ResponseRecorder, target interface{}) {
	err := json.NewDecoder(r.Body).Decode(target)
	if err != nil {
		assert.FailNow(t, "Parsing error", "Unable to parse response from server %q into %v, '%v'", r.Body, reflect.TypeOf(target), err)
	}
}

func DecodeError(t *testing.T, s []byte) string {
	var r httputil.HTTPError
	if err := json.Unmarshal(s, &r); err != nil {
		assert.Fail(t, "Not valid JSON!", "%s", s)
	}

	return r.Error
}
