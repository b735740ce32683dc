package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotFound        = errors.New("the requested record does not exist")
	ErrUnavailable     = errors.New("the ledger backend could not be reached")
	ErrInvalidResponse = errors.New("the ledger backend sent a response that could not be read")
)

// APIError is returned when the backend answers with a non-2xx status.
type APIError struct {
	Status int
	Method string
	Path   string
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend: %s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("backend: %s %s: %d %s", e.Method, e.Path, e.Status, e.Detail)
}

// Is makes errors.Is(err, ErrNotFound) work for 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Message returns the text to show to a user.
func (e *APIError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return http.StatusText(e.Status)
}

// TransportError is returned when no response was received.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrUnavailable
}

// Timeout reports whether the request ran into its deadline.
func (e *TransportError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// IsNotFound reports whether the backend answered with 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// parseDetail extracts the message from an error body.
//
// The backend reports errors as {"detail": "..."}, validation errors as
// {"detail": [{"loc": [...], "msg": "..."}]}.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return text
	}

	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		messages := make([]string, 0, len(items))
		for _, item := range items {
			// The first element is the request part, e.g. "body"
			path := make([]string, 0, len(item.Loc))
			for i, l := range item.Loc {
				if i == 0 && len(item.Loc) > 1 {
					continue
				}
				path = append(path, fmt.Sprint(l))
			}

			if len(path) == 0 {
				messages = append(messages, item.Msg)
				continue
			}
			messages = append(messages, strings.Join(path, ".")+": "+item.Msg)
		}
		return strings.Join(messages, "; ")
	}

	return string(envelope.Detail)
}
