package routing

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error is a problem-details error returned by handlers registered through
// ErrorHandler.
type Error struct {
	// Status is the HTTP status code (e.g., 400, 404, 500)
	Status int `json:"status"`
	// Title is a short, human-readable summary of the problem type
	Title string `json:"title"`
	// Detail is a human-readable explanation specific to this occurrence
	Detail string `json:"detail,omitempty"`
}

func (e Error) Error() string {
	if e.Status == 0 && e.Title == "" {
		return "unknown error"
	}
	if e.Detail == "" {
		return fmt.Sprintf("%d %s", e.Status, e.Title)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
}

func ErrBadRequest(detail string) Error {
	return Error{Status: http.StatusBadRequest, Title: "Bad Request", Detail: detail}
}
func ErrUnauthorized(detail string) Error {
	return Error{Status: http.StatusUnauthorized, Title: "Unauthorized", Detail: detail}
}
func ErrNotFound(detail string) Error {
	return Error{Status: http.StatusNotFound, Title: "Not Found", Detail: detail}
}
func ErrConflict(detail string) Error {
	return Error{Status: http.StatusConflict, Title: "Conflict", Detail: detail}
}
func ErrInternal(detail string) Error {
	return Error{Status: http.StatusInternalServerError, Title: "Internal Server Error", Detail: detail}
}

// WrapError normalizes any error into an Error.
func WrapError(err error) Error {
	var e Error
	if errors.As(err, &e) {
		return e
	}
	var pe *Error
	if errors.As(err, &pe) && pe != nil {
		return *pe
	}
	return ErrInternal(err.Error())
}

// ErrorHandler adapts a handler that reports failures by returning an error.
// A returned error is written as an application/problem+json response.
func ErrorHandler(h func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			writeError(w, WrapError(err))
		}
	}
}

func writeError(w http.ResponseWriter, e Error) {
	if e.Status == 0 {
		e.Status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(e)
}
