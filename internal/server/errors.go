package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/edumentor/readiness/internal/analysis"
)

// ErrEmailAlreadyExists indicates the email is already registered.
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates a failed login.
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrNoStudentSkills indicates analysis was requested before the student
// submitted any skills.
type ErrNoStudentSkills struct{}

func (e *ErrNoStudentSkills) Error() string {
	return "no skills submitted yet"
}

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus maps an error to the response status code.
func HTTPStatus(err error) int {
	var noJobs *analysis.ErrNoJobsForRole
	if errors.As(err, &noJobs) {
		return http.StatusNotFound
	}

	switch err.(type) {
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials:
		return http.StatusUnauthorized
	case *ErrNoStudentSkills, *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
