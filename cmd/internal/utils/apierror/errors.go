package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

type StructuredError struct {
	Errors map[string][]string `json:"errors"`
	Status int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

func (s *StructuredError) Add(field, problem string) {
	s.Errors[field] = append(s.Errors[field], problem)
}

func (s *StructuredError) Empty() bool {
	return len(s.Errors) == 0
}

// Merge copies every problem of other into s.
func (s *StructuredError) Merge(other *StructuredError) {
	if other == nil {
		return
	}
	for field, problems := range other.Errors {
		s.Errors[field] = append(s.Errors[field], problems...)
	}
}

var (
	MalformedBodyError  = NewSimple(400, "Malformed request body")
	InternalServerError = NewSimple(500, "Internal server error, please try again later")

	NotFoundError     = NewSimple(404, "Resource not found")
	NoExportDataError = NewSimple(404, "No data found to export")
	InvalidIDError    = NewSimple(400, "The provided ID is invalid, IDs are integers > 0")

	// DuplicateError never tells which contact detail matched.
	DuplicateError = NewSimple(409, "Another entry matched with the phone number or email address you entered. "+
		"Please contact admin@upra.fr, if you mistakenly submitted wrong information.")

	/*
	 * Used for authentications
	 */
	UnauthorizedError     = NewSimple(401, "Authentication required")
	InvalidAuthTokenError = NewSimple(401, "Invalid or expired authentication token")
	ForbiddenError        = NewSimple(403, "Missing access")
)

func FromValidationError(err error) *StructuredError {
	var ve validator.ValidationErrors
	ok := errors.As(err, &ve)
	if !ok {
		return nil
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required":
			problems[field] = append(problems[field], "This field is required")
		case "min":
			problems[field] = append(problems[field], "Value is too short, min: "+fe.Param())
		case "max":
			problems[field] = append(problems[field], "Value is too long, max: "+fe.Param())
		case "email":
			problems[field] = append(problems[field], "Value must be a valid email address")
		case "notblank":
			problems[field] = append(problems[field], "Value cannot be blank")
		case "companyid":
			problems[field] = append(problems[field], "Value must be a lowercase company identifier")
		case "oneof":
			problems[field] = append(problems[field], "Value must be one of: "+fe.Param())
		case "gt":
			problems[field] = append(problems[field], "Value must be greater than "+fe.Param())

		default:
			problems[field] = append(problems[field], "Invalid value provided")
		}
	}

	return &StructuredError{
		Errors: problems,
		Status: http.StatusBadRequest,
	}
}

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Message: msg}
}

func NewStructured(code int) *StructuredError {
	return &StructuredError{
		Errors: make(map[string][]string),
		Status: code,
	}
}

func NewInvalidParamTypeError(name, dataType string) *APIError {
	return NewSimple(http.StatusBadRequest, "Parameter '%s' has invalid type, expected: %s", name, dataType)
}

func NewUnsupportedCompanyError(company string) *StructuredError {
	s := NewStructured(http.StatusBadRequest)
	s.Add("company", fmt.Sprintf("Company '%s' is not accepting registrations", company))
	return s
}

func NewUnsupportedFormatError(format string) *APIError {
	return NewSimple(http.StatusBadRequest, "Unsupported export format '%s', expected: csv, excel or json", format)
}
