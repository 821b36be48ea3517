package lead

import "net/http"

// Error codes reported to the client.
const (
	CodeInvalidRecaptcha  = "INVALID_RECAPTCHA"
	CodeInvalidEmail      = "INVALID_EMAIL"
	CodeInvalidAuthHeader = "INVALID_AUTH_HEADER"
	CodeServerError       = "SERVER_ERROR"
	CodeUpstreamError     = "UPSTREAM_ERROR"
	CodeInvalidRequest    = "INVALID_REQUEST"
)

// Error is one field-tagged problem with a submission.
type Error struct {
	Message   string   `json:"message"`
	ErrorCode string   `json:"errorCode"`
	Fields    []string `json:"fields"`
}

// Result is the outcome of a validation request. StatusCode is the HTTP
// status to answer with; ID is the created lead, when known.
type Result struct {
	Success    bool    `json:"success"`
	Errors     []Error `json:"errors"`
	StatusCode int     `json:"-"`
	ID         string  `json:"-"`
}

// Failure builds a single-error Result.
func Failure(status int, code, message string, fields ...string) Result {
	if fields == nil {
		fields = []string{}
	}
	return Result{
		Success:    false,
		Errors:     []Error{{Message: message, ErrorCode: code, Fields: fields}},
		StatusCode: status,
	}
}

// InvalidRecaptcha is returned when the bot check denies the submission.
func InvalidRecaptcha() Result {
	return Failure(http.StatusBadRequest, CodeInvalidRecaptcha, "Recaptcha is invalid")
}

// InvalidEmail is returned when the email check denies the address.
func InvalidEmail() Result {
	return Failure(http.StatusBadRequest, CodeInvalidEmail, "Email is invalid", FieldEmail)
}

// MissingCredential is returned when no submission credential is available.
func MissingCredential() Result {
	return Failure(http.StatusUnauthorized, CodeInvalidAuthHeader, "token is empty")
}

// InvalidRequest is returned when the form body cannot be read.
func InvalidRequest() Result {
	return Failure(http.StatusBadRequest, CodeInvalidRequest, "Request body is invalid")
}

// ServerError hides an internal failure from the client.
func ServerError() Result {
	return Failure(http.StatusInternalServerError, CodeServerError, "Internal Server Error")
}

// Code returns the first error code, or "" on success.
func (r Result) Code() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].ErrorCode
}
