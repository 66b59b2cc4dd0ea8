package apperr

import (
	"errors"
	"net/http"
)

// Error is a client-facing failure with a fixed status code. Message is shown
// to the caller, Kind is a short category label.
type Error struct {
	Status  int
	Message string
	Kind    string
}

func (e *Error) Error() string { return e.Message }

func New(status int, message, kind string) *Error {
	return &Error{Status: status, Message: message, Kind: kind}
}

var (
	ErrInvalidToken         = New(http.StatusBadRequest, "Token is Invalid", "Token Error")
	ErrExpiredToken         = New(http.StatusUnauthorized, "Token has expired", "Token Expired")
	ErrRevokedToken         = New(http.StatusBadRequest, "Token has been revoked, please Login in", "Token Error")
	ErrAccessTokenRequired  = New(http.StatusUnauthorized, "Provide a Valid Access Token", "Access Token Required")
	ErrRefreshTokenRequired = New(http.StatusUnauthorized, "Provide a Valid Refresh Token", "Refresh Token Required")
	ErrAccessDenied         = New(http.StatusForbidden, "You do not have the permissions to perform this action", "Access Denied")
	ErrInvalidCredentials   = New(http.StatusBadRequest, "Credentials Invalid or Incorrect", "Request Error")
	ErrInvalidURL           = New(http.StatusBadRequest, "Invalid URL", "Request Error")
	ErrBadRequest           = New(http.StatusBadRequest, "Invalid request body", "Request Error")

	ErrUserNotFound   = New(http.StatusNotFound, "User is not found", "Not Found")
	ErrAdminNotFound  = New(http.StatusNotFound, "Admin is not found", "Not Found")
	ErrEditorNotFound = New(http.StatusNotFound, "Editor is not found", "Not Found")
	ErrCourseNotFound = New(http.StatusNotFound, "Course is not found", "Not Found")
	ErrTagNotFound    = New(http.StatusNotFound, "Tag is not found", "Not Found")
	ErrTermNotFound   = New(http.StatusNotFound, "Definition Not Found", "Not Found")

	ErrUserAlreadyExists   = New(http.StatusBadRequest, "User with email already exists", "Email cannot be duplicate")
	ErrAdminAlreadyExists  = New(http.StatusBadRequest, "Admin with email already exists", "Email cannot be duplicate")
	ErrEditorAlreadyExists = New(http.StatusBadRequest, "Editor with email already exists", "Email cannot be duplicate")
	ErrTagAlreadyExists    = New(http.StatusBadRequest, "Tag with name already exists", "Name cannot be duplicate")

	ErrStorage       = New(http.StatusInternalServerError, "Storage is unavailable, try again later", "Storage Error")
	ErrNotConfigured = New(http.StatusServiceUnavailable, "Super admin credentials are not configured", "Configuration Error")
)

// As unwraps err to an *Error. Wrapped chains built with fmt.Errorf("%w") are
// followed.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
