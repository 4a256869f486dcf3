package service

import "errors"

// Sentinel errors the handler layer maps to status codes. Everything else that
// escapes a service method is treated as a storage failure.
var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")

	ErrServiceNotFound   = errors.New("service not found")
	ErrInvalidPermission = errors.New("unknown permission")

	ErrContentTypeNotFound = errors.New("content type not found")
	ErrContentItemNotFound = errors.New("content item not found")
	ErrInvalidFieldType    = errors.New("unknown field type")
	ErrDuplicateField      = errors.New("display_id already exists for this content type")
	ErrEmptyDocument       = errors.New("document must not be empty")
)
