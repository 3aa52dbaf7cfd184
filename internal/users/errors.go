package users

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username is already taken")

	ErrQueryTooShort    = errors.New("search query must be at least 2 characters")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrInvalidRole      = errors.New("invalid role")

	ErrRoleChangeForbidden = errors.New("not allowed to change this role")
	ErrStorageFailed       = errors.New("avatar storage failed")
)
