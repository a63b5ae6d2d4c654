package service

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid_input")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrDuplicateID        = errors.New("duplicate_id")
	ErrDuplicateEmail     = errors.New("duplicate_email")
	ErrDuplicateNickName  = errors.New("duplicate_nickname")
	ErrInvalidPassword    = errors.New("invalid_password")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrSessionNotFound    = errors.New("session_not_found")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
)
