package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrNameTaken          = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
