package storage

import "errors"

var (
	ErrNotAnImage    = errors.New("please upload an image file")
	ErrEmptyFile     = errors.New("file is empty")
	ErrNotConfigured = errors.New("image storage is not configured")
)
