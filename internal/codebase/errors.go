package codebase

import "errors"

var (
	ErrNotExist        = errors.New("path does not exist")
	ErrNotDirectory    = errors.New("path is not a directory")
	ErrUnknownLanguage = errors.New("no supported source files found")
)
