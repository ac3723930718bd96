package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnknownSemester     = errors.New("unknown semester configuration")
	ErrUnknownCourseCode   = errors.New("course code has no credit weight")
	ErrSGPAUndefined       = errors.New("sgpa undefined: total credits is zero")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrInvalidCatalogue    = errors.New("invalid semester catalogue")
	ErrStoreConflict       = errors.New("result store changed during write")
	ErrInvalidSheet        = errors.New("result sheet does not have the expected header")
	ErrUnsupportedFormat   = errors.New("unsupported export format")
)
