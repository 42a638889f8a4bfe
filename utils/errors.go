package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// ErrorKind classifies a failure for status mapping and metrics. Validation
// errors happen before any side effect; upload errors are transport-layer
// multipart failures; file rejections are policy violations caught after a
// file already landed on disk and imply cleanup has run.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindUpload
	KindFileRejected
	KindNotFound
	KindConflict
	KindPersistence
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUpload:
		return "upload"
	case KindFileRejected:
		return "file_rejected"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindPersistence:
		return "persistence"
	default:
		return "internal"
	}
}

type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func ValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func UploadError(message string) *AppError {
	return &AppError{Kind: KindUpload, Message: message}
}

func FileRejectedError(message string) *AppError {
	return &AppError{Kind: KindFileRejected, Message: message}
}

func NotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func ConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func PersistenceError(err error) *AppError {
	return &AppError{Kind: KindPersistence, Message: "database operation failed", Err: err}
}

func InternalServerError(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "internal server error", Err: err}
}

// WriteError renders a failure as the terminal JSON response. Unrecognized
// errors become a generic 500 so internal details never leak.
func WriteError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		TrackError(KindInternal.String())
		InternalError(c, "internal server error")
		return
	}

	TrackError(appErr.Kind.String())

	switch appErr.Kind {
	case KindValidation, KindUpload, KindFileRejected:
		BadRequest(c, appErr.Message)
	case KindNotFound:
		NotFound(c, appErr.Message)
	case KindConflict:
		Conflict(c, appErr.Message)
	default:
		InternalError(c, appErr.Message)
	}
}
