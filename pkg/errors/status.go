package errors

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// Status is a platform status code (an HRESULT). The portable engine reports
// in the same code space so callers see one set of values on every platform.
type Status uint32

// Well-known status codes.
const (
	StatusOK               Status = 0x00000000
	StatusFalse            Status = 0x00000001
	StatusFail             Status = 0x80004005
	StatusUnexpected       Status = 0x8000FFFF
	StatusAccessDenied     Status = 0x80070005
	StatusInvalidArg       Status = 0x80070057
	StatusFileNotFound     Status = 0x80070002
	StatusPathNotFound     Status = 0x80070003
	StatusInvalidDrive     Status = 0x8007000F
	StatusSharingViolation Status = 0x80070020
	StatusFileExists       Status = 0x80070050
	StatusAlreadyExists    Status = 0x800700B7
	StatusDirNotEmpty      Status = 0x80070091
	StatusDirectoryInvalid Status = 0x8007010B
	StatusCancelled        Status = 0x800704C7

	// Copy engine codes reported by the shell's file operation service.
	StatusUserCancelled       Status = 0x80270000
	StatusEngineCancelled     Status = 0x80270001
	StatusRequiresElevation   Status = 0x80270002
	StatusSameFile            Status = 0x80270003
	StatusDiffDir             Status = 0x80270004
	StatusFolderIsFileDest    Status = 0x8027000B
	StatusFileIsFolderDest    Status = 0x8027000C
	StatusAccessDeniedSrc     Status = 0x80270021
	StatusAccessDeniedDest    Status = 0x80270022
	StatusPathNotFoundSrc     Status = 0x80270023
	StatusPathNotFoundDest    Status = 0x80270024
	StatusAlreadyExistsNormal Status = 0x8027002A
	StatusAlreadyExistsRO     Status = 0x8027002B
	StatusAlreadyExistsSystem Status = 0x8027002C
	StatusAlreadyExistsFolder Status = 0x8027002D
)

// Succeeded reports whether the severity bit is clear.
func (s Status) Succeeded() bool {
	return s&0x80000000 == 0
}

// Failed reports whether the severity bit is set.
func (s Status) Failed() bool {
	return !s.Succeeded()
}

// Cancelled reports whether the status means the user or caller cancelled.
func (s Status) Cancelled() bool {
	return s.Category() == ErrCancelled
}

func (s Status) String() string {
	return fmt.Sprintf("0x%08X", uint32(s))
}

// Category maps a status code to the closest error category.
func (s Status) Category() ErrorCode {
	switch s {
	case StatusOK, StatusFalse:
		return ""
	case StatusFileNotFound, StatusPathNotFound, StatusInvalidDrive,
		StatusPathNotFoundSrc, StatusPathNotFoundDest:
		return ErrNotFound
	case StatusFileExists, StatusAlreadyExists,
		StatusAlreadyExistsNormal, StatusAlreadyExistsRO,
		StatusAlreadyExistsSystem, StatusAlreadyExistsFolder:
		return ErrAlreadyExists
	case StatusAccessDenied, StatusSharingViolation, StatusRequiresElevation,
		StatusAccessDeniedSrc, StatusAccessDeniedDest:
		return ErrPermission
	case StatusDirectoryInvalid, StatusFolderIsFileDest:
		return ErrNotADirectory
	case StatusFileIsFolderDest:
		return ErrIsADirectory
	case StatusInvalidArg:
		return ErrInvalidInput
	case StatusCancelled, StatusUserCancelled, StatusEngineCancelled:
		return ErrCancelled
	}
	if s.Succeeded() {
		return ""
	}
	return ErrOperation
}

// FromStatus builds the categorized error for a failed status. It returns nil
// for success codes.
func FromStatus(status Status, message string) *OperationError {
	code := status.Category()
	if code == "" {
		return nil
	}
	return New(code, message).WithStatus(status)
}

// StatusFromError recovers a status code from an error. OperationErrors carry
// their own; filesystem errors from the standard library are translated.
func StatusFromError(err error) Status {
	if err == nil {
		return StatusOK
	}

	var opErr *OperationError
	if errors.As(err, &opErr) && opErr.Status != 0 {
		return opErr.Status
	}

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCancelled
	case errors.Is(err, fs.ErrNotExist):
		return StatusFileNotFound
	case errors.Is(err, fs.ErrExist):
		return StatusAlreadyExists
	case errors.Is(err, fs.ErrPermission):
		return StatusAccessDenied
	case errors.Is(err, syscall.EISDIR):
		return StatusFileIsFolderDest
	case errors.Is(err, syscall.ENOTDIR):
		return StatusDirectoryInvalid
	case errors.Is(err, syscall.ENOTEMPTY):
		return StatusDirNotEmpty
	case errors.Is(err, fs.ErrInvalid):
		return StatusInvalidArg
	}

	if opErr != nil {
		switch opErr.Code {
		case ErrNotFound:
			return StatusFileNotFound
		case ErrAlreadyExists:
			return StatusAlreadyExists
		case ErrPermission:
			return StatusAccessDenied
		case ErrNotADirectory:
			return StatusDirectoryInvalid
		case ErrIsADirectory:
			return StatusFileIsFolderDest
		case ErrInvalidInput:
			return StatusInvalidArg
		case ErrCancelled:
			return StatusCancelled
		}
	}
	return StatusFail
}
