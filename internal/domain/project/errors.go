package project

import "errors"

// InvalidInputMessage is shown to users when a submitted form fails validation.
const InvalidInputMessage = "Invalid input, please try again"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates the submitted form did not validate.
	ErrInvalidInput = errors.New("invalid input, please try again")
	// ErrInvalidStatus indicates an unknown status value.
	ErrInvalidStatus = errors.New("invalid project status")
)
