package jenkins

import (
	"errors"
)

// The errors of this package can check the error type via errors.Is function.
var (
	// ErrInvalidURL is a error for if the server URL was not a usable http/https URL.
	ErrInvalidURL = errors.New("invalid server URL")

	// ErrCommunicate is a error for if failed to connect or communicate with the Jenkins server.
	ErrCommunicate = errors.New("server communication error")

	// ErrInvalidResponse is a error for if the server replied something that is not the expected JSON document.
	ErrInvalidResponse = errors.New("invalid server response")
)
