package gitrate

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrEmptyUsername = errors.New("username is required")

// NetworkError means the request could not be sent or its response could not be read.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RemoteError means the API answered but reported a failure.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("bad status: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("bad status: %d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

// UserMessage turns a client error into a single line suitable for the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, ErrEmptyUsername) {
		return "Please enter a GitHub username."
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return "Could not reach the rating service. Please try again."
	}

	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		switch {
		case remoteErr.Status == http.StatusNotFound:
			return "GitHub user not found."
		case remoteErr.Status == http.StatusTooManyRequests:
			return "Rate limit reached. Please try again later."
		default:
			return "Failed to analyze profile. Please try again."
		}
	}

	return "Something went wrong. Please try again."
}
