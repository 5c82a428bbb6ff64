package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess   = 0 // Command completed
	ExitThreshold = 1 // score --min not met
	ExitError     = 2 // Configuration or runtime error
)

// ThresholdError indicates that scores were computed, but one or more
// e-bikes scored below the requested minimum.
type ThresholdError struct {
	Message string
}

func (e *ThresholdError) Error() string {
	return e.Message
}

func main() {
	os.Exit(exitCode(execute()))
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintln(os.Stderr, err)

	var thresholdErr *ThresholdError
	if errors.As(err, &thresholdErr) {
		return ExitThreshold
	}
	// All other errors are configuration/runtime errors
	return ExitError
}
