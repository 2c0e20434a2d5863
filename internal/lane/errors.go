package lane

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is delivered to units submitted after Close.
	ErrClosed = errors.New("lane closed")

	// ErrAlreadyRunning is returned by a second concurrent call to Run.
	ErrAlreadyRunning = errors.New("lane already running")
)

// PanicError is delivered to a unit's Future when the unit panicked.
type PanicError struct {
	// Task is the name the unit was submitted with.
	Task string

	// Value is the recovered panic value.
	Value any

	// Stack is the goroutine stack at the time of the panic.
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("task %s panicked: %v", e.Task, e.Value)
}

// IsPanic returns true if err was caused by a panicking unit.
// Uses errors.As to handle wrapped errors.
func IsPanic(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}
