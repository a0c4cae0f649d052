package database

import "fmt"

// ConnectionError is returned when a session cannot be acquired. The driver
// error, if any, is kept as the cause.
type ConnectionError struct {
	Message string
	Err     error
}

func (e *ConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ConnectionError) Unwrap() error { return e.Err }
