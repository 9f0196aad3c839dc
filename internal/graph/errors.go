package graph

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConnection  = errors.New("invalid connection")
	ErrBlockNotFound      = errors.New("block not found")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrDuplicateBlock     = errors.New("duplicate block id")
)

// ConnectionError describes why a connection was rejected.
type ConnectionError struct {
	Kind error
	Msg  string
}

func (e *ConnectionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *ConnectionError) Unwrap() error { return e.Kind }

func invalidf(format string, args ...any) error {
	return &ConnectionError{Kind: ErrInvalidConnection, Msg: fmt.Sprintf(format, args...)}
}
