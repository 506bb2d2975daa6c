// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"errors"
	"fmt"
)

// Kind classifies a rejected operation.
type Kind string

const (
	KindAuth       Kind = "auth"
	KindValidation Kind = "validation"
	KindState      Kind = "state"
)

// Error is returned for every operation the ledger rejects.
type Error struct {
	Kind    Kind
	Op      string
	Message string
}

// Sentinels for errors.Is. Matching is by kind only.
var (
	ErrAuth       = &Error{Kind: KindAuth, Message: "not authorized"}
	ErrValidation = &Error{Kind: KindValidation, Message: "invalid input"}
	ErrState      = &Error{Kind: KindState, Message: "invalid state"}
)

func (e *Error) Error() string {
	if e.Op == "" {
		return string(e.Kind) + ": " + e.Message
	}
	return e.Op + ": " + e.Message
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the kind of a ledger error anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

func authError(op, format string, args ...any) error {
	return &Error{Kind: KindAuth, Op: op, Message: fmt.Sprintf(format, args...)}
}

func validationError(op, format string, args ...any) error {
	return &Error{Kind: KindValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

func stateError(op, format string, args ...any) error {
	return &Error{Kind: KindState, Op: op, Message: fmt.Sprintf(format, args...)}
}
