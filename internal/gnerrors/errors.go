// Package gnerrors defines the error taxonomy shared by every GitNano
// component. Leaf packages return a *Error wrapping one of the Kind
// constants; callers use Is/As or errors.Is against the sentinel Kind
// values to branch on failure class without string matching.
package gnerrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure the way §7 of the design groups them. It is
// not itself an error value; wrap it with New or Wrap.
type Kind string

const (
	NotARepository  Kind = "NotARepository"
	NotFound        Kind = "NotFound"
	Ambiguous       Kind = "Ambiguous"
	CorruptObject   Kind = "CorruptObject"
	IntegrityError  Kind = "IntegrityError"
	TypeMismatch    Kind = "TypeMismatch"
	InvalidTree     Kind = "InvalidTree"
	NoParent        Kind = "NoParent"
	OutOfHistory    Kind = "OutOfHistory"
	InvalidArgument Kind = "InvalidArgument"
	IOError         Kind = "IOError"
)

// Error is the single result-carrying error type. Operand holds whatever
// is most useful to print alongside Kind: a path, a hash, a ref token.
type Error struct {
	Kind    Kind
	Operand string
	Err     error
}

func (e *Error) Error() string {
	if e.Operand == "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Kind, e.Err)
		}
		return string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Operand, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Operand)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a bare Error of the given kind with an operand.
func New(kind Kind, operand string) *Error {
	return &Error{Kind: kind, Operand: operand}
}

// Wrap attaches a kind and operand to an underlying error.
func Wrap(kind Kind, operand string, err error) *Error {
	return &Error{Kind: kind, Operand: operand, Err: err}
}

// Is reports whether err (or something it wraps) carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf extracts the Kind from err, or "" if err does not carry one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
