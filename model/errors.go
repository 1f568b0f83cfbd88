package model

import "errors"

type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindBackend    ErrorKind = "backend"
)

var (
	ErrProductNotFound = errors.New("product_not_found")
	ErrEmptyResult     = errors.New("empty_result")
	ErrNoLines         = errors.New("no_lines")
)

// AppError tags a failure with its kind so handlers can pick a status code.
type AppError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *AppError) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Validation(op string, err error) error {
	return &AppError{Kind: KindValidation, Op: op, Err: err}
}

func NotFound(op string, err error) error {
	return &AppError{Kind: KindNotFound, Op: op, Err: err}
}

func Backend(op string, err error) error {
	return &AppError{Kind: KindBackend, Op: op, Err: err}
}

// KindOf returns the kind of the first AppError in err's chain, or "" if
// there is none.
func KindOf(err error) ErrorKind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}
