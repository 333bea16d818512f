package decoder

import (
	"errors"
	"fmt"
)

// Kind classifies why a record was rejected.
type Kind string

const (
	// KindParse indicates the bytes do not conform to the feature schema.
	KindParse Kind = "parse"
	// KindValidation indicates per-object lists that disagree in length.
	KindValidation Kind = "validation"
	// KindImageDecode indicates image or mask bytes that are not a supported raster.
	KindImageDecode Kind = "image_decode"
)

var (
	ErrParse       = errors.New("record parse error")
	ErrValidation  = errors.New("record validation error")
	ErrImageDecode = errors.New("image decode error")
)

// Error is returned for every rejected record.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindParse:
		return target == ErrParse
	case KindValidation:
		return target == ErrValidation
	case KindImageDecode:
		return target == ErrImageDecode
	}
	return false
}

// KindOf returns the kind of a decode error, or "" if err did not come from Decode.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func validationError(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

func imageDecodeError(field, message string, cause error) *Error {
	return &Error{Kind: KindImageDecode, Field: field, Message: message, Cause: cause}
}
