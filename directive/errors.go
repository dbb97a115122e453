package directive

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownPattern        = errors.New("unknown simple directive pattern")
	ErrConflictingDirectives = errors.New("the public, private:true, and no-cache:true/no-store directives are exclusive, you cannot define more than one of them")
	ErrInvalidDuration       = errors.New("invalid time string")
	ErrInvalidDeltaValue     = errors.New("invalid delta value")
	ErrInvalidToken          = errors.New("invalid token")
	ErrInvalidFieldValue     = errors.New("invalid field value")
)

// Error describes a directive value that could not be rendered.
// It unwraps to one of the package sentinel errors.
type Error struct {
	Kind      error
	Directive Name
	Value     any
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ErrInvalidDuration:
		return fmt.Sprintf("Cache-Control: Invalid time string `%v` for the %s delta directive", e.Value, e.Directive)
	case ErrInvalidDeltaValue:
		return fmt.Sprintf("Cache-Control: Invalid value `%v` for the %s delta directive", e.Value, e.Directive)
	case ErrInvalidToken:
		return fmt.Sprintf("Cache-Control: Invalid token %q for the %s field directive", e.Value, e.Directive)
	case ErrInvalidFieldValue:
		return fmt.Sprintf("Cache-Control: Invalid value `%v` for the %s field directive", e.Value, e.Directive)
	}
	return fmt.Sprintf("Cache-Control: %v (%s: %v)", e.Kind, e.Directive, e.Value)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Kind
}
