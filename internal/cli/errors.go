package cli

import (
	"errors"
	"fmt"
)

var errNotLoggedIn = errors.New("not logged in; run `draftpad login` (or `draftpad register` first)")

type missingFieldError struct {
	field string
}

func (e missingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.field)
}

func errMissingField(field string) error {
	return missingFieldError{field: field}
}

type invalidIDError struct {
	raw string
}

func (e invalidIDError) Error() string {
	return fmt.Sprintf("invalid id: %q", e.raw)
}

func errInvalidID(raw string) error {
	return invalidIDError{raw: raw}
}
