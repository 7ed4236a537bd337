package utils

import (
	"github.com/pkg/errors"
)

// NewUnexpectedTypeError is used when there is a type mismatch.
func NewUnexpectedTypeError(expected interface{}, actual interface{}) error {
	return errors.Errorf("expected %T but got %T", expected, actual)
}

// NewUnrecognizedCommandError is returned by DoCommand handlers when none of the keys are known.
func NewUnrecognizedCommandError(cmd map[string]interface{}) error {
	keys := make([]string, 0, len(cmd))
	for k := range cmd {
		keys = append(keys, k)
	}
	return errors.Errorf("no recognized command in %v", keys)
}
