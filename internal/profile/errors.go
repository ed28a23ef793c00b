package profile

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedElement       = errors.New("malformed element")
	ErrUnsatisfiedRequirement = errors.New("unsatisfied toolkit requirement")
)

// MalformedElementError reports a toolkit or observer entry that could not be
// coerced into its spec type. Index is -1 when the position is unknown.
type MalformedElementError struct {
	Field  string
	Index  int
	Value  any
	Reason string
}

func (e *MalformedElementError) Error() string {
	where := e.Field
	if e.Index >= 0 {
		where = fmt.Sprintf("%s[%d]", e.Field, e.Index)
	}
	return fmt.Sprintf("%s: malformed element (%T %v): %s", where, e.Value, e.Value, e.Reason)
}

func (e *MalformedElementError) Is(target error) bool {
	return target == ErrMalformedElement
}

// UnsatisfiedRequirementError reports a toolkit whose requirement names a
// toolkit missing from the profile.
type UnsatisfiedRequirementError struct {
	Toolkit     string
	Requirement string
}

func (e *UnsatisfiedRequirementError) Error() string {
	return fmt.Sprintf("toolkit %s requires %s but it is not present", e.Toolkit, e.Requirement)
}

func (e *UnsatisfiedRequirementError) Is(target error) bool {
	return target == ErrUnsatisfiedRequirement
}
