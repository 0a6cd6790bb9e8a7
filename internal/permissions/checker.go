package permissions

import (
	apperrors "github.com/nazmulhs/campushub/pkg/errors"
)

// Checker evaluates role capabilities against the registry.
type Checker struct{}

// NewChecker returns a Checker backed by the built-in registry.
func NewChecker() *Checker { return &Checker{} }

// Allowed reports whether the role holds the capability.
func (c *Checker) Allowed(role Role, capability Capability) bool {
	caps, ok := registry[role]
	if !ok {
		return false
	}
	_, ok = caps[capability]
	return ok
}

// Check returns ErrForbidden when the role lacks the capability.
func (c *Checker) Check(role Role, capability Capability) error {
	if !c.Allowed(role, capability) {
		return apperrors.ErrForbidden
	}
	return nil
}
