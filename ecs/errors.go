package ecs

import (
	"errors"
	"fmt"
)

var (
	// ErrComponentOwned is wrapped by OwnershipError.
	ErrComponentOwned = errors.New("ecs: component already attached to another entity")
	// ErrNilSystem is returned when registering a nil system.
	ErrNilSystem = errors.New("ecs: nil system")
	// ErrDuplicateSystem is returned when a system name is registered twice.
	ErrDuplicateSystem = errors.New("ecs: system already registered")
	// ErrPayloadType is reported when a typed topic receives a payload of the wrong type.
	ErrPayloadType = errors.New("ecs: unexpected payload type")
)

// OwnershipError is the panic value raised when a component that is still attached
// to one entity is attached to another.
type OwnershipError struct {
	Type   ComponentType
	Owner  EntityID
	Target EntityID
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("ecs: component %s is attached to entity %d, cannot attach to entity %d",
		e.Type, e.Owner, e.Target)
}

func (e *OwnershipError) Unwrap() error {
	return ErrComponentOwned
}
