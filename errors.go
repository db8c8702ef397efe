package stockroom

import "fmt"

type LockedStorageError struct{}

func (e LockedStorageError) Error() string {
	return "storage is currently locked"
}

// UnknownComponentError reports a lookup for a component id that was never registered.
type UnknownComponentError struct {
	ID ComponentID
}

func (e UnknownComponentError) Error() string {
	return fmt.Sprintf("component id %d is not registered", e.ID)
}

// RegistrationConflictError reports a re-registration under the same type hash
// with a different function set or default value.
type RegistrationConflictError struct {
	Name     string
	TypeHash uint64
}

func (e RegistrationConflictError) Error() string {
	return fmt.Sprintf("conflicting registration for component %s (type hash %#x)", e.Name, e.TypeHash)
}

// InvalidComponentError reports a type that cannot serve as a component.
type InvalidComponentError struct {
	Name   string
	Reason string
}

func (e InvalidComponentError) Error() string {
	return fmt.Sprintf("invalid component type %s: %s", e.Name, e.Reason)
}

// NotCopyableError is raised by the copy fail-stub of a component that opted
// out of copying. Invoking it is a programming error.
type NotCopyableError struct {
	Name      string
	Operation string
}

func (e NotCopyableError) Error() string {
	return fmt.Sprintf("component %s is not copyable (operation: %s)", e.Name, e.Operation)
}

// NotMovableError is raised by the move fail-stub of a component that opted
// out of relocation. Invoking it is a programming error.
type NotMovableError struct {
	Name      string
	Operation string
}

func (e NotMovableError) Error() string {
	return fmt.Sprintf("component %s is not movable (operation: %s)", e.Name, e.Operation)
}

// UnsupportedOperationError is raised by fail-stubs for operations the
// component type does not expose, such as equality on non-comparable types.
type UnsupportedOperationError struct {
	Name      string
	Operation string
}

func (e UnsupportedOperationError) Error() string {
	return fmt.Sprintf("component %s does not support operation: %s", e.Name, e.Operation)
}

// MaskOutOfRangeError reports a mask containing ids beyond the registry or
// beyond the mask capacity.
type MaskOutOfRangeError struct {
	ID ComponentID
}

func (e MaskOutOfRangeError) Error() string {
	return fmt.Sprintf("component id %d is out of range for the registry", e.ID)
}

type EntityNotFoundError struct {
	Entity Entity
}

func (e EntityNotFoundError) Error() string {
	return fmt.Sprintf("entity %v does not exist or was destroyed", e.Entity)
}

type ComponentExistsError struct {
	ID ComponentID
}

func (e ComponentExistsError) Error() string {
	return fmt.Sprintf("component %d already exists on entity", e.ID)
}

type ComponentNotFoundError struct {
	ID ComponentID
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component %d does not exist on entity", e.ID)
}
