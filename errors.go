package ecs

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// ErrorCode identifies which of the five kinds in the registry's failure
// taxonomy an error belongs to. Compare with errors.Is against the exported
// sentinels below, never against these strings.
type ErrorCode string

const (
	// CodeInvalidEntity: IsValid(e) is false at a call site that required
	// validity. Covers never-spawned, discarded, and wrong-generation.
	CodeInvalidEntity ErrorCode = "InvalidEntity"
	// CodeEntityInPool: Add[C](e, ...) when the pool for C already
	// contains e.
	CodeEntityInPool ErrorCode = "EntityInPool"
	// CodeEntityNotInPool: Get/Remove/Modify[C](e, ...) when the pool
	// exists but does not contain e.
	CodeEntityNotInPool ErrorCode = "EntityNotInPool"
	// CodePoolDoesNotExist: Get/Remove/Modify[C](e, ...) when no pool for
	// C has ever been created. Add[C] never raises this; it creates the
	// pool.
	CodePoolDoesNotExist ErrorCode = "PoolDoesNotExist"
	// CodeMaxEntitiesReached: spawning a new entity when the table has
	// already reached Schema.MaxEntities().
	CodeMaxEntitiesReached ErrorCode = "MaxEntitiesReached"
)

// RegistryError is the concrete type behind every error a Registry
// operation returns. An empty Component means the error is about the
// entity itself, not a specific pool.
type RegistryError struct {
	Code      ErrorCode
	Entity    Entity
	Component string
	message   string
}

func (e *RegistryError) Error() string {
	switch {
	case e.Component != "":
		return fmt.Sprintf("ecs: %s: entity=%v component=%s", e.message, e.Entity, e.Component)
	default:
		return fmt.Sprintf("ecs: %s: entity=%v", e.message, e.Entity)
	}
}

// Is lets errors.Is(err, ErrInvalidEntity) match any RegistryError of the
// same Code, regardless of context or wrapping.
func (e *RegistryError) Is(target error) bool {
	t, ok := target.(*RegistryError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel values for the five kinds, for use with errors.Is. Every error a
// Registry operation returns is a distinct *RegistryError carrying
// call-specific context; these sentinels are comparison targets only.
var (
	ErrInvalidEntity      = &RegistryError{Code: CodeInvalidEntity}
	ErrEntityInPool       = &RegistryError{Code: CodeEntityInPool}
	ErrEntityNotInPool    = &RegistryError{Code: CodeEntityNotInPool}
	ErrPoolDoesNotExist   = &RegistryError{Code: CodePoolDoesNotExist}
	ErrMaxEntitiesReached = &RegistryError{Code: CodeMaxEntitiesReached}
)

// ErrInvalidBulkCount is returned by CreateMany when n < 1: a usage error
// rejected before any entity is touched, not one of the five registry kinds.
var ErrInvalidBulkCount = pkgerrors.New("ecs: create count must be >= 1")

func invalidEntityErr(e Entity) error {
	return pkgerrors.WithStack(&RegistryError{
		Code: CodeInvalidEntity, Entity: e, message: "entity is not valid",
	})
}

func entityInPoolErr(e Entity, component string) error {
	return pkgerrors.WithStack(&RegistryError{
		Code: CodeEntityInPool, Entity: e, Component: component, message: "entity already in pool",
	})
}

func entityNotInPoolErr(e Entity, component string) error {
	return pkgerrors.WithStack(&RegistryError{
		Code: CodeEntityNotInPool, Entity: e, Component: component, message: "entity not in pool",
	})
}

func poolDoesNotExistErr(e Entity, component string) error {
	return pkgerrors.WithStack(&RegistryError{
		Code: CodePoolDoesNotExist, Entity: e, Component: component, message: "pool does not exist",
	})
}

func maxEntitiesReachedErr(max uint64) error {
	return pkgerrors.WithStack(&RegistryError{
		Code: CodeMaxEntitiesReached, message: fmt.Sprintf("maximum entity count %d reached", max),
	})
}
