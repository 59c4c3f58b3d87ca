package service

import "errors"

var (
	// ErrNoSession is returned by mutations when no acting user is set.
	// List operations swallow it and return empty results.
	ErrNoSession = errors.New("no user session")
	// ErrStaleRevision is returned when a task save is older than the
	// stored task. The newer write is kept.
	ErrStaleRevision = errors.New("stale task revision")
	ErrForbidden     = errors.New("permission denied")
	// ErrLastOwner protects a company from losing its last active owner.
	ErrLastOwner = errors.New("company must keep at least one active owner")
	// ErrInvalidMove is returned when a re-parent would create a cycle or
	// cross projects.
	ErrInvalidMove = errors.New("invalid task move")
)
