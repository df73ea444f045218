package assets

import (
	"errors"
	"fmt"

	"asset-core/core/identity"
	"asset-core/core/slotpool"
)

var (
	// ErrCacheFull indicates every slot of the cache is occupied.
	// It also matches slotpool.ErrFull.
	ErrCacheFull = fmt.Errorf("assets: cache full: %w", slotpool.ErrFull)

	// ErrLoadFailure matches every *LoadError.
	ErrLoadFailure = errors.New("assets: load failed")

	// ErrStaleHandle indicates the handle's slot has been released or reused.
	ErrStaleHandle = errors.New("assets: stale handle")

	// ErrEmptyHandle indicates an operation on the zero Handle.
	ErrEmptyHandle = errors.New("assets: empty handle")

	// ErrNilIdentity indicates a load was requested for the empty identity.
	ErrNilIdentity = errors.New("assets: nil identity")
)

// LoadError wraps a loader failure with the identity and path that were requested.
//
//	var lerr *assets.LoadError
//	if errors.As(err, &lerr) {
//	    log.Warn("load failed", zap.String("path", lerr.Path), zap.Error(lerr.Err))
//	}
type LoadError struct {
	ID   identity.GUID
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("assets: load %s (%s): %v", e.Path, e.ID, e.Err)
}

// Unwrap returns the loader's error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is makes every LoadError match ErrLoadFailure.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoadFailure
}
