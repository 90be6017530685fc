// Package datasource implements lazily loaded list data for the engine.
//
// A document declares a dynamic list by naming a source kind and seeding it
// with the initially available items. A Provider of that kind turns the seed
// into a List the bound component reads from, then keeps the list filled:
// when the component reports its visible range, the provider issues fetch
// requests through its Environment, tracks them against timeouts and
// retries, and splices the eventual responses onto the correct end of the
// list. Failures are queued as Errors for the host to drain; they never take
// the engine down.
//
// Two kinds are bundled. TokenSource addresses data with opaque page tokens
// and grows the list from both ends. IndexSource addresses data by absolute
// index and additionally accepts versioned edit directives.
package datasource

import (
	"errors"
	"fmt"
)

// Provider is one registered source kind. A single provider serves every
// list of its kind in the document and survives document re-inflation, which
// keeps correlation tokens unique for the lifetime of the host connection.
//
// Providers are not safe for concurrent use; the engine calls them from its
// update pass only.
type Provider interface {
	// Kind returns the source type string documents use to select this
	// provider.
	Kind() string

	// SetEnvironment installs the host plumbing. Must be called before
	// the first Bind.
	SetEnvironment(Environment)

	// Bind materializes a declared list from its seed. Binding a listID
	// that is already bound fails and queues an INTERNAL_ERROR; the
	// original binding stays authoritative.
	Bind(seed SeedPayload) (*List, error)

	// Unbind releases one list and abandons its outstanding fetches.
	Unbind(listID string)

	// UnbindAll releases every list at document teardown. Responses to
	// fetches issued before the teardown are rejected afterwards.
	UnbindAll()

	// ProcessRawUpdate feeds one runtime payload to the provider. The
	// return value reports whether the payload changed a list; a false
	// return always leaves an explanation in the error queue.
	ProcessRawUpdate(data []byte) bool

	// HasPendingErrors reports whether PendingErrors would return
	// anything, without consuming the queue.
	HasPendingErrors() bool

	// PendingErrors returns all queued errors and clears the queue.
	PendingErrors() []Error
}

// ErrDuplicateList is returned by Bind when the listID is already in use.
var ErrDuplicateList = errors.New("list already bound")

// source carries the state common to the bundled providers. The error queue
// is shared with the tracker, so timeouts and correlation mismatches surface
// through the same PendingErrors drain as validation failures.
type source struct {
	kind  string
	cfg   Config
	errs  *errorQueue
	track *tracker
}

func newSource(kind string, cfg Config) source {
	cfg = cfg.normalize()
	errs := &errorQueue{}
	return source{kind: kind, cfg: cfg, errs: errs, track: newTracker(cfg, errs)}
}

func (s *source) Kind() string { return s.kind }

func (s *source) SetEnvironment(env Environment) {
	s.track.setEnvironment(env)
}

func (s *source) HasPendingErrors() bool {
	return !s.errs.empty()
}

func (s *source) PendingErrors() []Error {
	return s.errs.take()
}

// checkSeed validates the parts of a seed payload every kind requires.
func (s *source) checkSeed(seed SeedPayload) error {
	if seed.ListID == "" {
		s.errs.report(ErrorInternal, "", "seed payload without listId")
		return errors.New("seed payload without listId")
	}
	if seed.Type != "" && seed.Type != s.kind {
		s.errs.report(ErrorInternal, seed.ListID,
			"seed type %q does not match provider %q", seed.Type, s.kind)
		return fmt.Errorf("seed type %q does not match provider %q", seed.Type, s.kind)
	}
	return nil
}

func (s *source) reportDuplicate(listID string) error {
	s.errs.report(ErrorInternal, listID, "list bound twice; keeping the first binding")
	return fmt.Errorf("%w: %q", ErrDuplicateList, listID)
}
