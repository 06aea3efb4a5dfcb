// Package coordinate serializes the notify-and-release window across
// concurrently completing builds. The lock guards only that window: manifest
// computation, artifact registration, and any seed mutation all happen before
// acquisition and are deliberately outside its protection.
package coordinate

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/bundlemanifest/internal/ctxlog"
)

// Observer inspects or transforms the manifest while the finalize lock is
// held. Observers run in registration order; each receives the previous
// observer's return value. An observer that blocks forever holds the lock
// forever, stalling every later build's finalization.
type Observer func(ctx context.Context, manifest any) (any, error)

// Phase tracks one build through the finalize state machine.
type Phase int

const (
	Computed Phase = iota
	AwaitingLock
	Locked
	Notifying
	ReleasePending
	Released
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Computed:
		return "Computed"
	case AwaitingLock:
		return "AwaitingLock"
	case Locked:
		return "Locked"
	case Notifying:
		return "Notifying"
	case ReleasePending:
		return "ReleasePending"
	case Released:
		return "Released"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// finalizeLock is the process-global finalize lock, shared by every
// coordinator in the process since concurrently running builds may share a
// seed regardless of which plugin instance drives them.
var finalizeLock FIFOMutex

// Coordinator owns the ordered observer list and hands out tickets on the
// global finalize lock.
type Coordinator struct {
	mu        sync.Mutex
	observers []Observer
}

// New returns a coordinator with no observers.
func New() *Coordinator {
	return &Coordinator{}
}

// Observe appends an observer to the waterfall.
func (c *Coordinator) Observe(obs Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, obs)
}

// Ticket is one build's passage through the finalize state machine.
type Ticket struct {
	coord *Coordinator
	phase Phase
}

// Begin acquires the global finalize lock for one computed build, blocking
// behind earlier builds in arrival order.
func (c *Coordinator) Begin(ctx context.Context) *Ticket {
	logger := ctxlog.FromContext(ctx)

	t := &Ticket{coord: c, phase: AwaitingLock}
	if finalizeLock.Held() {
		logger.Debug("Queued behind held finalize lock.", "waiters", finalizeLock.Waiters())
	}
	finalizeLock.Lock()
	t.phase = Locked
	return t
}

// Notify runs the observer waterfall with the lock held, threading the
// manifest value through each observer. The transformed value is returned.
// On error the ticket stays in Notifying and the lock stays held; releasing
// only happens once the whole waterfall has returned control.
func (t *Ticket) Notify(ctx context.Context, manifest any) (any, error) {
	if t.phase != Locked {
		panic(fmt.Sprintf("coordinate: Notify in phase %s", t.phase))
	}
	t.phase = Notifying

	t.coord.mu.Lock()
	observers := make([]Observer, len(t.coord.observers))
	copy(observers, t.coord.observers)
	t.coord.mu.Unlock()

	var err error
	for _, obs := range observers {
		if manifest, err = obs(ctx, manifest); err != nil {
			return manifest, err
		}
	}
	t.phase = ReleasePending
	return manifest, nil
}

// Release gives up the lock, waking the next queued build if any.
func (t *Ticket) Release() {
	if t.phase != ReleasePending {
		panic(fmt.Sprintf("coordinate: Release in phase %s", t.phase))
	}
	t.phase = Released
	finalizeLock.Unlock()
}

// Phase reports the ticket's current phase.
func (t *Ticket) Phase() Phase {
	return t.phase
}

// ResetForTesting force-releases the global finalize lock if held. Only for
// tests that deliberately leave a build's finalization stalled.
func ResetForTesting() {
	if finalizeLock.Held() {
		finalizeLock.Unlock()
	}
}
