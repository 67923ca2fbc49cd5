// Package engine applies network profiles to interfaces. Every apply runs a
// small state machine: the interface is snapshotted, the target is applied
// and verified, and the snapshot is restored if anything goes wrong.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"netprofiler/internal/pkg/logging"
	"netprofiler/internal/port"
	"netprofiler/internal/store"
	"netprofiler/internal/types"

	"github.com/sirupsen/logrus"
)

// State is one step of an apply operation.
type State string

const (
	StateIdle         State = "idle"
	StateValidating   State = "validating"
	StateSnapshotting State = "snapshotting"
	StateApplying     State = "applying"
	StateVerifying    State = "verifying"
	StateApplied      State = "applied"
	StateRollingBack  State = "rolling_back"
	StateRolledBack   State = "rolled_back"
	StateFailed       State = "failed"
)

// Observer is notified of every finished operation, e.g. by metrics.
type Observer interface {
	Observe(result *types.ApplyResult)
}

// Options configures an Engine. Zero values select the defaults.
type Options struct {
	Verify     VerifyPolicy
	Recorder   port.ApplyRecorder
	Observer   Observer
	IsElevated port.PrivilegeChecker
}

// Engine orchestrates profile application and the profile CRUD surface.
type Engine struct {
	store      *store.Store
	inventory  port.InterfaceInventory
	platform   port.PlatformAdapter
	recorder   port.ApplyRecorder
	observer   Observer
	isElevated port.PrivilegeChecker
	policy     VerifyPolicy
	guard      *inFlight
	storeMu    sync.Mutex

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates an engine over the given store, inventory and platform backend.
func New(st *store.Store, inventory port.InterfaceInventory, platform port.PlatformAdapter, opts Options) *Engine {
	policy := opts.Verify
	if policy == (VerifyPolicy{}) {
		policy = DefaultVerifyPolicy()
	}
	isElevated := opts.IsElevated
	if isElevated == nil {
		isElevated = func() bool { return true }
	}
	return &Engine{
		store:      st,
		inventory:  inventory,
		platform:   platform,
		recorder:   opts.Recorder,
		observer:   opts.Observer,
		isElevated: isElevated,
		policy:     policy.normalized(),
		guard:      newInFlight(),
		now:        time.Now,
		sleep:      sleepContext,
	}
}

// operation carries the result and logger of one apply or revert.
type operation struct {
	result *types.ApplyResult
	logger *logrus.Entry
	state  State
}

func (op *operation) enter(state State) {
	op.state = state
	entry := op.logger.WithField("state", state)
	switch state {
	case StateApplied, StateRolledBack, StateFailed:
		entry.Info("Apply finished")
	default:
		entry.Debug("Apply state changed")
	}
}

func (e *Engine) begin(iface, profile string) *operation {
	return &operation{
		result: &types.ApplyResult{Interface: iface, StartedAt: e.now()},
		logger: logging.WithProfile("engine", iface, profile),
		state:  StateIdle,
	}
}

// Apply applies the profile referenced by id or name to iface. It always
// returns a result; the error is non-nil unless the outcome is applied.
func (e *Engine) Apply(ctx context.Context, profileRef, iface string) (*types.ApplyResult, error) {
	op := e.begin(iface, profileRef)
	key := e.platform.CanonicalName(iface)
	if !e.guard.acquire(key) {
		return e.fail(ctx, op, types.NewOperationInProgressError(iface))
	}
	defer e.guard.release(key)

	op.enter(StateValidating)
	profile, err := e.store.Resolve(profileRef)
	if err != nil {
		return e.fail(ctx, op, types.NewValidationError(fmt.Sprintf("profile %q cannot be applied", profileRef), err))
	}
	op.result.ProfileID = profile.ID
	op.result.ProfileName = profile.Name

	valid, err := profile.Validate()
	if err != nil {
		return e.fail(ctx, op, err)
	}
	return e.run(ctx, op, valid.Target())
}

// Revert reapplies the addressing captured in snapshot to the interface it
// was taken from. It takes its own fresh snapshot and rolls back like Apply.
func (e *Engine) Revert(ctx context.Context, snapshot types.InterfaceSnapshot) (*types.ApplyResult, error) {
	op := e.begin(snapshot.Name, "")
	key := e.platform.CanonicalName(snapshot.Name)
	if !e.guard.acquire(key) {
		return e.fail(ctx, op, types.NewOperationInProgressError(snapshot.Name))
	}
	defer e.guard.release(key)

	op.enter(StateValidating)
	target, err := snapshot.State().Validate()
	if err != nil {
		return e.fail(ctx, op, types.NewValidationError("snapshot cannot be restored", err))
	}
	return e.run(ctx, op, target)
}

func (e *Engine) run(ctx context.Context, op *operation, target types.AddressingState) (*types.ApplyResult, error) {
	iface := op.result.Interface
	op.result.Target = target

	if err := ctx.Err(); err != nil {
		return e.fail(ctx, op, fmt.Errorf("apply cancelled: %w", err))
	}
	if _, err := e.inventory.Lookup(ctx, iface); err != nil {
		if types.IsInterfaceNotFoundError(err) {
			err = types.NewValidationError(fmt.Sprintf("interface %q is not present", iface), err)
		}
		return e.fail(ctx, op, err)
	}
	if !e.isElevated() {
		return e.fail(ctx, op, types.NewInsufficientPrivilegeError("changing interface addressing requires administrator or root privileges", nil))
	}

	op.enter(StateSnapshotting)
	snap, err := e.platform.ReadState(ctx, iface)
	if err != nil {
		return e.fail(ctx, op, fmt.Errorf("failed to snapshot interface %s: %w", iface, err))
	}
	op.result.Snapshot = &snap
	op.logger.WithField("snapshot", snap.State().String()).Debug("Pre-apply state captured")

	if err := ctx.Err(); err != nil {
		return e.fail(ctx, op, fmt.Errorf("apply cancelled: %w", err))
	}

	// OS reconfiguration cannot be interrupted safely from here on.
	ctx = context.WithoutCancel(ctx)

	op.enter(StateApplying)
	op.logger.WithField("target", target.String()).Info("Applying addressing")
	if err := e.platform.ApplyState(ctx, iface, target); err != nil {
		return e.rollback(ctx, op, err)
	}

	op.enter(StateVerifying)
	attempts, err := e.verify(ctx, iface, target)
	op.result.VerifyAttempts = attempts
	if err != nil {
		return e.rollback(ctx, op, err)
	}

	op.result.Outcome = types.OutcomeApplied
	op.enter(StateApplied)
	return e.finish(ctx, op), nil
}

// rollback restores the snapshot after cause. The outcome is rolled back
// whether or not the restore worked; the returned error keeps cause first.
func (e *Engine) rollback(ctx context.Context, op *operation, cause error) (*types.ApplyResult, error) {
	iface := op.result.Interface
	op.logger.WithError(cause).Warn("Apply did not take effect, restoring the previous configuration")
	op.enter(StateRollingBack)

	op.result.Err = cause
	op.result.RollbackAttempted = true
	op.result.Outcome = types.OutcomeRolledBack

	restore := op.result.Snapshot.State()
	err := e.platform.ApplyState(ctx, iface, restore)
	if err == nil {
		_, err = e.verify(ctx, iface, restore)
	}
	if err != nil {
		op.result.RollbackErr = types.NewRollbackFailureError(iface, err)
		op.logger.WithError(err).Error("Rollback failed, the interface may be in neither the old nor the new state")
		op.enter(StateRolledBack)
		return e.finish(ctx, op), errors.Join(cause, op.result.RollbackErr)
	}

	op.result.RollbackSucceeded = true
	op.enter(StateRolledBack)
	return e.finish(ctx, op), cause
}

func (e *Engine) fail(ctx context.Context, op *operation, err error) (*types.ApplyResult, error) {
	op.result.Outcome = types.OutcomeFailed
	op.result.Err = err
	op.logger.WithError(err).Warn("Apply failed, no changes were made")
	op.enter(StateFailed)
	return e.finish(ctx, op), err
}

func (e *Engine) finish(ctx context.Context, op *operation) *types.ApplyResult {
	op.result.FinishedAt = e.now()

	if e.recorder != nil {
		if err := e.recorder.Record(context.WithoutCancel(ctx), op.result); err != nil {
			op.logger.WithError(err).Warn("Failed to record apply result")
		}
	}
	if e.observer != nil {
		e.observer.Observe(op.result)
	}
	return op.result
}
