package engine

import (
	"context"
	"time"

	"netprofiler/internal/pkg/logging"
	"netprofiler/internal/types"
)

// VerifyPolicy bounds the re-reads that confirm an applied state.
type VerifyPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultVerifyPolicy allows five reads one second apart.
func DefaultVerifyPolicy() VerifyPolicy {
	return VerifyPolicy{MaxAttempts: 5, Delay: time.Second}
}

func (p VerifyPolicy) normalized() VerifyPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.Delay < 0 {
		p.Delay = 0
	}
	return p
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// verify re-reads iface until its addressing equals target or the policy is
// exhausted. It returns the number of reads made. A read failure on the last
// attempt is returned as is; a persistent difference is a
// VerificationMismatchError naming the differing fields.
func (e *Engine) verify(ctx context.Context, iface string, target types.AddressingState) (int, error) {
	logger := logging.WithComponentAndInterface("engine", iface)

	var (
		diff    []string
		readErr error
	)
	attempt := 0
	for attempt < e.policy.MaxAttempts {
		if attempt > 0 {
			if err := e.sleep(ctx, e.policy.Delay); err != nil {
				return attempt, err
			}
		}
		attempt++

		snap, err := e.platform.ReadState(ctx, iface)
		if err != nil {
			readErr = err
			logger.WithError(err).WithField("attempt", attempt).Debug("Verification read failed")
			continue
		}
		readErr = nil

		diff = target.Diff(snap.State())
		if len(diff) == 0 {
			logger.WithField("attempt", attempt).Debug("Interface matches target")
			return attempt, nil
		}
		logger.WithField("attempt", attempt).WithField("fields", diff).Debug("Interface does not match target yet")
	}

	if readErr != nil {
		return attempt, readErr
	}
	return attempt, types.NewVerificationMismatchError(iface, diff)
}
