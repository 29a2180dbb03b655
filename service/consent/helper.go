package consent

import (
	"context"
	"time"
)

// DecisionFunc decides what to do with a pending round.
// Return (true,  "") to approve
//
//	(false, "…") to deny with reason.
type DecisionFunc func(p *Pending) (approved bool, reason string)

// AutoDecider starts a goroutine that polls ListPending and applies fn to
// every pending round. It returns stop() – call it (or cancel ctx) to exit.
// It is the scripted decision source used by test harnesses driving a gate
// in manual mode.
func AutoDecider(ctx context.Context,
	svc Service,
	fn DecisionFunc,
	interval time.Duration) (stop func()) {

	if interval <= 0 {
		interval = 20 * time.Millisecond
	}
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				pending, _ := svc.ListPending(ctx)
				for _, p := range pending {
					if ok, _ := fn(p); ok {
						_, _ = svc.Approve(ctx, p.MemoryID)
					} else {
						_, _ = svc.Deny(ctx, p.MemoryID)
					}
				}
			}
		}
	}()
	return func() { close(done) }
}

// AutoApprove automatically approves all pending rounds.
func AutoApprove(ctx context.Context, svc Service, interval time.Duration) func() {
	return AutoDecider(ctx, svc,
		func(*Pending) (bool, string) { return true, "" }, interval)
}

// AutoDeny automatically denies all pending rounds.
func AutoDeny(ctx context.Context, svc Service, interval time.Duration) func() {
	return AutoDecider(ctx, svc,
		func(*Pending) (bool, string) { return false, "auto deny" }, interval)
}
