package memory

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/mnemos-ai/mnemos/internal/clock"
	"github.com/mnemos-ai/mnemos/internal/idgen"
	"github.com/mnemos-ai/mnemos/policy"
	"github.com/mnemos-ai/mnemos/service/audit"
	"github.com/mnemos-ai/mnemos/service/consent"
	"github.com/mnemos-ai/mnemos/service/dao/store"
	"github.com/mnemos-ai/mnemos/service/drift"
	"github.com/mnemos-ai/mnemos/service/messaging"
	qmem "github.com/mnemos-ai/mnemos/service/messaging/memory"
)

// publishWait bounds how long a resolution may stall on a full event queue.
// Events are best-effort fan-out; the ledger is the source of truth.
const publishWait = 100 * time.Millisecond

// pendingRound is the per-request synchronisation primitive: the gate
// fulfils it exactly once – external signal, decider callback and deadline
// timer race, whichever fires first wins and the others are no-ops.
type pendingRound struct {
	request *consent.Request
	timer   *time.Timer
	done    chan struct{}
	once    sync.Once
}

type service struct {
	mu             sync.Mutex
	mode           policy.Mode
	defaultTimeout time.Duration
	deciders       map[policy.Mode]policy.Decider

	// pending holds the latest open round per memory id; superseded rounds
	// stay alive until their own deadline resolves them.
	pending map[string]*pendingRound

	// rounds keeps the latest round per memory id, terminal or not, so that
	// repeated approve/deny calls can return the recorded verdict.
	rounds *store.MemoryStore[string, consent.Request]

	ledger audit.Ledger
	events messaging.Queue[consent.Event]
}

func roundKey(r *consent.Request) string { return r.MemoryID }

// New creates an in-memory consent gate writing verdicts to the ledger.
// The default mode is manual with a 30s decision window.
func New(ledger audit.Ledger, options ...Option) consent.Service {
	ret := &service{
		mode:           policy.ModeManual,
		defaultTimeout: 30 * time.Second,
		deciders:       make(map[policy.Mode]policy.Decider),
		pending:        make(map[string]*pendingRound),
		rounds:         store.NewMemoryStore[string, consent.Request](roundKey),
		ledger:         ledger,
		events:         qmem.NewQueue[consent.Event](qmem.DefaultConfig()),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

func (s *service) AwaitDecision(ctx context.Context, memoryID string, advisory *drift.Advisory, timeout time.Duration) (consent.Verdict, error) {
	if memoryID == "" {
		return consent.VerdictDenied, consent.ErrEmptyMemoryID
	}
	if timeout <= 0 {
		timeout = s.defaultTimeout
	}

	s.mu.Lock()
	mode := s.mode
	decider := s.deciders[mode]
	s.mu.Unlock()

	now := clock.Now()
	request := &consent.Request{
		ID:        idgen.NewRound(),
		MemoryID:  memoryID,
		State:     consent.StatePending,
		Mode:      mode,
		Advisory:  snapshotAdvisory(advisory),
		CreatedAt: now,
		Deadline:  now.Add(timeout),
	}
	pr := &pendingRound{request: request, done: make(chan struct{})}

	if mode.Auto() {
		_ = s.rounds.Save(ctx, request)
		verdict := consent.VerdictDenied
		switch mode {
		case policy.ModeAlwaysYes:
			verdict = consent.VerdictApproved
		case policy.ModeRandom:
			if rand.Intn(2) == 0 {
				verdict = consent.VerdictApproved
			}
		}
		s.resolve(ctx, pr, verdict, false, string(mode))
		return request.Verdict, nil
	}

	s.mu.Lock()
	s.pending[memoryID] = pr
	s.mu.Unlock()
	_ = s.rounds.Save(ctx, request)
	s.publish(consent.Event{Topic: consent.TopicRequestCreated, Data: request})

	pr.timer = time.AfterFunc(timeout, func() {
		s.resolve(context.Background(), pr, consent.VerdictDenied, true, "deadline expired")
	})

	if mode.NeedsDecider() {
		if decider == nil {
			// Fail fast rather than waiting out the deadline: a mode that
			// requires a callback without one registered can never approve.
			s.resolve(ctx, pr, consent.VerdictDenied, false, fmt.Sprintf("no decider registered for mode %s", mode))
			return request.Verdict, nil
		}
		go func() {
			dctx, cancel := context.WithDeadline(context.Background(), request.Deadline)
			defer cancel()
			approved, err := decider(dctx, memoryID, request.Advisory)
			if err != nil {
				s.resolve(dctx, pr, consent.VerdictDenied, false, fmt.Sprintf("decider error: %v", err))
				return
			}
			s.resolve(dctx, pr, verdictOf(approved), false, string(mode)+" decider")
		}()
	}

	select {
	case <-pr.done:
		return request.Verdict, nil
	case <-ctx.Done():
		// The caller abandoned the round; it still reaches a terminal state
		// on its own clock. Absence of a decision is a denial to this caller.
		return consent.VerdictDenied, ctx.Err()
	}
}

func (s *service) Approve(ctx context.Context, memoryID string) (*consent.Resolution, error) {
	return s.decide(ctx, memoryID, consent.VerdictApproved)
}

func (s *service) Deny(ctx context.Context, memoryID string) (*consent.Resolution, error) {
	return s.decide(ctx, memoryID, consent.VerdictDenied)
}

func (s *service) decide(ctx context.Context, memoryID string, verdict consent.Verdict) (*consent.Resolution, error) {
	if memoryID == "" {
		return nil, consent.ErrEmptyMemoryID
	}

	s.mu.Lock()
	pr := s.pending[memoryID]
	s.mu.Unlock()

	if pr != nil {
		s.resolve(ctx, pr, verdict, false, "external signal")
		<-pr.done
		return &consent.Resolution{MemoryID: memoryID, Verdict: pr.request.Verdict}, nil
	}

	// No open round – either the id was never seen, or the round already
	// reached a terminal state and this call is an idempotent repeat.
	round, err := s.rounds.Load(ctx, memoryID)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, fmt.Errorf("%w: %s", consent.ErrNotFound, memoryID)
	}
	s.mu.Lock()
	recorded := round.Verdict
	s.mu.Unlock()
	return &consent.Resolution{MemoryID: memoryID, Verdict: recorded}, nil
}

func (s *service) ListPending(ctx context.Context) ([]*consent.Pending, error) {
	all, err := s.rounds.List(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*consent.Pending, 0, len(all))
	for _, r := range all {
		if r.State == consent.StatePending {
			out = append(out, &consent.Pending{MemoryID: r.MemoryID, CreatedAt: r.CreatedAt})
		}
	}
	return out, nil
}

func (s *service) Mode() policy.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *service) SetMode(mode policy.Mode) error {
	parsed, err := policy.Parse(string(mode))
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = parsed
	return nil
}

func (s *service) RegisterDecider(mode policy.Mode, decider policy.Decider) error {
	if !mode.NeedsDecider() {
		return fmt.Errorf("%w: mode %s does not take a decider", policy.ErrInvalidMode, mode)
	}
	if decider == nil {
		return fmt.Errorf("consent: nil decider for mode %s", mode)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deciders[mode] = decider
	return nil
}

func (s *service) Queue() messaging.Queue[consent.Event] { return s.events }

// resolve transitions the round to its terminal state exactly once, appends
// the consent_decision ledger entry and publishes the decision event.
func (s *service) resolve(ctx context.Context, pr *pendingRound, verdict consent.Verdict, timedOut bool, reason string) {
	pr.once.Do(func() {
		if pr.timer != nil {
			pr.timer.Stop()
		}

		s.mu.Lock()
		request := pr.request
		request.Verdict = verdict
		request.TimedOut = timedOut
		request.Reason = reason
		switch {
		case timedOut:
			request.State = consent.StateTimedOut
		case verdict == consent.VerdictApproved:
			request.State = consent.StateApproved
		default:
			request.State = consent.StateDenied
		}
		if current, ok := s.pending[request.MemoryID]; ok && current == pr {
			delete(s.pending, request.MemoryID)
		}
		s.mu.Unlock()

		detail := map[string]interface{}{
			"verdict":   string(verdict),
			"mode":      string(request.Mode),
			"timed_out": timedOut,
			"round":     request.ID,
			"reason":    reason,
		}
		if request.Advisory != nil {
			detail["drift"] = request.Advisory.Drift
			detail["adjusted_moral_charge"] = request.Advisory.AdjustedMoralCharge
		}
		if err := s.ledger.Append(ctx, &audit.Entry{
			Action:    audit.ActionConsentDecision,
			SubjectID: request.MemoryID,
			Detail:    detail,
		}); err != nil {
			// The verdict still stands; a wedged ledger must not leave the
			// caller suspended.
			log.Printf("consent: recording decision for %s failed: %v", request.MemoryID, err)
		}

		resolution := &consent.Resolution{MemoryID: request.MemoryID, Verdict: verdict}
		if timedOut {
			s.publish(consent.Event{Topic: consent.TopicRequestExpired, Data: request})
		}
		s.publish(consent.Event{Topic: consent.TopicDecisionCreated, Data: resolution})

		close(pr.done)
	})
}

func (s *service) publish(event consent.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), publishWait)
	defer cancel()
	_ = s.events.Publish(ctx, &event)
}

func snapshotAdvisory(advisory *drift.Advisory) *drift.Advisory {
	if advisory == nil {
		return nil
	}
	snapshot := *advisory
	return &snapshot
}

func verdictOf(approved bool) consent.Verdict {
	if approved {
		return consent.VerdictApproved
	}
	return consent.VerdictDenied
}

var _ consent.Service = (*service)(nil)
