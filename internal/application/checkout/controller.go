// Package checkout drives one M-PESA STK push attempt at a time from
// initiation to a terminal outcome.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/DanielPopoola/mpesa-checkout/internal/application"
	"github.com/DanielPopoola/mpesa-checkout/internal/domain"
	"github.com/DanielPopoola/mpesa-checkout/internal/scheduler"
	"github.com/google/uuid"
)

var ErrControllerClosed = errors.New("checkout controller is closed")

const (
	MessageIdle             = "Enter your Safaricom number to receive the payment prompt"
	MessageAwaitingApproval = "Check your phone for the M-PESA payment prompt and enter your PIN to complete the transaction."
	MessageSucceeded        = "Payment successful"
)

// OutcomeListener is told about every attempt that reaches a terminal state.
type OutcomeListener func(attemptID string, outcome domain.Outcome)

// View is a point-in-time picture of the controller.
type View struct {
	State             domain.State    `json:"state"`
	AttemptID         string          `json:"attempt_id,omitempty"`
	CheckoutRequestID string          `json:"checkout_request_id,omitempty"`
	PollCount         int             `json:"poll_count"`
	MaxPolls          int             `json:"max_polls"`
	Outcome           *domain.Outcome `json:"outcome,omitempty"`
	Message           string          `json:"message"`
}

// run is the token for one in-flight attempt. Callbacks holding a run that is
// no longer current are discarded.
type run struct {
	attempt   *domain.Attempt
	ctx       context.Context
	cancel    context.CancelFunc
	task      scheduler.Task
	startedAt time.Time

	consecutiveErrors int
}

type Controller struct {
	gateway    application.Gateway
	sched      scheduler.Scheduler
	policy     Policy
	classifier Classifier
	observer   application.Observer
	onOutcome  OutcomeListener
	logger     *slog.Logger
	newID      func() string

	journalRepo domain.AttemptRepository
	journal     *journalWriter

	mu      sync.Mutex
	state   domain.State
	current *run
	attempt *domain.Attempt
	closed  bool
}

type Option func(*Controller)

// WithJournal records every attempt transition in repo.
func WithJournal(repo domain.AttemptRepository) Option {
	return func(c *Controller) {
		c.journalRepo = repo
	}
}

func WithObserver(o application.Observer) Option {
	return func(c *Controller) {
		c.observer = o
	}
}

func WithOutcomeListener(fn OutcomeListener) Option {
	return func(c *Controller) {
		c.onOutcome = fn
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) {
		c.newID = fn
	}
}

func NewController(gateway application.Gateway, sched scheduler.Scheduler, policy Policy, opts ...Option) *Controller {
	c := &Controller{
		gateway:    gateway,
		sched:      sched,
		policy:     policy,
		classifier: NewClassifier(policy.PendingCodes),
		observer:   application.NopObserver{},
		logger:     slog.Default(),
		newID:      func() string { return uuid.New().String() },
		state:      domain.StateIdle,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.logger.With("component", "checkout")
	if c.journalRepo != nil {
		c.journal = newJournalWriter(c.journalRepo, c.logger)
	}
	return c
}

// Start opens a new attempt for req and asks the gateway to push it to the
// customer's phone. It returns once initiation has been accepted or has
// failed; the outcome arrives later through polling.
func (c *Controller) Start(ctx context.Context, req domain.PaymentRequest) (View, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return c.Snapshot(), ErrControllerClosed
	}
	switch state := c.state; state {
	case domain.StateIdle:
	case domain.StateAwaitingApproval:
		c.mu.Unlock()
		return c.Snapshot(), domain.NewAttemptInFlightError(state)
	default:
		c.mu.Unlock()
		return c.Snapshot(), domain.NewInvalidTransitionError(state, domain.StateAwaitingApproval)
	}

	attempt, err := domain.NewAttempt(c.newID(), req)
	if err != nil {
		c.mu.Unlock()
		return c.Snapshot(), err
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	r := &run{
		attempt:   attempt,
		ctx:       runCtx,
		cancel:    cancel,
		startedAt: time.Now(),
	}
	c.current = r
	c.attempt = attempt
	c.state = domain.StateAwaitingApproval
	c.record(attempt)
	c.observer.AttemptStarted()
	c.mu.Unlock()

	logger := c.logger.With("attempt_id", attempt.ID)
	logger.Info("initiating payment",
		"amount", req.Amount,
		"account_reference", req.AccountReference,
	)

	callCtx, callCancel := withTimeout(runCtx, c.policy.InitiateTimeout)
	res, err := c.gateway.Initiate(callCtx, req)
	callCancel()

	c.mu.Lock()
	if c.current != r {
		c.mu.Unlock()
		logger.Info("discarding initiation result for abandoned attempt")
		return c.Snapshot(), nil
	}

	if err == nil {
		err = attempt.Accept(res.CheckoutRequestID, res.MerchantRequestID)
	}
	if err != nil {
		category := application.CategorizeError(err)
		logger.Warn("payment initiation failed", "category", category, "error", err)
		c.observer.InitiationFailed(category)
		notify := c.finishLocked(r, domain.Failed(application.FailureReason(err)))
		c.mu.Unlock()
		notify()
		return c.Snapshot(), nil
	}

	c.record(attempt)
	r.task = c.sched.AfterFunc(c.policy.InitialDelay, func() { c.poll(r) })
	c.mu.Unlock()

	logger.Info("awaiting customer approval",
		"checkout_request_id", res.CheckoutRequestID,
		"first_poll_in", c.policy.InitialDelay,
	)
	return c.Snapshot(), nil
}

func (c *Controller) poll(r *run) {
	c.mu.Lock()
	if c.current != r {
		c.mu.Unlock()
		return
	}
	handle := r.attempt.CheckoutRequestID
	c.mu.Unlock()

	callCtx, cancel := withTimeout(r.ctx, c.policy.QueryTimeout)
	res, err := c.gateway.QueryStatus(callCtx, handle)
	cancel()

	c.mu.Lock()
	if c.current != r {
		c.mu.Unlock()
		return
	}

	r.attempt.RecordPoll()
	polls := r.attempt.PollCount
	logger := c.logger.With(
		"attempt_id", r.attempt.ID,
		"checkout_request_id", handle,
		"poll", polls,
	)

	outcome := domain.Pending()
	if err != nil {
		r.consecutiveErrors++
		c.observer.PollCompleted("", err)
		logger.Warn("status query failed",
			"category", application.CategorizeError(err),
			"consecutive_errors", r.consecutiveErrors,
			"error", err,
		)
		if c.policy.MaxConsecutiveErrors > 0 && r.consecutiveErrors >= c.policy.MaxConsecutiveErrors {
			outcome = domain.Failed(application.ReasonUnverified)
		}
	} else {
		r.consecutiveErrors = 0
		c.observer.PollCompleted(res.ResultCode, nil)
		logger.Debug("status query answered", "result_code", res.ResultCode, "result_desc", res.ResultDesc)
		outcome = c.classifier.Classify(res, handle)
	}

	if !outcome.IsTerminal() && polls >= c.policy.MaxAttempts {
		if err != nil {
			outcome = domain.TimedOut(application.ReasonUnverified)
		} else {
			outcome = domain.TimedOut(application.ReasonTimeout)
		}
	}

	if outcome.IsTerminal() {
		notify := c.finishLocked(r, outcome)
		c.mu.Unlock()
		notify()
		return
	}

	c.record(r.attempt)
	r.task = c.sched.AfterFunc(c.policy.Interval, func() { c.poll(r) })
	c.mu.Unlock()
}

// finishLocked applies the terminal outcome of r. The caller must hold c.mu
// and call the returned function after releasing it.
func (c *Controller) finishLocked(r *run, outcome domain.Outcome) func() {
	logger := c.logger.With("attempt_id", r.attempt.ID)

	if err := r.attempt.Complete(outcome); err != nil {
		logger.Error("failed to complete attempt", "outcome", outcome.Kind, "error", err)
	}

	c.current = nil
	c.state = r.attempt.Status
	r.cancel()
	if r.task != nil {
		r.task.Stop()
	}
	c.record(r.attempt)

	elapsed := time.Since(r.startedAt)
	c.observer.AttemptFinished(outcome, elapsed)
	logger.Info("payment attempt finished",
		"state", r.attempt.Status,
		"receipt", outcome.Receipt,
		"reason", outcome.Reason,
		"polls", r.attempt.PollCount,
		"elapsed", elapsed,
	)

	listener := c.onOutcome
	attemptID := r.attempt.ID
	return func() {
		if listener != nil {
			listener(attemptID, outcome)
		}
	}
}

// Abandon drops the in-flight attempt, if any, and returns the controller to
// idle. No outcome is reported for an abandoned attempt.
func (c *Controller) Abandon() View {
	c.mu.Lock()
	c.abandonLocked()
	c.mu.Unlock()
	return c.Snapshot()
}

func (c *Controller) abandonLocked() {
	r := c.current
	if r == nil {
		return
	}

	c.current = nil
	r.cancel()
	if r.task != nil {
		r.task.Stop()
	}

	if err := r.attempt.Complete(domain.Cancelled(application.ReasonAbandoned)); err != nil {
		c.logger.Error("failed to close abandoned attempt", "attempt_id", r.attempt.ID, "error", err)
	}
	c.record(r.attempt)

	c.state = domain.StateIdle
	c.attempt = nil
	c.observer.AttemptAbandoned()
	c.logger.Info("payment attempt abandoned", "attempt_id", r.attempt.ID, "polls", r.attempt.PollCount)
}

// Reset clears a failed, cancelled or timed-out attempt so a new one can start.
func (c *Controller) Reset() (View, error) {
	c.mu.Lock()
	state := c.state
	switch {
	case state == domain.StateIdle:
	case state.Resettable():
		c.state = domain.StateIdle
		c.attempt = nil
	default:
		c.mu.Unlock()
		return c.Snapshot(), domain.NewInvalidTransitionError(state, domain.StateIdle)
	}
	c.mu.Unlock()
	return c.Snapshot(), nil
}

// Snapshot returns the current view.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		State:    c.state,
		MaxPolls: c.policy.MaxAttempts,
	}

	switch c.state {
	case domain.StateIdle:
		v.Message = MessageIdle
	case domain.StateAwaitingApproval:
		v.Message = MessageAwaitingApproval
	}

	if c.attempt == nil {
		return v
	}

	v.AttemptID = c.attempt.ID
	v.CheckoutRequestID = c.attempt.CheckoutRequestID
	v.PollCount = c.attempt.PollCount

	if c.attempt.IsTerminal() {
		outcome := c.attempt.Outcome()
		v.Outcome = &outcome
		if outcome.Kind == domain.OutcomeSucceeded {
			v.Message = MessageSucceeded
		} else {
			v.Message = outcome.Reason
		}
	}
	return v
}

// Close abandons any in-flight attempt and flushes the journal.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.abandonLocked()
	c.closed = true
	c.mu.Unlock()

	if c.journal != nil {
		c.journal.close()
	}
}

// record queues a snapshot of attempt for the journal. The caller must hold c.mu.
func (c *Controller) record(attempt *domain.Attempt) {
	if c.journal != nil {
		c.journal.enqueue(attempt)
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
