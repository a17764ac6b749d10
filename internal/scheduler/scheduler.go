package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/banben/yugabyte-db/internal/core"
	"github.com/banben/yugabyte-db/internal/model"
	"github.com/banben/yugabyte-db/internal/platform"
)

// ScheduleStore is the slice of the schedule store the loop needs.
// *core.ScheduleService satisfies this interface.
type ScheduleStore interface {
	ListDue(ctx context.Context, now time.Time) ([]model.Schedule, error)
	AdvanceNextTaskTime(ctx context.Context, scheduleID string, from, to time.Time) (bool, error)
}

// ExecutionLedger is the slice of the execution ledger the loop needs.
// *core.ExecutionService satisfies this interface.
type ExecutionLedger interface {
	HasPending(ctx context.Context, scheduleID string) (bool, error)
	RecordDispatch(ctx context.Context, rec *model.Execution, from, to time.Time) (bool, error)
	ListPending(ctx context.Context) ([]model.Execution, error)
	Resolve(ctx context.Context, taskHandle, terminalStatus string, message *string) (bool, error)
}

// Scheduler is the process-wide scheduler loop: one instance per process,
// constructed once and injected wherever an immediate pass needs triggering.
// Each tick scans due schedules in ascending due order, dispatches at most
// one task per schedule, and reconciles in-flight executions against the
// orchestration engine.
type Scheduler struct {
	schedules ScheduleStore
	ledger    ExecutionLedger
	engine    Engine
	logger    zerolog.Logger
	interval  time.Duration
	now       func() time.Time

	// tickMu serializes tick processing. A tick that arrives while the
	// previous one is still recording its decisions is a no-op.
	tickMu sync.Mutex

	startMu sync.Mutex
	kick    chan struct{}
	stop    chan struct{}
	done    chan struct{}
}

func New(schedules ScheduleStore, ledger ExecutionLedger, engine Engine, logger zerolog.Logger, interval time.Duration) *Scheduler {
	return &Scheduler{
		schedules: schedules,
		ledger:    ledger,
		engine:    engine,
		logger:    logger.With().Str("component", "scheduler").Logger(),
		interval:  interval,
		now:       time.Now,
		kick:      make(chan struct{}, 1),
	}
}

// Start launches the loop. Calling Start on a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(ctx)
	s.logger.Info().Dur("interval", s.interval).Msg("scheduler started")
}

// Stop halts the loop and waits for an in-progress tick to finish recording.
func (s *Scheduler) Stop() {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop = nil
	s.logger.Info().Msg("scheduler stopped")
}

// Kick requests an immediate tick without waiting for the ticker.
func (s *Scheduler) Kick() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			s.Tick(ctx)
		case <-s.kick:
			s.Tick(ctx)
		}
	}
}

// Tick runs one scheduling pass: dispatch everything due, then reconcile
// in-flight executions. Overlapping calls return immediately; the next tick
// must not start until the prior one's decisions are durably recorded.
func (s *Scheduler) Tick(ctx context.Context) {
	if !s.tickMu.TryLock() {
		return
	}
	defer s.tickMu.Unlock()

	start := time.Now()
	s.dispatchDue(ctx)
	s.reconcilePending(ctx)
	tickDuration.Observe(time.Since(start).Seconds())
}

func (s *Scheduler) dispatchDue(ctx context.Context) {
	now := s.now()
	due, err := s.schedules.ListDue(ctx, now)
	if err != nil {
		s.logger.Error().Err(err).Msg("due scan failed")
		return
	}

	for _, sched := range due {
		if err := s.dispatchOne(ctx, sched, now); err != nil {
			// One schedule's fault must not halt the scan.
			s.logger.Error().Err(err).
				Str("schedule_id", sched.ID).
				Str("tenant_id", sched.TenantID).
				Msg("dispatch failed, will retry next tick")
		}
	}
}

func (s *Scheduler) dispatchOne(ctx context.Context, sched model.Schedule, now time.Time) error {
	pending, err := s.ledger.HasPending(ctx, sched.ID)
	if err != nil {
		return err
	}
	if pending {
		s.logger.Debug().Str("schedule_id", sched.ID).Msg("previous dispatch still in flight, skipping")
		return nil
	}

	params, err := model.ParseTaskParams(sched.TaskType, sched.TaskParams)
	if err != nil {
		return err
	}

	boundary := sched.NextExpectedTaskTime
	handle, err := s.engine.Submit(ctx, Dispatch{
		ScheduleID: sched.ID,
		TaskType:   sched.TaskType,
		Boundary:   boundary,
		Payload:    params.OrchestrationPayload(),
	})
	if err != nil {
		if errors.Is(err, ErrRejectedSubmission) {
			rejectedSubmissionsTotal.Inc()
		}
		// No record, no advance: the schedule stays due and is retried
		// on the next tick.
		return err
	}

	// The next boundary is strictly whole frequencies from the prior one.
	// Intervals missed while the process was down are skipped, not replayed.
	next := boundary.Add(sched.Frequency())
	for !next.After(now) {
		next = next.Add(sched.Frequency())
	}

	rec := &model.Execution{
		ID:             platform.NewID(),
		ScheduleID:     sched.ID,
		TaskHandle:     handle,
		DispatchedAt:   now,
		TerminalStatus: model.ExecutionStatusPending,
	}
	// Record and advance commit together; a failure here leaves the
	// schedule fully undispatched and the next tick retries the boundary
	// (the engine dedupes the resubmit on the handle).
	advanced, err := s.ledger.RecordDispatch(ctx, rec, boundary, next)
	if err != nil {
		var duplicate *core.DuplicateHandleError
		if errors.As(err, &duplicate) {
			// An earlier attempt recorded this boundary but its advance
			// was lost. Only the advance is owed; submitting again would
			// duplicate the run.
			repairedAdvancesTotal.Inc()
			if _, aerr := s.schedules.AdvanceNextTaskTime(ctx, sched.ID, boundary, next); aerr != nil {
				return aerr
			}
			s.logger.Warn().
				Str("schedule_id", sched.ID).
				Str("task_handle", handle).
				Time("next_expected_task_time", next).
				Msg("dispatch already recorded, advanced due time")
			return nil
		}
		var conflict *core.DispatchConflictError
		if errors.As(err, &conflict) {
			// Unreachable given the overlap guard; log and move on.
			dispatchConflictsTotal.Inc()
			s.logger.Warn().Str("schedule_id", sched.ID).Msg("dispatch conflict, skipping")
			return nil
		}
		return err
	}
	if !advanced {
		// The schedule was deleted between the due scan and now. The
		// in-flight execution finishes normally; nothing follows it.
		s.logger.Debug().Str("schedule_id", sched.ID).Msg("schedule changed during dispatch, advance dropped")
	}

	dispatchesTotal.Inc()
	s.logger.Info().
		Str("schedule_id", sched.ID).
		Str("tenant_id", sched.TenantID).
		Str("task_type", sched.TaskType).
		Str("task_handle", handle).
		Time("next_expected_task_time", next).
		Msg("dispatched scheduled task")
	return nil
}

func (s *Scheduler) reconcilePending(ctx context.Context) {
	pending, err := s.ledger.ListPending(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("pending scan failed")
		return
	}

	for _, rec := range pending {
		status, err := s.engine.Status(ctx, rec.TaskHandle)
		if err != nil {
			s.logger.Error().Err(err).Str("task_handle", rec.TaskHandle).Msg("status poll failed")
			continue
		}
		if status == model.ExecutionStatusPending {
			continue
		}

		resolved, err := s.ledger.Resolve(ctx, rec.TaskHandle, status, nil)
		if err != nil {
			s.logger.Error().Err(err).Str("task_handle", rec.TaskHandle).Msg("resolve failed")
			continue
		}
		if resolved {
			resolvedExecutionsTotal.WithLabelValues(status).Inc()
			// A failed run does not pause the schedule; it continues on
			// its normal cadence.
			s.logger.Info().
				Str("schedule_id", rec.ScheduleID).
				Str("task_handle", rec.TaskHandle).
				Str("status", status).
				Msg("execution resolved")
		}
	}
}
