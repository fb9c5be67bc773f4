package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tutorlink/chain-client/internal/api/metrics"
	"github.com/tutorlink/chain-client/internal/core/domain"
	"github.com/tutorlink/chain-client/internal/core/ports"
)

const (
	draftKey               = "booking-draft"
	defaultEstimateTimeout = 15 * time.Second
	defaultDraftMinutes    = 60
)

// BookingService owns the single in-memory booking draft, recomputes its
// estimate after a debounced quiet period, and runs the full precondition
// sequence before the one paid, irrevocable submission.
type BookingService struct {
	reader    ports.LedgerReader
	writer    ports.LedgerWriter
	wallet    ports.WalletProvider
	refresher viewRefresher
	sched     *Scheduler
	debounce  time.Duration
	now       func() time.Time
	log       zerolog.Logger

	mu    sync.Mutex
	state domain.DraftState
}

func NewBookingService(reader ports.LedgerReader, writer ports.LedgerWriter, wallet ports.WalletProvider, refresher viewRefresher, debounce time.Duration, log zerolog.Logger) *BookingService {
	return &BookingService{
		reader:    reader,
		writer:    writer,
		wallet:    wallet,
		refresher: refresher,
		sched:     NewScheduler(),
		debounce:  debounce,
		now:       time.Now,
		log:       log,
		state: domain.DraftState{
			Draft: domain.BookingDraft{DurationMinutes: defaultDraftMinutes},
		},
	}
}

// Close cancels any pending debounced recomputation.
func (s *BookingService) Close() {
	s.sched.Stop()
}

// Estimate computes the session cost for the given tutor and duration,
// mirroring the ledger's integer arithmetic exactly. A failed precondition
// comes back as a *domain.Rejection error; any other error is a transport
// failure. The returned snapshot carries the tutor state the estimate was
// derived from.
func (s *BookingService) Estimate(ctx context.Context, in ports.EstimateInput) (*domain.Estimate, *domain.TutorSnapshot, error) {
	est, snap, err := s.estimate(ctx, in)
	switch {
	case err == nil:
		metrics.EstimatesTotal.WithLabelValues("ok").Inc()
	default:
		var rej *domain.Rejection
		if errors.As(err, &rej) {
			metrics.EstimatesTotal.WithLabelValues(string(rej.Reason)).Inc()
		} else {
			metrics.EstimatesTotal.WithLabelValues("error").Inc()
		}
	}
	return est, snap, err
}

func (s *BookingService) estimate(ctx context.Context, in ports.EstimateInput) (*domain.Estimate, *domain.TutorSnapshot, error) {
	if !in.Tutor.Valid() {
		return nil, nil, domain.Reject(domain.RejectInvalidAddress, "tutor address %q is not a valid address", in.Tutor)
	}
	if in.DurationMinutes < domain.MinSessionMinutes || in.DurationMinutes > domain.MaxSessionMinutes {
		return nil, nil, domain.Reject(domain.RejectBadDuration, "duration must be %d-%d minutes, got %d",
			domain.MinSessionMinutes, domain.MaxSessionMinutes, in.DurationMinutes)
	}

	tutor, err := s.reader.TutorInfo(ctx, in.Tutor)
	if err != nil {
		if errors.Is(err, domain.ErrNotRegistered) {
			return nil, nil, domain.Reject(domain.RejectTutorNotRegistered, "no tutor registered at %s", in.Tutor)
		}
		return nil, nil, err
	}
	if !tutor.Active {
		return nil, nil, domain.Reject(domain.RejectTutorInactive, "tutor %s is inactive", in.Tutor)
	}

	subjects, err := s.reader.TutorSubjects(ctx, in.Tutor)
	if err != nil {
		return nil, nil, err
	}

	cost := EstimateCost(tutor.HourlyRate, in.DurationMinutes)
	est := &domain.Estimate{
		Cost:       cost,
		Payment:    PaymentWithMargin(cost),
		HourlyRate: tutor.HourlyRate,
		Minutes:    in.DurationMinutes,
		ComputedAt: s.now().UTC(),
	}
	snap := &domain.TutorSnapshot{
		Address:   in.Tutor,
		Profile:   *tutor,
		Subjects:  subjects,
		FetchedAt: s.now().UTC(),
	}
	return est, snap, nil
}

// UpdateDraft applies a partial edit, drops the now-stale derived values,
// and schedules a debounced recomputation. Each edit cancels and replaces
// any recomputation still pending from a previous edit.
func (s *BookingService) UpdateDraft(ctx context.Context, in ports.DraftUpdate) *domain.DraftState {
	s.mu.Lock()
	if in.Tutor != nil {
		s.state.Draft.Tutor = *in.Tutor
	}
	if in.Subject != nil {
		s.state.Draft.Subject = *in.Subject
	}
	if in.DurationMinutes != nil {
		s.state.Draft.DurationMinutes = *in.DurationMinutes
	}
	if in.StartTime != nil {
		s.state.Draft.StartTime = *in.StartTime
	}
	s.state.Estimate = nil
	s.state.Rejection = nil
	s.state.Snapshot = nil
	s.state.UpdatedAt = s.now().UTC()
	draft := s.state.Draft
	snapshot := s.state
	s.mu.Unlock()

	s.sched.Schedule(draftKey, s.debounce, func() { s.recompute(draft) })
	return &snapshot
}

// recompute refreshes the draft's derived estimate in the background. The
// result is applied only if the draft has not been edited since it was
// captured; a superseded result is simply discarded.
func (s *BookingService) recompute(draft domain.BookingDraft) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultEstimateTimeout)
	defer cancel()

	est, snap, err := s.Estimate(ctx, ports.EstimateInput{
		Tutor:           draft.Tutor,
		DurationMinutes: draft.DurationMinutes,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Draft != draft {
		return
	}
	switch {
	case err == nil:
		s.state.Estimate = est
		s.state.Snapshot = snap
		s.state.Rejection = nil
	default:
		var rej *domain.Rejection
		if errors.As(err, &rej) {
			s.state.Rejection = rej
		} else {
			s.log.Warn().Err(err).Msg("draft estimate recomputation failed")
		}
	}
}

// Draft returns a copy of the current draft state.
func (s *BookingService) Draft() *domain.DraftState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state
	return &state
}

// Submit runs every booking precondition in its fixed order, short-
// circuiting on the first failure, and only then submits the paid booking.
// The checks deliberately repeat work done at estimate time: the draft's
// snapshot may be stale, and a local rejection is free while a rejected
// submission still burns fees.
func (s *BookingService) Submit(ctx context.Context) error {
	s.mu.Lock()
	draft := s.state.Draft
	hasEstimate := s.state.Estimate != nil
	s.mu.Unlock()

	// (1) address syntax.
	if !draft.Tutor.Valid() {
		return domain.Reject(domain.RejectInvalidAddress, "tutor address %q is not a valid address", draft.Tutor)
	}
	// (2) subject present.
	subject := strings.TrimSpace(draft.Subject)
	if subject == "" {
		return domain.Reject(domain.RejectEmptySubject, "subject is required")
	}
	// (3) start time present.
	if draft.StartTime.IsZero() {
		return domain.Reject(domain.RejectMissingStartTime, "start time is required")
	}
	// (4) duration in range.
	if draft.DurationMinutes < domain.MinSessionMinutes || draft.DurationMinutes > domain.MaxSessionMinutes {
		return domain.Reject(domain.RejectBadDuration, "duration must be %d-%d minutes, got %d",
			domain.MinSessionMinutes, domain.MaxSessionMinutes, draft.DurationMinutes)
	}
	// (5) start at least five minutes out, judged now, not at draft time.
	if !draft.StartTime.After(s.now().Add(domain.MinStartLead)) {
		return domain.Reject(domain.RejectStartTooSoon, "start time must be more than %s in the future", domain.MinStartLead)
	}
	// (6) a current, non-rejected estimate exists.
	if !hasEstimate {
		return domain.Reject(domain.RejectNoEstimate, "no valid cost estimate for this draft")
	}

	// (7) tutor still registered and active.
	tutor, err := s.reader.TutorInfo(ctx, draft.Tutor)
	if err != nil {
		if errors.Is(err, domain.ErrNotRegistered) {
			return domain.Reject(domain.RejectTutorNotRegistered, "no tutor registered at %s", draft.Tutor)
		}
		return err
	}
	if !tutor.Active {
		return domain.Reject(domain.RejectTutorInactive, "tutor %s is inactive", draft.Tutor)
	}

	// (8) subject certified, case-insensitively.
	subjects, err := s.reader.TutorSubjects(ctx, draft.Tutor)
	if err != nil {
		return err
	}
	certified := false
	for _, candidate := range subjects {
		if strings.EqualFold(candidate, subject) {
			certified = true
			break
		}
	}
	if !certified {
		return domain.Reject(domain.RejectUncertifiedSubject, "tutor is not certified for %q (certified: %s)",
			subject, strings.Join(subjects, ", "))
	}

	// (9) balance covers cost plus margin, from the freshly fetched rate.
	cost := EstimateCost(tutor.HourlyRate, draft.DurationMinutes)
	payment := PaymentWithMargin(cost)

	account, err := s.wallet.Account(ctx)
	if err != nil {
		return err
	}
	if account.IsZero() {
		return domain.ErrNoAccount
	}
	balance, err := s.wallet.Balance(ctx, account)
	if err != nil {
		return err
	}
	if balance.Cmp(payment) < 0 {
		return domain.Reject(domain.RejectInsufficientBalance, "balance %s is below required payment %s",
			domain.FormatUnits(balance), domain.FormatUnits(payment))
	}

	s.log.Info().
		Str("tutor", string(draft.Tutor)).
		Str("subject", subject).
		Int64("minutes", draft.DurationMinutes).
		Time("start", draft.StartTime).
		Str("cost", domain.FormatUnits(cost)).
		Str("payment", domain.FormatUnits(payment)).
		Msg("submitting booking")

	if err := s.writer.BookSession(ctx, draft.Tutor, subject, draft.DurationMinutes, draft.StartTime.Unix(), payment); err != nil {
		metrics.BookingsSubmittedTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.BookingsSubmittedTotal.WithLabelValues("ok").Inc()

	s.sched.Cancel(draftKey)
	s.mu.Lock()
	s.state = domain.DraftState{
		Draft:     domain.BookingDraft{DurationMinutes: defaultDraftMinutes},
		UpdatedAt: s.now().UTC(),
	}
	s.mu.Unlock()

	// Refresh re-reads wallet identity before publishing, so a submission
	// finishing after a reset cannot resurrect stale view state.
	if err := s.refresher.Refresh(ctx); err != nil {
		s.log.Warn().Err(err).Msg("view refresh after booking failed")
	}
	return nil
}
