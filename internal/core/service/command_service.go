package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tutorlink/chain-client/internal/core/domain"
	"github.com/tutorlink/chain-client/internal/core/ports"
)

// CommandService executes the four session state transitions. It does not
// second-guess the ledger's state machine: a transition the ledger would
// refuse is submitted anyway and the mapped rejection surfaced, because the
// local status cache may be stale in either direction. The only local
// check is shape validation that no ledger state could make true.
type CommandService struct {
	writer    ports.LedgerWriter
	refresher viewRefresher
	log       zerolog.Logger
}

func NewCommandService(writer ports.LedgerWriter, refresher viewRefresher, log zerolog.Logger) *CommandService {
	return &CommandService{writer: writer, refresher: refresher, log: log}
}

// Confirm accepts a pending session (tutor side).
func (s *CommandService) Confirm(ctx context.Context, id uint64) error {
	return s.run(ctx, "confirm", id, func() error {
		return s.writer.ConfirmSession(ctx, id)
	})
}

// Start moves a confirmed session into progress.
func (s *CommandService) Start(ctx context.Context, id uint64) error {
	return s.run(ctx, "start", id, func() error {
		return s.writer.StartSession(ctx, id)
	})
}

// Complete finishes an in-progress session with a rating in [1,5] and
// optional feedback.
func (s *CommandService) Complete(ctx context.Context, id uint64, rating uint8, feedback string) error {
	if rating < 1 || rating > 5 {
		return domain.ErrInvalidRating
	}
	return s.run(ctx, "complete", id, func() error {
		return s.writer.CompleteSession(ctx, id, rating, feedback)
	})
}

// Cancel aborts a pending or confirmed session with an optional reason.
func (s *CommandService) Cancel(ctx context.Context, id uint64, reason string) error {
	return s.run(ctx, "cancel", id, func() error {
		return s.writer.CancelSession(ctx, id, reason)
	})
}

func (s *CommandService) run(ctx context.Context, name string, id uint64, write func() error) error {
	if err := write(); err != nil {
		s.log.Error().Err(err).Str("command", name).Uint64("session_id", id).Msg("session command failed")
		return err
	}
	s.log.Info().Str("command", name).Uint64("session_id", id).Msg("session command included")

	// The command changed ledger state; the cached directory is stale.
	if err := s.refresher.Refresh(ctx); err != nil {
		s.log.Warn().Err(err).Str("command", name).Msg("view refresh after command failed")
	}
	return nil
}
