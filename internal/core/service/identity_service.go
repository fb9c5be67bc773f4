package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tutorlink/chain-client/internal/core/domain"
	"github.com/tutorlink/chain-client/internal/core/ports"
)

// viewRefresher is the slice of the reconciler the services need: after a
// successful write, re-derive identity and directory from the ledger.
type viewRefresher interface {
	Refresh(ctx context.Context) error
}

// IdentityService resolves roles and submits registrations. Role is always
// derived by asking the ledger, tutor first, then student; the client never
// assigns a role on its own.
type IdentityService struct {
	reader    ports.LedgerReader
	writer    ports.LedgerWriter
	refresher viewRefresher
	log       zerolog.Logger
}

func NewIdentityService(reader ports.LedgerReader, writer ports.LedgerWriter, refresher viewRefresher, log zerolog.Logger) *IdentityService {
	return &IdentityService{reader: reader, writer: writer, refresher: refresher, log: log}
}

// Resolve classifies addr. The first affirmative lookup wins: tutor, then
// student, else unregistered.
func (s *IdentityService) Resolve(ctx context.Context, addr domain.Address) (*domain.Identity, error) {
	if addr.IsZero() {
		return domain.Unregistered(addr), nil
	}

	tutor, err := s.reader.TutorInfo(ctx, addr)
	if err == nil {
		return &domain.Identity{Address: addr, Role: domain.RoleTutor, Tutor: tutor}, nil
	}
	if !errors.Is(err, domain.ErrNotRegistered) {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	student, err := s.reader.StudentInfo(ctx, addr)
	if err == nil {
		return &domain.Identity{Address: addr, Role: domain.RoleStudent, Student: student}, nil
	}
	if !errors.Is(err, domain.ErrNotRegistered) {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	return domain.Unregistered(addr), nil
}

// RegisterTutor submits a tutor registration. Subjects are trimmed and
// empties dropped before submission.
func (s *IdentityService) RegisterTutor(ctx context.Context, name string, subjects []string, hourlyRate *big.Int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name required", domain.ErrBadRegistration)
	}

	cleaned := make([]string, 0, len(subjects))
	for _, subj := range subjects {
		if subj = strings.TrimSpace(subj); subj != "" {
			cleaned = append(cleaned, subj)
		}
	}
	if len(cleaned) == 0 {
		return fmt.Errorf("%w: at least one subject required", domain.ErrBadRegistration)
	}
	if hourlyRate == nil || hourlyRate.Sign() <= 0 {
		return fmt.Errorf("%w: hourly rate must be positive", domain.ErrBadRegistration)
	}

	if err := s.writer.RegisterTutor(ctx, name, cleaned, hourlyRate); err != nil {
		return err
	}

	s.log.Info().Str("name", name).Strs("subjects", cleaned).Msg("tutor registered")
	s.refreshView(ctx)
	return nil
}

// RegisterStudent submits a student registration.
func (s *IdentityService) RegisterStudent(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name required", domain.ErrBadRegistration)
	}

	if err := s.writer.RegisterStudent(ctx, name); err != nil {
		return err
	}

	s.log.Info().Str("name", name).Msg("student registered")
	s.refreshView(ctx)
	return nil
}

func (s *IdentityService) refreshView(ctx context.Context) {
	if err := s.refresher.Refresh(ctx); err != nil {
		s.log.Warn().Err(err).Msg("view refresh after registration failed")
	}
}
