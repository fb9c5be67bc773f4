package service

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/tutorlink/chain-client/internal/core/domain"
)

func TestIdentityService_Resolve_TutorWinsOverStudent(t *testing.T) {
	ledger := newStubLedger()
	ledger.tutors[tutorAddr] = &domain.TutorProfile{Name: "Ada", HourlyRate: big.NewInt(1), Active: true}
	ledger.students[tutorAddr] = &domain.StudentProfile{Name: "Ada the student"}
	svc := NewIdentityService(ledger, ledger, &stubRefresher{}, discardLogger)

	identity, err := svc.Resolve(context.Background(), tutorAddr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.Role != domain.RoleTutor {
		t.Errorf("role = %s, want tutor (tutor lookup runs first)", identity.Role)
	}
	if identity.Tutor == nil || identity.Student != nil {
		t.Error("exactly the tutor profile must be populated")
	}
}

func TestIdentityService_Resolve_Student(t *testing.T) {
	ledger := newStubLedger()
	ledger.students[studentAddr] = &domain.StudentProfile{Name: "Linus"}
	svc := NewIdentityService(ledger, ledger, &stubRefresher{}, discardLogger)

	identity, err := svc.Resolve(context.Background(), studentAddr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.Role != domain.RoleStudent {
		t.Errorf("role = %s, want student", identity.Role)
	}
}

func TestIdentityService_Resolve_Unregistered(t *testing.T) {
	ledger := newStubLedger()
	svc := NewIdentityService(ledger, ledger, &stubRefresher{}, discardLogger)

	identity, err := svc.Resolve(context.Background(), studentAddr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.Role != domain.RoleUnregistered {
		t.Errorf("role = %s, want unregistered", identity.Role)
	}
}

func TestIdentityService_Resolve_ZeroAddress(t *testing.T) {
	ledger := newStubLedger()
	svc := NewIdentityService(ledger, ledger, &stubRefresher{}, discardLogger)

	identity, err := svc.Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.Role != domain.RoleUnregistered {
		t.Errorf("role = %s, want unregistered", identity.Role)
	}
}

func TestIdentityService_Resolve_TransportError(t *testing.T) {
	ledger := newStubLedger()
	ledger.readErr = errors.New("rpc down")
	svc := NewIdentityService(ledger, ledger, &stubRefresher{}, discardLogger)

	if _, err := svc.Resolve(context.Background(), studentAddr); err == nil {
		t.Fatal("transport failure must propagate, not default to unregistered")
	}
}

func TestIdentityService_RegisterTutor_Validation(t *testing.T) {
	ledger := newStubLedger()
	svc := NewIdentityService(ledger, ledger, &stubRefresher{}, discardLogger)
	ctx := context.Background()
	rate := big.NewInt(1)

	cases := []struct {
		name     string
		tutor    string
		subjects []string
		rate     *big.Int
	}{
		{"empty name", "", []string{"math"}, rate},
		{"blank name", "   ", []string{"math"}, rate},
		{"no subjects", "Ada", nil, rate},
		{"only blank subjects", "Ada", []string{" ", ""}, rate},
		{"nil rate", "Ada", []string{"math"}, nil},
		{"zero rate", "Ada", []string{"math"}, big.NewInt(0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.RegisterTutor(ctx, tc.tutor, tc.subjects, tc.rate)
			if !errors.Is(err, domain.ErrBadRegistration) {
				t.Errorf("expected ErrBadRegistration, got %v", err)
			}
		})
	}
	if len(ledger.commands) != 0 {
		t.Errorf("no writes expected, got %v", ledger.commands)
	}
}

func TestIdentityService_RegisterTutor_Success(t *testing.T) {
	ledger := newStubLedger()
	refresher := &stubRefresher{}
	svc := NewIdentityService(ledger, ledger, refresher, discardLogger)

	err := svc.RegisterTutor(context.Background(), " Ada ", []string{" math ", "", "physics"}, big.NewInt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ledger.commands) != 1 {
		t.Fatalf("expected 1 write, got %v", ledger.commands)
	}
	if refresher.count() != 1 {
		t.Error("view refresh expected after registration")
	}
}

func TestIdentityService_RegisterStudent(t *testing.T) {
	ledger := newStubLedger()
	refresher := &stubRefresher{}
	svc := NewIdentityService(ledger, ledger, refresher, discardLogger)

	if err := svc.RegisterStudent(context.Background(), ""); !errors.Is(err, domain.ErrBadRegistration) {
		t.Errorf("expected ErrBadRegistration for empty name, got %v", err)
	}
	if err := svc.RegisterStudent(context.Background(), "Linus"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refresher.count() != 1 {
		t.Error("view refresh expected after registration")
	}
}

func TestIdentityService_Register_WriterErrorSkipsRefresh(t *testing.T) {
	ledger := newStubLedger()
	ledger.writeErr = domain.ErrSubmissionFailed
	refresher := &stubRefresher{}
	svc := NewIdentityService(ledger, ledger, refresher, discardLogger)

	if err := svc.RegisterStudent(context.Background(), "Linus"); !errors.Is(err, domain.ErrSubmissionFailed) {
		t.Fatalf("expected ErrSubmissionFailed, got %v", err)
	}
	if refresher.count() != 0 {
		t.Error("no refresh expected after failed registration")
	}
}
