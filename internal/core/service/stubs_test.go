package service

import (
	"context"
	"math/big"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tutorlink/chain-client/internal/core/domain"
	"github.com/tutorlink/chain-client/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub ledger (reader + writer)
// ---------------------------------------------------------------------------

type bookedCall struct {
	tutor     domain.Address
	subject   string
	minutes   int64
	startUnix int64
	payment   *big.Int
}

type stubLedger struct {
	mu sync.Mutex

	tutors       map[domain.Address]*domain.TutorProfile
	students     map[domain.Address]*domain.StudentProfile
	subjects     map[domain.Address][]string
	sessions     map[uint64]*domain.Session
	history      map[domain.Address][]uint64
	sessionCount uint64

	readErr     error            // if set, every read returns this error
	sessionErrs map[uint64]error // per-id SessionInfo failures

	writeErr error // if set, every write returns this error
	booked   []bookedCall
	commands []string
}

func newStubLedger() *stubLedger {
	return &stubLedger{
		tutors:      make(map[domain.Address]*domain.TutorProfile),
		students:    make(map[domain.Address]*domain.StudentProfile),
		subjects:    make(map[domain.Address][]string),
		sessions:    make(map[uint64]*domain.Session),
		history:     make(map[domain.Address][]uint64),
		sessionErrs: make(map[uint64]error),
	}
}

func (l *stubLedger) TutorInfo(_ context.Context, addr domain.Address) (*domain.TutorProfile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.readErr != nil {
		return nil, l.readErr
	}
	p, ok := l.tutors[addr]
	if !ok {
		return nil, domain.ErrNotRegistered
	}
	clone := *p
	return &clone, nil
}

func (l *stubLedger) StudentInfo(_ context.Context, addr domain.Address) (*domain.StudentProfile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.readErr != nil {
		return nil, l.readErr
	}
	p, ok := l.students[addr]
	if !ok {
		return nil, domain.ErrNotRegistered
	}
	clone := *p
	return &clone, nil
}

func (l *stubLedger) SessionInfo(_ context.Context, id uint64) (*domain.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.readErr != nil {
		return nil, l.readErr
	}
	if err, ok := l.sessionErrs[id]; ok {
		return nil, err
	}
	s, ok := l.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *s
	return &clone, nil
}

func (l *stubLedger) StudentHistory(_ context.Context, addr domain.Address) ([]uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.readErr != nil {
		return nil, l.readErr
	}
	return append([]uint64(nil), l.history[addr]...), nil
}

func (l *stubLedger) TutorSubjects(_ context.Context, addr domain.Address) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.readErr != nil {
		return nil, l.readErr
	}
	return append([]string(nil), l.subjects[addr]...), nil
}

func (l *stubLedger) SessionCount(_ context.Context) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.readErr != nil {
		return 0, l.readErr
	}
	return l.sessionCount, nil
}

func (l *stubLedger) RegisterTutor(_ context.Context, name string, subjects []string, hourlyRate *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.writeErr != nil {
		return l.writeErr
	}
	l.commands = append(l.commands, "register_tutor:"+name)
	return nil
}

func (l *stubLedger) RegisterStudent(_ context.Context, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.writeErr != nil {
		return l.writeErr
	}
	l.commands = append(l.commands, "register_student:"+name)
	return nil
}

func (l *stubLedger) BookSession(_ context.Context, tutor domain.Address, subject string, minutes, startUnix int64, payment *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.writeErr != nil {
		return l.writeErr
	}
	l.booked = append(l.booked, bookedCall{tutor: tutor, subject: subject, minutes: minutes, startUnix: startUnix, payment: new(big.Int).Set(payment)})
	return nil
}

func (l *stubLedger) ConfirmSession(_ context.Context, id uint64) error {
	return l.record("confirm")
}

func (l *stubLedger) StartSession(_ context.Context, id uint64) error {
	return l.record("start")
}

func (l *stubLedger) CompleteSession(_ context.Context, id uint64, rating uint8, feedback string) error {
	return l.record("complete")
}

func (l *stubLedger) CancelSession(_ context.Context, id uint64, reason string) error {
	return l.record("cancel")
}

func (l *stubLedger) record(cmd string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.writeErr != nil {
		return l.writeErr
	}
	l.commands = append(l.commands, cmd)
	return nil
}

// ---------------------------------------------------------------------------
// Stub wallet
// ---------------------------------------------------------------------------

type stubWallet struct {
	mu      sync.Mutex
	account domain.Address
	chain   *big.Int
	balance *big.Int

	accountErr error
	chainErr   error

	signals chan ports.WalletSignal
}

func newStubWallet(account domain.Address, chain int64, balance *big.Int) *stubWallet {
	return &stubWallet{
		account: account,
		chain:   big.NewInt(chain),
		balance: balance,
		signals: make(chan ports.WalletSignal, 8),
	}
}

func (w *stubWallet) Account(_ context.Context) (domain.Address, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.accountErr != nil {
		return "", w.accountErr
	}
	return w.account, nil
}

func (w *stubWallet) ChainID(_ context.Context) (*big.Int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.chainErr != nil {
		return nil, w.chainErr
	}
	return new(big.Int).Set(w.chain), nil
}

func (w *stubWallet) Balance(_ context.Context, _ domain.Address) (*big.Int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return new(big.Int).Set(w.balance), nil
}

func (w *stubWallet) Subscribe() (<-chan ports.WalletSignal, func()) {
	return w.signals, func() {}
}

// ---------------------------------------------------------------------------
// Stub refresher
// ---------------------------------------------------------------------------

type stubRefresher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (r *stubRefresher) Refresh(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.err
}

func (r *stubRefresher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}
