package eth

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"

	"github.com/tutorlink/chain-client/internal/api/metrics"
	"github.com/tutorlink/chain-client/internal/core/domain"
)

// Ledger implements ports.LedgerReader and ports.LedgerWriter against the
// bound contract. Reads decode positionally from the ABI; writes sign with
// the wallet, await inclusion, and map revert reasons to domain errors.
// All monetary values pass through untouched: the contract's fixed-point
// base units are the only representation.
type Ledger struct {
	client *Client
	wallet *Wallet
	log    zerolog.Logger
}

func NewLedger(client *Client, wallet *Wallet, log zerolog.Logger) *Ledger {
	return &Ledger{client: client, wallet: wallet, log: log}
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (l *Ledger) TutorInfo(ctx context.Context, addr domain.Address) (*domain.TutorProfile, error) {
	var out []interface{}
	if err := l.call(ctx, "getTutorInfo", &out, addr.Common()); err != nil {
		return nil, err
	}
	if !out[0].(bool) {
		return nil, domain.ErrNotRegistered
	}
	return &domain.TutorProfile{
		Active:            out[1].(bool),
		Name:              out[2].(string),
		HourlyRate:        out[3].(*big.Int),
		AvgRating:         out[4].(*big.Int).Uint64(),
		RatingCount:       out[5].(*big.Int).Uint64(),
		CompletedSessions: out[6].(*big.Int).Uint64(),
	}, nil
}

func (l *Ledger) StudentInfo(ctx context.Context, addr domain.Address) (*domain.StudentProfile, error) {
	var out []interface{}
	if err := l.call(ctx, "getStudentInfo", &out, addr.Common()); err != nil {
		return nil, err
	}
	if !out[0].(bool) {
		return nil, domain.ErrNotRegistered
	}
	return &domain.StudentProfile{
		Name:              out[1].(string),
		TotalSpent:        out[2].(*big.Int),
		SessionsCompleted: out[3].(*big.Int).Uint64(),
		SessionCount:      out[4].(*big.Int).Uint64(),
	}, nil
}

func (l *Ledger) SessionInfo(ctx context.Context, id uint64) (*domain.Session, error) {
	var out []interface{}
	if err := l.call(ctx, "getSessionBasicInfo", &out, new(big.Int).SetUint64(id)); err != nil {
		// The contract reverts on unknown ids.
		if reason := revertReason(err); reason != "" {
			return nil, fmt.Errorf("%w: id %d", domain.ErrSessionNotFound, id)
		}
		return nil, err
	}
	student := out[0].(common.Address)
	if student == (common.Address{}) {
		return nil, fmt.Errorf("%w: id %d", domain.ErrSessionNotFound, id)
	}
	return &domain.Session{
		ID:              id,
		Student:         domain.AddressFromCommon(student),
		Tutor:           domain.AddressFromCommon(out[1].(common.Address)),
		Subject:         out[2].(string),
		DurationMinutes: out[3].(*big.Int).Int64(),
		Status:          domain.SessionStatus(out[4].(uint8)),
	}, nil
}

func (l *Ledger) StudentHistory(ctx context.Context, addr domain.Address) ([]uint64, error) {
	var out []interface{}
	if err := l.call(ctx, "studentHistory", &out, addr.Common()); err != nil {
		return nil, err
	}
	raw := out[0].([]*big.Int)
	ids := make([]uint64, len(raw))
	for i, id := range raw {
		ids[i] = id.Uint64()
	}
	return ids, nil
}

func (l *Ledger) TutorSubjects(ctx context.Context, addr domain.Address) ([]string, error) {
	var out []interface{}
	if err := l.call(ctx, "tutorSubjects", &out, addr.Common()); err != nil {
		return nil, err
	}
	return out[0].([]string), nil
}

func (l *Ledger) SessionCount(ctx context.Context) (uint64, error) {
	var out []interface{}
	if err := l.call(ctx, "sessionCounter", &out); err != nil {
		return 0, err
	}
	return out[0].(*big.Int).Uint64(), nil
}

func (l *Ledger) call(ctx context.Context, method string, out *[]interface{}, args ...interface{}) error {
	err := l.client.contract.Call(&bind.CallOpts{Context: ctx}, out, method, args...)
	if err != nil {
		metrics.LedgerCallsTotal.WithLabelValues(method, "error").Inc()
		return fmt.Errorf("%s: %w", method, err)
	}
	metrics.LedgerCallsTotal.WithLabelValues(method, "ok").Inc()
	return nil
}

// ── Writes ────────────────────────────────────────────────────────────────────

func (l *Ledger) RegisterTutor(ctx context.Context, name string, subjects []string, hourlyRate *big.Int) error {
	return l.write(ctx, "registerTutor", gasRegisterTutor, nil, name, subjects, hourlyRate)
}

func (l *Ledger) RegisterStudent(ctx context.Context, name string) error {
	return l.write(ctx, "registerStudent", gasRegisterStudent, nil, name)
}

func (l *Ledger) BookSession(ctx context.Context, tutor domain.Address, subject string, minutes int64, startUnix int64, payment *big.Int) error {
	return l.write(ctx, "bookSession", gasBookSession, payment,
		tutor.Common(), subject, big.NewInt(minutes), big.NewInt(startUnix))
}

func (l *Ledger) ConfirmSession(ctx context.Context, id uint64) error {
	return l.write(ctx, "confirmSession", gasConfirmSession, nil, new(big.Int).SetUint64(id))
}

func (l *Ledger) StartSession(ctx context.Context, id uint64) error {
	return l.write(ctx, "startSession", gasStartSession, nil, new(big.Int).SetUint64(id))
}

func (l *Ledger) CompleteSession(ctx context.Context, id uint64, rating uint8, feedback string) error {
	return l.write(ctx, "completeSession", gasCompleteSession, nil,
		new(big.Int).SetUint64(id), new(big.Int).SetUint64(uint64(rating)), feedback)
}

func (l *Ledger) CancelSession(ctx context.Context, id uint64, reason string) error {
	return l.write(ctx, "cancelSession", gasCancelSession, nil, new(big.Int).SetUint64(id), reason)
}

// write signs, submits, and waits for inclusion. Once the transaction is
// included the fee is spent whatever the logical outcome, so a failed
// receipt is replayed as a call to recover the revert reason.
func (l *Ledger) write(ctx context.Context, method string, gasLimit uint64, value *big.Int, args ...interface{}) error {
	opts, err := l.wallet.transactOpts(ctx)
	if err != nil {
		return err
	}
	opts.Context = ctx
	opts.GasLimit = gasLimit
	opts.Value = value

	started := time.Now()
	tx, err := l.client.contract.Transact(opts, method, args...)
	if err != nil {
		metrics.LedgerCallsTotal.WithLabelValues(method, "error").Inc()
		return mapWriteError(method, err)
	}

	l.log.Info().Str("method", method).Str("tx", tx.Hash().Hex()).Msg("transaction submitted")

	receipt, err := bind.WaitMined(ctx, l.client.rpc, tx)
	if err != nil {
		metrics.LedgerCallsTotal.WithLabelValues(method, "error").Inc()
		return fmt.Errorf("%s: await inclusion: %w", method, err)
	}
	metrics.LedgerWriteDuration.WithLabelValues(method).Observe(time.Since(started).Seconds())

	if receipt.Status != types.ReceiptStatusSuccessful {
		metrics.LedgerCallsTotal.WithLabelValues(method, "error").Inc()
		reason := l.replayForReason(ctx, tx, receipt)
		l.log.Error().Str("method", method).Str("tx", tx.Hash().Hex()).Str("reason", reason).Msg("transaction reverted")
		if mapped := mapRevertReason(reason); mapped != nil {
			return mapped
		}
		return fmt.Errorf("%w: %s tx %s", domain.ErrSubmissionFailed, method, tx.Hash().Hex())
	}

	metrics.LedgerCallsTotal.WithLabelValues(method, "ok").Inc()
	l.log.Info().
		Str("method", method).
		Str("tx", tx.Hash().Hex()).
		Str("block", receipt.BlockNumber.String()).
		Msg("transaction included")
	return nil
}
