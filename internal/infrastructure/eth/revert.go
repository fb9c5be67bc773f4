package eth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/tutorlink/chain-client/internal/core/domain"
)

// The contract's terse revert strings, verbatim.
var revertMapping = map[string]error{
	"Underpaid":         domain.ErrUnderpaid,
	"Tutor uncertified": domain.ErrUncertifiedSubject,
	"Start past":        domain.ErrStartInPast,
	"Bad duration":      domain.ErrBadDuration,
	"Not student":       domain.ErrNotStudent,
}

// mapRevertReason resolves a contract revert string to its domain error,
// or nil when the reason is empty or unknown.
func mapRevertReason(reason string) error {
	if mapped, ok := revertMapping[reason]; ok {
		return mapped
	}
	return nil
}

// mapWriteError classifies an error raised before a transaction was
// accepted by the network: nothing was submitted and no fee was spent.
func mapWriteError(method string, err error) error {
	if errors.Is(err, keystore.ErrDecrypt) || errors.Is(err, keystore.ErrLocked) {
		return fmt.Errorf("%w: %v", domain.ErrSigningDeclined, err)
	}
	if reason := revertReason(err); reason != "" {
		if mapped := mapRevertReason(reason); mapped != nil {
			return mapped
		}
		return fmt.Errorf("%w: %s: %s", domain.ErrSubmissionFailed, method, reason)
	}
	return fmt.Errorf("%s: %w", method, err)
}

// revertReason extracts the Error(string) payload from an RPC error, or ""
// when the error carries none. Providers differ: some attach structured
// revert data, others only embed the reason in the message.
func revertReason(err error) string {
	if err == nil {
		return ""
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if hexData, ok := dataErr.ErrorData().(string); ok {
			if data, decodeErr := hexutil.Decode(hexData); decodeErr == nil {
				if reason, unpackErr := abi.UnpackRevert(data); unpackErr == nil {
					return reason
				}
			}
		}
	}

	// Fallback: "execution reverted: <reason>" in the message text.
	const marker = "execution reverted"
	msg := err.Error()
	if idx := strings.Index(msg, marker); idx >= 0 {
		reason := strings.TrimPrefix(msg[idx+len(marker):], ":")
		return strings.TrimSpace(reason)
	}
	return ""
}

// replayForReason re-executes an included-but-failed transaction as a call
// at its inclusion block to recover the revert string. Best effort: an
// empty result means the provider would not reproduce the failure.
func (l *Ledger) replayForReason(ctx context.Context, tx *types.Transaction, receipt *types.Receipt) string {
	msg := ethereum.CallMsg{
		From:     l.wallet.account.Address,
		To:       tx.To(),
		Gas:      tx.Gas(),
		GasPrice: tx.GasPrice(),
		Value:    tx.Value(),
		Data:     tx.Data(),
	}
	result, err := l.client.rpc.CallContract(ctx, msg, receipt.BlockNumber)
	if err != nil {
		return revertReason(err)
	}
	if reason, unpackErr := abi.UnpackRevert(result); unpackErr == nil {
		return reason
	}
	return ""
}
