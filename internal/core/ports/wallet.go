package ports

import (
	"context"
	"math/big"

	"github.com/tutorlink/chain-client/internal/core/domain"
)

// SignalKind labels an asynchronous wallet notification.
type SignalKind string

const (
	SignalChainChanged    SignalKind = "chain_changed"
	SignalAccountsChanged SignalKind = "accounts_changed"
)

// WalletSignal is delivered on a subscription channel whenever the active
// chain or account set changes. Signals may arrive at any time, including
// mid-flight of another operation.
type WalletSignal struct {
	Kind SignalKind
	// ChainID is set for chain_changed signals.
	ChainID *big.Int
	// Accounts is set for accounts_changed signals; empty means the
	// wallet is locked or disconnected.
	Accounts []domain.Address
}

// WalletProvider abstracts the signing wallet and its chain identity. The
// core never touches a global provider; it is handed this capability so it
// can be exercised against a fake with no live network.
type WalletProvider interface {
	// Account returns the active signing address, or the zero Address
	// when no account is available.
	Account(ctx context.Context) (domain.Address, error)
	// ChainID returns the wallet's current chain id.
	ChainID(ctx context.Context) (*big.Int, error)
	// Balance returns addr's spendable balance in base units.
	Balance(ctx context.Context, addr domain.Address) (*big.Int, error)
	// Subscribe registers for wallet signals. The returned cancel func
	// must be called to release the subscription; after cancel the
	// channel is closed.
	Subscribe() (<-chan WalletSignal, func())
}
