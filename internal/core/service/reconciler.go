package service

import (
	"context"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/tutorlink/chain-client/internal/api/metrics"
	"github.com/tutorlink/chain-client/internal/core/domain"
	"github.com/tutorlink/chain-client/internal/core/ports"
)

// View is the snapshot of local state the API serves. It is a cache of
// ledger facts, rebuilt on every successful command and on every wallet
// signal, never a source of truth.
type View struct {
	Connected    bool
	WrongNetwork bool
	ChainID      *big.Int
	Account      domain.Address
	Identity     *domain.Identity
	Directory    *ports.Directory
}

// Reconciler keeps the local view consistent with the wallet and the
// ledger. Wallet signals (chain change, account change) and successful
// writes both funnel into Refresh; a generation counter guarantees that
// only the most recently initiated rebuild may publish its result, so a
// slow stale rebuild can never overwrite a newer one.
type Reconciler struct {
	wallet        ports.WalletProvider
	resolver      ports.IdentityResolver
	builder       ports.DirectoryBuilder
	requiredChain *big.Int
	log           zerolog.Logger

	gen  atomic.Uint64
	mu   sync.RWMutex
	view View
}

func NewReconciler(wallet ports.WalletProvider, resolver ports.IdentityResolver, builder ports.DirectoryBuilder, requiredChain *big.Int, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		wallet:        wallet,
		resolver:      resolver,
		builder:       builder,
		requiredChain: requiredChain,
		log:           log,
	}
}

// Run consumes wallet signals until ctx is cancelled. Call on its own
// goroutine after an initial Refresh.
func (r *Reconciler) Run(ctx context.Context) {
	signals, cancel := r.wallet.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-signals:
			if !ok {
				return
			}
			r.handleSignal(ctx, sig)
		}
	}
}

func (r *Reconciler) handleSignal(ctx context.Context, sig ports.WalletSignal) {
	switch sig.Kind {
	case ports.SignalChainChanged:
		if sig.ChainID != nil && sig.ChainID.Cmp(r.requiredChain) == 0 {
			r.log.Info().Str("chain_id", sig.ChainID.String()).Msg("required network active again")
			r.refresh(ctx)
			return
		}
		// Everything derived from the old chain is now meaningless.
		r.reset(View{Connected: true, WrongNetwork: true, ChainID: sig.ChainID})
		metrics.ReconcileResetsTotal.WithLabelValues("wrong_network").Inc()
		r.log.Error().Msg("active chain is not the required network; switch networks to continue")

	case ports.SignalAccountsChanged:
		if len(sig.Accounts) == 0 {
			// Wallet locked or disconnected: back to the baseline.
			r.reset(View{})
			metrics.ReconcileResetsTotal.WithLabelValues("disconnected").Inc()
			r.log.Warn().Msg("wallet reported no accounts; cleared local state")
			return
		}
		metrics.ReconcileResetsTotal.WithLabelValues("account_changed").Inc()
		r.log.Info().Str("account", string(sig.Accounts[0])).Msg("active account changed")
		r.refresh(ctx)
	}
}

// Refresh re-derives the entire view from current wallet state: chain
// check, identity resolution, directory rebuild. Safe to call from any
// goroutine at any time; if a newer Refresh starts while this one is in
// flight, this one's result is discarded.
func (r *Reconciler) Refresh(ctx context.Context) error {
	return r.refresh(ctx)
}

func (r *Reconciler) refresh(ctx context.Context) error {
	gen := r.gen.Add(1)

	chainID, err := r.wallet.ChainID(ctx)
	if err != nil {
		r.publish(gen, View{})
		return domain.ErrNotConnected
	}
	if chainID.Cmp(r.requiredChain) != 0 {
		r.publish(gen, View{Connected: true, WrongNetwork: true, ChainID: chainID})
		return domain.ErrWrongNetwork
	}

	account, err := r.wallet.Account(ctx)
	if err != nil || account.IsZero() {
		r.publish(gen, View{Connected: true, ChainID: chainID})
		return nil
	}

	identity, err := r.resolver.Resolve(ctx, account)
	if err != nil {
		r.log.Error().Err(err).Msg("identity resolution failed")
		r.publish(gen, View{Connected: true, ChainID: chainID, Account: account})
		return err
	}

	directory, err := r.builder.Rebuild(ctx, account, identity.Role)
	if err != nil {
		r.log.Error().Err(err).Msg("directory rebuild failed")
		r.publish(gen, View{Connected: true, ChainID: chainID, Account: account, Identity: identity})
		return err
	}

	if r.publish(gen, View{
		Connected: true,
		ChainID:   chainID,
		Account:   account,
		Identity:  identity,
		Directory: directory,
	}) {
		r.log.Info().
			Str("account", string(account)).
			Str("role", string(identity.Role)).
			Int("sessions", len(directory.Sessions)).
			Msg("view reconciled")
	}
	return nil
}

// reset replaces the view unconditionally and invalidates every in-flight
// rebuild, regardless of any operation still running.
func (r *Reconciler) reset(v View) {
	r.gen.Add(1)
	r.mu.Lock()
	r.view = v
	r.mu.Unlock()
}

// publish installs v only when gen is still the most recently initiated
// rebuild. Returns whether the view was installed.
func (r *Reconciler) publish(gen uint64, v View) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen.Load() != gen {
		return false
	}
	r.view = v
	return true
}

// View returns a copy of the current view.
func (r *Reconciler) View() View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.view
}
