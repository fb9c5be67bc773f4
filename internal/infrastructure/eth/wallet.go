package eth

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/rs/zerolog"

	"github.com/tutorlink/chain-client/internal/core/domain"
	"github.com/tutorlink/chain-client/internal/core/ports"
)

// Wallet implements ports.WalletProvider over a local encrypted keystore.
// A browser wallet pushes chain/account notifications; a keystore cannot,
// so Watch polls both and synthesises the same signals: chain_changed when
// the RPC endpoint's chain id moves, accounts_changed when the keystore's
// first account appears, changes, or disappears.
type Wallet struct {
	client       *Client
	ks           *keystore.KeyStore
	passphrase   string
	pollInterval time.Duration
	log          zerolog.Logger

	mu          sync.Mutex
	account     accounts.Account
	hasAccount  bool
	unlocked    bool
	lastChain   *big.Int
	subs        map[int]chan ports.WalletSignal
	nextSubID   int
}

func NewWallet(client *Client, keystoreDir, passphrase string, pollInterval time.Duration, log zerolog.Logger) *Wallet {
	ks := keystore.NewKeyStore(keystoreDir, keystore.StandardScryptN, keystore.StandardScryptP)
	w := &Wallet{
		client:       client,
		ks:           ks,
		passphrase:   passphrase,
		pollInterval: pollInterval,
		log:          log,
		subs:         make(map[int]chan ports.WalletSignal),
	}
	if all := ks.Accounts(); len(all) > 0 {
		w.account = all[0]
		w.hasAccount = true
		log.Info().Str("account", all[0].Address.Hex()).Msg("signing account loaded")
	} else {
		log.Warn().Str("keystore", keystoreDir).Msg("keystore empty; running without a signing account")
	}
	return w
}

func (w *Wallet) Account(_ context.Context) (domain.Address, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.hasAccount {
		return "", nil
	}
	return domain.AddressFromCommon(w.account.Address), nil
}

func (w *Wallet) ChainID(ctx context.Context) (*big.Int, error) {
	chainID, err := w.client.rpc.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNotConnected, err)
	}
	return chainID, nil
}

func (w *Wallet) Balance(ctx context.Context, addr domain.Address) (*big.Int, error) {
	balance, err := w.client.rpc.BalanceAt(ctx, addr.Common(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNotConnected, err)
	}
	return balance, nil
}

// Subscribe registers a signal channel. Delivery is best effort: a
// subscriber that stops draining loses signals rather than stalling the
// watcher.
func (w *Wallet) Subscribe() (<-chan ports.WalletSignal, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextSubID
	w.nextSubID++
	ch := make(chan ports.WalletSignal, 4)
	w.subs[id] = ch

	cancel := func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if existing, ok := w.subs[id]; ok {
			delete(w.subs, id)
			close(existing)
		}
	}
	return ch, cancel
}

// Watch polls chain id and keystore accounts until ctx is cancelled. Run
// on its own goroutine.
func (w *Wallet) Watch(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.pollChain(ctx)
			w.pollAccounts()
		}
	}
}

func (w *Wallet) pollChain(ctx context.Context) {
	chainID, err := w.client.rpc.ChainID(ctx)
	if err != nil {
		w.log.Debug().Err(err).Msg("chain id poll failed")
		return
	}

	w.mu.Lock()
	changed := w.lastChain != nil && w.lastChain.Cmp(chainID) != 0
	w.lastChain = chainID
	w.mu.Unlock()

	if changed {
		w.broadcast(ports.WalletSignal{Kind: ports.SignalChainChanged, ChainID: chainID})
	}
}

func (w *Wallet) pollAccounts() {
	all := w.ks.Accounts()

	w.mu.Lock()
	var changed bool
	switch {
	case len(all) == 0 && w.hasAccount:
		w.account = accounts.Account{}
		w.hasAccount = false
		w.unlocked = false
		changed = true
	case len(all) > 0 && (!w.hasAccount || all[0].Address != w.account.Address):
		w.account = all[0]
		w.hasAccount = true
		w.unlocked = false
		changed = true
	}
	var current []domain.Address
	for _, acct := range all {
		current = append(current, domain.AddressFromCommon(acct.Address))
	}
	w.mu.Unlock()

	if changed {
		w.broadcast(ports.WalletSignal{Kind: ports.SignalAccountsChanged, Accounts: current})
	}
}

// broadcast delivers sig to every subscriber. A full buffer sheds the
// oldest queued signal, never the newest: a slow subscriber sees stale
// intermediate states evicted but always receives the latest one, so a
// disconnect or chain switch cannot be lost to backpressure.
func (w *Wallet) broadcast(sig ports.WalletSignal) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ch := range w.subs {
		select {
		case ch <- sig:
			continue
		default:
		}
		select {
		case stale := <-ch:
			w.log.Debug().Str("kind", string(stale.Kind)).Msg("stale wallet signal evicted; subscriber not draining")
		default:
		}
		// Only broadcast sends, and it holds the lock, so the freed slot
		// cannot be refilled before this send.
		select {
		case ch <- sig:
		default:
		}
	}
}

// transactOpts builds signing options for a write. The keystore account is
// unlocked on first use; a bad passphrase surfaces as a declined signing,
// not a submission failure, because nothing reached the network.
func (w *Wallet) transactOpts(_ context.Context) (*bind.TransactOpts, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.hasAccount {
		return nil, domain.ErrNoAccount
	}
	if !w.unlocked {
		if err := w.ks.Unlock(w.account, w.passphrase); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrSigningDeclined, err)
		}
		w.unlocked = true
	}

	opts, err := bind.NewKeyStoreTransactorWithChainID(w.ks, w.account, w.client.requiredChain)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSigningDeclined, err)
	}
	return opts, nil
}
