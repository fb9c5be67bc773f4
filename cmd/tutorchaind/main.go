package main

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tutorlink/chain-client/internal/api"
	"github.com/tutorlink/chain-client/internal/core/service"
	"github.com/tutorlink/chain-client/internal/infrastructure/config"
	"github.com/tutorlink/chain-client/internal/infrastructure/eth"
	"github.com/tutorlink/chain-client/pkg/logger"
)

// lazyRefresher forwards Refresh to a reconciler assigned after
// construction.
type lazyRefresher struct {
	target *service.Reconciler
}

func (l *lazyRefresher) Refresh(ctx context.Context) error {
	if l.target == nil {
		return nil
	}
	return l.target.Refresh(ctx)
}

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	requiredChain := big.NewInt(cfg.Ledger.ChainID)

	client, err := eth.Dial(ctx, cfg.Ledger.RPCURL, cfg.Ledger.ContractAddress, requiredChain, log)
	if err != nil {
		log.Fatal().Err(err).Msg("ledger dial failed")
	}
	defer client.Close()

	if err := client.Probe(ctx); err != nil {
		// Startup continues: the reconciler recovers once connectivity does.
		log.Warn().Err(err).Msg("ledger probe failed at startup")
	}

	wallet := eth.NewWallet(client, cfg.Ledger.KeystoreDir, cfg.Ledger.KeystorePassphrase, cfg.Ledger.WalletPollInterval, log)
	ledger := eth.NewLedger(client, wallet, log)

	// The identity service refreshes the reconciler after registrations,
	// and the reconciler resolves identities through the identity service.
	// A late-bound refresher breaks the construction cycle.
	refresher := &lazyRefresher{}
	directory := service.NewDirectoryService(ledger, cfg.Ledger.DirectoryWorkers, log)
	identity := service.NewIdentityService(ledger, ledger, refresher, log)
	reconciler := service.NewReconciler(wallet, identity, directory, requiredChain, log)
	refresher.target = reconciler

	booking := service.NewBookingService(ledger, ledger, wallet, reconciler, cfg.Ledger.EstimateDebounce, log)
	defer booking.Close()
	commands := service.NewCommandService(ledger, reconciler, log)
	auth := service.NewAuthService(cfg.OperatorPasswordHash, cfg.JWTSecret, 24*time.Hour)

	if err := reconciler.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("initial reconcile failed")
	}
	go wallet.Watch(ctx)
	go reconciler.Run(ctx)

	e := api.NewRouter(api.Deps{
		JWTSecret:    cfg.JWTSecret,
		Auth:         auth,
		Prober:       client,
		Views:        reconciler,
		Refresher:    reconciler,
		Wallet:       wallet,
		Reader:       ledger,
		Registration: identity,
		Booking:      booking,
		Commands:     commands,
		Log:          log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}
