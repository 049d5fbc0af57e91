package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/ougirez/sdgdash/internal/api"
	"github.com/ougirez/sdgdash/internal/pkg/config"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/logger"
	"github.com/ougirez/sdgdash/internal/pkg/store"
	"github.com/ougirez/sdgdash/internal/pkg/store/xpgx"
	"github.com/ougirez/sdgdash/internal/service/auth"
	"github.com/ougirez/sdgdash/internal/service/etl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	if err := config.ValidateServe(); err != nil {
		return err
	}

	pool, err := xpgx.NewPool(ctx, viper.GetString(constants.ViperDBDSNKey), viper.GetInt32(constants.ViperDBMaxConnsKey))
	if err != nil {
		return fmt.Errorf("xpgx.NewPool: %w", err)
	}
	defer pool.Close()

	if err = pool.Ping(ctx); err != nil {
		return fmt.Errorf("pool.Ping: %w", err)
	}

	svc, err := api.NewAPIService(store.NewStore(pool), api.Config{
		CORSOrigins: viper.GetStringSlice(constants.ViperServerCORSOriginsKey),
		Auth: auth.Config{
			Secret:   viper.GetString(constants.ViperSecretKey),
			TokenTTL: viper.GetDuration(constants.ViperTokenTTLKey),
		},
		CookieSecure:      viper.GetBool(constants.ViperCookieSecureKey),
		CalculatorURL:     viper.GetString(constants.ViperCalculatorURLKey),
		CalculatorTimeout: viper.GetDuration(constants.ViperCalculatorTimeout),
		CalculatorRetry:   calculatorRetry(),
		LogLevel:          viper.GetString(constants.ViperLogLevelKey),
	})
	if err != nil {
		return fmt.Errorf("api.NewAPIService: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	addr := viper.GetString(constants.ViperServerAddrKey)
	g.Go(func() error {
		logger.Infof(gCtx, "serve: listening on %s", addr)
		return svc.Serve(addr)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Infof(shutdownCtx, "serve: shutting down")
		return svc.Shutdown(shutdownCtx)
	})

	if endpoint := viper.GetString(constants.ViperETLTriggerURLKey); endpoint != "" {
		trigger := etl.NewTrigger(endpoint, calculatorRetry())
		g.Go(func() error {
			trigger.Run(gCtx)
			return nil
		})
	}

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
