package cmd

import (
	"context"
	"errors"
	"fmt"
	"linerelay/internal/adapters/generator"
	"linerelay/internal/adapters/handler"
	"linerelay/internal/adapters/sender"
	"linerelay/internal/config"
	"linerelay/internal/core/domain"
	"linerelay/internal/core/service"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "linerelay",
	Short:         "Relay LINE messages to a language model and reply with the completion",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.LoadDotEnv(".env"); err != nil {
			return err
		}

		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}

		zerolog.SetGlobalLevel(cfg.LogLevel)

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		return serve(ctx, cfg)
	},
}

func init() {
	rootCmd.Flags().String("config", "", "path to a TOML config file (default ./config.toml if present)")
	rootCmd.Flags().Int("port", domain.DefaultPort, "port to listen on")
}

// Execute runs the root command and exits non-zero on failure. Missing secrets are each
// reported by name before exiting, so no listener is ever bound.
func Execute() {
	err := rootCmd.ExecuteContext(context.Background())
	if err == nil {
		return
	}

	var missing *config.MissingSecretsError
	if errors.As(err, &missing) {
		for _, name := range missing.Names {
			log.Error().Str("variable", name).Msg("missing required environment variable")
		}
	} else {
		log.Error().Err(err).Msg("linerelay failed")
	}

	os.Exit(1)
}

func newServer(cfg *config.Config) (*http.Server, error) {
	gen, err := generator.New(cfg.Completion.Provider, cfg.Completion.APIKey, generator.Settings{
		Model:        cfg.Completion.Model,
		SystemPrompt: cfg.Completion.SystemPrompt,
		MaxTokens:    cfg.Completion.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	s, err := sender.NewLineFromToken(cfg.Line.ChannelAccessToken)
	if err != nil {
		return nil, err
	}

	dispatcher := service.NewDispatcher(gen, s, cfg.FallbackMessage)
	wh := handler.NewWebhook(cfg.Line.ChannelSecret, dispatcher)

	return &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler.NewRouter(log.Logger, wh),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	srv, err := newServer(cfg)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", srv.Addr, err)
	}

	log.Info().
		Str("addr", ln.Addr().String()).
		Str("provider", cfg.Completion.Provider).
		Str("model", cfg.Completion.Model).
		Msg("server listening")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		// in-flight requests are not drained
		log.Info().Msg("received termination signal, stopping")
		return srv.Close()
	}
}
