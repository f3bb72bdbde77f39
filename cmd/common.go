package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"simulador/internal/api"
	"simulador/internal/auth"
	"simulador/internal/budget"
	"simulador/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// loadConfig reads the configuration for commands that talk to the API.
func loadConfig(log zerolog.Logger) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Error().
			Err(err).
			Msg("Configuration invalid")
		return nil, fmt.Errorf("invalid configuration. Please check your .env file: %w", err)
	}
	return cfg, nil
}

// createCommandContext creates a context with the --timeout deadline and signal
// handling. A zero timeout leaves the context without a deadline.
func createCommandContext(cmd *cobra.Command, log zerolog.Logger) (context.Context, context.CancelFunc) {
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	var ctx context.Context
	var cancel context.CancelFunc
	if timeoutSecs > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling command")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// openSessionStore returns the configured token pair store and its closer.
func openSessionStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (auth.Store, func(), error) {
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		store, err := auth.NewRedisStore(ctx, auth.RedisOptions{
			Address:  cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Key:      cfg.RedisSessionKey,
		})
		if err != nil {
			log.Error().
				Err(err).
				Str("address", cfg.RedisAddress).
				Msg("Failed to open Redis session store")
			return nil, nil, fmt.Errorf("failed to open session store: %w", err)
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close Redis session store")
			}
		}, nil
	default:
		return auth.NewFileStore(cfg.SessionFile), func() {}, nil
	}
}

// newAPIClient restores the stored session and returns a client acting for it.
func newAPIClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*api.Client, func(), error) {
	store, closeStore, err := openSessionStore(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	session := auth.NewSession(store)
	if err := session.Restore(ctx); err != nil {
		closeStore()
		log.Error().
			Err(err).
			Msg("Failed to restore session")
		return nil, nil, fmt.Errorf("failed to restore session: %w", err)
	}

	client := api.NewClient(cfg.APIBaseURL, session, api.WithTimeout(cfg.APITimeout))

	log.Debug().
		Str("base_url", cfg.APIBaseURL).
		Bool("logged_in", session.LoggedIn()).
		Msg("API client created")
	return client, closeStore, nil
}

// writeOutput prints v. With --json, --output or a nil render function the
// value is written as indented JSON; otherwise render draws it for humans.
func writeOutput(cmd *cobra.Command, v any, render func(w io.Writer) error, log zerolog.Logger) error {
	jsonOut, _ := cmd.Flags().GetBool("json")
	outputPath, _ := cmd.Flags().GetString("output")

	if render != nil && !jsonOut && outputPath == "" {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		if err := render(tw); err != nil {
			return err
		}
		return tw.Flush()
	}

	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Error().
			Err(err).
			Msg("Failed to marshal output to JSON")
		return fmt.Errorf("failed to format output: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
			log.Error().
				Err(err).
				Str("output", outputPath).
				Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}

		log.Info().
			Str("output", outputPath).
			Int("size", len(jsonData)).
			Msg("Output saved")
		fmt.Fprintf(cmd.ErrOrStderr(), "Output saved to: %s\n", outputPath)
		return nil
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
	return err
}

// handleAPIError provides user-friendly error messages for API failures
func handleAPIError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Command failed")

	var validationErr *budget.ValidationError
	var apiErr *api.APIError
	serverMessage := ""
	if errors.As(err, &apiErr) {
		serverMessage = apiErr.UserMessage()
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("request timed out. Try increasing --timeout or API_TIMEOUT")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("operation was canceled")
	case errors.As(err, &validationErr):
		return fmt.Errorf("%s: %s", validationErr.Title, validationErr.Description)
	case errors.Is(err, auth.ErrNotLoggedIn):
		return fmt.Errorf("not logged in. Run \"simulador login\" first")
	case errors.Is(err, api.ErrRefreshFailed):
		return fmt.Errorf("session expired. Run \"simulador login\" again")
	case errors.Is(err, api.ErrUnauthorized):
		if serverMessage != "" {
			return fmt.Errorf("unauthorized: %s", serverMessage)
		}
		return fmt.Errorf("unauthorized. Check your email and password")
	case errors.Is(err, api.ErrNotFound):
		if serverMessage != "" {
			return fmt.Errorf("not found: %s", serverMessage)
		}
		return fmt.Errorf("the requested record does not exist")
	case errors.Is(err, api.ErrInvalidInput):
		if serverMessage != "" {
			return fmt.Errorf("invalid input: %s", serverMessage)
		}
		return fmt.Errorf("invalid input: %w", err)
	case errors.Is(err, budget.ErrProfitabilityUnavailable):
		return fmt.Errorf("the server could not calculate the profitability of this budget")
	case errors.Is(err, api.ErrServer):
		return fmt.Errorf("the API failed to process the request. Try again later: %w", err)
	default:
		return fmt.Errorf("request failed: %w", err)
	}
}

// runWithClient loads the configuration, restores the session and calls fn
// with a client bound to the command context.
func runWithClient(cmd *cobra.Command, log zerolog.Logger, fn func(ctx context.Context, client *api.Client) error) error {
	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	ctx, cancel := createCommandContext(cmd, log)
	defer cancel()

	client, closeClient, err := newAPIClient(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeClient()

	return fn(ctx, client)
}
