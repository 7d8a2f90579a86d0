package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bankguard/internal/config"
	guarderrors "bankguard/internal/errors"
	"bankguard/internal/guardrail"
	"bankguard/internal/logging"
	"bankguard/internal/oracle"
	"bankguard/internal/server"
)

// Sample arguments used when evaluate is run without positional args.
const (
	sampleQuestion = "What are the key benefits of using a credit card?"
	sampleAnswer   = "Credit cards offer rewards, cashback, and travel benefits."
	sampleContext  = "Credit cards provide revolving credit, allowing customers to borrow funds up to a pre-approved limit."
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bankguard",
		Short:         "Groundedness and safety guardrails for banking chatbot answers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newEvaluateCmd())
	root.AddCommand(newServeCmd())
	return root
}

// buildExecutor resolves config, constructs the oracle client (optionally
// wrapped with retries), and wires the guardrail executor.
func buildExecutor() (*guardrail.Executor, *config.Config, *logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	logger := logging.NewLogger(logging.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	var client oracle.Client = oracle.NewOpenAIClient(cfg.Model, oracle.Config{
		APIKey:           cfg.APIKey,
		BaseURL:          cfg.BaseURL,
		Timeout:          cfg.TimeoutSeconds,
		MaxResponseBytes: cfg.MaxResponseBytes,
	}, logger)

	if cfg.MaxRetries > 0 {
		retryCfg := guarderrors.DefaultRetryConfig()
		retryCfg.MaxAttempts = cfg.MaxRetries
		client = oracle.NewRetryClient(client, retryCfg, logger)
	}

	opts := []guardrail.Option{guardrail.WithMaxTokens(cfg.MaxTokens)}
	if cfg.PolicyFile != "" {
		policy, err := guardrail.LoadPolicy(cfg.PolicyFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load policy: %w", err)
		}
		logger.Info("loaded policy overrides", "path", cfg.PolicyFile)
		opts = append(opts, guardrail.WithPolicy(*policy))
	}

	return guardrail.NewExecutor(client, logger, opts...), cfg, logger, nil
}

func newEvaluateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate [question] [answer] [context]",
		Short: "Evaluate one answer against its reference context",
		Args:  cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			executor, _, _, err := buildExecutor()
			if err != nil {
				return err
			}

			question, answer, refContext := sampleQuestion, sampleAnswer, sampleContext
			if len(args) > 0 {
				question = args[0]
			}
			if len(args) > 1 {
				answer = args[1]
			}
			if len(args) > 2 {
				refContext = args[2]
			}

			result := executor.EvaluateText(cmd.Context(), question, answer, refContext)
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	var addr string
	var debug bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the guardrail HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			executor, cfg, logger, err := buildExecutor()
			if err != nil {
				return err
			}

			serverCfg := server.DefaultServerConfig()
			serverCfg.Addr = cfg.Addr
			if addr != "" {
				serverCfg.Addr = addr
			}
			serverCfg.Debug = debug

			srv := server.NewServer(executor, serverCfg, logger)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logger.Info("shutting down", "signal", sig.String())
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Stop(ctx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides GUARDRAIL_ADDR)")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug mode")
	return cmd
}
