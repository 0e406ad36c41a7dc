package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"stakingScope/internal/bignumber"
	"stakingScope/internal/config"
	"stakingScope/internal/cosmos"
	"stakingScope/internal/fetch"
	"stakingScope/internal/store"
)

func main() {
	root := &cobra.Command{
		Use:          "stakingscope",
		Short:        "Staking data store and derived-view engine",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	fetchValidatorCmd := &cobra.Command{
		Use:   "fetch-validator",
		Short: "Fetch one validator through the chain adapter",
		RunE:  runFetchValidator,
	}

	fetchValidatorCmd.Flags().String("lcd-url", "", "Cosmos LCD (REST) endpoint")
	fetchValidatorCmd.Flags().String("chain-id", "cosmos:cosmoshub-4", "chain id")
	fetchValidatorCmd.Flags().String("validator", "", "validator operator address")
	fetchValidatorCmd.Flags().String("asset", "", "staking asset id")
	fetchValidatorCmd.Flags().String("chain-apr", "0.16", "nominal network staking rate")
	fetchValidatorCmd.Flags().Duration("http-timeout", 30*time.Second, "HTTP request timeout")
	fetchValidatorCmd.Flags().Int("max-retries", 0, "maximum transport retry attempts")
	fetchValidatorCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	fetchValidatorCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(fetchValidatorCmd)

	fetchStakingCmd := &cobra.Command{
		Use:   "fetch-staking",
		Short: "Fetch one account's staking data through the chain adapter",
		RunE:  runFetchStaking,
	}

	fetchStakingCmd.Flags().String("lcd-url", "", "Cosmos LCD (REST) endpoint")
	fetchStakingCmd.Flags().String("chain-id", "cosmos:cosmoshub-4", "chain id")
	fetchStakingCmd.Flags().String("account", "", "account specifier (namespace:reference:address)")
	fetchStakingCmd.Flags().String("asset", "", "staking asset id")
	fetchStakingCmd.Flags().String("chain-apr", "0.16", "nominal network staking rate")
	fetchStakingCmd.Flags().Duration("http-timeout", 30*time.Second, "HTTP request timeout")
	fetchStakingCmd.Flags().Int("max-retries", 0, "maximum transport retry attempts")
	fetchStakingCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	fetchStakingCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(fetchStakingCmd)

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Compute derived staking views from snapshot files",
		RunE:  runSummary,
	}

	summaryCmd.Flags().String("validators", "", "validators JSONL path")
	summaryCmd.Flags().String("staking", "", "staking records JSON path")
	summaryCmd.Flags().String("market", "", "market data JSON path")
	summaryCmd.Flags().String("assets", "", "asset registry JSON path")
	summaryCmd.Flags().String("account", "", "account specifier to summarize")
	summaryCmd.Flags().String("asset", "", "asset id to summarize")
	summaryCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(summaryCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runFetchValidator(cmd *cobra.Command, _ []string) error {
	cfg, coordinator, err := buildCoordinator(cmd)
	if err != nil {
		return err
	}

	if cfg.Validator == "" {
		return fmt.Errorf("validator address is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	validator, err := coordinator.FetchValidator(ctx, cfg.ChainID, cfg.Validator)
	if err != nil {
		return err
	}

	return printJSON(validator)
}

func runFetchStaking(cmd *cobra.Command, _ []string) error {
	cfg, coordinator, err := buildCoordinator(cmd)
	if err != nil {
		return err
	}

	if cfg.Account == "" {
		return fmt.Errorf("account specifier is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	record, err := coordinator.FetchStakingData(ctx, cfg.ChainID, cfg.Account)
	if err != nil {
		return err
	}

	return printJSON(record)
}

func buildCoordinator(cmd *cobra.Command) (config.Config, *fetch.Coordinator, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return config.Config{}, nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}

	if cfg.LCDURL == "" {
		return config.Config{}, nil, fmt.Errorf("lcd url is required")
	}
	if cfg.AssetID == "" {
		return config.Config{}, nil, fmt.Errorf("asset id is required")
	}

	client, err := cosmos.NewClient(cosmos.ClientConfig{
		BaseURL:      cfg.LCDURL,
		Timeout:      cfg.HTTPTimeout,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	})
	if err != nil {
		return config.Config{}, nil, err
	}

	adapter, err := cosmos.NewAdapter(cosmos.AdapterConfig{
		ChainID:  cfg.ChainID,
		AssetID:  cfg.AssetID,
		ChainAPR: bignumber.BNOrZero(cfg.ChainAPR),
	}, client)
	if err != nil {
		return config.Config{}, nil, err
	}

	registry := cosmos.NewRegistry()
	registry.Register(adapter)

	coordinator := fetch.NewCoordinator(registry, store.NewValidatorStore(), store.NewStakingStore(), logger)

	logger.Info("coordinator ready",
		zap.String("lcd_url", cfg.LCDURL),
		zap.String("chain_id", cfg.ChainID),
		zap.String("asset", cfg.AssetID),
	)

	return cfg, coordinator, nil
}

func printJSON(value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
