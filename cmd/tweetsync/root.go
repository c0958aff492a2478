package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"tweetsync/pkg/auth"
	"tweetsync/pkg/config"
	"tweetsync/pkg/dataset"
	"tweetsync/pkg/logger"
	"tweetsync/pkg/sync"
	"tweetsync/pkg/twitter"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Flags
	fullRefresh bool
	configFile  string
	logLevel    string
)

// rootCmd runs one sync when invoked without arguments
var rootCmd = &cobra.Command{
	Use:   "tweetsync",
	Short: "Sync image-bearing tweets from one account into a local dataset",
	Long: `tweetsync incrementally fetches image-bearing posts from a single
Twitter/X account and merges them into a local JSON dataset.

Each run resolves the tracked account, fetches one page of its recent
tweets (excluding retweets and replies), keeps only tweets with photo
attachments, and merges them with the previously persisted dataset,
newest first. Runs are incremental by default: only tweets newer than
the highest locally known ID are requested.

A Twitter API bearer token is required, via the TWEETSYNC_BEARER_TOKEN
or TWITTER_BEARER_TOKEN environment variable (a .env file works), or
the system keychain entry tweetsync/bearer_token.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd.Context())
	},
}

// Execute runs the root command and exits non-zero on any fatal error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&fullRefresh, "full", false, "ignore the existing dataset and refetch everything")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .tweetsync.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.SetVersionTemplate(`tweetsync {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func runSync(ctx context.Context) error {
	flags := make(map[string]interface{})
	if logLevel != "" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()

	// The credential must be in hand before any network activity
	if cfg.Twitter.BearerToken == "" {
		token, err := auth.NewResolver().Resolve()
		if err != nil {
			return fmt.Errorf("missing bearer token: set TWEETSYNC_BEARER_TOKEN (a .env file works) or store it in the system keychain")
		}
		cfg.Twitter.BearerToken = token
	}

	log.WithFields(map[string]interface{}{
		"handle":  cfg.Twitter.Handle,
		"dataset": cfg.Dataset.Path,
		"token":   auth.MaskToken(cfg.Twitter.BearerToken),
	}).Info("starting tweetsync")

	client := twitter.NewClient(cfg.API.BaseURL, cfg.Twitter.BearerToken, cfg.API.PageSize, cfg.API.Timeout, log)
	store := dataset.NewStore(cfg.Dataset.Path, log)
	engine := sync.New(client, store, cfg, log)

	report, err := engine.Run(ctx, fullRefresh)
	if err != nil {
		log.WithError(err).Error("sync failed")
		return err
	}

	fmt.Println(report.Summary())
	return nil
}
