// Package cmd contains the flowdeck command tree.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/flowdeck/flowdeck/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "flowdeck",
	Short: "Admin console for the Flowdeck workflow platform",
	Long: `flowdeck is the terminal admin console for the Flowdeck workflow
orchestration platform. It manages your session, deployed workflows,
executions, human approval tasks, workspace members, API keys and
account settings through the platform's API gateway.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return configureLogging(cmd)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func configureLogging(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	cfg := log.DefaultConfig()
	switch {
	case cmdCtx.Verbose:
		cfg.Level = log.LevelDebug
	case cmdCtx.Quiet:
		cfg.Level = log.LevelError
	case cmdCtx.LogLevel != "":
		cfg.Level = log.ParseLevel(cmdCtx.LogLevel)
	}

	log.SetDefaultLogger(log.New(cfg))
	return nil
}

func init() {
	rootCmd.PersistentFlags().String("format", "", "Output format: text, json, or yaml")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().String("api-url", "", "API gateway base URL (overrides config)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $HOME/.flowdeck/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, or error")
}
