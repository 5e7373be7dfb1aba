// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the convo CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/convo/internal/logging"
	"github.com/pdiddy/convo/internal/transcript"
	"github.com/pdiddy/convo/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is replaced by the configured logger before any command runs.
var logger = slog.Default()

// rootCmd is the base command for the convo CLI.
var rootCmd = &cobra.Command{
	Use:   "convo",
	Short: "Convert plain-text conversation transcripts",
	Long: `convo reads plain-text transcripts of a conversation between a User and
an Assistant, where messages are separated by lines containing only "---"
and each message starts with a role line such as "User:".

Transcripts can be rendered to HTML or PDF, filtered to one speaker,
summarized, or kept in a searchable local archive. The scrape command pulls
responses out of an HTML chat export instead.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.Init(types.LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
			File:   viper.GetString("log.file"),
		}, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		logger = l
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", "path", f)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./convo.yaml or ~/.config/convo/config.yaml)")
	pf.String("match", string(types.MatchExact), "role label matching: exact or prefix")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")
	pf.String("log-file", "", "write logs to a rotating file instead of stderr")

	_ = viper.BindPFlag("match", pf.Lookup("match"))
	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", pf.Lookup("log-format"))
	_ = viper.BindPFlag("log.file", pf.Lookup("log-file"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("convo")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "convo"))
		}
	}

	viper.SetEnvPrefix("CONVO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// A missing default config is fine; an explicit --config must load.
	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Fprintln(os.Stderr, "Error reading config file:", err)
	}
}

// parseConfig reads the shared transcript settings from viper.
func parseConfig() (types.ParseConfig, error) {
	match, err := types.ParseMatchMode(viper.GetString("match"))
	if err != nil {
		return types.ParseConfig{}, err
	}
	return types.ParseConfig{Match: match}, nil
}

func parseOptions(cfg types.ParseConfig) transcript.ParseOptions {
	return transcript.ParseOptions{Match: cfg.Match, Logger: logger}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
