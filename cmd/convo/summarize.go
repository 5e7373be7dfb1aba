// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/convo/internal/summarize"
	"github.com/pdiddy/convo/pkg/types"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <input>",
	Short: "Shorten assistant messages to their first sentences",
	Long: `Summarize keeps user messages as they are and cuts every assistant
message down to its first few sentences. The result is written as a
transcript in the same format, so it can be fed back into any other
command. The output defaults to <input base>_summary.txt.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func runSummarize(cmd *cobra.Command, args []string) error {
	pc, err := parseConfig()
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("output")
	cfg := types.SummarizeConfig{
		ParseConfig:  pc,
		InputPath:    args[0],
		OutputPath:   out,
		MaxSentences: viper.GetInt("summarize.max_sentences"),
	}

	s := summarize.New(summarize.SentenceSegmenter{}, cfg.MaxSentences)
	_, err = s.File(cfg, parseOptions(pc), cmd.OutOrStdout())
	return err
}

func init() {
	summarizeCmd.Flags().StringP("output", "o", "", "output file (default: <input>_summary.txt)")
	summarizeCmd.Flags().Int("sentences", summarize.DefaultMaxSentences, "sentences kept per assistant message")

	_ = viper.BindPFlag("summarize.max_sentences", summarizeCmd.Flags().Lookup("sentences"))

	rootCmd.AddCommand(summarizeCmd)
}
