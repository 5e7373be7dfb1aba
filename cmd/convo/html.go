// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pdiddy/convo/internal/convert"
	"github.com/pdiddy/convo/pkg/types"
)

var htmlCmd = &cobra.Command{
	Use:   "html <input>",
	Short: "Render a transcript as a styled HTML page",
	Long: `HTML parses the transcript and writes one static page with a block per
message. The screen style shows chat bubbles; the print style uses flat
labelled blocks. The output defaults to the input path with a .html
extension.`,
	Args: cobra.ExactArgs(1),
	RunE: runHTML,
}

func runHTML(cmd *cobra.Command, args []string) error {
	cfg, err := htmlConfig(cmd, args)
	if err != nil {
		return err
	}

	r, err := convert.NewHTMLRenderer(cfg.Style)
	if err != nil {
		return err
	}
	_, err = convert.File(context.Background(), r, cfg.InputPath, cfg.OutputPath, parseOptions(cfg.ParseConfig), cmd.OutOrStdout())
	return err
}

func htmlConfig(cmd *cobra.Command, args []string) (types.HTMLConfig, error) {
	pc, err := parseConfig()
	if err != nil {
		return types.HTMLConfig{}, err
	}
	out, _ := cmd.Flags().GetString("output")
	style, _ := cmd.Flags().GetString("style")
	return types.HTMLConfig{
		ParseConfig: pc,
		InputPath:   args[0],
		OutputPath:  out,
		Style:       types.HTMLStyle(style),
	}, nil
}

func init() {
	htmlCmd.Flags().StringP("output", "o", "", "output file (default: input with .html extension)")
	htmlCmd.Flags().String("style", string(types.StyleScreen), "page style: screen or print")

	rootCmd.AddCommand(htmlCmd)
}
