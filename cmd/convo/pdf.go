// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/convo/internal/container"
	"github.com/pdiddy/convo/internal/convert"
	"github.com/pdiddy/convo/internal/transcript"
	"github.com/pdiddy/convo/pkg/types"
)

var pdfCmd = &cobra.Command{
	Use:   "pdf <input>",
	Short: "Render a transcript as a PDF document",
	Long: `PDF renders the print-style HTML page and converts it with an
HTML-to-PDF container image run through docker or podman. The image reads
HTML on stdin and writes PDF on stdout. The output defaults to the input
path with a .pdf extension.`,
	Args: cobra.ExactArgs(1),
	RunE: runPDF,
}

func runPDF(cmd *cobra.Command, args []string) error {
	cfg, err := pdfConfig(cmd, args)
	if err != nil {
		return err
	}

	// A missing input is reported before any container checks.
	if err := transcript.CheckInput(cfg.InputPath); err != nil {
		return err
	}

	rtName, _ := cmd.Flags().GetString("runtime")
	rt, err := container.ByName(rtName)
	if err != nil {
		return err
	}
	logger.Debug("using container runtime", "runtime", rt.Name(), "image", cfg.Image)

	r, err := convert.NewPDFRenderer(rt, cfg.Image, cfg.Args)
	if err != nil {
		return err
	}
	_, err = convert.File(context.Background(), r, cfg.InputPath, cfg.OutputPath, parseOptions(cfg.ParseConfig), cmd.OutOrStdout())
	return err
}

func pdfConfig(cmd *cobra.Command, args []string) (types.PDFConfig, error) {
	pc, err := parseConfig()
	if err != nil {
		return types.PDFConfig{}, err
	}
	out, _ := cmd.Flags().GetString("output")
	cfg := types.PDFConfig{
		ParseConfig: pc,
		InputPath:   args[0],
		OutputPath:  out,
		Image:       viper.GetString("pdf.image"),
	}
	if a := viper.GetStringSlice("pdf.args"); len(a) > 0 {
		cfg.Args = a
	}
	return cfg, nil
}

func init() {
	pdfCmd.Flags().StringP("output", "o", "", "output file (default: input with .pdf extension)")
	pdfCmd.Flags().String("image", convert.DefaultPDFImage, "HTML-to-PDF container image")
	pdfCmd.Flags().String("runtime", "", "container runtime: docker or podman (default: detect)")

	_ = viper.BindPFlag("pdf.image", pdfCmd.Flags().Lookup("image"))

	rootCmd.AddCommand(pdfCmd)
}
