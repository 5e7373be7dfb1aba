// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/convo/internal/archive"
	"github.com/pdiddy/convo/internal/transcript"
	"github.com/pdiddy/convo/pkg/types"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage the transcript archive (add, search, show, export, list)",
	Long: `Archive keeps parsed transcripts in a local SQLite database so they can
be searched and exported later. Use subcommands to add transcripts, search
messages, print or export a stored conversation, or list what is stored.`,
}

// --- add subcommand ---

var archiveAddCmd = &cobra.Command{
	Use:   "add <input>",
	Short: "Parse a transcript and store it in the archive",
	Long: `Add parses a transcript file and stores its messages under an ID
derived from the file's path. A file whose modification time has not
changed since the last add is skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runArchiveAdd,
}

func runArchiveAdd(cmd *cobra.Command, args []string) error {
	cfg, err := archiveConfig()
	if err != nil {
		return err
	}
	store, err := archive.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	return addTranscript(context.Background(), store, args[0], parseOptions(cfg.ParseConfig), cmd.OutOrStdout())
}

func addTranscript(ctx context.Context, store *archive.Store, path string, opts transcript.ParseOptions, w io.Writer) error {
	parsed, err := transcript.Load(path, opts)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if len(parsed.Messages) == 0 {
		fmt.Fprintf(w, "%s: no valid messages, not archived\n", path)
		return nil
	}
	id, status, err := store.Add(ctx, path, info.ModTime(), parsed.Messages)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%-8s %s (%d messages)\n", status, id, len(parsed.Messages))
	return nil
}

// --- search subcommand ---

var archiveSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search archived messages",
	Long: `Search finds archived messages whose content contains the query,
ignoring case. Results can be narrowed with --role and --conversation.`,
	RunE: runArchiveSearch,
}

func runArchiveSearch(cmd *cobra.Command, args []string) error {
	opts, err := searchOptsFromFlags(cmd, args)
	if err != nil {
		return err
	}
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --role, or --conversation")
	}

	cfg, err := archiveConfig()
	if err != nil {
		return err
	}
	store, err := archive.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	hits, err := store.Search(context.Background(), opts)
	if err != nil {
		return err
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(cmd.OutOrStdout(), hits, jsonOutput)
}

func searchOptsFromFlags(cmd *cobra.Command, args []string) (archive.SearchOptions, error) {
	roleFlag, _ := cmd.Flags().GetString("role")
	conv, _ := cmd.Flags().GetString("conversation")
	limit, _ := cmd.Flags().GetInt("limit")

	opts := archive.SearchOptions{
		Query:          strings.Join(args, " "),
		ConversationID: conv,
		Limit:          limit,
	}
	if roleFlag != "" {
		role, err := types.ParseTargetRole(roleFlag)
		if err != nil {
			return opts, err
		}
		opts.Role = role
	}
	return opts, nil
}

func formatSearchOutput(w io.Writer, hits []archive.Hit, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}

	if len(hits) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-24s  %-4s  %-9s  %s\n", "Conversation", "Seq", "Role", "Content")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, h := range hits {
		content, _, _ := strings.Cut(h.Content, "\n")
		if r := []rune(content); len(r) > 57 {
			content = string(r[:54]) + "..."
		}
		conv := h.ConversationID
		if len(conv) > 24 {
			conv = conv[:21] + "..."
		}
		fmt.Fprintf(w, "%-24s  %-4d  %-9s  %s\n", conv, h.Seq, h.Role, content)
	}
	fmt.Fprintf(w, "\n%d results\n", len(hits))
	return nil
}

// --- show subcommand ---

var archiveShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print an archived conversation as a transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive()
		if err != nil {
			return err
		}
		defer store.Close()

		msgs, err := store.Messages(context.Background(), args[0])
		if err != nil {
			return err
		}
		_, err = io.WriteString(cmd.OutOrStdout(), transcript.Serialize(msgs))
		return err
	},
}

// --- export subcommand ---

var archiveExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export an archived conversation as YAML or JSON",
	Long: `Export writes one archived conversation, its metadata and messages, to
stdout or to --output in YAML or JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runArchiveExport,
}

func runArchiveExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("output")

	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	var export func(context.Context, string, io.Writer) error
	switch format {
	case "yaml", "":
		export = store.ExportYAML
	case "json":
		export = store.ExportJSON
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	if outPath == "" {
		return export(context.Background(), args[0], cmd.OutOrStdout())
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	if err := export(context.Background(), args[0], f); err != nil {
		f.Close()
		os.Remove(outPath)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", outPath, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", args[0], outPath)
	return nil
}

// --- list subcommand ---

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived conversations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive()
		if err != nil {
			return err
		}
		defer store.Close()

		convs, err := store.List(context.Background())
		if err != nil {
			return err
		}
		return formatListOutput(cmd.OutOrStdout(), convs)
	},
}

func formatListOutput(w io.Writer, convs []archive.Conversation) error {
	if len(convs) == 0 {
		fmt.Fprintln(w, "The archive is empty.")
		return nil
	}
	fmt.Fprintf(w, "%-24s  %-8s  %-20s  %s\n", "ID", "Messages", "Imported", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, c := range convs {
		fmt.Fprintf(w, "%-24s  %-8d  %-20s  %s\n", c.ID, c.Messages, c.ImportedAt.Format("2006-01-02 15:04"), c.Title)
	}
	return nil
}

// --- delete subcommand ---

var archiveDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a conversation from the archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

// --- shared helpers ---

func archiveConfig() (types.ArchiveConfig, error) {
	pc, err := parseConfig()
	if err != nil {
		return types.ArchiveConfig{}, err
	}
	return types.ArchiveConfig{
		ParseConfig: pc,
		Dir:         viper.GetString("archive.dir"),
		MaxResults:  viper.GetInt("archive.max_results"),
	}, nil
}

func openArchive() (*archive.Store, error) {
	cfg, err := archiveConfig()
	if err != nil {
		return nil, err
	}
	return archive.NewStore(cfg)
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	archiveCmd.PersistentFlags().String("archive-dir", "archive", "directory holding transcripts.db")
	archiveCmd.PersistentFlags().Int("max-results", 20, "default maximum number of search results")
	_ = viper.BindPFlag("archive.dir", archiveCmd.PersistentFlags().Lookup("archive-dir"))
	_ = viper.BindPFlag("archive.max_results", archiveCmd.PersistentFlags().Lookup("max-results"))

	// Search flags.
	archiveSearchCmd.Flags().String("role", "", "filter by role: user or assistant")
	archiveSearchCmd.Flags().String("conversation", "", "filter by conversation ID")
	archiveSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	archiveSearchCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	archiveExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	archiveExportCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")

	// Wire subcommands.
	archiveCmd.AddCommand(archiveAddCmd)
	archiveCmd.AddCommand(archiveSearchCmd)
	archiveCmd.AddCommand(archiveShowCmd)
	archiveCmd.AddCommand(archiveExportCmd)
	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveDeleteCmd)

	rootCmd.AddCommand(archiveCmd)
}
