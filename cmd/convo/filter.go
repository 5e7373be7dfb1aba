// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/convo/internal/filter"
	"github.com/pdiddy/convo/pkg/types"
)

var filterCmd = &cobra.Command{
	Use:   "filter <input>",
	Short: "Keep only the messages of one speaker",
	Long: `Filter writes the bodies of every User or Assistant message, in order,
separated by a blank line. Role labels are dropped. Without --role the
command asks for one on stdin until a valid answer is given. The output
defaults to <input base>_<role>.txt.`,
	Args: cobra.ExactArgs(1),
	RunE: runFilter,
}

func runFilter(cmd *cobra.Command, args []string) error {
	pc, err := parseConfig()
	if err != nil {
		return err
	}

	roleFlag, _ := cmd.Flags().GetString("role")
	var role types.Role
	if roleFlag != "" {
		role, err = types.ParseTargetRole(roleFlag)
	} else {
		role, err = promptRole(cmd.InOrStdin(), cmd.OutOrStdout())
	}
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("output")
	cfg := types.FilterConfig{
		ParseConfig: pc,
		InputPath:   args[0],
		OutputPath:  out,
		TargetRole:  role,
	}
	_, err = filter.File(cfg, parseOptions(pc), cmd.OutOrStdout())
	return err
}

// promptRole asks for a role on r until ParseTargetRole accepts the answer.
func promptRole(r io.Reader, w io.Writer) (types.Role, error) {
	sc := bufio.NewScanner(r)
	for {
		fmt.Fprint(w, "Which role's messages do you want to keep? (user/assistant): ")
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", fmt.Errorf("reading role: %w", err)
			}
			fmt.Fprintln(w)
			return "", errors.New("no role given")
		}
		role, err := types.ParseTargetRole(sc.Text())
		if err == nil {
			return role, nil
		}
		fmt.Fprintln(w, "Invalid role. Please enter 'user' or 'assistant' (or just 'u' or 'a').")
	}
}

func init() {
	filterCmd.Flags().StringP("output", "o", "", "output file (default: <input>_<role>.txt)")
	filterCmd.Flags().String("role", "", "role to keep: user, assistant, u, or a")

	rootCmd.AddCommand(filterCmd)
}
