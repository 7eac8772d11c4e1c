package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	m "srcpatch.dev/pkg/srcpatch/internal/model"
)

// deleteLinesCmd represents the delete-lines command.
var deleteLinesCmd = newDeleteLinesCmd()

func newDeleteLinesCmd() *cobra.Command {
	var (
		lines string
		guard string
	)

	cmd := &cobra.Command{
		Use:   "delete-lines FILE",
		Short: "Remove zero-based inclusive line ranges from a file",
		Long: `Remove lines by zero-based, inclusive index ranges, e.g. --lines 232-241,367-377.

Indices past the end of the file are ignored. Fixed indices go stale as soon
as the file changes; pass --guard with text the removed lines must contain so
that a second run against a shifted file fails instead of deleting the wrong
lines.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ranges, err := m.ParseLineRanges(lines)
			if err != nil {
				return fmt.Errorf("--lines: %w", err)
			}

			expect, err := expectFromFlags(cmd)
			if err != nil {
				return err
			}

			return runSinglePatch(cmd, m.Patch{
				Target: m.Path(args[0]),
				Kind:   m.PatchDeleteLines,
				Lines:  ranges,
				Guard:  guard,
				Expect: expect,
			})
		},
	}

	cmd.Flags().StringVar(&lines, "lines", "", "comma separated ranges such as 232-241,367-377")
	cmd.Flags().StringVar(&guard, "guard", "", "text the removed lines must contain")
	cobra.CheckErr(cmd.MarkFlagRequired("lines"))
	addExpectFlag(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(deleteLinesCmd)
}
