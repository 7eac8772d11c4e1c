package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	m "srcpatch.dev/pkg/srcpatch/internal/model"
)

// deleteBlockCmd represents the delete-block command.
var deleteBlockCmd = newDeleteBlockCmd()

func newDeleteBlockCmd() *cobra.Command {
	var (
		block      string
		blockFile  string
		occurrence int
		escape     bool
	)

	cmd := &cobra.Command{
		Use:   "delete-block FILE",
		Short: "Remove an exact block of lines, located by its content",
		Long: `Remove every occurrence (or only the Nth with --occurrence) of an exact
sequence of lines. The block is given inline with --block or read from a file
with --block-file. Lines must match exactly, indentation included.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if blockFile != "" {
				content, err := fsAdapter.ReadFile(cmd.Context(), m.Path(blockFile))
				if err != nil {
					return fmt.Errorf("read --block-file: %w", err)
				}

				block = string(content)
			} else if escape {
				var err error
				if block, err = unescape(block); err != nil {
					return err
				}
			}

			expect, err := expectFromFlags(cmd)
			if err != nil {
				return err
			}

			return runSinglePatch(cmd, m.Patch{
				Target:     m.Path(args[0]),
				Kind:       m.PatchDeleteBlock,
				Block:      block,
				Occurrence: occurrence,
				Expect:     expect,
			})
		},
	}

	cmd.Flags().StringVar(&block, "block", "", "lines to remove")
	cmd.Flags().StringVar(&blockFile, "block-file", "", "file holding the lines to remove")
	cmd.Flags().IntVar(&occurrence, "occurrence", 0, "remove only the Nth match (1-based); 0 removes all")
	cmd.Flags().BoolVar(&escape, "escape", false, `interpret \n and \t in --block`)
	cmd.MarkFlagsOneRequired("block", "block-file")
	cmd.MarkFlagsMutuallyExclusive("block", "block-file")
	addExpectFlag(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(deleteBlockCmd)
}
