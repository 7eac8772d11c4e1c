package cmd

import (
	"github.com/spf13/cobra"

	m "srcpatch.dev/pkg/srcpatch/internal/model"
)

// dedupeCmd represents the dedupe command.
var dedupeCmd = newDedupeCmd()

func newDedupeCmd() *cobra.Command {
	var (
		signature string
		keep      string
	)

	cmd := &cobra.Command{
		Use:   "dedupe FILE",
		Short: "Keep one declaration matching a signature and remove the duplicates",
		Long: `Find every line containing --signature, keep the first (or last with
--keep last) and remove the others together with the annotation lines above
them and their body up to the matching closing brace.

Which duplicate is the stale one cannot be told from the text alone; review
the diff with plan or --interactive before writing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expect, err := expectFromFlags(cmd)
			if err != nil {
				return err
			}

			return runSinglePatch(cmd, m.Patch{
				Target:    m.Path(args[0]),
				Kind:      m.PatchDedupe,
				Signature: signature,
				Keep:      keep,
				Expect:    expect,
			})
		},
	}

	cmd.Flags().StringVar(&signature, "signature", "", "text identifying the declaration line")
	cmd.Flags().StringVar(&keep, "keep", m.KeepFirst, "which declaration to keep: first or last")
	cobra.CheckErr(cmd.MarkFlagRequired("signature"))
	addExpectFlag(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(dedupeCmd)
}
