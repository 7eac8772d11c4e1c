package cmd

import (
	"github.com/spf13/cobra"

	m "srcpatch.dev/pkg/srcpatch/internal/model"
)

// annotateCmd represents the annotate command.
var annotateCmd = newAnnotateCmd()

func newAnnotateCmd() *cobra.Command {
	var rule m.AnnotationRule

	cmd := &cobra.Command{
		Use:   "annotate FILE",
		Short: "Insert an annotation before blocks matching marker, label and sentinel",
		Long: `Insert --insert on its own line before the header of every block where a
line containing --marker is followed by a line containing --label, and the
block body contains --sentinel.

The body is matched up to the first closing brace, so a sentinel placed after
a nested block is not seen. Blocks already carrying the annotation are left
alone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expect, err := expectFromFlags(cmd)
			if err != nil {
				return err
			}

			return runSinglePatch(cmd, m.Patch{
				Target:   m.Path(args[0]),
				Kind:     m.PatchAnnotate,
				Marker:   rule.Marker,
				Label:    rule.Label,
				Sentinel: rule.Sentinel,
				Insert:   rule.Annotation,
				Expect:   expect,
			})
		},
	}

	cmd.Flags().StringVar(&rule.Marker, "marker", "", "text on the line opening the block, e.g. @PostMapping")
	cmd.Flags().StringVar(&rule.Label, "label", "", "text on the following line, e.g. @Operation(summary")
	cmd.Flags().StringVar(&rule.Sentinel, "sentinel", "", "text the block body must contain")
	cmd.Flags().StringVar(&rule.Annotation, "insert", "", "line to insert before the block header")

	for _, name := range []string{"marker", "label", "sentinel", "insert"} {
		cobra.CheckErr(cmd.MarkFlagRequired(name))
	}

	addExpectFlag(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(annotateCmd)
}
