package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "srcpatch.dev/pkg/srcpatch/internal/model"
)

// applyCmd represents the apply command.
var applyCmd = newApplyCmd()

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [recipe]",
		Short: "Apply the patches of a recipe",
		Long:  applyLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyArgs := applyArgsFromConfig()
			applyArgs.Recipe = recipePath(args)
			applyArgs.Parallel = viper.GetInt(applyParallelConfigKey)

			if applyArgs.DryRun {
				_, err := workflow.Plan(cmd.Context(), applyArgs)
				return err
			}

			_, err := workflow.Apply(cmd.Context(), applyArgs)

			return err
		},
	}

	configureApplyFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(applyCmd)
}

func configureApplyFlags(cmd *cobra.Command) {
	cmd.Flags().IntP(applyParallelFlagName, "p", defaultApplyParallel, "number of files patched in parallel (0 = unbounded)")
	bindFlagToConfig(cmd.Flags().Lookup(applyParallelFlagName), applyParallelConfigKey)
}

// recipePath returns the recipe argument, falling back to recipe.path.
func recipePath(args []string) m.Path {
	if len(args) > 0 {
		return m.Path(args[0])
	}

	return m.Path(viper.GetString(recipePathConfigKey))
}
