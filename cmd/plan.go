package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// planCmd represents the plan command.
var planCmd = newPlanCmd()

func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "plan [recipe]",
		Aliases: []string{"diff"},
		Short:   "Show the diff a recipe would produce",
		Long:    planLongDescription,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planArgs := applyArgsFromConfig()
			planArgs.Recipe = recipePath(args)
			planArgs.Parallel = viper.GetInt(applyParallelConfigKey)

			_, err := workflow.Plan(cmd.Context(), planArgs)

			return err
		},
	}
}

func init() {
	rootCmd.AddCommand(planCmd)
}
