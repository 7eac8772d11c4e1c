// Package cmd provides the root command and CLI setup for srcpatch.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"srcpatch.dev/pkg/srcpatch/internal/adapter"
	"srcpatch.dev/pkg/srcpatch/internal/controller"
	"srcpatch.dev/pkg/srcpatch/internal/domain"
	m "srcpatch.dev/pkg/srcpatch/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var recipeStore adapter.RecipeStore
var diffAdapter adapter.DiffAdapter
var patcher domain.Patcher
var workflow domain.Workflow
var ui controller.UI

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	wireDependencies(rootCmd, controller.IsTTY(os.Stdout))
}

// wireDependencies builds the adapters, patcher and workflow around the UI
// bound to cmd's streams.
func wireDependencies(cmd *cobra.Command, isTTY bool) {
	ui = controller.NewUI(cmd, isTTY)
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	recipeStore = adapter.NewRecipeStore()
	diffAdapter = adapter.NewDiffAdapter()
	patcher = domain.NewPatcher(fsAdapter, diffAdapter)
	workflow = domain.NewWorkflow(
		fsAdapter,
		recipeStore,
		ui,
		patcher,
	)
}

const patchKindsHelp = `Patch kinds:
  delete-lines   remove zero-based inclusive line ranges, optionally guarded by text
  delete-block   remove an exact block of lines, found by content
  dedupe         keep one declaration whose line contains a signature, drop the rest
  replace        replace a literal string, whitespace included
  regex          replace a regular expression; $1 and ${name} expand groups
  annotate       insert a line before blocks matching marker, label and sentinel`

const rootLongDescription = `srcpatch applies scoped, verifiable text patches to source files.

Every patch reports how many places it matched, so a patch that silently
does nothing is visible. Use --strict to turn zero matches into an error and
--expect to pin the exact count.

` + patchKindsHelp

const applyLongDescription = `Apply every patch of a YAML recipe (default: recipe.path from config).

Patches are grouped by target file. Each file is read once, patched in
declaration order and written once; any failing patch leaves that file
untouched.

` + patchKindsHelp

const planLongDescription = `Show what a recipe would change without writing anything.

` + patchKindsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "srcpatch",
		Short:        "Scoped, verifiable text patches for source files",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

// newRootCmd returns a root command with the persistent flags configured,
// without subcommands.
func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.Bool(dryRunFlagName, false, "compute reports and diffs without writing")
	bindFlagToConfig(flags.Lookup(dryRunFlagName), dryRunConfigKey)

	flags.Bool(backupFlagName, false, "keep a copy of each changed file as <file>"+domain.BackupSuffix)
	bindFlagToConfig(flags.Lookup(backupFlagName), backupConfigKey)

	flags.Bool(strictFlagName, false, "fail when a patch matches nothing")
	bindFlagToConfig(flags.Lookup(strictFlagName), strictConfigKey)

	flags.BoolP(interactiveFlagName, "i", false, "review each diff before it is written")
	bindFlagToConfig(flags.Lookup(interactiveFlagName), interactiveConfigKey)

	flags.BoolP(verboseFlagName, "v", false, "log at debug level")
	bindFlagToConfig(flags.Lookup(verboseFlagName), logVerboseKey)

	flags.String(logFileFlagName, defaultLogFilename, "log file path")
	bindFlagToConfig(flags.Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// applyArgsFromConfig fills the shared options from viper.
func applyArgsFromConfig() domain.ApplyArgs {
	return domain.ApplyArgs{
		DryRun:      viper.GetBool(dryRunConfigKey),
		Backup:      viper.GetBool(backupConfigKey),
		Strict:      viper.GetBool(strictConfigKey),
		Interactive: viper.GetBool(interactiveConfigKey),
	}
}

// runSinglePatch applies one patch built from command-line flags.
func runSinglePatch(cmd *cobra.Command, patch m.Patch) error {
	args := applyArgsFromConfig()
	args.Patches = []m.Patch{patch}

	if args.DryRun {
		_, err := workflow.Plan(cmd.Context(), args)
		return err
	}

	_, err := workflow.Apply(cmd.Context(), args)

	return err
}
