package cmd

import (
	"github.com/spf13/cobra"

	m "srcpatch.dev/pkg/srcpatch/internal/model"
)

// replaceCmd represents the replace command.
var replaceCmd = newReplaceCmd()

func newReplaceCmd() *cobra.Command {
	var (
		search  string
		replace string
		regex   bool
		escape  bool
	)

	cmd := &cobra.Command{
		Use:   "replace FILE",
		Short: "Replace a literal string or regular expression in a file",
		Long: `Replace every occurrence of --search with --replace.

The literal search matches byte for byte, indentation included. With --regex
the search is a Go regular expression and the replacement may use $1 or
${name}. --escape interprets \n and \t in both values so multi-line text can
be given on one line.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if escape {
				var err error
				if search, err = unescape(search); err != nil {
					return err
				}

				if replace, err = unescape(replace); err != nil {
					return err
				}
			}

			expect, err := expectFromFlags(cmd)
			if err != nil {
				return err
			}

			kind := m.PatchReplace
			if regex {
				kind = m.PatchRegex
			}

			return runSinglePatch(cmd, m.Patch{
				Target:  m.Path(args[0]),
				Kind:    kind,
				Search:  search,
				Replace: replace,
				Expect:  expect,
			})
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "text or pattern to find")
	cmd.Flags().StringVar(&replace, "replace", "", "replacement text")
	cmd.Flags().BoolVar(&regex, "regex", false, "treat --search as a regular expression")
	cmd.Flags().BoolVar(&escape, "escape", false, `interpret \n and \t in --search and --replace`)
	cobra.CheckErr(cmd.MarkFlagRequired("search"))
	addExpectFlag(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(replaceCmd)
}
