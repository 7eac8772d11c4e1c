package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// addExpectFlag registers --expect on a single-patch command.
func addExpectFlag(cmd *cobra.Command) {
	cmd.Flags().Int(expectFlagName, 0, "fail unless the patch matches exactly N times")
}

// expectFromFlags returns the --expect value, or nil when it was not given.
func expectFromFlags(cmd *cobra.Command) (*int, error) {
	if !cmd.Flags().Changed(expectFlagName) {
		return nil, nil
	}

	expect, err := cmd.Flags().GetInt(expectFlagName)
	if err != nil {
		return nil, err
	}

	if expect < 0 {
		return nil, fmt.Errorf("--%s must not be negative", expectFlagName)
	}

	return &expect, nil
}

// unescape interprets Go escape sequences such as \n and \t in value.
// Bare double quotes and raw line breaks are taken literally.
func unescape(value string) (string, error) {
	var quoted strings.Builder

	quoted.WriteByte('"')

	for i := 0; i < len(value); i++ {
		switch value[i] {
		case '\\':
			quoted.WriteByte('\\')

			if i+1 < len(value) {
				i++
				quoted.WriteByte(value[i])
			}
		case '"':
			quoted.WriteString(`\"`)
		case '\n':
			quoted.WriteString(`\n`)
		case '\r':
			quoted.WriteString(`\r`)
		default:
			quoted.WriteByte(value[i])
		}
	}

	quoted.WriteByte('"')

	unquoted, err := strconv.Unquote(quoted.String())
	if err != nil {
		return "", fmt.Errorf("unescape %q: %w", value, err)
	}

	return unquoted, nil
}
