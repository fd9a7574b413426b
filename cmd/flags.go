package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// StandardFlags provides consistent output flag definitions across commands.
type StandardFlags struct {
	Format  string
	Verbose bool
	Quiet   bool
}

// AddOutputFlags registers the shared output flags on a command. The valid
// format set differs per command, so callers pass their own default.
func AddOutputFlags(cmd *cobra.Command, defaultFormat string) *StandardFlags {
	flags := &StandardFlags{}

	cmd.Flags().StringVarP(&flags.Format, "format", "f", defaultFormat, "Output format")
	cmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable verbose output")
	cmd.Flags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress progress output")

	return flags
}

// ValidateFlags validates flag combinations.
func (f *StandardFlags) ValidateFlags() error {
	if f.Quiet && f.Verbose {
		return fmt.Errorf("cannot specify both --quiet and --verbose")
	}
	return nil
}

// ValidateFormatWithSuggestion checks a format value against the allowed set
// and suggests the nearest match on a miss.
func ValidateFormatWithSuggestion(format string, valid []string) error {
	lowered := strings.ToLower(format)
	for _, v := range valid {
		if lowered == v {
			return nil
		}
	}

	suggestion := ""
	for _, v := range valid {
		if strings.HasPrefix(v, lowered) || strings.HasPrefix(lowered, v) {
			suggestion = v
			break
		}
	}

	msg := fmt.Sprintf("invalid format %q, must be one of: %s", format, strings.Join(valid, ", "))
	if suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	return fmt.Errorf("%s", msg)
}

// AddFlagValidation wraps a flag's value so invalid input fails at parse time
// instead of deep inside the command.
func AddFlagValidation(cmd *cobra.Command, flagName string, validator func(string) error) {
	flag := cmd.Flags().Lookup(flagName)
	if flag == nil {
		return
	}

	flag.Value = &validatingValue{
		Value:     flag.Value,
		validator: validator,
	}
}

type validatingValue struct {
	pflag.Value
	validator func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.Value.Set(val)
}
