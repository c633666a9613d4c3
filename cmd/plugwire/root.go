package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/plugwire/internal/domain/config"
	"github.com/felixgeelhaar/plugwire/internal/domain/plugin"
)

var (
	// Global flags
	cfgFile    string
	verbose    bool
	jsonOutput bool
	basePath   string
	systemName string
)

var rootCmd = &cobra.Command{
	Use:   "plugwire",
	Short: "Resolve and install plugins in dependency order",
	Long: `Plugwire installs plugins described by manifests on disk.

Each plugin names the plugins and roles it depends on. Plugwire locates the
manifests, validates them, orders the batch so dependencies come first and
installs it:
  Locate → Load → Validate → Resolve → Install`,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printErrorTo(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: plugwire.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "JSON output and logs")
	rootCmd.PersistentFlags().StringVar(&basePath, "base", "", "directory to start searching for plugins (default: config basePath)")
	rootCmd.PersistentFlags().StringVar(&systemName, "system", "", "system name; plugins live in <system>_plugins (default: config system)")

	_ = rootCmd.RegisterFlagCompletionFunc("config", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
	})
	_ = rootCmd.RegisterFlagCompletionFunc("base", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveFilterDirs
	})

	rootCmd.AddCommand(useCmd, checkCmd, catalogCmd, versionCmd)
}

// formatError returns a user-friendly error message.
// With verbose=false: shows the user message and suggestion, or the plugin
// failure with its wrapped causes on one line.
// With verbose=true: also shows the underlying technical error, or for
// plugin failures every failure in the chain.
func formatError(err error) string {
	var userErr *config.UserError
	if errors.As(err, &userErr) {
		msg := userErr.Error()
		if verbose && userErr.Underlying != nil {
			msg += fmt.Sprintf("\n\nTechnical details: %v", userErr.Underlying)
		}
		if userErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", userErr.Suggestion)
		}
		return msg
	}

	failure, ok := plugin.AsFailure(err)
	if !ok {
		return err.Error()
	}
	if !verbose {
		return failure.Error()
	}
	return formatFailureChain(failure)
}

// formatFailureChain renders one line per failure, outermost first, with
// the details relevant to each failure type.
func formatFailureChain(failure *plugin.Failure) string {
	var b strings.Builder
	var cause error = failure

	for depth := 0; cause != nil; depth++ {
		indent := strings.Repeat("  ", depth)
		f, ok := cause.(*plugin.Failure)
		if !ok {
			fmt.Fprintf(&b, "%s%v\n", indent, cause)
			break
		}

		fmt.Fprintf(&b, "%s[%s] %s\n", indent, f.Type, f.Message)
		if len(f.Chain) > 0 {
			fmt.Fprintf(&b, "%s  chain: %s\n", indent, strings.Join(f.Chain, " -> "))
		}
		if len(f.Paths) > 0 {
			fmt.Fprintf(&b, "%s  searched: %s\n", indent, strings.Join(f.Paths, ", "))
		}
		if f.Path != "" {
			fmt.Fprintf(&b, "%s  path: %s\n", indent, f.Path)
		}
		cause = f.Inner
	}

	return strings.TrimRight(b.String(), "\n")
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "%s %s\n", styles.Error.Render("Error:"), formatError(err))
}
