package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/felixgeelhaar/plugwire/internal/builtin"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the builtin plugin entrypoints",
	Long: `List the constructors compiled into plugwire.

A manifest binds to one of them with its entrypoint key:

  name: ballroom
  requiresRoles: [dancer]
  entrypoint: ballroom`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	catalog, err := builtin.NewCatalog()
	if err != nil {
		return err
	}
	entrypoints := catalog.Entrypoints()

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entrypoints)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ENTRYPOINT\tDISPLAY NAME")
	for _, entrypoint := range entrypoints {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", entrypoint, displayName(entrypoint))
	}
	return w.Flush()
}

// displayName turns an entrypoint such as "has-test-hook" into
// "Has Test Hook".
func displayName(entrypoint string) string {
	caser := cases.Title(language.English)
	return caser.String(strings.ReplaceAll(entrypoint, "-", " "))
}
