package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [plugin...]",
	Short: "Check that plugins can be installed together",
	Long: `Locate, validate and order the named plugins without installing them.

Reports the order plugwire use would install them in, or the first reason the
batch cannot be installed: a missing plugin, an invalid manifest, an unmet or
cyclic dependency, or two plugins claiming the same name or role.

Examples:
  plugwire check ballroom tango
  plugwire check --json`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	names, err := s.pluginNames(args)
	if err != nil {
		return err
	}

	factories, err := s.loader.Resolve(s.context(cmd.Context()), names, s.cfg.BasePath)
	if err != nil {
		return err
	}

	order := make([]string, len(factories))
	for i, f := range factories {
		order[i] = f.Name
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string][]string{"order": order})
	}

	_, _ = fmt.Fprintln(out, styles.Title.Render(fmt.Sprintf("%d plugin(s) can be installed", len(order))))
	writeOrder(out, order)
	return nil
}
