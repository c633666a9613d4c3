package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/plugwire/internal/domain/plugin"
)

var useCmd = &cobra.Command{
	Use:   "use [plugin...]",
	Short: "Install plugins and their dependencies",
	Long: `Locate, validate and install the named plugins as one batch.

Plugins are looked up in <system>_plugins and .<system>/plugins, starting at
the base directory and walking up to the filesystem root. Plugins required by
another member of the batch are installed first. When no plugin is named, the
plugins listed in plugwire.yaml are used.

Examples:
  plugwire use ballroom tango        # Install tango, then ballroom
  plugwire use --base ./examples     # Install the configured plugins
  plugwire use bare --json           # Print the batch report as JSON`,
	RunE: runUse,
}

func runUse(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	names, err := s.pluginNames(args)
	if err != nil {
		return err
	}

	report, err := s.loader.Use(s.context(cmd.Context()), names, s.cfg.BasePath)
	if err != nil {
		if report != nil && jsonOutput {
			_ = writeReportJSON(cmd.OutOrStdout(), report, s.host.Announcements)
		}
		return err
	}

	if jsonOutput {
		return writeReportJSON(cmd.OutOrStdout(), report, s.host.Announcements)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, styles.Title.Render(fmt.Sprintf("Installed %d plugin(s)", len(report.Order))))
	writeOrder(out, report.Order)
	for _, line := range s.host.Announcements {
		_, _ = fmt.Fprintf(out, "%s %s\n", styles.Muted.Render("announce"), line)
	}
	_, _ = fmt.Fprintln(out, styles.Muted.Render("batch "+report.ID))

	return nil
}

// writeOrder prints a numbered list of plugin names.
func writeOrder(w io.Writer, order []string) {
	for i, name := range order {
		_, _ = fmt.Fprintf(w, "%s %s\n", styles.Index.Render(fmt.Sprintf("%d.", i+1)), styles.Success.Render(name))
	}
}

type reportJSON struct {
	ID            string       `json:"id"`
	Order         []string     `json:"order"`
	Members       []memberJSON `json:"members"`
	Announcements []string     `json:"announcements,omitempty"`
}

type memberJSON struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

func writeReportJSON(w io.Writer, report *plugin.BatchReport, announcements []string) error {
	out := reportJSON{
		ID:            report.ID,
		Order:         report.Order,
		Members:       make([]memberJSON, 0, len(report.Members)),
		Announcements: announcements,
	}
	for _, m := range report.Members {
		out.Members = append(out.Members, memberJSON{Name: m.Name, State: string(m.State)})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
