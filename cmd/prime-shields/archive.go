// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/prime-shields/internal/archive"
	"github.com/pdiddy/prime-shields/internal/present"
)

func newArchiveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "List, show and export saved runs",
		Long: `Archive manages the SQLite run archive written by generate --save.
Use subcommands to list runs, print one run, or export every run.`,
	}
	cmd.PersistentFlags().String("archive-dir", "archive", "directory holding the run archive")

	// --- list subcommand ---

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		Args:  cobra.NoArgs,
		RunE:  a.runArchiveList,
	}

	// --- show subcommand ---

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Print the terms of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runArchiveShow,
	}
	show.Flags().Bool("json", false, "output terms as JSON")

	// --- export subcommand ---

	export := &cobra.Command{
		Use:   "export",
		Short: "Export every saved run to YAML or JSON",
		Long: `Export writes every run with its terms to <archive-dir>/export.yaml or
export.json. Values are written as decimal strings.`,
		Args: cobra.NoArgs,
		RunE: a.runArchiveExport,
	}
	export.Flags().String("format", "yaml", "export format: yaml or json")

	cmd.AddCommand(list, show, export)
	return cmd
}

func (a *app) openArchive() (*archive.Store, error) {
	return archive.NewStore(a.cfg.Archive, a.log)
}

func (a *app) runArchiveList(cmd *cobra.Command, args []string) error {
	store, err := a.openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No saved runs.")
		return nil
	}

	fmt.Fprintf(out, "%-36s  %-20s  %-9s  %s\n", "ID", "Created", "Mode", "Terms")
	fmt.Fprintln(out, strings.Repeat("-", 76))
	for _, r := range runs {
		fmt.Fprintf(out, "%-36s  %-20s  %-9s  %d\n",
			r.ID, r.CreatedAt.Format(time.RFC3339), r.Mode, r.Requested)
	}
	fmt.Fprintf(out, "\n%d runs\n", len(runs))
	return nil
}

func (a *app) runArchiveShow(cmd *cobra.Command, args []string) error {
	store, err := a.openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return present.WriteJSON(out, run.Terms)
	}

	fmt.Fprintf(out, "Run %s (%s, mode %s)\n", run.ID, run.CreatedAt.Format(time.RFC3339), run.Mode)
	if err := present.WriteTable(out, run.Terms); err != nil {
		return err
	}
	if len(run.Terms) > 0 {
		return present.WriteSequence(out, run.Terms)
	}
	return nil
}

func (a *app) runArchiveExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := a.openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(cmd.Context())
	case "json":
		path, err = store.ExportJSON(cmd.Context())
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}
