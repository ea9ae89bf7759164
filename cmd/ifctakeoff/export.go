package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lfarruda/ifctakeoff/internal/recordstore"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a project's stored records to YAML or JSON",
	Long: `Export writes the stored records of one project to a file in the
export directory. With --all, every project in the store is exported.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	store, err := recordstore.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	all, _ := cmd.Flags().GetBool("all")
	var projects []string
	if all {
		projects, err = store.Projects(ctx)
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			fmt.Fprintln(os.Stdout, "store is empty, nothing to export")
			return nil
		}
	} else {
		projectRef, err := requireProject(cmd)
		if err != nil {
			return err
		}
		projects = []string{projectRef}
	}

	format, _ := cmd.Flags().GetString("format")
	for _, project := range projects {
		var path string
		switch format {
		case "yaml", "":
			path, err = store.ExportYAML(ctx, project)
		case "json":
			path, err = store.ExportJSON(ctx, project)
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}
		if err != nil {
			return fmt.Errorf("exporting %s: %w", project, err)
		}
		fmt.Fprintf(os.Stdout, "exported %s to %s\n", project, path)
	}
	return nil
}

func init() {
	exportCmd.Flags().String("project", "", "project reference to export")
	exportCmd.Flags().Bool("all", false, "export every project in the store")
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exportCmd.Flags().String("db", "takeoff.db", "record store database file")
	exportCmd.Flags().String("export-dir", ".", "directory for export files")

	rootCmd.AddCommand(exportCmd)
}
