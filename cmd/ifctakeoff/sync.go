package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lfarruda/ifctakeoff/internal/recordstore"
	"github.com/lfarruda/ifctakeoff/pkg/types"
)

var syncCmd = &cobra.Command{
	Use:   "sync <file.ifc>",
	Short: "Process an IFC file and replace the project's stored records",
	Long: `Sync runs the same pipeline as process, then performs a keyed upsert
on the record store: every stored record of the project is replaced by
the new set in one transaction. Other projects are untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	projectRef, err := requireProject(cmd)
	if err != nil {
		return err
	}

	records, summary, err := processFile(cmd, args[0], projectRef)
	if err != nil {
		return err
	}

	store, err := recordstore.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Upsert(context.Background(), projectRef, records); err != nil {
		return fmt.Errorf("syncing %s: %w", projectRef, err)
	}

	fmt.Fprintf(os.Stdout, "synced %d records for %s\n", len(records), projectRef)
	if !summary.Clean() {
		fmt.Fprintf(os.Stdout, "review needed: %d sections unresolved, %d columns without reinforcement\n",
			summary.GeometryUnresolved, summary.ReinforcementMissing)
	}
	return nil
}

func storeConfig(cmd *cobra.Command) types.StoreConfig {
	return types.StoreConfig{
		DBPath:    flagOrConfig(cmd, "db", "store.db_path", "takeoff.db"),
		ExportDir: flagOrConfig(cmd, "export-dir", "store.export_dir", "."),
	}
}

func init() {
	syncCmd.Flags().String("project", "", "project reference used in record keys")
	syncCmd.Flags().String("db", "takeoff.db", "record store database file")
	syncCmd.Flags().String("export-dir", ".", "directory for export files")
	syncCmd.Flags().Bool("extended", false, "include estimated height, volume, material and centroid")

	rootCmd.AddCommand(syncCmd)
}
