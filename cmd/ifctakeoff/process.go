package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/lfarruda/ifctakeoff/internal/ifc"
	"github.com/lfarruda/ifctakeoff/internal/takeoff"
	"github.com/lfarruda/ifctakeoff/pkg/types"
)

var processCmd = &cobra.Command{
	Use:   "process <file.ifc>",
	Short: "Derive column records from an IFC file and print them",
	Long: `Process loads the IFC file, indexes every reinforcing bar, assembles
one record per column and prints the result sorted by floor and name.
Nothing is persisted; use sync to update the record store.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	projectRef, err := requireProject(cmd)
	if err != nil {
		return err
	}

	records, _, err := processFile(cmd, args[0], projectRef)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	return writeRecords(records, format)
}

// processFile runs the full pipeline for one file: load, index,
// assemble. Progress goes to stderr so stdout stays machine-readable.
func processFile(cmd *cobra.Command, path, projectRef string) ([]types.ColumnRecord, takeoff.Summary, error) {
	model, err := ifc.Load(path)
	if err != nil {
		return nil, takeoff.Summary{}, err
	}

	opts := takeoff.Options{
		ExtendedFields: extendedFields(cmd),
	}
	records, summary := takeoff.Process(model, projectRef, opts, os.Stderr)
	return records, summary, nil
}

func extendedFields(cmd *cobra.Command) bool {
	if cmd.Flags().Changed("extended") {
		v, _ := cmd.Flags().GetBool("extended")
		return v
	}
	return viper.GetBool("process.extended_fields")
}

func requireProject(cmd *cobra.Command) (string, error) {
	projectRef := flagOrConfig(cmd, "project", "process.project_ref", "")
	if projectRef == "" {
		return "", fmt.Errorf("project reference required: pass --project or set process.project_ref")
	}
	return projectRef, nil
}

func writeRecords(records []types.ColumnRecord, format string) error {
	switch format {
	case "yaml", "":
		data, err := yaml.Marshal(records)
		if err != nil {
			return fmt.Errorf("marshaling records: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "table":
		printTable(records)
		return nil
	default:
		return fmt.Errorf("unsupported format %q: use yaml, json or table", format)
	}
}

func printTable(records []types.ColumnRecord) {
	fmt.Fprintf(os.Stdout, "%-10s  %-10s  %-26s  %-20s  %s\n",
		"Nome", "Secao", "Armadura", "Pavimento", "Status")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, r := range records {
		armadura := r.Reinforcement
		if len(armadura) > 26 {
			armadura = armadura[:23] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-10s  %-10s  %-26s  %-20s  %s\n",
			r.Name, r.Section, armadura, r.Floor, r.Status)
	}
	fmt.Fprintf(os.Stdout, "\n%d columns\n", len(records))
}

func init() {
	processCmd.Flags().String("project", "", "project reference used in record keys")
	processCmd.Flags().String("format", "yaml", "output format: yaml, json or table")
	processCmd.Flags().Bool("extended", false, "include estimated height, volume, material and centroid")

	rootCmd.AddCommand(processCmd)
}
