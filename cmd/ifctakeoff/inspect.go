package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lfarruda/ifctakeoff/internal/bim"
	"github.com/lfarruda/ifctakeoff/internal/geometry"
	"github.com/lfarruda/ifctakeoff/internal/ifc"
	"github.com/lfarruda/ifctakeoff/internal/rebar"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.ifc>",
	Short: "Diagnose what the engine can and cannot resolve in a file",
	Long: `Inspect loads the file and reports what a takeoff would be built
from: how many columns and bars the export carries, which owner tags
the reinforcement index holds, how many bar names failed parsing, and
which columns have no resolvable section. Use it before sync when an
export looks off.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	model, err := ifc.Load(args[0])
	if err != nil {
		return err
	}
	inspectModel(os.Stdout, model)
	return nil
}

func inspectModel(w io.Writer, model *bim.Model) {
	fmt.Fprintf(w, "columns: %d\n", len(model.Columns))
	fmt.Fprintf(w, "reinforcing bars: %d\n", len(model.Bars))

	ix := rebar.Build(model.Bars)
	fmt.Fprintf(w, "bars indexed: %d, dropped (unparsable name or diameter): %d\n",
		ix.Indexed(), ix.Dropped())

	fmt.Fprintln(w, "\nowner tags in the index:")
	for _, owner := range ix.Owners() {
		diams, _ := ix.Lookup(owner)
		fmt.Fprintf(w, "  %-8s %s\n", owner, rebar.FormatSpec(diams))
	}

	var unresolved []string
	for _, col := range model.Columns {
		if res := geometry.Resolve(col); !res.OK {
			name := col.Name
			if name == "" {
				name = "(unnamed)"
			}
			unresolved = append(unresolved, fmt.Sprintf("%s [%s]", name, col.GlobalID))
		}
	}
	if len(unresolved) == 0 {
		fmt.Fprintln(w, "\nevery column has a resolvable section")
		return
	}
	fmt.Fprintf(w, "\ncolumns without a resolvable section (%d):\n", len(unresolved))
	for _, c := range unresolved {
		fmt.Fprintf(w, "  %s\n", c)
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
