// Package main is the entry point for the ifctakeoff CLI.
//
// ifctakeoff reads an IFC structural export, derives one reviewable
// record per column (cross-section and reinforcement), and keeps a
// project-keyed SQLite store in sync with the latest file. Each stage
// is a subcommand: process, sync, export, inspect.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the ifctakeoff CLI.
var rootCmd = &cobra.Command{
	Use:   "ifctakeoff",
	Short: "Column takeoff records from IFC structural exports",
	Long: `ifctakeoff derives, per structural column of an IFC export, the
cross-section dimensions and the reinforcement composition, and
assembles them into reviewable records keyed by project.

Sections come from a dimension property set when the export carries
one, or from a bounding box of the column's solid geometry otherwise.
Reinforcement is recovered by parsing the free-text names of the
reinforcing-bar entities, since the file format links no bar to its
column.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ifctakeoff.yaml or ~/.config/ifctakeoff/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ifctakeoff")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ifctakeoff"))
		}
	}

	viper.SetEnvPrefix("IFCTAKEOFF")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// flagOrConfig returns the flag value when set, then the config value,
// then the fallback.
func flagOrConfig(cmd *cobra.Command, flag, key, fallback string) string {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	if v := viper.GetString(key); v != "" {
		return v
	}
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
