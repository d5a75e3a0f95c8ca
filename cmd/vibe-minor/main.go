// Package main provides the vibe-minor command-line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vibe-minor",
		Short: "Minor variant calling and haplotype phasing from aligned reads",
		Long: `vibe-minor calls minor amino-acid variants from a multiple sequence
alignment of reads over a target region, separates true variation from
sequencing noise by per-codon significance testing, annotates known
drug-resistance mutations, and phases reads into haplotypes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	root.AddCommand(newCallCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("vibe-minor version %s (%s) built %s\n", version, commit, date)
		},
	}
}

// initConfig loads ~/.vibe-minor.yaml if present. A missing config file is
// not an error.
func initConfig() error {
	viper.SetConfigFile(configFile())
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return nil
		}
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}
