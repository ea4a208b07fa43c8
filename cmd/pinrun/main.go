package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath     string
	cleanupHandoff bool
	launchCPUs     string
	launchPriority string

	rootCmd = &cobra.Command{
		Use:   "pinrun [profile | program] [args...]",
		Short: "pinrun - CPU affinity launcher with profile support",
		Long: `pinrun launches programs pinned to a chosen set of CPU cores, optionally
at an adjusted scheduling priority. Launch settings can be saved as named
profiles and reused, listed, deleted or turned into desktop shortcuts.`,
		Args: cobra.ArbitraryArgs,
		RunE: runLaunch,
	}
)

func init() {
	// Flag parsing stops at the profile keyword so everything after it
	// reaches the target verbatim, flag-like or not.
	rootCmd.Flags().SetInterspersed(false)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.Flags().BoolVar(&cleanupHandoff, "cleanup-handoff", false, "")
	rootCmd.Flags().MarkHidden("cleanup-handoff")
	rootCmd.Flags().StringVar(&launchCPUs, "cpus", "", "CPU cores for an ad-hoc launch, comma-separated")
	rootCmd.Flags().StringVar(&launchPriority, "priority", "", "scheduling priority (idle, below-normal, normal, above-normal, high, realtime)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
