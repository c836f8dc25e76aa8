package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev" // Set by build flags: -ldflags="-X main.version=1.0.0"
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mondo",
		Short: "AniList companion for local anime folders",
		Long: `Mondo links the folders where your anime lives to your AniList
watch-list. It scans tracked folders, fuzzy-matches their names against the
list, and resolves "episode N of show X" straight to a playable file.

Typical flow:
  mondo config init           # create the config file, then add your username
  mondo folders add ~/anime   # track a folder and match its contents
  mondo play 21 5             # play episode 5 of media 21`,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newFoldersCmd())
	rootCmd.AddCommand(newAssignCmd())
	rootCmd.AddCommand(newUnassignCmd())
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newWatchingCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mondo %s\n", version)
		},
	}
}
