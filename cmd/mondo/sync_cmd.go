package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Pull your anime list from AniList into the local cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.list.Refresh(cmd.Context()); err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}

			entries, err := a.cache.All()
			if err != nil {
				return err
			}
			fmt.Printf("Synced %d list entries.\n", len(entries))
			return nil
		},
	}
}

func newWatchingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watching",
		Short: "Show the anime you are currently watching",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.list.Refresh(cmd.Context()); err != nil {
				fmt.Println("AniList unreachable, showing cached list.")
			}

			entries, err := a.cache.Watching()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("Nothing on your watching list. Run: mondo sync")
				return nil
			}

			for _, entry := range entries {
				title := entry.TitleRomaji
				if entry.TitleEnglish != "" {
					title = entry.TitleEnglish
				}
				total := "?"
				if entry.Episodes > 0 {
					total = fmt.Sprintf("%d", entry.Episodes)
				}

				folder := a.store.FolderByID(entry.MediaID)
				marker := " "
				if folder != "" {
					marker = "*"
				}
				fmt.Printf("%s %6d  %-50s %d/%s\n", marker, entry.MediaID, title, entry.Progress, total)
			}
			fmt.Println("\n* = a local folder is matched to this media")
			return nil
		},
	}
}
