package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
)

func newFoldersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folders",
		Short: "Manage tracked anime folders",
		Long: `Commands for tracking the folders Mondo scans for anime.

Examples:
  mondo folders add ~/anime          # track a folder and match its contents
  mondo folders add ~/one-piece 21   # track a folder as a specific media
  mondo folders list                 # show tracked folders and matches
  mondo folders remove ~/anime       # stop tracking a folder`,
	}

	cmd.AddCommand(newFoldersAddCmd())
	cmd.AddCommand(newFoldersRemoveCmd())
	cmd.AddCommand(newFoldersListCmd())

	return cmd
}

func newFoldersAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <path> [media-id]",
		Short: "Track a folder, matching its contents against your list",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			if len(args) == 2 {
				mediaID, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("media id must be an integer: %q", args[1])
				}
				if err := a.store.AddFolderWithID(cmd.Context(), path, mediaID); err != nil {
					return err
				}
			} else {
				if err := a.store.AddFolder(cmd.Context(), path); err != nil {
					return err
				}
			}

			printFolders(a)
			return nil
		},
	}
}

func newFoldersRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <path>",
		Short: "Stop tracking a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			if err := a.store.RemoveFolder(path); err != nil {
				return err
			}

			printFolders(a)
			return nil
		},
	}
}

func newFoldersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show tracked folders and their matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			printFolders(a)
			return nil
		},
	}
}

func printFolders(a *app) {
	folders := a.store.Folders()
	if len(folders) == 0 {
		fmt.Println("No folders tracked. Add one with: mondo folders add <path>")
		return
	}

	for _, root := range folders {
		fmt.Printf("%s\n", root.Path)
		if len(root.IDs) > 0 {
			fmt.Printf("  matched media: %v\n", root.IDs)
		}
		for _, sf := range root.SubFolders {
			if sf.ID != nil {
				fmt.Printf("  %s -> media %d\n", sf.Name, *sf.ID)
			} else {
				fmt.Printf("  %s (unmatched)\n", sf.Name)
			}
		}
		if len(root.Files) > 0 {
			fmt.Printf("  %d video file(s)\n", len(root.Files))
		}
	}
}

func newAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <path> <media-id>",
		Short: "Point a media entry at a folder explicitly",
		Long: `Associate a media id with a folder, bypassing fuzzy matching.
Use this when automatic matching picked the wrong folder or none at all.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			mediaID, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("media id must be an integer: %q", args[1])
			}

			if err := a.store.AssignFolder(cmd.Context(), path, mediaID); err != nil {
				return err
			}

			fmt.Printf("Assigned media %d to %s\n", mediaID, path)
			return nil
		},
	}
}

func newUnassignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <media-id>",
		Short: "Drop a media entry's folder association",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			mediaID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("media id must be an integer: %q", args[0])
			}

			if err := a.store.RemoveFolderFromID(mediaID); err != nil {
				return err
			}

			fmt.Printf("Removed folder association for media %d\n", mediaID)
			return nil
		},
	}
}
