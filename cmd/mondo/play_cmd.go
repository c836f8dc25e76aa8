package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mondohq/mondo/internal/anilist"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <media-id> [episode]",
		Short: "Print the folder or episode file path for a media",
		Long: `Resolve a tracked media to its folder, or one of its episodes to a file.

The episode is usually a number, but for specials and movies without one it
can be the parsed title of the file.`,
		Args: cobra.RangeArgs(1, 2),
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

			if len(args) == 1 {
				folder := a.store.FolderByID(mediaID)
				if folder == "" {
					return fmt.Errorf("no folder associated with media %d", mediaID)
				}
				fmt.Println(folder)
				return nil
			}

			path, err := a.store.EpisodePath(cmd.Context(), mediaID, args[1])
			if err != nil {
				return err
			}
			if path == "" {
				return fmt.Errorf("no file found for media %d episode %s", mediaID, args[1])
			}

			fmt.Println(path)
			return nil
		},
	}
}

func newPlayCmd() *cobra.Command {
	var markWatched bool

	cmd := &cobra.Command{
		Use:   "play <media-id> <episode>",
		Short: "Play an episode in your configured player",
		Long: `Resolve an episode to its file and launch the configured player on it.

With --mark-watched, Mondo waits for the player to exit and then pushes the
episode as watched to AniList. Watching the final episode marks the media
COMPLETED.`,
		Args: cobra.ExactArgs(2),
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

			path, err := a.store.EpisodePath(cmd.Context(), mediaID, args[1])
			if err != nil {
				return err
			}
			if path == "" {
				return fmt.Errorf("no file found for media %d episode %s", mediaID, args[1])
			}

			if !markWatched {
				return a.player.Play(path)
			}

			if err := a.player.PlayAndWait(cmd.Context(), path); err != nil {
				return err
			}

			episode, err := strconv.Atoi(args[1])
			if err != nil {
				fmt.Println("Episode is not numeric; progress not pushed.")
				return nil
			}
			return pushProgress(cmd, a, mediaID, episode)
		},
	}

	cmd.Flags().BoolVar(&markWatched, "mark-watched", false, "push progress to AniList after the player exits")
	return cmd
}

// pushProgress records one watched episode on AniList and in the cache.
func pushProgress(cmd *cobra.Command, a *app, mediaID, episode int) error {
	entry, err := a.cache.Entry(mediaID)
	if err != nil {
		return err
	}

	completed := entry != nil && entry.Episodes > 0 && episode >= entry.Episodes
	if completed {
		err = a.client.CompleteMedia(cmd.Context(), mediaID, entry.Episodes)
	} else {
		err = a.client.SaveProgress(cmd.Context(), mediaID, episode)
	}
	if err != nil {
		return fmt.Errorf("failed to push progress: %w", err)
	}

	if err := a.cache.SetProgress(mediaID, episode); err != nil {
		return err
	}
	if completed {
		if err := a.cache.SetStatus(mediaID, anilist.StatusCompleted); err != nil {
			return err
		}
		fmt.Printf("Marked media %d COMPLETED.\n", mediaID)
		return nil
	}

	fmt.Printf("Progress for media %d set to %d.\n", mediaID, episode)
	return nil
}
