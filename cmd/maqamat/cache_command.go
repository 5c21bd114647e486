package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

type cacheEntryView struct {
	URL        string    `json:"url"`
	Digest     string    `json:"digest"`
	Size       int64     `json:"size"`
	StoredSize int64     `json:"stored_size"`
	FetchedAt  time.Time `json:"fetched_at"`
}

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the reference page cache",
	}
	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheRemoveCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCache()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			views := make([]cacheEntryView, 0, len(entries))
			var size, stored int64
			for _, e := range entries {
				views = append(views, cacheEntryView{
					URL:        e.URL,
					Digest:     e.Digest,
					Size:       e.Size,
					StoredSize: e.StoredSize,
					FetchedAt:  e.FetchedAt,
				})
				size += e.Size
				stored += e.StoredSize
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, views)
			}
			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintf(out, "Cache %s is empty\n", store.Path())
				return nil
			}
			rows := make([][]string, 0, len(views))
			for i, v := range views {
				rows = append(rows, []string{
					fmt.Sprintf("%d", i+1),
					v.URL,
					humanize.Bytes(uint64(v.Size)),
					humanize.Bytes(uint64(v.StoredSize)),
					humanize.Time(v.FetchedAt),
				})
			}
			headers := []string{"#", "URL", "Size", "Stored", "Fetched"}
			aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft}
			caption := fmt.Sprintf("%d pages, %s (%s stored) in %s",
				len(views), humanize.Bytes(uint64(size)), humanize.Bytes(uint64(stored)), store.Path())
			fmt.Fprintln(out, renderTable(headers, rows, aligns, caption))
			return nil
		},
	}
}

func newCacheRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <url>...",
		Short: "Remove cached pages by URL",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCache()
			if err != nil {
				return err
			}
			defer store.Close()

			for _, url := range args {
				if err := store.Delete(cmd.Context(), url); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d page(s)\n", len(args))
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCache()
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]int64{"removed": n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached page(s)\n", n)
			return nil
		},
	}
}
