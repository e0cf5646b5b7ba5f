package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"photomanager/internal/storage"
)

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index DIR...",
		Short: "Add the images under each DIR to the sqlite media index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if cfg.MediaIndex == "" {
				return errors.New("media_index is not configured")
			}

			store, err := storage.OpenMediaStore(cmd.Context(), cfg.MediaIndex)
			if err != nil {
				return err
			}
			defer store.Close()

			added := 0
			for _, dir := range args {
				n, err := indexDir(cmd, store, dir)
				added += n
				if err != nil {
					return err
				}
			}

			log.Info("index updated", zap.Int("added", added))
			fmt.Fprintf(cmd.OutOrStdout(), "added %d images\n", added)
			return nil
		},
	}
}

func indexDir(cmd *cobra.Command, store *storage.MediaStore, dir string) (int, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return 0, err
	}

	added := 0
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		mime := storage.MimeType(d.Name())
		if mime == "" {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if _, err := store.Add(cmd.Context(), path, mime, info.ModTime()); err != nil {
			return err
		}
		added++
		return nil
	})
	if err != nil {
		return added, fmt.Errorf("index %s: %w", dir, err)
	}
	return added, nil
}
