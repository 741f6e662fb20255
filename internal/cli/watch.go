package cli

import (
	"github.com/spf13/cobra"

	"github.com/dshills/rewind/internal/engine"
	"github.com/dshills/rewind/internal/store"
	"github.com/dshills/rewind/internal/watch"
)

func (a *app) watchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch KEY FILE",
		Short: "Record every saved version of a JSON file until interrupted",
		Long: "watch follows FILE and replaces the document with its contents each time it is saved.\n" +
			"Saves that are not valid JSON are skipped with a warning.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			key, path := args[0], args[1]

			e, err := a.load(ctx, key)
			if err != nil {
				return err
			}
			saver := store.Autosave(ctx, a.store, e, key)
			defer saver.Stop()
			unsubscribe := e.Subscribe(func(any, engine.Patches, int) {
				if err := a.printState(e); err != nil {
					a.logger.Warn("print state failed", "error", err)
				}
			})
			defer unsubscribe()

			cfg := watch.Config{Debounce: a.cfg.Watch.Debounce, Logger: a.logger}
			a.logger.Info("watching", "key", key, "file", path)
			return watch.Follow(ctx, path, cfg, func(data []byte) error {
				v, err := decodeJSON(string(data))
				if err != nil {
					a.logger.Warn("skipping invalid save", "file", path, "error", err)
					return nil
				}
				if err := e.SetState(engine.Replace(v)); err != nil {
					return err
				}
				return saver.Err()
			})
		},
	}
	return cmd
}
