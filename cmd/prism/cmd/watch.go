package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iiroan/prism/internal/config"
	"github.com/iiroan/prism/internal/store"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow preference changes from the file and the broker",
	Long: `Follow preference changes made by other processes, through the
preferences file or over NATS, and log each resulting theme.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := openSession(ctx, sessionOptions{broker: true})
	if err != nil {
		return err
	}
	defer sess.Close()

	cancel := sess.store.Subscribe(func(change store.Change) {
		r := sess.ctrl.Theme()
		logger.Info("preferences changed",
			"intent", change.Intent.Kind(),
			"color", r.Color,
			"mode", r.Mode,
			"direction", r.Direction,
			"layout", change.Preferences.Layout)
	})
	defer cancel()

	errCh := make(chan error, 1)
	if sess.file != nil {
		watcher, err := config.NewWatcher(sess.file, sess.store, logger)
		if err != nil {
			return err
		}
		defer watcher.Close()
		go func() { errCh <- watcher.Run(ctx) }()
		logger.Info("watching preferences file", "path", sess.file.Path())
	}

	if sess.mirror != nil {
		if err := sess.mirror.PublishSnapshot(); err != nil {
			logger.Warn("could not publish snapshot", "error", err)
		}
		logger.Info("mirroring over nats", "subject", cfg.Broker.Subject, "origin", sess.mirror.Origin())
	}

	if sess.file == nil && sess.mirror == nil {
		logger.Warn("nothing to watch: sqlite store without broker")
		return nil
	}

	for {
		select {
		case <-sess.updates.Ready():
			sess.updates.apply()
		case <-ctx.Done():
			logger.Info("stopped watching")
			return nil
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			logger.Info("stopped watching")
			return nil
		}
	}
}
