// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/naev/naev-sub006/safelanes"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultDebounce = 500 * time.Millisecond

// errWatcherClosed ends the watch, and with it the errgroup, when fsnotify
// closes its channels.
var errWatcherClosed = errors.New("file watcher closed")

func newWatchCmd(a *app) *cobra.Command {
	var (
		diffDir  string
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Recalculate lanes whenever the universe or its diffs change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := &watcher{
				log:      a.log,
				universe: a.universePath,
				diffDir:  diffDir,
				debounce: debounce,
				solver:   a.solver(),
			}
			g, ctx := errgroup.WithContext(ctx)
			if addr := a.cfg.Metrics.Listen; addr != "" {
				srv := &http.Server{
					Addr:              addr,
					Handler:           metricsMux(a),
					ReadHeaderTimeout: 5 * time.Second,
				}
				g.Go(func() error {
					a.log.Info("serving metrics", zap.String("addr", addr))
					if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
						return err
					}
					return nil
				})
				g.Go(func() error {
					<-ctx.Done()
					sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					return srv.Shutdown(sctx)
				})
			}
			g.Go(func() error { return w.run(ctx) })

			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&diffDir, "diffs", "", "directory of diff .yaml files applied in name order")
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "quiet period before recalculating")

	return cmd
}

func metricsMux(a *app) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	return mux
}

// watcher recalculates lanes when the universe file or a diff changes.
// Bursts of events are collapsed into one recalculation after debounce.
type watcher struct {
	log      *zap.Logger
	universe string
	diffDir  string
	debounce time.Duration
	solver   *safelanes.Solver
}

// run computes once, then watches until ctx is done.
func (w *watcher) run(ctx context.Context) error {
	if err := w.reload(ctx); err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fw.Close()
	// Editors replace files by rename, so watch directories, not files.
	if err = fw.Add(filepath.Dir(w.universe)); err != nil {
		return fmt.Errorf("watch %s: %w", w.universe, err)
	}
	if w.diffDir != "" {
		if err = fw.Add(w.diffDir); err != nil {
			return fmt.Errorf("watch %s: %w", w.diffDir, err)
		}
	}

	return w.loop(ctx, fw.Events, fw.Errors)
}

// loop debounces file events into reloads until ctx is done or the event
// channels close.
func (w *watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			w.solver.Shutdown()
			w.log.Info("stopping lane watcher")
			return nil

		case ev, ok := <-events:
			if !ok {
				return errWatcherClosed
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 || !w.relevant(ev.Name) {
				continue
			}
			w.log.Debug("universe input changed", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-errs:
			if !ok {
				return errWatcherClosed
			}
			w.log.Error("file watcher error", zap.Error(err))

		case <-timer.C:
			// Keep watching on failure; the last table stays published.
			if err := w.reload(ctx); err != nil {
				w.log.Error("lane recalculation failed", zap.Error(err))
			}
		}
	}
}

func (w *watcher) relevant(name string) bool {
	if filepath.Clean(name) == filepath.Clean(w.universe) {
		return true
	}
	return w.diffDir != "" && filepath.Dir(name) == filepath.Clean(w.diffDir) && isYAML(name)
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// diffFiles lists the diff directory's YAML files in name order.
func (w *watcher) diffFiles() ([]string, error) {
	if w.diffDir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(w.diffDir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && isYAML(e.Name()) {
			out = append(out, filepath.Join(w.diffDir, e.Name()))
		}
	}
	sort.Strings(out)

	return out, nil
}

// reload loads the universe, applies every diff and recalculates.
func (w *watcher) reload(ctx context.Context) error {
	u, err := loadUniverse(ctx, w.universe)
	if err != nil {
		return err
	}
	diffs, err := w.diffFiles()
	if err != nil {
		return err
	}
	if err = applyDiffFiles(u, diffs); err != nil {
		return err
	}
	_, err = w.solver.RecalculateUniverse(u)

	return err
}
