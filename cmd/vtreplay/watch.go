package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"
)

// watchAndRerun watches dir for writes/creates and reruns rerun after each
// one settles, supplementing main.py's batch-only process_file_list with a
// live variant, in the idiom state_watcher.go uses for registry watching:
// one fsnotify.Watcher, a blocking event loop, no debounce beyond draining
// whatever is already queued.
func watchAndRerun(dir string, rerun func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	fmt.Println(statusRunning("watch", dir, ""))
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			slog.Info("change detected, reprocessing", "path", event.Name, "op", event.Op.String())
			if err := rerun(); err != nil {
				fmt.Fprintln(os.Stderr, statusError(err.Error()))
			} else {
				fmt.Println(statusOK("reprocessed after change to " + event.Name))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "err", err)
		}
	}
}
