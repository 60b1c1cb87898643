package driver

import (
	"fmt"
	"io"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jpillora/backoff"

	"github.com/curv-lang/curv/internal/printer"
)

// Watch re-evaluates path every time it changes on disk, printing the
// new result (or error) to out, until stop is closed (§A.1's `curv
// watch`). fsnotify.Watcher setup is retried with an exponential
// backoff rather than failing outright, since on some filesystems
// (network mounts, containers) the watch can briefly fail to attach
// right after a file is saved.
func (d *Driver) Watch(path string, style printer.Style, out io.Writer, stop <-chan struct{}) error {
	watcher, err := newWatcherWithRetry(path)
	if err != nil {
		return err
	}
	defer watcher.Close()

	runOnce := func() {
		v, err := d.EvalFile(path)
		if err != nil {
			fmt.Fprintln(out, err)
			return
		}
		fmt.Fprintln(out, printer.Print(v, style))
	}
	runOnce()

	for {
		select {
		case <-stop:
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				runOnce()
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(out, "watch error:", werr)
		}
	}
}

func newWatcherWithRetry(path string) (*fsnotify.Watcher, error) {
	b := &backoff.Backoff{Min: 50 * time.Millisecond, Max: 2 * time.Second, Factor: 2, Jitter: true}
	var lastErr error
	for attempt := 0; attempt < 5; attempt++ {
		watcher, err := fsnotify.NewWatcher()
		if err == nil {
			if err := watcher.Add(path); err == nil {
				return watcher, nil
			}
			watcher.Close()
			lastErr = err
		} else {
			lastErr = err
		}
		time.Sleep(b.Duration())
	}
	return nil, fmt.Errorf("watching %s: %w", path, lastErr)
}
