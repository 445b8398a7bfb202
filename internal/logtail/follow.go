package logtail

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Follow calls emit for every complete line appended to path until ctx is
// done. It starts at the current end of the file. A truncated or recreated
// file is read again from the start.
func Follow(ctx context.Context, path string, emit func(line string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch log: %w", err)
	}
	defer func() { _ = w.Close() }()

	// Watch the directory so rotation and late creation are seen.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch log: %w", err)
	}

	t := &tailer{path: path, emit: emit}
	if info, err := os.Stat(path); err == nil {
		t.offset = info.Size()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				t.offset = 0
				t.partial = ""
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if err := t.drain(); err != nil {
					return err
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("log watch error", "error", err)
		}
	}
}

type tailer struct {
	path    string
	offset  int64
	partial string
	emit    func(string)
}

// drain emits lines written since the last read.
func (t *tailer) drain() error {
	f, err := os.Open(t.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat log: %w", err)
	}
	if info.Size() < t.offset {
		t.offset = 0
		t.partial = ""
	}
	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return fmt.Errorf("seek log: %w", err)
	}

	r := bufio.NewReader(f)
	for {
		chunk, err := r.ReadString('\n')
		t.offset += int64(len(chunk))
		if strings.HasSuffix(chunk, "\n") {
			t.emit(strings.TrimRight(t.partial+chunk, "\r\n"))
			t.partial = ""
		} else {
			t.partial += chunk
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read log: %w", err)
		}
	}
}
