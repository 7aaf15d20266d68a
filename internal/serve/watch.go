package serve

import (
	"context"
	"fmt"
	"github.com/fsnotify/fsnotify"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	debounceDelay  = 200 * time.Millisecond
	rebuildTimeout = 10 * time.Second
)

// watchEnabled reports whether serving should follow source changes. Either
// source alone is enough.
func (s *Server) watchEnabled() bool {
	b := s.cfg.Build
	return s.cfg.Serve.Watch && (b.SourceDir != "" || b.FeedFile != "")
}

// startWatch watches every directory under the source dir and the directory
// holding the feed file. Editors that save by rename replace the feed's
// inode, so the feed is matched by name inside its parent.
func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w

		if dir := s.cfg.Build.SourceDir; dir != "" {
			err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					return w.Add(path)
				}
				return nil
			})
		}
		if err == nil && s.cfg.Build.FeedFile != "" {
			err = w.Add(filepath.Dir(s.cfg.Build.FeedFile))
		}
		if err != nil {
			return
		}

		go s.watchLoop(ctx)
	})
	return err
}

// relevant reports whether a change to path can alter the catalog.
func (s *Server) relevant(path string) bool {
	path = filepath.Clean(path)
	if feed := s.cfg.Build.FeedFile; feed != "" && path == filepath.Clean(feed) {
		return true
	}
	dir := s.cfg.Build.SourceDir
	if dir == "" {
		return false
	}
	rel, err := filepath.Rel(filepath.Clean(dir), path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (s *Server) watchLoop(ctx context.Context) {
	s.log.Info("watching for source changes",
		"dir", s.cfg.Build.SourceDir,
		"feed", s.cfg.Build.FeedFile)
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	trigger := func() {
		if !debounce.Stop() {
			select {
			case <-debounce.C:
			default:
			}
		}
		debounce.Reset(debounceDelay)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if !s.relevant(ev.Name) {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := s.watcher.Add(ev.Name); err != nil {
						s.log.Warn("watch new directory", "path", ev.Name, "error", err)
					}
				}
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				s.log.Debug("source changed", "path", ev.Name, "op", ev.Op.String())
				trigger()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("watcher error", "error", err)
		case <-debounce.C:
			rctx, cancel := context.WithTimeout(ctx, rebuildTimeout)
			// the source stamps changed, so the cache is bypassed by its fingerprint
			if err := s.Rebuild(rctx, false); err != nil {
				s.log.Error("rebuild failed", "error", err)
			}
			cancel()
		}
	}
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan string, 8)

	s.sseMu.Lock()
	s.sseConns[ch] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseConns, ch)
		s.sseMu.Unlock()
	}()
	writeEvent(w, fmt.Sprintf("hello %d", s.cat.Generation()))
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.sseDone:
			return
		case msg := <-ch:
			writeEvent(w, msg)
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, msg string) {
	for _, line := range strings.Split(msg, "\n") {
		fmt.Fprintf(w, "data: %s\n", line)
	}
	fmt.Fprint(w, "\n")
}

// broadcastSSE drops the message for clients whose buffer is full.
func (s *Server) broadcastSSE(msg string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	for ch := range s.sseConns {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (s *Server) closeSSE() {
	s.sseOnce.Do(func() { close(s.sseDone) })
}
