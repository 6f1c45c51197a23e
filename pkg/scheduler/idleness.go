package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FSIdlenessProvider watches a set of directories for filesystem activity
// and reports elapsed time since the last observed event as idleness.
// Grounded conceptually on the retrieval pack's fsnotify-based debounced
// watcher: a single watcher goroutine updates a timestamp, readers only
// ever take a lock to read it.
type FSIdlenessProvider struct {
	watcher *fsnotify.Watcher

	mu           sync.RWMutex
	lastActivity time.Time
	runningTasks int
}

// NewFSIdlenessProvider starts watching roots for filesystem events.
func NewFSIdlenessProvider(roots []string) (*FSIdlenessProvider, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("scheduler: create fsnotify watcher: %w", err)
	}
	for _, root := range roots {
		if err := watcher.Add(root); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("scheduler: watch %s: %w", root, err)
		}
	}

	p := &FSIdlenessProvider{watcher: watcher, lastActivity: time.Now()}
	go p.run()
	return p, nil
}

func (p *FSIdlenessProvider) run() {
	for {
		select {
		case _, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			p.mu.Lock()
			p.lastActivity = time.Now()
			p.mu.Unlock()
		case _, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// MarkTaskStarted/MarkTaskFinished let the execution substrate report its
// own concurrency so Idleness' runningTasks stays accurate.
func (p *FSIdlenessProvider) MarkTaskStarted() {
	p.mu.Lock()
	p.runningTasks++
	p.mu.Unlock()
}

func (p *FSIdlenessProvider) MarkTaskFinished() {
	p.mu.Lock()
	if p.runningTasks > 0 {
		p.runningTasks--
	}
	p.mu.Unlock()
}

func (p *FSIdlenessProvider) Idleness(ctx context.Context) (time.Duration, int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return time.Since(p.lastActivity), p.runningTasks, nil
}

// Close stops the underlying watcher.
func (p *FSIdlenessProvider) Close() error {
	return p.watcher.Close()
}
