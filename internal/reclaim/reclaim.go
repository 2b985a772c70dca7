// Package reclaim deletes reclaimed instance files and prunes any
// parent directory left empty under the managed storage root.
package reclaim

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/codeninja55/radx-adapter/internal/model"
)

// Queue is an unbounded, FIFO, thread-safe queue of InstanceRef awaiting
// reclaim. Producers are the SCP (on abort), the processor (after
// submit, success or exhausted retries), and the bus (orphan route).
// Grounded on aistore's object-cleanup/directory-walk shape: delete the
// object, then walk parents pruning empties, stop at a configured root.
type Queue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	items    []model.InstanceRef
	closed   bool
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends ref to the tail of the queue.
func (q *Queue) Enqueue(ref model.InstanceRef) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, ref)
	q.cond.Signal()
}

// Dequeue blocks until an item is available, the queue is closed, or ctx
// is done. ok is false only when the queue is closed and drained, or
// ctx ended first.
func (q *Queue) Dequeue(ctx context.Context) (ref model.InstanceRef, ok bool) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			q.mu.Lock()
			q.cond.Broadcast()
			q.mu.Unlock()
		case <-done:
		}
	}()
	defer close(done)

	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		if ctx.Err() != nil {
			return model.InstanceRef{}, false
		}
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return model.InstanceRef{}, false
	}
	ref = q.items[0]
	q.items = q.items[1:]
	return ref, true
}

// Close marks the queue closed and wakes any blocked Dequeue callers.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

// Reclaimer is the single background worker draining a Queue.
type Reclaimer struct {
	queue  *Queue
	root   string
	logger *log.Logger
}

// New creates a Reclaimer that deletes files under root, pruning empty
// parent directories up to but not including root itself.
func New(queue *Queue, root string, logger *log.Logger) *Reclaimer {
	return &Reclaimer{queue: queue, root: root, logger: logger}
}

// Run drains the queue until ctx is done or the queue is closed and
// empty. It deletes the file at each ref.AbsolutePath (swallowing
// failures: a bad path must never kill the worker) and prunes now-empty
// ancestor directories.
func (r *Reclaimer) Run(ctx context.Context) {
	for {
		ref, ok := r.queue.Dequeue(ctx)
		if !ok {
			return
		}
		r.reclaim(ref)
	}
}

func (r *Reclaimer) reclaim(ref model.InstanceRef) {
	if ref.AbsolutePath == "" {
		return
	}
	if err := os.Remove(ref.AbsolutePath); err != nil && !os.IsNotExist(err) {
		if r.logger != nil {
			r.logger.Error("reclaim: delete failed", "path", ref.AbsolutePath, "error", err)
		}
		return
	}
	r.pruneEmptyParents(filepath.Dir(ref.AbsolutePath))
}

// pruneEmptyParents walks up from dir, removing directories that are
// empty, stopping at (and never removing) r.root.
func (r *Reclaimer) pruneEmptyParents(dir string) {
	root := filepath.Clean(r.root)
	for {
		dir = filepath.Clean(dir)
		if dir == root || !isUnder(root, dir) {
			return
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			if r.logger != nil {
				r.logger.Warn("reclaim: readdir failed during prune", "dir", dir, "error", err)
			}
			return
		}
		if len(entries) > 0 {
			return
		}
		if err := os.Remove(dir); err != nil {
			if r.logger != nil {
				r.logger.Warn("reclaim: rmdir failed during prune", "dir", dir, "error", err)
			}
			return
		}
		dir = filepath.Dir(dir)
	}
}

func isUnder(root, dir string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	return rel != ".." && !filepath.IsAbs(rel) && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
