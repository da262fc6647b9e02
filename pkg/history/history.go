// Package history keeps each identity's watch history: a bounded,
// deduplicated list of video ids, most recently watched first.
package history

import (
	"context"
	"sync"
	"time"
)

type Log interface {
	// Record moves videoID to the front of userID's history, trimming the
	// oldest entries beyond the configured limit.
	Record(ctx context.Context, userID, videoID string, at time.Time) error
	// List returns userID's history, most recent first.
	List(ctx context.Context, userID string) ([]string, error)
	// Purge removes videoID from every history that holds it.
	Purge(ctx context.Context, videoID string) (int64, error)
}

type entry struct {
	videoID string
	at      time.Time
}

// Memory is an in-process Log.
type Memory struct {
	mu    sync.Mutex
	limit int
	logs  map[string][]entry
}

func NewMemory(limit int) *Memory {
	if limit <= 0 {
		limit = 100
	}
	return &Memory{limit: limit, logs: make(map[string][]entry)}
}

func (m *Memory) Record(ctx context.Context, userID, videoID string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur := m.logs[userID]
	next := make([]entry, 0, len(cur)+1)
	next = append(next, entry{videoID: videoID, at: at})
	for _, e := range cur {
		if e.videoID != videoID {
			next = append(next, e)
		}
	}
	if len(next) > m.limit {
		next = next[:m.limit]
	}
	m.logs[userID] = next
	return nil
}

func (m *Memory) List(ctx context.Context, userID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.logs[userID]))
	for _, e := range m.logs[userID] {
		out = append(out, e.videoID)
	}
	return out, nil
}

func (m *Memory) Purge(ctx context.Context, videoID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for uid, entries := range m.logs {
		kept := entries[:0]
		for _, e := range entries {
			if e.videoID == videoID {
				n++
				continue
			}
			kept = append(kept, e)
		}
		m.logs[uid] = kept
	}
	return n, nil
}
