package api

import (
	"sync"

	"github.com/annel0/gungeon-sim/internal/session"
)

// SnapshotHolder последний опубликованный срез сессии.
// Пишет поток симуляции, читают обработчики HTTP.
type SnapshotHolder struct {
	mu    sync.RWMutex
	snap  session.Snapshot
	valid bool
}

func NewSnapshotHolder() *SnapshotHolder { return &SnapshotHolder{} }

// Store публикует новый срез
func (h *SnapshotHolder) Store(snap session.Snapshot) {
	h.mu.Lock()
	h.snap = snap
	h.valid = true
	h.mu.Unlock()
}

// Load возвращает последний срез, false пока ничего не опубликовано
func (h *SnapshotHolder) Load() (session.Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap, h.valid
}
