package holder

import (
	"context"
	"sync"

	"Duet/core"

	"golang.org/x/sync/semaphore"
)

const DefaultLimit = 20

type dialog struct {
	sem   *semaphore.Weighted
	turns []core.Turn
}

// ContextManager keeps volatile per-user conversation turns. When a user's
// log reaches the limit it is cleared as a whole by MaybeReset.
type ContextManager struct {
	limit   int
	mutex   sync.Mutex
	dialogs map[int64]*dialog
}

func NewContextManager(limit int) *ContextManager {
	if limit < 2 {
		limit = DefaultLimit
	}
	return &ContextManager{
		limit:   limit,
		dialogs: make(map[int64]*dialog),
	}
}

func (cm *ContextManager) Limit() int {
	return cm.limit
}

// entry must be called with cm.mutex held.
func (cm *ContextManager) entry(userId int64) *dialog {
	d, ok := cm.dialogs[userId]
	if !ok {
		d = &dialog{sem: semaphore.NewWeighted(1)}
		cm.dialogs[userId] = d
	}
	return d
}

// Lock enters the user's critical section. Messages of one user that
// arrive concurrently are serialized here; other users are not blocked.
func (cm *ContextManager) Lock(ctx context.Context, userId int64) (func(), error) {
	cm.mutex.Lock()
	sem := cm.entry(userId).sem
	cm.mutex.Unlock()

	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	var once sync.Once
	return func() {
		once.Do(func() { sem.Release(1) })
	}, nil
}

func (cm *ContextManager) Append(userId int64, role core.Role, content string) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	d := cm.entry(userId)
	d.turns = append(d.turns, core.Turn{Role: role, Content: content})
}

// Get returns a copy of the user's turns in insertion order.
func (cm *ContextManager) Get(userId int64) []core.Turn {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	d, ok := cm.dialogs[userId]
	if !ok || len(d.turns) == 0 {
		return []core.Turn{}
	}
	turns := make([]core.Turn, len(d.turns))
	copy(turns, d.turns)
	return turns
}

func (cm *ContextManager) Len(userId int64) int {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	if d, ok := cm.dialogs[userId]; ok {
		return len(d.turns)
	}
	return 0
}

// MaybeReset clears the user's turns once their count reached the limit
// and reports whether it did.
func (cm *ContextManager) MaybeReset(userId int64) bool {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	d, ok := cm.dialogs[userId]
	if !ok || len(d.turns) < cm.limit {
		return false
	}
	d.turns = nil
	return true
}

func (cm *ContextManager) Clear(userId int64) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	if d, ok := cm.dialogs[userId]; ok {
		d.turns = nil
	}
}
