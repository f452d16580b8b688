package holder

import (
	"context"
	"sync"
	"testing"
	"time"

	"Duet/core"
)

func appendExchange(cm *ContextManager, userId int64, q, a string) {
	cm.Append(userId, core.RoleUser, q)
	cm.Append(userId, core.RoleAssistant, a)
}

func TestGet_EmptyForUnknownUser(t *testing.T) {
	cm := NewContextManager(20)
	turns := cm.Get(7)
	if turns == nil || len(turns) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", turns)
	}
}

func TestAppend_PreservesOrder(t *testing.T) {
	cm := NewContextManager(20)
	appendExchange(cm, 1, "q1", "a1")
	appendExchange(cm, 1, "q2", "a2")

	turns := cm.Get(1)
	want := []string{"q1", "a1", "q2", "a2"}
	if len(turns) != len(want) {
		t.Fatalf("expected %d turns, got %d", len(want), len(turns))
	}
	for i, w := range want {
		if turns[i].Content != w {
			t.Errorf("turn %d: expected %q, got %q", i, w, turns[i].Content)
		}
	}
	if turns[0].Role != core.RoleUser || turns[1].Role != core.RoleAssistant {
		t.Errorf("unexpected roles %q %q", turns[0].Role, turns[1].Role)
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	cm := NewContextManager(20)
	appendExchange(cm, 1, "q", "a")
	turns := cm.Get(1)
	turns[0].Content = "changed"
	if cm.Get(1)[0].Content != "q" {
		t.Fatal("Get must not expose internal storage")
	}
}

func TestMaybeReset_BelowLimit(t *testing.T) {
	const limit = 20
	cm := NewContextManager(limit)
	for k := 1; k < limit/2; k++ {
		appendExchange(cm, 1, "q", "a")
		if cm.MaybeReset(1) {
			t.Fatalf("unexpected reset after %d exchanges", k)
		}
		if got := cm.Len(1); got != 2*k {
			t.Fatalf("expected %d turns, got %d", 2*k, got)
		}
	}
}

func TestMaybeReset_AtLimit(t *testing.T) {
	const limit = 20
	cm := NewContextManager(limit)
	resets := 0
	for k := 0; k < limit/2; k++ {
		appendExchange(cm, 1, "q", "a")
		if cm.MaybeReset(1) {
			resets++
		}
	}
	if resets != 1 {
		t.Fatalf("expected exactly one reset, got %d", resets)
	}
	if got := cm.Len(1); got != 0 {
		t.Fatalf("expected empty history after reset, got %d", got)
	}
}

func TestMaybeReset_OddLimitCountsBothRoles(t *testing.T) {
	cm := NewContextManager(5)
	appendExchange(cm, 1, "q", "a")
	appendExchange(cm, 1, "q", "a")
	if cm.MaybeReset(1) {
		t.Fatal("4 turns must not reset with limit 5")
	}
	appendExchange(cm, 1, "q", "a")
	if !cm.MaybeReset(1) {
		t.Fatal("6 turns must reset with limit 5")
	}
}

func TestMaybeReset_IsolatedPerUser(t *testing.T) {
	cm := NewContextManager(2)
	appendExchange(cm, 1, "q", "a")
	appendExchange(cm, 2, "q", "a")
	if !cm.MaybeReset(1) {
		t.Fatal("expected reset for user 1")
	}
	if cm.Len(2) != 2 {
		t.Fatal("reset of user 1 must not touch user 2")
	}
}

func TestClear(t *testing.T) {
	cm := NewContextManager(20)
	appendExchange(cm, 1, "q", "a")
	cm.Clear(1)
	cm.Clear(99)
	if cm.Len(1) != 0 {
		t.Fatal("expected empty history after Clear")
	}
}

func TestNewContextManager_DefaultLimit(t *testing.T) {
	if got := NewContextManager(0).Limit(); got != DefaultLimit {
		t.Fatalf("expected default limit %d, got %d", DefaultLimit, got)
	}
}

func TestLock_SerializesSameUser(t *testing.T) {
	cm := NewContextManager(20)
	ctx := context.Background()

	unlock, err := cm.Lock(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}

	acquired := make(chan struct{})
	go func() {
		u, err := cm.Lock(ctx, 1)
		if err != nil {
			return
		}
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first is held")
	case <-time.After(50 * time.Millisecond):
	}

	// another user is not blocked
	other, err := cm.Lock(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	other()

	unlock()
	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock not acquired after release")
	}
}

func TestLock_HonoursContext(t *testing.T) {
	cm := NewContextManager(20)
	unlock, err := cm.Lock(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := cm.Lock(ctx, 1); err == nil {
		t.Fatal("expected error when context expires")
	}
}

func TestConcurrentAppend(t *testing.T) {
	cm := NewContextManager(1000)
	var wg sync.WaitGroup
	for u := int64(1); u <= 4; u++ {
		for i := 0; i < 25; i++ {
			wg.Add(1)
			go func(id int64) {
				defer wg.Done()
				unlock, err := cm.Lock(context.Background(), id)
				if err != nil {
					return
				}
				defer unlock()
				appendExchange(cm, id, "q", "a")
			}(u)
		}
	}
	wg.Wait()
	for u := int64(1); u <= 4; u++ {
		if got := cm.Len(u); got != 50 {
			t.Errorf("user %d: expected 50 turns, got %d", u, got)
		}
	}
}
