package history

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/mindfort-ai/bulwark/pkg/risk"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisStore(mr.Addr(), "", 0, ttl)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisPing(t *testing.T) {
	store, _ := newRedisStore(t, 0)
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
}

func TestRedisEmptyWindow(t *testing.T) {
	store, _ := newRedisStore(t, 0)

	got, err := store.Window(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("Window() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Window() = %v, want empty", texts(got))
	}
}

func TestRedisAppendPreservesOrder(t *testing.T) {
	store, _ := newRedisStore(t, 0)
	ctx := context.Background()

	entries := []risk.ConversationEntry{
		entry("first", 0),
		entry("second", 1),
		entry("third", 2),
	}
	for _, e := range entries {
		if err := store.Append(ctx, "conv", e); err != nil {
			t.Fatalf("Append(%q) error = %v", e.Text, err)
		}
	}

	got, err := store.Window(ctx, "conv")
	if err != nil {
		t.Fatalf("Window() error = %v", err)
	}
	if !reflect.DeepEqual(texts(got), texts(entries)) {
		t.Errorf("Window() order = %v, want %v", texts(got), texts(entries))
	}
	for i := range got {
		if !got[i].Timestamp.Equal(entries[i].Timestamp) {
			t.Errorf("entry %d timestamp = %v, want %v", i, got[i].Timestamp, entries[i].Timestamp)
		}
	}
}

func TestRedisTrimsToWindow(t *testing.T) {
	store, _ := newRedisStore(t, 0)
	ctx := context.Background()

	total := risk.HistoryWindow + 4
	for i := 0; i < total; i++ {
		if err := store.Append(ctx, "conv", entry(fmt.Sprintf("msg-%d", i), i)); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	got, err := store.Window(ctx, "conv")
	if err != nil {
		t.Fatalf("Window() error = %v", err)
	}
	if len(got) != risk.HistoryWindow {
		t.Fatalf("Window() kept %d entries, want %d", len(got), risk.HistoryWindow)
	}
	wantFirst := fmt.Sprintf("msg-%d", total-risk.HistoryWindow)
	if got[0].Text != wantFirst {
		t.Errorf("oldest retained entry = %q, want %q", got[0].Text, wantFirst)
	}
}

func TestRedisConversationsIsolated(t *testing.T) {
	store, _ := newRedisStore(t, 0)
	ctx := context.Background()

	if err := store.Append(ctx, "alice", entry("from alice", 0)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := store.Append(ctx, "bob", entry("from bob", 1)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	alice, _ := store.Window(ctx, "alice")
	if len(alice) != 1 || alice[0].Text != "from alice" {
		t.Errorf("alice window = %v", texts(alice))
	}
}

func TestRedisClear(t *testing.T) {
	store, _ := newRedisStore(t, 0)
	ctx := context.Background()

	if err := store.Append(ctx, "conv", entry("to be forgotten", 0)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := store.Clear(ctx, "conv"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	got, err := store.Window(ctx, "conv")
	if err != nil {
		t.Fatalf("Window() after Clear error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Window() after Clear = %v, want empty", texts(got))
	}
}

func TestRedisWindowExpires(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	if err := store.Append(ctx, "conv", entry("short lived", 0)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	mr.FastForward(2 * time.Minute)

	got, err := store.Window(ctx, "conv")
	if err != nil {
		t.Fatalf("Window() after expiry error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Window() after expiry = %v, want empty", texts(got))
	}
}

func TestRedisZeroTTLNeverExpires(t *testing.T) {
	store, mr := newRedisStore(t, 0)
	ctx := context.Background()

	if err := store.Append(ctx, "conv", entry("durable", 0)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	mr.FastForward(240 * time.Hour)

	got, err := store.Window(ctx, "conv")
	if err != nil {
		t.Fatalf("Window() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Window() = %v, want the original entry", texts(got))
	}
}

func TestRedisSkipsCorruptEntries(t *testing.T) {
	store, _ := newRedisStore(t, 0)
	ctx := context.Background()

	// Simulate a foreign or truncated write landing in the list.
	if err := store.client.RPush(ctx, keyPrefix+"conv", "not json at all").Err(); err != nil {
		t.Fatalf("seed corrupt entry: %v", err)
	}
	if err := store.Append(ctx, "conv", entry("still readable", 1)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	got, err := store.Window(ctx, "conv")
	if err != nil {
		t.Fatalf("Window() error = %v", err)
	}
	if len(got) != 1 || got[0].Text != "still readable" {
		t.Errorf("Window() = %v, want only the decodable entry", texts(got))
	}
}
