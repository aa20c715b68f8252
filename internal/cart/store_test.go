package cart

import (
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

func TestStoreSessionsAreIsolated(t *testing.T) {
	s := NewStore(time.Hour)
	s.AddItem("a", product(1, 100))
	s.AddItem("b", product(2, 200))

	if got := s.TotalItems("a"); got != 1 {
		t.Fatalf("session a: expected 1 item, got %d", got)
	}
	itemsB := s.Items("b")
	if len(itemsB) != 1 || itemsB[0].Product.ID != 2 {
		t.Fatalf("session b: unexpected items %+v", itemsB)
	}

	s.Clear("a")
	if got := s.TotalItems("b"); got != 1 {
		t.Fatalf("clearing a must not touch b, got %d", got)
	}
}

func TestStoreUnknownSessionReads(t *testing.T) {
	s := NewStore(time.Hour)
	if got := s.TotalItems("nope"); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if !s.Empty("nope") {
		t.Fatal("unknown session must read as empty")
	}
	snap := s.Snapshot("nope")
	if len(snap.Items) != 0 || snap.TotalCents != 0 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestStoreConcurrentAddsMergeToOneLine(t *testing.T) {
	s := NewStore(time.Hour)
	p := product(1, 100)

	const n = 100
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			s.AddItem("sess", p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent adds failed: %v", err)
	}

	items := s.Items("sess")
	if len(items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(items))
	}
	if items[0].Quantity != n {
		t.Fatalf("expected quantity=%d, got %d", n, items[0].Quantity)
	}
}

func TestStoreSubscribeSeesMutations(t *testing.T) {
	s := NewStore(time.Hour)
	ch, cancel := s.Subscribe("sess")
	defer cancel()

	s.AddItem("sess", product(1, 250))

	select {
	case snap := <-ch:
		if snap.TotalItems != 1 || snap.TotalCents != 250 {
			t.Fatalf("unexpected snapshot %+v", snap)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}

	cancel()
	if _, open := <-ch; open {
		t.Fatal("channel must be closed after cancel")
	}
}

func TestStoreSubscribeOtherSessionSilent(t *testing.T) {
	s := NewStore(time.Hour)
	ch, cancel := s.Subscribe("watcher")
	defer cancel()

	s.AddItem("someone-else", product(1, 100))

	select {
	case snap := <-ch:
		t.Fatalf("unexpected snapshot for other session: %+v", snap)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStoreSweepEvictsIdleCarts(t *testing.T) {
	s := NewStore(10 * time.Millisecond)
	s.AddItem("old", product(1, 100))

	time.Sleep(20 * time.Millisecond)
	s.sweep(time.Now())

	if got := s.TotalItems("old"); got != 0 {
		t.Fatalf("expected evicted cart, got %d items", got)
	}
}
