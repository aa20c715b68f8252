package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/azharstore/storefront-gateway/internal/recon"
)

type fakeOrphans struct {
	open     []recon.Orphan
	resolved []int64
}

func (f *fakeOrphans) Unresolved(ctx context.Context) ([]recon.Orphan, error) {
	return f.open, nil
}

func (f *fakeOrphans) Resolve(ctx context.Context, customerID int64) (int64, error) {
	for i, o := range f.open {
		if o.CustomerID == customerID {
			f.open = append(f.open[:i], f.open[i+1:]...)
			f.resolved = append(f.resolved, customerID)
			return 1, nil
		}
	}
	return 0, nil
}

func newAdminServer(orphans OrphanStore) *httptest.Server {
	r := NewRouter()
	h := &AdminHandler{Orphans: orphans}
	h.Register(r)
	return httptest.NewServer(r)
}

func TestOrphanRoutes(t *testing.T) {
	store := &fakeOrphans{open: []recon.Orphan{
		{ID: 1, CustomerID: 77, SessionID: "sess", Reason: "order rejected", Status: recon.StatusOpen},
	}}
	srv := newAdminServer(store)
	defer srv.Close()

	t.Run("list open orphans", func(t *testing.T) {
		resp, err := srv.Client().Get(srv.URL + "/admin/orphans")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d", resp.StatusCode)
		}
		var got []recon.Orphan
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].CustomerID != 77 {
			t.Fatalf("unexpected orphans %+v", got)
		}
	})

	t.Run("resolve closes the orphan", func(t *testing.T) {
		resp, err := srv.Client().Post(srv.URL+"/admin/orphans/77/resolve", "application/json", nil)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("status %d", resp.StatusCode)
		}
		if len(store.resolved) != 1 || store.resolved[0] != 77 {
			t.Fatalf("expected customer 77 resolved, got %v", store.resolved)
		}
	})

	t.Run("list after resolve is an empty array", func(t *testing.T) {
		resp, err := srv.Client().Get(srv.URL + "/admin/orphans")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		var got []recon.Orphan
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("expected [], got %+v", got)
		}
	})

	t.Run("resolve unknown customer -> 404", func(t *testing.T) {
		resp, err := srv.Client().Post(srv.URL+"/admin/orphans/999/resolve", "application/json", nil)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("status %d", resp.StatusCode)
		}
	})
}

func TestOrphanRoutesWithoutLedger(t *testing.T) {
	srv := newAdminServer(nil)
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/admin/orphans")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status %d", resp.StatusCode)
	}

	resp, err = srv.Client().Post(srv.URL+"/admin/orphans/77/resolve", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status %d", resp.StatusCode)
	}
}
