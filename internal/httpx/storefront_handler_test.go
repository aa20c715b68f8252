package httpx

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/azharstore/storefront-gateway/internal/api"
	"github.com/azharstore/storefront-gateway/internal/cart"
	"github.com/azharstore/storefront-gateway/internal/checkout"
)

type fakeCatalog struct {
	products map[int64]api.Product
}

func (f *fakeCatalog) ListProducts(ctx context.Context) ([]api.Product, error) {
	out := make([]api.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeCatalog) GetProduct(ctx context.Context, id int64) (api.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return api.Product{}, &api.Error{Kind: api.KindValidation, Status: 404, Message: "not found"}
}

func (f *fakeCatalog) ListCategories(ctx context.Context) ([]api.Category, error) {
	return []api.Category{{ID: 1, Name: "all"}}, nil
}

type fakeUpstream struct {
	orderErr error
}

func (f *fakeUpstream) CreateCustomer(ctx context.Context, in api.NewCustomer) (api.Customer, error) {
	return api.Customer{ID: 7}, nil
}

func (f *fakeUpstream) CreateOrder(ctx context.Context, in api.NewOrder) (api.Order, error) {
	if f.orderErr != nil {
		return api.Order{}, f.orderErr
	}
	return api.Order{ID: 500, CustomerID: in.CustomerID, Items: in.Items, Status: api.StatusPending}, nil
}

func newTestServer(up *fakeUpstream) (*httptest.Server, *cart.Store) {
	carts := cart.NewStore(time.Hour)
	catalog := &fakeCatalog{products: map[int64]api.Product{
		1: {ID: 1, Name: "keyboard", PriceCents: 1000},
		2: {ID: 2, Name: "mouse", PriceCents: 500},
	}}
	flow := &checkout.Flow{Upstream: up, Carts: carts}

	r := NewRouter()
	h := &StorefrontHandler{Carts: carts, Catalog: catalog, Flow: flow}
	h.Register(r)
	return httptest.NewServer(r), carts
}

// doJSON issues a request pinned to one session cookie.
func doJSON(t *testing.T, srv *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "test-session"})
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decodeSnapshot(t *testing.T, resp *http.Response) cart.Snapshot {
	t.Helper()
	defer resp.Body.Close()
	var snap cart.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	return snap
}

func TestCartEndpoints(t *testing.T) {
	srv, _ := newTestServer(&fakeUpstream{})
	defer srv.Close()

	t.Run("add resolves the product snapshot", func(t *testing.T) {
		resp := doJSON(t, srv, "POST", "/cart/items", map[string]int64{"product_id": 1})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d", resp.StatusCode)
		}
		snap := decodeSnapshot(t, resp)
		if snap.TotalItems != 1 || snap.TotalCents != 1000 {
			t.Fatalf("unexpected snapshot %+v", snap)
		}
		if snap.Items[0].Product.Name != "keyboard" {
			t.Fatalf("expected product snapshot, got %+v", snap.Items[0])
		}
	})

	t.Run("add unknown product -> 404", func(t *testing.T) {
		resp := doJSON(t, srv, "POST", "/cart/items", map[string]int64{"product_id": 99})
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("status %d", resp.StatusCode)
		}
	})

	t.Run("patch quantity and remove", func(t *testing.T) {
		resp := doJSON(t, srv, "PATCH", "/cart/items/1", map[string]int{"quantity": 4})
		snap := decodeSnapshot(t, resp)
		if snap.TotalItems != 4 {
			t.Fatalf("expected quantity 4, got %+v", snap)
		}

		resp = doJSON(t, srv, "DELETE", "/cart/items/1", nil)
		snap = decodeSnapshot(t, resp)
		if snap.TotalItems != 0 {
			t.Fatalf("expected empty cart, got %+v", snap)
		}
	})

	t.Run("clear", func(t *testing.T) {
		doJSON(t, srv, "POST", "/cart/items", map[string]int64{"product_id": 2}).Body.Close()
		resp := doJSON(t, srv, "DELETE", "/cart", nil)
		snap := decodeSnapshot(t, resp)
		if snap.TotalItems != 0 {
			t.Fatalf("expected cleared cart, got %+v", snap)
		}
	})
}

func TestCheckoutEndpoint(t *testing.T) {
	contact := map[string]string{"name": "A", "phone": "555", "address": "X"}

	t.Run("empty cart -> 409", func(t *testing.T) {
		srv, _ := newTestServer(&fakeUpstream{})
		defer srv.Close()

		resp := doJSON(t, srv, "POST", "/checkout", contact)
		resp.Body.Close()
		if resp.StatusCode != http.StatusConflict {
			t.Fatalf("status %d", resp.StatusCode)
		}
	})

	t.Run("completed clears the cart", func(t *testing.T) {
		srv, carts := newTestServer(&fakeUpstream{})
		defer srv.Close()

		doJSON(t, srv, "POST", "/cart/items", map[string]int64{"product_id": 1}).Body.Close()
		resp := doJSON(t, srv, "POST", "/checkout", contact)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status %d", resp.StatusCode)
		}

		var body struct {
			Outcome string    `json:"outcome"`
			Order   api.Order `json:"order"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body.Outcome != "completed" || body.Order.ID != 500 {
			t.Fatalf("unexpected body %+v", body)
		}
		if !carts.Empty("test-session") {
			t.Fatal("cart must be empty after completed checkout")
		}
	})

	t.Run("order rejection reports the orphan and keeps the cart", func(t *testing.T) {
		srv, carts := newTestServer(&fakeUpstream{
			orderErr: &api.Error{Kind: api.KindValidation, Status: 400, Message: "bad order"},
		})
		defer srv.Close()

		doJSON(t, srv, "POST", "/cart/items", map[string]int64{"product_id": 1}).Body.Close()
		resp := doJSON(t, srv, "POST", "/checkout", contact)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("status %d", resp.StatusCode)
		}

		var body struct {
			Outcome    string `json:"outcome"`
			CustomerID int64  `json:"customer_id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body.Outcome != "order_submit_failed" || body.CustomerID != 7 {
			t.Fatalf("unexpected body %+v", body)
		}
		if carts.Empty("test-session") {
			t.Fatal("cart must survive a failed checkout")
		}
	})
}

func TestCartEventsStreamOutlivesRequestTimeout(t *testing.T) {
	old := requestTimeout
	requestTimeout = 50 * time.Millisecond
	defer func() { requestTimeout = old }()

	srv, carts := newTestServer(&fakeUpstream{})
	defer srv.Close()

	req, err := http.NewRequest("GET", srv.URL+"/cart/events", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "test-session"})
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}

	br := bufio.NewReader(resp.Body)
	if snap := readSSE(t, br); snap.TotalItems != 0 {
		t.Fatalf("expected empty initial snapshot, got %+v", snap)
	}

	// mutate well past the request timeout; the stream must still be live
	time.Sleep(5 * requestTimeout)
	carts.AddItem("test-session", cart.Product{ID: 1, Name: "keyboard", PriceCents: 1000})

	if snap := readSSE(t, br); snap.TotalItems != 1 {
		t.Fatalf("expected the mutation on the stream, got %+v", snap)
	}
}

func readSSE(t *testing.T, br *bufio.Reader) cart.Snapshot {
	t.Helper()
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			t.Fatalf("stream closed: %v", err)
		}
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var snap cart.Snapshot
		if err := json.Unmarshal([]byte(strings.TrimSpace(strings.TrimPrefix(line, "data: "))), &snap); err != nil {
			t.Fatal(err)
		}
		return snap
	}
}

func TestSessionCookieMinted(t *testing.T) {
	srv, _ := newTestServer(&fakeUpstream{})
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/cart")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			return
		}
	}
	t.Fatal("expected a session cookie on first contact")
}

func TestProductEndpoints(t *testing.T) {
	srv, _ := newTestServer(&fakeUpstream{})
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/products/2")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var p api.Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	if p.Name != "mouse" {
		t.Fatalf("unexpected product %+v", p)
	}
}
