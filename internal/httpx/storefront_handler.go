package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/azharstore/storefront-gateway/internal/api"
	"github.com/azharstore/storefront-gateway/internal/cart"
	"github.com/azharstore/storefront-gateway/internal/checkout"
)

// ProductSource is what the storefront reads the catalog through;
// *catalog.Service satisfies it.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]api.Product, error)
	GetProduct(ctx context.Context, id int64) (api.Product, error)
	ListCategories(ctx context.Context) ([]api.Category, error)
}

// CheckoutRunner runs the two-phase checkout; *checkout.Flow satisfies it.
type CheckoutRunner interface {
	Submit(ctx context.Context, sessionID string, info checkout.CustomerInfo) (checkout.Result, error)
}

type StorefrontHandler struct {
	Carts   *cart.Store
	Catalog ProductSource
	Flow    CheckoutRunner
	Logger  *slog.Logger
}

func (h *StorefrontHandler) Register(r *chi.Mux) {
	r.Group(func(g chi.Router) {
		g.Use(middleware.Timeout(requestTimeout))

		g.Get("/products", h.listProducts)
		g.Get("/products/{id}", h.getProduct)
		g.Get("/categories", h.listCategories)

		g.Get("/cart", h.getCart)
		g.Post("/cart/items", h.addCartItem)
		g.Patch("/cart/items/{productID}", h.updateCartItem)
		g.Delete("/cart/items/{productID}", h.removeCartItem)
		g.Delete("/cart", h.clearCart)

		g.Post("/checkout", h.submitCheckout)
	})

	// SSE stream lives as long as the client does, so no timeout here.
	r.Get("/cart/events", h.cartEvents)
}

func (h *StorefrontHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Catalog.ListProducts(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *StorefrontHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.Catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *StorefrontHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	cs, err := h.Catalog.ListCategories(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (h *StorefrontHandler) getCart(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)
	writeJSON(w, http.StatusOK, h.Carts.Snapshot(sid))
}

type addItemRequest struct {
	ProductID int64 `json:"product_id"`
}

func (h *StorefrontHandler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.ProductID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	// The cart stores a snapshot, so resolve the product once at add time.
	p, err := h.Catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	sid := sessionID(w, r)
	snap := h.Carts.AddItem(sid, cart.Product{
		ID:         p.ID,
		Name:       p.Name,
		PriceCents: p.PriceCents,
		Image:      p.Image,
		CategoryID: p.CategoryID,
	})
	writeJSON(w, http.StatusOK, snap)
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *StorefrontHandler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "productID")
	if !ok {
		return
	}
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	sid := sessionID(w, r)
	writeJSON(w, http.StatusOK, h.Carts.SetQuantity(sid, id, req.Quantity))
}

func (h *StorefrontHandler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "productID")
	if !ok {
		return
	}
	sid := sessionID(w, r)
	writeJSON(w, http.StatusOK, h.Carts.RemoveItem(sid, id))
}

func (h *StorefrontHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)
	writeJSON(w, http.StatusOK, h.Carts.Clear(sid))
}

// cartEvents streams cart snapshots over SSE so open storefront views follow
// mutations made from any tab of the same session.
func (h *StorefrontHandler) cartEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported", "")
		return
	}
	sid := sessionID(w, r)

	ch, cancel := h.Carts.Subscribe(sid)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	// initial state so the client does not wait for the first mutation
	writeSSE(w, h.Carts.Snapshot(sid))
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case snap, open := <-ch:
			if !open {
				return
			}
			writeSSE(w, snap)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "data: %s\n\n", b)
}

type checkoutResponse struct {
	Outcome    string     `json:"outcome"`
	Order      *api.Order `json:"order,omitempty"`
	CustomerID int64      `json:"customer_id,omitempty"`
	Message    string     `json:"message,omitempty"`
}

func (h *StorefrontHandler) submitCheckout(w http.ResponseWriter, r *http.Request) {
	var info checkout.CustomerInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	sid := sessionID(w, r)

	res, err := h.Flow.Submit(r.Context(), sid, info)
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, http.StatusConflict, "empty_cart", "cannot check out an empty cart")
		return
	case errors.Is(err, checkout.ErrMissingContact):
		writeError(w, http.StatusBadRequest, "missing_contact", err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "checkout_failed", err.Error())
		return
	}

	switch res.Outcome {
	case checkout.OutcomeCompleted:
		writeJSON(w, http.StatusCreated, checkoutResponse{
			Outcome:    "completed",
			Order:      &res.Order,
			CustomerID: res.CustomerID,
		})
	case checkout.OutcomeCustomerCreateFailed:
		writeJSON(w, upstreamStatus(res.Err), checkoutResponse{
			Outcome: "customer_create_failed",
			Message: res.Err.Error(),
		})
	case checkout.OutcomeOrderSubmitFailed:
		writeJSON(w, upstreamStatus(res.Err), checkoutResponse{
			Outcome:    "order_submit_failed",
			CustomerID: res.CustomerID,
			Message:    res.Err.Error(),
		})
	}
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", "numeric id required")
		return 0, false
	}
	return id, true
}

// upstreamStatus maps the client error taxonomy onto gateway responses:
// upstream rejections stay 4xx, everything else is a bad gateway.
func upstreamStatus(err error) int {
	if api.IsValidation(err) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}

func writeUpstreamError(w http.ResponseWriter, err error) {
	var ae *api.Error
	if errors.As(err, &ae) {
		switch {
		case ae.Kind == api.KindValidation && ae.Status == http.StatusNotFound:
			writeError(w, http.StatusNotFound, "not_found", ae.Message)
		case ae.Kind == api.KindValidation:
			writeError(w, http.StatusUnprocessableEntity, "upstream_rejected", ae.Message)
		default:
			writeError(w, http.StatusBadGateway, "upstream_unavailable", ae.Message)
		}
		return
	}
	writeError(w, http.StatusInternalServerError, "internal", err.Error())
}
