package httpx

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/azharstore/storefront-gateway/internal/api"
	"github.com/azharstore/storefront-gateway/internal/recon"
)

// CacheInvalidator lets admin writes punch matching catalog cache entries;
// *catalog.Service satisfies it.
type CacheInvalidator interface {
	InvalidateProduct(ctx context.Context, id int64)
	InvalidateProducts(ctx context.Context)
	InvalidateCategories(ctx context.Context)
}

// OrphanStore is the operator's view of the orphaned-customer ledger;
// *recon.Ledger satisfies it.
type OrphanStore interface {
	Unresolved(ctx context.Context) ([]recon.Orphan, error)
	Resolve(ctx context.Context, customerID int64) (int64, error)
}

// AdminHandler passes the back-office surface through to the upstream API.
// The upstream owns validation and authorization; the gateway only forwards
// and keeps its catalog cache honest. Orphans is optional: without a ledger
// connection the orphan routes answer 503.
type AdminHandler struct {
	API     *api.Client
	Catalog CacheInvalidator
	Orphans OrphanStore
	Logger  *slog.Logger
}

func (h *AdminHandler) Register(r *chi.Mux) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Post("/products", h.createProduct)
		r.Put("/products/{id}", h.updateProduct)
		r.Delete("/products/{id}", h.deleteProduct)

		r.Post("/categories", h.createCategory)
		r.Put("/categories/{id}", h.updateCategory)
		r.Delete("/categories/{id}", h.deleteCategory)

		r.Get("/orders", h.listOrders)
		r.Get("/orders/{id}", h.getOrder)
		r.Patch("/orders/{id}/status", h.updateOrderStatus)

		r.Get("/customers", h.listCustomers)
		r.Get("/customers/{id}", h.getCustomer)

		r.Get("/settings", h.getSettings)
		r.Put("/settings", h.updateSettings)

		r.Get("/analytics/summary", h.analyticsSummary)

		r.Get("/orphans", h.listOrphans)
		r.Post("/orphans/{customerID}/resolve", h.resolveOrphan)
	})
}

func (h *AdminHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var in api.NewProduct
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	p, err := h.API.CreateProduct(r.Context(), in)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	h.Catalog.InvalidateProducts(r.Context())
	writeJSON(w, http.StatusCreated, p)
}

func (h *AdminHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in api.NewProduct
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	p, err := h.API.UpdateProduct(r.Context(), id, in)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	h.Catalog.InvalidateProduct(r.Context(), id)
	writeJSON(w, http.StatusOK, p)
}

func (h *AdminHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.API.DeleteProduct(r.Context(), id); err != nil {
		writeUpstreamError(w, err)
		return
	}
	h.Catalog.InvalidateProduct(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var in api.NewCategory
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	c, err := h.API.CreateCategory(r.Context(), in)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	h.Catalog.InvalidateCategories(r.Context())
	writeJSON(w, http.StatusCreated, c)
}

func (h *AdminHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in api.NewCategory
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	c, err := h.API.UpdateCategory(r.Context(), id, in)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	h.Catalog.InvalidateCategories(r.Context())
	writeJSON(w, http.StatusOK, c)
}

func (h *AdminHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.API.DeleteCategory(r.Context(), id); err != nil {
		writeUpstreamError(w, err)
		return
	}
	h.Catalog.InvalidateCategories(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	os, err := h.API.ListOrders(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, os)
}

func (h *AdminHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	o, err := h.API.GetOrder(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type statusRequest struct {
	Status api.Status `json:"status"`
}

func (h *AdminHandler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	current, err := h.API.GetOrder(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	if !api.CanTransition(current.Status, req.Status) {
		writeError(w, http.StatusConflict, "invalid_transition",
			string(current.Status)+" -> "+string(req.Status))
		return
	}

	o, err := h.API.UpdateOrderStatus(r.Context(), id, req.Status)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *AdminHandler) listCustomers(w http.ResponseWriter, r *http.Request) {
	cs, err := h.API.ListCustomers(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (h *AdminHandler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	c, err := h.API.GetCustomer(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *AdminHandler) getSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.API.GetSettings(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *AdminHandler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var in api.Settings
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	s, err := h.API.UpdateSettings(r.Context(), in)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *AdminHandler) analyticsSummary(w http.ResponseWriter, r *http.Request) {
	a, err := h.API.AnalyticsSummary(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AdminHandler) listOrphans(w http.ResponseWriter, r *http.Request) {
	if h.Orphans == nil {
		writeError(w, http.StatusServiceUnavailable, "ledger_unavailable", "orphan ledger is not configured")
		return
	}
	os, err := h.Orphans.Unresolved(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "ledger_read_failed", err.Error())
		return
	}
	if os == nil {
		os = []recon.Orphan{}
	}
	writeJSON(w, http.StatusOK, os)
}

func (h *AdminHandler) resolveOrphan(w http.ResponseWriter, r *http.Request) {
	if h.Orphans == nil {
		writeError(w, http.StatusServiceUnavailable, "ledger_unavailable", "orphan ledger is not configured")
		return
	}
	id, ok := pathID(w, r, "customerID")
	if !ok {
		return
	}
	n, err := h.Orphans.Resolve(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "ledger_write_failed", err.Error())
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "not_found", "no open orphan for that customer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
