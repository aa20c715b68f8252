package checkout

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/azharstore/storefront-gateway/internal/api"
	"github.com/azharstore/storefront-gateway/internal/cart"
	"github.com/azharstore/storefront-gateway/internal/events"
)

// Upstream is the slice of the AzharStore API the flow uses; *api.Client
// satisfies it.
type Upstream interface {
	CreateCustomer(ctx context.Context, in api.NewCustomer) (api.Customer, error)
	CreateOrder(ctx context.Context, in api.NewOrder) (api.Order, error)
}

type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Outcome discriminates the two-phase result so callers can tell a failure
// before any upstream write from one that left an orphaned customer behind.
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeCustomerCreateFailed
	OutcomeOrderSubmitFailed
)

type Result struct {
	Outcome    Outcome
	Order      api.Order // set when completed
	CustomerID int64     // set once phase one succeeded; the orphan on OutcomeOrderSubmitFailed
	Err        error     // the phase error for the failed outcomes
}

var (
	// ErrEmptyCart: submitting an empty cart is rejected at the flow level,
	// not just by a disabled button in the UI.
	ErrEmptyCart = errors.New("checkout: cart is empty")

	ErrMissingContact = errors.New("checkout: name, phone and address are required")
)

// Flow turns the current cart into a submitted order: create the customer,
// then the order, strictly in that sequence. Neither call is retried and the
// customer is never rolled back — a phase-two failure is reported with the
// orphaned customer id and announced on the orphaned topic.
type Flow struct {
	Upstream Upstream
	Carts    *cart.Store
	Events   *events.Emitter
	Logger   *slog.Logger
}

func (f *Flow) Submit(ctx context.Context, sessionID string, info CustomerInfo) (Result, error) {
	if strings.TrimSpace(info.Name) == "" || strings.TrimSpace(info.Phone) == "" || strings.TrimSpace(info.Address) == "" {
		return Result{}, ErrMissingContact
	}

	// Snapshot the lines up front; the cart stays untouched until the order
	// is accepted upstream.
	items := f.Carts.Items(sessionID)
	if len(items) == 0 {
		return Result{}, ErrEmptyCart
	}

	customer, err := f.Upstream.CreateCustomer(ctx, api.NewCustomer{
		Name:    info.Name,
		Phone:   info.Phone,
		Address: info.Address,
	})
	if err != nil {
		f.log().Warn("customer creation failed", "session_id", sessionID, "error", err)
		return Result{Outcome: OutcomeCustomerCreateFailed, Err: err}, nil
	}

	order, err := f.Upstream.CreateOrder(ctx, api.NewOrder{
		CustomerID: customer.ID,
		Items:      lineItems(items),
	})
	if err != nil {
		f.log().Warn("order submission failed, customer orphaned",
			"session_id", sessionID, "customer_id", customer.ID, "error", err)
		f.Events.EmitOrphaned(events.CheckoutOrphanedPayload{
			SessionID:  sessionID,
			CustomerID: customer.ID,
			Reason:     err.Error(),
		})
		return Result{Outcome: OutcomeOrderSubmitFailed, CustomerID: customer.ID, Err: err}, nil
	}

	totalCents := totalOf(items)
	f.Carts.Clear(sessionID)
	f.Events.EmitCompleted(events.CheckoutCompletedPayload{
		SessionID:  sessionID,
		OrderID:    order.ID,
		CustomerID: customer.ID,
		Items:      eventItems(items),
		TotalCents: totalCents,
	})
	f.log().Info("checkout completed",
		"session_id", sessionID, "order_id", order.ID, "customer_id", customer.ID)

	return Result{Outcome: OutcomeCompleted, Order: order, CustomerID: customer.ID}, nil
}

func (f *Flow) log() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.Default()
}

// lineItems sends product id and quantity only; price is authoritative
// server-side.
func lineItems(items []cart.Item) []api.OrderItem {
	out := make([]api.OrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, api.OrderItem{ProductID: it.Product.ID, Quantity: it.Quantity})
	}
	return out
}

func eventItems(items []cart.Item) []events.LineItem {
	out := make([]events.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, events.LineItem{ProductID: it.Product.ID, Quantity: it.Quantity})
	}
	return out
}

func totalOf(items []cart.Item) int64 {
	var total int64
	for _, it := range items {
		total += it.Product.PriceCents * int64(it.Quantity)
	}
	return total
}
