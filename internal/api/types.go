package api

import "time"

type Product struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	Image      string    `json:"image,omitempty"`
	CategoryID int64     `json:"category_id,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

type NewProduct struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Image      string `json:"image,omitempty"`
	CategoryID int64  `json:"category_id,omitempty"`
}

type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type NewCategory struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type NewCustomer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Customer struct {
	ID        int64     `json:"customerId"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type OrderItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type NewOrder struct {
	CustomerID int64       `json:"customerId"`
	Items      []OrderItem `json:"items"`
}

// Order is what the server returns; totals and status are computed upstream,
// never trusted from the client.
type Order struct {
	ID          int64       `json:"orderId"`
	CustomerID  int64       `json:"customerId"`
	Items       []OrderItem `json:"items"`
	TotalAmount int64       `json:"totalAmount"`
	Status      Status      `json:"status"`
	CreatedAt   time.Time   `json:"created_at,omitempty"`
	UpdatedAt   time.Time   `json:"updated_at,omitempty"`
}

type Settings struct {
	StoreName     string `json:"store_name"`
	Currency      string `json:"currency"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	DeliveryCents int64  `json:"delivery_cents,omitempty"`
}

type ProductSales struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Sold      int    `json:"sold"`
}

type AnalyticsSummary struct {
	TotalOrders       int            `json:"total_orders"`
	TotalCustomers    int            `json:"total_customers"`
	TotalRevenueCents int64          `json:"total_revenue_cents"`
	TopProducts       []ProductSales `json:"top_products,omitempty"`
}
