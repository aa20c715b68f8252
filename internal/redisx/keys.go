package redisx

import "time"

const (
	// Catalog read-through cache: catalog:products, catalog:product:{id},
	// catalog:categories
	KeyProductList = "catalog:products"
	KeyProduct     = "catalog:product:%d"
	KeyCategories  = "catalog:categories"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var TTLDedup = 48 * time.Hour
