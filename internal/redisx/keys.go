package redisx

import "time"

const (
	// Cached order detail JSON: order_detail:{order_id}
	KeyOrderDetail = "order_detail:%d"

	// Menu cache generation counter, bumped on every admin menu write.
	KeyMenuVersion = "menu:ver"

	// Cached menu listing: menu:v{ver}:{category}:{search}
	KeyMenu = "menu:v%d:%s:%s"

	// Latest known order status, maintained by the auditor: order_status:{order_number}
	KeyOrderStatus = "order_status:%s"

	// Consumer dedup: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLDetailCache = 5 * time.Minute
	TTLMenuCache   = 10 * time.Minute
	TTLStatusCache = 24 * time.Hour
	TTLDedup       = 48 * time.Hour
)
