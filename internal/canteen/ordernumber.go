package canteen

import (
	"fmt"
	"math/rand"
	"time"
)

const orderNumberPrefix = "ORD"

// NewOrderNumber returns "ORD-YYYYMMDD-NNNN" with NNNN uniform in
// [1000, 9999]. Not unique by construction: the unique index on
// orders.order_number is the backstop, and a collision surfaces as its own
// persistence error instead of a silent overwrite.
func NewOrderNumber(now time.Time) string {
	suffix := 1000 + rand.Intn(9000)
	return fmt.Sprintf("%s-%s-%d", orderNumberPrefix, now.UTC().Format("20060102"), suffix)
}
