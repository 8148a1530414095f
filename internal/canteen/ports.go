package canteen

import "context"

// Store is the persistence surface the service works against. Lookups return
// (nil, nil) when the row does not exist; the service decides which absences
// are errors.
type Store interface {
	StudentByCardID(ctx context.Context, cardID string) (*Student, error)
	StudentByID(ctx context.Context, id int64) (*Student, error)

	MenuItemByItemID(ctx context.Context, itemID string) (*MenuItem, error)
	MenuItemByID(ctx context.Context, id int64) (*MenuItem, error)
	ListMenu(ctx context.Context, category, search string) ([]MenuItem, error)
	CreateMenuItem(ctx context.Context, mi *MenuItem) error
	UpdateMenuItem(ctx context.Context, itemID string, upd MenuItemUpdate) (*MenuItem, error)
	DeleteMenuItem(ctx context.Context, itemID string) (bool, error)

	// CreateOrder persists the order and its lines and debits the student's
	// balance in one transaction. The debit is conditional on the balance
	// covering the total; when it does not, the whole transaction rolls back
	// and the returned error carries INSUFFICIENT_BALANCE. On success the
	// order's ID is filled in and the remaining balance is returned.
	CreateOrder(ctx context.Context, o *Order, lines []OrderLine) (remaining Paise, err error)

	OrderByID(ctx context.Context, id int64) (*Order, error)
	LinesByOrder(ctx context.Context, orderID int64) ([]OrderLine, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status Status) (*Order, error)
	ListOrders(ctx context.Context) ([]AdminOrder, error)
	Stats(ctx context.Context) (*Stats, error)
}
