package canteen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

type PlaceOrderRequest struct {
	CardID string          `json:"cardId"`
	Items  []RequestedItem `json:"items"`
}

type RequestedItem struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// Receipt is the success payload of order placement.
type Receipt struct {
	OrderID          int64         `json:"orderId"`
	OrderNumber      string        `json:"orderNumber"`
	StudentName      string        `json:"studentName"`
	CardID           string        `json:"cardId"`
	Items            []ReceiptItem `json:"items"`
	TotalAmount      Paise         `json:"totalAmount"`
	PreviousBalance  Paise         `json:"previousBalance"`
	RemainingBalance Paise         `json:"remainingBalance"`
	Status           Status        `json:"status"`
	CreatedAt        time.Time     `json:"createdAt"`

	// Lines carries the committed lines for event publication; not part of
	// the response body.
	Lines []OrderLine `json:"-"`
}

type ReceiptItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    Paise  `json:"price"`
	Subtotal Paise  `json:"subtotal"`
}

// OrderDetail is the denormalized read-side view of one order.
type OrderDetail struct {
	OrderID     int64         `json:"orderId"`
	OrderNumber string        `json:"orderNumber"`
	Student     DetailStudent `json:"student"`
	Items       []DetailItem  `json:"items"`
	TotalAmount Paise         `json:"totalAmount"`
	Status      Status        `json:"status"`
	ReceiptNote *string       `json:"receiptNote"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type DetailStudent struct {
	StudentID string `json:"studentId"`
	Name      string `json:"studentName"`
	CardID    string `json:"cardId"`
}

type DetailItem struct {
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	PriceAtOrder Paise  `json:"priceAtOrder"`
	Subtotal     Paise  `json:"subtotal"`
	Category     string `json:"category"`
}

type CreateMenuItemRequest struct {
	Name        string  `json:"name"`
	Price       Paise   `json:"price"`
	Category    string  `json:"category"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
}

type Service struct {
	store Store
	log   *slog.Logger

	// overridable in tests
	now            func() time.Time
	newOrderNumber func(time.Time) string
	newItemID      func(time.Time) string
}

func NewService(store Store, log *slog.Logger) *Service {
	return &Service{
		store:          store,
		log:            log,
		now:            time.Now,
		newOrderNumber: NewOrderNumber,
		newItemID:      newItemID,
	}
}

func newItemID(now time.Time) string {
	return fmt.Sprintf("ITEM%d", now.UnixMilli())
}

// maxLineQuantity bounds a single cart line. Anything larger is a typo or
// abuse, and the bound keeps the paise arithmetic far from int64 limits.
const maxLineQuantity = 100

// PlaceOrder validates the cart against live menu data, prices it, debits the
// student's balance and commits the order atomically. Validation is
// fail-fast: the first violation wins, in the order the items were submitted.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Receipt, error) {
	cardID := strings.TrimSpace(req.CardID)
	if cardID == "" {
		return nil, errMissingCardID()
	}
	if len(req.Items) == 0 {
		return nil, errEmptyOrder()
	}

	student, err := s.store.StudentByCardID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, errStudentNotFound()
	}

	type pricedLine struct {
		item     *MenuItem
		quantity int
		subtotal Paise
	}
	priced := make([]pricedLine, 0, len(req.Items))
	var total Paise

	for _, it := range req.Items {
		if it.Quantity <= 0 || it.Quantity > maxLineQuantity {
			return nil, errInvalidQuantity(it.ItemID)
		}
		mi, err := s.store.MenuItemByItemID(ctx, it.ItemID)
		if err != nil {
			return nil, err
		}
		if mi == nil {
			return nil, errMenuItemNotFound(it.ItemID)
		}
		if !mi.Available {
			return nil, errMenuItemUnavailable(mi.Name)
		}
		// Price snapshot: this same read feeds the line's frozen unit price
		// and the subtotal, never a re-fetched value.
		subtotal := mi.Price * Paise(it.Quantity)
		// A wrapped subtotal or running total would turn the debit below
		// into a credit; the total must stay strictly positive.
		if subtotal/Paise(it.Quantity) != mi.Price || subtotal <= 0 {
			return nil, errInvalidQuantity(it.ItemID)
		}
		total += subtotal
		if total <= 0 {
			return nil, errInvalidQuantity(it.ItemID)
		}
		priced = append(priced, pricedLine{item: mi, quantity: it.Quantity, subtotal: subtotal})
	}

	if student.Balance < total {
		return nil, errInsufficientBalance(student.Balance, total)
	}

	now := s.now().UTC()
	order := &Order{
		StudentID:   student.ID,
		OrderNumber: s.newOrderNumber(now),
		Total:       total,
		Status:      StatusConfirmed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	lines := make([]OrderLine, 0, len(priced))
	for _, pl := range priced {
		lines = append(lines, OrderLine{
			MenuItemID:   pl.item.ID,
			Quantity:     pl.quantity,
			PriceAtOrder: pl.item.Price,
			CreatedAt:    now,
		})
	}

	// The conditional debit inside CreateOrder is the authoritative balance
	// check: a concurrent order may have drained the balance since the read
	// above, and then the whole transaction rolls back.
	remaining, err := s.store.CreateOrder(ctx, order, lines)
	if err != nil {
		return nil, err
	}
	previous := remaining + total

	receiptItems := make([]ReceiptItem, 0, len(priced))
	for _, pl := range priced {
		receiptItems = append(receiptItems, ReceiptItem{
			Name:     pl.item.Name,
			Quantity: pl.quantity,
			Price:    pl.item.Price,
			Subtotal: pl.subtotal,
		})
	}

	s.log.Info("order placed",
		"order_number", order.OrderNumber,
		"card_id", student.CardID,
		"total", total.String(),
		"remaining_balance", remaining.String(),
	)

	return &Receipt{
		OrderID:          order.ID,
		OrderNumber:      order.OrderNumber,
		StudentName:      student.Name,
		CardID:           student.CardID,
		Items:            receiptItems,
		TotalAmount:      total,
		PreviousBalance:  previous,
		RemainingBalance: remaining,
		Status:           order.Status,
		CreatedAt:        order.CreatedAt,
		Lines:            lines,
	}, nil
}

// OrderDetail reconstructs one order by joining the ledger back to the
// student and menu tables. Lines whose menu item was deleted since the order
// was placed are dropped from the output rather than failing the whole read.
func (s *Service) OrderDetail(ctx context.Context, orderID int64) (*OrderDetail, error) {
	if orderID <= 0 {
		return nil, ErrInvalidOrderID()
	}
	order, err := s.store.OrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errOrderNotFound()
	}

	student, err := s.store.StudentByID(ctx, order.StudentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		// Unreachable absent external data corruption: a committed order
		// always had a valid student at creation time.
		return nil, errStudentNotFoundForOrder()
	}

	lines, err := s.store.LinesByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	items := make([]DetailItem, 0, len(lines))
	for _, line := range lines {
		mi, err := s.store.MenuItemByID(ctx, line.MenuItemID)
		if err != nil {
			return nil, err
		}
		if mi == nil {
			continue // lossy join: menu item deleted after the order
		}
		items = append(items, DetailItem{
			Name:         mi.Name,
			Quantity:     line.Quantity,
			PriceAtOrder: line.PriceAtOrder,
			Subtotal:     line.PriceAtOrder * Paise(line.Quantity),
			Category:     mi.Category,
		})
	}

	return &OrderDetail{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Student: DetailStudent{
			StudentID: student.StudentID,
			Name:      student.Name,
			CardID:    student.CardID,
		},
		Items:       items,
		TotalAmount: order.Total,
		Status:      order.Status,
		ReceiptNote: order.ReceiptNote,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}, nil
}

// StudentByCard resolves a student for the storefront balance check.
func (s *Service) StudentByCard(ctx context.Context, cardID string) (*Student, error) {
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return nil, errMissingCardID()
	}
	student, err := s.store.StudentByCardID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, errStudentNotFound()
	}
	return student, nil
}

// Menu lists available items, optionally filtered by category equality and a
// name/description search term, ordered by category then name.
func (s *Service) Menu(ctx context.Context, category, search string) ([]MenuItem, error) {
	return s.store.ListMenu(ctx, strings.TrimSpace(category), strings.TrimSpace(search))
}

// MenuByCategory lists available items for one category, case-insensitively.
func (s *Service) MenuByCategory(ctx context.Context, category string) ([]MenuItem, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return nil, &WireError{HTTPStatus: 400, Code: CodeMissingCategory, Message: "Category is required"}
	}
	return s.store.ListMenu(ctx, category, "")
}

func (s *Service) CreateMenuItem(ctx context.Context, req CreateMenuItemRequest) (*MenuItem, error) {
	if req.Name == "" || req.Price <= 0 || req.Category == "" {
		return nil, &WireError{HTTPStatus: 400, Code: CodeMissingFields, Message: "Name, price, and category are required"}
	}
	now := s.now().UTC()
	mi := &MenuItem{
		ItemID:      s.newItemID(now),
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Available:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateMenuItem(ctx, mi); err != nil {
		return nil, err
	}
	s.log.Info("menu item created", "item_id", mi.ItemID, "name", mi.Name, "price", mi.Price.String())
	return mi, nil
}

func (s *Service) UpdateMenuItem(ctx context.Context, itemID string, upd MenuItemUpdate) (*MenuItem, error) {
	mi, err := s.store.UpdateMenuItem(ctx, itemID, upd)
	if err != nil {
		return nil, err
	}
	if mi == nil {
		return nil, &WireError{HTTPStatus: 404, Code: CodeMenuItemNotFound, Message: "Menu item not found"}
	}
	return mi, nil
}

func (s *Service) DeleteMenuItem(ctx context.Context, itemID string) error {
	deleted, err := s.store.DeleteMenuItem(ctx, itemID)
	if err != nil {
		return err
	}
	if !deleted {
		return &WireError{HTTPStatus: 404, Code: CodeMenuItemNotFound, Message: "Menu item not found"}
	}
	s.log.Info("menu item deleted", "item_id", itemID)
	return nil
}

func (s *Service) ListOrders(ctx context.Context) ([]AdminOrder, error) {
	return s.store.ListOrders(ctx)
}

// UpdateOrderStatus sets an order's status. The status is a free-form
// non-empty string; legal-transition validation is deliberately absent.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*Order, error) {
	if orderID <= 0 {
		return nil, ErrInvalidOrderID()
	}
	if strings.TrimSpace(status) == "" {
		return nil, &WireError{HTTPStatus: 400, Code: CodeMissingStatus, Message: "Status is required"}
	}
	order, err := s.store.UpdateOrderStatus(ctx, orderID, Status(status))
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errOrderNotFound()
	}
	s.log.Info("order status updated", "order_number", order.OrderNumber, "status", status)
	return order, nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.store.Stats(ctx)
}
