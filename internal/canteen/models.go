package canteen

import "time"

type Student struct {
	ID        int64     `json:"id"`
	CardID    string    `json:"cardId"`
	StudentID string    `json:"studentId"`
	Name      string    `json:"studentName"`
	Balance   Paise     `json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type MenuItem struct {
	ID          int64     `json:"id"`
	ItemID      string    `json:"itemId"`
	Name        string    `json:"name"`
	Price       Paise     `json:"price"`
	Category    string    `json:"category"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"imageUrl"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MenuItemUpdate carries a partial admin update; nil fields are left as-is.
type MenuItemUpdate struct {
	Name        *string `json:"name"`
	Price       *Paise  `json:"price"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	Available   *bool   `json:"available"`
}

type Order struct {
	ID          int64     `json:"id"`
	StudentID   int64     `json:"studentId"`
	OrderNumber string    `json:"orderNumber"`
	Total       Paise     `json:"totalAmount"`
	Status      Status    `json:"status"`
	ReceiptNote *string   `json:"receiptNote"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OrderLine keeps its own price snapshot so a later menu price change never
// alters a committed order.
type OrderLine struct {
	ID           int64     `json:"id"`
	OrderID      int64     `json:"orderId"`
	MenuItemID   int64     `json:"menuItemId"`
	Quantity     int       `json:"quantity"`
	PriceAtOrder Paise     `json:"priceAtOrder"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AdminOrder is the joined view the admin panel lists. Student and per-line
// MenuItem are left-join results and may be nil.
type AdminOrder struct {
	Order
	Student *Student         `json:"student"`
	Items   []AdminOrderLine `json:"items"`
}

type AdminOrderLine struct {
	OrderLine
	MenuItem *MenuItem `json:"menuItem"`
}

type Stats struct {
	TotalOrders     int64         `json:"totalOrders"`
	TotalRevenue    Paise         `json:"totalRevenue"`
	TotalStudents   int64         `json:"totalStudents"`
	TotalMenuItems  int64         `json:"totalMenuItems"`
	PendingOrders   int64         `json:"pendingOrders"`
	CompletedOrders int64         `json:"completedOrders"`
	RecentOrders    []RecentOrder `json:"recentOrders"`
}

type RecentOrder struct {
	ID          int64     `json:"id"`
	OrderNumber string    `json:"orderNumber"`
	TotalAmount Paise     `json:"totalAmount"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	StudentName *string   `json:"studentName"`
}
