package canteen

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo is the pgx-backed Store.
type Repo struct{ DB *pgxpool.Pool }

const studentCols = `id, card_id, student_id, student_name, balance_paise, created_at, updated_at`

func scanStudent(row pgx.Row) (*Student, error) {
	var st Student
	err := row.Scan(&st.ID, &st.CardID, &st.StudentID, &st.Name, &st.Balance, &st.CreatedAt, &st.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *Repo) StudentByCardID(ctx context.Context, cardID string) (*Student, error) {
	return scanStudent(r.DB.QueryRow(ctx,
		`SELECT `+studentCols+` FROM students WHERE card_id = $1`, cardID))
}

func (r *Repo) StudentByID(ctx context.Context, id int64) (*Student, error) {
	return scanStudent(r.DB.QueryRow(ctx,
		`SELECT `+studentCols+` FROM students WHERE id = $1`, id))
}

const menuItemCols = `id, item_id, name, price_paise, category, description, image_url, available, created_at, updated_at`

func scanMenuItem(row pgx.Row) (*MenuItem, error) {
	var mi MenuItem
	err := row.Scan(&mi.ID, &mi.ItemID, &mi.Name, &mi.Price, &mi.Category,
		&mi.Description, &mi.ImageURL, &mi.Available, &mi.CreatedAt, &mi.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mi, nil
}

func (r *Repo) MenuItemByItemID(ctx context.Context, itemID string) (*MenuItem, error) {
	return scanMenuItem(r.DB.QueryRow(ctx,
		`SELECT `+menuItemCols+` FROM menu_items WHERE item_id = $1`, itemID))
}

func (r *Repo) MenuItemByID(ctx context.Context, id int64) (*MenuItem, error) {
	return scanMenuItem(r.DB.QueryRow(ctx,
		`SELECT `+menuItemCols+` FROM menu_items WHERE id = $1`, id))
}

func (r *Repo) ListMenu(ctx context.Context, category, search string) ([]MenuItem, error) {
	q := `SELECT ` + menuItemCols + ` FROM menu_items WHERE available = TRUE`
	args := []any{}
	if category != "" {
		args = append(args, category)
		q += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		q += fmt.Sprintf(` AND (name ILIKE $%d OR description ILIKE $%d)`, len(args), len(args))
	}
	q += ` ORDER BY category, name`

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []MenuItem{}
	for rows.Next() {
		var mi MenuItem
		if err := rows.Scan(&mi.ID, &mi.ItemID, &mi.Name, &mi.Price, &mi.Category,
			&mi.Description, &mi.ImageURL, &mi.Available, &mi.CreatedAt, &mi.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, mi)
	}
	return out, rows.Err()
}

func (r *Repo) CreateMenuItem(ctx context.Context, mi *MenuItem) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO menu_items (item_id, name, price_paise, category, description, image_url, available, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id`,
		mi.ItemID, mi.Name, mi.Price, mi.Category, mi.Description, mi.ImageURL,
		mi.Available, mi.CreatedAt, mi.UpdatedAt,
	).Scan(&mi.ID)
}

func (r *Repo) UpdateMenuItem(ctx context.Context, itemID string, upd MenuItemUpdate) (*MenuItem, error) {
	set := `updated_at = now()`
	args := []any{itemID}
	add := func(col string, v any) {
		args = append(args, v)
		set += fmt.Sprintf(`, %s = $%d`, col, len(args))
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Price != nil {
		add("price_paise", *upd.Price)
	}
	if upd.Category != nil {
		add("category", *upd.Category)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.ImageURL != nil {
		add("image_url", *upd.ImageURL)
	}
	if upd.Available != nil {
		add("available", *upd.Available)
	}
	return scanMenuItem(r.DB.QueryRow(ctx,
		`UPDATE menu_items SET `+set+` WHERE item_id = $1 RETURNING `+menuItemCols, args...))
}

func (r *Repo) DeleteMenuItem(ctx context.Context, itemID string) (bool, error) {
	ct, err := r.DB.Exec(ctx, `DELETE FROM menu_items WHERE item_id = $1`, itemID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

// CreateOrder commits order + lines + balance debit as one transaction. The
// debit is guarded by `balance_paise >= total` so that two concurrent orders
// against the same student can never jointly overdraw: the loser sees zero
// rows updated and the transaction rolls back with INSUFFICIENT_BALANCE.
func (r *Repo) CreateOrder(ctx context.Context, o *Order, lines []OrderLine) (Paise, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (student_id, order_number, total_paise, status, receipt_note, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id`,
		o.StudentID, o.OrderNumber, o.Total, o.Status, o.ReceiptNote, o.CreatedAt, o.UpdatedAt,
	).Scan(&o.ID)
	if err != nil {
		if isUniqueViolation(err, "orders_order_number_key") {
			return 0, errOrderNumberConflict(o.OrderNumber)
		}
		return 0, err
	}

	for i := range lines {
		lines[i].OrderID = o.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, quantity, price_at_order_paise, created_at)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING id`,
			lines[i].OrderID, lines[i].MenuItemID, lines[i].Quantity, lines[i].PriceAtOrder, lines[i].CreatedAt,
		).Scan(&lines[i].ID)
		if err != nil {
			return 0, err
		}
	}

	var remaining Paise
	err = tx.QueryRow(ctx, `
		UPDATE students
		SET balance_paise = balance_paise - $1, updated_at = $2
		WHERE id = $3 AND balance_paise >= $1
		RETURNING balance_paise`,
		o.Total, o.UpdatedAt, o.StudentID,
	).Scan(&remaining)
	if errors.Is(err, pgx.ErrNoRows) {
		// Lost the race to a concurrent order. Re-read inside the tx so the
		// error reports the balance that made the debit fail.
		var current Paise
		if err := tx.QueryRow(ctx,
			`SELECT balance_paise FROM students WHERE id = $1`, o.StudentID).Scan(&current); err != nil {
			return 0, err
		}
		return 0, errInsufficientBalance(current, o.Total)
	}
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return remaining, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}

const orderCols = `id, student_id, order_number, total_paise, status, receipt_note, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.StudentID, &o.OrderNumber, &o.Total, &o.Status,
		&o.ReceiptNote, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repo) OrderByID(ctx context.Context, id int64) (*Order, error) {
	return scanOrder(r.DB.QueryRow(ctx,
		`SELECT `+orderCols+` FROM orders WHERE id = $1`, id))
}

func (r *Repo) LinesByOrder(ctx context.Context, orderID int64) ([]OrderLine, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, menu_item_id, quantity, price_at_order_paise, created_at
		FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderLine
	for rows.Next() {
		var l OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.MenuItemID, &l.Quantity, &l.PriceAtOrder, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateOrderStatus(ctx context.Context, orderID int64, status Status) (*Order, error) {
	return scanOrder(r.DB.QueryRow(ctx, `
		UPDATE orders SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+orderCols, orderID, status))
}

func (r *Repo) ListOrders(ctx context.Context) ([]AdminOrder, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+orderCols+` FROM orders ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.StudentID, &o.OrderNumber, &o.Total, &o.Status,
			&o.ReceiptNote, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]AdminOrder, 0, len(orders))
	for _, o := range orders {
		student, err := r.StudentByID(ctx, o.StudentID)
		if err != nil {
			return nil, err
		}
		lines, err := r.LinesByOrder(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		items := make([]AdminOrderLine, 0, len(lines))
		for _, l := range lines {
			mi, err := r.MenuItemByID(ctx, l.MenuItemID)
			if err != nil {
				return nil, err
			}
			// Left-join semantics: a deleted menu item leaves the line with
			// menuItem null instead of dropping it.
			items = append(items, AdminOrderLine{OrderLine: l, MenuItem: mi})
		}
		out = append(out, AdminOrder{Order: o, Student: student, Items: items})
	}
	return out, nil
}

func (r *Repo) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	err := r.DB.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM orders),
			(SELECT COALESCE(sum(total_paise), 0) FROM orders),
			(SELECT count(*) FROM students),
			(SELECT count(*) FROM menu_items),
			(SELECT count(*) FROM orders WHERE status = 'pending'),
			(SELECT count(*) FROM orders WHERE status = 'completed')`,
	).Scan(&st.TotalOrders, &st.TotalRevenue, &st.TotalStudents, &st.TotalMenuItems,
		&st.PendingOrders, &st.CompletedOrders)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT o.id, o.order_number, o.total_paise, o.status, o.created_at, s.student_name
		FROM orders o
		LEFT JOIN students s ON s.id = o.student_id
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT 5`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	st.RecentOrders = []RecentOrder{}
	for rows.Next() {
		var ro RecentOrder
		if err := rows.Scan(&ro.ID, &ro.OrderNumber, &ro.TotalAmount, &ro.Status, &ro.CreatedAt, &ro.StudentName); err != nil {
			return nil, err
		}
		st.RecentOrders = append(st.RecentOrders, ro)
	}
	return &st, rows.Err()
}
