package canteen

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable wire codes. The storefront UI branches on these (it checks
// INSUFFICIENT_BALANCE specifically to show a top-up prompt).
const (
	CodeMissingCardID       = "MISSING_CARD_ID"
	CodeEmptyOrder          = "EMPTY_ORDER"
	CodeStudentNotFound     = "STUDENT_NOT_FOUND"
	CodeInvalidQuantity     = "INVALID_QUANTITY"
	CodeMenuItemNotFound    = "MENU_ITEM_NOT_FOUND"
	CodeMenuItemUnavailable = "MENU_ITEM_UNAVAILABLE"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeInvalidOrderID      = "INVALID_ORDER_ID"
	CodeOrderNotFound       = "ORDER_NOT_FOUND"
	CodeMissingCategory     = "MISSING_CATEGORY"
	CodeMissingStatus       = "MISSING_STATUS"
	CodeMissingFields       = "MISSING_FIELDS"
	CodeOrderNumberConflict = "ORDER_NUMBER_CONFLICT"
	CodeInternal            = "INTERNAL_SERVER_ERROR"
)

// WireError is an error with a fixed HTTP mapping. Its JSON form is the
// response body for every 4xx and the order-number conflict.
type WireError struct {
	HTTPStatus     int    `json:"-"`
	Code           string `json:"code"`
	Message        string `json:"error"`
	CurrentBalance *Paise `json:"currentBalance,omitempty"`
	RequiredAmount *Paise `json:"requiredAmount,omitempty"`
}

func (e *WireError) Error() string { return e.Message }

// HasCode reports whether err is a WireError carrying the given code.
func HasCode(err error, code string) bool {
	var we *WireError
	return errors.As(err, &we) && we.Code == code
}

func errMissingCardID() *WireError {
	return &WireError{HTTPStatus: http.StatusBadRequest, Code: CodeMissingCardID, Message: "Card ID is required"}
}

func errEmptyOrder() *WireError {
	return &WireError{HTTPStatus: http.StatusBadRequest, Code: CodeEmptyOrder, Message: "Order must contain at least one item"}
}

func errStudentNotFound() *WireError {
	return &WireError{HTTPStatus: http.StatusNotFound, Code: CodeStudentNotFound, Message: "Student not found"}
}

func errStudentNotFoundForOrder() *WireError {
	return &WireError{HTTPStatus: http.StatusNotFound, Code: CodeStudentNotFound, Message: "Student not found for this order"}
}

func errInvalidQuantity(itemID string) *WireError {
	return &WireError{HTTPStatus: http.StatusBadRequest, Code: CodeInvalidQuantity,
		Message: fmt.Sprintf("Invalid quantity for item %s", itemID)}
}

// Menu-item-not-found during placement is the caller's cart being wrong,
// hence 400 rather than 404.
func errMenuItemNotFound(itemID string) *WireError {
	return &WireError{HTTPStatus: http.StatusBadRequest, Code: CodeMenuItemNotFound,
		Message: fmt.Sprintf("Menu item %s not found", itemID)}
}

func errMenuItemUnavailable(name string) *WireError {
	return &WireError{HTTPStatus: http.StatusBadRequest, Code: CodeMenuItemUnavailable,
		Message: fmt.Sprintf("Menu item %s is not available", name)}
}

func errInsufficientBalance(current, required Paise) *WireError {
	return &WireError{
		HTTPStatus: http.StatusBadRequest,
		Code:       CodeInsufficientBalance,
		Message: fmt.Sprintf("Insufficient balance. Please add funds to your RFC card. Current balance: ₹%s, Required: ₹%s",
			current, required),
		CurrentBalance: &current,
		RequiredAmount: &required,
	}
}

func errOrderNotFound() *WireError {
	return &WireError{HTTPStatus: http.StatusNotFound, Code: CodeOrderNotFound, Message: "Order not found"}
}

// ErrInvalidOrderID is returned for a non-numeric or non-positive order id.
func ErrInvalidOrderID() *WireError {
	return &WireError{HTTPStatus: http.StatusBadRequest, Code: CodeInvalidOrderID, Message: "Valid order ID is required"}
}

// errOrderNumberConflict surfaces a random-suffix collision on the order
// number unique index. Deliberately not retried; see the generator doc.
func errOrderNumberConflict(orderNumber string) *WireError {
	return &WireError{HTTPStatus: http.StatusInternalServerError, Code: CodeOrderNumberConflict,
		Message: fmt.Sprintf("Order number %s already exists", orderNumber)}
}
