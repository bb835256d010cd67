package models

// NewOrderMessage is the body published to the new_order queue.
type NewOrderMessage struct {
	OrderID string `json:"order_id"`
	UserID  int64  `json:"user_id"`
}
