package models

import "time"

// Статусы заказа
const (
	OrderStatusPending   = "pending"
	OrderStatusPackaged  = "packaged"
	OrderStatusShipped   = "shipped"
	OrderStatusCancelled = "cancelled"
)

// Order представляет заказ покупателя.
// Адрес доставки — снимок на момент оформления, он не зависит
// от текущего адреса пользователя.
type Order struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Zip       string    `json:"zip"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
