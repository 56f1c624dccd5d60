package models

// Статусы позиции заказа. Переход только в одну сторону:
// unfulfilled -> fulfilled, обратного пути нет.
const (
	FulfillmentUnfulfilled = "unfulfilled"
	FulfillmentFulfilled   = "fulfilled"
)

// ItemOrder представляет позицию заказа: один товар, его количество
// и цена, зафиксированная на момент покупки
type ItemOrder struct {
	ID       int64   `json:"id"`
	OrderID  int64   `json:"order_id"`
	ItemID   int64   `json:"item_id"`
	Price    float64 `json:"price"` // Цена на момент покупки
	Quantity int     `json:"quantity"`
	Status   string  `json:"status"`

	// Поля товара; заполняются через JOIN с таблицей items
	ItemName        string `json:"item_name"`
	ItemDescription string `json:"item_description,omitempty"`
	ItemImage       string `json:"item_image"`
	ItemMerchantID  int64  `json:"-"`
	ItemInventory   int    `json:"-"`
}

// Subtotal возвращает стоимость позиции: цена на момент покупки, умноженная на количество
func (io *ItemOrder) Subtotal() float64 {
	return io.Price * float64(io.Quantity)
}
