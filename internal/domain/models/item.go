package models

// Item представляет товар, принадлежащий ровно одному магазину
type Item struct {
	ID          int64
	MerchantID  int64   // Магазин-владелец товара
	Name        string  // Название товара
	Description string  // Описание товара
	Price       float64 // Текущая цена (цена в заказе фиксируется отдельно)
	Image       string  // Ссылка на изображение товара
	Inventory   int     // Остаток на складе, не может быть отрицательным
	Active      bool    // Доступен ли товар для продажи
}
