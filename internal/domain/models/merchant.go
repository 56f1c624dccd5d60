package models

// Merchant представляет магазин (продавца), владеющий каталогом товаров
type Merchant struct {
	ID      int64  // Уникальный идентификатор магазина
	Name    string // Название магазина
	Address string
	City    string
	State   string
	Zip     string
}
