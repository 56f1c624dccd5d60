package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/linemk/marketplace-orders/internal/domain/models"
)

var (
	ErrItemNotFound          = errors.New("item not found")
	ErrInsufficientInventory = errors.New("insufficient inventory")
)

// ItemStorage описывает методы для работы с таблицей товаров.
type ItemStorage interface {
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	// DecrementInventoryTx условно списывает остаток товара в рамках транзакции.
	// Списание и проверка остатка выполняются одним UPDATE, поэтому два
	// конкурентных вызова не смогут оба пройти проверку.
	DecrementInventoryTx(ctx context.Context, tx *sql.Tx, itemID int64, quantity int) error
}

type itemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) ItemStorage {
	return &itemRepository{db: db}
}

func (r *itemRepository) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	item := &models.Item{}
	query := "SELECT id, merchant_id, name, description, price, image, inventory, active FROM items WHERE id = $1"
	row := r.db.QueryRowContext(ctx, query, id)
	if err := row.Scan(&item.ID, &item.MerchantID, &item.Name, &item.Description,
		&item.Price, &item.Image, &item.Inventory, &item.Active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// DecrementInventoryTx уменьшает остаток на quantity, только если остатка достаточно.
// Если UPDATE не затронул ни одной строки — остатка не хватает (товар уже
// был найден ранее по позиции заказа, поэтому отсутствие строки здесь не про "не найден").
func (r *itemRepository) DecrementInventoryTx(ctx context.Context, tx *sql.Tx, itemID int64, quantity int) error {
	query := "UPDATE items SET inventory = inventory - $1 WHERE id = $2 AND inventory >= $1"
	res, err := tx.ExecContext(ctx, query, quantity, itemID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientInventory
	}
	return nil
}
