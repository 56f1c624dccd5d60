package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/linemk/marketplace-orders/internal/domain/models"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderStorage описывает методы для работы с заказами.
type OrderStorage interface {
	// GetOrderByID возвращает заказ по идентификатору.
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	// GetOrderForUser возвращает заказ, только если он принадлежит указанному
	// пользователю. Чужой заказ неотличим от несуществующего.
	GetOrderForUser(ctx context.Context, orderID, userID int64) (*models.Order, error)
}

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

const orderColumns = "id, user_id, name, address, city, state, zip, status, created_at, updated_at"

func (r *orderRepository) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	order := &models.Order{}
	row := r.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	if err := scanOrder(row, order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetOrderForUser(ctx context.Context, orderID, userID int64) (*models.Order, error) {
	order := &models.Order{}
	row := r.db.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1 AND user_id = $2", orderID, userID)
	if err := scanOrder(row, order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func scanOrder(row *sql.Row, order *models.Order) error {
	return row.Scan(
		&order.ID, &order.UserID, &order.Name, &order.Address, &order.City,
		&order.State, &order.Zip, &order.Status, &order.CreatedAt, &order.UpdatedAt,
	)
}
