package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/linemk/marketplace-orders/internal/domain/models"
)

var (
	ErrLineNotFound     = errors.New("order line not found")
	ErrAlreadyFulfilled = errors.New("order line already fulfilled")
)

// ItemOrderStorage описывает методы для работы с позициями заказов.
type ItemOrderStorage interface {
	// GetLinesByOrderID возвращает все позиции заказа, с JOIN для получения данных товара.
	GetLinesByOrderID(ctx context.Context, orderID int64) ([]*models.ItemOrder, error)
	// GetLinesByOrderAndMerchant возвращает только те позиции заказа,
	// чьи товары принадлежат указанному магазину.
	GetLinesByOrderAndMerchant(ctx context.Context, orderID, merchantID int64) ([]*models.ItemOrder, error)
	// LockLineByIDTx блокирует строку позиции на время транзакции.
	LockLineByIDTx(ctx context.Context, tx *sql.Tx, lineID int64) (*models.ItemOrder, error)
	// MarkLineFulfilledTx переводит позицию в статус fulfilled, только если она
	// ещё не исполнена.
	MarkLineFulfilledTx(ctx context.Context, tx *sql.Tx, lineID int64) error
}

type itemOrderRepository struct {
	db *sql.DB
}

func NewItemOrderRepository(db *sql.DB) ItemOrderStorage {
	return &itemOrderRepository{db: db}
}

func (r *itemOrderRepository) GetLinesByOrderID(ctx context.Context, orderID int64) ([]*models.ItemOrder, error) {
	query := `
		SELECT io.id, io.order_id, io.item_id, io.price, io.quantity, io.status,
		       i.name, i.description, i.image, i.merchant_id, i.inventory
		FROM item_orders io
		JOIN items i ON io.item_id = i.id
		WHERE io.order_id = $1
		ORDER BY io.id`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()
	return collectLines(rows)
}

func (r *itemOrderRepository) GetLinesByOrderAndMerchant(ctx context.Context, orderID, merchantID int64) ([]*models.ItemOrder, error) {
	query := `
		SELECT io.id, io.order_id, io.item_id, io.price, io.quantity, io.status,
		       i.name, i.description, i.image, i.merchant_id, i.inventory
		FROM item_orders io
		JOIN items i ON io.item_id = i.id
		WHERE io.order_id = $1 AND i.merchant_id = $2
		ORDER BY io.id`
	rows, err := r.db.QueryContext(ctx, query, orderID, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query merchant order lines: %w", err)
	}
	defer rows.Close()
	return collectLines(rows)
}

// LockLineByIDTx читает позицию вместе с данными товара и блокирует строку
// позиции до конца транзакции (FOR UPDATE OF io), чтобы конкурентное исполнение
// той же позиции дождалось или упало сразу (NOWAIT).
func (r *itemOrderRepository) LockLineByIDTx(ctx context.Context, tx *sql.Tx, lineID int64) (*models.ItemOrder, error) {
	query := `
		SELECT io.id, io.order_id, io.item_id, io.price, io.quantity, io.status,
		       i.name, i.description, i.image, i.merchant_id, i.inventory
		FROM item_orders io
		JOIN items i ON io.item_id = i.id
		WHERE io.id = $1
		FOR UPDATE OF io NOWAIT`
	line := &models.ItemOrder{}
	row := tx.QueryRowContext(ctx, query, lineID)
	if err := row.Scan(
		&line.ID, &line.OrderID, &line.ItemID, &line.Price, &line.Quantity, &line.Status,
		&line.ItemName, &line.ItemDescription, &line.ItemImage, &line.ItemMerchantID, &line.ItemInventory,
	); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "55P03" { // lock_not_available
				return nil, fmt.Errorf("order line is locked, please try again: %w", err)
			}
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLineNotFound
		}
		return nil, err
	}
	return line, nil
}

func (r *itemOrderRepository) MarkLineFulfilledTx(ctx context.Context, tx *sql.Tx, lineID int64) error {
	query := "UPDATE item_orders SET status = $1 WHERE id = $2 AND status = $3"
	res, err := tx.ExecContext(ctx, query, models.FulfillmentFulfilled, lineID, models.FulfillmentUnfulfilled)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAlreadyFulfilled
	}
	return nil
}

func collectLines(rows *sql.Rows) ([]*models.ItemOrder, error) {
	var lines []*models.ItemOrder
	for rows.Next() {
		line := &models.ItemOrder{}
		if err := rows.Scan(
			&line.ID, &line.OrderID, &line.ItemID, &line.Price, &line.Quantity, &line.Status,
			&line.ItemName, &line.ItemDescription, &line.ItemImage, &line.ItemMerchantID, &line.ItemInventory,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
