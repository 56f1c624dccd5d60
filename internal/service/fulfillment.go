package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/marketplace-orders/internal/domain/models"
	"github.com/linemk/marketplace-orders/internal/storage"
)

var (
	// ErrNotMerchant — действующий пользователь не является сотрудником магазина
	ErrNotMerchant = errors.New("user is not a merchant employee")
	// ErrLineForbidden — позиция принадлежит товару чужого магазина
	ErrLineForbidden = errors.New("order line belongs to another merchant")
)

// FulfillmentService исполняет позиции заказов: переводит позицию из
// unfulfilled в fulfilled и безвозвратно списывает остаток товара.
type FulfillmentService interface {
	Fulfill(ctx context.Context, userID, orderID, lineID int64) error
}

type fulfillmentService struct {
	log      *slog.Logger
	db       *sql.DB
	userRepo storage.UserStorage
	itemRepo storage.ItemStorage
	lineRepo storage.ItemOrderStorage
}

func NewFulfillmentService(log *slog.Logger, db *sql.DB, userRepo storage.UserStorage, itemRepo storage.ItemStorage, lineRepo storage.ItemOrderStorage) FulfillmentService {
	return &fulfillmentService{
		log:      log,
		db:       db,
		userRepo: userRepo,
		itemRepo: itemRepo,
		lineRepo: lineRepo,
	}
}

// Fulfill исполняет одну позицию заказа от имени сотрудника магазина.
// Чтение позиции, проверка остатка и списание выполняются в одной транзакции,
// строка позиции блокируется на время транзакции. Любая ошибка откатывает
// транзакцию — при отказе состояние не меняется.
func (s *fulfillmentService) Fulfill(ctx context.Context, userID, orderID, lineID int64) error {
	const op = "service.FulfillmentService.Fulfill"
	logger := s.log.With(
		slog.String("op", op),
		slog.Int64("userID", userID),
		slog.Int64("orderID", orderID),
		slog.Int64("lineID", lineID),
	)
	logger.Info("starting fulfillment transaction")

	// Определяем магазин действующего пользователя
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		logger.Error("failed to get user", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get user: %w", op, err)
	}
	if !user.IsMerchantEmployee() {
		logger.Warn("user is not a merchant employee")
		return fmt.Errorf("%s: %w", op, ErrNotMerchant)
	}
	merchantID := *user.MerchantID

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	// Читаем и блокируем позицию вместе с данными товара
	line, err := s.lineRepo.LockLineByIDTx(ctx, tx, lineID)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to lock order line", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get order line: %w", op, err)
	}

	// Позиция из другого заказа неотличима от несуществующей
	if line.OrderID != orderID {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Warn("order line does not belong to order")
		return fmt.Errorf("%s: %w", op, storage.ErrLineNotFound)
	}

	// Товар позиции должен принадлежать магазину сотрудника
	if line.ItemMerchantID != merchantID {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Warn("order line belongs to another merchant", slog.Int64("lineMerchantID", line.ItemMerchantID))
		return fmt.Errorf("%s: %w", op, ErrLineForbidden)
	}

	// Повторное исполнение отклоняем: переход односторонний
	if line.Status == models.FulfillmentFulfilled {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Warn("order line already fulfilled")
		return fmt.Errorf("%s: %w", op, storage.ErrAlreadyFulfilled)
	}

	// Списываем остаток товара, если его достаточно
	if err := s.itemRepo.DecrementInventoryTx(ctx, tx, line.ItemID, line.Quantity); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		if errors.Is(err, storage.ErrInsufficientInventory) {
			logger.Warn("insufficient inventory", slog.Int("inventory", line.ItemInventory), slog.Int("quantity", line.Quantity))
		} else {
			logger.Error("failed to decrement inventory", slog.Any("error", err))
		}
		return fmt.Errorf("%s: failed to decrement inventory: %w", op, err)
	}

	// Переводим позицию в статус fulfilled
	if err := s.lineRepo.MarkLineFulfilledTx(ctx, tx, lineID); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to mark order line fulfilled", slog.Any("error", err))
		return fmt.Errorf("%s: failed to mark order line fulfilled: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("order line fulfilled successfully")
	return nil
}
