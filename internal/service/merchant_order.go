package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/marketplace-orders/internal/storage"
)

// MerchantOrderService определяет интерфейс для витрины заказов магазина.
type MerchantOrderService interface {
	GetOrder(ctx context.Context, userID, orderID int64) (*MerchantOrderResponse, error)
}

type merchantOrderService struct {
	log       *slog.Logger
	userRepo  storage.UserStorage
	orderRepo storage.OrderStorage
	lineRepo  storage.ItemOrderStorage
}

func NewMerchantOrderService(log *slog.Logger, userRepo storage.UserStorage, orderRepo storage.OrderStorage, lineRepo storage.ItemOrderStorage) MerchantOrderService {
	return &merchantOrderService{
		log:       log,
		userRepo:  userRepo,
		orderRepo: orderRepo,
		lineRepo:  lineRepo,
	}
}

// MerchantOrderResponse — вид заказа глазами магазина: снимок адреса получателя
// и только те позиции, чьи товары принадлежат этому магазину.
type MerchantOrderResponse struct {
	OrderID   int64               `json:"order_id"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	ShipTo    ShippingInfo        `json:"ship_to"`
	Items     []MerchantOrderLine `json:"items"`
}

// ShippingInfo — снимок имени и адреса получателя на момент оформления заказа
type ShippingInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

type MerchantOrderLine struct {
	LineID   int64   `json:"line_id"`
	ItemID   int64   `json:"item_id"`
	Name     string  `json:"name"`
	Image    string  `json:"image"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Status   string  `json:"status"`
}

// GetOrder собирает вид заказа для магазина действующего пользователя.
// Позиции других магазинов в ответ не попадают. Заказ, в котором у магазина
// нет ни одной позиции, для него не существует.
func (s *merchantOrderService) GetOrder(ctx context.Context, userID, orderID int64) (*MerchantOrderResponse, error) {
	const op = "service.MerchantOrderService.GetOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("orderID", orderID))
	logger.Info("getting merchant order view")

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		logger.Error("failed to get user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}
	if !user.IsMerchantEmployee() {
		logger.Warn("user is not a merchant employee")
		return nil, fmt.Errorf("%s: %w", op, ErrNotMerchant)
	}
	merchantID := *user.MerchantID

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		logger.Error("failed to get order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get order: %w", op, err)
	}

	// Фильтрация по магазину выполняется на стороне БД
	lines, err := s.lineRepo.GetLinesByOrderAndMerchant(ctx, orderID, merchantID)
	if err != nil {
		logger.Error("failed to get order lines", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get order lines: %w", op, err)
	}
	if len(lines) == 0 {
		logger.Warn("order has no lines for merchant", slog.Int64("merchantID", merchantID))
		return nil, fmt.Errorf("%s: %w", op, storage.ErrOrderNotFound)
	}

	resp := &MerchantOrderResponse{
		OrderID:   order.ID,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
		ShipTo: ShippingInfo{
			Name:    order.Name,
			Address: order.Address,
			City:    order.City,
			State:   order.State,
			Zip:     order.Zip,
		},
	}
	for _, line := range lines {
		resp.Items = append(resp.Items, MerchantOrderLine{
			LineID:   line.ID,
			ItemID:   line.ItemID,
			Name:     line.ItemName,
			Image:    line.ItemImage,
			Price:    line.Price,
			Quantity: line.Quantity,
			Status:   line.Status,
		})
	}
	return resp, nil
}
