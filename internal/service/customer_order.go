package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/marketplace-orders/internal/storage"
)

// CustomerOrderService определяет интерфейс для личного кабинета покупателя.
type CustomerOrderService interface {
	GetOrder(ctx context.Context, userID, orderID int64) (*CustomerOrderResponse, error)
}

type customerOrderService struct {
	log       *slog.Logger
	orderRepo storage.OrderStorage
	lineRepo  storage.ItemOrderStorage
}

func NewCustomerOrderService(log *slog.Logger, orderRepo storage.OrderStorage, lineRepo storage.ItemOrderStorage) CustomerOrderService {
	return &customerOrderService{
		log:       log,
		orderRepo: orderRepo,
		lineRepo:  lineRepo,
	}
}

// CustomerOrderResponse — полный вид заказа для его владельца:
// все позиции всех магазинов плюс итоги по заказу.
type CustomerOrderResponse struct {
	OrderID    int64               `json:"order_id"`
	Status     string              `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
	ShipTo     ShippingInfo        `json:"ship_to"`
	TotalItems int                 `json:"total_items"`
	GrandTotal float64             `json:"grandtotal"`
	Items      []CustomerOrderLine `json:"items"`
}

type CustomerOrderLine struct {
	ItemID      int64   `json:"item_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Subtotal    float64 `json:"subtotal"`
}

// GetOrder возвращает заказ, только если он принадлежит пользователю.
// Итоги не хранятся в БД, а вычисляются по позициям:
// total_items — сумма количеств, grandtotal — сумма стоимостей позиций.
func (s *customerOrderService) GetOrder(ctx context.Context, userID, orderID int64) (*CustomerOrderResponse, error) {
	const op = "service.CustomerOrderService.GetOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("orderID", orderID))
	logger.Info("getting customer order view")

	order, err := s.orderRepo.GetOrderForUser(ctx, orderID, userID)
	if err != nil {
		logger.Error("failed to get order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get order: %w", op, err)
	}

	lines, err := s.lineRepo.GetLinesByOrderID(ctx, orderID)
	if err != nil {
		logger.Error("failed to get order lines", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get order lines: %w", op, err)
	}

	resp := &CustomerOrderResponse{
		OrderID:   order.ID,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
		ShipTo: ShippingInfo{
			Name:    order.Name,
			Address: order.Address,
			City:    order.City,
			State:   order.State,
			Zip:     order.Zip,
		},
	}
	for _, line := range lines {
		resp.TotalItems += line.Quantity
		resp.GrandTotal += line.Subtotal()
		resp.Items = append(resp.Items, CustomerOrderLine{
			ItemID:      line.ItemID,
			Name:        line.ItemName,
			Description: line.ItemDescription,
			Image:       line.ItemImage,
			Quantity:    line.Quantity,
			Price:       line.Price,
			Subtotal:    line.Subtotal(),
		})
	}
	return resp, nil
}
