package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/linemk/marketplace-orders/internal/jwt/jwtmiddleware"
	"github.com/linemk/marketplace-orders/internal/service"
	"github.com/linemk/marketplace-orders/internal/storage"
)

// FulfillResponse — структура ответа при успешном исполнении позиции.
type FulfillResponse struct {
	Message string `json:"message"`
}

// MerchantOrderHandler обрабатывает запрос GET /api/merchant/orders/{id}.
// Возвращает заказ глазами магазина действующего пользователя: только его позиции.
func MerchantOrderHandler(log *slog.Logger, orderService service.MerchantOrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.MerchantOrderHandler"
		logger := log.With(slog.String("op", op))

		orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid order id", slog.Any("error", err))
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		order, err := orderService.GetOrder(r.Context(), userID, orderID)
		if err != nil {
			writeOrderError(w, logger, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(order); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// FulfillItemHandler обрабатывает запрос POST /api/merchant/orders/{id}/items/{itemOrderID}/fulfill.
// Успех подтверждается сообщением "Item has been fulfilled", нехватка остатка —
// отказом "Cannot fulfill this item" без изменения состояния.
func FulfillItemHandler(log *slog.Logger, fulfillService service.FulfillmentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.FulfillItemHandler"
		logger := log.With(slog.String("op", op))

		orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid order id", slog.Any("error", err))
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}
		lineID, err := strconv.ParseInt(chi.URLParam(r, "itemOrderID"), 10, 64)
		if err != nil {
			logger.Error("invalid item order id", slog.Any("error", err))
			http.Error(w, "invalid item order id", http.StatusBadRequest)
			return
		}

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := fulfillService.Fulfill(r.Context(), userID, orderID, lineID); err != nil {
			switch {
			case errors.Is(err, storage.ErrInsufficientInventory):
				logger.Warn("insufficient inventory", slog.Int64("lineID", lineID))
				http.Error(w, "Cannot fulfill this item", http.StatusUnprocessableEntity)
			case errors.Is(err, storage.ErrAlreadyFulfilled):
				logger.Warn("order line already fulfilled", slog.Int64("lineID", lineID))
				http.Error(w, "item already fulfilled", http.StatusConflict)
			case errors.Is(err, storage.ErrLineNotFound), errors.Is(err, storage.ErrOrderNotFound):
				logger.Warn("order line not found", slog.Int64("lineID", lineID))
				http.Error(w, "order line not found", http.StatusNotFound)
			case errors.Is(err, service.ErrLineForbidden), errors.Is(err, service.ErrNotMerchant):
				logger.Warn("fulfillment forbidden", slog.Int64("lineID", lineID))
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				logger.Error("failed to fulfill order line", slog.Any("error", err))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
			return
		}

		resp := FulfillResponse{Message: "Item has been fulfilled"}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// writeOrderError отображает ошибки сервисов заказов на HTTP-статусы
func writeOrderError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, storage.ErrOrderNotFound):
		logger.Warn("order not found")
		http.Error(w, "order not found", http.StatusNotFound)
	case errors.Is(err, service.ErrNotMerchant):
		logger.Warn("user is not a merchant employee")
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		logger.Error("failed to get order", slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
