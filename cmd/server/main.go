package main

import (
	"context"

	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"

	"github.com/linemk/marketplace-orders/internal/app"
	"github.com/linemk/marketplace-orders/internal/app/handlers"
	"github.com/linemk/marketplace-orders/internal/config"
	"github.com/linemk/marketplace-orders/internal/jwt/jwtmiddleware"
	"github.com/linemk/marketplace-orders/internal/lib/logger"
	"github.com/linemk/marketplace-orders/internal/lib/logger/handlers/urllog"
	"github.com/linemk/marketplace-orders/internal/service"
	"github.com/linemk/marketplace-orders/internal/storage"
)

func main() {
	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// загружаем объект приложения, конфигом и подключением к БД
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.DB.Close()

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// реализация слоев по работе с БД по каждому направлению
	userRepo := storage.NewUserRepository(application.DB)
	itemRepo := storage.NewItemRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)
	itemOrderRepo := storage.NewItemOrderRepository(application.DB)

	authService := service.NewAuthService(application.Logger, userRepo, time.Duration(application.Config.JWT.TokenTTL)*time.Minute)
	fulfillService := service.NewFulfillmentService(application.Logger, application.DB, userRepo, itemRepo, itemOrderRepo)
	merchantOrderService := service.NewMerchantOrderService(application.Logger, userRepo, orderRepo, itemOrderRepo)
	customerOrderService := service.NewCustomerOrderService(application.Logger, orderRepo, itemOrderRepo)

	// эндпоинты аутентификации
	router.Post("/api/auth/register", handlers.RegisterHandler(application.Logger, authService))
	router.Post("/api/auth/login", handlers.LoginHandler(application.Logger, authService))

	router.Group(func(r chi.Router) {
		jwtMW := jwtmiddleware.NewJWTMiddleware()
		r.Use(jwtMW)
		// вид заказа для магазина: только его позиции
		r.Get("/api/merchant/orders/{id}", handlers.MerchantOrderHandler(application.Logger, merchantOrderService))
		// исполнение позиции заказа со списанием остатка
		r.Post("/api/merchant/orders/{id}/items/{itemOrderID}/fulfill", handlers.FulfillItemHandler(application.Logger, fulfillService))
		// полный вид заказа для его владельца
		r.Get("/api/profile/orders/{id}", handlers.ProfileOrderHandler(application.Logger, customerOrderService))
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
