package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"

	"example.com/bookstore/internal/infra/payment/razorpay"
	"example.com/bookstore/internal/infra/persistence/mysql"
	"example.com/bookstore/internal/infra/security"
	httpapi "example.com/bookstore/internal/interface/http"
	"example.com/bookstore/internal/platform/config"
	authuc "example.com/bookstore/internal/usecase/auth"
	bookuc "example.com/bookstore/internal/usecase/book"
	cartuc "example.com/bookstore/internal/usecase/cart"
	checkoutuc "example.com/bookstore/internal/usecase/checkout"
	inventoryuc "example.com/bookstore/internal/usecase/inventory"
	orderuc "example.com/bookstore/internal/usecase/order"
	"example.com/bookstore/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("mysql open error: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	var checkoutEvents checkoutuc.EventPublisher
	var orderEvents orderuc.EventPublisher
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("WARN: rabbitmq unavailable, events disabled: %v", err)
		} else {
			defer mq.Close()
			checkoutEvents = mq
			orderEvents = mq
		}
	}

	bookRepo := mysql.NewBookRepository(db)
	cartRepo := mysql.NewCartRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	userRepo := mysql.NewUserRepository(db)

	jwtSvc := security.NewJWTService(cfg.JWTSecret, cfg.JWTExpiration)
	bcryptSvc := security.NewBcryptService(cfg.BcryptCost)
	gateway := razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayBaseURL)

	inventorySvc := inventoryuc.NewService(bookRepo)
	authSvc := authuc.NewService(userRepo, cartRepo, bcryptSvc, jwtSvc)
	bookSvc := bookuc.NewService(bookRepo)
	cartSvc := cartuc.NewService(cartRepo, bookRepo)
	checkoutSvc := checkoutuc.NewService(
		cartRepo,
		bookRepo,
		orderRepo,
		inventorySvc,
		gateway,
		checkoutEvents,
		cfg.RazorpayKeySecret,
		cfg.Currency,
	)
	orderSvc := orderuc.NewService(orderRepo, inventorySvc, orderEvents)

	api := httpapi.NewAPI(httpapi.Dependencies{
		AuthService:     authSvc,
		BookService:     bookSvc,
		CartService:     cartSvc,
		CheckoutService: checkoutSvc,
		OrderService:    orderSvc,
		TokenService:    jwtSvc,
	})

	r := api.Router()

	r.Get("/health/mysql", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			http.Error(w, "mysql ping error: "+err.Error(), 500)
			return
		}
		w.Write([]byte("mysql ok"))
	})

	r.Get("/health/pg", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		conn, err := pgx.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			http.Error(w, "pg connect error: "+err.Error(), 500)
			return
		}
		defer conn.Close(ctx)
		if err := conn.Ping(ctx); err != nil {
			http.Error(w, "pg ping error: "+err.Error(), 500)
			return
		}
		w.Write([]byte("pg ok"))
	})

	log.Printf("listening on :%s ...", cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
