package main

import (
	"strings"

	"checkout-service/common/logger"
	"checkout-service/controllers"
	"checkout-service/database"
	"checkout-service/kafka"
	"checkout-service/models"
	"checkout-service/notification"
	"checkout-service/repository"
	"checkout-service/routes"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()
	log := logger.Log

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.ConnectPostgres(database.PostgresConfig{
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		DBName:   cfg.PostgresDB,
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		SSLMode:  cfg.PostgresSSLMode,
		TimeZone: cfg.PostgresTimeZone,
	}, log,
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Wishlist{},
		&models.WishlistItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	)
	if err != nil {
		log.Fatal("Database initialization failed", zap.Error(err))
	}
	store := repository.NewGormStore(db)

	// Redis, Kafka and SMTP are optional; the service degrades to running
	// without idempotency replay, events or invoice email when unset.
	var idem services.IdempotencyStore
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatal("Redis initialization failed", zap.Error(err))
		}
		idem = repository.NewIdempotencyRepository(redisClient, cfg.IdempotencyTTL)
	} else {
		log.Warn("REDIS_URL not set, idempotent checkout replay disabled")
	}

	var producer services.EventProducer
	if cfg.KafkaBrokers != "" {
		kafkaProducer := kafka.NewProducer(strings.Split(cfg.KafkaBrokers, ","), log)
		defer kafkaProducer.Close()
		producer = kafkaProducer
	} else {
		log.Warn("KAFKA_BROKERS not set, event publishing disabled")
	}

	var invoices services.InvoiceSender
	if cfg.SMTPHost != "" {
		sender, err := notification.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
		if err != nil {
			log.Fatal("SMTP initialization failed", zap.Error(err))
		}
		invoices = notification.NewInvoiceMailer(sender, log)
	} else {
		log.Warn("SMTP_HOST not set, invoice email disabled")
	}

	stripeSvc := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	razorpaySvc := services.NewRazorpayService(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	checkoutSvc := services.NewCheckoutService(store, idem, invoices, producer, cfg.OrderEventsTopic, cfg.NotifyTimeout, log)
	paymentSvc := services.NewPaymentService(store, stripeSvc, razorpaySvc, invoices, producer,
		cfg.PaymentEventsTopic, cfg.VerifyTimeout, cfg.NotifyTimeout, log)

	cartCtrl := controllers.NewCartController(store, log)
	orderCtrl := controllers.NewOrderController(checkoutSvc, store, log)
	paymentCtrl := controllers.NewPaymentController(paymentSvc, stripeSvc, razorpaySvc, store, log)

	r := gin.New()
	r.Use(logger.RequestLogger(), gin.Recovery())
	routes.Register(r, cartCtrl, orderCtrl, paymentCtrl)

	log.Info("Checkout service starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed", zap.Error(err))
	}
}
