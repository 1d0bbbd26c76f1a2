package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/template/html/v2"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tienda/internal/handlers"
	"tienda/internal/notifier"
	"tienda/internal/repositories"
	"tienda/internal/services"
	"tienda/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("STORAGE_BACKEND", "file") // "file" or "mongo"
	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGODB_DATABASE", "tienda")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables the AMQP sink
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	backend := viper.GetString("STORAGE_BACKEND")

	// --- Initialize Repositories ---
	// Both backends satisfy the same interfaces; everything above this
	// point is backend-agnostic.
	var productRepo repositories.ProductRepository
	var cartRepo repositories.CartRepository
	var mongoClient *mongo.Client

	switch backend {
	case "mongo":
		uri := viper.GetString("MONGODB_URI")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		cancel()
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		mongoClient = client
		db := client.Database(viper.GetString("MONGODB_DATABASE"))

		productRepo, err = repositories.NewMongoProductRepository(db)
		if err != nil {
			log.Fatalf("Failed to initialize product repository: %v", err)
		}
		cartRepo = repositories.NewMongoCartRepository(db)
		log.Printf("Using MongoDB storage backend (%s)", uri)
	case "file":
		dataDir := viper.GetString("DATA_DIR")
		var err error
		productRepo, err = repositories.NewFileProductRepository(dataDir)
		if err != nil {
			log.Fatalf("Failed to initialize product repository: %v", err)
		}
		cartRepo, err = repositories.NewFileCartRepository(dataDir)
		if err != nil {
			log.Fatalf("Failed to initialize cart repository: %v", err)
		}
		log.Printf("Using file storage backend (%s)", dataDir)
	default:
		log.Fatalf("Unknown STORAGE_BACKEND %q (want \"file\" or \"mongo\")", backend)
	}

	// --- Initialize Change Feed ---
	changeFeed := notifier.New()

	// Optional AMQP sink: every catalog event also lands on a durable
	// queue for out-of-process consumers.
	var mqClient *rabbitmq.Client
	var mqSink *rabbitmq.Sink
	if rabbitMQURL := viper.GetString("RABBITMQ_URL"); rabbitMQURL != "" {
		var err error
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		mqSink = rabbitmq.NewSink(mqClient)
		changeFeed.Register("amqp-sink", mqSink)
	}

	// --- Initialize Services ---
	productService := services.NewProductService(productRepo, changeFeed)
	cartService := services.NewCartService(cartRepo, productService)

	// --- Initialize Handlers ---
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	imageHandler := handlers.NewImageHandler(productService)
	viewHandler := handlers.NewViewHandler(productService)
	realtimeHandler := handlers.NewRealtimeHandler(productService, changeFeed)

	// --- Initialize Fiber App ---
	engine := html.New("./web/templates", ".html")
	app := fiber.New(fiber.Config{
		Views: engine,
	})

	// --- Middleware ---
	app.Use(logger.New())

	// --- Routes ---
	api := app.Group("/api")
	productHandler.RegisterRoutes(api)
	cartHandler.RegisterRoutes(api)
	imageHandler.RegisterRoutes(api)
	viewHandler.RegisterRoutes(app)
	realtimeHandler.RegisterRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":      "healthy",
			"time":        time.Now().Format(time.RFC3339),
			"backend":     backend,
			"subscribers": changeFeed.Subscribers(),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	if mqSink != nil {
		mqSink.Close()
	}
	if mqClient != nil {
		if err := mqClient.Close(); err != nil {
			log.Printf("Error closing RabbitMQ client: %v", err)
		}
	}
	if mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Printf("Error disconnecting MongoDB client: %v", err)
		}
		cancel()
	}

	log.Println("Server gracefully stopped")
}
