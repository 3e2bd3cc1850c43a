package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/lurighe2000/laburen-desafio/database"
	"github.com/lurighe2000/laburen-desafio/internal/models"
	"github.com/lurighe2000/laburen-desafio/internal/routes"
	"github.com/lurighe2000/laburen-desafio/internal/services"
	"github.com/lurighe2000/laburen-desafio/internal/storage"
)

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("No .env file found - using environment variables")
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	apiBase := os.Getenv("API_BASE")
	if apiBase == "" {
		apiBase = "http://127.0.0.1:" + port
	}

	// Interactive shell against a running API: ./laburen-desafio chat
	if len(os.Args) > 1 && os.Args[1] == "chat" {
		agent := services.NewShoppingAgent(services.NewHTTPCatalogClient(apiBase), services.NewSessionStore())
		runChat(agent)
		return
	}

	// Initialize storage
	var store storage.Store

	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("Connecting to PostgreSQL database...")
		database.Connect()

		err := database.DB.AutoMigrate(
			&models.Product{},
			&models.Cart{},
			&models.CartItem{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("Database migrations completed")

		store = storage.NewDatabaseStore(database.DB)
	}

	// Seed the catalog when a CSV is configured
	if csvPath := os.Getenv("PRODUCTS_CSV"); csvPath != "" {
		if err := storage.SeedProductsFromCSV(store, csvPath); err != nil {
			log.Printf("Seed failed: %v", err)
		}
	}

	// Twilio is optional in development; the webhook logs replies instead
	twilioService, err := services.NewTwilioService()
	if err != nil {
		log.Printf("Twilio not configured (%v) - WhatsApp replies will be logged only", err)
		twilioService = nil
	}

	sessions := services.NewSessionStore()
	agent := services.NewShoppingAgent(services.NewHTTPCatalogClient(apiBase), sessions)

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "Laburen Shopping Agent v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, OPTIONS",
	}))

	// Health check endpoint with storage status
	app.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		statusCode := fiber.StatusOK

		if os.Getenv("USE_MEMORY_STORE") != "true" && database.DB != nil {
			sqlDB, err := database.DB.DB()
			if err != nil || sqlDB.Ping() != nil {
				status = "unhealthy"
				statusCode = fiber.StatusServiceUnavailable
			}
		}

		response := fiber.Map{
			"status":   status,
			"storage":  storageType(),
			"sessions": sessions.ActiveSessions(),
		}
		if products, err := store.CountProducts(); err == nil {
			carts, _ := store.CountCarts()
			response["catalog"] = fiber.Map{
				"products": products,
				"carts":    carts,
			}
		}

		return c.Status(statusCode).JSON(response)
	})

	routes.SetupRoutes(app, store, agent, twilioService)

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	log.Printf("Laburen shopping agent starting on port %s (storage: %s)", port, storageType())
	log.Fatal(app.Listen(":" + port))
}

func storageType() string {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		return "In-Memory"
	}
	return "PostgreSQL"
}

// runChat is the local conversational loop, one fixed session
func runChat(agent *services.ShoppingAgent) {
	fmt.Println("Agente de compras listo. Escribí 'salir' para terminar.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println("\nChau!")
			return
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		switch strings.ToLower(text) {
		case "salir", "exit", "quit":
			fmt.Println("Chau!")
			return
		}
		fmt.Println(agent.Handle("local-cli", text))
	}
}
