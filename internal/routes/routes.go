package routes

import (
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/lurighe2000/laburen-desafio/internal/handlers"
	"github.com/lurighe2000/laburen-desafio/internal/middleware"
	"github.com/lurighe2000/laburen-desafio/internal/services"
	"github.com/lurighe2000/laburen-desafio/internal/storage"
)

// SetupRoutes configures the catalog API and the conversational transports
func SetupRoutes(app *fiber.App, store storage.Store, agent *services.ShoppingAgent, twilioService *services.TwilioService) {
	productHandler := handlers.NewProductHandler(store)
	cartHandler := handlers.NewCartHandler(store)
	whatsappHandler := handlers.NewWhatsAppHandler(agent, twilioService)

	// Product/Cart API
	app.Get("/products", productHandler.ListProducts)
	app.Get("/products/:id", productHandler.GetProduct)
	app.Post("/carts", cartHandler.CreateCart)
	app.Patch("/carts/:id", cartHandler.PatchCart)

	// WhatsApp webhook
	webhooks := app.Group("/webhook")
	if os.Getenv("ENVIRONMENT") == "development" || os.Getenv("DISABLE_WEBHOOK_VALIDATION") == "true" {
		// Development: skip validation for ngrok
		webhooks.Post("/whatsapp", whatsappHandler.HandleWebhook)
	} else {
		webhooks.Post("/whatsapp", middleware.ValidateTwilioSignature(), whatsappHandler.HandleWebhook)
	}

	// Test endpoint (development only, no Twilio round trip)
	app.Post("/test/whatsapp", whatsappHandler.HandleTestWebhook)
}
