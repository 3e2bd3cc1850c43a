package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lurighe2000/laburen-desafio/internal/services"
)

// WhatsAppHandler bridges Twilio WhatsApp webhooks and the shopping agent
type WhatsAppHandler struct {
	agent         *services.ShoppingAgent
	twilioService *services.TwilioService
}

// NewWhatsAppHandler creates a new WhatsApp handler
func NewWhatsAppHandler(agent *services.ShoppingAgent, twilioService *services.TwilioService) *WhatsAppHandler {
	return &WhatsAppHandler{
		agent:         agent,
		twilioService: twilioService,
	}
}

// TwilioWebhookPayload represents an incoming WhatsApp message from Twilio
type TwilioWebhookPayload struct {
	MessageSid string `form:"MessageSid"`
	AccountSid string `form:"AccountSid"`
	From       string `form:"From"` // WhatsApp number (whatsapp:+5491122334455)
	To         string `form:"To"`
	Body       string `form:"Body"` // Message text
	NumMedia   string `form:"NumMedia"`
}

// HandleWebhook processes incoming WhatsApp messages
func (h *WhatsAppHandler) HandleWebhook(c *fiber.Ctx) error {
	var payload TwilioWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	// Skip status callbacks and media-only events
	if payload.Body == "" || payload.From == "" {
		return c.SendStatus(fiber.StatusOK)
	}

	from := strings.TrimPrefix(payload.From, "whatsapp:")
	log.Printf("WhatsApp message from %s: %s", from, payload.Body)

	reply := h.agent.Handle("wa:"+from, payload.Body)

	if h.twilioService != nil {
		if err := h.twilioService.SendWhatsAppMessage(from, reply); err != nil {
			log.Printf("Failed to send WhatsApp reply to %s: %v", from, err)
		}
	} else {
		log.Printf("Reply (not sent - Twilio not configured): %s", reply)
	}

	return c.SendStatus(fiber.StatusOK)
}

// TestWebhookPayload is the JSON body of the development test endpoint
type TestWebhookPayload struct {
	From    string `json:"from"`
	Message string `json:"message"`
}

// HandleTestWebhook processes test messages without Twilio (for development)
func (h *WhatsAppHandler) HandleTestWebhook(c *fiber.Ctx) error {
	var payload TestWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test payload",
		})
	}

	reply := h.agent.Handle("wa:"+payload.From, payload.Message)

	return c.JSON(fiber.Map{
		"success":  true,
		"response": reply,
	})
}
