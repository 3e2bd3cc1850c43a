package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSignedApp() *fiber.App {
	app := fiber.New()
	app.Post("/webhook/whatsapp", ValidateTwilioSignature(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func postForm(t *testing.T, app *fiber.App, params map[string]string, signature string) *http.Response {
	t.Helper()

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}

	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if signature != "" {
		req.Header.Set("X-Twilio-Signature", signature)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestValidateTwilioSignatureAccepts(t *testing.T) {
	t.Setenv("TWILIO_AUTH_TOKEN", "secret-token")
	app := newSignedApp()

	params := map[string]string{
		"From": "whatsapp:+5491122334455",
		"Body": "ayuda",
	}
	signature := twilioSignature("secret-token", "http://example.com/webhook/whatsapp", params)

	resp := postForm(t, app, params, signature)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestValidateTwilioSignatureRejectsMissing(t *testing.T) {
	t.Setenv("TWILIO_AUTH_TOKEN", "secret-token")
	app := newSignedApp()

	resp := postForm(t, app, map[string]string{"Body": "ayuda"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestValidateTwilioSignatureRejectsTampered(t *testing.T) {
	t.Setenv("TWILIO_AUTH_TOKEN", "secret-token")
	app := newSignedApp()

	params := map[string]string{"Body": "ayuda"}
	signature := twilioSignature("secret-token", "http://example.com/webhook/whatsapp", params)

	params["Body"] = "quitar producto 1"
	resp := postForm(t, app, params, signature)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
