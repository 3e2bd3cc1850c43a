package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/lurighe2000/laburen-desafio/internal/models"
)

const helpMessage = "Puedo buscar productos, ver detalle por id, y gestionar tu carrito:\n" +
	"• Buscar: “buscá medias negras”, “mostrá productos color:negro talle:M”.\n" +
	"• Detalle: “detalle producto 5”.\n" +
	"• Agregar: “agregá 2 del producto 5”. Quitar: “quitar 1 del producto 5”.\n" +
	"• Cambiar cantidad: “cambiar producto 5 a 3”.\n" +
	"• Ver carrito/total: “ver carrito”."

const (
	emptyCartMessage = "Tu carrito está vacío."
	notFoundMessage  = "No encuentro ese producto (404)."
	fallbackMessage  = "No entendí. Escribí “ayuda” para ver ejemplos."
	noResultsMessage = "No encontré productos con ese criterio."
)

// ShoppingAgent turns inbound messages into catalog calls and a reply.
// Handle never fails: every service error is rendered as a user-facing
// message. One cart per session, created on the first mutation.
type ShoppingAgent struct {
	catalog  CatalogClient
	sessions *SessionStore
}

// NewShoppingAgent creates a new shopping agent
func NewShoppingAgent(catalog CatalogClient, sessions *SessionStore) *ShoppingAgent {
	return &ShoppingAgent{
		catalog:  catalog,
		sessions: sessions,
	}
}

// Handle processes one inbound message for a session and returns the reply.
// The session lock is held for the whole turn so concurrent messages for
// the same session cannot interleave their read-call-write sequences.
func (a *ShoppingAgent) Handle(sessionID, text string) string {
	intent := ClassifyIntent(text)
	log.Printf("Session %s: intent %s for %q", sessionID, intent.Kind, text)

	state := a.sessions.Get(sessionID)
	state.mu.Lock()
	defer state.mu.Unlock()

	switch intent.Kind {
	case IntentHelp:
		return helpMessage
	case IntentSearch:
		return a.handleSearch(state, intent)
	case IntentDetail:
		return a.handleDetail(intent)
	case IntentAdd, IntentSetQty:
		return a.handleCartChange(state, intent)
	case IntentShowCart:
		return a.handleShowCart(state)
	default:
		return fallbackMessage
	}
}

func (a *ShoppingAgent) handleSearch(state *SessionState, intent Intent) string {
	for k, v := range intent.Filters {
		state.Filters[k] = v
	}

	products, err := a.catalog.ListProducts(intent.Query)
	if err != nil {
		return a.renderError(err)
	}
	if len(products) == 0 {
		return noResultsMessage
	}

	top := products
	if len(top) > 5 {
		top = top[:5]
	}

	var b strings.Builder
	b.WriteString("Productos:")
	for _, p := range top {
		fmt.Fprintf(&b, "\n%d. %s — $%s (stock: %d)", p.ID, p.Name, formatAmount(p.Price), p.Stock)
	}
	if len(products) > 5 {
		hint := ""
		if len(state.Filters) > 0 {
			hint = " (recordando filtros de sesión)"
		}
		fmt.Fprintf(&b, "\n…y %d más. Refiná tu búsqueda.%s", len(products)-5, hint)
	}
	return b.String()
}

func (a *ShoppingAgent) handleDetail(intent Intent) string {
	p, err := a.catalog.GetProduct(intent.ProductID)
	if err != nil {
		return a.renderError(err)
	}

	reply := fmt.Sprintf("%d. %s\n$%s | stock: %d", p.ID, p.Name, formatAmount(p.Price), p.Stock)
	if p.Description != "" {
		reply += "\n" + p.Description
	}
	return reply
}

func (a *ShoppingAgent) handleCartChange(state *SessionState, intent Intent) string {
	// Validate the product exists before touching any cart
	if _, err := a.catalog.GetProduct(intent.ProductID); err != nil {
		return a.renderError(err)
	}

	if state.CartID == 0 {
		cart, err := a.catalog.CreateCart(nil)
		if err != nil {
			return a.renderError(err)
		}
		state.CartID = cart.ID
	}

	// The PATCH endpoint applies qty as a set, not an accumulate, so
	// repeated "agregá 2" turns do not stack. That mismatch with the verb
	// is the catalog API's documented contract and is kept as-is here.
	change := models.CartItemChange{ProductID: intent.ProductID, Qty: intent.Qty}
	cart, err := a.catalog.PatchCart(state.CartID, []models.CartItemChange{change})
	if err != nil {
		return a.renderError(err)
	}

	total := formatAmount(cartTotal(cart))
	switch {
	case intent.Kind == IntentAdd && intent.Qty > 0:
		return fmt.Sprintf("Agregué producto %d x%d. Total: $%s.", intent.ProductID, intent.Qty, total)
	case intent.Kind == IntentAdd:
		return fmt.Sprintf("Quité producto %d x%d. Total: $%s.", intent.ProductID, -intent.Qty, total)
	case intent.Qty == 0:
		return fmt.Sprintf("Eliminé producto %d. Total: $%s.", intent.ProductID, total)
	default:
		return fmt.Sprintf("Dejé producto %d en %du. Total: $%s.", intent.ProductID, intent.Qty, total)
	}
}

func (a *ShoppingAgent) handleShowCart(state *SessionState) string {
	if state.CartID == 0 {
		return emptyCartMessage
	}

	// Empty patch is a no-op that returns current state
	cart, err := a.catalog.PatchCart(state.CartID, nil)
	if errors.Is(err, ErrNotFound) {
		// The cart vanished server-side; forget it so the session recovers
		state.CartID = 0
		return emptyCartMessage
	}
	if err != nil {
		return a.renderError(err)
	}

	if len(cart.Items) == 0 {
		return emptyCartMessage
	}

	var b strings.Builder
	total := 0.0
	for _, item := range cart.Items {
		subtotal := float64(item.Qty) * item.Product.Price
		total += subtotal
		fmt.Fprintf(&b, "- %d %s x%d = $%s\n", item.Product.ID, item.Product.Name, item.Qty, formatAmount(subtotal))
	}
	fmt.Fprintf(&b, "Total: $%s", formatAmount(total))
	return b.String()
}

func (a *ShoppingAgent) renderError(err error) string {
	if errors.Is(err, ErrNotFound) {
		return notFoundMessage
	}
	return fmt.Sprintf("Ocurrió un error con la API. %v", err)
}

func cartTotal(cart *models.Cart) float64 {
	total := 0.0
	for _, item := range cart.Items {
		total += float64(item.Qty) * item.Product.Price
	}
	return total
}

// formatAmount renders prices without a forced decimal tail: 2000, 1099.99
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
