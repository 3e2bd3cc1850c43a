package services

import (
	"regexp"
	"strconv"
	"strings"
)

// IntentKind identifies one conversational intent
type IntentKind string

const (
	IntentHelp     IntentKind = "help"
	IntentShowCart IntentKind = "show_cart"
	IntentDetail   IntentKind = "detail"
	IntentAdd      IntentKind = "add"
	IntentSetQty   IntentKind = "set_qty"
	IntentSearch   IntentKind = "search"
	IntentFallback IntentKind = "fallback"
)

// Intent is the structured meaning extracted from one inbound message.
// Qty carries a signed delta for IntentAdd and an absolute quantity for
// IntentSetQty. Filters are only populated on IntentSearch.
type Intent struct {
	Kind      IntentKind
	ProductID uint
	Qty       int
	Query     string
	Filters   map[string]string
}

var helpKeywords = []string{"ayuda", "qué sabés hacer", "como uso", "help"}

var searchKeywords = []string{
	"busca", "buscá", "buscar", "productos",
	"tenes", "tenés", "mostra", "mostrá", "mostrame",
}

var (
	reShowCart    = regexp.MustCompile(`\b(carrito|total|ver carrito|mostrar carrito)\b`)
	reDetail      = regexp.MustCompile(`(detalle|info|información)\s+(id|producto)\s*(\d+)`)
	reAddQty      = regexp.MustCompile(`(agrega|agregá|añade|sumar|agregar)\s*(\d+)\s*(?:x|unidades?|u\.?)?\s*(?:del\s*)?(?:producto\s*)?(\d+)`)
	reAddBare     = regexp.MustCompile(`(agrega|agregá|agregar|sumar).*(producto\s*)(\d+)`)
	reRemoveQty   = regexp.MustCompile(`(quita|quitar|remueve|remover|saca|sacar)\s*(\d+)\s*(?:x|unidades?)?\s*(?:del\s*)?(?:producto\s*)?(\d+)`)
	reSetQty      = regexp.MustCompile(`(cambia|cambiar|setea|poner|deja)\s*(?:el\s*)?(?:producto\s*)?(\d+)\s*(?:a|en)\s*(\d+)`)
	reRemoveBare  = regexp.MustCompile(`(quita|quitar|remueve|remover|saca|sacar).*(producto\s*)(\d+)`)
	reFilterColor = regexp.MustCompile(`\b(color|colores?)\s*:\s*([a-záéíóúñ]+)`)
	reFilterSize  = regexp.MustCompile(`\b(talle|tamaño|size)\s*:\s*([a-z0-9\-]+)`)
	reSearchStrip = regexp.MustCompile(`(busca|buscá|buscar|mostra|mostrá|mostrame|productos|tenes|tenés)`)
	reFilterStrip = regexp.MustCompile(`(color\s*:\s*[\wáéíóúñ-]+|talle\s*:\s*[\wáéíóúñ-]+)`)
)

// intentRule is one (predicate, extractor) entry of the classification cascade
type intentRule struct {
	name  string
	match func(t string, filters map[string]string) (Intent, bool)
}

// intentRules is evaluated in order; the first matching rule wins
var intentRules = []intentRule{
	{"help", matchHelp},
	{"show_cart", matchShowCart},
	{"detail", matchDetail},
	{"add_with_qty", matchAddWithQty},
	{"add_bare", matchAddBare},
	{"remove_with_qty", matchRemoveWithQty},
	{"set_qty", matchSetQty},
	{"remove_bare", matchRemoveBare},
	{"search", matchSearch},
}

// ClassifyIntent turns raw text into exactly one Intent. It is pure and
// total: unmatched or ambiguous input resolves to IntentFallback.
func ClassifyIntent(text string) Intent {
	t := strings.ToLower(strings.TrimSpace(text))
	filters := extractFilters(t)

	for _, rule := range intentRules {
		if intent, ok := rule.match(t, filters); ok {
			return intent
		}
	}
	return Intent{Kind: IntentFallback}
}

func matchHelp(t string, _ map[string]string) (Intent, bool) {
	if containsAny(t, helpKeywords) {
		return Intent{Kind: IntentHelp}, true
	}
	return Intent{}, false
}

func matchShowCart(t string, _ map[string]string) (Intent, bool) {
	if reShowCart.MatchString(t) {
		return Intent{Kind: IntentShowCart}, true
	}
	return Intent{}, false
}

func matchDetail(t string, _ map[string]string) (Intent, bool) {
	m := reDetail.FindStringSubmatch(t)
	if m == nil {
		return Intent{}, false
	}
	id, ok := parseID(m[3])
	if !ok {
		return Intent{}, false
	}
	return Intent{Kind: IntentDetail, ProductID: id}, true
}

// "agregá 2 del producto 5" -> relative +2
func matchAddWithQty(t string, _ map[string]string) (Intent, bool) {
	m := reAddQty.FindStringSubmatch(t)
	if m == nil {
		return Intent{}, false
	}
	qty, okQty := parseInt(m[2])
	id, okID := parseID(m[3])
	if !okQty || !okID {
		return Intent{}, false
	}
	return Intent{Kind: IntentAdd, ProductID: id, Qty: qty}, true
}

// "agregar producto 5" -> relative +1
func matchAddBare(t string, _ map[string]string) (Intent, bool) {
	m := reAddBare.FindStringSubmatch(t)
	if m == nil {
		return Intent{}, false
	}
	id, ok := parseID(m[3])
	if !ok {
		return Intent{}, false
	}
	return Intent{Kind: IntentAdd, ProductID: id, Qty: 1}, true
}

// "quitar 1 del producto 5" -> relative -1
func matchRemoveWithQty(t string, _ map[string]string) (Intent, bool) {
	m := reRemoveQty.FindStringSubmatch(t)
	if m == nil {
		return Intent{}, false
	}
	qty, okQty := parseInt(m[2])
	id, okID := parseID(m[3])
	if !okQty || !okID {
		return Intent{}, false
	}
	return Intent{Kind: IntentAdd, ProductID: id, Qty: -qty}, true
}

// "cambiar producto 5 a 3" -> absolute 3
func matchSetQty(t string, _ map[string]string) (Intent, bool) {
	m := reSetQty.FindStringSubmatch(t)
	if m == nil {
		return Intent{}, false
	}
	id, okID := parseID(m[2])
	qty, okQty := parseInt(m[3])
	if !okID || !okQty {
		return Intent{}, false
	}
	return Intent{Kind: IntentSetQty, ProductID: id, Qty: qty}, true
}

// "quitar producto 5" -> absolute 0, full removal
func matchRemoveBare(t string, _ map[string]string) (Intent, bool) {
	m := reRemoveBare.FindStringSubmatch(t)
	if m == nil {
		return Intent{}, false
	}
	id, ok := parseID(m[3])
	if !ok {
		return Intent{}, false
	}
	return Intent{Kind: IntentSetQty, ProductID: id, Qty: 0}, true
}

func matchSearch(t string, filters map[string]string) (Intent, bool) {
	if !containsAny(t, searchKeywords) {
		return Intent{}, false
	}

	q := reSearchStrip.ReplaceAllString(t, "")
	q = reFilterStrip.ReplaceAllString(q, "")
	q = strings.TrimSpace(q)

	return Intent{Kind: IntentSearch, Query: q, Filters: filters}, true
}

// extractFilters pulls color:/talle: fragments from anywhere in the text
func extractFilters(t string) map[string]string {
	filters := map[string]string{}
	if m := reFilterColor.FindStringSubmatch(t); m != nil {
		filters["color"] = m[2]
	}
	if m := reFilterSize.FindStringSubmatch(t); m != nil {
		filters["talle"] = m[2]
	}
	if len(filters) == 0 {
		return nil
	}
	return filters
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseID(s string) (uint, bool) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}
