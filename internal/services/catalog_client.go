package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lurighe2000/laburen-desafio/internal/models"
)

// ErrNotFound signals that the requested product or cart does not exist
var ErrNotFound = errors.New("not found")

// ServiceError is any catalog API failure that is not a plain 404
type ServiceError struct {
	Status int
	Detail string
}

func (e *ServiceError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Detail)
	}
	return e.Detail
}

// CatalogClient is the contract toward the Product/Cart API
type CatalogClient interface {
	ListProducts(q string) ([]models.Product, error)
	GetProduct(id uint) (*models.Product, error)
	CreateCart(items []models.CartItemChange) (*models.Cart, error)
	PatchCart(cartID uint, items []models.CartItemChange) (*models.Cart, error)
}

// HTTPCatalogClient talks to the catalog API over HTTP
type HTTPCatalogClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPCatalogClient creates a catalog client for the given base URL
func NewHTTPCatalogClient(baseURL string) *HTTPCatalogClient {
	return &HTTPCatalogClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPCatalogClient) ListProducts(q string) ([]models.Product, error) {
	endpoint := c.baseURL + "/products"
	if q != "" {
		endpoint += "?q=" + url.QueryEscape(q)
	}

	var products []models.Product
	if err := c.do(http.MethodGet, endpoint, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *HTTPCatalogClient) GetProduct(id uint) (*models.Product, error) {
	var product models.Product
	if err := c.do(http.MethodGet, fmt.Sprintf("%s/products/%d", c.baseURL, id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *HTTPCatalogClient) CreateCart(items []models.CartItemChange) (*models.Cart, error) {
	if items == nil {
		items = []models.CartItemChange{}
	}
	payload := models.CartCreateRequest{Items: items}

	var cart models.Cart
	if err := c.do(http.MethodPost, c.baseURL+"/carts", payload, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *HTTPCatalogClient) PatchCart(cartID uint, items []models.CartItemChange) (*models.Cart, error) {
	if items == nil {
		items = []models.CartItemChange{}
	}
	payload := models.CartPatchRequest{Items: items}

	var cart models.Cart
	if err := c.do(http.MethodPatch, fmt.Sprintf("%s/carts/%d", c.baseURL, cartID), payload, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// do performs one request and maps the response onto the error taxonomy:
// 404 -> ErrNotFound, any other non-2xx or transport failure -> *ServiceError
func (c *HTTPCatalogClient) do(method, endpoint string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &ServiceError{Detail: err.Error()}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, endpoint, reader)
	if err != nil {
		return &ServiceError{Detail: err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &ServiceError{Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &ServiceError{Status: resp.StatusCode, Detail: strings.TrimSpace(string(detail))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ServiceError{Detail: fmt.Sprintf("malformed response: %v", err)}
	}
	return nil
}
