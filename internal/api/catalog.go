package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"simulador/pkg/models"
)

func resourcePath(collection, id string) string {
	return "/" + collection + "/" + url.PathEscape(id)
}

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out struct {
		Product []models.Product `json:"product"`
	}
	if err := c.do(ctx, call{op: "ListProducts", method: http.MethodGet, path: "/product", out: &out}); err != nil {
		return nil, err
	}
	return out.Product, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var out struct {
		Product *models.Product `json:"product"`
	}
	if err := c.do(ctx, call{op: "GetProduct", method: http.MethodGet, path: resourcePath("product", id), out: &out}); err != nil {
		return nil, err
	}
	if out.Product == nil {
		return nil, fmt.Errorf("GetProduct: %w", ErrUnexpectedResponse)
	}
	return out.Product, nil
}

func (c *Client) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	return c.saveProduct(ctx, "CreateProduct", http.MethodPost, "/product", in)
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in models.ProductInput) (*models.Product, error) {
	return c.saveProduct(ctx, "UpdateProduct", http.MethodPut, resourcePath("product", id), in)
}

func (c *Client) saveProduct(ctx context.Context, op, method, path string, in models.ProductInput) (*models.Product, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidInput, err)
	}

	var out struct {
		Success bool            `json:"success"`
		Product *models.Product `json:"product"`
	}
	if err := c.do(ctx, call{op: op, method: method, path: path, in: in, out: &out}); err != nil {
		return nil, err
	}
	if out.Product == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnexpectedResponse)
	}
	return out.Product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, call{op: "DeleteProduct", method: http.MethodDelete, path: resourcePath("product", id)})
}

func (c *Client) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var out struct {
		Success  bool              `json:"success"`
		Customer []models.Customer `json:"customer"`
	}
	if err := c.do(ctx, call{op: "ListCustomers", method: http.MethodGet, path: "/customer", out: &out}); err != nil {
		return nil, err
	}
	return out.Customer, nil
}

func (c *Client) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	var out struct {
		Customer *models.Customer `json:"customer"`
	}
	if err := c.do(ctx, call{op: "GetCustomer", method: http.MethodGet, path: resourcePath("customer", id), out: &out}); err != nil {
		return nil, err
	}
	if out.Customer == nil {
		return nil, fmt.Errorf("GetCustomer: %w", ErrUnexpectedResponse)
	}
	return out.Customer, nil
}

func (c *Client) CreateCustomer(ctx context.Context, in models.CustomerInput) (*models.Customer, error) {
	return c.saveCustomer(ctx, "CreateCustomer", http.MethodPost, "/customer", in)
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, in models.CustomerInput) (*models.Customer, error) {
	return c.saveCustomer(ctx, "UpdateCustomer", http.MethodPut, resourcePath("customer", id), in)
}

func (c *Client) saveCustomer(ctx context.Context, op, method, path string, in models.CustomerInput) (*models.Customer, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidInput, err)
	}

	var out struct {
		Success  bool             `json:"success"`
		Customer *models.Customer `json:"customer"`
	}
	if err := c.do(ctx, call{op: op, method: method, path: path, in: in, out: &out}); err != nil {
		return nil, err
	}
	if out.Customer == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnexpectedResponse)
	}
	return out.Customer, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	return c.do(ctx, call{op: "DeleteCustomer", method: http.MethodDelete, path: resourcePath("customer", id)})
}

func (c *Client) ListServices(ctx context.Context) ([]models.Service, error) {
	var out struct {
		Service []models.Service `json:"service"`
	}
	if err := c.do(ctx, call{op: "ListServices", method: http.MethodGet, path: "/service", out: &out}); err != nil {
		return nil, err
	}
	return out.Service, nil
}

func (c *Client) GetService(ctx context.Context, id string) (*models.Service, error) {
	var out struct {
		Service *models.Service `json:"service"`
	}
	if err := c.do(ctx, call{op: "GetService", method: http.MethodGet, path: resourcePath("service", id), out: &out}); err != nil {
		return nil, err
	}
	if out.Service == nil {
		return nil, fmt.Errorf("GetService: %w", ErrUnexpectedResponse)
	}
	return out.Service, nil
}

func (c *Client) CreateService(ctx context.Context, in models.ServiceInput) (*models.Service, error) {
	return c.saveService(ctx, "CreateService", http.MethodPost, "/service", in)
}

func (c *Client) UpdateService(ctx context.Context, id string, in models.ServiceInput) (*models.Service, error) {
	return c.saveService(ctx, "UpdateService", http.MethodPut, resourcePath("service", id), in)
}

func (c *Client) saveService(ctx context.Context, op, method, path string, in models.ServiceInput) (*models.Service, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidInput, err)
	}

	var out struct {
		Success bool            `json:"success"`
		Service *models.Service `json:"service"`
	}
	if err := c.do(ctx, call{op: op, method: method, path: path, in: in, out: &out}); err != nil {
		return nil, err
	}
	if out.Service == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnexpectedResponse)
	}
	return out.Service, nil
}

func (c *Client) DeleteService(ctx context.Context, id string) error {
	return c.do(ctx, call{op: "DeleteService", method: http.MethodDelete, path: resourcePath("service", id)})
}
