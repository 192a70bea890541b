package backend

import (
	"context"
	"fmt"
	"net/http"
)

// Warehouses lists all warehouses.
func (c *Client) Warehouses(ctx context.Context) ([]Warehouse, error) {
	var out []Warehouse
	if err := c.do(ctx, http.MethodGet, "/warehouses", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateWarehouse creates a warehouse and returns the stored record.
func (c *Client) CreateWarehouse(ctx context.Context, p WarehousePayload) (*Warehouse, error) {
	var out Warehouse
	if err := c.do(ctx, http.MethodPost, "/warehouses", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateWarehouse replaces a warehouse record.
func (c *Client) UpdateWarehouse(ctx context.Context, id int64, p WarehousePayload) (*Warehouse, error) {
	var out Warehouse
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/warehouses/%d", id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteWarehouse removes a warehouse.
func (c *Client) DeleteWarehouse(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/warehouses/%d", id), nil, nil)
}

// Warehouse fetches one warehouse.
func (c *Client) Warehouse(ctx context.Context, id int64) (*Warehouse, error) {
	var out Warehouse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/warehouses/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WarehouseStockList fetches the current product balances of a warehouse.
func (c *Client) WarehouseStockList(ctx context.Context, id int64) ([]WarehouseStock, error) {
	var out []WarehouseStock
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/warehouses/%d/products", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Categories lists all product categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, p CategoryPayload) (*Category, error) {
	var out Category
	if err := c.do(ctx, http.MethodPost, "/categories", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCategory renames a category.
func (c *Client) UpdateCategory(ctx context.Context, id int64, p CategoryPayload) (*Category, error) {
	var out Category
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/categories/%d", id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/categories/%d", id), nil, nil)
}

// Products lists all products.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProduct creates a product and returns the stored record with its
// server-assigned id.
func (c *Client) CreateProduct(ctx context.Context, p ProductPayload) (*Product, error) {
	var out Product
	if err := c.do(ctx, http.MethodPost, "/products", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct replaces a product record.
func (c *Client) UpdateProduct(ctx context.Context, id int64, p ProductPayload) (*Product, error) {
	var out Product
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil)
}

// Counterparties lists all counterparties.
func (c *Client) Counterparties(ctx context.Context) ([]Counterparty, error) {
	var out []Counterparty
	if err := c.do(ctx, http.MethodGet, "/counterparties", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCounterparty creates a counterparty.
func (c *Client) CreateCounterparty(ctx context.Context, p ContactPayload) (*Counterparty, error) {
	var out Counterparty
	if err := c.do(ctx, http.MethodPost, "/counterparties", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCounterparty replaces a counterparty record.
func (c *Client) UpdateCounterparty(ctx context.Context, id int64, p ContactPayload) (*Counterparty, error) {
	var out Counterparty
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/counterparties/%d", id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCounterparty removes a counterparty.
func (c *Client) DeleteCounterparty(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/counterparties/%d", id), nil, nil)
}

// Employees lists all employees.
func (c *Client) Employees(ctx context.Context) ([]Employee, error) {
	var out []Employee
	if err := c.do(ctx, http.MethodGet, "/employees", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateEmployee creates an employee.
func (c *Client) CreateEmployee(ctx context.Context, p ContactPayload) (*Employee, error) {
	var out Employee
	if err := c.do(ctx, http.MethodPost, "/employees", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEmployee replaces an employee record.
func (c *Client) UpdateEmployee(ctx context.Context, id int64, p ContactPayload) (*Employee, error) {
	var out Employee
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/employees/%d", id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteEmployee removes an employee.
func (c *Client) DeleteEmployee(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/employees/%d", id), nil, nil)
}
