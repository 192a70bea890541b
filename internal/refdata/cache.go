// Package refdata maintains the process-wide reference-data cache:
// warehouses, employees, counterparties and products, plus lazily loaded
// categories. Concurrent requesters of an uncached bundle share one
// in-flight fetch; a failed fetch clears the in-flight marker so the next
// request retries.
package refdata

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/stockfront/stockfront/internal/backend"
)

// Bundle is the cached cross-entity lookup data used by movement and
// report forms.
type Bundle struct {
	Warehouses     []backend.Warehouse
	Employees      []backend.Employee
	Counterparties []backend.Counterparty
	Products       []backend.Product
}

// Cache memoizes reference data until a catalog write invalidates it.
// RegisterProduct patches the product list in place after a confirmed
// server-side create, avoiding a refetch for the common inline flow.
type Cache struct {
	api *backend.Client

	mu         sync.RWMutex
	bundle     *Bundle
	categories []backend.Category

	group singleflight.Group
}

// New constructs an empty cache over the backend client.
func New(api *backend.Client) *Cache {
	return &Cache{api: api}
}

// References returns the cached bundle, or fetches it once. The four
// lists are loaded in parallel; any failure fails the whole bundle and is
// delivered to every concurrent waiter.
func (c *Cache) References(ctx context.Context) (*Bundle, error) {
	c.mu.RLock()
	cached := c.bundle
	c.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	result, err, _ := c.group.Do("references", func() (any, error) {
		// Re-check under the flight: a previous caller may have
		// populated the cache between the fast path and here.
		c.mu.RLock()
		existing := c.bundle
		c.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		bundle, err := c.fetchBundle(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.bundle = bundle
		c.mu.Unlock()
		return bundle, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Bundle), nil
}

func (c *Cache) fetchBundle(ctx context.Context) (*Bundle, error) {
	bundle := &Bundle{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bundle.Warehouses, err = c.api.Warehouses(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		bundle.Employees, err = c.api.Employees(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		bundle.Counterparties, err = c.api.Counterparties(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		bundle.Products, err = c.api.Products(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bundle, nil
}

// Categories returns the cached category list, fetching it on first use.
// Categories are only needed by the inline product form and the report
// filter, so they are not part of the main bundle.
func (c *Cache) Categories(ctx context.Context) ([]backend.Category, error) {
	c.mu.RLock()
	cached := c.categories
	c.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	result, err, _ := c.group.Do("categories", func() (any, error) {
		c.mu.RLock()
		existing := c.categories
		c.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		categories, err := c.api.Categories(ctx)
		if err != nil {
			return nil, err
		}
		if categories == nil {
			categories = []backend.Category{}
		}
		c.mu.Lock()
		c.categories = categories
		c.mu.Unlock()
		return categories, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]backend.Category), nil
}

// RegisterProduct appends a server-confirmed product to the cached list
// without refetching. No-op when the bundle was never loaded.
func (c *Cache) RegisterProduct(p backend.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bundle == nil {
		return
	}
	c.bundle.Products = append(c.bundle.Products, p)
}

// Invalidate drops the cached bundle. The next References call refetches.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.bundle = nil
	c.mu.Unlock()
}

// InvalidateCategories drops the cached category list.
func (c *Cache) InvalidateCategories() {
	c.mu.Lock()
	c.categories = nil
	c.mu.Unlock()
}

// ProductByName resolves a product by exact, case-insensitive name match
// against the cached list.
func (c *Cache) ProductByName(name string) (backend.Product, bool) {
	needle := strings.TrimSpace(name)
	if needle == "" {
		return backend.Product{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.bundle == nil {
		return backend.Product{}, false
	}
	for _, p := range c.bundle.Products {
		if strings.EqualFold(strings.TrimSpace(p.Name), needle) {
			return p, true
		}
	}
	return backend.Product{}, false
}

// SortedProductNames returns the cached product names in collated order
// for type-ahead suggestion lists.
func (c *Cache) SortedProductNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.bundle == nil {
		return nil
	}
	names := make([]string, 0, len(c.bundle.Products))
	for _, p := range c.bundle.Products {
		names = append(names, p.Name)
	}
	col := collate.New(language.Russian, collate.IgnoreCase)
	sort.Slice(names, func(i, j int) bool {
		return col.CompareString(names[i], names[j]) < 0
	})
	return names
}
