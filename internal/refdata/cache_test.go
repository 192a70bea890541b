package refdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockfront/stockfront/internal/backend"
)

type countingBackend struct {
	srv  *httptest.Server
	hits map[string]*int64
	fail atomic.Bool
}

func newCountingBackend(t *testing.T) *countingBackend {
	t.Helper()
	cb := &countingBackend{hits: map[string]*int64{
		"/warehouses":     new(int64),
		"/employees":      new(int64),
		"/counterparties": new(int64),
		"/products":       new(int64),
		"/categories":     new(int64),
	}}
	bodies := map[string]string{
		"/warehouses":     `[{"id":1,"name":"Основной"}]`,
		"/employees":      `[{"id":20,"name":"Иванов"}]`,
		"/counterparties": `[{"id":10,"name":"ООО Ромашка"}]`,
		"/products":       `[{"id":100,"name":"Гвозди","info":null},{"id":101,"name":"арматура","info":null},{"id":102,"name":"Бетон","info":null}]`,
		"/categories":     `[{"id":5,"name":"Стройматериалы"}]`,
	}
	cb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter, ok := cb.hits[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		atomic.AddInt64(counter, 1)
		if cb.fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(bodies[r.URL.Path]))
	}))
	t.Cleanup(cb.srv.Close)
	return cb
}

func (cb *countingBackend) count(path string) int64 {
	return atomic.LoadInt64(cb.hits[path])
}

func TestReferencesCoalescesConcurrentFetches(t *testing.T) {
	cb := newCountingBackend(t)
	cache := New(backend.NewClient(cb.srv.URL, nil))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bundle, err := cache.References(context.Background())
			assert.NoError(t, err)
			assert.NotNil(t, bundle)
		}()
	}
	wg.Wait()

	for _, path := range []string{"/warehouses", "/employees", "/counterparties", "/products"} {
		assert.EqualValues(t, 1, cb.count(path), "path %s", path)
	}
	assert.EqualValues(t, 0, cb.count("/categories"), "categories load lazily")
}

func TestReferencesRetriesAfterFailure(t *testing.T) {
	cb := newCountingBackend(t)
	cb.fail.Store(true)
	cache := New(backend.NewClient(cb.srv.URL, nil))

	_, err := cache.References(context.Background())
	require.Error(t, err)

	cb.fail.Store(false)
	bundle, err := cache.References(context.Background())
	require.NoError(t, err)
	assert.Len(t, bundle.Warehouses, 1)
	assert.Len(t, bundle.Products, 3)
}

func TestReferencesServedFromCache(t *testing.T) {
	cb := newCountingBackend(t)
	cache := New(backend.NewClient(cb.srv.URL, nil))

	first, err := cache.References(context.Background())
	require.NoError(t, err)
	second, err := cache.References(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, cb.count("/products"))
}

func TestInvalidateForcesRefetch(t *testing.T) {
	cb := newCountingBackend(t)
	cache := New(backend.NewClient(cb.srv.URL, nil))

	_, err := cache.References(context.Background())
	require.NoError(t, err)
	cache.Invalidate()
	_, err = cache.References(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 2, cb.count("/warehouses"))
}

func TestCategoriesLazyAndCached(t *testing.T) {
	cb := newCountingBackend(t)
	cache := New(backend.NewClient(cb.srv.URL, nil))

	categories, err := cache.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Стройматериалы", categories[0].Name)

	_, err = cache.Categories(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, cb.count("/categories"))

	cache.InvalidateCategories()
	_, err = cache.Categories(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, cb.count("/categories"))
}

func TestProductByNameCaseInsensitive(t *testing.T) {
	cb := newCountingBackend(t)
	cache := New(backend.NewClient(cb.srv.URL, nil))
	_, err := cache.References(context.Background())
	require.NoError(t, err)

	p, ok := cache.ProductByName("гвозди")
	require.True(t, ok)
	assert.Equal(t, int64(100), p.ID)

	p, ok = cache.ProductByName("  Арматура ")
	require.True(t, ok)
	assert.Equal(t, int64(101), p.ID)

	_, ok = cache.ProductByName("кирпич")
	assert.False(t, ok)
	_, ok = cache.ProductByName("   ")
	assert.False(t, ok)
}

func TestProductByNameBeforeLoad(t *testing.T) {
	cache := New(backend.NewClient("http://127.0.0.1:0", nil))
	_, ok := cache.ProductByName("Гвозди")
	assert.False(t, ok)
	assert.Nil(t, cache.SortedProductNames())
}

func TestRegisterProductPatchesCache(t *testing.T) {
	cb := newCountingBackend(t)
	cache := New(backend.NewClient(cb.srv.URL, nil))
	_, err := cache.References(context.Background())
	require.NoError(t, err)

	cache.RegisterProduct(backend.Product{ID: 103, Name: "Кирпич"})

	p, ok := cache.ProductByName("кирпич")
	require.True(t, ok)
	assert.Equal(t, int64(103), p.ID)
	assert.EqualValues(t, 1, cb.count("/products"), "no refetch after register")
}

func TestSortedProductNamesCollation(t *testing.T) {
	cb := newCountingBackend(t)
	cache := New(backend.NewClient(cb.srv.URL, nil))
	_, err := cache.References(context.Background())
	require.NoError(t, err)

	// Case-insensitive Russian collation puts арматура before Бетон
	// even though 'а' sorts after 'Б' by raw code point.
	names := cache.SortedProductNames()
	assert.Equal(t, []string{"арматура", "Бетон", "Гвозди"}, names)
}
