package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salsheli/salsheli-backend/internal/catalog"
	"github.com/salsheli/salsheli-backend/internal/compare"
	"github.com/salsheli/salsheli-backend/internal/search"
	"github.com/salsheli/salsheli-backend/internal/shoppinglist"
	"github.com/salsheli/salsheli-backend/pkg/apperr"
)

type stubCompare struct {
	result compare.Result
	err    error
	items  []compare.ListItem
}

func (s *stubCompare) CompareShoppingList(_ context.Context, items []compare.ListItem) (compare.Result, error) {
	s.items = items
	return s.result, s.err
}

type stubLists struct {
	item    shoppinglist.Item
	items   []shoppinglist.Item
	err     error
	deleted uuid.UUID
}

func (s *stubLists) CreateItem(_ context.Context, listID uuid.UUID, name, code string, qty int) (shoppinglist.Item, error) {
	if s.err != nil {
		return shoppinglist.Item{}, s.err
	}
	item := s.item
	item.ListID = listID
	item.Name = name
	item.ProductCode = code
	item.Quantity = qty
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	return item, nil
}

func (s *stubLists) ListItems(context.Context, uuid.UUID) ([]shoppinglist.Item, error) {
	return s.items, s.err
}

func (s *stubLists) ToggleItem(context.Context, uuid.UUID) (shoppinglist.Item, error) {
	return s.item, s.err
}

func (s *stubLists) UpdateQuantity(_ context.Context, _ uuid.UUID, qty int) (shoppinglist.Item, error) {
	item := s.item
	item.Quantity = qty
	return item, s.err
}

func (s *stubLists) DeleteItem(_ context.Context, id uuid.UUID) error {
	s.deleted = id
	return s.err
}

type stubSearcher struct {
	result search.Result
	err    error
	query  string
}

func (s *stubSearcher) Search(query string, _ search.Filters, _, _ int) (search.Result, error) {
	s.query = query
	return s.result, s.err
}

type stubPopular struct {
	products []catalog.PopularProduct
	err      error
}

func (s *stubPopular) PopularProducts(context.Context, int) ([]catalog.PopularProduct, error) {
	return s.products, s.err
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func newTestRouter(deps Deps) http.Handler {
	return NewRouter(deps)
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCompareEndpoint(t *testing.T) {
	svc := &stubCompare{result: compare.Result{
		SavingsPercentage: "8.3",
		CheapestTotal:     11,
	}}
	router := newTestRouter(Deps{Compare: svc})

	rec := doJSON(t, router, http.MethodPost, "/api/compare", map[string]any{
		"items": []map[string]any{
			{"name": "חלב תנובה 3%", "quantity": 2},
			{"name": "לחם אחיד", "product_code": "7290000000001"},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.items, 2)
	assert.Equal(t, "חלב תנובה 3%", svc.items[0].Name)
	assert.Equal(t, 2, svc.items[0].Quantity)
	assert.Equal(t, "7290000000001", svc.items[1].ProductCode)

	var envelope struct {
		Data compare.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "8.3", envelope.Data.SavingsPercentage)
	assert.Equal(t, 11.0, envelope.Data.CheapestTotal)
}

func TestCompareEndpointEmptyItemsReturnsEmptyResult(t *testing.T) {
	svc := &stubCompare{result: compare.Result{SavingsPercentage: "0.0"}}
	router := newTestRouter(Deps{Compare: svc})

	rec := doJSON(t, router, http.MethodPost, "/api/compare", map[string]any{"items": []any{}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, svc.items)

	var envelope struct {
		Data compare.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "0.0", envelope.Data.SavingsPercentage)
	assert.Empty(t, envelope.Data.Baskets)
}

func TestCompareEndpointRejectsItemWithoutName(t *testing.T) {
	router := newTestRouter(Deps{Compare: &stubCompare{}})

	rec := doJSON(t, router, http.MethodPost, "/api/compare", map[string]any{
		"items": []map[string]any{{"quantity": 1}},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListItemCreate(t *testing.T) {
	lists := &stubLists{item: shoppinglist.Item{ID: uuid.New()}}
	router := newTestRouter(Deps{Lists: lists})
	listID := uuid.New()

	rec := doJSON(t, router, http.MethodPost, "/api/lists/"+listID.String()+"/items", map[string]any{
		"name":     "קוטג' תנובה",
		"quantity": 3,
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var envelope struct {
		Data shoppinglist.Item `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, listID, envelope.Data.ListID)
	assert.Equal(t, "קוטג' תנובה", envelope.Data.Name)
	assert.Equal(t, 3, envelope.Data.Quantity)
}

func TestListItemCreateInvalidListID(t *testing.T) {
	router := newTestRouter(Deps{Lists: &stubLists{}})

	rec := doJSON(t, router, http.MethodPost, "/api/lists/not-a-uuid/items", map[string]any{
		"name": "חלב",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListItemsFetchEmptyIsArray(t *testing.T) {
	router := newTestRouter(Deps{Lists: &stubLists{}})

	rec := doJSON(t, router, http.MethodGet, "/api/lists/"+uuid.NewString()+"/items", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestItemToggleNotFound(t *testing.T) {
	lists := &stubLists{err: apperr.New(apperr.CodeNotFound, "item not found")}
	router := newTestRouter(Deps{Lists: lists})

	rec := doJSON(t, router, http.MethodPost, "/api/items/"+uuid.NewString()+"/toggle", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var envelope struct {
		Error apiError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, string(apperr.CodeNotFound), envelope.Error.Code)
	assert.Equal(t, "item not found", envelope.Error.Message)
}

func TestItemQuantityUpdateRejectsZero(t *testing.T) {
	router := newTestRouter(Deps{Lists: &stubLists{}})

	rec := doJSON(t, router, http.MethodPatch, "/api/items/"+uuid.NewString()+"/", map[string]any{
		"quantity": 0,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestItemDelete(t *testing.T) {
	lists := &stubLists{}
	router := newTestRouter(Deps{Lists: lists})
	id := uuid.New()

	rec := doJSON(t, router, http.MethodDelete, "/api/items/"+id.String()+"/", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, id, lists.deleted)
}

func TestProductSearchRequiresQuery(t *testing.T) {
	router := newTestRouter(Deps{Search: &stubSearcher{}})

	rec := doJSON(t, router, http.MethodGet, "/api/search", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductSearch(t *testing.T) {
	searcher := &stubSearcher{result: search.Result{
		Entries: []catalog.Entry{
			{ProductCode: "7290000000001", ProductName: "חלב תנובה 3%", Price: 6.9, StoreChain: "שופרסל"},
		},
		Total: 1,
	}}
	router := newTestRouter(Deps{Search: searcher})

	rec := doJSON(t, router, http.MethodGet, "/api/search?q=%D7%97%D7%9C%D7%91&max_price=10", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "חלב", searcher.query)

	var envelope struct {
		Data searchResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Products, 1)
	assert.Equal(t, 6.9, envelope.Data.Products[0].Price)
	require.Len(t, envelope.Data.Groups, 1)
	assert.Equal(t, "שופרסל", envelope.Data.Groups[0].Chain)
}

func TestProductSearchGroupsByChainCheapestFirst(t *testing.T) {
	searcher := &stubSearcher{result: search.Result{
		Entries: []catalog.Entry{
			{ProductCode: "1", ProductName: "חלב טרה 3%", Price: 7.5, StoreChain: "shufersal"},
			{ProductCode: "2", ProductName: "חלב תנובה 3%", Price: 6.4, StoreChain: "שופרסל"},
			{ProductCode: "3", ProductName: "חלב תנובה 3%", Price: 5.9, StoreChain: "rami levy"},
		},
		Total: 3,
	}}
	router := newTestRouter(Deps{Search: searcher})

	rec := doJSON(t, router, http.MethodGet, "/api/search?q=%D7%97%D7%9C%D7%91", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data searchResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Groups, 2)
	assert.Equal(t, "רמי לוי", envelope.Data.Groups[0].Chain)
	require.Len(t, envelope.Data.Groups[1].Products, 2)
	assert.Equal(t, 6.4, envelope.Data.Groups[1].Products[0].Price)
}

func TestProductSearchDependencyFailure(t *testing.T) {
	searcher := &stubSearcher{err: errors.New("connection refused")}
	router := newTestRouter(Deps{Search: searcher})

	rec := doJSON(t, router, http.MethodGet, "/api/search?q=milk", nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestPopularProducts(t *testing.T) {
	popular := &stubPopular{products: []catalog.PopularProduct{
		{ProductCode: "7290000000001", ProductName: "חלב תנובה 3%", ChainCount: 4, MinPrice: 5.9, MaxPrice: 7.2},
	}}
	router := newTestRouter(Deps{Popular: popular})

	rec := doJSON(t, router, http.MethodGet, "/api/products/popular?limit=5", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data []catalog.PopularProduct `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, 4, envelope.Data[0].ChainCount)
}

func TestHealthzDatabaseDown(t *testing.T) {
	router := newTestRouter(Deps{DB: stubPinger{err: errors.New("dial tcp: refused")}})

	rec := doJSON(t, router, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthzOK(t *testing.T) {
	router := newTestRouter(Deps{DB: stubPinger{}})

	rec := doJSON(t, router, http.MethodGet, "/healthz", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","database":"ok"}`, rec.Body.String())
}
