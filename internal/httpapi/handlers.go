package httpapi

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/salsheli/salsheli-backend/internal/catalog"
	"github.com/salsheli/salsheli-backend/internal/chains"
	"github.com/salsheli/salsheli-backend/internal/compare"
	"github.com/salsheli/salsheli-backend/internal/search"
	"github.com/salsheli/salsheli-backend/internal/shoppinglist"
	"github.com/salsheli/salsheli-backend/pkg/apperr"
	"github.com/salsheli/salsheli-backend/pkg/logger"
)

// ComparisonService runs a full price comparison for a shopping list.
type ComparisonService interface {
	CompareShoppingList(ctx context.Context, items []compare.ListItem) (compare.Result, error)
}

// ListStore persists shopping-list items.
type ListStore interface {
	CreateItem(ctx context.Context, listID uuid.UUID, name, productCode string, quantity int) (shoppinglist.Item, error)
	ListItems(ctx context.Context, listID uuid.UUID) ([]shoppinglist.Item, error)
	ToggleItem(ctx context.Context, id uuid.UUID) (shoppinglist.Item, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) (shoppinglist.Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

// ProductSearcher serves free-text product search from the search index.
type ProductSearcher interface {
	Search(query string, filters search.Filters, limit, offset int) (search.Result, error)
}

// PopularLister lists the widest-coverage catalog products.
type PopularLister interface {
	PopularProducts(ctx context.Context, limit int) ([]catalog.PopularProduct, error)
}

// An empty or missing items array is not an error; the comparison returns
// the empty-result shape.
type compareRequest struct {
	Items []compareItemPayload `json:"items" validate:"dive"`
}

type compareItemPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required"`
	ProductCode string `json:"product_code"`
	Quantity    int    `json:"quantity" validate:"min=0"`
}

// CompareList runs the comparison pipeline over the posted items.
func CompareList(svc ComparisonService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload compareRequest
		if err := decodeJSONBody(r, &payload); err != nil {
			writeError(r.Context(), logg, w, err)
			return
		}

		items := make([]compare.ListItem, 0, len(payload.Items))
		for _, it := range payload.Items {
			items = append(items, compare.ListItem{
				ID:          it.ID,
				Name:        it.Name,
				ProductCode: it.ProductCode,
				Quantity:    it.Quantity,
			})
		}

		result, err := svc.CompareShoppingList(r.Context(), items)
		if err != nil {
			writeError(r.Context(), logg, w, apperr.Wrap(apperr.CodeInternal, err, "comparison failed"))
			return
		}

		writeSuccess(w, result)
	}
}

type createItemRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	ProductCode string `json:"product_code" validate:"max=64"`
	Quantity    int    `json:"quantity" validate:"min=0"`
}

// ListItemCreate adds an item to a shopping list.
func ListItemCreate(store ListStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listID, err := uuidParam(r, "listID")
		if err != nil {
			writeError(r.Context(), logg, w, err)
			return
		}

		var payload createItemRequest
		if err := decodeJSONBody(r, &payload); err != nil {
			writeError(r.Context(), logg, w, err)
			return
		}

		item, err := store.CreateItem(r.Context(), listID, payload.Name, payload.ProductCode, payload.Quantity)
		if err != nil {
			writeError(r.Context(), logg, w, err)
			return
		}

		writeSuccessStatus(w, http.StatusCreated, item)
	}
}

// ListItemsFetch returns all items of a shopping list in insertion order.
func ListItemsFetch(store ListStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listID, err := uuidParam(r, "listID")
		if err != nil {
			writeError(r.Context(), logg, w, err)
			return
		}

		items, err := store.ListItems(r.Context(), listID)
		if err != nil {
			writeError(r.Context(), logg, w, err)
			return
		}
		if items == nil {
			items = []shoppinglist.Item{}
		}

		writeSuccess(w, items)
	}
}

// ItemToggle flips an item's completed flag.
func ItemToggle(store ListStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "itemID")
		if err != nil {
			writeError(r.Context(), logg, w, err)
			return
		}

		item, err := store.ToggleItem(r.Context(), id)
		if err != nil {
			writeError(r.Context(), logg, w, err)
			return
		}

		writeSuccess(w, item)
	}
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// ItemQuantityUpdate sets an item's quantity.
func ItemQuantityUpdate(store ListStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "itemID")
		if err != nil {
			writeError(r.Context(), logg, w, err)
			return
		}

		var payload updateQuantityRequest
		if err := decodeJSONBody(r, &payload); err != nil {
			writeError(r.Context(), logg, w, err)
			return
		}

		item, err := store.UpdateQuantity(r.Context(), id, payload.Quantity)
		if err != nil {
			writeError(r.Context(), logg, w, err)
			return
		}

		writeSuccess(w, item)
	}
}

// ItemDelete removes an item from its list.
func ItemDelete(store ListStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "itemID")
		if err != nil {
			writeError(r.Context(), logg, w, err)
			return
		}

		if err := store.DeleteItem(r.Context(), id); err != nil {
			writeError(r.Context(), logg, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

type searchResponse struct {
	Products         []catalog.Entry `json:"products"`
	Groups           []chainGroup    `json:"groups"`
	Total            int             `json:"total"`
	ProcessingTimeMs int             `json:"processing_time_ms"`
}

// chainGroup is one chain's slice of the search results, cheapest first.
type chainGroup struct {
	Chain    string          `json:"chain"`
	Products []catalog.Entry `json:"products"`
}

// ProductSearch serves GET /api/search from the search index. Results come
// back flat and grouped per canonical chain for display.
func ProductSearch(searcher ProductSearcher, normalizer *chains.Normalizer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			writeError(r.Context(), logg, w, apperr.New(apperr.CodeValidation, "query parameter q is required"))
			return
		}

		filters := search.Filters{
			MinPrice: floatQuery(r, "min_price"),
			MaxPrice: floatQuery(r, "max_price"),
		}
		if chains := r.URL.Query().Get("chains"); chains != "" {
			for _, chain := range strings.Split(chains, ",") {
				if chain = strings.TrimSpace(chain); chain != "" {
					filters.Chains = append(filters.Chains, chain)
				}
			}
		}

		result, err := searcher.Search(query, filters, intQuery(r, "limit"), intQuery(r, "offset"))
		if err != nil {
			writeError(r.Context(), logg, w, apperr.Wrap(apperr.CodeDependency, err, "product search unavailable"))
			return
		}

		resp := searchResponse{
			Products:         result.Entries,
			Groups:           groupByChain(normalizer, result.Entries),
			Total:            result.Total,
			ProcessingTimeMs: result.ProcessingTimeMs,
		}
		if resp.Products == nil {
			resp.Products = []catalog.Entry{}
		}
		writeSuccess(w, resp)
	}
}

// PopularProducts serves the home screen's multi-chain product shelf.
func PopularProducts(lister PopularLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := intQuery(r, "limit")
		if limit <= 0 || limit > 100 {
			limit = 20
		}

		products, err := lister.PopularProducts(r.Context(), limit)
		if err != nil {
			writeError(r.Context(), logg, w, apperr.Wrap(apperr.CodeDependency, err, "catalog unavailable"))
			return
		}
		if products == nil {
			products = []catalog.PopularProduct{}
		}

		writeSuccess(w, products)
	}
}

// Pinger reports database liveness.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Healthz reports process and database health.
func Healthz(db Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok"}
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				status["status"] = "degraded"
				status["database"] = "unreachable"
				if logg != nil {
					logg.Warn(r.Context(), "health check database ping failed: "+err.Error())
				}
				writeJSON(w, http.StatusServiceUnavailable, status)
				return
			}
			status["database"] = "ok"
		}
		writeJSON(w, http.StatusOK, status)
	}
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Wrap(apperr.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}

func intQuery(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}

// groupByChain shapes search results for display: one group per canonical
// chain, cheapest entry first, groups ordered by their cheapest price.
func groupByChain(normalizer *chains.Normalizer, entries []catalog.Entry) []chainGroup {
	matched := compare.MatchByChain(normalizer, entries)
	groups := make([]chainGroup, 0, len(matched))
	for chain, products := range matched {
		groups = append(groups, chainGroup{Chain: chain, Products: products})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Products[0].Price < groups[j].Products[0].Price
	})
	return groups
}

func floatQuery(r *http.Request, name string) float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}
