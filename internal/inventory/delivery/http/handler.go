package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/pharmacy-backend/internal/inventory/usecase/command"
	"github.com/tair/pharmacy-backend/internal/inventory/usecase/query"
	"github.com/tair/pharmacy-backend/pkg/apperror"
)

// Commands groups the inventory command handlers
type Commands struct {
	CreateItem       *command.CreateItemHandler
	UpdateItem       *command.UpdateItemHandler
	CreateBatch      *command.CreateBatchHandler
	AdjustBatch      *command.AdjustBatchHandler
	RecalculateStock *command.RecalculateStockHandler
	CreatePurchase   *command.CreatePurchaseHandler
	CreateSale       *command.CreateSaleHandler
	CreateReturn     *command.CreateReturnHandler
	CreateReorder    *command.CreateReorderHandler
	UpdateReorder    *command.UpdateReorderHandler
	DeleteReorder    *command.DeleteReorderHandler
}

// Queries groups the inventory query handlers
type Queries struct {
	ListItems      *query.ListItemsHandler
	GetItem        *query.GetItemHandler
	LookupItems    *query.LookupItemsHandler
	ListBatches    *query.ListBatchesHandler
	ListPurchases  *query.ListPurchasesHandler
	GetPurchase    *query.GetPurchaseHandler
	ListSales      *query.ListSalesHandler
	GetSale        *query.GetSaleHandler
	ListReturns    *query.ListReturnsHandler
	GetReturn      *query.GetReturnHandler
	ListReorders   *query.ListReordersHandler
	ReorderStats   *query.ReorderStatsHandler
	SuggestReorder *query.SuggestReorderHandler
}

// InventoryHandler handles HTTP requests for items, batches, purchases,
// sales, returns and reorders
type InventoryHandler struct {
	cmd Commands
	qry Queries

	batchMutations *prometheus.CounterVec
	salesTotal     prometheus.Counter
	returnsTotal   prometheus.Counter
}

// NewInventoryHandler creates a new inventory handler and registers its
// domain metrics with reg
func NewInventoryHandler(cmd Commands, qry Queries, reg prometheus.Registerer) *InventoryHandler {
	batchMutations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmacy_batch_mutations_total",
			Help: "Committed batch quantity changes by operation",
		},
		[]string{"op"},
	)
	salesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pharmacy_sales_total",
		Help: "Committed sales",
	})
	returnsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pharmacy_returns_total",
		Help: "Committed sale returns",
	})
	reg.MustRegister(batchMutations, salesTotal, returnsTotal)

	return &InventoryHandler{
		cmd:            cmd,
		qry:            qry,
		batchMutations: batchMutations,
		salesTotal:     salesTotal,
		returnsTotal:   returnsTotal,
	}
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/items", h.ListItems).Methods("GET")
	router.HandleFunc("/items", h.CreateItem).Methods("POST")
	router.HandleFunc("/items/lookup", h.LookupItems).Methods("GET")
	router.HandleFunc("/items/recalculate", h.RecalculateStock).Methods("POST")
	router.HandleFunc("/items/{id:[0-9]+}", h.GetItem).Methods("GET")
	router.HandleFunc("/items/{id:[0-9]+}", h.UpdateItem).Methods("PUT")
	router.HandleFunc("/items/{itemId:[0-9]+}/batches", h.ListBatches).Methods("GET")
	router.HandleFunc("/items/{itemId:[0-9]+}/batches", h.CreateBatch).Methods("POST")
	router.HandleFunc("/items/{itemId:[0-9]+}/batches/{batchId:[0-9]+}", h.UpdateBatch).Methods("PUT")

	router.HandleFunc("/purchases", h.ListPurchases).Methods("GET")
	router.HandleFunc("/purchases", h.CreatePurchase).Methods("POST")
	router.HandleFunc("/purchases/{id:[0-9]+}", h.GetPurchase).Methods("GET")

	router.HandleFunc("/sales", h.ListSales).Methods("GET")
	router.HandleFunc("/sales", h.CreateSale).Methods("POST")
	router.HandleFunc("/sales/{id:[0-9]+}", h.GetSale).Methods("GET")
	router.HandleFunc("/sales/{saleId:[0-9]+}/returns", h.ListReturns).Methods("GET")
	router.HandleFunc("/sales/{saleId:[0-9]+}/returns", h.CreateReturn).Methods("POST")
	router.HandleFunc("/sales/{saleId:[0-9]+}/returns/{returnId:[0-9]+}", h.GetReturn).Methods("GET")

	router.HandleFunc("/reorders", h.ListReorders).Methods("GET")
	router.HandleFunc("/reorders", h.CreateReorder).Methods("POST")
	router.HandleFunc("/reorders/stats", h.ReorderStats).Methods("GET")
	router.HandleFunc("/reorders/suggest/{itemId:[0-9]+}", h.SuggestReorder).Methods("GET")
	router.HandleFunc("/reorders/{id:[0-9]+}", h.UpdateReorder).Methods("PUT")
	router.HandleFunc("/reorders/{id:[0-9]+}", h.DeleteReorder).Methods("DELETE")
}

func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 32)
	if err != nil || id == 0 {
		return 0, apperror.Validation("Invalid %s", name)
	}
	return uint(id), nil
}

func queryInt(r *http.Request, name string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(name))
	return v
}

func queryUint(r *http.Request, name string) (*uint, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, apperror.Validation("Invalid %s", name)
	}
	id := uint(v)
	return &id, nil
}
