package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jewelstack/jewelpos-backend/api/controllers"
	"github.com/jewelstack/jewelpos-backend/api/middleware"
	"github.com/jewelstack/jewelpos-backend/internal/appstate"
	"github.com/jewelstack/jewelpos-backend/internal/billing"
	billsvc "github.com/jewelstack/jewelpos-backend/internal/bills"
	inventorysvc "github.com/jewelstack/jewelpos-backend/internal/inventory"
	"github.com/jewelstack/jewelpos-backend/internal/rates"
	"github.com/jewelstack/jewelpos-backend/pkg/config"
	"github.com/jewelstack/jewelpos-backend/pkg/db"
	"github.com/jewelstack/jewelpos-backend/pkg/logger"
	"github.com/jewelstack/jewelpos-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers. Optional fields
// (Registry, RedisClient) may be nil; the affected routes degrade rather
// than panic.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DBPinger    db.Pinger
	RedisClient *redis.Client
	Registry    *prometheus.Registry

	State       *appstate.State
	Snapshotter *appstate.Snapshotter
	Bills       billsvc.Service
	Inventory   inventorysvc.Service
	Sessions    *billing.SessionStore
	Engine      *billing.Engine
	RateCache   *rates.Cache
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(d.Logger),
		middleware.RequestID(d.Logger),
		middleware.Logging(d.Logger),
		middleware.Session(d.Logger),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(d.Config))
		r.Get("/ready", controllers.HealthReady(d.Config, d.Logger, d.DBPinger, d.RedisClient))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	salePolicy := middleware.SaleRateLimitPolicy{
		Window: d.Config.SaleLimit.Window,
		Limit:  d.Config.SaleLimit.Limit,
	}

	r.Route("/api/v1", func(r chi.Router) {
		if d.RedisClient != nil {
			r.Use(middleware.Idempotency(d.RedisClient, d.Logger))
		}

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(d.State, d.Logger))
			r.Post("/", controllers.CreateProduct(d.State, d.Logger))
			r.Put("/{productId}", controllers.UpdateProduct(d.State, d.Logger))
			r.Delete("/{productId}", controllers.DeleteProduct(d.State, d.Logger))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.ListCustomers(d.State, d.Logger))
			r.Post("/", controllers.CreateCustomer(d.State, d.Logger))
			r.Put("/{customerId}", controllers.UpdateCustomer(d.State, d.Logger))
			r.Delete("/{customerId}", controllers.DeleteCustomer(d.State, d.Logger))
		})

		r.Route("/bills", func(r chi.Router) {
			r.Get("/", controllers.ListBills(d.State, d.Logger))
			r.Get("/{billNo}", controllers.GetBill(d.Bills, d.Logger))
			r.Delete("/{billNo}", controllers.DeleteBill(d.State, d.Logger))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.ListInventory(d.State, d.Logger))
			r.Put("/", controllers.UpsertInventory(d.State, d.Logger))
			r.Get("/low-stock", controllers.LowStockInventory(d.Inventory, d.Logger))
			r.Get("/reconcile", controllers.ReconcileInventory(d.Inventory, d.Logger))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.ViewCart(d.Sessions, d.Logger))
			r.Delete("/", controllers.ClearCart(d.Sessions, d.Logger))
			r.Post("/items", controllers.AddCartLine(d.Sessions, d.State, d.Logger))
			r.Patch("/items/{productId}", controllers.SetCartQuantity(d.Sessions, d.Logger))
			r.Delete("/items/{productId}", controllers.RemoveCartLine(d.Sessions, d.Logger))
			r.Get("/context", controllers.GetBillingContext(d.Sessions, d.Logger))
			r.Put("/context", controllers.SetBillingContext(d.Sessions, d.Logger))
		})

		if d.RedisClient != nil {
			r.With(middleware.SaleRateLimit(salePolicy, d.RedisClient, d.Logger)).
				Post("/sales", controllers.CompleteSale(d.Engine, d.Sessions, d.State, d.Logger))
		} else {
			r.Post("/sales", controllers.CompleteSale(d.Engine, d.Sessions, d.State, d.Logger))
		}

		r.Route("/rates", func(r chi.Router) {
			r.Get("/", controllers.GetRates(d.RateCache, d.Logger))
			r.Post("/refresh", controllers.RefreshRates(d.RateCache, d.Logger))
		})

		r.Get("/export", controllers.ExportData(d.Snapshotter, d.Logger))
		r.Post("/import", controllers.ImportData(d.Snapshotter, d.Logger))
		r.Post("/refresh", controllers.RefreshData(d.State, d.Logger))
		r.Get("/dashboard", controllers.GetDashboard(d.State, d.Logger))
	})

	return r
}
