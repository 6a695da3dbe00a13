package handlers

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sustaina-market/storefront/internal/aws"
	"github.com/sustaina-market/storefront/internal/cart"
	"github.com/sustaina-market/storefront/internal/catalog"
	"github.com/sustaina-market/storefront/internal/checkout"
	"github.com/sustaina-market/storefront/internal/idempotency"
	"github.com/sustaina-market/storefront/internal/orders"
)

// Config groups the dependencies for the storefront API.
type Config struct {
	DynamoDBClient   aws.DynamoDBAPI
	SQSClient        aws.SQSAPI
	CloudWatchClient aws.CloudWatchAPI
	IdempotencyTable string
	OrdersTable      string
	QueueURL         string
	TTLWindow        time.Duration

	Catalog *catalog.Store
	Carts   *cart.Manager
	Pricing cart.Pricing
}

// api carries the wired services behind the route handlers.
type api struct {
	cfg     Config
	catalog *catalog.Store
	carts   *cart.Manager
	pricing cart.Pricing
	orders  *orders.Store
	placer  *checkout.Placer

	// one flow per cart, so the in-flight guard spans requests
	flowMu sync.Mutex
	flows  map[string]*checkout.Flow
}

// Register mounts all storefront and admin routes.
func Register(r *gin.Engine, cfg Config) {
	idempStore := idempotency.NewStore(cfg.DynamoDBClient, cfg.IdempotencyTable, cfg.TTLWindow)
	ordersStore := orders.NewStore(cfg.DynamoDBClient, cfg.OrdersTable)
	publisher := aws.NewPublisher(cfg.SQSClient, cfg.QueueURL)
	metrics := aws.NewMetrics(cfg.CloudWatchClient)

	a := &api{
		cfg:     cfg,
		catalog: cfg.Catalog,
		carts:   cfg.Carts,
		pricing: cfg.Pricing,
		orders:  ordersStore,
		placer:  checkout.NewPlacer(ordersStore, idempStore, cfg.IdempotencyTable, publisher, metrics),
		flows:   make(map[string]*checkout.Flow),
	}

	r.Use(SessionMiddleware())

	r.GET("/session", a.getSession)

	r.GET("/products", a.listProducts)
	r.GET("/products/:id", a.getProduct)
	r.GET("/deals", a.listDeals)
	r.GET("/recipes", a.listRecipes)

	r.GET("/cart", a.getCart)
	r.POST("/cart/items", a.addCartItem)
	r.PUT("/cart/items/:id", a.updateCartItem)
	r.DELETE("/cart/items/:id", a.removeCartItem)
	r.DELETE("/cart", a.clearCart)

	r.POST("/checkout", a.submitCheckout)

	admin := r.Group("/admin", RequireAdmin())
	admin.GET("/orders", a.listOrders)
	admin.PUT("/orders/:id/status", a.updateOrderStatus)
}

// flowFor returns the checkout flow for a cart, creating it on first use.
// Succeeded is terminal for one checkout session, not for the cart, so a
// flow that already succeeded is replaced with a fresh one.
func (a *api) flowFor(cartID string, st *cart.Store) *checkout.Flow {
	a.flowMu.Lock()
	defer a.flowMu.Unlock()
	if f, ok := a.flows[cartID]; ok && f.State() != checkout.StateSucceeded {
		return f
	}
	f := checkout.NewFlow(st, a.pricing, a.placer)
	a.flows[cartID] = f
	return f
}

// releaseFlow drops a finished flow so throwaway cart ids do not
// accumulate in the registry.
func (a *api) releaseFlow(cartID string) {
	a.flowMu.Lock()
	defer a.flowMu.Unlock()
	delete(a.flows, cartID)
}
