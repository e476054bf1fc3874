package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/legumemart/backend/internal/interfaces/http/handler"
)

// RouteRegistrar registers a set of routes under the API group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts registrars under /api/<version>
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds registrars to be mounted by Setup
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Setup mounts every registrar and returns the API group
func (r *Router) Setup() *gin.RouterGroup {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
	return api
}

// DomainGroup collects the routes of one bounded context before they are
// mounted
type DomainGroup struct {
	name       string
	prefix     string
	routes     []route
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// Handle registers a route for any method
func (dg *DomainGroup) Handle(method, path string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, route{method: method, path: path, handlers: handlers})
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodGet, path, handlers...)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPost, path, handlers...)
}

// PUT registers a PUT route
func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPut, path, handlers...)
}

// PATCH registers a PATCH route
func (dg *DomainGroup) PATCH(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPatch, path, handlers...)
}

// DELETE registers a DELETE route
func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodDelete, path, handlers...)
}

// Group creates a sub-group within this domain
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	subgroup := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, subgroup)
	return subgroup
}

// RegisterRoutes implements RouteRegistrar
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix, dg.middleware...)
	for _, rt := range dg.routes {
		group.Handle(rt.method, rt.path, rt.handlers...)
	}
	for _, subgroup := range dg.subgroups {
		subgroup.RegisterRoutes(group)
	}
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}

// Handlers are the HTTP handlers mounted by Groups
type Handlers struct {
	Items     *handler.ItemHandler
	Purchases *handler.PurchaseHandler
	Packaging *handler.PackagingHandler
	Suppliers *handler.SupplierHandler
	Reports   *handler.ReportHandler
	System    *handler.SystemHandler
}

// Groups builds the API route table
func Groups(h Handlers) []RouteRegistrar {
	inventory := NewDomainGroup("inventory", "/inventory")
	inventory.Group("items", "/items").
		POST("", h.Items.Create).
		GET("", h.Items.List).
		GET("/:id", h.Items.GetByID).
		PUT("/:id", h.Items.Update).
		DELETE("/:id", h.Items.Deactivate).
		POST("/:id/activate", h.Items.Activate).
		POST("/:id/adjustments", h.Items.Adjust).
		GET("/:id/transactions", h.Items.ListTransactions).
		GET("/:id/ledger/verify", h.Items.VerifyLedger)
	inventory.Group("purchases", "/purchases").
		POST("", h.Purchases.Create).
		GET("", h.Purchases.List).
		GET("/:id", h.Purchases.GetByID).
		PATCH("/:id", h.Purchases.Update)

	packaging := NewDomainGroup("packaging", "/packaging")
	packaging.Group("batches", "/batches").
		POST("", h.Packaging.Open).
		GET("", h.Packaging.List).
		GET("/:id", h.Packaging.GetByID).
		PATCH("/:id", h.Packaging.Update).
		POST("/:id/items", h.Packaging.AddItem).
		PATCH("/:id/items/:itemId", h.Packaging.UpdateItem).
		DELETE("/:id/items/:itemId", h.Packaging.RemoveItem).
		POST("/:id/complete", h.Packaging.Complete).
		POST("/:id/cancel", h.Packaging.Cancel)

	suppliers := NewDomainGroup("suppliers", "/suppliers").
		POST("", h.Suppliers.Create).
		GET("", h.Suppliers.List).
		GET("/:id", h.Suppliers.GetByID).
		PUT("/:id", h.Suppliers.Update).
		DELETE("/:id", h.Suppliers.Deactivate)

	reports := NewDomainGroup("reports", "/reports").
		GET("/stock-value", h.Reports.StockValue).
		GET("/purchases", h.Reports.PurchaseSummary).
		GET("/packaging-efficiency", h.Reports.PackagingEfficiency)

	health := NewDomainGroup("health", "").
		GET("/health", h.System.Health)

	system := NewDomainGroup("system", "/system").
		GET("/jobs", h.System.ListJobs).
		POST("/jobs/:name/trigger", h.System.TriggerJob)

	return []RouteRegistrar{inventory, packaging, suppliers, reports, health, system}
}
