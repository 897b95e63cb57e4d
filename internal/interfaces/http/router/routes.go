package router

import (
	"github.com/gin-gonic/gin"
	"github.com/salesmanager/backend/internal/domain/user"
	"github.com/salesmanager/backend/internal/interfaces/http/handler"
	"github.com/salesmanager/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the HTTP handlers exposed by the API
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Store        *handler.StoreHandler
	Category     *handler.CategoryHandler
	Product      *handler.ProductHandler
	ProductImage *handler.ProductImageHandler
	ProductType  *handler.ProductTypeHandler
	Availability *handler.AvailabilityHandler
	Content      *handler.ContentHandler
	Customer     *handler.CustomerHandler
	Order        *handler.OrderHandler
	Shipping     *handler.ShippingHandler
	Search       *handler.SearchHandler
	System       *handler.SystemHandler
}

// Guards holds the authentication middlewares the route groups depend on.
// Nil guards are skipped.
type Guards struct {
	// Admin authenticates administrator access tokens
	Admin gin.HandlerFunc
	// Customer authenticates customer access tokens
	Customer gin.HandlerFunc
	// Optional attaches claims of anonymous-friendly storefront requests
	Optional gin.HandlerFunc
	// Captcha protects registration and password reset requests
	Captcha gin.HandlerFunc
	// Login throttles credential checks
	Login gin.HandlerFunc
}

func chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

// Storefront declares the anonymous shop routes
func Storefront(h Handlers, g Guards) *DomainGroup {
	shop := NewDomainGroup("storefront", "")
	shop.Use(chain(g.Optional)...)

	shop.GET("/store/:code", h.Store.Get)
	shop.GET("/languages", h.Store.Languages)

	shop.GET("/category", h.Category.List)
	shop.GET("/category/:id", h.Category.Get)
	shop.GET("/category/slug/:seUrl", h.Category.GetBySeUrl)

	shop.GET("/products", h.Product.List)
	shop.GET("/products/:id", h.Product.Get)
	shop.GET("/products/slug/:seUrl", h.Product.GetBySeUrl)
	shop.GET("/products/:id/images", h.ProductImage.List)
	shop.GET("/products/:id/variants/images", h.ProductImage.VariantImages)

	shop.GET("/content/pages", h.Content.Pages)
	shop.GET("/content/boxes", h.Content.Boxes)
	shop.GET("/content/:code", h.Content.GetByCode)
	shop.GET("/content/slug/:seUrl", h.Content.GetBySeUrl)

	shop.GET("/search", h.Search.Search)
	shop.GET("/search/autocomplete", h.Search.Autocomplete)

	shop.POST("/shipping/quote", h.Shipping.Quote)

	customers := shop.Group("customer", "/customer")
	customers.POST("/register", chain(g.Captcha, h.Customer.Register)...)
	customers.POST("/login", chain(g.Login, h.Customer.Login)...)
	customers.POST("/password/reset/request", chain(g.Captcha, h.Customer.RequestPasswordReset)...)
	customers.POST("/password/reset", h.Customer.ResetPassword)
	customers.GET("/unique", h.Customer.EmailExists)

	return shop
}

// CustomerArea declares the routes of signed-in customers
func CustomerArea(h Handlers, g Guards) *DomainGroup {
	area := NewDomainGroup("customer-area", "")
	area.Use(chain(g.Customer, middleware.RequireStoreAccess())...)

	account := area.Group("customer-account", "/auth/customer")
	account.GET("/profile", h.Customer.Profile)
	account.PUT("/profile", h.Customer.UpdateProfile)
	account.PUT("/password", h.Customer.ChangePassword)
	account.POST("/orders", h.Order.Place)
	account.GET("/orders", h.Order.CustomerOrders)
	account.GET("/orders/:id", h.Order.CustomerOrder)

	area.GET("/orders/download/:id", h.Order.Download)

	return area
}

// AdminAuth declares administrator sign-in routes
func AdminAuth(h Handlers, g Guards) *DomainGroup {
	authGroup := NewDomainGroup("auth", "/auth")
	authGroup.POST("/login", chain(g.Login, h.Auth.Login)...)
	authGroup.POST("/refresh", h.Auth.Refresh)
	return authGroup
}

// Administration declares the back office routes. Every route requires an
// administrator token valid for the targeted store; each area further
// restricts the groups allowed in.
func Administration(h Handlers, g Guards) *DomainGroup {
	private := NewDomainGroup("administration", "/private")
	private.Use(chain(g.Admin, middleware.RequireStoreAccess())...)

	private.POST("/logout", h.Auth.Logout)
	private.GET("/users/me", h.Auth.Me)
	private.PUT("/users/me/password", h.Auth.ChangePassword)

	users := private.Group("users", "/users")
	users.Use(middleware.RequireGroups(user.GroupAdmin))
	users.GET("", h.User.List)
	users.GET("/unique", h.User.UsernameExists)
	users.GET("/:id", h.User.Get)
	users.POST("", h.User.Create)
	users.DELETE("/:id", h.User.Delete)

	stores := private.Group("stores", "/stores")
	stores.Use(middleware.RequireGroups(user.GroupAdmin, user.GroupAdminRetail))
	stores.GET("", h.Store.List)
	stores.GET("/unique", h.Store.CodeExists)
	stores.GET("/:code/children", h.Store.Children)
	stores.POST("", h.Store.Create)
	stores.PUT("/:code", h.Store.Update)
	stores.DELETE("/:code", h.Store.Delete)

	catalogue := private.Group("catalogue", "")
	catalogue.Use(middleware.RequireGroups(user.GroupAdmin, user.GroupAdminCatalogue))
	catalogue.GET("/categories", h.Category.AdminTree)
	catalogue.GET("/categories/children", h.Category.Children)
	catalogue.GET("/categories/unique", h.Category.CodeExists)
	catalogue.POST("/categories", h.Category.Create)
	catalogue.PUT("/categories/:id", h.Category.Update)
	catalogue.DELETE("/categories/:id", h.Category.Delete)

	catalogue.GET("/products", h.Product.AdminList)
	catalogue.GET("/products/unique", h.Product.SkuExists)
	catalogue.POST("/products", h.Product.Create)
	catalogue.PUT("/products/:id", h.Product.Update)
	catalogue.DELETE("/products/:id", h.Product.Delete)
	catalogue.POST("/products/:id/images", h.ProductImage.Upload)
	catalogue.POST("/products/:id/images/external", h.ProductImage.AddExternal)
	catalogue.PUT("/products/:id/images/:imageId/default", h.ProductImage.SetDefault)
	catalogue.DELETE("/products/:id/images/:imageId", h.ProductImage.Delete)
	catalogue.GET("/products/:id/availability", h.Availability.ListByProduct)
	catalogue.PUT("/products/:id/availability", h.Availability.Save)

	catalogue.GET("/availability", h.Availability.ListByRegion)
	catalogue.POST("/availability/:availabilityId/adjust", h.Availability.Adjust)
	catalogue.DELETE("/availability/:availabilityId", h.Availability.Delete)

	catalogue.GET("/product-types", h.ProductType.List)
	catalogue.GET("/product-types/:id", h.ProductType.Get)
	catalogue.POST("/product-types", h.ProductType.Create)
	catalogue.PUT("/product-types/:id", h.ProductType.Update)
	catalogue.DELETE("/product-types/:id", h.ProductType.Delete)

	catalogue.POST("/search/index", h.Search.Reindex)

	orders := private.Group("orders", "")
	orders.Use(middleware.RequireGroups(user.GroupAdmin, user.GroupAdminOrder))
	orders.GET("/orders", h.Order.List)
	orders.GET("/orders/number/:number", h.Order.GetByNumber)
	orders.GET("/orders/:id", h.Order.Get)
	orders.PUT("/orders/:id/status", h.Order.ChangeStatus)
	orders.GET("/orders/:id/downloads", h.Order.Downloads)
	orders.POST("/orders/:id/downloads", h.Order.AddDownload)
	orders.GET("/orders/:id/invoice", h.Order.Invoice)

	orders.GET("/customers", h.Customer.List)
	orders.GET("/customers/:id", h.Customer.Get)
	orders.PUT("/customers/:id", h.Customer.Update)
	orders.DELETE("/customers/:id", h.Customer.Delete)

	content := private.Group("content", "/content")
	content.Use(middleware.RequireGroups(user.GroupAdmin, user.GroupAdminContent))
	content.GET("", h.Content.List)
	content.GET("/unique", h.Content.CodeExists)
	content.GET("/files", h.Content.ListFiles)
	content.POST("/files", h.Content.UploadFile)
	content.DELETE("/files", h.Content.RemoveFile)
	content.GET("/folders", h.Content.ListFolders)
	content.POST("/folders", h.Content.AddFolder)
	content.POST("/folders/remove", h.Content.RemoveFolder)
	content.GET("/:id", h.Content.Get)
	content.POST("", h.Content.Create)
	content.PUT("/:id", h.Content.Update)
	content.DELETE("/:id", h.Content.Delete)

	shipping := private.Group("shipping", "/shipping")
	shipping.Use(middleware.RequireGroups(user.GroupAdmin, user.GroupAdminShipping))
	shipping.GET("/origin", h.Shipping.GetOrigin)
	shipping.PUT("/origin", h.Shipping.SaveOrigin)
	shipping.DELETE("/origin", h.Shipping.DeleteOrigin)
	shipping.GET("/configuration", h.Shipping.GetConfiguration)
	shipping.PUT("/configuration", h.Shipping.SaveConfiguration)

	return private
}

// RegisterAPI declares every versioned API group on the router
func RegisterAPI(r *Router, h Handlers, g Guards) []*DomainGroup {
	groups := []*DomainGroup{
		Storefront(h, g),
		CustomerArea(h, g),
		AdminAuth(h, g),
		Administration(h, g),
	}
	for _, group := range groups {
		r.Register(group)
	}
	return groups
}

// RegisterStatic serves product images and content files outside the API
// prefix. The store middlewares resolve the store the files belong to.
func RegisterStatic(engine *gin.Engine, h Handlers, storeMiddleware ...gin.HandlerFunc) {
	static := engine.Group("/static")
	static.Use(storeMiddleware...)
	static.GET("/products/:sku/:size/:name", h.ProductImage.File)
	static.GET("/files/:type/:name", h.Content.GetFile)
}

// RegisterSystem mounts the probes and system information endpoints
func RegisterSystem(engine *gin.Engine, r *Router, sys *handler.SystemHandler) {
	engine.GET("/health", sys.Health)
	engine.GET("/ready", sys.Ready)
	engine.NoRoute(sys.NoRoute)

	system := NewDomainGroup("system", "/system")
	system.GET("/info", sys.GetSystemInfo)
	system.GET("/ping", sys.Ping)
	r.Register(system)
}
