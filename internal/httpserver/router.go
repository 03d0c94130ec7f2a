package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/storefront/internal/metrics"
	authmw "github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/labstack/echo/v4"
)

type Deps struct {
	AuthHandler     *AuthHTTP
	CartHandler     *CartHTTP
	CatalogHandler  *CatalogHTTP
	CheckoutHandler *CheckoutHTTP
	JWTSecret       []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/metrics", metrics.Handler())

	mw := authmw.New(d.JWTSecret)

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/refresh", d.AuthHandler.Refresh)
	e.POST("/logout", d.AuthHandler.Logout)

	e.GET("/products", d.CatalogHandler.ListProducts)
	e.GET("/products/search", d.CatalogHandler.SearchProducts)
	e.GET("/products/:id", d.CatalogHandler.GetProduct)
	e.GET("/categories", d.CatalogHandler.ListCategories)

	admin := e.Group("", mw.RequireAdmin)
	admin.POST("/products", d.CatalogHandler.CreateProduct)
	admin.PATCH("/products/:id", d.CatalogHandler.UpdateProduct)
	admin.DELETE("/products/:id", d.CatalogHandler.DeleteProduct)
	admin.POST("/categories", d.CatalogHandler.CreateCategory)

	cart := e.Group("/cart", mw.RequireAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/items", d.CartHandler.AddItem)
	cart.PATCH("/items/:product_id", d.CartHandler.UpdateItem)
	cart.DELETE("/items/:product_id", d.CartHandler.RemoveItem)
	cart.DELETE("", d.CartHandler.Clear)

	e.POST("/checkout", d.CheckoutHandler.Checkout, mw.RequireAuth)
	e.GET("/orders", d.CheckoutHandler.ListOrders, mw.RequireAuth)
}
