package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	Auth      *AuthHTTP
	Cart      *CartHTTP
	Products  *ProductHTTP
	JWTSecret []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/logout", d.Auth.Logout)
	auth.GET("/me", d.Auth.Me, RequireAuth(d.JWTSecret))

	products := api.Group("/products")
	products.GET("", d.Products.List)
	products.GET("/search", d.Products.Search)
	products.GET("/:id", d.Products.Get)

	cart := api.Group("/cart")
	cart.Use(RequireAuth(d.JWTSecret))
	cart.GET("", d.Cart.GetCart)
	cart.GET("/totals", d.Cart.Totals)
	cart.POST("/items", d.Cart.AddItem)
	cart.PATCH("/items/:id", d.Cart.UpdateQuantity)
	cart.DELETE("/items/:id", d.Cart.RemoveItem)
	cart.DELETE("", d.Cart.Clear)
	cart.POST("/checkout", d.Cart.Checkout)
}
