package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mpozdnyakov/storefront/internal/handlers"
	"github.com/mpozdnyakov/storefront/internal/identity"
)

type Deps struct {
	DB             *gorm.DB
	JWTSecret      []byte
	ProductHandler *handlers.ProductHandler
	CartHandler    *handlers.CartHandler
	OrderHandler   *handlers.OrderHandler
	AddressHandler *handlers.AddressHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")
	authed := identity.Middleware(d.DB, d.JWTSecret)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)

	admin := v1.Group("/admin", authed, identity.AdminOnly)
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	admin.GET("/orders", d.OrderHandler.ListAllOrders)
	admin.GET("/orders/users/:id", d.OrderHandler.ListUserOrders)
	admin.PUT("/orders/:id/status", d.OrderHandler.ChangeStatus)

	cart := v1.Group("/cart", authed)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.PUT("/:id", d.CartHandler.UpdateCartItem)
	cart.DELETE("/:id", d.CartHandler.DeleteCartItem)

	orders := v1.Group("/orders", authed)
	orders.POST("", d.OrderHandler.PlaceOrder)
	orders.GET("", d.OrderHandler.ListMyOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.PUT("/:id/cancel", d.OrderHandler.CancelOrder)

	addresses := v1.Group("/addresses", authed)
	addresses.POST("", d.AddressHandler.AddAddress)
	addresses.GET("", d.AddressHandler.ListAddresses)
	addresses.DELETE("/:id", d.AddressHandler.DeleteAddress)

	v1.PUT("/users/me", d.AddressHandler.UpdateDefaults, authed)
}
