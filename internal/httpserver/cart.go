package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/quickcart-shop/quickcart/internal/cart"
	"github.com/quickcart-shop/quickcart/internal/catalog"
	"github.com/quickcart-shop/quickcart/internal/logging"
)

type CartHTTP struct {
	Svc     *cart.Service
	Catalog *catalog.Catalog
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	items := h.Svc.Items(ctx)
	return c.JSON(http.StatusOK, echo.Map{
		"items":  items,
		"count":  h.Svc.ItemCount(ctx),
		"totals": h.Svc.Totals(ctx),
	})
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req struct {
		ProductID int `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	product, ok := h.Catalog.Get(req.ProductID)
	if !ok {
		l.Warn("add_to_cart_error", "status", 404, "product_id", req.ProductID)
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}

	item, err := h.Svc.Add(ctx, product)
	if err != nil {
		l.Error("add_to_cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	l.Info("item added to cart", "product_id", product.ID, "quantity", item.Quantity)
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.set_quantity")

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("set_quantity_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	if err := h.Svc.SetQuantity(ctx, productID, req.Quantity); err != nil {
		l.Error("set_quantity_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": h.Svc.Items(ctx)})
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	if err := h.Svc.Remove(ctx, productID); err != nil {
		l.Error("remove_from_cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	if err := h.Svc.Clear(ctx); err != nil {
		l.Error("clear_cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	l.Info("cart cleared")
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) Totals(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Svc.Totals(c.Request().Context()))
}

func (h *CartHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")

	totals, err := h.Svc.Checkout(ctx)
	if err != nil {
		if errors.Is(err, cart.ErrEmptyCart) {
			l.Warn("checkout_error", "status", 400, "reason", "empty cart")
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "cart is empty"})
		}
		l.Error("checkout_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	l.Info("order placed", "total", totals.Total)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "order placed",
		"totals":  totals,
	})
}
