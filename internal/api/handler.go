// Package api exposes the storefront over HTTP with gin.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"hoodies-be/internal/auth"
	"hoodies-be/internal/cart"
	"hoodies-be/internal/checkout"
	"hoodies-be/internal/logger"
	"hoodies-be/internal/metrics"
	"hoodies-be/internal/middleware"
	"hoodies-be/internal/order"
	"hoodies-be/internal/product"
	"hoodies-be/internal/profile"
	"hoodies-be/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errBadRequest = errors.New("invalid request")

// ImageUploader stores product images and returns their public URL.
type ImageUploader interface {
	UploadProductImage(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error)
}

type Deps struct {
	Products product.Service
	Carts    cart.Service
	Checkout checkout.Service
	Orders   order.Service
	Profiles profile.Service
	Uploader ImageUploader
	Admins   middleware.AdminChecker
	Metrics  *metrics.Checkout
}

type Handler struct {
	products product.Service
	carts    cart.Service
	checkout checkout.Service
	orders   order.Service
	profiles profile.Service
	uploader ImageUploader
	admins   middleware.AdminChecker
	metrics  *metrics.Checkout
}

func NewHandler(d Deps) *Handler {
	if d.Metrics == nil {
		d.Metrics = &metrics.Checkout{}
	}
	return &Handler{
		products: d.Products,
		carts:    d.Carts,
		checkout: d.Checkout,
		orders:   d.Orders,
		profiles: d.Profiles,
		uploader: d.Uploader,
		admins:   d.Admins,
		metrics:  d.Metrics,
	}
}

// Register mounts every route on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/products", h.listProducts)
	r.GET("/products/featured", h.featuredProducts)
	r.GET("/products/:id", h.getProduct)

	r.GET("/cart", h.getCart)
	r.POST("/cart/items", h.addCartItem)
	r.PATCH("/cart/items", h.updateCartItem)
	r.DELETE("/cart/items", h.removeCartItem)
	r.DELETE("/cart", h.clearCart)

	user := r.Group("/", middleware.RequireUser())
	user.GET("/checkout", h.checkoutForm)
	user.POST("/checkout", h.placeOrder)
	user.GET("/orders", h.myOrders)
	user.GET("/profile", h.getProfile)
	user.PUT("/profile", h.updateProfile)

	admin := r.Group("/admin", middleware.RequireUser(), middleware.RequireAdmin(h.admins))
	admin.GET("/stats", h.adminStats)
	admin.GET("/metrics", h.adminMetrics)
	admin.GET("/products", h.adminListProducts)
	admin.POST("/products", h.createProduct)
	admin.PUT("/products/:id", h.updateProduct)
	admin.DELETE("/products/:id", h.deleteProduct)
	admin.POST("/products/images", h.uploadProductImage)
	admin.GET("/orders", h.adminListOrders)
	admin.PATCH("/orders/:id/status", h.updateOrderStatus)
}

// sessionID keys the cart by the browser session header when present,
// otherwise by the signed-in user.
func sessionID(c *gin.Context) (string, error) {
	if raw := c.GetHeader(middleware.SessionHeader); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return "", cart.ErrMissingSession
		}
		return id.String(), nil
	}
	if userID, ok := auth.GetUserIDFromContext(c.Request.Context()); ok {
		return userID, nil
	}
	return "", cart.ErrMissingSession
}

func currentUser(c *gin.Context) (string, string) {
	ctx := c.Request.Context()
	userID, _ := auth.GetUserIDFromContext(ctx)
	return userID, auth.GetUserEmailFromContext(ctx)
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, product.ErrInvalidID
	}
	return id, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, checkout.ErrUserNotAuthenticated),
		errors.Is(err, order.ErrUnauthorized),
		errors.Is(err, profile.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, order.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, product.ErrInvalidProduct),
		errors.Is(err, product.ErrInvalidID),
		errors.Is(err, cart.ErrMissingSession),
		errors.Is(err, cart.ErrSizeRequired),
		errors.Is(err, cart.ErrInvalidSize),
		errors.Is(err, cart.ErrOutOfStock),
		errors.Is(err, checkout.ErrCartEmpty),
		errors.Is(err, checkout.ErrMissingAddressField),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, storage.ErrNotAnImage),
		errors.Is(err, storage.ErrEmptyFile):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotConfigured),
		errors.Is(err, cart.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()

	if status == http.StatusInternalServerError {
		logger.FromCtx(c.Request.Context()).Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		msg = "internal server error"
		if errors.Is(err, checkout.ErrPlaceOrderFailed) {
			msg = checkout.ErrPlaceOrderFailed.Error()
		}
	}

	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
