package api

import (
	"net/http"
	"strconv"

	"hoodies-be/internal/cart"

	"github.com/gin-gonic/gin"
)

type cartItemRequest struct {
	ProductID int64  `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) getCart(c *gin.Context) {
	session, err := sessionID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	view, err := h.carts.Get(c.Request.Context(), session)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) addCartItem(c *gin.Context) {
	session, err := sessionID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errBadRequest)
		return
	}

	view, err := h.carts.Add(c.Request.Context(), cart.AddParams{
		SessionID: session,
		ProductID: req.ProductID,
		Size:      req.Size,
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) updateCartItem(c *gin.Context) {
	session, err := sessionID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errBadRequest)
		return
	}

	view, err := h.carts.UpdateQuantity(c.Request.Context(), cart.UpdateParams{
		SessionID: session,
		ProductID: req.ProductID,
		Size:      req.Size,
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// removeCartItem takes the line key from the query string:
// DELETE /cart/items?product_id=1&size=M
func (h *Handler) removeCartItem(c *gin.Context) {
	session, err := sessionID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	productID, err := strconv.ParseInt(c.Query("product_id"), 10, 64)
	if err != nil {
		writeError(c, errBadRequest)
		return
	}

	view, err := h.carts.Remove(c.Request.Context(), session, productID, c.Query("size"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) clearCart(c *gin.Context) {
	session, err := sessionID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.carts.Clear(c.Request.Context(), session); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
