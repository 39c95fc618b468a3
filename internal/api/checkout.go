package api

import (
	"net/http"

	"hoodies-be/internal/checkout"

	"github.com/gin-gonic/gin"
)

func (h *Handler) checkoutForm(c *gin.Context) {
	userID, _ := currentUser(c)
	session, _ := sessionID(c)

	form, err := h.checkout.Defaults(c.Request.Context(), userID, session)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

func (h *Handler) placeOrder(c *gin.Context) {
	userID, email := currentUser(c)
	session, _ := sessionID(c)

	var addr checkout.Address
	if err := c.ShouldBindJSON(&addr); err != nil {
		writeError(c, errBadRequest)
		return
	}

	conf, err := h.checkout.PlaceOrder(c.Request.Context(), checkout.Request{
		UserID:    userID,
		Email:     email,
		SessionID: session,
		Address:   addr,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, conf)
}
