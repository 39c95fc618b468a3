package api

import (
	"net/http"

	"hoodies-be/internal/profile"

	"github.com/gin-gonic/gin"
)

func (h *Handler) getProfile(c *gin.Context) {
	userID, email := currentUser(c)

	p, err := h.profiles.Get(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if p.Email == "" {
		p.Email = email
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) updateProfile(c *gin.Context) {
	userID, email := currentUser(c)

	var params profile.UpdateParams
	if err := c.ShouldBindJSON(&params); err != nil {
		writeError(c, errBadRequest)
		return
	}

	p, err := h.profiles.Update(c.Request.Context(), userID, email, params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
