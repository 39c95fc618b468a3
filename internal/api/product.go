package api

import (
	"net/http"
	"strconv"

	"hoodies-be/internal/product"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listProducts(c *gin.Context) {
	opts := product.ListOptions{
		Search: c.Query("search"),
		Sort:   product.SortOrder(c.DefaultQuery("sort", string(product.SortNewest))),
	}
	if v, err := strconv.ParseBool(c.Query("in_stock")); err == nil {
		opts.InStock = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		opts.Limit = v
	}

	products, err := h.products.List(c.Request.Context(), opts)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) featuredProducts(c *gin.Context) {
	products, err := h.products.Featured(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) getProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	p, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) adminListProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context(), product.ListOptions{
		Search: c.Query("search"),
		Sort:   product.SortNewest,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) createProduct(c *gin.Context) {
	var input product.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		writeError(c, errBadRequest)
		return
	}

	p, err := h.products.Create(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	var input product.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		writeError(c, errBadRequest)
		return
	}

	p, err := h.products.Update(c.Request.Context(), id, input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) uploadProductImage(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		writeError(c, errBadRequest)
		return
	}

	file, err := header.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer file.Close()

	url, err := h.uploader.UploadProductImage(
		c.Request.Context(),
		header.Filename,
		header.Header.Get("Content-Type"),
		file,
		header.Size,
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"image_url": url})
}
