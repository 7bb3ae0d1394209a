package api

import (
	"net/http"

	resdto "swapmarket/internal/handler/dto/response"
	"swapmarket/internal/handler/httperr"
	"swapmarket/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductHandler struct {
	q queries.ProductQueries
}

func NewProductHandler(q queries.ProductQueries) *ProductHandler {
	return &ProductHandler{q: q}
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid product ID format", nil)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithKind(c, err, "Get product failed")
		return
	}

	c.JSON(http.StatusOK, resdto.FromProductView(view))
}
