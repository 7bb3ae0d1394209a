package api

import (
	"net/http"

	reqdto "swapmarket/internal/handler/dto/request"
	resdto "swapmarket/internal/handler/dto/response"
	"swapmarket/internal/handler/httperr"
	"swapmarket/internal/handler/middleware"
	"swapmarket/internal/pkg/errs"
	"swapmarket/internal/usecase/commands"
	"swapmarket/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NegotiationHandler struct {
	cmds commands.NegotiationCommands
	q    queries.NegotiationQueries
}

func NewNegotiationHandler(cmds commands.NegotiationCommands, q queries.NegotiationQueries) *NegotiationHandler {
	return &NegotiationHandler{cmds: cmds, q: q}
}

func (h *NegotiationHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("missing user context"), "Unauthorized", nil)
		return
	}

	var req reqdto.CreateNegotiationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	cmd := commands.CreateNegotiationCommand{
		DesiredProductID:  req.DesiredProductID,
		OfferedProductIDs: req.OfferedProductIDs,
		Draft:             req.Draft,
	}

	id, err := h.cmds.Create(c.Request.Context(), cmd, userID)
	if err != nil {
		abortWithKind(c, err, "Create negotiation failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *NegotiationHandler) Confirm(c *gin.Context) {
	id, userID, ok := pathIDAndUser(c)
	if !ok {
		return
	}

	var req reqdto.ConfirmNegotiationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.cmds.Confirm(c.Request.Context(), id, req.OfferedProductIDs, userID); err != nil {
		abortWithKind(c, err, "Confirm negotiation failed")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *NegotiationHandler) Accept(c *gin.Context) {
	id, userID, ok := pathIDAndUser(c)
	if !ok {
		return
	}

	if err := h.cmds.Accept(c.Request.Context(), id, userID); err != nil {
		abortWithKind(c, err, "Accept negotiation failed")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *NegotiationHandler) Reject(c *gin.Context) {
	id, userID, ok := pathIDAndUser(c)
	if !ok {
		return
	}

	if err := h.cmds.Reject(c.Request.Context(), id, userID); err != nil {
		abortWithKind(c, err, "Reject negotiation failed")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *NegotiationHandler) Cancel(c *gin.Context) {
	id, userID, ok := pathIDAndUser(c)
	if !ok {
		return
	}

	if err := h.cmds.Cancel(c.Request.Context(), id, userID); err != nil {
		abortWithKind(c, err, "Cancel negotiation failed")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *NegotiationHandler) Get(c *gin.Context) {
	id, userID, ok := pathIDAndUser(c)
	if !ok {
		return
	}

	detail, err := h.q.GetDetail(c.Request.Context(), userID, id)
	if err != nil {
		abortWithKind(c, err, "Get negotiation failed")
		return
	}

	c.JSON(http.StatusOK, resdto.FromNegotiationDetail(detail))
}

func (h *NegotiationHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("missing user context"), "Unauthorized", nil)
		return
	}

	items, err := h.q.ListForUser(c.Request.Context(), userID)
	if err != nil {
		abortWithKind(c, err, "List negotiations failed")
		return
	}

	response := make([]*resdto.NegotiationListResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromNegotiationListItem(item)
	}

	c.JSON(http.StatusOK, response)
}

func pathIDAndUser(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid negotiation ID format", nil)
		return uuid.Nil, uuid.Nil, false
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("missing user context"), "Unauthorized", nil)
		return uuid.Nil, uuid.Nil, false
	}
	return id, userID, true
}

// abortWithKind maps the error kind marks attached in the usecase layer to
// HTTP statuses. Unclassified errors stay internal.
func abortWithKind(c *gin.Context, err error, msg string) {
	switch {
	case errs.Is(err, errs.ErrNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, msg, nil)
	case errs.Is(err, errs.ErrAuthorization):
		httperr.AbortWithError(c, http.StatusForbidden, err, msg, nil)
	case errs.Is(err, errs.ErrConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, msg, nil)
	case errs.Is(err, errs.ErrValidation):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, msg, nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
