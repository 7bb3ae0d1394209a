package api

import (
	"net/http"

	reqdto "swapmarket/internal/handler/dto/request"
	resdto "swapmarket/internal/handler/dto/response"
	"swapmarket/internal/handler/httperr"
	"swapmarket/internal/usecase/commands"
	"swapmarket/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	cmds commands.NegotiationCommands
	q    queries.NegotiationQueries
}

func NewMessageHandler(cmds commands.NegotiationCommands, q queries.NegotiationQueries) *MessageHandler {
	return &MessageHandler{cmds: cmds, q: q}
}

func (h *MessageHandler) Send(c *gin.Context) {
	negotiationID, userID, ok := pathIDAndUser(c)
	if !ok {
		return
	}

	var req reqdto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	id, err := h.cmds.SendMessage(c.Request.Context(), negotiationID, req.Content, userID)
	if err != nil {
		abortWithKind(c, err, "Send message failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *MessageHandler) List(c *gin.Context) {
	negotiationID, userID, ok := pathIDAndUser(c)
	if !ok {
		return
	}

	messages, err := h.q.ListMessages(c.Request.Context(), userID, negotiationID)
	if err != nil {
		abortWithKind(c, err, "List messages failed")
		return
	}

	c.JSON(http.StatusOK, resdto.FromMessageList(messages))
}
