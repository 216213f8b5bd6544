package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/gigmatch/internal/services"
)

type ChatHandler struct {
	svc services.ChatService
}

func NewChatHandler(svc services.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	out, err := h.svc.ListConversations(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type startConversationRequest struct {
	OtherUser string `json:"other_user" binding:"required"`
}

func (h *ChatHandler) StartConversation(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req startConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "ChatHandler.StartConversation", err)
		return
	}

	conv, err := h.svc.StartWith(c.Request.Context(), userID, req.OtherUser)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

// ListMessages serves GET /messages?conversation=<id>.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	out, err := h.svc.Messages(c.Request.Context(), userID, c.Query("conversation"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type sendMessageRequest struct {
	Conversation string `json:"conversation" binding:"required"`
	Content      string `json:"content" binding:"required"`
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "ChatHandler.SendMessage", err)
		return
	}

	m, err := h.svc.Send(c.Request.Context(), userID, req.Conversation, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *ChatHandler) UnreadCount(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	n, err := h.svc.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": n})
}
