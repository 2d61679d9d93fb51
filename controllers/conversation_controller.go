// File: /controllers/conversation_controller.go
package controllers

import (
	"errors"
	"net/http"

	"athlos-api/services"
	"athlos-api/utils"

	"github.com/gin-gonic/gin"
)

type ConversationController struct {
	conversations *services.ConversationService
}

func NewConversationController(conversations *services.ConversationService) *ConversationController {
	return &ConversationController{conversations: conversations}
}

func (cc *ConversationController) ListConversations(c *gin.Context) {
	userID := c.GetString("user_id")

	conversations, err := cc.conversations.ListConversations(c.Request.Context(), userID)
	if err != nil {
		utils.SendError(c, serviceStatus(err), "Failed to load conversations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversations": conversations,
		"count":         len(conversations),
	})
}

type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

func (cc *ConversationController) SendMessage(c *gin.Context) {
	userID := c.GetString("user_id")
	conversationID := c.Param("id")

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	message, err := cc.conversations.SendMessage(c.Request.Context(), conversationID, userID, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			utils.SendValidationError(c, "Message body cannot be empty")
		case errors.Is(err, services.ErrNotFound):
			utils.SendError(c, http.StatusNotFound, "Conversation not found")
		case errors.Is(err, services.ErrForbidden):
			utils.SendError(c, http.StatusForbidden, "You are not part of this conversation")
		default:
			utils.SendError(c, serviceStatus(err), "Failed to send message")
		}
		return
	}

	utils.SendCreated(c, "Message sent", message)
}

func (cc *ConversationController) ListMessages(c *gin.Context) {
	userID := c.GetString("user_id")
	conversationID := c.Param("id")

	messages, err := cc.conversations.ListMessages(c.Request.Context(), conversationID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			utils.SendError(c, http.StatusNotFound, "Conversation not found")
		case errors.Is(err, services.ErrForbidden):
			utils.SendError(c, http.StatusForbidden, "You are not part of this conversation")
		default:
			utils.SendError(c, serviceStatus(err), "Failed to load messages")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"count":    len(messages),
	})
}
