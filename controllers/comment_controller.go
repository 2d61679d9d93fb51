// File: /controllers/comment_controller.go
package controllers

import (
	"errors"
	"net/http"

	"athlos-api/services"
	"athlos-api/utils"

	"github.com/gin-gonic/gin"
)

type CommentController struct {
	engagement *services.EngagementService
}

func NewCommentController(engagement *services.EngagementService) *CommentController {
	return &CommentController{engagement: engagement}
}

type CreateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

func (cc *CommentController) CreateComment(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("id")

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	comment, err := cc.engagement.AddComment(c.Request.Context(), userID, postID, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			utils.SendValidationError(c, "Comment body cannot be empty")
		case errors.Is(err, services.ErrNotFound):
			utils.SendError(c, http.StatusNotFound, "Post not found")
		default:
			utils.SendError(c, serviceStatus(err), "Failed to create comment")
		}
		return
	}

	utils.SendCreated(c, "Comment created", comment)
}

func (cc *CommentController) ListComments(c *gin.Context) {
	postID := c.Param("id")

	comments, err := cc.engagement.ListComments(c.Request.Context(), postID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendError(c, http.StatusNotFound, "Post not found")
			return
		}
		utils.SendError(c, serviceStatus(err), "Failed to load comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"count":    len(comments),
	})
}
