// File: /controllers/bookmark_controller.go
package controllers

import (
	"errors"
	"net/http"

	"athlos-api/models"
	"athlos-api/services"
	"athlos-api/utils"

	"github.com/gin-gonic/gin"
)

type BookmarkController struct {
	bookmarks *services.BookmarkService
}

func NewBookmarkController(bookmarks *services.BookmarkService) *BookmarkController {
	return &BookmarkController{bookmarks: bookmarks}
}

// ListFolders returns the user's folders with their saved posts, including
// the synthetic "All Bookmarks" and "Uncategorized" views.
func (bc *BookmarkController) ListFolders(c *gin.Context) {
	userID := c.GetString("user_id")

	views, err := bc.bookmarks.ListFolders(c.Request.Context(), userID)
	if err != nil {
		utils.SendError(c, serviceStatus(err), "Failed to load bookmark folders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"folders": views})
}

type CreateFolderRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

func (bc *BookmarkController) CreateFolder(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	if req.Color != "" && !utils.IsValidHexColor(req.Color) {
		utils.SendValidationError(c, "Color must be a hex value like #4A90D9")
		return
	}

	folder, err := bc.bookmarks.CreateFolder(c.Request.Context(), userID, req.Name, req.Color)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			utils.SendValidationError(c, "Folder name cannot be empty")
			return
		case errors.Is(err, services.ErrInvalidOperation):
			utils.SendError(c, http.StatusConflict, "A folder with that name already exists")
			return
		}
		utils.SendError(c, serviceStatus(err), "Failed to create folder")
		return
	}

	utils.SendCreated(c, "Folder created", folder)
}

type SaveToFolderRequest struct {
	FolderID *string `json:"folder_id"`
}

// SaveToFolder moves an existing bookmark into a folder, or back to
// uncategorized when folder_id is null.
func (bc *BookmarkController) SaveToFolder(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("id")

	var req SaveToFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	if err := bc.bookmarks.SaveToFolder(c.Request.Context(), userID, postID, req.FolderID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendError(c, http.StatusNotFound, "Bookmark or folder not found")
			return
		}
		utils.SendError(c, serviceStatus(err), "Failed to move bookmark")
		return
	}

	folder := models.SyntheticFolderUncategorized
	if req.FolderID != nil {
		folder = *req.FolderID
	}
	utils.SendSuccess(c, "Bookmark moved", gin.H{"folder_id": folder})
}
