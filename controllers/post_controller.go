// File: /controllers/post_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"athlos-api/models"
	"athlos-api/services"
	"athlos-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostController struct {
	db          *gorm.DB
	feedService *services.FeedService
	engagement  *services.EngagementService
	bookmarks   *services.BookmarkService
	viral       *services.ViralService
}

func NewPostController(db *gorm.DB, feedService *services.FeedService, engagement *services.EngagementService, bookmarks *services.BookmarkService, viral *services.ViralService) *PostController {
	return &PostController{
		db:          db,
		feedService: feedService,
		engagement:  engagement,
		bookmarks:   bookmarks,
		viral:       viral,
	}
}

type CreatePostRequest struct {
	Text      string   `json:"text"`
	ImageUrls []string `json:"image_urls"`
	VideoURL  string   `json:"video_url"`
	Sport     string   `json:"sport"`
	Hashtags  []string `json:"hashtags"`
}

func (pc *PostController) CreatePost(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	if req.Text == "" && len(req.ImageUrls) == 0 && req.VideoURL == "" {
		utils.SendValidationError(c, "Post must have text, images or a video")
		return
	}
	if len(req.Text) > 2000 {
		utils.SendValidationError(c, "Post text cannot exceed 2000 characters")
		return
	}

	post := models.Post{
		ID:        uuid.New().String(),
		AuthorID:  userID,
		Text:      req.Text,
		ImageUrls: models.StringSlice(req.ImageUrls),
		VideoURL:  req.VideoURL,
		Sport:     req.Sport,
		Hashtags:  models.StringSlice(req.Hashtags),
	}

	if err := pc.db.Create(&post).Error; err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to create post")
		return
	}

	utils.SendCreated(c, "Post created", post)
}

func (pc *PostController) GetPost(c *gin.Context) {
	postID := c.Param("id")

	var post models.Post
	if err := pc.db.Preload("Author").First(&post, "id = ?", postID).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "Post not found")
		return
	}
	post.Author.Password = ""

	c.JSON(http.StatusOK, gin.H{"post": post})
}

type UpdatePostRequest struct {
	Text     *string   `json:"text"`
	Sport    *string   `json:"sport"`
	Hashtags *[]string `json:"hashtags"`
}

func (pc *PostController) UpdatePost(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("id")

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	var post models.Post
	if err := pc.db.First(&post, "id = ?", postID).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "Post not found")
		return
	}
	if post.AuthorID != userID {
		utils.SendError(c, http.StatusForbidden, "You can only edit your own posts")
		return
	}

	updates := map[string]interface{}{}
	if req.Text != nil {
		if len(*req.Text) > 2000 {
			utils.SendValidationError(c, "Post text cannot exceed 2000 characters")
			return
		}
		updates["text"] = *req.Text
	}
	if req.Sport != nil {
		updates["sport"] = *req.Sport
	}
	if req.Hashtags != nil {
		updates["hashtags"] = models.StringSlice(*req.Hashtags)
	}
	if len(updates) == 0 {
		utils.SendValidationError(c, "No fields to update")
		return
	}

	if err := pc.db.Model(&post).Updates(updates).Error; err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to update post")
		return
	}

	utils.SendSuccess(c, "Post updated", post)
}

func (pc *PostController) DeletePost(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("id")

	var post models.Post
	if err := pc.db.First(&post, "id = ?", postID).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "Post not found")
		return
	}
	if post.AuthorID != userID {
		utils.SendError(c, http.StatusForbidden, "You can only delete your own posts")
		return
	}

	err := pc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostBookmark{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	utils.SendSuccess(c, "Post deleted", nil)
}

// GetFeed returns the enriched, paginated feed. Sport and author filters
// are applied before pagination.
func (pc *PostController) GetFeed(c *gin.Context) {
	viewerID := c.GetString("user_id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	filter := services.FeedFilter{
		Sport:    c.Query("sport"),
		AuthorID: c.Query("author_id"),
		Page:     page,
		Limit:    limit,
	}

	feed, err := pc.feedService.GetFeed(c.Request.Context(), viewerID, filter)
	if err != nil {
		utils.SendError(c, serviceStatus(err), "Failed to load feed")
		return
	}

	c.JSON(http.StatusOK, feed)
}

// GetTrending returns the ranked viral posts.
func (pc *PostController) GetTrending(c *gin.Context) {
	ranked, err := pc.viral.GetViralPosts(c.Request.Context())
	if err != nil {
		utils.SendError(c, serviceStatus(err), "Failed to load trending posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": ranked,
		"count": len(ranked),
	})
}

func (pc *PostController) ToggleLike(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("id")

	liked, err := pc.engagement.ToggleLike(c.Request.Context(), userID, postID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendError(c, http.StatusNotFound, "Post not found")
			return
		}
		utils.SendError(c, serviceStatus(err), "Failed to toggle like")
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

func (pc *PostController) SharePost(c *gin.Context) {
	postID := c.Param("id")

	if err := pc.engagement.SharePost(c.Request.Context(), postID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendError(c, http.StatusNotFound, "Post not found")
			return
		}
		utils.SendError(c, serviceStatus(err), "Failed to share post")
		return
	}

	utils.SendSuccess(c, "Post shared", nil)
}

type ToggleBookmarkRequest struct {
	FolderID *string `json:"folder_id"`
}

func (pc *PostController) ToggleBookmark(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("id")

	var req ToggleBookmarkRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.SendValidationError(c, err.Error())
			return
		}
	}

	bookmarked, err := pc.bookmarks.ToggleBookmark(c.Request.Context(), userID, postID, req.FolderID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			utils.SendError(c, http.StatusNotFound, "Post or folder not found")
		case errors.Is(err, services.ErrForbidden):
			utils.SendError(c, http.StatusForbidden, "Folder belongs to another user")
		default:
			utils.SendError(c, serviceStatus(err), "Failed to toggle bookmark")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookmarked": bookmarked})
}
