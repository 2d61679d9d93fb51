// File: /controllers/user_controller.go
package controllers

import (
	"errors"
	"net/http"

	"athlos-api/models"
	"athlos-api/services"
	"athlos-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserController struct {
	db            *gorm.DB
	followService *services.FollowService
	counters      *services.CounterService
}

func NewUserController(db *gorm.DB, followService *services.FollowService, counters *services.CounterService) *UserController {
	return &UserController{
		db:            db,
		followService: followService,
		counters:      counters,
	}
}

// GetProfile returns a public profile by id. The viewer's follow state is
// included when the request is authenticated.
func (uc *UserController) GetProfile(c *gin.Context) {
	userID := c.Param("id")

	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "User not found")
		return
	}
	user.Password = ""

	response := gin.H{"user": user}

	if viewerID := c.GetString("user_id"); viewerID != "" && viewerID != userID {
		following, err := uc.followService.IsFollowing(c.Request.Context(), viewerID, userID)
		if err == nil {
			response["viewer_following"] = following
		}
		mutual, err := uc.followService.IsMutual(c.Request.Context(), viewerID, userID)
		if err == nil {
			response["mutual"] = mutual
		}
	}

	c.JSON(http.StatusOK, response)
}

type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Bio      *string `json:"bio"`
	Sport    *string `json:"sport"`
	Location *string `json:"location"`
	Avatar   *string `json:"avatar"`
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			utils.SendValidationError(c, "Name cannot be empty")
			return
		}
		updates["name"] = *req.Name
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.Sport != nil {
		updates["sport"] = *req.Sport
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}

	if len(updates) == 0 {
		utils.SendValidationError(c, "No fields to update")
		return
	}

	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "User not found")
		return
	}

	if err := uc.db.Model(&user).Updates(updates).Error; err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	user.Password = ""
	utils.SendSuccess(c, "Profile updated", user)
}

// GetStatistics returns the stored follower and following counters for a
// profile. The stored values are authoritative for reads; the repair job
// reconciles drift in the background.
func (uc *UserController) GetStatistics(c *gin.Context) {
	userID := c.Param("id")

	var user models.User
	if err := uc.db.First(&user, "id = ?", userID).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":         user.ID,
		"followers_count": user.FollowersCount,
		"following_count": user.FollowingCount,
	})
}

// RepairStatistics recomputes a profile's counters from the follow edges.
func (uc *UserController) RepairStatistics(c *gin.Context) {
	userID := c.Param("id")

	if err := uc.counters.Repair(c.Request.Context(), userID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendError(c, http.StatusNotFound, "User not found")
			return
		}
		utils.SendError(c, serviceStatus(err), "Failed to repair counters")
		return
	}

	uc.GetStatistics(c)
}

func (uc *UserController) Follow(c *gin.Context) {
	actorID := c.GetString("user_id")
	targetID := c.Param("id")

	if err := uc.followService.Follow(c.Request.Context(), actorID, targetID); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidOperation):
			utils.SendError(c, http.StatusBadRequest, "Cannot follow yourself")
		case errors.Is(err, services.ErrNotFound):
			utils.SendError(c, http.StatusNotFound, "User not found")
		default:
			utils.SendError(c, serviceStatus(err), "Failed to follow user")
		}
		return
	}

	utils.SendSuccess(c, "Following", gin.H{"following": true})
}

func (uc *UserController) Unfollow(c *gin.Context) {
	actorID := c.GetString("user_id")
	targetID := c.Param("id")

	if err := uc.followService.Unfollow(c.Request.Context(), actorID, targetID); err != nil {
		if errors.Is(err, services.ErrInvalidOperation) {
			utils.SendError(c, http.StatusBadRequest, "Cannot unfollow yourself")
			return
		}
		utils.SendError(c, serviceStatus(err), "Failed to unfollow user")
		return
	}

	utils.SendSuccess(c, "Unfollowed", gin.H{"following": false})
}

func (uc *UserController) FollowStatus(c *gin.Context) {
	actorID := c.GetString("user_id")
	targetID := c.Param("id")

	following, err := uc.followService.IsFollowing(c.Request.Context(), actorID, targetID)
	if err != nil {
		utils.SendError(c, serviceStatus(err), "Failed to check follow status")
		return
	}

	mutual, err := uc.followService.IsMutual(c.Request.Context(), actorID, targetID)
	if err != nil {
		utils.SendError(c, serviceStatus(err), "Failed to check follow status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"following": following,
		"mutual":    mutual,
	})
}

func (uc *UserController) GetFollowers(c *gin.Context) {
	userID := c.Param("id")

	followers, err := uc.followService.Followers(c.Request.Context(), userID)
	if err != nil {
		utils.SendError(c, serviceStatus(err), "Failed to load followers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"followers": followers,
		"count":     len(followers),
	})
}

func (uc *UserController) GetFollowing(c *gin.Context) {
	userID := c.Param("id")

	following, err := uc.followService.Following(c.Request.Context(), userID)
	if err != nil {
		utils.SendError(c, serviceStatus(err), "Failed to load following")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"following": following,
		"count":     len(following),
	})
}
