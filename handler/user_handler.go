package handler

import (
	"main/config"
	"main/dto"
	"main/middleware"
	"main/upload"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	Users *usecase.UserService
	Cfg   *config.Config
}

// GetProfile returns the authenticated user's account.
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.Users.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	utils.Success(c, dto.ToUserResponse(user, h.Cfg.APIBaseURL))
}

// UpdateProfile applies the non-empty JSON fields to the account.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.WriteError(c, utils.ValidationError("invalid request body"))
		return
	}

	user, err := h.Users.UpdateProfile(c.Request.Context(), middleware.UserID(c), usecase.ProfileUpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		utils.WriteError(c, err)
		return
	}

	utils.Success(c, dto.ToUserResponse(user, h.Cfg.APIBaseURL))
}

// ChangeProfilePicture replaces the user's profile picture. The new file
// travels under the single "profile" field.
func (h *UserHandler) ChangeProfilePicture(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		utils.WriteError(c, utils.UploadError("invalid multipart form: "+err.Error()))
		return
	}

	files, err := upload.FilesForField(form, "profile")
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	if len(files) == 0 {
		utils.WriteError(c, utils.ValidationError("profile picture is required"))
		return
	}

	user, err := h.Users.ChangeProfilePicture(c.Request.Context(), middleware.UserID(c), files[0])
	if err != nil {
		utils.WriteError(c, err)
		return
	}

	utils.Success(c, dto.ToUserResponse(user, h.Cfg.APIBaseURL))
}
