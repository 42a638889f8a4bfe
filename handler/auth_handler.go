package handler

import (
	"log"
	"mime/multipart"
	"net/http"

	"main/config"
	"main/dto"
	"main/services"
	"main/upload"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Users *usecase.UserService
	Cfg   *config.Config
}

// Register creates an account from a multipart form. The optional profile
// picture travels under the single "profile" file field.
func (h *AuthHandler) Register(c *gin.Context) {
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

	in := usecase.RegisterInput{
		FirstName:       formValue(form, "firstName"),
		LastName:        formValue(form, "lastName"),
		Email:           formValue(form, "email"),
		Password:        formValue(form, "password"),
		ConfirmPassword: formValue(form, "confirmPassword"),
	}
	if len(files) > 0 {
		in.Picture = files[0]
	}

	user, err := h.Users.Register(c.Request.Context(), in)
	if err != nil {
		utils.WriteError(c, err)
		return
	}

	utils.Created(c, dto.ToUserResponse(user, h.Cfg.APIBaseURL))
}

// Login verifies credentials and sets the auth cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.WriteError(c, utils.ValidationError("email and password are required"))
		return
	}

	user, err := h.Users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.WriteError(c, err)
		return
	}

	token, err := services.GenerateToken(h.Cfg, user)
	if err != nil {
		utils.WriteError(c, utils.InternalServerError(err))
		return
	}
	services.SetAuthCookie(c, h.Cfg, token)

	browser, os, device := utils.ParseUserAgent(c.GetHeader("User-Agent"))
	log.Printf("login: user=%s browser=%s os=%s device=%s ip=%s",
		user.UserID, browser, os, device, c.ClientIP())

	utils.Success(c, dto.ToUserResponse(user, h.Cfg.APIBaseURL))
}

// Logout revokes the current token and clears the cookie. It sits behind the
// auth middleware, so the cookie is known to be present and valid here.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(services.AuthCookieName)
	if err == nil && token != "" {
		if err := services.BlacklistToken(h.Cfg, token); err != nil {
			log.Printf("failed to blacklist token: %v", err)
		}
	}

	services.ClearAuthCookie(c, h.Cfg)
	c.JSON(http.StatusOK, &utils.Response{
		Status:  http.StatusOK,
		Message: "logged out successfully",
	})
}

func formValue(form *multipart.Form, key string) string {
	if vals := form.Value[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}
