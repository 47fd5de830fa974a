package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aybserve/clickenrent-backend-sub004/internal/services"
)

type PasswordResetHandler struct {
	auth *services.AuthService
}

func NewPasswordResetHandler(auth *services.AuthService) *PasswordResetHandler {
	return &PasswordResetHandler{auth: auth}
}

// @Summary      Запрос кода сброса пароля
// @Description  Всегда отвечает 200, существование адреса не раскрывается
// @Tags         PasswordReset
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/password/forgot [post]
func (h *PasswordResetHandler) Initiate(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.InitiatePasswordReset(req.Email, requestMeta(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the email exists, a reset code has been sent"})
}

// @Summary      Проверка кода сброса
// @Description  Проверяет код, не потребляя его (шаг формы до ввода пароля)
// @Tags         PasswordReset
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      429  {object}  map[string]string
// @Router       /auth/password/validate [post]
func (h *PasswordResetHandler) Validate(c *gin.Context) {
	var req emailCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.ValidateResetCode(req.Email, req.Code); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Code is valid"})
}

// @Summary      Смена пароля по коду
// @Tags         PasswordReset
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      429  {object}  map[string]string
// @Router       /auth/password/reset [post]
func (h *PasswordResetHandler) Confirm(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		Code        string `json:"code" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.ConfirmPasswordReset(req.Email, req.Code, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}
