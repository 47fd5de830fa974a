package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aybserve/clickenrent-backend-sub004/internal/services"
)

type VerifyHandler struct {
	auth *services.AuthService
}

func NewVerifyHandler(auth *services.AuthService) *VerifyHandler {
	return &VerifyHandler{auth: auth}
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type emailCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// @Summary      Отправка кода подтверждения e-mail
// @Tags         Verification
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/email/send [post]
func (h *VerifyHandler) SendCode(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.SendEmailCode(req.Email, requestMeta(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

// @Summary      Подтверждение e-mail кодом
// @Tags         Verification
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      429  {object}  map[string]string
// @Router       /auth/email/verify [post]
func (h *VerifyHandler) VerifyCode(c *gin.Context) {
	var req emailCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.auth.VerifyEmailCode(req.Email, req.Code); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified"})
}

// @Summary      Повторная отправка кода
// @Tags         Verification
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/email/resend [post]
func (h *VerifyHandler) ResendCode(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.ResendEmailCode(req.Email, requestMeta(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}
