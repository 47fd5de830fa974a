package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aybserve/clickenrent-backend-sub004/internal/services"
)

type OAuthHandler struct {
	auth *services.AuthService
}

func NewOAuthHandler(auth *services.AuthService) *OAuthHandler {
	return &OAuthHandler{auth: auth}
}

// @Summary      OAuth callback
// @Description  Обменивает authorization code провайдера на локальные токены
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        provider  path      string  true  "Имя провайдера (google, facebook)"
// @Success      200       {object}  map[string]interface{}
// @Failure      401       {object}  map[string]string
// @Router       /auth/oauth/{provider}/callback [post]
func (h *OAuthHandler) Callback(c *gin.Context) {
	var req struct {
		Code        string `json:"code" binding:"required"`
		RedirectURI string `json:"redirect_uri" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	provider := c.Param("provider")
	account, tokens, err := h.auth.OAuthCallback(c.Request.Context(), provider, req.Code, req.RedirectURI)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account": account,
		"tokens":  tokens,
	})
}
