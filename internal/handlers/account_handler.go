package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aybserve/clickenrent-backend-sub004/internal/authz"
	"github.com/aybserve/clickenrent-backend-sub004/internal/repositories"
)

type AccountHandler struct {
	accounts repositories.AccountRepository
}

func NewAccountHandler(accounts repositories.AccountRepository) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// @Summary      Аккаунты компаний вызывающего
// @Description  Листинг строго по набору company id из claims вызывающего
// @Tags         Accounts
// @Produce      json
// @Success      200  {array}  models.Account
// @Router       /accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no claims in context"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	// тенантный предикат передаётся явно, из claims вызывающего
	accounts, err := h.accounts.ListByCompany(claims.CompanyIDs, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// @Summary      Аккаунт по id
// @Tags         Accounts
// @Produce      json
// @Success      200  {object}  models.Account
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /accounts/{id} [get]
func (h *AccountHandler) GetByID(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no claims in context"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID"})
		return
	}

	account, err := h.accounts.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if account == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	principal := authz.Principal{
		AccountID:  claims.AccountID,
		Roles:      claims.Roles,
		CompanyIDs: claims.CompanyIDs,
	}
	allowed := false
	if authz.Can(principal, authz.Resource{OwnerAccountID: account.ID}) {
		allowed = true
	}
	for _, companyID := range account.CompanyIDs {
		if authz.Can(principal, authz.Resource{CompanyID: companyID}) {
			allowed = true
			break
		}
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, account)
}

// @Summary      Деактивация аккаунта
// @Description  Мягкая деактивация: аккаунт помечается неактивным, строка не удаляется
// @Tags         Accounts
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/accounts/{id} [delete]
func (h *AccountHandler) Deactivate(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID"})
		return
	}

	account, err := h.accounts.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if account == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	if err := h.accounts.Deactivate(id); err != nil {
		respondError(c, err)
		return
	}
	log.Printf("[accounts][deactivate] account_id=%d", id)
	c.JSON(http.StatusOK, gin.H{"message": "Account deactivated"})
}
