package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"nature-widget.backend/internal/domain/entities"
	"nature-widget.backend/internal/interfaces/http/middleware"
	"nature-widget.backend/internal/interfaces/http/response"
	"nature-widget.backend/internal/usecases"
)

type DomainHandler struct {
	purchaseUsecase *usecases.DomainPurchaseUsecase
}

func NewDomainHandler(purchaseUsecase *usecases.DomainPurchaseUsecase) *DomainHandler {
	return &DomainHandler{
		purchaseUsecase: purchaseUsecase,
	}
}

// ListDomains returns the account's base and extra domains with plan limits
func (h *DomainHandler) ListDomains(c *gin.Context) {
	accountID, exists := middleware.GetAccountID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not authenticated"})
		return
	}

	resp, err := h.purchaseUsecase.ListDomains(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// PurchaseDomain starts an extra-domain checkout session
func (h *DomainHandler) PurchaseDomain(c *gin.Context) {
	var input entities.PurchaseDomainInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accountID, exists := middleware.GetAccountID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not authenticated"})
		return
	}

	resp, err := h.purchaseUsecase.Purchase(c.Request.Context(), accountID, input.Domain)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// VerifyPurchase completes a checkout session and activates the domain
func (h *DomainHandler) VerifyPurchase(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID is required"})
		return
	}

	accountID, exists := middleware.GetAccountID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not authenticated"})
		return
	}

	domain, err := h.purchaseUsecase.VerifyPurchase(c.Request.Context(), accountID, sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, domain)
}

// CancelDomain deactivates an extra domain and revokes its key
func (h *DomainHandler) CancelDomain(c *gin.Context) {
	domainID, err := uuid.Parse(c.Param("domainId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid domain ID"})
		return
	}

	accountID, exists := middleware.GetAccountID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not authenticated"})
		return
	}

	if err := h.purchaseUsecase.Cancel(c.Request.Context(), accountID, domainID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Domain cancelled successfully"})
}
