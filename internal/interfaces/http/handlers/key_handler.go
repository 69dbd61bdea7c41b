package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"nature-widget.backend/internal/domain/entities"
	"nature-widget.backend/internal/interfaces/http/middleware"
	"nature-widget.backend/internal/interfaces/http/response"
	"nature-widget.backend/internal/usecases"
)

type KeyHandler struct {
	keyUsecase *usecases.KeyLifecycleUsecase
}

func NewKeyHandler(keyUsecase *usecases.KeyLifecycleUsecase) *KeyHandler {
	return &KeyHandler{
		keyUsecase: keyUsecase,
	}
}

// ListKeys returns the account's key history, masked, most recent first
func (h *KeyHandler) ListKeys(c *gin.Context) {
	accountID, exists := middleware.GetAccountID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not authenticated"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	keys, meta, err := h.keyUsecase.List(c.Request.Context(), accountID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"keys": keys,
		"meta": meta,
	})
}

// GenerateKey issues a key for a domain that has none. The raw secret in the
// response is shown exactly once.
func (h *KeyHandler) GenerateKey(c *gin.Context) {
	var input entities.GenerateKeyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accountID, exists := middleware.GetAccountID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not authenticated"})
		return
	}

	resp, err := h.keyUsecase.Generate(c.Request.Context(), accountID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// RegenerateKey rotates a domain's key: the old one stops working the moment
// the new one exists
func (h *KeyHandler) RegenerateKey(c *gin.Context) {
	var input entities.GenerateKeyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accountID, exists := middleware.GetAccountID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not authenticated"})
		return
	}

	resp, err := h.keyUsecase.Regenerate(c.Request.Context(), accountID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// RevokeKey revokes a key without issuing a replacement
func (h *KeyHandler) RevokeKey(c *gin.Context) {
	keyID, err := uuid.Parse(c.Param("keyId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid key ID"})
		return
	}

	accountID, exists := middleware.GetAccountID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not authenticated"})
		return
	}

	if err := h.keyUsecase.Revoke(c.Request.Context(), accountID, keyID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "API key revoked successfully"})
}
