package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"clientbook_backend/internal/models"
	"clientbook_backend/internal/services"
	"clientbook_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ClientHandler holds the client service.
type ClientHandler struct {
	clientService services.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(cs services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: cs}
}

// respondClientError maps a service error to the envelope. Validation,
// duplicate and not-found errors carry actionable messages; everything else
// is logged with context and returned as a generic internal error so storage
// details never leak to the client.
func respondClientError(c *gin.Context, err error, logContext string) {
	var valErr *services.ValidationError
	switch {
	case errors.As(err, &valErr):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidation,
			"Validation failed.", valErr.Fields))
	case errors.Is(err, services.ErrEmailExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeDuplicateEmail,
			"A client with this email already exists.", nil))
	case errors.Is(err, services.ErrClientNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound,
			"Client not found.", nil))
	default:
		utils.LogError(err, logContext)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternal,
			"An unexpected error occurred.", nil))
	}
}

// respondInvalidID reports a malformed identifier. Distinct from not-found:
// an id that does not parse as a positive integer is a 400, not a 404.
func respondInvalidID(c *gin.Context, idStr string) {
	utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidation,
		"Invalid client ID format.", map[string]string{"id": "must be a positive integer, got '" + idStr + "'"}))
}

// CreateClient handles POST /clients.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req services.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidation,
			"Invalid request payload.", map[string]string{"body": "malformed JSON"}))
		return
	}

	client, err := h.clientService.CreateClient(req)
	if err != nil {
		respondClientError(c, err, "CreateClient: error from clientService.CreateClient")
		return
	}
	utils.RespondWithMessage(c, http.StatusCreated, client, "Client created successfully.")
}

// GetClients handles GET /clients with pagination, search and sorting.
func (h *ClientHandler) GetClients(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	sortBy := c.DefaultQuery("sort_by", "created_at")
	sortOrder := c.DefaultQuery("sort_order", "desc")
	searchTerm := c.Query("search")

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	var pSearchTerm *string
	if searchTerm != "" {
		pSearchTerm = &searchTerm
	}

	clients, totalCount, err := h.clientService.GetClients(page, limit, pSearchTerm, sortBy, sortOrder)
	if err != nil {
		respondClientError(c, err, "GetClients: error from clientService.GetClients")
		return
	}

	if clients == nil {
		clients = []models.Client{}
	}
	utils.RespondWithList(c, clients, utils.NewMeta(page, limit, totalCount))
}

// GetClientByID handles GET /clients/:id.
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	idStr := c.Param("id")
	clientID, ok := utils.ParsePositiveID(idStr)
	if !ok {
		respondInvalidID(c, idStr)
		return
	}

	client, err := h.clientService.GetClientByID(clientID)
	if err != nil {
		respondClientError(c, err, "GetClientByID: error for ID "+idStr)
		return
	}
	utils.RespondWithData(c, http.StatusOK, client)
}

// UpdateClient handles PUT /clients/:id with a partial field set.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	idStr := c.Param("id")
	clientID, ok := utils.ParsePositiveID(idStr)
	if !ok {
		respondInvalidID(c, idStr)
		return
	}

	var req services.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidation,
			"Invalid request payload.", map[string]string{"body": "malformed JSON"}))
		return
	}

	client, err := h.clientService.UpdateClient(clientID, req)
	if err != nil {
		respondClientError(c, err, "UpdateClient: error for ID "+idStr)
		return
	}
	utils.RespondWithMessage(c, http.StatusOK, client, "Client updated successfully.")
}

// DeleteClient handles DELETE /clients/:id. Success is 204 with no body.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	idStr := c.Param("id")
	clientID, ok := utils.ParsePositiveID(idStr)
	if !ok {
		respondInvalidID(c, idStr)
		return
	}

	if err := h.clientService.DeleteClient(clientID); err != nil {
		respondClientError(c, err, "DeleteClient: error for ID "+idStr)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetClientStats handles GET /clients/stats.
func (h *ClientHandler) GetClientStats(c *gin.Context) {
	stats, err := h.clientService.GetClientStats()
	if err != nil {
		respondClientError(c, err, "GetClientStats: error from clientService.GetClientStats")
		return
	}
	utils.RespondWithData(c, http.StatusOK, stats)
}
