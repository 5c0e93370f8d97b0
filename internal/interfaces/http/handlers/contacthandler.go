package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appcontact "safyra/internal/application/contact"
	"safyra/internal/interfaces/dto"
	"safyra/internal/shared/errors"
	"safyra/internal/shared/id"
	"safyra/internal/shared/logger"
	"safyra/internal/shared/utils"
)

// ContactHandler manages emergency contacts.
type ContactHandler struct {
	service *appcontact.Service
	logger  logger.Interface
}

// NewContactHandler creates a new emergency contact handler.
func NewContactHandler(service *appcontact.Service, log logger.Interface) *ContactHandler {
	return &ContactHandler{
		service: service,
		logger:  log,
	}
}

// Create adds an emergency contact.
// POST /api/v1/contacts
func (h *ContactHandler) Create(c *gin.Context) {
	var req dto.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request format", err.Error()))
		return
	}

	userID := resolveUserID(c)
	contact, err := h.service.Create(c.Request.Context(), userID, req.Name, req.Phone, req.Email, req.Relationship, req.Priority)
	if err != nil {
		h.logger.Warnw("failed to create contact", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("emergency contact created", "contact_id", contact.ID(), "user_id", userID)
	utils.CreatedResponse(c, dto.FromContact(contact), "Contact created")
}

// Update modifies an emergency contact. Empty fields keep their current values.
// PUT /api/v1/contacts/:id
func (h *ContactHandler) Update(c *gin.Context) {
	contactID, err := utils.ParseSIDParam(c, "id", id.PrefixContact, "contact")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request format", err.Error()))
		return
	}

	contact, err := h.service.Update(c.Request.Context(), contactID, req.Name, req.Phone, req.Email, req.Relationship, req.Priority)
	if err != nil {
		h.logger.Warnw("failed to update contact", "contact_id", contactID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Contact updated", dto.FromContact(contact))
}

// Get fetches a single emergency contact.
// GET /api/v1/contacts/:id
func (h *ContactHandler) Get(c *gin.Context) {
	contactID, err := utils.ParseSIDParam(c, "id", id.PrefixContact, "contact")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	contact, err := h.service.Get(c.Request.Context(), contactID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto.FromContact(contact))
}

// List returns the user's contacts ordered by escalation priority.
// GET /api/v1/contacts
func (h *ContactHandler) List(c *gin.Context) {
	userID := resolveUserID(c)

	contacts, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorw("failed to list contacts", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, dto.FromContacts(contacts), len(contacts))
}

// Delete removes an emergency contact.
// DELETE /api/v1/contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	contactID, err := utils.ParseSIDParam(c, "id", id.PrefixContact, "contact")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), contactID); err != nil {
		h.logger.Warnw("failed to delete contact", "contact_id", contactID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
