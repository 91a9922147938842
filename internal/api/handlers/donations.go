package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/unifiedui/donation-service/internal/api/dto"
	"github.com/unifiedui/donation-service/internal/api/middleware"
	"github.com/unifiedui/donation-service/internal/core/docdb"
	domainerrors "github.com/unifiedui/donation-service/internal/domain/errors"
	"github.com/unifiedui/donation-service/internal/pkg/objectid"
)

// DonationsHandler handles donation endpoints.
type DonationsHandler struct {
	manager ConnectionManager
}

// NewDonationsHandler creates a new DonationsHandler.
func NewDonationsHandler(manager ConnectionManager) *DonationsHandler {
	return &DonationsHandler{
		manager: manager,
	}
}

// ValidateID handles GET /donations/{id}/validate
// @Summary Validate donation ID
// @Description Reports whether the ID is a 24 character hex string. No database access.
// @Tags Donations
// @Produce json
// @Param id path string true "Donation ID"
// @Success 200 {object} dto.ValidateIDResponse
// @Router /api/v1/donation-service/donations/{id}/validate [get]
func (h *DonationsHandler) ValidateID(c *gin.Context) {
	id := c.Param("id")

	c.JSON(http.StatusOK, dto.ValidateIDResponse{
		ID:    id,
		Valid: objectid.IsValid(id),
	})
}

// GetDonation handles GET /donations/{id}
// @Summary Get donation
// @Description Fetches a single donation document by ID
// @Tags Donations
// @Produce json
// @Param id path string true "Donation ID"
// @Success 200 {object} dto.DonationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/donation-service/donations/{id} [get]
func (h *DonationsHandler) GetDonation(c *gin.Context) {
	id := c.Param("id")

	oid, ok := objectid.Parse(id)
	if !ok {
		middleware.HandleError(c, domainerrors.NewValidationError("invalid donation id", id))
		return
	}

	ctx := c.Request.Context()
	coll, err := h.manager.DonationCollection(ctx)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	result := coll.FindOne(ctx, bson.M{"_id": oid})
	if err := result.Err(); err != nil {
		if errors.Is(err, docdb.ErrNoDocuments) {
			middleware.HandleError(c, domainerrors.NewNotFoundError("donation", id))
			return
		}
		middleware.HandleError(c, domainerrors.NewInternalError("failed to get donation", err))
		return
	}

	var doc bson.M
	if err := result.Decode(&doc); err != nil {
		middleware.HandleError(c, domainerrors.NewInternalError("failed to decode donation", err))
		return
	}

	c.JSON(http.StatusOK, dto.DonationResponse{
		ID:       id,
		Donation: doc,
	})
}
