package controllers

import (
	"net/http"

	"github.com/framewave-studio/framewave-portal-api/config"
	"github.com/framewave-studio/framewave-portal-api/models"
	"github.com/framewave-studio/framewave-portal-api/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProposalRequest represents the request body for creating or editing a
// proposal
type ProposalRequest struct {
	Description       string                      `json:"description" binding:"required"`
	Deliverables      []services.DeliverableInput `json:"deliverables" binding:"required"`
	Currency          string                      `json:"currency" binding:"required"`
	TotalPrice        int64                       `json:"total_price" binding:"required"`
	AdvancePercentage int                         `json:"advance_percentage" binding:"required"`
	RevisionsIncluded int                         `json:"revisions_included"`
	Force             bool                        `json:"force"`
	Justification     string                      `json:"justification"`
}

func (r *ProposalRequest) toInput() *services.ProposalInput {
	return &services.ProposalInput{
		Description:       r.Description,
		Deliverables:      r.Deliverables,
		Currency:          r.Currency,
		TotalPrice:        r.TotalPrice,
		AdvancePercentage: r.AdvancePercentage,
		RevisionsIncluded: r.RevisionsIncluded,
	}
}

// CreateProposal handles POST /api/v1/inquiries/:id/proposal - creates the
// first proposal for an inquiry (super admins only)
func CreateProposal(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	inquiryID, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req ProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	proposal, svcErr := services.CreateProposal(db, user, inquiryID, req.toInput())
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	// Load deliverables to return complete data
	if err := db.Preload("Deliverables").First(proposal, proposal.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load proposal details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    proposal,
	})
}

// GetProposal handles GET /api/v1/proposals/:id
func GetProposal(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	proposalID, err := parseID(c, "id")
	if err != nil {
		return
	}

	db := config.GetDB()
	var proposal models.Proposal
	if err := db.Preload("Deliverables").First(&proposal, proposalID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Proposal not found",
			},
		})
		return
	}

	var inquiry models.Inquiry
	if err := db.First(&inquiry, proposal.InquiryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Inquiry not found",
			},
		})
		return
	}

	if !services.CanAccessInquiry(user, &inquiry) {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PERMISSION_DENIED",
				"message": "You do not have permission to view this proposal",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    proposal,
	})
}

// UpdateProposal handles PUT /api/v1/proposals/:id - edits a proposal under
// the edit-lock policy; force edits carry a justification
func UpdateProposal(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	proposalID, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req ProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	proposal, svcErr := services.UpdateProposal(db, user, proposalID, req.toInput(), req.Force, req.Justification)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    proposal,
	})
}

// ResendProposal handles POST /api/v1/proposals/:id/resend - sends a revised
// proposal back to the client, bumping its version
func ResendProposal(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	proposalID, err := parseID(c, "id")
	if err != nil {
		return
	}

	proposal, svcErr := services.ResendProposal(config.GetDB(), user, proposalID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    proposal,
	})
}

// ProposalFeedbackRequest carries the client's feedback on reject or
// request-changes
type ProposalFeedbackRequest struct {
	Feedback string `json:"feedback"`
}

// AcceptProposal handles POST /api/v1/proposals/:id/accept
func AcceptProposal(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	proposalID, err := parseID(c, "id")
	if err != nil {
		return
	}

	proposal, svcErr := services.AcceptProposal(config.GetDB(), user, proposalID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    proposal,
	})
}

// RejectProposal handles POST /api/v1/proposals/:id/reject
func RejectProposal(c *gin.Context) {
	proposalFeedbackAction(c, services.RejectProposal)
}

// RequestProposalChanges handles POST /api/v1/proposals/:id/request-changes
func RequestProposalChanges(c *gin.Context) {
	proposalFeedbackAction(c, services.RequestProposalChanges)
}

func proposalFeedbackAction(c *gin.Context, action func(db *gorm.DB, user *models.User, proposalID uint, feedback string) (*models.Proposal, error)) {
	user := currentUser(c)
	if user == nil {
		return
	}

	proposalID, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req ProposalFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	proposal, svcErr := action(config.GetDB(), user, proposalID, req.Feedback)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    proposal,
	})
}
