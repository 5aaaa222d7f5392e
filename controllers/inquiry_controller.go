package controllers

import (
	"net/http"
	"strconv"

	"github.com/framewave-studio/framewave-portal-api/config"
	"github.com/framewave-studio/framewave-portal-api/models"
	"github.com/framewave-studio/framewave-portal-api/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateInquiryRequest represents the request body for submitting an inquiry
type CreateInquiryRequest struct {
	ContactName          string `json:"contact_name" binding:"required"`
	ContactEmail         string `json:"contact_email" binding:"required,email"`
	ContactCompany       string `json:"contact_company"`
	ContactPhone         string `json:"contact_phone"`
	ProjectNotes         string `json:"project_notes"`
	Niche                string `json:"niche"`
	Audience             string `json:"audience"`
	Style                string `json:"style"`
	Mood                 string `json:"mood"`
	DurationSeconds      int    `json:"duration_seconds"`
	RecommendedVideoType string `json:"recommended_video_type"`
}

// CreateInquiry handles POST /api/v1/inquiries - submits a new inquiry.
// The route accepts anonymous submissions; a logged-in client becomes the
// inquiry's owner.
func CreateInquiry(c *gin.Context) {
	var req CreateInquiryRequest
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

	submitter := optionalUser(c)

	db := config.GetDB()
	inquiry, err := services.CreateInquiry(db, &services.InquiryInput{
		ContactName:          req.ContactName,
		ContactEmail:         req.ContactEmail,
		ContactCompany:       req.ContactCompany,
		ContactPhone:         req.ContactPhone,
		ProjectNotes:         req.ProjectNotes,
		Niche:                req.Niche,
		Audience:             req.Audience,
		Style:                req.Style,
		Mood:                 req.Mood,
		DurationSeconds:      req.DurationSeconds,
		RecommendedVideoType: req.RecommendedVideoType,
	}, submitter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    inquiry,
	})
}

// ListInquiries handles GET /api/v1/inquiries - lists inquiries scoped by role
func ListInquiries(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	db := config.GetDB()
	query := db.Order("created_at DESC")
	if !services.CanViewAllInquiries(user) {
		if user.Role == models.RoleClient {
			query = query.Where("client_user_id = ?", user.ID)
		}
	}

	var inquiries []models.Inquiry
	if err := query.Find(&inquiries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch inquiries",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    inquiries,
	})
}

// GetInquiry handles GET /api/v1/inquiries/:id
func GetInquiry(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	inquiryID, err := parseID(c, "id")
	if err != nil {
		return
	}

	db := config.GetDB()
	var inquiry models.Inquiry
	if err := db.First(&inquiry, inquiryID).Error; err != nil {
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
				"message": "You do not have permission to view this inquiry",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    inquiry,
	})
}

// UpdateInquiryContactRequest represents the contact snapshot edit body
type UpdateInquiryContactRequest struct {
	ContactName    string `json:"contact_name" binding:"required"`
	ContactEmail   string `json:"contact_email" binding:"required,email"`
	ContactCompany string `json:"contact_company"`
	ContactPhone   string `json:"contact_phone"`
	ProjectNotes   string `json:"project_notes"`
}

// UpdateInquiryContact handles PATCH /api/v1/inquiries/:id/contact
func UpdateInquiryContact(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	inquiryID, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req UpdateInquiryContactRequest
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
	inquiry, svcErr := services.UpdateInquiryContact(db, user, inquiryID, &services.ContactInput{
		ContactName:    req.ContactName,
		ContactEmail:   req.ContactEmail,
		ContactCompany: req.ContactCompany,
		ContactPhone:   req.ContactPhone,
		ProjectNotes:   req.ProjectNotes,
	})
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    inquiry,
	})
}

// StartInquiryReview handles POST /api/v1/inquiries/:id/review
func StartInquiryReview(c *gin.Context) {
	inquiryAction(c, services.StartInquiryReview)
}

// RejectInquiry handles POST /api/v1/inquiries/:id/reject
func RejectInquiry(c *gin.Context) {
	inquiryAction(c, services.RejectInquiry)
}

// ArchiveInquiry handles POST /api/v1/inquiries/:id/archive
func ArchiveInquiry(c *gin.Context) {
	inquiryAction(c, services.ArchiveInquiry)
}

// inquiryAction runs a status-only inquiry operation shared by the three
// staff actions above
func inquiryAction(c *gin.Context, action func(db *gorm.DB, user *models.User, inquiryID uint) (*models.Inquiry, error)) {
	user := currentUser(c)
	if user == nil {
		return
	}

	inquiryID, err := parseID(c, "id")
	if err != nil {
		return
	}

	inquiry, svcErr := action(config.GetDB(), user, inquiryID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    inquiry,
	})
}

// parseID parses a numeric path parameter, writing the error response on
// failure
func parseID(c *gin.Context, param string) (uint, error) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Invalid id parameter",
			},
		})
		return 0, err
	}
	return uint(id), nil
}
