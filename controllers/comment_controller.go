package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/framewave-studio/framewave-portal-api/config"
	"github.com/framewave-studio/framewave-portal-api/models"
	"github.com/framewave-studio/framewave-portal-api/services"
	"github.com/framewave-studio/framewave-portal-api/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// proposalForComments loads the proposal's inquiry and checks the caller may
// see the thread. Writes the error response and returns nil on failure.
func proposalForComments(c *gin.Context, db *gorm.DB, user *models.User, proposalID uint) *models.Proposal {
	var proposal models.Proposal
	if err := db.First(&proposal, proposalID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Proposal not found",
			},
		})
		return nil
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
		return nil
	}

	if !services.CanAccessInquiry(user, &inquiry) {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PERMISSION_DENIED",
				"message": "You do not have permission to view this discussion",
			},
		})
		return nil
	}

	return &proposal
}

// ListComments handles GET /api/v1/proposals/:id/comments. An optional
// ?since=RFC3339 query returns only comments created after that instant,
// which is how polling clients fetch increments.
func ListComments(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	proposalID, err := parseID(c, "id")
	if err != nil {
		return
	}

	db := config.GetDB()
	if proposalForComments(c, db, user, proposalID) == nil {
		return
	}

	var since *time.Time
	if raw := c.Query("since"); raw != "" {
		parsed, parseErr := time.Parse(time.RFC3339, raw)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Invalid 'since' timestamp, expected RFC3339",
				},
			})
			return
		}
		since = &parsed
	}

	comments, svcErr := services.ListComments(db, proposalID, since)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    comments,
		"count":   len(comments),
	})
}

// CommentRequest is the body for creating or editing a comment
type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreateComment handles POST /api/v1/proposals/:id/comments
func CreateComment(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	proposalID, err := parseID(c, "id")
	if err != nil {
		return
	}

	db := config.GetDB()
	if proposalForComments(c, db, user, proposalID) == nil {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Comment content is required",
			},
		})
		return
	}

	comment, svcErr := services.CreateComment(db, user, proposalID, req.Content)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    comment,
	})
}

// EditComment handles PUT /api/v1/comments/:id. Edits are rejected once a
// later comment exists in the thread.
func EditComment(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	commentID, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Comment content is required",
			},
		})
		return
	}

	comment, svcErr := services.EditComment(config.GetDB(), user, commentID, req.Content)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    comment,
	})
}

// DeleteComment handles DELETE /api/v1/comments/:id. Deletion is not part of
// the product; the route answers 501 so clients get a stable error instead
// of a 404.
func DeleteComment(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "NOT_IMPLEMENTED",
			"message": "Comment deletion is not supported",
		},
	})
}

// UploadURLRequest describes the file the client wants to attach
type UploadURLRequest struct {
	FileName string `json:"file_name" binding:"required"`
	MimeType string `json:"mime_type" binding:"required"`
}

// GetAttachmentUploadURL handles POST /api/v1/proposals/:id/attachments/upload-url.
// It validates the file metadata and returns a presigned PUT URL plus the
// storage key the client must echo back when registering the attachment.
func GetAttachmentUploadURL(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	proposalID, err := parseID(c, "id")
	if err != nil {
		return
	}

	db := config.GetDB()
	if proposalForComments(c, db, user, proposalID) == nil {
		return
	}

	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "file_name and mime_type are required",
			},
		})
		return
	}

	if err := utils.ValidateUploadRequest(req.FileName, req.MimeType); err != nil {
		uploadErr, ok := err.(*utils.FileUploadError)
		if !ok {
			uploadErr = &utils.FileUploadError{Code: "INVALID_FILE", Message: err.Error()}
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    uploadErr.Code,
				"message": uploadErr.Message,
			},
		})
		return
	}

	storage := services.GetStorageService()
	uploadURL, key, svcErr := storage.GetUploadURL(req.FileName, req.MimeType, strconv.FormatUint(uint64(proposalID), 10))
	if svcErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to generate upload URL",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"upload_url":  uploadURL,
			"storage_key": key,
		},
	})
}

// RegisterAttachmentRequest records an upload the client completed
type RegisterAttachmentRequest struct {
	FileName   string `json:"file_name" binding:"required"`
	MimeType   string `json:"mime_type" binding:"required"`
	Size       int64  `json:"size" binding:"required"`
	StorageKey string `json:"storage_key" binding:"required"`
}

// RegisterAttachment handles POST /api/v1/comments/:id/attachments. The
// client calls this after PUTting the bytes to the presigned URL; an upload
// that never gets registered is an orphan blob and is tolerated.
func RegisterAttachment(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	commentID, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req RegisterAttachmentRequest
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

	if err := utils.ValidateAttachment(req.FileName, req.MimeType, req.Size); err != nil {
		uploadErr, ok := err.(*utils.FileUploadError)
		if !ok {
			uploadErr = &utils.FileUploadError{Code: "INVALID_FILE", Message: err.Error()}
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    uploadErr.Code,
				"message": uploadErr.Message,
			},
		})
		return
	}

	attachment, svcErr := services.RegisterAttachment(config.GetDB(), user, commentID, req.FileName, req.MimeType, req.Size, req.StorageKey)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    attachment,
	})
}
