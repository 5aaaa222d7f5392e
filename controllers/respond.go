package controllers

import (
	"net/http"

	"github.com/framewave-studio/framewave-portal-api/apperrors"
	"github.com/framewave-studio/framewave-portal-api/config"
	"github.com/framewave-studio/framewave-portal-api/middleware"
	"github.com/framewave-studio/framewave-portal-api/models"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto the HTTP envelope. Validation
// details are exposed as a {field, message} list; permission denials never
// explain more than "forbidden".
func respondError(c *gin.Context, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "An unexpected error occurred",
			},
		})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case apperrors.ErrCodeValidation:
		status = http.StatusBadRequest
	case apperrors.ErrCodePermission:
		status = http.StatusForbidden
	case apperrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeConflict:
		status = http.StatusConflict
	case apperrors.ErrCodeGateway, apperrors.ErrCodeNetwork:
		status = http.StatusBadGateway
	}

	errorBody := gin.H{
		"code":    string(appErr.Code),
		"message": appErr.Message,
	}
	if len(appErr.Fields) > 0 {
		errorBody["details"] = appErr.Fields
	}

	c.JSON(status, gin.H{
		"success": false,
		"error":   errorBody,
	})
}

// currentUser resolves the authenticated user's database record. It writes
// the error response itself and returns nil when the request cannot proceed.
func currentUser(c *gin.Context) *models.User {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User profile not found. Please create a profile first.",
			},
		})
		return nil
	}

	return &user
}

// optionalUser resolves the user when the request carries auth, without
// failing anonymous requests
func optionalUser(c *gin.Context) *models.User {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		return nil
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		return nil
	}

	return &user
}
