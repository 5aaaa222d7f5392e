package controllers

import (
	"net/http"

	"github.com/framewave-studio/framewave-portal-api/config"
	"github.com/framewave-studio/framewave-portal-api/models"
	"github.com/framewave-studio/framewave-portal-api/services"
	"github.com/gin-gonic/gin"
)

// ListProjects handles GET /api/v1/projects. Staff with the view-all
// permission see every project; clients see projects converted from their
// own inquiries.
func ListProjects(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	db := config.GetDB()
	query := db.Order("created_at DESC")
	if !services.CanViewAllProjects(user) {
		query = query.
			Joins("JOIN inquiries ON inquiries.id = projects.inquiry_id").
			Where("inquiries.client_user_id = ?", user.ID)
	}

	var projects []models.Project
	if err := query.Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch projects",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    projects,
		"count":   len(projects),
	})
}
