package controllers

import (
	"net/http"
	"testing"

	"github.com/framewave-studio/framewave-portal-api/config"
	"github.com/framewave-studio/framewave-portal-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProjectsEndpoint(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	admin, manager, client := createControllerTestUsers(t, db)

	other := &models.User{Auth0ID: "auth0|other", Name: "Otto Other", Email: "other@framewave.test", Role: models.RoleClient}
	require.NoError(t, db.Create(other).Error)

	// Two converted inquiries owned by different clients
	inquiryA := createTestInquiry(t, db, "INQ-2026-0001", models.InquiryStatusConverted, client)
	inquiryB := createTestInquiry(t, db, "INQ-2026-0002", models.InquiryStatusConverted, other)
	proposalA := createTestProposal(t, db, inquiryA, models.ProposalStatusAccepted)
	proposalB := createTestProposal(t, db, inquiryB, models.ProposalStatusAccepted)

	require.NoError(t, db.Create(&models.Project{
		InquiryID: inquiryA.ID, ProposalID: proposalA.ID, Name: "Explainer for Acme",
	}).Error)
	require.NoError(t, db.Create(&models.Project{
		InquiryID: inquiryB.ID, ProposalID: proposalB.ID, Name: "Launch film for Otto",
	}).Error)

	tests := []struct {
		name          string
		user          *models.User
		expectedCount int
	}{
		{name: "Admin sees all projects", user: admin, expectedCount: 2},
		{name: "Manager sees all projects", user: manager, expectedCount: 2},
		{name: "Client sees only their own", user: client, expectedCount: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.GET("/projects",
				mockAuthMiddleware(tt.user.Auth0ID, tt.user.Role, "mock-token"),
				ListProjects,
			)

			w, response := performRequest(t, router, http.MethodGet, "/projects", nil)
			require.Equal(t, http.StatusOK, w.Code)

			assert.Equal(t, float64(tt.expectedCount), response["count"])
			projects := response["data"].([]interface{})
			require.Len(t, projects, tt.expectedCount)

			if tt.expectedCount == 1 {
				project := projects[0].(map[string]interface{})
				assert.Equal(t, "Explainer for Acme", project["name"])
			}
		})
	}
}
