package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/framewave-studio/framewave-portal-api/config"
	"github.com/framewave-studio/framewave-portal-api/models"
	"github.com/framewave-studio/framewave-portal-api/services"
	"github.com/framewave-studio/framewave-portal-api/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Inquiry{},
		&models.Proposal{},
		&models.Deliverable{},
		&models.ProposalEdit{},
		&models.Payment{},
		&models.Comment{},
		&models.Attachment{},
		&models.Activity{},
		&models.Notification{},
		&models.Project{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

// setupMockAuth0Server creates a mock HTTP server that simulates Auth0's /userinfo endpoint
func setupMockAuth0Server(userInfoMap map[string]*services.Auth0UserInfo) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/userinfo" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || len(authHeader) < 7 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		token := authHeader[7:] // Remove "Bearer " prefix

		userInfo, exists := userInfoMap[token]
		if !exists {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(userInfo)
	}))
}

// mockAuthMiddleware simulates the Auth0 JWT middleware for testing
func mockAuthMiddleware(auth0ID, role, accessToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		testutil.SetMockAuthContext(c, auth0ID, role, accessToken)
		c.Next()
	}
}

// performRequest runs a JSON request against the router and decodes the
// envelope
func performRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

func TestCreateUser(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	// Mock Auth0 server knows one token
	server := setupMockAuth0Server(map[string]*services.Auth0UserInfo{
		"valid-token": {
			Sub:   "auth0|new123",
			Name:  "New User",
			Email: "new@framewave.test",
		},
	})
	defer server.Close()

	config.SetConfig(&config.Config{Auth0Domain: server.URL})

	tests := []struct {
		name           string
		auth0ID        string
		role           string
		token          string
		expectedStatus int
		expectedRole   string
		expectedError  string
	}{
		{
			name:           "Creates a client by default",
			auth0ID:        "auth0|new123",
			role:           "",
			token:          "valid-token",
			expectedStatus: http.StatusCreated,
			expectedRole:   models.RoleClient,
		},
		{
			name:           "Duplicate signup conflicts",
			auth0ID:        "auth0|new123",
			role:           "",
			token:          "valid-token",
			expectedStatus: http.StatusConflict,
			expectedError:  "USER_EXISTS",
		},
		{
			name:           "Unknown token fails",
			auth0ID:        "auth0|other",
			role:           "",
			token:          "bad-token",
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "AUTH0_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/users",
				mockAuthMiddleware(tt.auth0ID, tt.role, tt.token),
				CreateUser,
			)

			w, response := performRequest(t, router, http.MethodPost, "/users", nil)
			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedError != "" {
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
				return
			}

			data := response["data"].(map[string]interface{})
			assert.Equal(t, tt.expectedRole, data["role"])
			assert.Equal(t, "new@framewave.test", data["email"])
		})
	}
}

func TestCreateUser_RoleFromClaims(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	server := setupMockAuth0Server(map[string]*services.Auth0UserInfo{
		"admin-token": {
			Sub:   "auth0|admin9",
			Name:  "Admin User",
			Email: "admin9@framewave.test",
		},
	})
	defer server.Close()
	config.SetConfig(&config.Config{Auth0Domain: server.URL})

	router := setupTestRouter()
	router.POST("/users",
		mockAuthMiddleware("auth0|admin9", models.RoleSuperAdmin, "admin-token"),
		CreateUser,
	)

	w, response := performRequest(t, router, http.MethodPost, "/users", nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, models.RoleSuperAdmin, data["role"])
}

func TestCreateUser_ClaimsExistingInquiries(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	// An inquiry submitted anonymously with the signup email
	inquiry := models.Inquiry{
		InquiryNumber: "INQ-2026-0001",
		Status:        models.InquiryStatusNew,
		ContactName:   "New User",
		ContactEmail:  "new@framewave.test",
	}
	require.NoError(t, db.Create(&inquiry).Error)

	server := setupMockAuth0Server(map[string]*services.Auth0UserInfo{
		"valid-token": {
			Sub:   "auth0|new123",
			Name:  "New User",
			Email: "new@framewave.test",
		},
	})
	defer server.Close()
	config.SetConfig(&config.Config{Auth0Domain: server.URL})

	router := setupTestRouter()
	router.POST("/users",
		mockAuthMiddleware("auth0|new123", "", "valid-token"),
		CreateUser,
	)

	w, response := performRequest(t, router, http.MethodPost, "/users", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	data := response["data"].(map[string]interface{})
	userID := uint(data["id"].(float64))

	var reloaded models.Inquiry
	require.NoError(t, db.First(&reloaded, inquiry.ID).Error)
	require.NotNil(t, reloaded.ClientUserID)
	assert.Equal(t, userID, *reloaded.ClientUserID)
}

func TestGetMyProfile(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	user := models.User{Auth0ID: "auth0|me", Name: "Me", Email: "me@framewave.test", Role: models.RoleClient}
	require.NoError(t, db.Create(&user).Error)

	router := setupTestRouter()
	router.GET("/users/me",
		mockAuthMiddleware(user.Auth0ID, user.Role, "mock-token"),
		GetMyProfile,
	)

	w, response := performRequest(t, router, http.MethodGet, "/users/me", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "me@framewave.test", data["email"])
}

func TestGetMyProfile_NotFound(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.GET("/users/me",
		mockAuthMiddleware("auth0|ghost", models.RoleClient, "mock-token"),
		GetMyProfile,
	)

	w, response := performRequest(t, router, http.MethodGet, "/users/me", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "USER_NOT_FOUND", errorData["code"])
}

func TestUpdateMyProfile(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	user := models.User{Auth0ID: "auth0|me", Name: "Me", Email: "me@framewave.test", Role: models.RoleClient}
	require.NoError(t, db.Create(&user).Error)

	router := setupTestRouter()
	router.PATCH("/users/me",
		mockAuthMiddleware(user.Auth0ID, user.Role, "mock-token"),
		UpdateMyProfile,
	)

	w, response := performRequest(t, router, http.MethodPatch, "/users/me", map[string]interface{}{
		"name": "Renamed",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Renamed", data["name"])

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "Renamed", reloaded.Name)
}
