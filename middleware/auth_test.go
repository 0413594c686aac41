package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"delivery-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-key-for-unit-tests")
}

func setupTestRouter() *gin.Engine {
	r := gin.New()

	protected := r.Group("/api")
	protected.Use(AuthMiddleware())
	protected.GET("/test", func(c *gin.Context) {
		userID, _ := UserID(c)
		role, _ := c.Get(ContextUserRole)
		estID, ok := EstablishmentID(c)
		resp := gin.H{"user_id": userID, "role": role}
		if ok {
			resp["establishment_id"] = estID
		}
		c.JSON(http.StatusOK, resp)
	})

	admin := r.Group("/api/admin")
	admin.Use(AuthMiddleware(), AdminMiddleware())
	admin.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "admin access granted"})
	})

	staff := r.Group("/api/staff")
	staff.Use(AuthMiddleware(), StaffMiddleware())
	staff.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"admin": IsAdmin(c)})
	})

	return r
}

func doRequest(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	router := setupTestRouter()

	userID := uuid.New()
	estID := uuid.New()
	token, err := utils.GenerateToken(userID, "staff@test.com", "staff", &estID)
	if err != nil {
		t.Fatal(err)
	}

	w := doRequest(router, "/api/test", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["user_id"] != userID.String() || body["establishment_id"] != estID.String() || body["role"] != "staff" {
		t.Errorf("unexpected context values: %v", body)
	}
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	w := doRequest(setupTestRouter(), "/api/test", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareMalformedToken(t *testing.T) {
	w := doRequest(setupTestRouter(), "/api/test", "not-a-valid-token")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareInvalidFormatNoBearer(t *testing.T) {
	token, _ := utils.GenerateToken(uuid.New(), "a@test.com", "admin", nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/test", nil)
	req.Header.Set("Authorization", "Token "+token)
	setupTestRouter().ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	claims := utils.Claims{
		UserID: uuid.New(),
		Email:  "expired@test.com",
		Role:   "staff",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			Issuer:    "delivery-backend",
		},
	}
	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(os.Getenv("JWT_SECRET")))

	w := doRequest(setupTestRouter(), "/api/test", expired)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareRejectsRefreshToken(t *testing.T) {
	refresh, _ := utils.GenerateRefreshToken(uuid.New(), "a@test.com", "admin", nil)
	w := doRequest(setupTestRouter(), "/api/test", refresh)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("refresh token must not authenticate requests, got %d", w.Code)
	}
}

func TestAdminMiddleware(t *testing.T) {
	router := setupTestRouter()
	estID := uuid.New()
	admin, _ := utils.GenerateToken(uuid.New(), "admin@test.com", "admin", nil)
	staff, _ := utils.GenerateToken(uuid.New(), "staff@test.com", "staff", &estID)

	if w := doRequest(router, "/api/admin/test", admin); w.Code != http.StatusOK {
		t.Errorf("admin: expected 200, got %d", w.Code)
	}
	if w := doRequest(router, "/api/admin/test", staff); w.Code != http.StatusForbidden {
		t.Errorf("staff: expected 403, got %d", w.Code)
	}
}

func TestStaffMiddleware(t *testing.T) {
	router := setupTestRouter()
	estID := uuid.New()

	tests := []struct {
		name  string
		role  string
		estID *uuid.UUID
		want  int
	}{
		{"admin without establishment", "admin", nil, http.StatusOK},
		{"staff with establishment", "staff", &estID, http.StatusOK},
		{"staff without establishment", "staff", nil, http.StatusForbidden},
		{"unknown role", "customer", &estID, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, _ := utils.GenerateToken(uuid.New(), "u@test.com", tt.role, tt.estID)
			if w := doRequest(router, "/api/staff/test", token); w.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}
