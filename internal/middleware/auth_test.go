package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/dex-sniper/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func roleRouter(role models.OperatorRole, setRole bool) *gin.Engine {
	router := gin.New()
	router.POST("/control",
		func(c *gin.Context) {
			if setRole {
				c.Set(ContextKeyOperatorRole, role)
			}
			c.Next()
		},
		RequireAdmin(),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	return router
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name     string
		role     models.OperatorRole
		setRole  bool
		wantCode int
	}{
		{"admin passes", models.RoleAdmin, true, http.StatusOK},
		{"observer rejected", models.RoleObserver, true, http.StatusForbidden},
		{"missing role rejected", "", false, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/control", nil)
			roleRouter(tt.role, tt.setRole).ServeHTTP(w, req)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
