package portfolio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/domain/content"
	"portfolio/internal/pkg/cache"
)

func TestHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, catalog := setupTestService(t, cache.NewMemoryCache())

	_, err := catalog.Contact.Save(context.Background(), &content.Contact{Email: "me@example.com"}, nil)
	require.NoError(t, err)

	r := gin.New()
	NewHandler(svc).RegisterPublicRoutes(r.Group("/api/v1"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/portfolio", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	for _, k := range []string{"profile", "about", "contact", "experiences", "projects", "skills", "social_links", "educations", "services"} {
		assert.Contains(t, body.Data, k)
	}
	contact := body.Data["contact"].(map[string]any)
	assert.Equal(t, "me@example.com", contact["email"])
}
