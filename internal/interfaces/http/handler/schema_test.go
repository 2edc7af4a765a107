package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appschema "schemaforge-api/internal/application/schema"
	"schemaforge-api/internal/catalog"
)

func newSchemaRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := appschema.NewRegistry()
	require.NoError(t, catalog.Register(registry))

	h := NewSchemaHandler(registry)
	r := gin.New()
	r.GET("/v1/schemas", h.ListSchemas)
	r.GET("/v1/schemas/:name", h.GetSchema)
	return r
}

func TestListSchemas(t *testing.T) {
	r := newSchemaRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/schemas", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Code int `json:"code"`
		Data struct {
			Types []string `json:"types"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 200, body.Code)
	assert.Equal(t, []string{"Item", "NPC", "Quest"}, body.Data.Types)
}

func TestGetSchema(t *testing.T) {
	r := newSchemaRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/schemas/Item", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			TypeName     string `json:"type_name"`
			JSONTemplate string `json:"json_template"`
			Fields       []struct {
				Name string `json:"name"`
				Kind string `json:"kind"`
			} `json:"fields"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Item", body.Data.TypeName)
	assert.NotEmpty(t, body.Data.Fields)
	assert.True(t, json.Valid([]byte(body.Data.JSONTemplate)))
}

func TestGetSchema_NotFound(t *testing.T) {
	r := newSchemaRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/schemas/Ghost", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
