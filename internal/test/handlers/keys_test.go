package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"frame-lab-backend/internal/config"
	"frame-lab-backend/internal/genai"
	"frame-lab-backend/internal/handlers"
)

func TestValidateKey_ReportsBoolean(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") == "good-key" {
			w.Write([]byte(`{"models": []}`))
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer provider.Close()

	client := genai.NewClient(provider.URL, genai.Models{})
	handler := handlers.NewKeysHandler(client, &config.Config{})

	router := gin.New()
	router.POST("/keys/validate", handler.ValidateKey)

	req, _ := http.NewRequest("POST", "/keys/validate", strings.NewReader(`{"api_key": "good-key"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"valid":true`)

	req, _ = http.NewRequest("POST", "/keys/validate", strings.NewReader(`{"api_key": "bad-key"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// An invalid key is still a 200 with valid=false, never an error.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"valid":false`)
}

func TestValidateKey_MissingKeyRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)

	client := genai.NewClient("http://127.0.0.1:0", genai.Models{})
	handler := handlers.NewKeysHandler(client, &config.Config{})

	router := gin.New()
	router.POST("/keys/validate", handler.ValidateKey)

	req, _ := http.NewRequest("POST", "/keys/validate", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
