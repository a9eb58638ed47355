package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdesk/internal/core/apperror"
	"salesdesk/internal/infrastructure/http/v1/dto"
)

func errorTestRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/test", handler)
	return router
}

func TestErrorHandler_AppError(t *testing.T) {
	router := errorTestRouter(func(c *gin.Context) {
		_ = c.Error(apperror.NewNotFound("sales", "some-id"))
		c.Abort()
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperror.CodeNotFound, body.Code)
	assert.Equal(t, "sales not found", body.Message)
	assert.Equal(t, "some-id", body.Details["id"])
}

func TestErrorHandler_ValidationDetails(t *testing.T) {
	router := errorTestRouter(func(c *gin.Context) {
		_ = c.Error(apperror.NewValidation("Validation failed").
			WithDetail("errors", []map[string]string{{"field": "Customer", "message": "Customer name is required."}}))
		c.Abort()
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperror.CodeValidation, body.Code)
	assert.NotEmpty(t, body.Details["errors"])
}

func TestErrorHandler_UnknownError(t *testing.T) {
	router := errorTestRouter(func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
		c.Abort()
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperror.CodeInternal, body.Code)
	assert.Equal(t, "Internal server error", body.Message)
	assert.NotContains(t, body.Message, "boom")
}

func TestErrorHandler_NoErrors(t *testing.T) {
	router := errorTestRouter(func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
