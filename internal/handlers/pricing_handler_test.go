package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHeaderPreview_MissingArea(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewPricingHandler(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/pricing/header",
		bytes.NewBufferString(`{"base_rate": 3000}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.HeaderPreview(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Area")
}

func TestOrDefault(t *testing.T) {
	zero := 0.0
	hundred := 100.0

	// nil falls back, an explicit zero does not
	assert.Equal(t, 25.0, orDefault(nil, 25))
	assert.Equal(t, 0.0, orDefault(&zero, 25))
	assert.Equal(t, 100.0, orDefault(&hundred, 25))
}
