package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexiwear/backend/internal/interfaces/http/dto"
)

type reorderRequest struct {
	ProductCode  string `json:"product_code" binding:"required,min=1,max=50"`
	Quantity     int    `json:"quantity" binding:"required,min=1"`
	Priority     string `json:"priority" binding:"omitempty,oneof=NORMAL HIGH URGENT"`
	ServiceLevel int    `json:"service_level" binding:"omitempty,oneof=90 95 99"`
}

func newValidationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.Use(RequestID())
	router.POST("/reorder", func(c *gin.Context) {
		var req reorderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(req))
	})
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestValidationReportsFieldDetails(t *testing.T) {
	router := newValidationRouter()

	w := postJSON(router, "/reorder", `{"quantity":0,"priority":"CRITICAL"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.RequestID)

	messages := make(map[string]string, len(resp.Error.Details))
	for _, d := range resp.Error.Details {
		messages[d.Field] = d.Message
	}
	assert.Equal(t, "This field is required", messages["product_code"])
	assert.Equal(t, "This field is required", messages["quantity"])
	assert.Equal(t, "Must be one of: NORMAL HIGH URGENT", messages["priority"])
}

func TestValidationUsesJSONFieldNames(t *testing.T) {
	router := newValidationRouter()

	w := postJSON(router, "/reorder", `{"product_code":"CG-SLV-M","quantity":10,"service_level":85}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "service_level", resp.Error.Details[0].Field)
	assert.Equal(t, "Must be one of: 90 95 99", resp.Error.Details[0].Message)
}

func TestValidationAcceptsValidRequest(t *testing.T) {
	router := newValidationRouter()

	w := postJSON(router, "/reorder", `{"product_code":"CG-SLV-M","quantity":10,"priority":"HIGH"}`)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMalformedJSONHasNoFieldDetails(t *testing.T) {
	router := newValidationRouter()

	w := postJSON(router, "/reorder", `{"product_code":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
}

func TestFormatValidationErrorsCarriesRequestID(t *testing.T) {
	SetupValidator()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	err := v.Struct(reorderRequest{Quantity: -1})
	require.Error(t, err)

	resp := FormatValidationErrors(err, "req-42")
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-42", resp.Error.RequestID)
	assert.NotEmpty(t, resp.Error.Details)
}
