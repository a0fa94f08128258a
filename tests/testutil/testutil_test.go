package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexiwear/backend/internal/interfaces/http/dto"
)

type probeModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(50)"`
}

func TestNewSQLiteDB(t *testing.T) {
	db := NewSQLiteDB(t, &probeModel{})

	require.NoError(t, db.Create(&probeModel{Name: "probe"}).Error)

	var count int64
	require.NoError(t, db.Model(&probeModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestNewSQLiteDB_Isolated(t *testing.T) {
	first := NewSQLiteDB(t, &probeModel{})
	second := NewSQLiteDB(t, &probeModel{})

	require.NoError(t, first.Create(&probeModel{Name: "only-here"}).Error)

	var count int64
	require.NoError(t, second.Model(&probeModel{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestUUIDFromSeed(t *testing.T) {
	assert.Equal(t, UUIDFromSeed("supplier-acme"), UUIDFromSeed("supplier-acme"),
		"same seed yields the same UUID")
	assert.NotEqual(t, UUIDFromSeed("supplier-acme"), UUIDFromSeed("supplier-other"))
}

func newProbeServer() *gin.Engine {
	srv := gin.New()
	srv.GET("/probe", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})
	srv.POST("/echo", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.Data(http.StatusOK, "application/json",
			[]byte(`{"success":true,"data":`+string(body)+`}`))
	})
	srv.GET("/missing", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, "no such thing"))
	})
	return srv
}

func TestDoJSONAndDecode(t *testing.T) {
	srv := newProbeServer()

	w := DoJSON(t, srv, http.MethodGet, "/probe", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := DecodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "ok", resp.Data.(map[string]any)["status"])
}

func TestDecodeData(t *testing.T) {
	type payload struct {
		Key string `json:"key"`
	}
	srv := newProbeServer()

	w := DoJSON(t, srv, http.MethodPost, "/echo", payload{Key: "value"})

	assert.Equal(t, "value", DecodeData[payload](t, w).Key)
}

func TestAssertErrorCode(t *testing.T) {
	srv := newProbeServer()

	w := DoJSON(t, srv, http.MethodGet, "/missing", nil)
	AssertErrorCode(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
}

func TestRunHTTPTestCases(t *testing.T) {
	srv := newProbeServer()

	RunHTTPTestCases(t, srv, []HTTPTestCase{
		{Name: "probe ok", Path: "/probe", ExpectedStatus: http.StatusOK},
		{
			Name:           "missing maps to not found",
			Path:           "/missing",
			ExpectedStatus: http.StatusNotFound,
			ExpectedCode:   dto.ErrCodeNotFound,
		},
		{
			Name:   "echo round-trips the body",
			Method: http.MethodPost,
			Path:   "/echo",
			Body:   gin.H{"key": "value"},
			Validate: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := DecodeResponse(t, w)
				assert.Equal(t, "value", resp.Data.(map[string]any)["key"])
			},
		},
	})
}

func TestToJSONReader(t *testing.T) {
	reader := ToJSONReader(t, map[string]string{"key": "value"})
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"value"}`, string(data))
}
