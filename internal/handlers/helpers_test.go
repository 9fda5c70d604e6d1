package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/dhanush290707/FoodFlow/db"
	"github.com/dhanush290707/FoodFlow/internal/auth"
	"github.com/dhanush290707/FoodFlow/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter int64

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	if err := auth.InitJWTSecret("test-secret"); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

// setupTest points the global DB at a fresh in-memory sqlite database and
// returns the full router. Each test gets its own database.
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()

	// cache=shared so every pooled connection sees the same database
	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))

	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One connection keeps sqlite writers serialized
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db.DB = gormDB
	require.NoError(t, db.MigrateDatabase())

	return router.NewRouter()
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return body
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()

	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return body
}

func itoa(id uint) string {
	return fmt.Sprintf("%d", id)
}

func registerUser(t *testing.T, r *gin.Engine, email, role, org string) {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":            email,
		"password":         "password123",
		"role":             role,
		"organizationName": org,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

// loginUser returns the session token and user id for a registered account.
func loginUser(t *testing.T, r *gin.Engine, email string) (string, uint) {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	token, ok := body["token"].(string)
	require.True(t, ok, "login response missing token")

	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok, "login response missing user")

	return token, uint(user["id"].(float64))
}
