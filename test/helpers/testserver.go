package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"delego_backend/database"
	"delego_backend/internal/app"
	"delego_backend/internal/config"
	"delego_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// TestServer holds the assembled router and a database pool for tests.
// Requests are served in-process through Router.ServeHTTP so that each test's
// transaction can ride along on the request context.
type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func NewTestServer() (*TestServer, error) {
	gin.SetMode(gin.TestMode)

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}

	router, err := app.SetupRouter(cfg, db)
	if err != nil {
		return nil, err
	}

	return &TestServer{
		Router: router,
		DB:     db,
		Config: cfg,
	}, nil
}

// BeginTransaction opens a transaction that a test injects into its requests.
// Rolling it back at the end of the test wipes everything the test created.
func (ts *TestServer) BeginTransaction() *gorm.DB {
	return ts.DB.Begin()
}

func (ts *TestServer) RollbackTransaction(tx *gorm.DB) {
	tx.Rollback()
}

// SendRequest performs an in-process JSON request. The transaction is placed
// on the request context where DBMiddleware picks it up instead of the pool.
func (ts *TestServer) SendRequest(t *testing.T, tx *gorm.DB, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return ts.serve(t, tx, req, token)
}

// SendMultipartRequest uploads a single file under the "file" form field.
func (ts *TestServer) SendMultipartRequest(t *testing.T, tx *gorm.DB, method, path, token, filename, contentType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	partHeader := make(map[string][]string)
	partHeader["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	partHeader["Content-Type"] = []string{contentType}

	part, err := writer.CreatePart(partHeader)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return ts.serve(t, tx, req, token)
}

func (ts *TestServer) serve(t *testing.T, tx *gorm.DB, req *http.Request, token string) *httptest.ResponseRecorder {
	t.Helper()

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if tx != nil {
		ctx := context.WithValue(req.Context(), contextkeys.DBContextKey, tx)
		req = req.WithContext(ctx)
	}

	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

// DecodeResponse unmarshals a recorded JSON body into out.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
