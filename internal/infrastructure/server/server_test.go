package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ntandostore/core/internal/application"
	"github.com/ntandostore/core/internal/infrastructure/config"
	"github.com/ntandostore/core/internal/infrastructure/logger"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return newTestServerWithLogger(t, logger.NewNop())
}

func newTestServerWithLogger(t *testing.T, appLogger *logger.Logger) *Server {
	t.Helper()

	dir := t.TempDir()
	publicDir := filepath.Join(dir, "public")
	if err := os.MkdirAll(filepath.Join(publicDir, "js"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	pages := map[string]string{
		"index.html":           "<h1>store</h1>",
		"admin.html":           "<h1>login</h1>",
		"admin-dashboard.html": "<h1>dashboard</h1>",
		"js/main.js":           "console.log('main')",
	}
	for name, body := range pages {
		if err := os.WriteFile(filepath.Join(publicDir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	cfg := &config.Config{
		App: config.AppConfig{Name: "NtandoStore", Product: "ntandostore", Version: "test", Environment: "test"},
		Server: config.ServerConfig{
			PublicDir:      publicDir,
			RequestTimeout: 5 * time.Second,
		},
		Storage: config.StorageConfig{
			DataFile:           filepath.Join(dir, "data", "admin-data.json"),
			BackupDir:          filepath.Join(dir, "data", "backups"),
			UploadDir:          filepath.Join(dir, "uploads"),
			PermanentUploadDir: filepath.Join(dir, "permanent-uploads"),
			MaxBackups:         10,
		},
		Upload:   config.UploadConfig{MaxSize: 1 << 20, URLPrefix: "/uploads"},
		Admin:    config.AdminConfig{Username: "admin", Password: "secret"},
		JWT:      config.JWTConfig{Secret: "test-secret", ExpiresIn: time.Hour, Issuer: "test"},
		Security: config.SecurityConfig{CORSAllowedOrigins: "*", RateLimitRequests: 1000, RateLimitWindow: time.Minute},
		Metrics:  config.MetricsConfig{Enabled: true},
	}

	app, err := application.New(cfg, appLogger)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	srv, err := New(app)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

func (s *Server) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	var body map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body %q: %v", rec.Body.String(), err)
		}
	}
	return rec, body
}

func jsonRequest(method, target, body, token string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func login(t *testing.T, s *Server) string {
	t.Helper()

	rec, body := s.do(t, jsonRequest(http.MethodPost, "/api/admin/login", `{"username":"admin","password":"secret"}`, ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("login: missing token in %v", body)
	}
	return token
}

func TestPublicRoutes(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(t, httptest.NewRequest(http.MethodGet, "/api/services", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["success"] != true {
		t.Fatalf("expected success envelope, got %v", body)
	}
	if services, _ := body["services"].([]interface{}); len(services) != 7 {
		t.Fatalf("expected 7 default services, got %v", body["services"])
	}

	rec, body = s.do(t, jsonRequest(http.MethodPost, "/api/contact", `{"name":"Ann","email":"ann@example.com","message":"hello"}`, ""))
	if rec.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("contact: expected success, got %d %v", rec.Code, body)
	}

	rec, _ = s.do(t, jsonRequest(http.MethodPost, "/api/contact", `{"email":"not-an-email"}`, ""))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("contact with bad email: expected 400, got %d", rec.Code)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing", header: ""},
		{name: "malformed", header: "Token abc"},
		{name: "invalid", header: "Bearer abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/services", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec, body := s.do(t, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if body["success"] != false {
				t.Fatalf("expected failure envelope, got %v", body)
			}
		})
	}

	rec, _ := s.do(t, jsonRequest(http.MethodPost, "/api/admin/login", `{"username":"admin","password":"wrong"}`, ""))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", rec.Code)
	}
}

func TestAdminServiceLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s)

	rec, body := s.do(t, jsonRequest(http.MethodPost, "/api/admin/services", `{"name":"Consulting","features":["a"]}`, token))
	if rec.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	service, _ := body["service"].(map[string]interface{})
	if service["id"] != float64(8) {
		t.Fatalf("expected id 8, got %v", service["id"])
	}
	if _, hasWarnings := body["warnings"]; hasWarnings {
		t.Fatalf("expected no warnings, got %v", body["warnings"])
	}

	rec, body = s.do(t, jsonRequest(http.MethodPut, "/api/admin/services/99", `{"name":"x"}`, token))
	if rec.Code != http.StatusNotFound || body["message"] != "Service not found" {
		t.Fatalf("update missing: expected 404 Service not found, got %d %v", rec.Code, body)
	}

	rec, _ = s.do(t, jsonRequest(http.MethodPost, "/api/admin/services", `{"description":"no name"}`, token))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("create without name: expected 400, got %d", rec.Code)
	}

	rec, _ = s.do(t, jsonRequest(http.MethodDelete, "/api/admin/domains/5", "", token))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("delete missing domain: expected 404, got %d", rec.Code)
	}

	rec, body = s.do(t, jsonRequest(http.MethodGet, "/api/admin/backup/list", "", token))
	if rec.Code != http.StatusOK {
		t.Fatalf("backup list: expected 200, got %d", rec.Code)
	}
	if backups, _ := body["backups"].([]interface{}); len(backups) != 1 {
		t.Fatalf("expected one backup after one write, got %v", body["backups"])
	}
}

func TestBackupDownloadValidatesName(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s)

	rec, _ := s.do(t, jsonRequest(http.MethodGet, "/api/admin/backup/download/admin-data.json", "", token))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a non-backup name, got %d", rec.Code)
	}

	rec, _ = s.do(t, jsonRequest(http.MethodGet, "/api/admin/backup/download/admin-data-backup-2001-01-01T00-00-00-000Z.json", "", token))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown backup, got %d", rec.Code)
	}

	if rec, _ := s.do(t, jsonRequest(http.MethodPost, "/api/admin/services", `{"name":"Logo Design"}`, token)); rec.Code != http.StatusOK {
		t.Fatalf("create service: unexpected status %d", rec.Code)
	}
	rec, body := s.do(t, jsonRequest(http.MethodPost, "/api/admin/backup/create", "", token))
	if rec.Code != http.StatusOK {
		t.Fatalf("create backup: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	backup, _ := body["backup"].(map[string]interface{})
	name, _ := backup["filename"].(string)
	if name == "" {
		t.Fatalf("create backup: missing filename in %v", body)
	}

	want, err := os.ReadFile(filepath.Join(s.app.Backups.Dir(), name))
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	rec, _ = s.do(t, jsonRequest(http.MethodGet, "/api/admin/backup/download/"+name, "", token))
	if rec.Code != http.StatusOK {
		t.Fatalf("download: expected 200, got %d", rec.Code)
	}
	if !bytes.Equal(rec.Body.Bytes(), want) {
		t.Fatalf("download: body differs from snapshot file")
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, "attachment") || !strings.Contains(cd, name) {
		t.Fatalf("download: unexpected Content-Disposition %q", cd)
	}
}

func multipartRequest(t *testing.T, target, field, filename, contentType string, data []byte, token string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUploadEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s)

	rec, _ := s.do(t, multipartRequest(t, "/api/admin/upload/logo", "logo", "virus.exe", "application/x-msdownload", []byte("MZ"), token))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("exe upload: expected 400, got %d", rec.Code)
	}

	rec, _ = s.do(t, multipartRequest(t, "/api/admin/upload/logo", "wrongfield", "logo.png", "image/png", []byte("png"), token))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing field: expected 400, got %d", rec.Code)
	}

	rec, body := s.do(t, multipartRequest(t, "/api/admin/upload/logo", "logo", "logo.png", "image/png", []byte("png"), token))
	if rec.Code != http.StatusOK {
		t.Fatalf("png upload: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	url, _ := body["logoUrl"].(string)
	if !strings.HasPrefix(url, "/uploads/logo-") {
		t.Fatalf("unexpected logo url %q", url)
	}

	rec, _ = s.do(t, httptest.NewRequest(http.MethodGet, url, nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "png" {
		t.Fatalf("expected uploaded file to be served, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestImportRejectsInvalidFile(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s)

	rec, body := s.do(t, multipartRequest(t, "/api/admin/import", "importFile", "export.json", "application/json", []byte(`{"nope":true}`), token))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body["message"] != "Invalid data format" {
		t.Fatalf("unexpected message %v", body["message"])
	}
}

func TestStaticPages(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		path string
		code int
		body string
	}{
		{path: "/", code: http.StatusOK, body: "<h1>store</h1>"},
		{path: "/some/client/route", code: http.StatusOK, body: "<h1>store</h1>"},
		{path: "/js/main.js", code: http.StatusOK, body: "console.log('main')"},
		{path: "/admin", code: http.StatusOK, body: "<h1>login</h1>"},
		{path: "/admin/dashboard", code: http.StatusOK, body: "<h1>dashboard</h1>"},
		{path: "/admin/secret", code: http.StatusNotFound, body: "Admin page not found"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec, _ := s.do(t, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			if rec.Body.String() != tt.body {
				t.Fatalf("expected body %q, got %q", tt.body, rec.Body.String())
			}
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/health", "/ready", "/metrics"} {
		rec, _ := s.do(t, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestSystemInfoAndExport(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s)

	rec, body := s.do(t, jsonRequest(http.MethodGet, "/api/admin/export", "", token))
	if rec.Code != http.StatusOK {
		t.Fatalf("export: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "ntandostore-export-") {
		t.Fatalf("export: unexpected Content-Disposition %q", cd)
	}
	if _, ok := body["data"].(map[string]interface{}); !ok {
		t.Fatalf("export: missing data object in %v", body)
	}

	rec, body = s.do(t, jsonRequest(http.MethodGet, "/api/admin/system", "", token))
	if rec.Code != http.StatusOK {
		t.Fatalf("system: expected 200, got %d", rec.Code)
	}
	system, _ := body["system"].(map[string]interface{})
	if system == nil {
		t.Fatalf("system: missing system object in %v", body)
	}
	if count, _ := system["backupsCount"].(float64); count != 0 {
		t.Fatalf("system: export file must not count as a backup, got %v", count)
	}
	if v, _ := system["goVersion"].(string); !strings.HasPrefix(v, "go") {
		t.Fatalf("system: unexpected goVersion %q", v)
	}
}

func TestRequestLogCarriesRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := newTestServerWithLogger(t, &logger.Logger{SugaredLogger: zap.New(core).Sugar()})

	rec, _ := s.do(t, httptest.NewRequest(http.MethodGet, "/api/services", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	requestID := rec.Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		t.Fatal("expected a request id header")
	}

	entries := logs.FilterMessage("HTTP request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != requestID {
		t.Fatalf("expected request_id %q, got %v", requestID, fields["request_id"])
	}
	if fields["uri"] != "/api/services" {
		t.Fatalf("unexpected uri %v", fields["uri"])
	}
}

func TestInternalErrorsAreLoggedWithCause(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	s := newTestServerWithLogger(t, &logger.Logger{SugaredLogger: zap.New(core).Sugar()})
	token := login(t, s)

	// A directory where the data file belongs makes every write fail.
	if err := os.MkdirAll(filepath.Join(s.app.Store.Path(), "blocker"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	rec, body := s.do(t, jsonRequest(http.MethodPost, "/api/admin/services", `{"name":"x"}`, token))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", rec.Code, rec.Body.String())
	}
	if body["message"] != "Failed to save service" {
		t.Fatalf("expected generic client message, got %v", body["message"])
	}

	entries := logs.FilterMessage("Internal server error").All()
	if len(entries) == 0 {
		t.Fatal("expected an internal error log entry")
	}
	if cause, _ := entries[0].ContextMap()["error"].(string); !strings.Contains(cause, "storage failure") {
		t.Fatalf("expected storage failure cause in log, got %q", cause)
	}
}
