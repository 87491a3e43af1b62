package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/authstack/userauth/internal/domain"
	"github.com/authstack/userauth/internal/health"
	"github.com/authstack/userauth/internal/http/handler"
	"github.com/authstack/userauth/internal/http/router"
	"github.com/authstack/userauth/internal/repository"
	"github.com/authstack/userauth/internal/security"
	"github.com/authstack/userauth/internal/service"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// newAuthTestServer boots the full HTTP stack on an in-memory sqlite
// database.
func newAuthTestServer(t *testing.T) (string, *http.Client, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Session{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	users := repository.NewUserRepository(db)
	sessions := repository.NewSessionRepository(db)
	hasher := security.NewPasswordHasher(bcrypt.MinCost)
	codec := security.NewTokenCodec("userauth", strings.Repeat("k", 32), time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewAuthService(users, sessions, hasher, codec, service.NewInMemoryNegativeLookupCacheStore(), 30*time.Second, logger)

	h := router.NewRouter(router.Dependencies{
		AuthHandler:   handler.NewAuthHandler(svc),
		UserHandler:   handler.NewUserHandler(users),
		TokenCodec:    codec,
		Authenticator: svc,
		Readiness:     health.NewProbeRunner(time.Second, time.Second, health.DatabaseChecker(db)),
	})

	srv := httptest.NewServer(h)
	return srv.URL, srv.Client(), srv.Close
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any, headers map[string]string) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope for %s %s: %v", method, url, err)
	}
	return resp, env
}
