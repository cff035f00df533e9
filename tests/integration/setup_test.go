package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"caishen/internal/database"
	"caishen/internal/logger"
	"caishen/internal/quote"
	"caishen/internal/server"
	"caishen/internal/services"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Users  services.UserServicer
	Feeds  *upstreamStub
	Quotes *quote.Client
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

// upstreamStub impersonates the market data feeds and the report webhook.
type upstreamStub struct {
	server *httptest.Server

	EquityBody  string
	FundgzBody  string
	NAVBody     string
	WebhookHits atomic.Int64
}

func newUpstreamStub(t *testing.T) *upstreamStub {
	t.Helper()
	s := &upstreamStub{
		EquityBody: "var hq_str_sh600519=\"MOUTAI,1690.00,1690.00,1700.00\";\n",
		FundgzBody: `jsonpgz({"fundcode":"161039","name":"BAIJIU","jzrq":"2024-01-02","dwjz":"1.2100","gsz":"1.2500","gszzl":"3.31"});`,
		NAVBody:    "var hq_str_f_161039=\"BAIJIU,1.2340,2.1,1.21,2024-01-03\";\n",
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/equity", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(s.EquityBody))
	})
	mux.HandleFunc("/js/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(s.FundgzBody))
	})
	mux.HandleFunc("/nav", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(s.NAVBody))
	})
	mux.HandleFunc("/webhook", func(w http.ResponseWriter, r *http.Request) {
		s.WebhookHits.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	s.server = httptest.NewServer(mux)
	t.Cleanup(s.server.Close)
	return s
}

// URL returns the stub's base URL.
func (s *upstreamStub) URL() string { return s.server.URL }

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(database.AllModels()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// setupApp creates the full stack: real services and quote client, with the
// upstream feeds pointed at a local stub.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	feeds := newUpstreamStub(t)

	quoteClient := quote.NewClient(quote.Options{
		Timeout:         2 * time.Second,
		CacheTTL:        time.Millisecond,
		SinaURL:         feeds.URL() + "/equity?list=",
		TencentURL:      feeds.URL() + "/equity?q=",
		FundEstimateURL: feeds.URL() + "/js/%s.js?rt=%d",
		FundNAVURL:      feeds.URL() + "/nav?list=",
	})

	userService := services.NewUserService(db)
	holdingService := services.NewHoldingService(db)
	settingService := services.NewSettingService(db)
	snapshotService := services.NewSnapshotService(db, holdingService, settingService, quoteClient, services.NewWebhookService())

	router := server.New(server.Deps{
		Users:     userService,
		Holdings:  holdingService,
		Settings:  settingService,
		Snapshots: snapshotService,
		Quotes:    quoteClient,
	})

	return &testApp{DB: db, Router: router, Users: userService, Feeds: feeds, Quotes: quoteClient}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// bootstrapAdmin creates the admin account and returns an access token.
func (app *testApp) bootstrapAdmin(t *testing.T) string {
	t.Helper()
	if _, err := app.Users.EnsureUser("admin", "admin888"); err != nil {
		t.Fatalf("bootstrap admin: %v", err)
	}
	rec := app.request("POST", "/api/v1/auth/login", `{"username":"admin","password":"admin888"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["access_token"].(string)
}
