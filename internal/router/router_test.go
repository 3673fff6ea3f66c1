package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"Book_Club/internal/pkg"
	"Book_Club/internal/repository/redis"
	"Book_Club/internal/repository/sqldb"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

func newTestServer(t *testing.T, withTokens bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqldb.Open("sqlite", filepath.Join(t.TempDir(), "site.db"), gormlogger.Discard)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := sqldb.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close(db) })

	log := logrus.New()
	log.SetOutput(io.Discard)
	deps := Deps{DB: db, Log: log}
	if withTokens {
		mr := miniredis.RunT(t)
		client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		deps.Issuer = pkg.NewTokenIssuer("access", "refresh", time.Minute, time.Hour)
		deps.Tokens = redis.NewTokenRepository(client, time.Minute, time.Hour)
	}
	return InitRouter(deps)
}

func do(t *testing.T, r http.Handler, method, path string, body any, header ...string) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, out
}

func register(t *testing.T, r http.Handler, username string) {
	t.Helper()
	code, body := do(t, r, http.MethodPost, "/register", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "pw-" + username,
	})
	if code != http.StatusCreated {
		t.Fatalf("register %s: %d %v", username, code, body)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	r := newTestServer(t, false)
	register(t, r, "alice")

	code, body := do(t, r, http.MethodPost, "/register", gin.H{"username": "alice", "email": "x@example.com", "password": "p"})
	if code != http.StatusBadRequest || body["error"] != "User already exists" {
		t.Fatalf("duplicate: %d %v", code, body)
	}

	code, body = do(t, r, http.MethodPost, "/register", gin.H{"username": "bob", "password": "p"})
	if code != http.StatusBadRequest || body["error"] != "Missing required field: email" {
		t.Fatalf("missing email: %d %v", code, body)
	}

	code, body = do(t, r, http.MethodPost, "/login", gin.H{"username": "alice", "password": "pw-alice"})
	if code != http.StatusOK {
		t.Fatalf("login: %d %v", code, body)
	}
	user := body["user"].(map[string]any)
	if user["id"].(float64) != 1 || user["username"] != "alice" || user["email"] != "alice@example.com" {
		t.Fatalf("user = %v", user)
	}

	code, _ = do(t, r, http.MethodPost, "/login", gin.H{"username": "alice", "password": "nope"})
	if code != http.StatusUnauthorized {
		t.Fatalf("wrong password: %d", code)
	}
}

func TestGetUser(t *testing.T) {
	r := newTestServer(t, false)
	register(t, r, "alice")

	code, body := do(t, r, http.MethodGet, "/users/1", nil)
	if code != http.StatusOK {
		t.Fatalf("get: %d %v", code, body)
	}
	info := body["user_info"].(map[string]any)
	if info["username"] != "alice" || info["club"] != nil {
		t.Fatalf("user_info = %v", info)
	}

	if code, _ := do(t, r, http.MethodGet, "/users/7", nil); code != http.StatusNotFound {
		t.Fatalf("missing user: %d", code)
	}
	if code, _ := do(t, r, http.MethodGet, "/users/abc", nil); code != http.StatusBadRequest {
		t.Fatalf("malformed id: %d", code)
	}
}

func TestClubFlow(t *testing.T) {
	r := newTestServer(t, false)
	register(t, r, "admin")
	register(t, r, "reader")

	code, body := do(t, r, http.MethodPost, "/createclub", gin.H{"club_name": "Sci-Fi Readers", "admin_id": 1})
	if code != http.StatusCreated {
		t.Fatalf("create: %d %v", code, body)
	}
	code, body = do(t, r, http.MethodPost, "/createclub", gin.H{"club_name": "Ghosts", "admin_id": 99})
	if code != http.StatusBadRequest || body["error"] != "Invalid admin_id" {
		t.Fatalf("invalid admin: %d %v", code, body)
	}

	code, body = do(t, r, http.MethodPost, "/clubs/Sci-Fi%20Readers/join", gin.H{"user_id": 2})
	if code != http.StatusOK || body["already_member"] != false {
		t.Fatalf("join: %d %v", code, body)
	}
	code, body = do(t, r, http.MethodPost, "/clubs/1/join", gin.H{"user_id": 2})
	if code != http.StatusOK || body["already_member"] != true {
		t.Fatalf("rejoin: %d %v", code, body)
	}
	code, body = do(t, r, http.MethodPost, "/clubs/1/join", gin.H{})
	if code != http.StatusBadRequest || body["error"] != "Missing user_id" {
		t.Fatalf("join without user: %d %v", code, body)
	}
	if code, _ := do(t, r, http.MethodPost, "/clubs/Nope/join", gin.H{"user_id": 2}); code != http.StatusBadRequest {
		t.Fatalf("join unknown club: %d", code)
	}

	code, body = do(t, r, http.MethodGet, "/clubs/1", nil)
	if code != http.StatusOK {
		t.Fatalf("info: %d %v", code, body)
	}
	info := body["club_info"].(map[string]any)
	admin := info["admin"].(map[string]any)
	if admin["admin_id"].(float64) != 1 || admin["admin_username"] != "admin" {
		t.Fatalf("admin = %v", admin)
	}
	members := info["members"].([]any)
	if len(members) != 2 || members[0].(map[string]any)["user_id"].(float64) != 1 {
		t.Fatalf("members = %v", members)
	}

	if code, _ := do(t, r, http.MethodGet, "/clubs/Unknown", nil); code != http.StatusNotFound {
		t.Fatalf("unknown club: %d", code)
	}

	code, body = do(t, r, http.MethodGet, "/user/2/is-in-club", nil)
	if code != http.StatusOK || body["is_in_club"] != true || body["club_id"].(float64) != 1 {
		t.Fatalf("is-in-club: %d %v", code, body)
	}
	if code, _ := do(t, r, http.MethodGet, "/user/9/is-in-club", nil); code != http.StatusNotFound {
		t.Fatalf("is-in-club missing user: %d", code)
	}
}

func TestContentRoutes(t *testing.T) {
	r := newTestServer(t, false)
	register(t, r, "admin")
	do(t, r, http.MethodPost, "/createclub", gin.H{"club_name": "Readers", "admin_id": 1})

	code, body := do(t, r, http.MethodPost, "/clubs/Nowhere/meetings", gin.H{})
	if code != http.StatusBadRequest || body["error"] != "Missing required field: meeting_date" {
		t.Fatalf("meeting missing date: %d %v", code, body)
	}
	if code, _ := do(t, r, http.MethodPost, "/clubs/Nowhere/meetings", gin.H{"meeting_date": "2024-05-01"}); code != http.StatusNotFound {
		t.Fatalf("meeting unknown club: %d", code)
	}
	if code, _ := do(t, r, http.MethodPost, "/clubs/Readers/meetings", gin.H{"meeting_date": "2024-05-01", "meeting_link": "https://meet.example"}); code != http.StatusCreated {
		t.Fatalf("meeting: %d", code)
	}

	code, body = do(t, r, http.MethodPost, "/clubs/Readers/books", gin.H{"title": "Dune", "imageUrl": "https://img.example/dune.jpg", "pages": 412})
	if code != http.StatusCreated {
		t.Fatalf("book: %d %v", code, body)
	}
	bookID := body["book_id"].(float64)

	if code, _ := do(t, r, http.MethodPost, "/clubs/Readers/currently-reading", gin.H{"book_id": bookID}); code != http.StatusCreated {
		t.Fatalf("currently reading: %d", code)
	}
	if code, _ := do(t, r, http.MethodPost, "/clubs/Readers/currently-reading", gin.H{"book_id": 99}); code != http.StatusNotFound {
		t.Fatalf("currently reading unknown book: %d", code)
	}
	if code, _ := do(t, r, http.MethodPost, "/clubs/Readers/recomended-books", gin.H{"book_id": bookID}); code != http.StatusCreated {
		t.Fatalf("recommended: %d", code)
	}

	code, body = do(t, r, http.MethodPost, "/clubs/Readers/ratings-reviews", gin.H{"user_id": 1, "rating": 4, "book_id": 99, "review": "?"})
	if code != http.StatusNotFound || body["error"] != "User or Book not found" {
		t.Fatalf("review unknown book: %d %v", code, body)
	}
	if code, _ := do(t, r, http.MethodPost, "/clubs/Readers/ratings-reviews", gin.H{"user_id": 1, "rating": 9, "book_id": bookID}); code != http.StatusBadRequest {
		t.Fatalf("review bad rating: %d", code)
	}
	if code, _ := do(t, r, http.MethodPost, "/clubs/Readers/ratings-reviews", gin.H{"user_id": 1, "rating": 4, "book_id": bookID, "review": "spicy"}); code != http.StatusCreated {
		t.Fatalf("review: %d", code)
	}

	code, body = do(t, r, http.MethodGet, "/clubs/Readers", nil)
	if code != http.StatusOK {
		t.Fatalf("info: %d", code)
	}
	info := body["club_info"].(map[string]any)
	reading := info["currently_reading_books"].([]any)
	if len(reading) != 1 {
		t.Fatalf("currently reading = %v", reading)
	}
	book := reading[0].(map[string]any)
	if book["imageUrl"] != "https://img.example/dune.jpg" || book["pages"].(float64) != 412 {
		t.Fatalf("book = %v", book)
	}
	reviews := book["ratings_and_reviews"].([]any)
	if len(reviews) != 1 || reviews[0].(map[string]any)["username"] != "admin" {
		t.Fatalf("reviews = %v", reviews)
	}
	if rec := info["recommended_books"].([]any); len(rec) != 1 {
		t.Fatalf("recommended = %v", rec)
	}
	if m := info["meetings"].([]any); len(m) != 1 {
		t.Fatalf("meetings = %v", m)
	}
}

func TestTokenRoutes(t *testing.T) {
	r := newTestServer(t, true)
	register(t, r, "alice")

	if code, _ := do(t, r, http.MethodPost, "/token", gin.H{"username": "alice", "password": "bad"}); code != http.StatusUnauthorized {
		t.Fatalf("bad credentials: %d", code)
	}
	code, body := do(t, r, http.MethodPost, "/token", gin.H{"username": "alice", "password": "pw-alice"})
	if code != http.StatusOK {
		t.Fatalf("token: %d %v", code, body)
	}
	access := body["access_token"].(string)
	firstRefresh := body["refresh_token"].(string)
	auth := []string{"Authorization", "Bearer " + access}

	code, body = do(t, r, http.MethodGet, "/auth/me", nil, auth...)
	if code != http.StatusOK || body["user_info"].(map[string]any)["username"] != "alice" {
		t.Fatalf("me: %d %v", code, body)
	}
	if code, _ := do(t, r, http.MethodGet, "/auth/me", nil); code != http.StatusUnauthorized {
		t.Fatalf("me without token: %d", code)
	}

	if code, _ := do(t, r, http.MethodPost, "/auth/logout", nil, auth...); code != http.StatusOK {
		t.Fatalf("logout: %d", code)
	}
	if code, _ := do(t, r, http.MethodGet, "/auth/me", nil, auth...); code != http.StatusUnauthorized {
		t.Fatalf("me after logout: %d", code)
	}
	if code, _ := do(t, r, http.MethodPost, "/token/refresh", gin.H{"refresh_token": firstRefresh}); code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout: %d", code)
	}

	_, body = do(t, r, http.MethodPost, "/token", gin.H{"username": "alice", "password": "pw-alice"})
	code, body = do(t, r, http.MethodPost, "/token/refresh", gin.H{"refresh_token": body["refresh_token"]})
	if code != http.StatusOK || body["access_token"] == "" {
		t.Fatalf("refresh: %d %v", code, body)
	}
}

func TestTokenRoutesDisabledWithoutRedis(t *testing.T) {
	r := newTestServer(t, false)
	req := httptest.NewRequest(http.MethodPost, "/token", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestHealthzAndRequestID(t *testing.T) {
	r := newTestServer(t, false)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("request id = %q", got)
	}
}
