package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm" // GORM ORM library

	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/auth"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/domain"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/middleware"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/session"
	"github.com/tejas321kumar-ship-it/credit-card-tracker/internal/throttle"
)

// fakeUserStore mirrors GormUserStore semantics over a map, including
// the lowercase email normalization and duplicate detection.
type fakeUserStore struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: make(map[uint]domain.User)}
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = strings.ToLower(email)
	for _, u := range f.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) FindByID(_ context.Context, id uint) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	user := u
	return &user, nil
}

func (f *fakeUserStore) Create(_ context.Context, email, passwordHash, name string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = strings.ToLower(email)
	for _, u := range f.users {
		if u.Email == email {
			return nil, auth.ErrDuplicateEmail
		}
	}
	u := domain.User{ID: f.nextID, Email: email, PasswordHash: passwordHash, Name: name}
	f.users[u.ID] = u
	f.nextID++
	return &u, nil
}

// fakeTokenStore keeps remember tokens in a map by token value.
type fakeTokenStore struct {
	mu      sync.Mutex
	records map[string]domain.RememberToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{records: make(map[string]domain.RememberToken)}
}

func (f *fakeTokenStore) DeleteForUser(_ context.Context, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for tok, rec := range f.records {
		if rec.UserID == userID {
			delete(f.records, tok)
		}
	}
	return nil
}

func (f *fakeTokenStore) Create(_ context.Context, t *domain.RememberToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[t.Token] = *t
	return nil
}

func (f *fakeTokenStore) Find(_ context.Context, token string) (*domain.RememberToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &rec, nil
}

func (f *fakeTokenStore) Delete(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, token)
	return nil
}

// authHarness wires the auth handlers over in-memory stores the way
// cmd/server wires them over Redis and MySQL.
type authHarness struct {
	router *gin.Engine
	users  *fakeUserStore
	mgr    *session.Manager
}

func newAuthHarness(t *testing.T) *authHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := newFakeUserStore()
	issuer := auth.NewIssuer(newFakeTokenStore(), users)
	thr := throttle.New(throttle.NewMemoryStore())
	mgr := session.NewManager(session.NewMemoryStore(), false)

	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.SessionMiddleware(mgr), middleware.CSRFMiddleware())
	api.GET("/csrf-token", CSRFTokenHandler())
	api.POST("/register", RegisterHandler(users, mgr))
	api.POST("/login", LoginHandler(users, issuer, thr, mgr))
	api.POST("/auto-login", AutoLoginHandler(issuer, mgr))
	api.POST("/logout", LogoutHandler(mgr))
	api.GET("/me", MeHandler(users))

	return &authHarness{router: r, users: users, mgr: mgr}
}

// do issues a JSON request, forwarding any cookies, and decodes the body.
func (h *authHarness) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	h.router.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

// seedUser registers an account directly through the store.
func seedUser(t *testing.T, h *authHarness, email, password, name string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	_, err = h.users.Create(context.Background(), email, hash, name)
	require.NoError(t, err)
}

func TestRegisterSuccess(t *testing.T) {
	h := newAuthHarness(t)

	w, body := h.do(t, http.MethodPost, "/api/register",
		`{"email":"New@Example.com","password":"Str0ng!pass","name":"New User"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Registration successful", body["message"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "new@example.com", user["email"]) // Normalized on the way in

	// The session cookie now grants access to /api/me.
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	w, body = h.do(t, http.MethodGet, "/api/me", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "new@example.com", body["user"].(map[string]any)["email"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := newAuthHarness(t)
	seedUser(t, h, "taken@example.com", "Str0ng!pass", "First")

	w, body := h.do(t, http.MethodPost, "/api/register",
		`{"email":"TAKEN@example.com","password":"Str0ng!pass","name":"Second"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already registered", body["error"])
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	h := newAuthHarness(t)

	w, body := h.do(t, http.MethodPost, "/api/register",
		`{"email":"a@b.com","password":"weak","name":"A"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], "at least 8 characters")
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	h := newAuthHarness(t)

	w, body := h.do(t, http.MethodPost, "/api/register", `{"email":"a@b.com"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email, password, and name are required", body["error"])
}

func TestLoginRotatesSession(t *testing.T) {
	h := newAuthHarness(t)
	seedUser(t, h, "user@example.com", "Str0ng!pass", "User")

	// First contact establishes an anonymous session.
	w, preBody := h.do(t, http.MethodGet, "/api/csrf-token", "")
	preCookie := sessionCookie(w)
	require.NotNil(t, preCookie)
	preToken := preBody["csrfToken"].(string)

	w, body := h.do(t, http.MethodPost, "/api/login",
		`{"email":"user@example.com","password":"Str0ng!pass"}`, preCookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Login successful", body["message"])
	assert.Nil(t, body["rememberToken"]) // Not requested

	// Fixation defense: id and CSRF token both rotate on login.
	postCookie := sessionCookie(w)
	require.NotNil(t, postCookie)
	assert.NotEqual(t, preCookie.Value, postCookie.Value)
	assert.NotEqual(t, preToken, body["csrfToken"])

	// The pre-login session id no longer resolves to the account.
	w, _ = h.do(t, http.MethodGet, "/api/me", "", preCookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, meBody := h.do(t, http.MethodGet, "/api/me", "", postCookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user@example.com", meBody["user"].(map[string]any)["email"])
}

func TestLoginWrongCredentialsAnswerIdentically(t *testing.T) {
	h := newAuthHarness(t)
	seedUser(t, h, "user@example.com", "Str0ng!pass", "User")

	w1, body1 := h.do(t, http.MethodPost, "/api/login",
		`{"email":"user@example.com","password":"WrongPass1!"}`)
	w2, body2 := h.do(t, http.MethodPost, "/api/login",
		`{"email":"ghost@example.com","password":"WrongPass1!"}`)

	assert.Equal(t, http.StatusUnauthorized, w1.Code)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
	assert.Equal(t, body1["error"], body2["error"])
	assert.Equal(t, "Invalid email or password", body1["error"])
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	h := newAuthHarness(t)
	seedUser(t, h, "user@example.com", "Str0ng!pass", "User")

	for i := 0; i < throttle.MaxAttempts; i++ {
		w, _ := h.do(t, http.MethodPost, "/api/login",
			`{"email":"user@example.com","password":"WrongPass1!"}`)
		require.Equal(t, http.StatusUnauthorized, w.Code, "attempt %d", i+1)
	}

	// The next attempt is refused before credentials are even checked,
	// so the correct password is rejected too.
	w, body := h.do(t, http.MethodPost, "/api/login",
		`{"email":"user@example.com","password":"Str0ng!pass"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, body["error"], "Too many login attempts")
}

func TestLoginClearsThrottleOnSuccess(t *testing.T) {
	h := newAuthHarness(t)
	seedUser(t, h, "user@example.com", "Str0ng!pass", "User")

	for i := 0; i < throttle.MaxAttempts-1; i++ {
		w, _ := h.do(t, http.MethodPost, "/api/login",
			`{"email":"user@example.com","password":"WrongPass1!"}`)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w, _ := h.do(t, http.MethodPost, "/api/login",
		`{"email":"user@example.com","password":"Str0ng!pass"}`)
	require.Equal(t, http.StatusOK, w.Code)

	// The slate is clean; more failures start counting from one.
	w, _ = h.do(t, http.MethodPost, "/api/login",
		`{"email":"user@example.com","password":"WrongPass1!"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRememberMeFlow(t *testing.T) {
	h := newAuthHarness(t)
	seedUser(t, h, "user@example.com", "Str0ng!pass", "User")

	w, body := h.do(t, http.MethodPost, "/api/login",
		`{"email":"user@example.com","password":"Str0ng!pass","rememberMe":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	token, ok := body["rememberToken"].(string)
	require.True(t, ok, "rememberToken should be a string when requested")
	require.NotEmpty(t, token)

	// A fresh client redeems the token for a new authenticated session.
	w, body = h.do(t, http.MethodPost, "/api/auto-login",
		fmt.Sprintf(`{"rememberToken":%q}`, token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Auto-login successful", body["message"])
	assert.NotEmpty(t, body["csrfToken"])

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	w, meBody := h.do(t, http.MethodGet, "/api/me", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user@example.com", meBody["user"].(map[string]any)["email"])
}

func TestAutoLoginRejectsBadTokens(t *testing.T) {
	h := newAuthHarness(t)

	w, body := h.do(t, http.MethodPost, "/api/auto-login", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No token provided", body["error"])

	w, body = h.do(t, http.MethodPost, "/api/auto-login", `{"rememberToken":"bogus"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid or expired token", body["error"])
}

func TestLogoutDestroysSession(t *testing.T) {
	h := newAuthHarness(t)
	seedUser(t, h, "user@example.com", "Str0ng!pass", "User")

	w, body := h.do(t, http.MethodPost, "/api/login",
		`{"email":"user@example.com","password":"Str0ng!pass"}`)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	csrf := body["csrfToken"].(string)

	// Logout is a mutating call, so it carries the CSRF token.
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/logout", strings.NewReader("{}"))
	req.AddCookie(cookie)
	req.Header.Set(middleware.CSRFHeader, csrf)
	h.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	cleared := sessionCookie(w)
	require.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0)

	// The old session id is dead; presenting it yields a fresh
	// anonymous session and a 401 from /api/me.
	w2, _ := h.do(t, http.MethodGet, "/api/me", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
}

func TestCSRFTokenEndpoint(t *testing.T) {
	h := newAuthHarness(t)

	w, body := h.do(t, http.MethodGet, "/api/csrf-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["csrfToken"], 64)

	// Same session, same token.
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	_, again := h.do(t, http.MethodGet, "/api/csrf-token", "", cookie)
	assert.Equal(t, body["csrfToken"], again["csrfToken"])
}
