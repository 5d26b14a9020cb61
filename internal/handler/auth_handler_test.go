package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/korepetycje-admin/internal/models"
	appErrors "github.com/noah-isme/korepetycje-admin/pkg/errors"
)

type fakeAuth struct {
	login    func(models.LoginRequest) (*models.LoginResponse, error)
	register func(models.RegisterRequest) (*models.LoginResponse, error)
}

func (f *fakeAuth) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	return f.login(req)
}

func (f *fakeAuth) Register(_ context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	return f.register(req)
}

func (f *fakeAuth) Me(_ context.Context, id string) (*models.UserInfo, error) {
	return &models.UserInfo{ID: id, Email: "anna@example.com"}, nil
}

func authRouter(t *testing.T, auth *fakeAuth) *gin.Engine {
	r := newEngine(t)
	h := NewAuthHandler(auth, SessionConfig{CookieName: "session"})
	r.POST("/login", h.LoginSubmit)
	r.POST("/register", h.RegisterSubmit)
	r.POST("/logout", h.Logout)
	r.POST("/api/auth/login", h.Login)
	r.GET("/api/auth/me", h.Me)
	return r
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "session" {
			return cookie
		}
	}
	return nil
}

func TestLoginSubmitSetsSessionCookie(t *testing.T) {
	auth := &fakeAuth{login: func(req models.LoginRequest) (*models.LoginResponse, error) {
		assert.Equal(t, "anna@example.com", req.Email)
		return &models.LoginResponse{AccessToken: "signed", ExpiresIn: 3600}, nil
	}}

	rec := do(authRouter(t, auth), http.MethodPost, "/login", "email=+anna%40example.com+&password=secret1")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "signed", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 3600, cookie.MaxAge)
}

func TestLoginSubmitRendersError(t *testing.T) {
	auth := &fakeAuth{login: func(models.LoginRequest) (*models.LoginResponse, error) {
		return nil, appErrors.ErrInvalidCredentials
	}}

	rec := do(authRouter(t, auth), http.MethodPost, "/login", "email=anna%40example.com&password=wrong")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "nieprawidłowy e-mail lub hasło")
	assert.Contains(t, rec.Body.String(), `value="anna@example.com"`)
	assert.Nil(t, sessionCookie(rec))
}

func TestRegisterSubmitSignsIn(t *testing.T) {
	auth := &fakeAuth{register: func(req models.RegisterRequest) (*models.LoginResponse, error) {
		assert.Equal(t, "Ewa Nowak", req.FullName)
		return &models.LoginResponse{AccessToken: "fresh", ExpiresIn: 60}, nil
	}}

	rec := do(authRouter(t, auth), http.MethodPost, "/register",
		"full_name=Ewa+Nowak&email=ewa%40example.com&password=secret1&confirm_password=secret1")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	require.NotNil(t, sessionCookie(rec))
	assert.Equal(t, "success|Konto zostało utworzone", flashOf(rec))
}

func TestRegisterSubmitConflict(t *testing.T) {
	auth := &fakeAuth{register: func(models.RegisterRequest) (*models.LoginResponse, error) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "konto z tym adresem e-mail już istnieje")
	}}

	rec := do(authRouter(t, auth), http.MethodPost, "/register", "full_name=Ewa&email=ewa%40example.com&password=secret1&confirm_password=secret1")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "konto z tym adresem e-mail już istnieje")
}

func TestLogoutClearsSession(t *testing.T) {
	rec := do(authRouter(t, &fakeAuth{}), http.MethodPost, "/logout", "")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.True(t, cookie.MaxAge < 0)
}

func TestAPILoginAndMe(t *testing.T) {
	auth := &fakeAuth{login: func(models.LoginRequest) (*models.LoginResponse, error) {
		return &models.LoginResponse{AccessToken: "signed", ExpiresIn: 60}, nil
	}}
	r := authRouter(t, auth)

	rec := do(r, http.MethodPost, "/api/auth/login", `{"email":"anna@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), `"access_token":"signed"`)

	rec = do(r, http.MethodGet, "/api/auth/me", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), `"id":"u1"`)

	rec = do(r, http.MethodPost, "/api/auth/login", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
