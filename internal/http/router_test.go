package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/family-health-api/internal/auth"
	"github.com/redmonkez12/family-health-api/internal/clock"
	"github.com/redmonkez12/family-health-api/internal/config"
	"github.com/redmonkez12/family-health-api/internal/familymember"
	"github.com/redmonkez12/family-health-api/internal/healthindicator"
	httpServer "github.com/redmonkez12/family-health-api/internal/http"
	"github.com/redmonkez12/family-health-api/internal/httputil"
	"github.com/redmonkez12/family-health-api/internal/logging"
	"github.com/redmonkez12/family-health-api/internal/medicalrecord"
	"github.com/redmonkez12/family-health-api/internal/memstore"
	"github.com/redmonkez12/family-health-api/internal/ownership"
	"github.com/redmonkez12/family-health-api/internal/prescription"
	"github.com/redmonkez12/family-health-api/internal/ratelimit"
)

type api struct {
	t       *testing.T
	handler http.Handler
}

func newAPI(t *testing.T, env string, rateLimit int) *api {
	t.Helper()

	db := memstore.New()
	tokens, err := auth.NewJWTService("router-test-secret", false, clock.System{})
	require.NoError(t, err)
	hasher, err := auth.NewPasswordHasher(auth.AlgoBcrypt, 10)
	require.NoError(t, err)
	authService, err := auth.NewService(db.Users(), hasher, tokens, logging.Discard())
	require.NoError(t, err)

	resolver := ownership.NewResolver(db.FamilyMembers())
	responder := httputil.NewResponder(false)
	handlers := httpServer.Handlers{
		Auth:             auth.NewHandler(authService, responder),
		FamilyMembers:    familymember.NewHandler(familymember.NewService(db.FamilyMembers(), resolver), responder),
		MedicalRecords:   medicalrecord.NewHandler(medicalrecord.NewService(db.MedicalRecords(), resolver), responder),
		Prescriptions:    prescription.NewHandler(prescription.NewService(db.Prescriptions(), resolver), responder),
		HealthIndicators: healthindicator.NewHandler(healthindicator.NewService(db.HealthIndicators(), resolver), responder),
	}

	cfg := &config.Config{Server: config.ServerConfig{Env: env}}
	limiter := ratelimit.NewLocalLimiter(rateLimit, time.Hour, nil)
	router := httpServer.NewRouter(cfg, handlers, auth.NewMiddleware(tokens, responder), limiter, responder, logging.Discard())
	return &api{t: t, handler: router}
}

func (a *api) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *api) signup(email string) string {
	a.t.Helper()
	creds := map[string]string{"email": email, "password": "correct-horse"}
	rec := a.do(http.MethodPost, "/api/auth/register", "", creds)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/api/auth/login", "", creds)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	var tok auth.IssuedToken
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &tok))
	require.NotEmpty(a.t, tok.Token)
	return tok.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[httputil.ErrorResponse](t, rec).Code
}

func TestHealth(t *testing.T) {
	a := newAPI(t, config.EnvProd, 10)

	rec := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestSwaggerOnlyInDevelopment(t *testing.T) {
	dev := newAPI(t, config.EnvDev, 10)
	rec := dev.do(http.MethodGet, "/swagger/doc.json", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := decode[map[string]any](t, rec)
	assert.Equal(t, "2.0", doc["swagger"])

	prod := newAPI(t, config.EnvProd, 10)
	rec = prod.do(http.MethodGet, "/swagger/doc.json", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegisterAndMe(t *testing.T) {
	a := newAPI(t, config.EnvProd, 10)
	token := a.signup("Alice@Example.com")

	rec := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": "alice@example.com", "password": "another-pass"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "EMAIL_ALREADY_EXISTS", errorCode(t, rec))

	rec = a.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	me := decode[map[string]any](t, rec)
	assert.Equal(t, "alice@example.com", me["email"])
	assert.NotContains(t, me, "passwordHash")
}

func TestLogin_WrongPassword(t *testing.T) {
	a := newAPI(t, config.EnvProd, 10)
	a.signup("bob@example.com")

	rec := a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "bob@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, rec))
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	a := newAPI(t, config.EnvProd, 10)

	rec := a.do(http.MethodGet, "/api/family-members", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, httputil.CodeMissingAuth, errorCode(t, rec))

	rec = a.do(http.MethodGet, "/api/family-members", "not-a-token", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, httputil.CodeInvalidToken, errorCode(t, rec))
}

func TestFamilyMemberLifecycle(t *testing.T) {
	a := newAPI(t, config.EnvProd, 10)
	alice := a.signup("alice@example.com")
	mallory := a.signup("mallory@example.com")

	rec := a.do(http.MethodPost, "/api/family-members", alice, map[string]string{
		"name": "Jane", "relation": "daughter", "dateOfBirth": "2015-04-02",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	jane := decode[map[string]any](t, rec)
	assert.Equal(t, "2015-04-02", jane["dateOfBirth"])
	janeURL := "/api/family-members/" + strconv.FormatInt(int64(jane["id"].(float64)), 10)

	rec = a.do(http.MethodGet, janeURL, mallory, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "FAMILY_MEMBER_NOT_FOUND", errorCode(t, rec))

	rec = a.do(http.MethodGet, "/api/family-members", mallory, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]map[string]any](t, rec))

	rec = a.do(http.MethodGet, "/api/family-members/abc", alice, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httputil.CodeInvalidID, errorCode(t, rec))

	rec = a.do(http.MethodPatch, janeURL, alice, map[string]string{"relation": "stepdaughter"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[map[string]any](t, rec)
	assert.Equal(t, "stepdaughter", updated["relation"])
	assert.Equal(t, "Jane", updated["name"])

	rec = a.do(http.MethodPut, janeURL, alice, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "NO_UPDATE_DATA", errorCode(t, rec))

	rec = a.do(http.MethodPost, janeURL+"/prescriptions", alice, map[string]string{
		"medicationName": "Amoxicillin", "dosage": "250mg", "frequency": "3x daily", "startDate": "2024-03-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodGet, janeURL+"/prescriptions", mallory, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodDelete, janeURL, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	deleted := decode[httputil.MessageResponse](t, rec)
	assert.NotEmpty(t, deleted.Message)

	rec = a.do(http.MethodGet, janeURL+"/prescriptions", alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScopedResources(t *testing.T) {
	a := newAPI(t, config.EnvProd, 10)
	token := a.signup("carol@example.com")

	newMember := func(name string) string {
		rec := a.do(http.MethodPost, "/api/family-members", token, map[string]string{
			"name": name, "relation": "son", "dateOfBirth": "2012-01-20",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		return "/api/family-members/" + strconv.FormatInt(int64(decode[map[string]any](t, rec)["id"].(float64)), 10)
	}
	tom := newMember("Tom")
	sam := newMember("Sam")

	rec := a.do(http.MethodPost, tom+"/health-indicators", token, map[string]string{
		"indicatorType": "weight", "value": "31.5", "unit": "kg", "date": "2024-05-01T08:30:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	indicatorID := strconv.FormatInt(int64(decode[map[string]any](t, rec)["id"].(float64)), 10)

	rec = a.do(http.MethodGet, sam+"/health-indicators/"+indicatorID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, rec))

	rec = a.do(http.MethodPut, tom+"/health-indicators/"+indicatorID, token, map[string]string{"value": "32"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[map[string]any](t, rec)
	assert.Equal(t, "32", got["value"])
	assert.Equal(t, "kg", got["unit"])

	rec = a.do(http.MethodPost, tom+"/medical-records", token, map[string]string{
		"recordType": "visit", "description": "annual checkup",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodDelete, tom+"/health-indicators/"+indicatorID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = a.do(http.MethodGet, tom+"/health-indicators", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]map[string]any](t, rec))
}

func TestAuthRoutesAreRateLimited(t *testing.T) {
	a := newAPI(t, config.EnvProd, 2)
	creds := map[string]string{"email": "dave@example.com", "password": "wrong-password"}

	for range 2 {
		rec := a.do(http.MethodPost, "/api/auth/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := a.do(http.MethodPost, "/api/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, httputil.CodeTooManyRequests, errorCode(t, rec))
}

func TestRateLimitIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	a := newAPI(t, config.EnvProd, 1)

	codes := make([]int, 0, 4)
	for i := range 4 {
		body := bytes.NewBufferString(`{"email":"erin@example.com","password":"wrong-password"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", "203.0.113."+strconv.Itoa(i+1))
		req.RemoteAddr = "192.0.2.10:40000"
		rec := httptest.NewRecorder()
		a.handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{
		http.StatusUnauthorized,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
	}, codes)
}

func TestUnknownRoute(t *testing.T) {
	a := newAPI(t, config.EnvProd, 10)
	rec := a.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ROUTE_NOT_FOUND", errorCode(t, rec))
}
