package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/family-health-api/internal/auth"
	"github.com/redmonkez12/family-health-api/internal/client"
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
	"github.com/redmonkez12/family-health-api/internal/session"
)

var start = time.Date(2024, time.November, 5, 10, 0, 0, 0, time.UTC)

// newServer runs the real router over the in-memory store. serverClock drives
// token issuance and verification.
func newServer(t *testing.T, serverClock clock.Clock) *httptest.Server {
	t.Helper()

	db := memstore.NewWithClock(serverClock)
	tokens, err := auth.NewJWTService("client-test-secret", false, serverClock)
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
	cfg := &config.Config{Server: config.ServerConfig{Env: config.EnvProd}}
	router := httpServer.NewRouter(cfg, handlers, auth.NewMiddleware(tokens, responder),
		ratelimit.NewLocalLimiter(100, time.Minute, nil), responder, logging.Discard())

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, srv *httptest.Server, sessionClock clock.Clock) (*client.Client, *session.Manager) {
	t.Helper()
	mgr := session.NewManager(session.NewMemoryStore(""), sessionClock)
	require.NoError(t, mgr.Bootstrap())
	return client.NewWithHTTPClient(srv.URL, mgr, srv.Client()), mgr
}

func TestClient_SessionLifecycle(t *testing.T) {
	srv := newServer(t, clock.System{})
	c, mgr := newClient(t, srv, clock.System{})
	ctx := context.Background()

	_, err := c.Me(ctx)
	require.Error(t, err)
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))

	registered, err := c.Register(ctx, "erin@example.com", "hunter2hunter2")
	require.NoError(t, err)

	id, err := c.Login(ctx, "erin@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, id.UserID)
	assert.Equal(t, "erin@example.com", id.Email)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, me.ID)

	require.NoError(t, mgr.Logout())
	_, err = c.Me(ctx)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, httputil.CodeMissingAuth, apiErr.Code)
}

func TestClient_LoginFailureKeepsLoggedOut(t *testing.T) {
	srv := newServer(t, clock.System{})
	c, mgr := newClient(t, srv, clock.System{})
	ctx := context.Background()

	_, err := c.Login(ctx, "nobody@example.com", "whatever-pass")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)

	_, ok := mgr.Current()
	assert.False(t, ok)
}

func TestClient_Resources(t *testing.T) {
	srv := newServer(t, clock.System{})
	c, _ := newClient(t, srv, clock.System{})
	ctx := context.Background()

	_, err := c.Register(ctx, "fay@example.com", "hunter2hunter2")
	require.NoError(t, err)
	_, err = c.Login(ctx, "fay@example.com", "hunter2hunter2")
	require.NoError(t, err)

	fm, err := c.CreateFamilyMember(ctx, map[string]string{
		"name": "Gus", "relation": "father", "dateOfBirth": "1950-07-14",
	})
	require.NoError(t, err)
	assert.Equal(t, "1950-07-14", fm.DateOfBirth.String())

	rx, err := c.Prescriptions().Create(ctx, fm.ID, map[string]string{
		"medicationName": "Metformin", "dosage": "500mg", "frequency": "twice daily",
		"startDate": "2024-01-01", "endDate": "2024-06-30",
	})
	require.NoError(t, err)
	require.NotNil(t, rx.EndDate)
	assert.Equal(t, "2024-06-30", rx.EndDate.String())

	updated, err := c.Prescriptions().Update(ctx, fm.ID, rx.ID, map[string]any{"endDate": nil})
	require.NoError(t, err)
	assert.Nil(t, updated.EndDate)
	assert.Equal(t, "Metformin", updated.MedicationName)

	list, err := c.Prescriptions().List(ctx, fm.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = c.MedicalRecords().Get(ctx, fm.ID, 9999)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	deleted, err := c.DeleteFamilyMember(ctx, fm.ID)
	require.NoError(t, err)
	assert.Equal(t, fm.ID, deleted.Deleted.ID)

	members, err := c.ListFamilyMembers(ctx)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestClient_ExpiredTokenLogsOut(t *testing.T) {
	serverClock := clock.NewManual(start)
	srv := newServer(t, serverClock)
	c, mgr := newClient(t, srv, clock.NewManual(start))
	ctx := context.Background()

	_, err := c.Register(ctx, "hal@example.com", "hunter2hunter2")
	require.NoError(t, err)
	_, err = c.Login(ctx, "hal@example.com", "hunter2hunter2")
	require.NoError(t, err)

	serverClock.Advance(time.Hour)
	_, err = c.Me(ctx)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, httputil.CodeTokenExpired, apiErr.Code)

	_, ok := mgr.Token()
	assert.False(t, ok)
}
