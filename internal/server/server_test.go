package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farellandr/eventhub/config"
	"github.com/farellandr/eventhub/internal/testutil"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-pass"
)

type testServer struct {
	router *gin.Engine
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	return setupServerWith(t, nil)
}

func setupServerWith(t *testing.T, mutate func(*config.Config)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:         "test-secret",
		TokenTTL:          time.Hour,
		AllowedOrigins:    []string{"http://localhost:5173"},
		UploadDir:         t.TempDir(),
		UploadMaxBytes:    1 << 20,
		LoginRateLimit:    100,
		LoginRateBurst:    100,
		EventDeletePolicy: config.DeleteOwnerOrAdmin,
		AdminUsername:     "admin",
		AdminEmail:        adminEmail,
		AdminPassword:     adminPassword,
	}

	if mutate != nil {
		mutate(cfg)
	}

	db := testutil.TestDB(t)
	require.NoError(t, config.SeedAdmin(db, cfg))

	return &testServer{router: NewRouter(cfg, db)}
}

func (s *testServer) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *testServer) register(t *testing.T, username string) {
	t.Helper()
	w := s.do(http.MethodPost, "/register", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func (s *testServer) login(t *testing.T, path, email, password string) (string, string) {
	t.Helper()
	w := s.do(http.MethodPost, path, gin.H{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}](t, w)
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.User.ID
}

func (s *testServer) registerAndLogin(t *testing.T, username string) (string, string) {
	t.Helper()
	s.register(t, username)
	return s.login(t, "/login", username+"@example.com", "secret")
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	token, _ := s.login(t, "/admin/login", adminEmail, adminPassword)
	return token
}

type eventResponse struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Likes           int    `json:"likes"`
	Status          string `json:"status"`
	RejectionReason string `json:"rejectionReason"`
}

func (s *testServer) createEvent(t *testing.T, token, title string) eventResponse {
	t.Helper()
	w := s.do(http.MethodPost, "/createEvent", gin.H{
		"title":       title,
		"description": "An evening of music",
		"organizedBy": "Alice",
		"eventDate":   "2026-12-01",
		"eventTime":   "19:00",
		"location":    "Main Hall",
		"ticketPrice": 25,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[eventResponse](t, w)
}

func ticketBody(eventID string) gin.H {
	return gin.H{
		"eventid": eventID,
		"ticketDetails": gin.H{
			"name":        "Alice",
			"email":       "alice@example.com",
			"eventname":   "Concert",
			"eventdate":   "2026-12-01",
			"eventtime":   "19:00",
			"ticketprice": 25,
		},
		"count": 1,
	}
}

func TestEventAndTicketFlow(t *testing.T) {
	s := setupServer(t)
	token, aliceID := s.registerAndLogin(t, "alice")
	admin := s.adminToken(t)

	event := s.createEvent(t, token, "Concert")
	assert.Equal(t, "Pending", event.Status)
	assert.Zero(t, event.Likes)

	w := s.do(http.MethodGet, "/events?status=Approved", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]eventResponse](t, w))

	w = s.do(http.MethodPost, "/event/"+event.ID+"/approve", nil, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Approved", decode[eventResponse](t, w).Status)

	w = s.do(http.MethodGet, "/events?status=Approved", nil, "")
	approved := decode[[]eventResponse](t, w)
	require.Len(t, approved, 1)
	assert.Equal(t, event.ID, approved[0].ID)

	s.do(http.MethodPost, "/event/"+event.ID+"/like", nil, "")
	w = s.do(http.MethodPost, "/event/"+event.ID+"/like", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[eventResponse](t, w).Likes)

	w = s.do(http.MethodPost, "/tickets", ticketBody(event.ID), token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ticket := decode[struct {
		ID            string `json:"id"`
		UserID        string `json:"userid"`
		EventID       string `json:"eventid"`
		TicketDetails struct {
			QR string `json:"qr"`
		} `json:"ticketDetails"`
	}](t, w)
	assert.Equal(t, aliceID, ticket.UserID)
	assert.Equal(t, event.ID, ticket.EventID)
	assert.True(t, strings.HasPrefix(ticket.TicketDetails.QR, "data:image/png;base64,"))

	w = s.do(http.MethodGet, "/tickets/user/"+aliceID, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = s.do(http.MethodGet, "/tickets/"+ticket.ID+"/qr", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = s.do(http.MethodDelete, "/tickets/"+ticket.ID, nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/tickets", nil, token)
	assert.Empty(t, decode[[]map[string]any](t, w))
}

func TestEventAliasesReturnSameEvent(t *testing.T) {
	s := setupServer(t)
	token, _ := s.registerAndLogin(t, "alice")
	event := s.createEvent(t, token, "Concert")

	for _, path := range []string{
		"/event/" + event.ID,
		"/event/" + event.ID + "/ordersummary",
		"/event/" + event.ID + "/ordersummary/paymentsummary",
	} {
		w := s.do(http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, event.ID, decode[eventResponse](t, w).ID)
	}

	w := s.do(http.MethodGet, "/createEvent", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]eventResponse](t, w), 1)
}

func TestRegisterValidation(t *testing.T) {
	s := setupServer(t)

	w := s.do(http.MethodPost, "/register", gin.H{"username": "alice"}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	s.register(t, "alice")

	w = s.do(http.MethodPost, "/register", gin.H{
		"username": "alice",
		"email":    "other@example.com",
		"password": "secret",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/register", gin.H{
		"username": "other",
		"email":    "alice@example.com",
		"password": "secret",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterNeverReturnsPassword(t *testing.T) {
	s := setupServer(t)

	w := s.do(http.MethodPost, "/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestLoginFailures(t *testing.T) {
	s := setupServer(t)
	s.register(t, "alice")

	tests := []struct {
		name   string
		path   string
		body   gin.H
		status int
	}{
		{"missing fields", "/login", gin.H{"email": "alice@example.com"}, http.StatusUnprocessableEntity},
		{"unknown email", "/login", gin.H{"email": "nobody@example.com", "password": "secret"}, http.StatusNotFound},
		{"wrong password", "/login", gin.H{"email": "alice@example.com", "password": "nope"}, http.StatusUnauthorized},
		{"user on admin login", "/admin/login", gin.H{"email": "alice@example.com", "password": "secret"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, tt.path, tt.body, "")
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestLoginSetsCookieAndLogoutClearsIt(t *testing.T) {
	s := setupServer(t)
	s.register(t, "alice")

	w := s.do(http.MethodPost, "/login", gin.H{"email": "alice@example.com", "password": "secret"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "token=")
	assert.Contains(t, cookie, "HttpOnly")

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Cookie", strings.SplitN(cookie, ";", 2)[0])
	pw := httptest.NewRecorder()
	s.router.ServeHTTP(pw, req)
	require.Equal(t, http.StatusOK, pw.Code)
	profile := decode[map[string]any](t, pw)
	assert.Equal(t, "alice", profile["name"])
	assert.Equal(t, "alice@example.com", profile["email"])
	assert.NotEmpty(t, profile["id"])

	w = s.do(http.MethodPost, "/logout", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Body.String())
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestRoleGate(t *testing.T) {
	s := setupServer(t)
	token, _ := s.registerAndLogin(t, "alice")
	event := s.createEvent(t, token, "Concert")

	w := s.do(http.MethodPost, "/event/"+event.ID+"/approve", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/event/"+event.ID+"/approve", nil, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/admin/events", nil, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/admin/events", nil, s.adminToken(t))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestModerationTransitions(t *testing.T) {
	s := setupServer(t)
	token, _ := s.registerAndLogin(t, "alice")
	admin := s.adminToken(t)
	event := s.createEvent(t, token, "Concert")

	w := s.do(http.MethodPost, "/event/"+event.ID+"/reject", nil, admin)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(http.MethodPost, "/event/"+event.ID+"/reject", gin.H{"rejectionReason": "Duplicate listing"}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rejected := decode[eventResponse](t, w)
	assert.Equal(t, "Rejected", rejected.Status)
	assert.Equal(t, "Duplicate listing", rejected.RejectionReason)

	w = s.do(http.MethodPost, "/event/"+event.ID+"/reject", gin.H{"rejectionReason": "Still a duplicate"}, admin)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/event/"+event.ID+"/approve", nil, admin)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/event/does-not-exist/approve", nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEventNotFound(t *testing.T) {
	s := setupServer(t)

	w := s.do(http.MethodGet, "/event/does-not-exist", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/event/3f2b8c0e-8a51-4b8e-9a57-0b7d1b0f5e11/like", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListEventsInvalidStatus(t *testing.T) {
	s := setupServer(t)

	w := s.do(http.MethodGet, "/events?status=Archived", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTicketMissingFieldsPersistsNothing(t *testing.T) {
	s := setupServer(t)
	token, _ := s.registerAndLogin(t, "alice")

	body := ticketBody("")
	w := s.do(http.MethodPost, "/tickets", body, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/tickets", gin.H{"eventid": "e1"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/tickets", ticketBody("e1"), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/tickets", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]map[string]any](t, w))
}

func TestTicketVisibility(t *testing.T) {
	s := setupServer(t)
	alice, aliceID := s.registerAndLogin(t, "alice")
	bob, _ := s.registerAndLogin(t, "bob")
	admin := s.adminToken(t)

	w := s.do(http.MethodPost, "/tickets", ticketBody("e1"), alice)
	require.Equal(t, http.StatusCreated, w.Code)
	ticketID := decode[map[string]any](t, w)["id"].(string)

	w = s.do(http.MethodGet, "/tickets/user/"+aliceID, nil, bob)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/tickets", nil, bob)
	assert.Empty(t, decode[[]map[string]any](t, w))

	w = s.do(http.MethodGet, "/tickets", nil, admin)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = s.do(http.MethodDelete, "/tickets/"+ticketID, nil, bob)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, "/tickets/"+ticketID, nil, admin)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodDelete, "/tickets/"+ticketID, nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteEventPolicy(t *testing.T) {
	s := setupServer(t)
	alice, _ := s.registerAndLogin(t, "alice")
	bob, _ := s.registerAndLogin(t, "bob")
	event := s.createEvent(t, alice, "Concert")

	w := s.do(http.MethodDelete, "/event/"+event.ID, nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodDelete, "/event/"+event.ID, nil, bob)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, "/events/"+event.ID, nil, alice)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/event/"+event.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/event/"+event.ID, nil, s.adminToken(t))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOperationalEndpoints(t *testing.T) {
	s := setupServer(t)

	w := s.do(http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])

	s.do(http.MethodGet, "/events", nil, "")
	w = s.do(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestCORSAllowsCredentials(t *testing.T) {
	s := setupServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/events", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestAdminLoginWithMixedCaseSeedEmail(t *testing.T) {
	s := setupServerWith(t, func(cfg *config.Config) {
		cfg.AdminEmail = "Admin@Example.com"
	})

	token, _ := s.login(t, "/admin/login", "Admin@Example.com", adminPassword)

	w := s.do(http.MethodGet, "/admin/events", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsCountPanickedRequests(t *testing.T) {
	s := setupServer(t)
	s.router.GET("/boom", func(*gin.Context) {
		panic("boom")
	})

	w := s.do(http.MethodGet, "/boom", nil, "")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	w = s.do(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `route="/boom",status="500"`)
}

type errorBody struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

func TestRequestBindingRules(t *testing.T) {
	s := setupServer(t)
	token, _ := s.registerAndLogin(t, "alice")

	missingName := ticketBody("e1")
	delete(missingName["ticketDetails"].(gin.H), "eventname")
	negativeCount := ticketBody("e1")
	negativeCount["count"] = -1

	tests := []struct {
		name   string
		path   string
		body   gin.H
		token  string
		status int
		detail string
	}{
		{"register missing email", "/register", gin.H{"username": "bob", "password": "secret"}, "", http.StatusUnprocessableEntity, "email is required"},
		{"register bad email", "/register", gin.H{"username": "bob", "email": "bob", "password": "secret"}, "", http.StatusUnprocessableEntity, "email must be a valid email address"},
		{"login missing password", "/login", gin.H{"email": "alice@example.com"}, "", http.StatusUnprocessableEntity, "password is required"},
		{"ticket missing event name", "/tickets", missingName, token, http.StatusBadRequest, "eventname is required"},
		{"ticket missing details", "/tickets", gin.H{"eventid": "e1"}, token, http.StatusBadRequest, "ticketDetails is required"},
		{"ticket negative count", "/tickets", negativeCount, token, http.StatusBadRequest, "count must be at least 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, tt.path, tt.body, tt.token)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Contains(t, decode[errorBody](t, w).Details, tt.detail)
		})
	}

	w := s.do(http.MethodGet, "/tickets", nil, token)
	assert.Empty(t, decode[[]map[string]any](t, w))
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	s := setupServer(t)

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"username":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, decode[errorBody](t, w).Details)
}
