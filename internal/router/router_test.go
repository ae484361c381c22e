package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"clinic-portal/internal/config"
	"clinic-portal/internal/handler"
	"clinic-portal/internal/middleware"
	"clinic-portal/internal/model"
	"clinic-portal/internal/service"
	"clinic-portal/internal/session"
)

const testPassword = "correct-horse"

type memStore struct {
	mu     sync.Mutex
	users  map[string]model.User
	tokens map[string]model.PasswordResetToken
}

func (s *memStore) FindByID(_ context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *memStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *memStore) ExistsByEmail(_ context.Context, email string, excludeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) PatientExists(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return ok && u.Role == model.RolePatient, nil
}

func (s *memStore) FindActiveDoctor(_ context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.Role != model.RoleDoctor || !u.IsActive {
		return model.User{}, model.ErrDoctorNotFound
	}
	return u, nil
}

func (s *memStore) ListActiveDoctors(_ context.Context, clinicID string) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0)
	for _, u := range s.users {
		if u.Role != model.RoleDoctor || !u.IsActive {
			continue
		}
		if clinicID != "" && (u.ClinicID == nil || *u.ClinicID != clinicID) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) Create(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	return nil
}

func (s *memStore) UpdateProfile(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	return nil
}

func (s *memStore) UpdatePassword(_ context.Context, userID string, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.MustChangePassword = false
	s.users[userID] = u
	return nil
}

func (s *memStore) SetActive(_ context.Context, userID string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	u.IsActive = active
	s.users[userID] = u
	return nil
}

func (s *memStore) ListByClinic(_ context.Context, clinicID string) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0)
	for _, u := range s.users {
		if u.Role != model.RolePatient && u.ClinicID != nil && *u.ClinicID == clinicID {
			out = append(out, u)
		}
	}
	return out, nil
}

type memTokens struct {
	*memStore
}

func (s memTokens) Store(_ context.Context, t model.PasswordResetToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[t.Token] = t
	return nil
}

func (s memTokens) Redeem(_ context.Context, token string, now time.Time, passwordHash string) (model.PasswordResetToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	if !ok {
		return model.PasswordResetToken{}, model.ErrResetTokenInvalid
	}
	delete(s.tokens, token)
	if now.After(t.ExpiresAt) {
		return t, model.ErrResetTokenExpired
	}
	u := s.users[t.UserID]
	u.PasswordHash = passwordHash
	u.MustChangePassword = false
	s.users[t.UserID] = u
	for k, other := range s.tokens {
		if other.UserID == t.UserID {
			delete(s.tokens, k)
		}
	}
	return t, nil
}

func (s memTokens) CleanExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type grants map[model.Role][]string

func (g grants) PermissionsForRole(_ context.Context, role model.Role) ([]string, error) {
	return g[role], nil
}

type noClinics struct{}

func (noClinics) FindByID(context.Context, string) (model.Clinic, error) {
	return model.Clinic{}, model.ErrClinicNotFound
}
func (noClinics) Create(context.Context, model.Clinic) error { return nil }
func (noClinics) List(context.Context) ([]model.Clinic, error) { return nil, nil }

type noAppointments struct{}

func (noAppointments) SlotTaken(context.Context, string, string, string) (bool, error) {
	return false, nil
}
func (noAppointments) Create(context.Context, model.Appointment) error { return nil }
func (noAppointments) ListByPatient(context.Context, string) ([]model.Appointment, error) {
	return []model.Appointment{}, nil
}
func (noAppointments) ListByClinic(context.Context, string) ([]model.Appointment, error) {
	return []model.Appointment{}, nil
}

type outbox struct {
	mu         sync.Mutex
	deliveries []model.ResetDelivery
}

func (o *outbox) DeliverReset(_ context.Context, d model.ResetDelivery) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deliveries = append(o.deliveries, d)
	return nil
}

func (o *outbox) last(t *testing.T) model.ResetDelivery {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.deliveries)
	return o.deliveries[len(o.deliveries)-1]
}

type upDB struct{}

func (upDB) Health(context.Context) error { return nil }

type testEnv struct {
	server *httptest.Server
	store  *memStore
	codec  *session.Codec
	outbox *outbox
}

func newTestEnv(t *testing.T, opts ...func(*config.Config)) *testEnv {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	clinicA := "clinic-a"
	store := &memStore{
		users: map[string]model.User{
			"admin-1":   {ID: "admin-1", Email: "admin@clinic.test", Role: model.RoleClinicAdmin, ClinicID: &clinicA, IsActive: true},
			"admin-2":   {ID: "admin-2", Email: "orphan@clinic.test", Role: model.RoleClinicAdmin, IsActive: true},
			"doctor-1":  {ID: "doctor-1", Email: "doctor@clinic.test", Role: model.RoleDoctor, ClinicID: &clinicA, IsActive: true},
			"doctor-2":  {ID: "doctor-2", Email: "fresh@clinic.test", Role: model.RoleDoctor, ClinicID: &clinicA, IsActive: true, MustChangePassword: true},
			"desk-1":    {ID: "desk-1", Email: "desk@clinic.test", Role: model.RoleSecretary, ClinicID: &clinicA, IsActive: true},
			"patient-1": {ID: "patient-1", Email: "patient@mail.test", Role: model.RolePatient, IsActive: true},
			"retired-1": {ID: "retired-1", Email: "retired@clinic.test", Role: model.RoleDoctor, ClinicID: &clinicA, IsActive: false},
		},
		tokens: make(map[string]model.PasswordResetToken),
	}
	for id, u := range store.users {
		u.PasswordHash = string(hash)
		store.users[id] = u
	}

	codec := session.NewCodec("router-test-secret", time.Hour)
	resolver := session.NewResolver(codec, store)
	box := &outbox{}

	auditService := service.NewAuditService(nil)
	access := service.NewAccessService(store, grants{
		model.RoleClinicAdmin: {"staff:read", "staff:create", "staff:update"},
		model.RoleDoctor:      {"patients:read", "patients:update"},
		model.RoleSecretary:   {"patients:read"},
		model.RolePatient:     {"appointments:create", "profile:read", "profile:update"},
	})

	cfg := &config.Config{
		RequestTimeout:   5 * time.Second,
		CORSOrigins:      []string{"http://localhost:3000"},
		RateLimitRPM:     -1,
		AuthRateLimitRPM: 1000,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	h := Handlers{
		Auth: handler.NewAuthHandler(
			service.NewAuthService(store, codec, auditService),
			service.NewResetService(store, memTokens{store}, box, auditService, "https://portal.test", time.Hour),
			session.CookieOptions{TTL: codec.TTL()},
		),
		Staff:       handler.NewStaffHandler(service.NewStaffService(store, auditService)),
		Patient:     handler.NewPatientHandler(service.NewPatientService(store, access, auditService)),
		Doctor:      handler.NewDoctorHandler(service.NewDoctorService(store)),
		Clinic:      handler.NewClinicHandler(service.NewClinicService(noClinics{}, auditService)),
		Appointment: handler.NewAppointmentHandler(service.NewAppointmentService(noAppointments{}, store, access, auditService)),
		Audit:       handler.NewAuditHandler(auditService),
		Page:        handler.NewPageHandler(),
		Health:      handler.NewHealthHandler(upDB{}),
	}

	server := httptest.NewServer(New(cfg, middleware.NewSessionMiddleware(resolver), middleware.NewRouteGate(resolver), access, h))
	t.Cleanup(server.Close)

	return &testEnv{server: server, store: store, codec: codec, outbox: box}
}

func (e *testEnv) cookieFor(t *testing.T, userID string) *http.Cookie {
	t.Helper()
	token, err := e.codec.Issue(userID)
	require.NoError(t, err)
	return &http.Cookie{Name: session.CookieName, Value: token}
}

func (e *testEnv) do(t *testing.T, method string, path string, body any, cookie *http.Cookie) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) model.APIResponse {
	t.Helper()
	var env model.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestPageGateRedirects(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	cases := []struct {
		name     string
		path     string
		userID   string
		status   int
		location string
	}{
		{name: "anonymous on protected page", path: "/doctor/schedule", status: http.StatusFound, location: "/login"},
		{name: "anonymous on login", path: "/login", status: http.StatusOK},
		{name: "doctor on own area", path: "/doctor", userID: "doctor-1", status: http.StatusOK},
		{name: "doctor on admin area", path: "/admin", userID: "doctor-1", status: http.StatusFound, location: "/doctor"},
		{name: "signed-in patient on login", path: "/login", userID: "patient-1", status: http.StatusFound, location: "/patient"},
		{name: "pending password change", path: "/doctor", userID: "doctor-2", status: http.StatusFound, location: "/change-password"},
		{name: "staff without clinic", path: "/clinic-admin", userID: "admin-2", status: http.StatusFound, location: "/error?message=no-clinic-assigned"},
		{name: "inactive account is anonymous", path: "/doctor", userID: "retired-1", status: http.StatusFound, location: "/login"},
		{name: "segment boundary", path: "/doctors", userID: "doctor-1", status: http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var cookie *http.Cookie
			if tc.userID != "" {
				cookie = env.cookieFor(t, tc.userID)
			}
			resp := env.do(t, http.MethodGet, tc.path, nil, cookie)
			require.Equal(t, tc.status, resp.StatusCode)
			if tc.location != "" {
				require.Equal(t, tc.location, resp.Header.Get("Location"))
			}
		})
	}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	bad := env.do(t, http.MethodPost, "/api/v1/auth/login", model.LoginRequest{Email: "doctor@clinic.test", Password: "wrong-password"}, nil)
	require.Equal(t, http.StatusUnauthorized, bad.StatusCode)
	require.Nil(t, sessionCookie(bad))

	inactive := env.do(t, http.MethodPost, "/api/v1/auth/login", model.LoginRequest{Email: "retired@clinic.test", Password: testPassword}, nil)
	require.Equal(t, http.StatusUnauthorized, inactive.StatusCode)
	require.Equal(t, "UNAUTHORIZED", decodeEnvelope(t, inactive).Error.Code)

	ok := env.do(t, http.MethodPost, "/api/v1/auth/login", model.LoginRequest{Email: "Doctor@Clinic.test", Password: testPassword}, nil)
	require.Equal(t, http.StatusOK, ok.StatusCode)
	cookie := sessionCookie(ok)
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)

	env2 := decodeEnvelope(t, ok)
	data, ok2 := env2.Data.(map[string]any)
	require.True(t, ok2)
	require.Equal(t, "/doctor", data["redirect_path"])

	me := env.do(t, http.MethodGet, "/api/v1/auth/me", nil, &http.Cookie{Name: session.CookieName, Value: cookie.Value})
	require.Equal(t, http.StatusOK, me.StatusCode)
	meData := decodeEnvelope(t, me).Data.(map[string]any)
	require.Equal(t, "doctor-1", meData["id"])
}

func TestLogoutClearsCookie(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/v1/auth/logout", nil, env.cookieFor(t, "patient-1"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cleared := sessionCookie(resp)
	require.NotNil(t, cleared)
	require.Empty(t, cleared.Value)
	require.Less(t, cleared.MaxAge, 0)
}

func TestForgotPasswordResponseIsUniform(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	read := func(email string) (int, string) {
		resp := env.do(t, http.MethodPost, "/api/v1/auth/forgot-password", model.ForgotPasswordRequest{Email: email}, nil)
		var buf bytes.Buffer
		_, err := buf.ReadFrom(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, buf.String()
	}

	knownStatus, knownBody := read("patient@mail.test")
	unknownStatus, unknownBody := read("nobody@mail.test")
	inactiveStatus, inactiveBody := read("retired@clinic.test")

	require.Equal(t, http.StatusOK, knownStatus)
	require.Equal(t, knownStatus, unknownStatus)
	require.Equal(t, knownStatus, inactiveStatus)
	require.Equal(t, knownBody, unknownBody)
	require.Equal(t, knownBody, inactiveBody)
	require.Contains(t, knownBody, service.ForgotPasswordMessage)

	env.outbox.mu.Lock()
	defer env.outbox.mu.Unlock()
	require.Len(t, env.outbox.deliveries, 1)
	require.Equal(t, "patient-1", env.outbox.deliveries[0].UserID)
}

func TestResetPasswordFlow(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/v1/auth/forgot-password", model.ForgotPasswordRequest{Email: "patient@mail.test"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	link, err := url.Parse(env.outbox.last(t).ResetURL)
	require.NoError(t, err)
	require.Equal(t, "/reset-password", link.Path)
	token := link.Query().Get("token")
	require.Len(t, token, 64)

	short := env.do(t, http.MethodPost, "/api/v1/auth/reset-password", model.ResetPasswordRequest{Token: token, Password: "short"}, nil)
	require.Equal(t, http.StatusBadRequest, short.StatusCode)

	done := env.do(t, http.MethodPost, "/api/v1/auth/reset-password", model.ResetPasswordRequest{Token: token, Password: "brand-new-secret"}, nil)
	require.Equal(t, http.StatusOK, done.StatusCode)

	reused := env.do(t, http.MethodPost, "/api/v1/auth/reset-password", model.ResetPasswordRequest{Token: token, Password: "another-secret"}, nil)
	require.Equal(t, http.StatusBadRequest, reused.StatusCode)
	require.Equal(t, "INVALID_TOKEN", decodeEnvelope(t, reused).Error.Code)

	login := env.do(t, http.MethodPost, "/api/v1/auth/login", model.LoginRequest{Email: "patient@mail.test", Password: "brand-new-secret"}, nil)
	require.Equal(t, http.StatusOK, login.StatusCode)
}

func TestAPIGuards(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	cases := []struct {
		name   string
		userID string
		status int
		code   string
	}{
		{name: "anonymous", status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "pending password change", userID: "doctor-2", status: http.StatusForbidden, code: "PASSWORD_CHANGE_REQUIRED"},
		{name: "clinic admin without clinic", userID: "admin-2", status: http.StatusForbidden, code: "NO_CLINIC_ASSIGNED"},
		{name: "wrong role", userID: "patient-1", status: http.StatusForbidden, code: "FORBIDDEN"},
		{name: "clinic admin", userID: "admin-1", status: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var cookie *http.Cookie
			if tc.userID != "" {
				cookie = env.cookieFor(t, tc.userID)
			}
			resp := env.do(t, http.MethodGet, "/api/v1/staff", nil, cookie)
			require.Equal(t, tc.status, resp.StatusCode)
			body := decodeEnvelope(t, resp)
			if tc.code != "" {
				require.False(t, body.Success)
				require.Equal(t, tc.code, body.Error.Code)
				return
			}
			require.True(t, body.Success)
		})
	}
}

func TestPendingPasswordChangeCanStillChangePassword(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	cookie := env.cookieFor(t, "doctor-2")
	me := env.do(t, http.MethodGet, "/api/v1/auth/me", nil, cookie)
	require.Equal(t, http.StatusOK, me.StatusCode)

	resp := env.do(t, http.MethodPost, "/api/v1/auth/change-password", model.ChangePasswordRequest{
		CurrentPassword: testPassword,
		NewPassword:     "a-better-secret",
	}, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeEnvelope(t, resp).Data.(map[string]any)
	require.Equal(t, "/doctor", data["redirect_path"])

	page := env.do(t, http.MethodGet, "/doctor", nil, cookie)
	require.Equal(t, http.StatusOK, page.StatusCode)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	db := env.do(t, http.MethodGet, "/health/db", nil, nil)
	require.Equal(t, http.StatusOK, db.StatusCode)
}

func TestPatientProfileWrites(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	path := "/api/v1/patients/patient-1"

	cases := []struct {
		name   string
		userID string
		body   model.UpdateProfileRequest
		status int
	}{
		{name: "staff without update grant", userID: "desk-1", body: model.UpdateProfileRequest{FirstName: "Changed"}, status: http.StatusForbidden},
		{name: "staff changing login email", userID: "doctor-1", body: model.UpdateProfileRequest{Email: "someone-else@mail.test"}, status: http.StatusForbidden},
		{name: "clinic admin", userID: "admin-1", body: model.UpdateProfileRequest{FirstName: "Changed"}, status: http.StatusForbidden},
		{name: "staff with update grant", userID: "doctor-1", body: model.UpdateProfileRequest{FirstName: "Noor"}, status: http.StatusOK},
		{name: "patient on own profile", userID: "patient-1", body: model.UpdateProfileRequest{Email: "me@mail.test"}, status: http.StatusOK},
	}

	for _, tc := range cases {
		resp := env.do(t, http.MethodPut, path, tc.body, env.cookieFor(t, tc.userID))
		require.Equal(t, tc.status, resp.StatusCode, tc.name)
		if tc.status == http.StatusForbidden {
			require.Equal(t, "FORBIDDEN", decodeEnvelope(t, resp).Error.Code, tc.name)
		}
	}

	stored, err := env.store.FindByID(context.Background(), "patient-1")
	require.NoError(t, err)
	require.Equal(t, "me@mail.test", stored.Email)
	require.Equal(t, "Noor", stored.FirstName)
}

func TestDoctorDirectory(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	anonymous := env.do(t, http.MethodGet, "/api/v1/doctors", nil, nil)
	require.Equal(t, http.StatusUnauthorized, anonymous.StatusCode)

	resp := env.do(t, http.MethodGet, "/api/v1/doctors?clinic_id=clinic-a", nil, env.cookieFor(t, "patient-1"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data model.DoctorList `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	ids := make([]string, 0, len(body.Data.Doctors))
	for _, d := range body.Data.Doctors {
		ids = append(ids, d.ID)
	}
	// retired-1 is inactive and doctor-2 is active but pending a password change
	require.Equal(t, []string{"doctor-1", "doctor-2"}, ids)

	other := env.do(t, http.MethodGet, "/api/v1/doctors?clinic_id=clinic-z", nil, env.cookieFor(t, "patient-1"))
	require.Equal(t, http.StatusOK, other.StatusCode)
	require.NoError(t, json.NewDecoder(other.Body).Decode(&body))
	require.Empty(t, body.Data.Doctors)
}

func TestRateLimitKeyIgnoresForwardedForByDefault(t *testing.T) {
	t.Parallel()

	login := func(env *testEnv, forwarded string) int {
		raw, err := json.Marshal(model.LoginRequest{Email: "doctor@clinic.test", Password: "wrong-password"})
		require.NoError(t, err)
		req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/v1/auth/login", bytes.NewReader(raw))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", forwarded)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		return resp.StatusCode
	}
	oneAttempt := func(cfg *config.Config) { cfg.AuthRateLimitRPM = 1 }

	direct := newTestEnv(t, oneAttempt)
	require.Equal(t, http.StatusUnauthorized, login(direct, "10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, login(direct, "10.0.0.2"))

	proxied := newTestEnv(t, oneAttempt, func(cfg *config.Config) { cfg.TrustProxyHeaders = true })
	require.Equal(t, http.StatusUnauthorized, login(proxied, "10.0.0.1"))
	require.Equal(t, http.StatusUnauthorized, login(proxied, "10.0.0.2"))
	require.Equal(t, http.StatusTooManyRequests, login(proxied, "10.0.0.1"))
}
