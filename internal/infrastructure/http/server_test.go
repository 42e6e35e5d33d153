package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/smartrogo/safephoneng/internal/adapter/repository"
	"github.com/smartrogo/safephoneng/internal/config"
	"github.com/smartrogo/safephoneng/internal/domain/entity"
	domainErrors "github.com/smartrogo/safephoneng/internal/domain/errors"
	domainRepo "github.com/smartrogo/safephoneng/internal/domain/repository"
	"github.com/smartrogo/safephoneng/internal/usecase"
	apperrors "github.com/smartrogo/safephoneng/pkg/errors"
	"github.com/smartrogo/safephoneng/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testIMEI = "356938035643809"

// tokenResolver maps fixed tokens to identities.
type tokenResolver struct {
	identities map[string]*entity.Identity
	down       bool
}

func (r *tokenResolver) Resolve(_ context.Context, credential string) (*entity.Identity, error) {
	if credential == "" {
		return nil, domainErrors.NewMissingCredentialError()
	}
	if r.down {
		return nil, domainErrors.NewIdentityUnavailableError(errors.New("connection refused"))
	}
	identity, ok := r.identities[credential]
	if !ok {
		return nil, domainErrors.NewInvalidCredentialError(nil)
	}
	return identity, nil
}

// failingMarks breaks the status update that follows a theft report.
type failingMarks struct {
	domainRepo.DeviceRepository
}

func (failingMarks) MarkStolen(context.Context, string, time.Time) (*entity.DeviceRegistration, error) {
	return nil, errors.New("connection reset")
}

type testServer struct {
	server   *Server
	resolver *tokenResolver
}

func newTestServer(t *testing.T, wrapDevices func(domainRepo.DeviceRepository) domainRepo.DeviceRepository) *testServer {
	t.Helper()

	store := repository.NewMemoryStore()
	devices := store.Devices()
	if wrapDevices != nil {
		devices = wrapDevices(devices)
	}

	cfg := &config.Config{
		Service: config.ServiceConfig{Name: "registry", ClientURL: "http://localhost:3000", DefaultRegion: "NG"},
		Metrics: config.MetricsConfig{Enabled: true, Namespace: "safephone", Path: "/metrics"},
	}
	m := metrics.NewMetrics(cfg.Metrics.Namespace, config.ServiceName)
	usecases := usecase.NewUsecases(usecase.Dependencies{
		Devices:       devices,
		TheftReports:  store.TheftReports(),
		Profiles:      store.Profiles(),
		DefaultRegion: cfg.Service.DefaultRegion,
		Metrics:       m,
		Logger:        zap.NewNop(),
	})
	resolver := &tokenResolver{identities: map[string]*entity.Identity{
		"alice-token": {UserID: "alice"},
		"bob-token":   {UserID: "bob"},
		"admin-token": {UserID: "root", Role: entity.RoleAdmin},
	}}

	return &testServer{
		server:   NewServer(cfg, zap.NewNop(), usecases, resolver, m),
		resolver: resolver,
	}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apperrors.ErrorBody {
	t.Helper()
	var body apperrors.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func registerBody() map[string]string {
	return map[string]string{"imei": testIMEI, "model": "Galaxy S21", "brand": "Samsung"}
}

func reportBody() map[string]interface{} {
	return map[string]interface{}{
		"imei":          testIMEI,
		"incident_type": "robbery",
		"incident_date": "2026-10-01",
		"location":      "Ikeja, Lagos",
		"description":   "Taken at gunpoint",
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"registry"}`, rec.Body.String())
}

func TestRegisterDevice(t *testing.T) {
	t.Run("requires a credential", func(t *testing.T) {
		ts := newTestServer(t, nil)

		rec := ts.do(t, http.MethodPost, "/api/v1/devices", "", registerBody())

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, apperrors.ErrMissingCredential, decodeError(t, rec).Code)
	})

	t.Run("rejects an unknown token", func(t *testing.T) {
		ts := newTestServer(t, nil)

		rec := ts.do(t, http.MethodPost, "/api/v1/devices", "forged", registerBody())

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, apperrors.ErrInvalidCredential, decodeError(t, rec).Code)
	})

	t.Run("identity provider down", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.resolver.down = true

		rec := ts.do(t, http.MethodPost, "/api/v1/devices", "alice-token", registerBody())

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, apperrors.ErrIdentityUnavailable, decodeError(t, rec).Code)
	})

	t.Run("created then duplicate", func(t *testing.T) {
		ts := newTestServer(t, nil)

		rec := ts.do(t, http.MethodPost, "/api/v1/devices", "alice-token", registerBody())
		require.Equal(t, http.StatusCreated, rec.Code)

		var device entity.DeviceRegistration
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &device))
		assert.Equal(t, testIMEI, device.IMEI)
		assert.Equal(t, "alice", device.OwnerID)
		assert.Equal(t, entity.DeviceStatusActive, device.Status)

		rec = ts.do(t, http.MethodPost, "/api/v1/devices", "bob-token", registerBody())
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, apperrors.ErrDuplicateIMEI, decodeError(t, rec).Code)
	})

	t.Run("malformed imei", func(t *testing.T) {
		ts := newTestServer(t, nil)
		body := registerBody()
		body["imei"] = "35693803564380"

		rec := ts.do(t, http.MethodPost, "/api/v1/devices", "alice-token", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apperrors.ErrInvalidArgument, decodeError(t, rec).Code)
	})
}

func TestListMyDevices(t *testing.T) {
	ts := newTestServer(t, nil)
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/v1/devices", "alice-token", registerBody()).Code)

	rec := ts.do(t, http.MethodGet, "/api/v1/devices/mine", "alice-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []entity.DeviceRegistration
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	assert.Len(t, mine, 1)

	rec = ts.do(t, http.MethodGet, "/api/v1/devices/mine", "bob-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUpdateStatus(t *testing.T) {
	ts := newTestServer(t, nil)
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/v1/devices", "alice-token", registerBody()).Code)
	path := "/api/v1/devices/" + testIMEI + "/status"

	rec := ts.do(t, http.MethodPatch, path, "bob-token", map[string]string{"status": "stolen"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, apperrors.ErrForbidden, decodeError(t, rec).Code)

	rec = ts.do(t, http.MethodPatch, "/api/v1/devices/490154203237518/status", "alice-token", map[string]string{"status": "stolen"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPatch, path, "alice-token", map[string]string{"status": "stolen"})
	require.Equal(t, http.StatusOK, rec.Code)
	var device entity.DeviceRegistration
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &device))
	assert.Equal(t, entity.DeviceStatusStolen, device.Status)

	rec = ts.do(t, http.MethodPatch, path, "alice-token", map[string]string{"status": "active"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerify(t *testing.T) {
	t.Run("unknown imei is not found", func(t *testing.T) {
		ts := newTestServer(t, nil)

		rec := ts.do(t, http.MethodGet, "/api/v1/verify/"+testIMEI, "", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"imei":"`+testIMEI+`","found":false}`, rec.Body.String())
	})

	t.Run("malformed imei", func(t *testing.T) {
		ts := newTestServer(t, nil)

		rec := ts.do(t, http.MethodGet, "/api/v1/verify/12345", "", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("anonymous report flags the device", func(t *testing.T) {
		ts := newTestServer(t, nil)
		require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/v1/devices", "alice-token", registerBody()).Code)

		rec := ts.do(t, http.MethodPost, "/api/v1/theft-reports", "", reportBody())
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = ts.do(t, http.MethodGet, "/api/v1/verify/"+testIMEI, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var result entity.VerificationResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.True(t, result.Found)
		assert.Equal(t, entity.DeviceStatusStolen, result.Status)
		assert.Equal(t, "Galaxy S21", result.Model)
		require.Len(t, result.Reports, 1)
		assert.Equal(t, "Ikeja, Lagos", result.Reports[0].Location)
	})
}

func TestFileReport(t *testing.T) {
	t.Run("signed in reporter is recorded", func(t *testing.T) {
		ts := newTestServer(t, nil)

		rec := ts.do(t, http.MethodPost, "/api/v1/theft-reports", "bob-token", reportBody())
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			entity.TheftReport
			SyncPending bool `json:"sync_pending"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.ReporterID)
		assert.Equal(t, "bob", *resp.ReporterID)
		assert.False(t, resp.SyncPending)
		assert.Regexp(t, `^SPR-[0-9A-Z]{10}$`, resp.CaseNumber)
	})

	t.Run("bad credential is rejected even though auth is optional", func(t *testing.T) {
		ts := newTestServer(t, nil)

		rec := ts.do(t, http.MethodPost, "/api/v1/theft-reports", "forged", reportBody())

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		ts := newTestServer(t, nil)
		body := reportBody()
		delete(body, "location")

		rec := ts.do(t, http.MethodPost, "/api/v1/theft-reports", "", body)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apperrors.ErrInvalidArgument, decodeError(t, rec).Code)
	})

	t.Run("status update failure keeps the report", func(t *testing.T) {
		ts := newTestServer(t, func(d domainRepo.DeviceRepository) domainRepo.DeviceRepository {
			return failingMarks{d}
		})
		require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/v1/devices", "alice-token", registerBody()).Code)

		rec := ts.do(t, http.MethodPost, "/api/v1/theft-reports", "", reportBody())
		require.Equal(t, http.StatusCreated, rec.Code)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, true, resp["sync_pending"])
		assert.Equal(t, apperrors.ErrPartialFailure, resp["warning"])

		// The stored report alone is enough for verification to say stolen.
		rec = ts.do(t, http.MethodGet, "/api/v1/verify/"+testIMEI, "", nil)
		var result entity.VerificationResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, entity.DeviceStatusStolen, result.Status)
	})
}

func TestListTheftReports(t *testing.T) {
	ts := newTestServer(t, nil)
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/v1/theft-reports", "", reportBody()).Code)

	rec := ts.do(t, http.MethodGet, "/api/v1/theft-reports?imei="+testIMEI, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var reports []entity.TheftReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reports))
	assert.Len(t, reports, 1)

	rec = ts.do(t, http.MethodGet, "/api/v1/theft-reports", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfiles(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/api/v1/profiles/me", "alice-token", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/v1/profiles/me", "alice-token", map[string]string{
		"full_name":    "Alice Okafor",
		"phone_number": "0803 123 4567",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/profiles/me", "alice-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile entity.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "Alice Okafor", profile.FullName)
	assert.Equal(t, "+2348031234567", profile.PhoneNumber)

	rec = ts.do(t, http.MethodPut, "/api/v1/profiles/me", "alice-token", map[string]string{"full_name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRoutes(t *testing.T) {
	ts := newTestServer(t, nil)
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/v1/devices", "alice-token", registerBody()).Code)
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/v1/theft-reports", "", reportBody()).Code)

	for _, path := range []string{"/api/v1/admin/devices", "/api/v1/admin/theft-reports", "/api/v1/admin/stats"} {
		rec := ts.do(t, http.MethodGet, path, "alice-token", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)

		rec = ts.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := ts.do(t, http.MethodGet, "/api/v1/admin/devices?status=stolen&q=galaxy&page=1&limit=10", "admin-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page entity.PaginatedDevicesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(1), page.Pagination.Total)

	rec = ts.do(t, http.MethodGet, "/api/v1/admin/devices?page=abc", "admin-token", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/v1/admin/stats", "admin-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"devices":1,"active_devices":0,"stolen_devices":1,"theft_reports":1}`, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/api/v1/admin/reconcile", "admin-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var result usecase.ReconcileResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Empty(t, result.Repaired)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.do(t, http.MethodGet, "/api/v1/verify/"+testIMEI, "", nil)

	rec := ts.do(t, http.MethodGet, "/metrics", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "safephone_registry_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/api/v1/verify/:imei"`)
}
