package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/smartrogo/safephoneng/internal/domain/entity"
	domainErrors "github.com/smartrogo/safephoneng/internal/domain/errors"
	apperrors "github.com/smartrogo/safephoneng/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockIdentityResolver struct {
	mock.Mock
}

func (m *MockIdentityResolver) Resolve(ctx context.Context, credential string) (*entity.Identity, error) {
	args := m.Called(ctx, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Identity), args.Error(1)
}

func serve(t *testing.T, mw echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, *entity.Identity, bool) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *entity.Identity
	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		seen = GetIdentity(c)
		return c.NoContent(http.StatusNoContent)
	})
	require.NoError(t, handler(c))
	return rec, seen, called
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body apperrors.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestRequireIdentity(t *testing.T) {
	user := &entity.Identity{UserID: "user-1"}

	tests := []struct {
		name       string
		setup      func(*http.Request)
		credential string
		resolved   *entity.Identity
		resolveErr error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "bearer header",
			setup:      func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer good-token") },
			credential: "good-token",
			resolved:   user,
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "cookie fallback",
			setup:      func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-token"}) },
			credential: "cookie-token",
			resolved:   user,
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "missing credential",
			setup:      func(r *http.Request) {},
			credential: "",
			resolveErr: domainErrors.NewMissingCredentialError(),
			wantStatus: http.StatusUnauthorized,
			wantCode:   apperrors.ErrMissingCredential,
		},
		{
			name:       "rejected credential",
			setup:      func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer expired") },
			credential: "expired",
			resolveErr: domainErrors.NewInvalidCredentialError(errors.New("token is expired")),
			wantStatus: http.StatusUnauthorized,
			wantCode:   apperrors.ErrInvalidCredential,
		},
		{
			name:       "provider down",
			setup:      func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer good-token") },
			credential: "good-token",
			resolveErr: domainErrors.NewIdentityUnavailableError(errors.New("dial tcp: connection refused")),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   apperrors.ErrIdentityUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := new(MockIdentityResolver)
			if tt.resolveErr != nil {
				resolver.On("Resolve", mock.Anything, tt.credential).Return(nil, tt.resolveErr)
			} else {
				resolver.On("Resolve", mock.Anything, tt.credential).Return(tt.resolved, nil)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/devices/mine", nil)
			tt.setup(req)
			rec, seen, called := serve(t, RequireIdentity(Config{Resolver: resolver, Logger: zap.NewNop()}), req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.False(t, called)
				assert.Equal(t, tt.wantCode, errorCode(t, rec))
			} else {
				assert.True(t, called)
				assert.Equal(t, tt.resolved, seen)
			}
			resolver.AssertExpectations(t)
		})
	}
}

func TestOptionalIdentity(t *testing.T) {
	t.Run("anonymous request skips resolver", func(t *testing.T) {
		resolver := new(MockIdentityResolver)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/theft-reports", nil)

		rec, seen, called := serve(t, OptionalIdentity(Config{Resolver: resolver, Logger: zap.NewNop()}), req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.True(t, called)
		assert.Nil(t, seen)
		resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
	})

	t.Run("invalid credential is not downgraded to anonymous", func(t *testing.T) {
		resolver := new(MockIdentityResolver)
		resolver.On("Resolve", mock.Anything, "forged").Return(nil, domainErrors.NewInvalidCredentialError(nil))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/theft-reports", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer forged")
		rec, _, called := serve(t, OptionalIdentity(Config{Resolver: resolver, Logger: zap.NewNop()}), req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("valid credential is attached", func(t *testing.T) {
		user := &entity.Identity{UserID: "user-1"}
		resolver := new(MockIdentityResolver)
		resolver.On("Resolve", mock.Anything, "good").Return(user, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/theft-reports", nil)
		req.Header.Set(echo.HeaderAuthorization, "bearer good")
		_, seen, called := serve(t, OptionalIdentity(Config{Resolver: resolver, Logger: zap.NewNop()}), req)

		assert.True(t, called)
		assert.Equal(t, user, seen)
	})
}

func TestExtractCredential_NonBearerHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Basic dXNlcjpwYXNz")
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Equal(t, "Basic dXNlcjpwYXNz", ExtractCredential(c))
}
