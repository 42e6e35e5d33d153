package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/smartrogo/safephoneng/internal/domain/entity"
	domainErrors "github.com/smartrogo/safephoneng/internal/domain/errors"
	"github.com/smartrogo/safephoneng/internal/domain/service"
	"go.uber.org/zap"
)

// supabaseUser is the subset of the GET /auth/v1/user response we use.
type supabaseUser struct {
	ID          string                 `json:"id"`
	Email       string                 `json:"email"`
	Role        string                 `json:"role"`
	AppMetadata map[string]interface{} `json:"app_metadata"`
}

// SupabaseResolver asks Supabase Auth who owns an access token.
type SupabaseResolver struct {
	client  *http.Client
	baseURL string
	apiKey  string
	admins  adminSet
	logger  *zap.Logger
}

// NewSupabaseResolver creates a resolver against the project at baseURL.
func NewSupabaseResolver(
	baseURL string,
	apiKey string,
	timeout time.Duration,
	adminUserIDs []string,
	logger *zap.Logger,
) service.IdentityResolver {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SupabaseResolver{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		admins:  newAdminSet(adminUserIDs),
		logger:  logger,
	}
}

func (r *SupabaseResolver) Resolve(ctx context.Context, credential string) (*entity.Identity, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, domainErrors.NewMissingCredentialError()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, domainErrors.NewIdentityUnavailableError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("apikey", r.apiKey)
	req.Header.Set("Authorization", "Bearer "+credential)

	requestStart := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("Supabase auth request failed",
			zap.Duration("request_duration", time.Since(requestStart)),
			zap.Error(err))
		return nil, domainErrors.NewIdentityUnavailableError(fmt.Errorf("http request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, domainErrors.NewIdentityUnavailableError(fmt.Errorf("failed to read response: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		r.logger.Warn("Supabase auth unavailable",
			zap.Int("status_code", resp.StatusCode),
			zap.Duration("request_duration", time.Since(requestStart)))
		return nil, domainErrors.NewIdentityUnavailableError(fmt.Errorf("supabase returned status %d", resp.StatusCode))
	default:
		r.logger.Debug("Supabase rejected credential", zap.Int("status_code", resp.StatusCode))
		return nil, domainErrors.NewInvalidCredentialError(fmt.Errorf("supabase returned status %d", resp.StatusCode))
	}

	var user supabaseUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, domainErrors.NewIdentityUnavailableError(fmt.Errorf("failed to decode response: %w", err))
	}
	if user.ID == "" {
		return nil, domainErrors.NewInvalidCredentialError(fmt.Errorf("supabase returned no user"))
	}

	return r.admins.apply(&entity.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   roleFromMetadata(user.AppMetadata, user.Role),
	}), nil
}
