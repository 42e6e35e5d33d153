// Package identity resolves bearer credentials issued by Supabase Auth.
package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/smartrogo/safephoneng/internal/domain/entity"
	domainErrors "github.com/smartrogo/safephoneng/internal/domain/errors"
	"github.com/smartrogo/safephoneng/internal/domain/service"
	"go.uber.org/zap"
)

// supabaseClaims are the claims of a Supabase access token.
type supabaseClaims struct {
	Email       string                 `json:"email"`
	Role        string                 `json:"role"`
	AppMetadata map[string]interface{} `json:"app_metadata"`
	jwt.RegisteredClaims
}

// JWTResolver verifies HS256 access tokens locally with the project's JWT
// secret. It never reports the provider as unavailable.
type JWTResolver struct {
	secret []byte
	admins adminSet
	parser *jwt.Parser
	logger *zap.Logger
}

// NewJWTResolver creates a resolver for tokens signed with secret.
func NewJWTResolver(secret string, adminUserIDs []string, logger *zap.Logger) service.IdentityResolver {
	return &JWTResolver{
		secret: []byte(secret),
		admins: newAdminSet(adminUserIDs),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
		logger: logger,
	}
}

func (r *JWTResolver) Resolve(_ context.Context, credential string) (*entity.Identity, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, domainErrors.NewMissingCredentialError()
	}

	claims := &supabaseClaims{}
	token, err := r.parser.ParseWithClaims(credential, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return r.secret, nil
	})
	if err != nil || !token.Valid {
		r.logger.Debug("JWT validation failed", zap.Error(err))
		return nil, domainErrors.NewInvalidCredentialError(err)
	}

	if claims.Subject == "" {
		return nil, domainErrors.NewInvalidCredentialError(fmt.Errorf("token has no subject"))
	}

	return r.admins.apply(&entity.Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   roleFromMetadata(claims.AppMetadata, claims.Role),
	}), nil
}
