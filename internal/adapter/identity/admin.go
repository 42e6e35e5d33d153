package identity

import "github.com/smartrogo/safephoneng/internal/domain/entity"

// adminSet marks identities named in the configured admin list.
type adminSet map[string]struct{}

func newAdminSet(userIDs []string) adminSet {
	set := make(adminSet, len(userIDs))
	for _, id := range userIDs {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

func (s adminSet) apply(identity *entity.Identity) *entity.Identity {
	if _, ok := s[identity.UserID]; ok {
		identity.Admin = true
	}
	return identity
}

// roleFromMetadata prefers app_metadata.role, which only the service role can
// set, over the top level role claim.
func roleFromMetadata(appMetadata map[string]interface{}, fallback string) string {
	if role, ok := appMetadata["role"].(string); ok && role != "" {
		return role
	}
	return fallback
}
