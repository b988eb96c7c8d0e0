package services

import (
	"fmt"
	"log"
	"sync"

	"github.com/authorizerdev/authorizer-go"
	"github.com/gestok/patrimonio-api/internal/config"
	"github.com/gestok/patrimonio-api/internal/types"
	"github.com/gestok/patrimonio-api/internal/utils"
)

var (
	authClient *authorizer.AuthorizerClient
	authMu     sync.Mutex
)

// IsAuthorizerInitialized returns true if the Authorizer client is initialized
func IsAuthorizerInitialized() bool {
	authMu.Lock()
	defer authMu.Unlock()
	return authClient != nil
}

// InitAuthorizer initializes the Authorizer client singleton. A failed attempt
// leaves the client unset so a later request retries once the provider is
// reachable again.
func InitAuthorizer(cfg *config.Config, requestProtocol, requestHost string) error {
	authMu.Lock()
	defer authMu.Unlock()

	if authClient != nil {
		return nil
	}

	// Ping the Authorizer service first
	if err := utils.PingAuthorizer(cfg.AuthzURL); err != nil {
		return fmt.Errorf("authorizer ping failed: %w", err)
	}

	redirectURL := fmt.Sprintf("%s://%s", requestProtocol, requestHost)
	log.Printf("Initializing Authorizer: authorizerURL=%s, clientID=%s, redirectURL=%s",
		cfg.AuthzURL, cfg.AuthzClientID, redirectURL)

	client, err := authorizer.NewAuthorizerClient(cfg.AuthzClientID, cfg.AuthzURL, redirectURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create authorizer client: %w", err)
	}
	authClient = client

	return nil
}

// ValidateSession validates a session cookie for the given roles and resolves
// the caller identity from the Authorizer user record.
func ValidateSession(cookie string, roles []string) (types.Identity, error) {
	authMu.Lock()
	client := authClient
	authMu.Unlock()
	if client == nil {
		return types.Identity{}, fmt.Errorf("authorizer client not initialized")
	}

	// Convert roles to []*string
	rolesPtrs := make([]*string, len(roles))
	for i := range roles {
		rolesPtrs[i] = &roles[i]
	}

	// Validate session using the authorizer-go SDK
	res, err := client.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: cookie,
		Roles:  rolesPtrs,
	})
	if err != nil {
		return types.Identity{}, fmt.Errorf("session validation failed: %w", err)
	}

	// Check if session is valid
	if res == nil || !res.IsValid {
		return types.Identity{}, fmt.Errorf("session is not valid")
	}

	// Convert the SDK's []*string role list to []string
	userRoles := make([]string, 0, len(res.User.Roles))
	for _, r := range res.User.Roles {
		if r != nil {
			userRoles = append(userRoles, *r)
		}
	}

	return types.Identity{
		UserID: res.User.ID,
		Role:   effectiveRole(userRoles),
	}, nil
}

// effectiveRole reduces the Authorizer role list to the single role the
// access-control predicates reason about. Admin wins over editor, everything
// else is a plain user.
func effectiveRole(roles []string) string {
	role := types.RoleUser
	for _, r := range roles {
		switch r {
		case types.RoleAdmin:
			return types.RoleAdmin
		case types.RoleEditor:
			role = types.RoleEditor
		}
	}
	return role
}
