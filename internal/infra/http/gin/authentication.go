package ginserver

import (
	"strings"

	gin "github.com/gin-gonic/gin"

	"skipper/internal/app/auth"
	"skipper/internal/infra/security"
)

const principalContextKey = "skipper.principal"

// AuthMiddleware builds the request principal. Identity headers come from the
// upstream gateway (the authorization collaborator); a valid admin API key
// additionally grants the admin group.
type AuthMiddleware struct {
	AdminKeys security.APIKeyVerifier
}

func (m AuthMiddleware) Handle(c *gin.Context) {
	userID := strings.TrimSpace(c.GetHeader("X-User-ID"))
	if userID == "" {
		c.Next()
		return
	}
	p := auth.Principal{
		UserID: userID,
		Name:   strings.TrimSpace(c.GetHeader("X-User-Name")),
		Groups: splitGroups(c.GetHeader("X-User-Groups")),
	}
	if key := c.GetHeader("X-Admin-Key"); key != "" {
		if err := m.AdminKeys.Verify(key); err == nil {
			p.Groups = append(p.Groups, auth.GroupAdmin)
		}
	}
	c.Set(principalContextKey, p)
	c.Next()
}

func currentPrincipal(c *gin.Context) (auth.Principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return auth.Principal{}, false
	}
	p, ok := val.(auth.Principal)
	return p, ok
}

func splitGroups(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
