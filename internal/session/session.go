// Package session configures the cookie session shared by browser clients.
package session

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/foodiehub/foodiehub-backend/config"
	"github.com/foodiehub/foodiehub-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// UserIDKey is the session key holding the authenticated user's ID.
const UserIDKey = "user_id"

// New builds the session manager. Sessions live in Redis when a client is
// given and SESSION_STORE is "redis"; otherwise they are kept in memory.
func New(cfg *config.Config, rdb *redis.Client) *scs.SessionManager {
	manager := scs.New()
	manager.Lifetime = cfg.Session.Lifetime
	manager.IdleTimeout = cfg.Session.IdleTimeout
	manager.Cookie.Name = cfg.Session.CookieName
	manager.Cookie.HttpOnly = true
	manager.Cookie.Path = "/"
	manager.Cookie.SameSite = http.SameSiteLaxMode
	manager.Cookie.Secure = cfg.Session.SecureCookie

	if cfg.Session.Store == "redis" && rdb != nil {
		manager.Store = NewRedisStore(rdb)
	} else {
		manager.Store = memstore.New()
	}

	logger.Info("Session manager configured", map[string]interface{}{
		"store":    cfg.Session.Store,
		"cookie":   manager.Cookie.Name,
		"lifetime": manager.Lifetime.String(),
	})
	return manager
}
