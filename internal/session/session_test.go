package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2/memstore"
	"github.com/foodiehub/foodiehub-backend/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(store string) *config.Config {
	return &config.Config{
		Session: config.SessionConfig{
			Store:       store,
			CookieName:  "test_session",
			Lifetime:    time.Hour,
			IdleTimeout: 10 * time.Minute,
		},
	}
}

func TestNew_MemoryStore(t *testing.T) {
	manager := New(testConfig("memory"), nil)

	assert.Equal(t, "test_session", manager.Cookie.Name)
	assert.True(t, manager.Cookie.HttpOnly)
	assert.Equal(t, time.Hour, manager.Lifetime)
	assert.IsType(t, &memstore.MemStore{}, manager.Store)
}

func TestNew_RedisStoreNeedsClient(t *testing.T) {
	manager := New(testConfig("redis"), nil)
	assert.IsType(t, &memstore.MemStore{}, manager.Store)

	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer rdb.Close()
	manager = New(testConfig("redis"), rdb)
	assert.IsType(t, &RedisStore{}, manager.Store)
}

func TestSessionRoundTrip(t *testing.T) {
	manager := New(testConfig("memory"), nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/put", func(w http.ResponseWriter, r *http.Request) {
		manager.Put(r.Context(), UserIDKey, uint(42))
	})
	mux.HandleFunc("/get", func(w http.ResponseWriter, r *http.Request) {
		id, _ := manager.Get(r.Context(), UserIDKey).(uint)
		if id != 42 {
			w.WriteHeader(http.StatusUnauthorized)
		}
	})
	handler := manager.LoadAndSave(mux)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/put", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "test_session", cookies[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRedisStore_Key(t *testing.T) {
	store := NewRedisStore(nil)
	assert.Equal(t, "session:abc", store.key("abc"))
}
