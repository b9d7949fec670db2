package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/viv500/GenesisAI/pkg/store"
)

type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 4 * time.Hour
	}
	// Expired sessions are purged every 10 minutes
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

// Get returns the session and slides its expiry forward.
func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	x, found := r.cache.Get(sessionID)
	if !found {
		return nil, false
	}
	session := x.(*store.Session)
	// sessionID may alias a request buffer; re-key with the owned id
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
	return session, true
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

// All lists the live sessions.
func (r *SessionRepository) All() []*store.Session {
	items := r.cache.Items()
	out := make([]*store.Session, 0, len(items))
	for _, item := range items {
		if s, ok := item.Object.(*store.Session); ok {
			out = append(out, s)
		}
	}
	return out
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
