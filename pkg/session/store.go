package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Store は Session を有効期限付きで保持します。アクセスのたびに期限が延長されます。
type Store struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewStore は ttl 経過で失効する Store を作成します。
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// Create は新しい Session を作成して登録します。
func (s *Store) Create() *Session {
	sess := newSession(uuid.NewString())
	s.cache.Set(sess.ID, sess, s.ttl)
	return sess
}

// Get は Session を取得し、有効期限を延長します。
func (s *Store) Get(id string) (*Session, bool) {
	val, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	sess, ok := val.(*Session)
	if !ok {
		return nil, false
	}
	s.cache.Set(id, sess, s.ttl)
	return sess, true
}

// Delete は Session を破棄します。
func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

// Len は保持中の Session 数を返します（失効済みで未掃除のものを含みます）。
func (s *Store) Len() int {
	return s.cache.ItemCount()
}
