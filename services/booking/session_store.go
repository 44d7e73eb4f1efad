package booking

import (
	"encoding/binary"
	"hash/fnv"
	"sync"
	"time"

	"domik/models"
)

const sessionShards = 16

type sessionShard struct {
	mu       sync.RWMutex
	sessions map[int64]*models.BookingSession
}

// SessionStore holds live booking sessions in memory, sharded by user
// id so concurrent updates for different users do not contend.
type SessionStore struct {
	shards [sessionShards]*sessionShard
}

func NewSessionStore() *SessionStore {
	s := &SessionStore{}
	for i := range s.shards {
		s.shards[i] = &sessionShard{sessions: make(map[int64]*models.BookingSession)}
	}
	return s
}

func (s *SessionStore) shard(userID int64) *sessionShard {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(userID))
	h := fnv.New32a()
	h.Write(buf[:])
	return s.shards[h.Sum32()%sessionShards]
}

// Create opens a fresh session for the user, replacing any previous
// one. The calendar starts on the month of now.
func (s *SessionStore) Create(userID int64, resourceID uint, now time.Time) {
	sh := s.shard(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.sessions[userID] = &models.BookingSession{
		ResourceID:    resourceID,
		CalendarYear:  now.Year(),
		CalendarMonth: int(now.Month()),
		Created:       now,
	}
}

// Get returns a copy of the user's session, so callers can read it
// without holding the shard lock.
func (s *SessionStore) Get(userID int64) (models.BookingSession, bool) {
	sh := s.shard(userID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	sess, ok := sh.sessions[userID]
	if !ok {
		return models.BookingSession{}, false
	}
	return *sess, true
}

// Update applies fn to the user's session under the shard lock.
// Returns ErrSessionNotFound if the user has no session.
func (s *SessionStore) Update(userID int64, fn func(*models.BookingSession) error) error {
	sh := s.shard(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sess, ok := sh.sessions[userID]
	if !ok {
		return ErrSessionNotFound
	}
	return fn(sess)
}

func (s *SessionStore) Remove(userID int64) {
	sh := s.shard(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.sessions, userID)
}

func (s *SessionStore) Len() int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.sessions)
		sh.mu.RUnlock()
	}
	return total
}

// Snapshot returns a value copy of every live session keyed by user id.
func (s *SessionStore) Snapshot() map[int64]models.BookingSession {
	out := make(map[int64]models.BookingSession)
	for _, sh := range s.shards {
		sh.mu.RLock()
		for id, sess := range sh.sessions {
			out[id] = *sess
		}
		sh.mu.RUnlock()
	}
	return out
}

// Restore loads sessions into the store, replacing entries for the same
// user ids. Used once at startup.
func (s *SessionStore) Restore(sessions map[int64]models.BookingSession) {
	for id, sess := range sessions {
		sess := sess
		sh := s.shard(id)
		sh.mu.Lock()
		sh.sessions[id] = &sess
		sh.mu.Unlock()
	}
}

// SweepExpired removes sessions that sat without a check-out for longer
// than maxAge and reports how many were dropped.
func (s *SessionStore) SweepExpired(now time.Time, maxAge time.Duration) int {
	removed := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		for id, sess := range sh.sessions {
			if sess.Expired(now, maxAge) {
				delete(sh.sessions, id)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed
}
