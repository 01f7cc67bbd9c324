package auth

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"launchpad/internal/model"
)

var errTokenInUse = errors.New("token_in_use")

// Table is the registry of active sessions keyed by username. Only Service
// writes to it. All access goes through a single mutex, and Claim runs the
// whole check-then-write of a login under that mutex.
type Table struct {
	mu       sync.Mutex
	sessions map[string]model.Session
}

func NewTable() *Table {
	return &Table{sessions: make(map[string]model.Session)}
}

func (t *Table) Get(username string) (model.Session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[username]
	return s, ok
}

// Put inserts or overwrites. Any token previously issued to username stops
// being recognised.
func (t *Table) Put(username string, s model.Session) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.sessions[username] = s
}

// Delete removes the session and reports whether one existed.
func (t *Table) Delete(username string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.sessions[username]
	delete(t.sessions, username)
	return ok
}

func (t *Table) FindByToken(token string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.findLocked(token)
}

// Touch looks up token and moves its session's LastActive to now.
func (t *Table) Touch(token string, now time.Time) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	username, ok := t.findLocked(token)
	if !ok {
		return "", false
	}
	s := t.sessions[username]
	s.LastActive = now
	t.sessions[username] = s
	return username, true
}

// Claim stores s for username unless decide rejects it. decide receives the
// current session (nil if none) and runs under the table lock, so no other
// operation can interleave between the decision and the write. A token that
// is already live for a different user is refused with errTokenInUse.
func (t *Table) Claim(username string, s model.Session, decide func(existing *model.Session) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var existing *model.Session
	if cur, ok := t.sessions[username]; ok {
		existing = &cur
	}
	if decide != nil {
		if err := decide(existing); err != nil {
			return err
		}
	}

	if owner, ok := t.findLocked(s.Token); ok && owner != username {
		return errTokenInUse
	}
	t.sessions[username] = s
	return nil
}

func (t *Table) Online(username string) bool {
	_, ok := t.Get(username)
	return ok
}

func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.sessions)
}

func (t *Table) findLocked(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	for username, s := range t.sessions {
		if subtle.ConstantTimeCompare([]byte(s.Token), []byte(token)) == 1 {
			return username, true
		}
	}
	return "", false
}
