// Package session owns the client-side key lifecycle. The content key is
// derived from the password at sign-in, held only in memory for the life
// of the session, and wiped at sign-out. It is never written to disk and
// never leaves the process.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkolesni/timecapsule/internal/client/api"
	"github.com/dkolesni/timecapsule/internal/common"
	"github.com/dkolesni/timecapsule/internal/cryptox"
)

// Manager authenticates against the server and manages the derived key.
type Manager struct {
	client api.Client

	mu     sync.RWMutex
	userID string
	key    []byte
}

func NewManager(client api.Client) *Manager {
	return &Manager{client: client}
}

// SignUp registers a new account and starts a session. The content key is
// derived from the password and the salt bound to the new user id; the
// password bytes are wiped before returning.
func (m *Manager) SignUp(ctx context.Context, email string, password []byte, name string) error {
	defer common.WipeByteArray(password)

	result, err := m.client.Register(ctx, email, string(password), name)
	if err != nil {
		return fmt.Errorf("register error: %w", err)
	}

	return m.startSession(result.UserID, password)
}

// SignIn authenticates and starts a session, deriving the content key from
// the fresh password. The password bytes are wiped before returning.
func (m *Manager) SignIn(ctx context.Context, email string, password []byte) error {
	defer common.WipeByteArray(password)

	result, err := m.client.Login(ctx, email, string(password))
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	return m.startSession(result.UserID, password)
}

func (m *Manager) startSession(userID string, password []byte) error {
	key, err := cryptox.DeriveKey(password, cryptox.SaltFor(userID))
	if err != nil {
		return fmt.Errorf("key derivation error: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.key != nil {
		common.WipeByteArray(m.key)
	}
	m.userID = userID
	m.key = key
	return nil
}

// SignOut wipes the key, clears the session, and drops the server tokens.
// Already-decrypted plaintext held elsewhere is out of its reach.
func (m *Manager) SignOut() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.key != nil {
		common.WipeByteArray(m.key)
	}
	m.key = nil
	m.userID = ""
	m.client.Logout()
}

// Active reports whether a session with a derived key is in place.
func (m *Manager) Active() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.key != nil
}

// UserID returns the signed-in user id, or "" without a session.
func (m *Manager) UserID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userID
}

// Key returns the session content key. Callers must treat it as read-only;
// it stays valid until SignOut. Returns common.ErrorUnauthorized without an
// active session.
func (m *Manager) Key() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.key == nil {
		return nil, common.ErrorUnauthorized
	}
	return m.key, nil
}
