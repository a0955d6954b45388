package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/dkolesni/timecapsule/internal/client/api"
	"github.com/dkolesni/timecapsule/internal/client/session"
	"github.com/dkolesni/timecapsule/internal/common"
	"github.com/dkolesni/timecapsule/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memClient is an in-memory api.Client: it stores whatever ciphertext it
// is handed and plays it back, like the real server does.
type memClient struct {
	mu       sync.Mutex
	userID   string
	capsules []*api.Capsule
	files    []*api.File
	blobs    map[string][]byte

	unlockCalls []string
}

func newMemClient(userID string) *memClient {
	return &memClient{userID: userID, blobs: map[string][]byte{}}
}

func (m *memClient) Register(ctx context.Context, email, password, name string) (*api.AuthResult, error) {
	return &api.AuthResult{UserID: m.userID}, nil
}

func (m *memClient) Login(ctx context.Context, email, password string) (*api.AuthResult, error) {
	return &api.AuthResult{UserID: m.userID}, nil
}

func (m *memClient) Logout() {}

func (m *memClient) CreateCapsule(ctx context.Context, capsule *api.Capsule) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *capsule
	stored.ID = fmt.Sprintf("c-%d", len(m.capsules)+1)
	stored.UserID = m.userID
	stored.CreatedAt = time.Now().UTC()
	m.capsules = append([]*api.Capsule{&stored}, m.capsules...)
	return stored.ID, nil
}

func (m *memClient) ListCapsules(ctx context.Context) ([]*api.Capsule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*api.Capsule, len(m.capsules))
	copy(out, m.capsules)
	return out, nil
}

func (m *memClient) GetCapsule(ctx context.Context, id string) (*api.Capsule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.capsules {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, api.ErrNotFound
}

func (m *memClient) UnlockCapsule(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unlockCalls = append(m.unlockCalls, id)
	for _, c := range m.capsules {
		if c.ID == id {
			c.IsUnlocked = true
		}
	}
	return nil
}

func (m *memClient) unlockCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.unlockCalls)
}

func (m *memClient) CreateFileSlot(ctx context.Context, capsuleID string) (*api.FileSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fmt.Sprintf("capsule-files/%s/%s/%d", m.userID, capsuleID, len(m.files)+1)
	return &api.FileSlot{FilePath: key, UploadURL: "mem://" + key}, nil
}

func (m *memClient) CreateFile(ctx context.Context, file *api.File) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *file
	stored.ID = fmt.Sprintf("f-%d", len(m.files)+1)
	m.files = append(m.files, &stored)
	return stored.ID, nil
}

func (m *memClient) ListFiles(ctx context.Context, capsuleID string) ([]*api.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*api.File
	for _, f := range m.files {
		if f.CapsuleID == capsuleID {
			view := *f
			view.DownloadURL = "mem://" + f.FilePath
			out = append(out, &view)
		}
	}
	return out, nil
}

func (m *memClient) UploadBlob(ctx context.Context, url string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[url] = data
	return nil
}

func (m *memClient) DownloadBlob(ctx context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	blob, ok := m.blobs[url]
	if !ok {
		return nil, api.ErrNotFound
	}
	return blob, nil
}

func newTestStore(t *testing.T, client *memClient) (*CapsuleStore, *session.Manager) {
	t.Helper()
	sess := session.NewManager(client)
	require.NoError(t, sess.SignIn(context.Background(), "alice@example.com", []byte("correct horse")))
	store := NewCapsuleStore(client, sess, logging.NewZerologLogger("test", io.Discard))
	return store, sess
}

func TestCreateAndListLockedCapsule(t *testing.T) {
	client := newMemClient("u-1")
	store, _ := newTestStore(t, client)
	ctx := context.Background()

	unlockDate := time.Now().Add(24 * time.Hour)
	id, err := store.Create(ctx, "Letter", "Hello future me", unlockDate, nil)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// the stored record must be ciphertext
	stored := client.capsules[0]
	assert.NotContains(t, stored.TitleEncrypted, "Letter")
	assert.NotContains(t, stored.ContentEncrypted, "Hello future me")
	assert.Equal(t, "text", stored.CapsuleType)

	views, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)

	assert.Equal(t, "Letter", views[0].Title)
	assert.Equal(t, common.LockedContentPlaceholder, views[0].Content)
	assert.False(t, views[0].Unlocked)
	assert.Equal(t, 0, client.unlockCallCount())
}

func TestUnlockAfterDatePasses(t *testing.T) {
	client := newMemClient("u-1")
	store, _ := newTestStore(t, client)
	ctx := context.Background()

	_, err := store.Create(ctx, "Letter", "Hello future me", time.Now().Add(time.Hour), nil)
	require.NoError(t, err)

	// simulate the unlock date passing
	store.nowFn = func() time.Time { return time.Now().Add(2 * time.Hour) }

	views, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].Unlocked)
	assert.Equal(t, "Hello future me", views[0].Content)

	// the flag flip runs in the background
	assert.Eventually(t, func() bool { return client.unlockCallCount() == 1 },
		time.Second, 10*time.Millisecond)

	// a second read finds is_unlocked already set and does not flip again
	views, err = store.List(ctx)
	require.NoError(t, err)
	assert.True(t, views[0].Unlocked)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, client.unlockCallCount())
}

func TestListSkipsUnreadableRecords(t *testing.T) {
	client := newMemClient("u-1")
	store, _ := newTestStore(t, client)
	ctx := context.Background()

	_, err := store.Create(ctx, "Readable", "body", time.Now().Add(time.Hour), nil)
	require.NoError(t, err)

	client.capsules = append(client.capsules, &api.Capsule{
		ID:             "c-corrupt",
		UserID:         "u-1",
		TitleEncrypted: "bm90LXJlYWwtY2lwaGVydGV4dA==",
		TitleIV:        "AAAAAAAAAAAAAAAA",
		CapsuleType:    "text",
	})

	views, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Readable", views[0].Title)
}

func TestGetByID_NotFound(t *testing.T) {
	client := newMemClient("u-1")
	store, _ := newTestStore(t, client)

	_, err := store.GetByID(context.Background(), "c-ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestWrongUserCannotDecrypt(t *testing.T) {
	client := newMemClient("u-1")
	store, _ := newTestStore(t, client)
	ctx := context.Background()

	_, err := store.Create(ctx, "Secret", "body", time.Now().Add(time.Hour), nil)
	require.NoError(t, err)

	// same ciphertext read under a different user's key
	client.userID = "u-2"
	otherStore, _ := newTestStore(t, client)

	views, err := otherStore.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestCreateWithFilesRoundTrip(t *testing.T) {
	client := newMemClient("u-1")
	store, _ := newTestStore(t, client)
	ctx := context.Background()

	photo := FileUpload{Name: "beach.jpg", MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff, 0xe0, 1, 2, 3}}
	id, err := store.Create(ctx, "Trip", "", time.Now().Add(-time.Hour), []FileUpload{photo})
	require.NoError(t, err)

	assert.Equal(t, "image", client.capsules[0].CapsuleType)

	// stored blob and metadata are ciphertext
	require.Len(t, client.blobs, 1)
	for _, blob := range client.blobs {
		assert.NotEqual(t, photo.Data, blob)
	}
	assert.NotContains(t, client.files[0].NameEncrypted, "beach")

	files, err := store.ListFiles(ctx, id)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "beach.jpg", files[0].Name)
	assert.Equal(t, "image/jpeg", files[0].MIMEType)

	got, err := store.DownloadFile(ctx, id, files[0].ID)
	require.NoError(t, err)
	assert.Equal(t, photo.Data, got.Data)
}

func TestDownloadFile_LockedCapsule(t *testing.T) {
	client := newMemClient("u-1")
	store, _ := newTestStore(t, client)
	ctx := context.Background()

	photo := FileUpload{Name: "a.png", MIMEType: "image/png", Data: []byte{1, 2, 3}}
	id, err := store.Create(ctx, "Sealed", "text", time.Now().Add(time.Hour), []FileUpload{photo})
	require.NoError(t, err)

	_, err = store.DownloadFile(ctx, id, "f-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked")
}

func TestCreateRequiresSession(t *testing.T) {
	client := newMemClient("u-1")
	store, sess := newTestStore(t, client)
	sess.SignOut()

	_, err := store.Create(context.Background(), "T", "c", time.Now(), nil)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestCapsuleTypeFor(t *testing.T) {
	assert.Equal(t, "text", capsuleTypeFor("body", nil))
	assert.Equal(t, "image", capsuleTypeFor("", []FileUpload{{}}))
	assert.Equal(t, "mixed", capsuleTypeFor("body", []FileUpload{{}}))
}
