package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dkolesni/timecapsule/internal/common"
	"github.com/dkolesni/timecapsule/internal/logging"
	"github.com/dkolesni/timecapsule/internal/server/auth"
	"github.com/dkolesni/timecapsule/internal/server/models"
	"github.com/dkolesni/timecapsule/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

type fakeUserService struct {
	user *models.User
	pair *services.TokenPair
	err  error
}

func (f *fakeUserService) Register(ctx context.Context, email, password, name string) (*models.User, *services.TokenPair, error) {
	return f.user, f.pair, f.err
}

func (f *fakeUserService) Login(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error) {
	return f.user, f.pair, f.err
}

func (f *fakeUserService) RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	return f.pair, f.err
}

type fakeCapsuleService struct {
	createID  string
	createErr error

	list    []*models.Capsule
	listErr error

	capsule *models.Capsule
	getErr  error

	unlockErr error

	slot    *services.FileSlot
	slotErr error

	fileID    string
	fileErr   error
	views     []*services.FileView
	viewsErr  error
	gotUserID string
}

func (f *fakeCapsuleService) Create(ctx context.Context, userID string, capsule *models.Capsule) (string, error) {
	f.gotUserID = userID
	return f.createID, f.createErr
}

func (f *fakeCapsuleService) ListForUser(ctx context.Context, userID string) ([]*models.Capsule, error) {
	f.gotUserID = userID
	return f.list, f.listErr
}

func (f *fakeCapsuleService) GetForUser(ctx context.Context, id string, userID string) (*models.Capsule, error) {
	f.gotUserID = userID
	return f.capsule, f.getErr
}

func (f *fakeCapsuleService) Unlock(ctx context.Context, id string, userID string) error {
	f.gotUserID = userID
	return f.unlockErr
}

func (f *fakeCapsuleService) CreateFileSlot(ctx context.Context, capsuleID string, userID string) (*services.FileSlot, error) {
	return f.slot, f.slotErr
}

func (f *fakeCapsuleService) CreateFile(ctx context.Context, userID string, file *models.File) (string, error) {
	return f.fileID, f.fileErr
}

func (f *fakeCapsuleService) ListFiles(ctx context.Context, capsuleID string, userID string) ([]*services.FileView, error) {
	return f.views, f.viewsErr
}

func newTestServer(t *testing.T, us UserService, cs CapsuleService) *httptest.Server {
	t.Helper()
	h := NewHandler(us, cs, testSecret, logging.NewZerologLogger("test", io.Discard))
	srv := httptest.NewServer(h.Init())
	t.Cleanup(srv.Close)
	return srv
}

func bearerFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, testSecret, time.Minute)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRegisterRoute(t *testing.T) {
	us := &fakeUserService{
		user: &models.User{ID: "u-1", Email: "alice@example.com"},
		pair: &services.TokenPair{AccessToken: "at", RefreshToken: "rt"},
	}
	srv := newTestServer(t, us, &fakeCapsuleService{})

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "",
		`{"email":"alice@example.com","password":"pw","name":"Alice"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out authResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "u-1", out.UserID)
	assert.Equal(t, "at", out.AccessToken)
	assert.Equal(t, "rt", out.RefreshToken)
}

func TestRegisterRoute_MissingFields(t *testing.T) {
	srv := newTestServer(t, &fakeUserService{}, &fakeCapsuleService{})

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "", `{"email":"a@b.c"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginRoute_Unauthorized(t *testing.T) {
	us := &fakeUserService{err: common.ErrorUnauthorized}
	srv := newTestServer(t, us, &fakeCapsuleService{})

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "",
		`{"email":"alice@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshRoute_Expired(t *testing.T) {
	us := &fakeUserService{err: common.ErrRefreshTokenExpired}
	srv := newTestServer(t, us, &fakeCapsuleService{})

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/auth/refresh", "", `{"refresh_token":"stale"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCapsuleRoutes_RequireAuth(t *testing.T) {
	srv := newTestServer(t, &fakeUserService{}, &fakeCapsuleService{})

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/capsules", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/capsules", "Bearer not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCapsuleRoutes_ExpiredToken(t *testing.T) {
	srv := newTestServer(t, &fakeUserService{}, &fakeCapsuleService{})

	token, err := auth.GenerateToken("u-1", testSecret, -time.Minute)
	require.NoError(t, err)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/capsules", "Bearer "+token, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "token expired")
}

func TestCreateCapsuleRoute(t *testing.T) {
	cs := &fakeCapsuleService{createID: "c-1"}
	srv := newTestServer(t, &fakeUserService{}, cs)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/capsules", bearerFor(t, "u-1"),
		`{"title_encrypted":"dGl0bGU=","title_iv":"bm9uY2U=","content_encrypted":"Ym9keQ==","content_iv":"bm9uY2Uy","unlock_date":"2030-01-01T00:00:00Z","capsule_type":"text"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out createdResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "c-1", out.ID)
	assert.Equal(t, "u-1", cs.gotUserID)
}

func TestListCapsulesRoute(t *testing.T) {
	cs := &fakeCapsuleService{list: []*models.Capsule{
		{ID: "c-2", UserID: "u-1", CapsuleType: "text"},
		{ID: "c-1", UserID: "u-1", CapsuleType: "image"},
	}}
	srv := newTestServer(t, &fakeUserService{}, cs)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/capsules", bearerFor(t, "u-1"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []capsuleResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 2)
	assert.Equal(t, "c-2", out[0].ID)
}

func TestGetCapsuleRoute_NotFound(t *testing.T) {
	cs := &fakeCapsuleService{getErr: common.ErrorNotFound}
	srv := newTestServer(t, &fakeUserService{}, cs)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/capsules/c-ghost", bearerFor(t, "u-1"), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUnlockCapsuleRoute(t *testing.T) {
	cs := &fakeCapsuleService{}
	srv := newTestServer(t, &fakeUserService{}, cs)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/capsules/c-1/unlock", bearerFor(t, "u-1"), "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestFileSlotRoute(t *testing.T) {
	cs := &fakeCapsuleService{slot: &services.FileSlot{
		FilePath:  "capsule-files/u-1/c-1/blob",
		UploadURL: "https://blobs.test/put",
	}}
	srv := newTestServer(t, &fakeUserService{}, cs)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/capsules/c-1/files/slots", bearerFor(t, "u-1"), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out fileSlotResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "capsule-files/u-1/c-1/blob", out.FilePath)
	assert.Equal(t, "https://blobs.test/put", out.UploadURL)
}

func TestListFilesRoute(t *testing.T) {
	cs := &fakeCapsuleService{views: []*services.FileView{
		{File: &models.File{ID: "f-1", CapsuleID: "c-1", FilePath: "k"}, DownloadURL: "https://blobs.test/get"},
	}}
	srv := newTestServer(t, &fakeUserService{}, cs)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/capsules/c-1/files", bearerFor(t, "u-1"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []fileResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 1)
	assert.Equal(t, "https://blobs.test/get", out[0].DownloadURL)
}
