package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ari4325/real-time-notification-system/internal/domain/notification"
	"github.com/ari4325/real-time-notification-system/internal/obs/retry"
	"github.com/ari4325/real-time-notification-system/internal/realtime"
	"github.com/ari4325/real-time-notification-system/internal/services/notifier"
)

const testSecret = "test-secret"

type memRepo struct {
	mu    sync.Mutex
	seq   int
	items map[string]*notification.Notification
	order []string
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[string]*notification.Notification)}
}

func (r *memRepo) Create(_ context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	n.ID = fmt.Sprintf("n-%d", r.seq)
	n.Read = false
	r.items[n.ID] = n.Clone()
	r.order = append(r.order, n.ID)
	return nil
}

func (r *memRepo) ListByOwner(_ context.Context, ownerID string) ([]*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*notification.Notification, 0)
	for _, id := range r.order {
		if n := r.items[id]; n.OwnerID == ownerID {
			out = append(out, n.Clone())
		}
	}
	return out, nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.items[id]; ok {
		return n.Clone(), nil
	}
	return nil, notification.ErrNotFound
}

func (r *memRepo) MarkRead(_ context.Context, id string) (*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return nil, notification.ErrNotFound
	}
	n.Read = true
	return n.Clone(), nil
}

type noopEvents struct{}

func (noopEvents) PublishCreated(context.Context, *notification.Notification) error { return nil }

type testAPI struct {
	router http.Handler
	uc     *notifier.Usecase
	hub    *realtime.Hub
	token  string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	log := zaptest.NewLogger(t)
	uc := notifier.NewUsecase(log, newMemRepo(), noopEvents{}, retry.Policy{Attempts: 1})
	hub := realtime.NewHub(log)
	t.Cleanup(hub.Shutdown)

	token, err := GenerateToken(testSecret, "u1", time.Hour)
	require.NoError(t, err)

	return &testAPI{
		router: NewRouter(log, uc, hub, RouterConfig{JWTSecret: testSecret, SendBuffer: 4}),
		uc:     uc,
		hub:    hub,
		token:  token,
	}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeNotification(t *testing.T, rec *httptest.ResponseRecorder) notification.Notification {
	t.Helper()
	var n notification.Notification
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&n))
	return n
}

func TestCreateNotification(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/notifications", map[string]string{"message": "hello"}, api.token)
	require.Equal(t, http.StatusCreated, rec.Code)

	n := decodeNotification(t, rec)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "u1", n.OwnerID) // ownership comes from the token, not the body
	assert.Equal(t, "hello", n.Message)
	assert.False(t, n.Read)
}

func TestCreateEmptyMessageRejected(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/notifications", map[string]string{"message": ""}, api.token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// nothing persisted
	rec = api.do(t, http.MethodGet, "/api/notifications", nil, api.token)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []notification.Notification
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Empty(t, list)
}

func TestListOwnNotificationsOnly(t *testing.T) {
	api := newTestAPI(t)

	otherToken, err := GenerateToken(testSecret, "u2", time.Hour)
	require.NoError(t, err)

	api.do(t, http.MethodPost, "/api/notifications", map[string]string{"message": "mine"}, api.token)
	api.do(t, http.MethodPost, "/api/notifications", map[string]string{"message": "theirs"}, otherToken)

	rec := api.do(t, http.MethodGet, "/api/notifications", nil, api.token)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []notification.Notification
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "mine", list[0].Message)
}

func TestGetUnknownIDIs404(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/notifications/missing", nil, api.token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMarkReadTwice(t *testing.T) {
	api := newTestAPI(t)

	created := decodeNotification(t, api.do(t, http.MethodPost, "/api/notifications", map[string]string{"message": "hi"}, api.token))

	rec := api.do(t, http.MethodPut, "/api/notifications/"+created.ID, nil, api.token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeNotification(t, rec).Read)

	rec = api.do(t, http.MethodPut, "/api/notifications/"+created.ID, nil, api.token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeNotification(t, rec).Read)
}

func TestRequestsWithoutTokenRejected(t *testing.T) {
	api := newTestAPI(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/notifications"},
		{http.MethodGet, "/api/notifications"},
		{http.MethodGet, "/api/notifications/n-1"},
		{http.MethodPut, "/api/notifications/n-1"},
	} {
		rec := api.do(t, tc.method, tc.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestInvalidJSONBodyRejected(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/notifications", bytes.NewBufferString("{nope"))
	req.Header.Set("Authorization", "Bearer "+api.token)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
