package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njpv/shop-admin/internal/models"
	"github.com/njpv/shop-admin/internal/notify"
	"github.com/njpv/shop-admin/internal/service"
	"github.com/njpv/shop-admin/pkg/logger"
)

type emptyAPI struct{}

func (emptyAPI) GetProducts(ctx context.Context) ([]models.Product, error) { return nil, nil }
func (emptyAPI) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	return &p, nil
}
func (emptyAPI) UpdateProduct(ctx context.Context, id int64, p models.Product) error { return nil }
func (emptyAPI) DeleteProduct(ctx context.Context, id int64) error                   { return nil }

func testFactory(n notify.Notifier) *service.CatalogScreen {
	return service.NewCatalogScreen(emptyAPI{}, n, logger.New("error"))
}

const testSecret = "0123456789abcdef0123456789abcdef"

func TestStore_CreateGetDelete(t *testing.T) {
	store := NewStore(time.Minute, testFactory)

	sess := store.Create("ana@example.com")
	require.NotEmpty(t, sess.ID)
	require.NotNil(t, sess.Catalog)
	require.NotNil(t, sess.Toasts)

	got, ok := store.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)

	store.Delete(sess.ID)
	_, ok = store.Get(sess.ID)
	assert.False(t, ok)
}

func TestStore_IdleExpiry(t *testing.T) {
	store := NewStore(10*time.Minute, testFactory)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	active := store.Create("activa@example.com")
	idle := store.Create("inactiva@example.com")

	now = now.Add(8 * time.Minute)
	_, ok := store.Get(active.ID)
	require.True(t, ok)

	now = now.Add(5 * time.Minute)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())

	_, ok = store.Get(idle.ID)
	assert.False(t, ok)
	_, ok = store.Get(active.ID)
	assert.True(t, ok)
}

func TestStore_RunJanitorStopsOnCancel(t *testing.T) {
	store := NewStore(time.Nanosecond, testFactory)
	store.Create("ana@example.com")

	ctx, cancel := context.WithCancel(context.Background())
	removed := make(chan int, 1)
	done := make(chan error, 1)
	go func() {
		done <- store.RunJanitor(ctx, time.Millisecond, func(n int) {
			select {
			case removed <- n:
			default:
			}
		})
	}()

	select {
	case n := <-removed:
		assert.Equal(t, 1, n)
	case <-time.After(2 * time.Second):
		t.Fatal("janitor never swept")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestManager_StartAndLoad(t *testing.T) {
	m := NewManager(NewStore(time.Minute, testFactory), "sid", testSecret, false)

	w := httptest.NewRecorder()
	sess, err := m.Start(w, "ana@example.com")
	require.NoError(t, err)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Zero(t, cookies[0].MaxAge, "browser-session cookie")

	req := httptest.NewRequest(http.MethodGet, "/productos", nil)
	req.AddCookie(cookies[0])

	got, err := m.Load(req)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, "ana@example.com", got.Email)
}

func TestManager_LoadRejects(t *testing.T) {
	m := NewManager(NewStore(time.Minute, testFactory), "sid", testSecret, false)
	other := NewManager(NewStore(time.Minute, testFactory), "sid", "another-secret-another-secret!!", false)

	w := httptest.NewRecorder()
	_, err := other.Start(w, "ana@example.com")
	require.NoError(t, err)
	foreign := w.Result().Cookies()[0]

	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{"no cookie", nil},
		{"garbage", &http.Cookie{Name: "sid", Value: "not-a-jwt"}},
		{"signed with another secret", foreign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			_, err := m.Load(req)
			assert.True(t, errors.Is(err, ErrNoSession), "got %v", err)
		})
	}
}

func TestManager_LoadUnknownSession(t *testing.T) {
	m := NewManager(NewStore(time.Minute, testFactory), "sid", testSecret, false)

	w := httptest.NewRecorder()
	sess, err := m.Start(w, "ana@example.com")
	require.NoError(t, err)
	m.Store().Delete(sess.ID)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(w.Result().Cookies()[0])

	_, err = m.Load(req)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManager_End(t *testing.T) {
	m := NewManager(NewStore(time.Minute, testFactory), "sid", testSecret, false)

	w := httptest.NewRecorder()
	sess, err := m.Start(w, "ana@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(w.Result().Cookies()[0])

	w2 := httptest.NewRecorder()
	m.End(w2, req)

	_, ok := m.Store().Get(sess.ID)
	assert.False(t, ok)

	cleared := w2.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	sess := &Session{ID: "x"}
	got, ok := FromContext(WithSession(context.Background(), sess))
	require.True(t, ok)
	assert.Same(t, sess, got)
}
