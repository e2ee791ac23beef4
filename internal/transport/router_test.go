package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/alanyang/insta-mosaic/internal/adapter/memory"
	"github.com/alanyang/insta-mosaic/internal/domain/event"
	"github.com/alanyang/insta-mosaic/internal/mocks"
	"github.com/alanyang/insta-mosaic/internal/service/feeder"
	"github.com/alanyang/insta-mosaic/internal/service/snapshot"
	workersvc "github.com/alanyang/insta-mosaic/internal/service/worker"
)

type idleRunner struct{}

func (idleRunner) Run(ctx context.Context, _ feeder.Job) error {
	<-ctx.Done()
	return ctx.Err()
}

func newTestRouter(t *testing.T, mcpHandler http.Handler) *gin.Engine {
	t.Helper()
	ctrl := gomock.NewController(t)
	bus := mocks.NewMockEventBus(ctrl)
	for _, ch := range event.Channels {
		bus.EXPECT().Subscribe(gomock.Any(), ch, gomock.Any()).Return(nil, nil)
	}

	mgr := workersvc.NewManager(idleRunner{}, mocks.NewMockPostRepository(ctrl), memory.NewBlockList(), bus, workersvc.Config{})
	t.Cleanup(mgr.Shutdown)
	snaps := snapshot.NewService(mgr, memory.NewSnapshotCache(0))

	return NewRouter(context.Background(), mgr, snaps, mcpHandler, bus)
}

func TestRouter_Routes(t *testing.T) {
	r := newTestRouter(t, nil)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/workers", http.StatusOK},
		{http.MethodGet, "/api/workers/not-a-uuid", http.StatusBadRequest},
		{http.MethodGet, "/api/block-users", http.StatusOK},
		{http.MethodGet, "/mcp", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRouter_MountsMCP(t *testing.T) {
	r := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/mcp", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	r := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/workers", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestIsNoisy(t *testing.T) {
	assert.True(t, isNoisy("/api/workers"))
	assert.True(t, isNoisy("/api/workers/6f1c"))
	assert.True(t, isNoisy("/api/ws"))
	assert.False(t, isNoisy("/api/block-users"))
}
