package blockuser_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alanyang/insta-mosaic/internal/mocks"
	"github.com/alanyang/insta-mosaic/internal/service/feeder"
	workersvc "github.com/alanyang/insta-mosaic/internal/service/worker"
	transportblockuser "github.com/alanyang/insta-mosaic/internal/transport/blockuser"
)

func init() { gin.SetMode(gin.TestMode) }

type noRunner struct{}

func (noRunner) Run(ctx context.Context, _ feeder.Job) error {
	<-ctx.Done()
	return ctx.Err()
}

func newRouter(t *testing.T) (*gin.Engine, *mocks.MockBlockList) {
	t.Helper()
	ctrl := gomock.NewController(t)
	blocked := mocks.NewMockBlockList(ctrl)
	mgr := workersvc.NewManager(noRunner{}, mocks.NewMockPostRepository(ctrl), blocked, mocks.NewMockEventBus(ctrl), workersvc.Config{})
	t.Cleanup(mgr.Shutdown)

	r := gin.New()
	transportblockuser.Register(r.Group("/block-users"), mgr)
	return r, blocked
}

func post(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/block-users", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBlockUser(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(b *mocks.MockBlockList)
		wantStatus int
	}{
		{
			name: "blocks trimmed handle",
			body: `{"user_name": "@spammer"}`,
			setup: func(b *mocks.MockBlockList) {
				b.EXPECT().Add(gomock.Any(), "spammer").Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "missing user_name",
			body:       `{}`,
			setup:      func(*mocks.MockBlockList) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "blank user_name",
			body:       `{"user_name": " @ "}`,
			setup:      func(*mocks.MockBlockList) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "store failure",
			body: `{"user_name": "spammer"}`,
			setup: func(b *mocks.MockBlockList) {
				b.EXPECT().Add(gomock.Any(), "spammer").Return(errors.New("redis down"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, blocked := newRouter(t)
			tt.setup(blocked)
			w := post(r, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestListBlockedUsers(t *testing.T) {
	r, blocked := newRouter(t)
	blocked.EXPECT().List(gomock.Any()).Return([]string{"bot", "spammer"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/block-users", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		UserNames []string `json:"user_names"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"bot", "spammer"}, resp.UserNames)
}
