package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alanyang/insta-mosaic/internal/domain/event"
	porteventbus "github.com/alanyang/insta-mosaic/internal/port/eventbus"
	"github.com/alanyang/insta-mosaic/internal/service/snapshot"
	workersvc "github.com/alanyang/insta-mosaic/internal/service/worker"

	blockuserhandler "github.com/alanyang/insta-mosaic/internal/transport/blockuser"
	workerhandler "github.com/alanyang/insta-mosaic/internal/transport/worker"
	wshandler "github.com/alanyang/insta-mosaic/internal/transport/ws"
)

func NewRouter(
	ctx context.Context,
	mgr *workersvc.Manager,
	snaps *snapshot.Service,
	mcpHandler http.Handler,
	eventBus porteventbus.EventBus,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(CORSMiddleware())

	api := r.Group("/api")

	workerhandler.Register(api.Group("/workers"), mgr, snaps)
	blockuserhandler.Register(api.Group("/block-users"), mgr)

	hub := wshandler.NewHub()
	hub.Register(api.Group("/ws"))

	if mcpHandler != nil {
		r.Any("/mcp", gin.WrapH(mcpHandler))
	}

	// One subscription per channel. piece_placed is the hot path; clients
	// narrow it with ?worker_id.
	for _, ch := range event.Channels {
		c := ch
		if _, err := eventBus.Subscribe(ctx, c, func(_ context.Context, e event.Event) {
			hub.Broadcast(e)
		}); err != nil {
			slog.Error("failed to subscribe channel to WS hub", "channel", c, "error", err)
		}
	}

	return r
}
