package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyang/insta-mosaic/internal/domain/event"
	porteventbus "github.com/alanyang/insta-mosaic/internal/port/eventbus"
)

const (
	relistenDelay    = time.Second
	maxRelistenDelay = 30 * time.Second
)

type EventBus struct {
	pool *pgxpool.Pool

	mu   sync.Mutex
	subs map[*subscription]struct{}
}

func New(pool *pgxpool.Pool) *EventBus {
	return &EventBus{
		pool: pool,
		subs: make(map[*subscription]struct{}),
	}
}

// Publish sends an event via Postgres NOTIFY on the channel for the event type.
func (eb *EventBus) Publish(ctx context.Context, e event.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	channel := channelName(event.ChannelFor(e.Type))
	_, err = eb.pool.Exec(ctx, "SELECT pg_notify($1, $2)", channel, string(payload))
	if err != nil {
		return fmt.Errorf("publishing event on channel %s: %w", channel, err)
	}
	return nil
}

// Subscribe starts a background goroutine that LISTENs on the Postgres channel
// and invokes handler for every event published to it. A lost connection is
// replaced and LISTEN re-issued with backoff; notifications sent while
// disconnected are lost.
func (eb *EventBus) Subscribe(ctx context.Context, ch event.Channel, handler porteventbus.Handler) (porteventbus.Subscription, error) {
	channel := channelName(ch)
	conn, err := listen(ctx, eb.pool, channel)
	if err != nil {
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{cancel: cancel, done: make(chan struct{})}

	eb.mu.Lock()
	eb.subs[sub] = struct{}{}
	eb.mu.Unlock()

	go func() {
		defer func() {
			if conn != nil {
				conn.Exec(context.Background(), "UNLISTEN "+channel)
				conn.Release()
			}

			eb.mu.Lock()
			delete(eb.subs, sub)
			eb.mu.Unlock()
			close(sub.done)
		}()

		for {
			notification, err := conn.Conn().WaitForNotification(subCtx)
			if err != nil {
				if subCtx.Err() != nil {
					return
				}
				slog.Warn("listen connection lost, reconnecting", "channel", channel, "error", err)
				conn.Conn().Close(context.Background())
				conn.Release()
				conn = nil

				conn, err = relisten(subCtx, eb.pool, channel)
				if err != nil {
					return
				}
				slog.Info("listen connection restored", "channel", channel)
				continue
			}

			var e event.Event
			if err := json.Unmarshal([]byte(notification.Payload), &e); err != nil {
				slog.Warn("dropping malformed event", "channel", channel, "error", err)
				continue
			}

			handler(subCtx, e)
		}
	}()

	return sub, nil
}

// Close ends every live subscription and waits for their goroutines.
func (eb *EventBus) Close() {
	eb.mu.Lock()
	subs := make([]*subscription, 0, len(eb.subs))
	for sub := range eb.subs {
		subs = append(subs, sub)
	}
	eb.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

func listen(ctx context.Context, pool *pgxpool.Pool, channel string) (*pgxpool.Conn, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring connection for LISTEN: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+channel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("executing LISTEN on channel %s: %w", channel, err)
	}
	return conn, nil
}

// relisten retries listen until it succeeds or ctx is done.
func relisten(ctx context.Context, pool *pgxpool.Pool, channel string) (*pgxpool.Conn, error) {
	return retry.DoWithData(
		func() (*pgxpool.Conn, error) {
			return listen(ctx, pool, channel)
		},
		retry.Context(ctx),
		retry.Attempts(0),
		retry.Delay(relistenDelay),
		retry.MaxDelay(maxRelistenDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("re-listen failed", "channel", channel, "attempt", n, "error", err)
		}),
	)
}

// channelName converts a domain Channel to a safe Postgres channel identifier.
func channelName(ch event.Channel) string {
	return "mosaic_" + string(ch)
}

type subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *subscription) Unsubscribe() {
	s.cancel()
	<-s.done
}
