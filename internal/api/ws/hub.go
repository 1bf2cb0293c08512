package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/attendance/internal/domain"
	"github.com/gosuda/attendance/internal/server/middleware"
	redisstore "github.com/gosuda/attendance/internal/store/redis"
)

// Broker is the pub/sub transport. *redisstore.PubSub satisfies it.
type Broker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error)
}

// Snapshotter yields the current position per principal.
type Snapshotter interface {
	CurrentPositions() []domain.PositionSample
}

// SnapshotFunc adapts a function to Snapshotter. It lets the hub be built
// before the service that both publishes to it and answers its snapshots.
type SnapshotFunc func() []domain.PositionSample

func (f SnapshotFunc) CurrentPositions() []domain.PositionSample { return f() }

// Hub manages WebSocket connections backed by Redis pub/sub.
type Hub struct {
	broker    Broker
	positions Snapshotter
}

// NewHub creates a new WebSocket hub.
func NewHub(broker Broker, positions Snapshotter) *Hub {
	return &Hub{broker: broker, positions: positions}
}

// PublishPosition sends s to the broadcast channel and to the principal's
// own channel.
func (h *Hub) PublishPosition(ctx context.Context, s domain.PositionSample) error {
	payload, err := json.Marshal(PositionEvent{Type: EventPosition, Sample: &s})
	if err != nil {
		return fmt.Errorf("ws.Hub.PublishPosition: marshal: %w", err)
	}

	if err := h.broker.Publish(ctx, redisstore.PositionChannel(), payload); err != nil {
		return fmt.Errorf("ws.Hub.PublishPosition: %w", err)
	}
	if err := h.broker.Publish(ctx, redisstore.PrincipalPositionChannel(s.PrincipalID), payload); err != nil {
		return fmt.Errorf("ws.Hub.PublishPosition: %w", err)
	}
	return nil
}

// ServePositions streams position events. Administrators receive every
// principal; everyone else only their own samples.
func (h *Hub) ServePositions(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.PrincipalIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing principal", http.StatusUnauthorized)
		return
	}
	role, _ := middleware.RoleFromContext(r.Context())
	isAdmin := role == middleware.RoleAdmin

	channel := redisstore.PrincipalPositionChannel(principalID)
	if isAdmin {
		channel = redisstore.PositionChannel()
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	messages, cleanup, err := h.broker.Subscribe(ctx, channel)
	if err != nil {
		log.Error().Err(err).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	snapshot, err := json.Marshal(PositionEvent{Type: EventSnapshot, Positions: h.snapshot(principalID, isAdmin)})
	if err != nil {
		_ = conn.Close(websocket.StatusInternalError, "snapshot failed")
		return
	}
	if writeErr := conn.Write(ctx, websocket.MessageText, snapshot); writeErr != nil {
		log.Debug().Err(writeErr).Msg("websocket write")
		return
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}

func (h *Hub) snapshot(principalID string, all bool) []domain.PositionSample {
	current := h.positions.CurrentPositions()
	if all {
		return current
	}
	out := make([]domain.PositionSample, 0, 1)
	for _, s := range current {
		if s.PrincipalID == principalID {
			out = append(out, s)
		}
	}
	return out
}
