package detection

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"safyra/internal/domain/incident"
	"safyra/internal/shared/logger"
)

const (
	// Event names pushed by the detection backend.
	EventWeaponDetection = "weapon_detection"
	EventWeaponAlert     = "weapon_alert"
	EventStatus          = "status"

	streamPath        = "/ws"
	maxMessageSize    = 512 << 10
	pongWait          = 60 * time.Second
	pingPeriod        = 30 * time.Second
	initialReconnect  = time.Second
	maxReconnectDelay = 30 * time.Second
	writeControlWait  = 10 * time.Second
)

// DetectionEvent is the continuous per-frame detection feed.
type DetectionEvent struct {
	Detected   bool                 `json:"detected"`
	Duration   float64              `json:"duration"`
	Detections []incident.Detection `json:"detections,omitempty"`
	Count      int                  `json:"count,omitempty"`
	Timestamp  string               `json:"timestamp"`
}

// StreamHandlers receives backend push events. Nil handlers are skipped.
type StreamHandlers struct {
	OnDetection func(DetectionEvent)
	OnAlert     func(incident.WeaponAlert)
	OnStatus    func(CameraStatus)
}

// eventEnvelope is the wire framing for backend push events.
type eventEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// StreamSubscriber maintains a websocket subscription to the detection
// backend's live event feed, reconnecting with backoff on failure.
type StreamSubscriber struct {
	url      string
	handlers StreamHandlers
	logger   logger.Interface
}

// NewStreamSubscriber builds a subscriber for the given backend base URL.
func NewStreamSubscriber(baseURL string, handlers StreamHandlers, log logger.Interface) *StreamSubscriber {
	return &StreamSubscriber{
		url:      wsURL(baseURL),
		handlers: handlers,
		logger:   log,
	}
}

// wsURL converts the backend HTTP base URL to its websocket endpoint.
func wsURL(baseURL string) string {
	u := strings.TrimRight(baseURL, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + streamPath
}

// Run connects and consumes events until ctx is canceled. Connection
// drops trigger reconnection with exponential backoff.
func (s *StreamSubscriber) Run(ctx context.Context) {
	delay := initialReconnect

	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
		if err != nil {
			s.logger.Warnw("detection stream connect failed, retrying",
				"url", s.url,
				"error", err,
				"retry_in", delay,
			)
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			delay *= 2
			if delay > maxReconnectDelay {
				delay = maxReconnectDelay
			}
			continue
		}

		s.logger.Infow("detection stream connected", "url", s.url)
		delay = initialReconnect

		s.consume(ctx, conn)
		conn.Close()
	}
}

// consume reads events until the connection drops or ctx is canceled.
func (s *StreamSubscriber) consume(ctx context.Context, conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeControlWait)); err != nil {
					return
				}
			case <-ctx.Done():
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(writeControlWait))
				conn.Close()
				return
			case <-done:
				return
			}
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				s.logger.Warnw("detection stream read failed", "error", err)
			}
			return
		}

		s.dispatch(message)
	}
}

func (s *StreamSubscriber) dispatch(message []byte) {
	var env eventEnvelope
	if err := json.Unmarshal(message, &env); err != nil {
		s.logger.Warnw("malformed detection stream event", "error", err)
		return
	}

	switch env.Event {
	case EventWeaponDetection:
		if s.handlers.OnDetection == nil {
			return
		}
		var ev DetectionEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			s.logger.Warnw("malformed weapon_detection payload", "error", err)
			return
		}
		s.handlers.OnDetection(ev)

	case EventWeaponAlert:
		if s.handlers.OnAlert == nil {
			return
		}
		var wa wireAlert
		if err := json.Unmarshal(env.Data, &wa); err != nil {
			s.logger.Warnw("malformed weapon_alert payload", "error", err)
			return
		}
		s.handlers.OnAlert(wa.toDomain())

	case EventStatus:
		if s.handlers.OnStatus == nil {
			return
		}
		var st CameraStatus
		if err := json.Unmarshal(env.Data, &st); err != nil {
			s.logger.Warnw("malformed status payload", "error", err)
			return
		}
		s.handlers.OnStatus(st)

	default:
		s.logger.Debugw("ignoring unknown detection stream event", "event", env.Event)
	}
}
