package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"univ3-pool-lab/internal/domain"
)

// WSConfig configures the live log subscription.
type WSConfig struct {
	// ReconnectDelay is the initial delay before a reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay caps the exponential reconnect backoff.
	MaxReconnectDelay time.Duration
	// PingInterval is the interval between ping frames.
	PingInterval time.Duration
	// ReadTimeout bounds a single read.
	ReadTimeout time.Duration
	// WriteTimeout bounds a single write.
	WriteTimeout time.Duration
}

// DefaultWSConfig returns the default subscription configuration.
func DefaultWSConfig() WSConfig {
	return WSConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// WSEventSource subscribes to pool and factory logs over a JSON-RPC
// WebSocket endpoint and decodes them into events. Block timestamps and
// transaction senders are resolved through the BlockInfoSource, since
// log notifications do not carry them.
type WSEventSource struct {
	chainID  uint64
	endpoint string
	config   WSConfig
	info     BlockInfoSource
	log      *logrus.Entry

	conn         *websocket.Conn
	connMu       sync.Mutex
	closed       atomic.Bool
	reqID        atomic.Uint64
	reconnecting atomic.Bool

	// blockTimes caches resolved block timestamps; logs of the same
	// block share one lookup.
	blockTimes   map[uint64]int64
	blockTimesMu sync.Mutex

	events chan *domain.Event
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewWSEventSource builds a live source for one chain.
func NewWSEventSource(chainID uint64, endpoint string, info BlockInfoSource, config *WSConfig, logger *logrus.Logger) *WSEventSource {
	cfg := DefaultWSConfig()
	if config != nil {
		cfg = *config
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &WSEventSource{
		chainID:    chainID,
		endpoint:   endpoint,
		config:     cfg,
		info:       info,
		log:        logger.WithFields(logrus.Fields{"component": "ws_source", "chain": chainID}),
		blockTimes: make(map[uint64]int64),
		events:     make(chan *domain.Event, 1024),
		done:       make(chan struct{}),
	}
}

// Subscribe connects, subscribes to logs filtered on our event topics
// and returns the decoded event channel. The channel is closed when the
// context is cancelled.
func (s *WSEventSource) Subscribe(ctx context.Context) (<-chan *domain.Event, error) {
	if err := s.connect(ctx); err != nil {
		return nil, err
	}
	if err := s.subscribeLogs(); err != nil {
		s.closeConn()
		return nil, err
	}

	s.wg.Add(1)
	go s.readLoop(ctx)
	s.wg.Add(1)
	go s.pingLoop()

	go func() {
		<-ctx.Done()
		s.Close()
	}()

	return s.events, nil
}

// Close tears down the connection and closes the event channel.
func (s *WSEventSource) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	close(s.done)

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.conn.Close()
	}
	s.connMu.Unlock()

	s.wg.Wait()
	close(s.events)
	return nil
}

func (s *WSEventSource) connect(ctx context.Context) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial %s: %w", s.endpoint, err)
	}
	s.conn = conn
	return nil
}

func (s *WSEventSource) closeConn() {
	s.connMu.Lock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.connMu.Unlock()
}

// subscribeLogs issues eth_subscribe("logs") filtered on our topic0 set.
// The pool addresses are unknown in advance, so the filter is by topic
// only.
func (s *WSEventSource) subscribeLogs() error {
	req := wsRequest{
		JSONRPC: "2.0",
		ID:      s.reqID.Add(1),
		Method:  "eth_subscribe",
		Params: []interface{}{
			"logs",
			map[string]interface{}{
				"topics": []interface{}{SubscriptionTopics()},
			},
		},
	}

	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.conn == nil {
		return fmt.Errorf("not connected")
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("write subscribe: %w", err)
	}
	return nil
}

// readLoop reads notifications and reconnects with exponential backoff
// on connection errors.
func (s *WSEventSource) readLoop(ctx context.Context) {
	defer s.wg.Done()

	reconnectDelay := s.config.ReconnectDelay

	for !s.closed.Load() {
		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()

		if conn == nil {
			select {
			case <-s.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		_, message, err := conn.ReadMessage()
		if err != nil {
			if s.closed.Load() {
				return
			}
			if !s.reconnecting.Swap(true) {
				go s.reconnect(ctx, reconnectDelay)
			}
			reconnectDelay *= 2
			if reconnectDelay > s.config.MaxReconnectDelay {
				reconnectDelay = s.config.MaxReconnectDelay
			}
			select {
			case <-s.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		reconnectDelay = s.config.ReconnectDelay
		s.handleMessage(ctx, message)
	}
}

func (s *WSEventSource) reconnect(ctx context.Context, delay time.Duration) {
	defer s.reconnecting.Store(false)

	if s.closed.Load() {
		return
	}
	select {
	case <-s.done:
		return
	case <-time.After(delay):
	}

	s.closeConn()

	dialCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := s.connect(dialCtx); err != nil {
		s.log.WithError(err).Warn("reconnect failed")
		return
	}
	if err := s.subscribeLogs(); err != nil {
		s.log.WithError(err).Warn("resubscribe failed")
		s.closeConn()
		return
	}
	s.log.Info("reconnected and resubscribed")
}

func (s *WSEventSource) pingLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.connMu.Lock()
			if s.conn != nil {
				s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
				// Errors surface on the next read; the reader reconnects.
				s.conn.WriteMessage(websocket.PingMessage, nil)
			}
			s.connMu.Unlock()
		}
	}
}

// handleMessage decodes one inbound frame. Subscription confirmations
// and error responses are logged; log notifications become events.
func (s *WSEventSource) handleMessage(ctx context.Context, message []byte) {
	var notif wsNotification
	if err := json.Unmarshal(message, &notif); err == nil && notif.Method == "eth_subscription" && notif.Params != nil {
		s.handleLogNotification(ctx, &notif.Params.Result)
		return
	}

	var errResp struct {
		ID    uint64 `json:"id"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(message, &errResp); err == nil && errResp.Error != nil {
		s.log.WithFields(logrus.Fields{
			"code":    errResp.Error.Code,
			"message": errResp.Error.Message,
		}).Warn("rpc error response")
	}
}

func (s *WSEventSource) handleLogNotification(ctx context.Context, raw *RawLog) {
	// Reorged logs are withdrawn upstream; dropping them here keeps the
	// ledger append-only.
	if raw.Removed {
		return
	}

	ev, err := DecodeLog(s.chainID, raw)
	if err != nil {
		if err != ErrUnknownTopic {
			s.log.WithError(err).WithField("tx", raw.TransactionHash).Warn("undecodable log")
		}
		return
	}

	if err := s.enrich(ctx, ev); err != nil {
		s.log.WithError(err).WithField("block", ev.Meta.BlockNumber).Warn("log enrichment failed")
		return
	}

	select {
	case s.events <- ev:
	case <-s.done:
	}
}

// enrich fills the timestamp and transaction sender the log lacks.
func (s *WSEventSource) enrich(ctx context.Context, ev *domain.Event) error {
	ts, err := s.blockTimestamp(ctx, ev.Meta.BlockNumber)
	if err != nil {
		return err
	}
	ev.Meta.Timestamp = ts

	from, err := s.info.TransactionSender(ctx, ev.Meta.TxHash)
	if err != nil {
		return err
	}
	ev.Meta.TxFrom = from
	return nil
}

func (s *WSEventSource) blockTimestamp(ctx context.Context, blockNumber uint64) (int64, error) {
	s.blockTimesMu.Lock()
	ts, ok := s.blockTimes[blockNumber]
	s.blockTimesMu.Unlock()
	if ok {
		return ts, nil
	}

	ts, err := s.info.BlockTimestamp(ctx, blockNumber)
	if err != nil {
		return 0, err
	}

	s.blockTimesMu.Lock()
	s.blockTimes[blockNumber] = ts
	// Old blocks never come back; cap the cache.
	if len(s.blockTimes) > 4096 {
		for n := range s.blockTimes {
			if n+1024 < blockNumber {
				delete(s.blockTimes, n)
			}
		}
	}
	s.blockTimesMu.Unlock()
	return ts, nil
}

type wsRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

type wsNotification struct {
	JSONRPC string                `json:"jsonrpc"`
	Method  string                `json:"method"`
	Params  *wsNotificationParams `json:"params"`
}

type wsNotificationParams struct {
	Subscription string `json:"subscription"`
	Result       RawLog `json:"result"`
}
