// Package agentlink carries protocol messages between agents over websockets.
// Every connection opens with a hello naming the sender; afterwards messages
// are routed to peers by that name
package agentlink

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"notary/internal/core/protocol"
	perr "notary/internal/platform/errors"
	"notary/internal/platform/logger"

	"github.com/gorilla/websocket"
)

const readLimit = 1 << 20

// peerConn serializes writes; gorilla connections allow one concurrent writer
type peerConn struct {
	conn *websocket.Conn
	wmu  sync.Mutex
}

func (pc *peerConn) write(ctx context.Context, m protocol.Message) error {
	pc.wmu.Lock()
	defer pc.wmu.Unlock()
	dl, _ := ctx.Deadline()
	_ = pc.conn.SetWriteDeadline(dl)
	return pc.conn.WriteJSON(m)
}

// Handler receives every non-hello message with the name of the peer it came from
type Handler func(peer string, m protocol.Message)

// Transport manages named websocket peers
type Transport struct {
	name string
	log  logger.Logger

	mu      sync.RWMutex
	conns   map[string]*peerConn
	handler Handler
	closed  bool
	token   string

	readers sync.WaitGroup
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// New creates a transport that introduces itself as name
func New(name string) *Transport {
	return &Transport{
		name:  name,
		log:   *logger.Named("agentlink"),
		conns: make(map[string]*peerConn),
	}
}

// Name returns the local agent name
func (t *Transport) Name() string { return t.name }

// OnMessage registers the handler for incoming messages
func (t *Transport) OnMessage(h Handler) {
	t.mu.Lock()
	t.handler = h
	t.mu.Unlock()
}

// ServeHTTP upgrades an inbound request; the peer is registered once its hello arrives
func (t *Transport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		t.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	conn.SetReadLimit(readLimit)
	pc := &peerConn{conn: conn}
	if !t.track() {
		_ = conn.Close()
		return
	}
	go t.readLoop(pc, "")
}

// SetToken sets the bearer token presented when dialing peers
func (t *Transport) SetToken(token string) {
	t.mu.Lock()
	t.token = token
	t.mu.Unlock()
}

func (t *Transport) dialHeader() http.Header {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.token == "" {
		return nil
	}
	return http.Header{"Authorization": []string{"Bearer " + t.token}}
}

// Connect dials url, registers the connection as peer and sends a hello
func (t *Transport) Connect(ctx context.Context, peer, url string) error {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, t.dialHeader())
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return perr.Wrapf(err, perr.ErrorCodeUnauthorized, "dial %s", url)
		}
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "dial %s", url)
	}
	conn.SetReadLimit(readLimit)
	pc := &peerConn{conn: conn}

	if err := pc.write(ctx, t.hello()); err != nil {
		_ = conn.Close()
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "hello to %s", peer)
	}
	if !t.track() {
		_ = conn.Close()
		return perr.Unavailablef("transport closed")
	}
	t.register(peer, pc)
	go t.readLoop(pc, peer)
	return nil
}

// Send writes m to the named peer, stamping sender and timestamp
func (t *Transport) Send(ctx context.Context, target string, m protocol.Message) error {
	t.mu.RLock()
	pc, ok := t.conns[target]
	t.mu.RUnlock()
	if !ok {
		return perr.Unavailablef("not connected to %s", target)
	}
	m.Sender = t.name
	m.Timestamp = time.Now().Unix()
	if err := pc.write(ctx, m); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "write to %s", target)
	}
	return nil
}

// Peers lists connected peer names in order
func (t *Transport) Peers() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.conns))
	for name := range t.conns {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Close drops every connection and waits for the read loops to exit
func (t *Transport) Close() {
	t.mu.Lock()
	t.closed = true
	conns := t.conns
	t.conns = make(map[string]*peerConn)
	t.mu.Unlock()

	for _, pc := range conns {
		_ = pc.conn.Close()
	}
	t.readers.Wait()
}

func (t *Transport) hello() protocol.Message {
	return protocol.Message{Kind: protocol.KindHello, Sender: t.name, Timestamp: time.Now().Unix()}
}

// track reserves a reader slot unless the transport is closed
func (t *Transport) track() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return false
	}
	t.readers.Add(1)
	return true
}

func (t *Transport) register(peer string, pc *peerConn) {
	t.mu.Lock()
	old := t.conns[peer]
	t.conns[peer] = pc
	closed := t.closed
	t.mu.Unlock()
	if old != nil && old != pc {
		_ = old.conn.Close()
	}
	if closed {
		_ = pc.conn.Close()
	}
	t.log.Info().Str("peer", peer).Msg("agent connected")
}

// readLoop dispatches messages until the connection fails; an empty peer
// means the name is learned from the first hello
func (t *Transport) readLoop(pc *peerConn, peer string) {
	defer t.readers.Done()
	defer func() {
		_ = pc.conn.Close()
		if peer == "" {
			return
		}
		t.mu.Lock()
		if existing, ok := t.conns[peer]; ok && existing == pc {
			delete(t.conns, peer)
		}
		t.mu.Unlock()
		t.log.Info().Str("peer", peer).Msg("agent disconnected")
	}()

	for {
		var m protocol.Message
		if err := pc.conn.ReadJSON(&m); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				t.log.Debug().Err(err).Str("peer", peer).Msg("websocket read failed")
			}
			return
		}

		if m.Kind == protocol.KindHello {
			if peer == "" && m.Sender != "" {
				peer = m.Sender
				t.register(peer, pc)
				// answer so the dialer learns our name too
				_ = pc.write(context.Background(), t.hello())
			}
			continue
		}
		if peer == "" {
			t.log.Warn().Str("kind", string(m.Kind)).Msg("message before hello dropped")
			continue
		}

		t.mu.RLock()
		h := t.handler
		t.mu.RUnlock()
		if h != nil {
			h(peer, m)
		}
	}
}
