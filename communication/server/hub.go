package server

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"wargame/communication"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 5 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 8) / 10

	// Maximum message size allowed from peer. A waypoint change carries the whole plan twice,
	// so this leaves room for plans of well over 100k waypoints.
	maxMessageSize = 8 << 20

	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin:      func(r *http.Request) bool { return true },
	HandshakeTimeout: time.Second,
}

type inbound struct {
	from *peer
	data []byte
}

// Hub relays every change received from one peer to all the others.
type Hub struct {
	register   chan *peer
	unregister chan *peer
	inbound    chan inbound
	peers      map[*peer]struct{}
	count      atomic.Int32
	nextID     int
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *peer),
		unregister: make(chan *peer),
		inbound:    make(chan inbound, sendBufferSize),
		peers:      make(map[*peer]struct{}),
		done:       make(chan struct{}),
	}
}

// Clients returns the number of connected peers.
func (h *Hub) Clients() int {
	return int(h.count.Load())
}

// Run owns the peer set until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for p := range h.peers {
				close(p.send)
				delete(h.peers, p)
			}
			h.count.Store(0)
			return
		case p := <-h.register:
			h.nextID++
			p.id = h.nextID
			h.peers[p] = struct{}{}
			h.count.Store(int32(len(h.peers)))
			log.Info().Int("peer", p.id).Msg("peer connected")
		case p := <-h.unregister:
			if _, ok := h.peers[p]; ok {
				delete(h.peers, p)
				close(p.send)
				h.count.Store(int32(len(h.peers)))
				log.Info().Int("peer", p.id).Msg("peer disconnected")
			}
		case in := <-h.inbound:
			h.broadcast(in)
		}
	}
}

func (h *Hub) broadcast(in inbound) {
	env, err := communication.Decode(in.data)
	if err != nil {
		log.Warn().Err(err).Int("peer", in.from.id).Msg("dropping malformed change")
		return
	}
	env.Origin = in.from.id
	data, err := communication.Encode(env)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode change")
		return
	}

	log.Debug().Int("peer", in.from.id).Str("change", env.Change.Log).Msg("relaying")
	for p := range h.peers {
		if p == in.from {
			continue
		}
		select {
		case p.send <- data:
		default:
			log.Warn().Int("peer", p.id).Msg("peer is not responsive")
			delete(h.peers, p)
			close(p.send)
			h.count.Store(int32(len(h.peers)))
		}
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("upgrade failed")
		return
	}
	p := &peer{hub: h, conn: conn, send: make(chan []byte, sendBufferSize)}
	select {
	case h.register <- p:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go p.writePump()
	go p.readPump()
}

// peer is a middleman between the websocket connection and the hub.
type peer struct {
	id   int
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func (p *peer) readPump() {
	defer func() {
		select {
		case p.hub.unregister <- p:
		case <-p.hub.done:
		}
		_ = p.conn.Close()
	}()
	p.conn.SetReadLimit(maxMessageSize)
	_ = p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Int("peer", p.id).Msg("close error")
			}
			return
		}
		select {
		case p.hub.inbound <- inbound{from: p, data: data}:
		case <-p.hub.done:
			return
		}
	}
}

func (p *peer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = p.conn.Close()
	}()

	for {
		select {
		case data, ok := <-p.send:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = p.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
