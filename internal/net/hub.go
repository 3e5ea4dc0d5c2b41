package net

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"MyLocalNotes/internal/state"
)

const (
	// Path is where the hub accepts websocket upgrades.
	Path = "/ws"

	writeWait  = 10 * time.Second
	sendBuffer = 64
)

type peer struct {
	conn *websocket.Conn
	addr string
	send chan []byte
}

// Hub keeps its own copy of every page so that peers are served without
// touching the editor. The UI thread feeds it through Publish.
type Hub struct {
	site     string
	upgrader websocket.Upgrader

	mu      sync.Mutex
	name    string
	source  []byte
	sizes   []PageSize
	records []state.PageRecord
	peers   map[*peer]struct{}
}

// NewHub returns a hub sharing a notebook with the given page sizes and
// histories.
func NewHub(name string, source []byte, sizes []PageSize, records []state.PageRecord) *Hub {
	return &Hub{
		site:     uuid.NewString(),
		name:     name,
		source:   source,
		sizes:    sizes,
		records:  records,
		peers:    make(map[*peer]struct{}),
		// A nil CheckOrigin admits native viewers, which send no Origin,
		// and refuses browser pages from other sites.
		upgrader: websocket.Upgrader{},
	}
}

// Site identifies this host session.
func (h *Hub) Site() string { return h.site }

// Peers reports the number of connected viewers.
func (h *Hub) Peers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

// Publish records page's new history and sends it to every viewer.
func (h *Hub) Publish(page int, rev uint64, rec state.PageRecord) {
	data, err := encode(Message{Type: TypePage, Site: h.site, Page: page, Rev: rev, Record: &rec})
	if err != nil {
		slog.Error("encode page", "component", "hub", "page", page, "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if page < 0 || page >= len(h.records) {
		slog.Warn("publish for unknown page", "component", "hub", "page", page)
		return
	}
	h.records[page] = rec
	for p := range h.peers {
		h.enqueue(p, data)
	}
}

// Handler serves the websocket endpoint at Path.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(Path, h)
	return mux
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("upgrade failed", "component", "hub", "remote", r.RemoteAddr, "err", err)
		return
	}
	p := &peer{conn: conn, addr: r.RemoteAddr, send: make(chan []byte, sendBuffer)}
	if err := h.add(p); err != nil {
		slog.Error("greet viewer", "component", "hub", "remote", p.addr, "err", err)
		conn.Close()
		return
	}
	go h.writeLoop(p)
	h.readLoop(p)
}

// ListenAndServe runs the hub on port until ctx is done.
func (h *Hub) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
		h.closeAll()
	}()
	slog.Info("share hub listening", "component", "hub", "port", port, "site", h.site)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("share hub: %w", err)
	}
	return nil
}

// add registers p and queues its hello under the same lock as Publish so the
// viewer never sees a page update older than its snapshot.
func (h *Hub) add(p *peer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	data, err := encode(Message{
		Type:    TypeHello,
		Site:    h.site,
		Name:    h.name,
		Sizes:   h.sizes,
		Records: h.records,
		Source:  h.source,
	})
	if err != nil {
		return err
	}
	h.peers[p] = struct{}{}
	p.send <- data
	slog.Info("viewer connected", "component", "hub", "remote", p.addr, "peers", len(h.peers))
	return nil
}

// enqueue drops a viewer that cannot keep up. Caller holds h.mu.
func (h *Hub) enqueue(p *peer, data []byte) {
	select {
	case p.send <- data:
	default:
		slog.Warn("viewer too slow, dropping", "component", "hub", "remote", p.addr)
		h.removeLocked(p)
	}
}

func (h *Hub) remove(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(p)
}

func (h *Hub) removeLocked(p *peer) {
	if _, ok := h.peers[p]; !ok {
		return
	}
	delete(h.peers, p)
	close(p.send)
	slog.Info("viewer disconnected", "component", "hub", "remote", p.addr, "peers", len(h.peers))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for p := range h.peers {
		h.removeLocked(p)
	}
}

func (h *Hub) writeLoop(p *peer) {
	defer p.conn.Close()
	for data := range p.send {
		p.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			slog.Debug("write failed", "component", "hub", "remote", p.addr, "err", err)
			h.remove(p)
			break
		}
	}
	p.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

// readLoop only watches for the viewer going away; viewers never send.
func (h *Hub) readLoop(p *peer) {
	defer h.remove(p)
	for {
		if _, _, err := p.conn.ReadMessage(); err != nil {
			return
		}
	}
}
