package ws

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"feerBot/internal/obs"
)

const (
	// maxFrameBytes limita el tamaño de un frame entrante; un subscriber
	// que lo supere se desconecta sin afectar al resto.
	maxFrameBytes = 1 << 20

	// sendQueueDepth es la cola de salida por subscriber. Si se llena
	// (consumidor lento), el subscriber se desconecta.
	sendQueueDepth = 32

	writeWait = 10 * time.Second
)

// Hub expone un endpoint WebSocket y reenvía cada frame de texto recibido a
// todos los subscribers menos al que lo envió. Sin envelope: el payload es
// una cadena opaca que cada consumidor parsea por convención.
type Hub struct {
	addr     string
	upgrader websocket.Upgrader

	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
	httpSrv     *http.Server
}

type subscriber struct {
	conn *websocket.Conn
	out  chan []byte
	done chan struct{}
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

// NewHub crea un hub escuchando en addr (ej. ":6790").
func NewHub(addr string) *Hub {
	return &Hub{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		subscribers: make(map[*subscriber]struct{}),
	}
}

// Handler devuelve el mux HTTP del hub: /ws para subscribers y /metrics.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleWS)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Start levanta el HTTP server y se bloquea hasta que el contexto se cancela.
func (h *Hub) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    h.addr,
		Handler: h.Handler(),
	}

	h.mu.Lock()
	h.httpSrv = srv
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("ws: shutdown error: %v", err)
		}
	}()

	log.Printf("ws: overlay hub listening on %s", h.addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade error: %v", err)
		return
	}

	sub := &subscriber{
		conn: conn,
		out:  make(chan []byte, sendQueueDepth),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	count := len(h.subscribers)
	h.mu.Unlock()
	obs.OverlaySubscribers.Set(float64(count))

	log.Printf("ws: new subscriber from %s (%d active)", r.RemoteAddr, count)

	go h.writePump(sub)
	h.readPump(sub)
}

// readPump lee frames del subscriber hasta que cierra o falla, y los reparte.
// La baja del subscriber ocurre aquí (o en writePump), nunca a mitad del
// fan-out de otro.
func (h *Hub) readPump(sub *subscriber) {
	defer h.remove(sub, "closed")

	sub.conn.SetReadLimit(maxFrameBytes)
	for {
		msgType, data, err := sub.conn.ReadMessage()
		if err != nil {
			if errors.Is(err, websocket.ErrReadLimit) {
				h.remove(sub, "oversized")
				return
			}
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("ws: read error: %v", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		obs.OverlayFramesInTotal.Inc()
		h.broadcast(data, sub)
	}
}

func (h *Hub) writePump(sub *subscriber) {
	for {
		select {
		case <-sub.done:
			return
		case data := <-sub.out:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("ws: write error: %v", err)
				h.remove(sub, "write_error")
				return
			}
		}
	}
}

// broadcast reparte el frame a todos los subscribers vivos menos el emisor.
// Se itera sobre una copia estable del set: una desconexión a mitad del
// fan-out no afecta al resto.
func (h *Hub) broadcast(data []byte, sender *subscriber) {
	h.mu.RLock()
	targets := make([]*subscriber, 0, len(h.subscribers))
	for sub := range h.subscribers {
		if sub != sender {
			targets = append(targets, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range targets {
		select {
		case sub.out <- data:
		case <-sub.done:
			// ya se está dando de baja; su frame se pierde y no pasa nada
		default:
			// cola llena: el subscriber no da abasto
			log.Printf("ws: dropping slow subscriber")
			h.remove(sub, "slow")
		}
	}
	obs.OverlayBroadcastsTotal.Inc()
}

// remove da de baja al subscriber exactamente una vez; llamadas repetidas
// (read y write fallando a la vez) son inocuas.
func (h *Hub) remove(sub *subscriber, reason string) {
	h.mu.Lock()
	_, present := h.subscribers[sub]
	if present {
		delete(h.subscribers, sub)
	}
	count := len(h.subscribers)
	h.mu.Unlock()

	sub.close()

	if present {
		obs.OverlaySubscribers.Set(float64(count))
		obs.OverlayDroppedTotal.WithLabelValues(reason).Inc()
		log.Printf("ws: subscriber removed (%s, %d active)", reason, count)
	}
}
