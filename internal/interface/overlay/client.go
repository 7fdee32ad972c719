package overlay

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	reconnectFloor   = 1 * time.Second
	reconnectCeiling = 30 * time.Second
	handshakeTimeout = 10 * time.Second
	writeTimeout     = 10 * time.Second
)

// Client mantiene una conexión persistente con el hub del overlay y la
// reestablece con backoff exponencial cuando se cae. Send es best-effort:
// un update de overlay perdido es aceptable, un handler de chat colgado no.
type Client struct {
	url    string
	dialer *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewClient(url string) *Client {
	return &Client{
		url: url,
		dialer: &websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
		},
	}
}

// Run mantiene la conexión viva hasta que el contexto se cancela: conecta,
// espera a que falle, y reintenta con delays 1s, 2s, 4s... hasta 30s. Un
// reconectado con éxito devuelve el delay al suelo.
func (c *Client) Run(ctx context.Context) error {
	delay := reconnectFloor
	for {
		if err := ctx.Err(); err != nil {
			c.Close()
			return err
		}

		conn := c.current()
		if conn == nil {
			if err := c.connect(); err != nil {
				log.Printf("overlay: connect failed: %v (retrying in %s)", err, delay)
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(delay):
				}
				delay = nextDelay(delay)
				continue
			}
			log.Printf("overlay: connected to %s", c.url)
			delay = reconnectFloor
			conn = c.current()
			if conn == nil {
				continue
			}
		}

		// Mantener la conexión abierta: leer (y descartar) frames entrantes
		// hasta que la lectura falle es nuestra espera keep-alive.
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Printf("overlay: connection lost: %v (reconnecting in %s)", err, delay)
			c.clear(conn)
			// Esperar también antes del primer re-dial: una conexión que se
			// cae nada más establecerse no debe convertirse en un bucle de
			// dials sin pausa.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
}

// Send transmite un frame de texto. Si no hay conexión intenta un único
// reconectado síncrono; si la escritura falla por transporte cerrado,
// reintenta exactamente una vez (reconectar y reenviar) y luego desiste.
// Nada de recursión: bajo una caída sostenida manda el loop de Run.
func (c *Client) Send(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		if err := c.connectLocked(); err != nil {
			return fmt.Errorf("overlay: not connected: %w", err)
		}
	}

	if err := c.writeLocked(text); err == nil {
		return nil
	}

	c.closeLocked()
	if err := c.connectLocked(); err != nil {
		return fmt.Errorf("overlay: reconnect: %w", err)
	}
	if err := c.writeLocked(text); err != nil {
		c.closeLocked()
		return fmt.Errorf("overlay: resend: %w", err)
	}
	return nil
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

// Connected informa de si hay una conexión abierta ahora mismo.
func (c *Client) Connected() bool {
	return c.current() != nil
}

func (c *Client) connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked()
}

func (c *Client) connectLocked() error {
	if c.conn != nil {
		return nil
	}
	conn, _, err := c.dialer.Dial(c.url, nil)
	if err != nil {
		return err
	}
	c.conn = conn
	return nil
}

func (c *Client) writeLocked(text string) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

func (c *Client) closeLocked() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *Client) current() *websocket.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

// clear cierra y olvida conn solo si sigue siendo la conexión actual; si
// Send ya la reemplazó, no se toca la nueva.
func (c *Client) clear(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == conn {
		c.conn.Close()
		c.conn = nil
	}
}

func nextDelay(d time.Duration) time.Duration {
	d *= 2
	if d > reconnectCeiling {
		d = reconnectCeiling
	}
	return d
}
