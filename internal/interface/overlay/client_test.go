package overlay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestNextDelayDoublesAndCaps(t *testing.T) {
	delays := []time.Duration{}
	d := reconnectFloor
	for i := 0; i < 7; i++ {
		delays = append(delays, d)
		d = nextDelay(d)
	}

	want := []time.Duration{
		1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second,
		16 * time.Second, 30 * time.Second, 30 * time.Second,
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay[%d] = %s, want %s", i, delays[i], want[i])
		}
	}

	// tras un éxito el loop vuelve a reconnectFloor
	if reconnectFloor != 1*time.Second {
		t.Errorf("reconnectFloor = %s, want 1s", reconnectFloor)
	}
}

// sinkServer acepta conexiones WS y encola todo lo que recibe.
type sinkServer struct {
	srv    *httptest.Server
	frames chan string
}

func newSinkServer(t *testing.T) *sinkServer {
	t.Helper()
	s := &sinkServer{frames: make(chan string, 64)}
	upgrader := websocket.Upgrader{}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			s.frames <- string(data)
		}
	}))
	return s
}

func (s *sinkServer) url() string {
	return "ws" + strings.TrimPrefix(s.srv.URL, "http")
}

func (s *sinkServer) recv(t *testing.T) string {
	t.Helper()
	select {
	case f := <-s.frames:
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("no frame received")
		return ""
	}
}

func TestSendConnectsOnDemand(t *testing.T) {
	sink := newSinkServer(t)
	defer sink.srv.Close()

	client := NewClient(sink.url())
	defer client.Close()

	if err := client.Send("COUNT:1:alice:1:1"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got := sink.recv(t); got != "COUNT:1:alice:1:1" {
		t.Errorf("got %q", got)
	}
}

func TestSendFailsBoundedWhenHubIsDown(t *testing.T) {
	sink := newSinkServer(t)
	url := sink.url()
	sink.srv.Close()

	client := NewClient(url)
	defer client.Close()

	done := make(chan error, 1)
	go func() { done <- client.Send("anyone there?") }()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("Send to a dead hub must fail")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Send hung instead of giving up")
	}
}

func TestRunWaitsBeforeRedialAfterLostConnection(t *testing.T) {
	// un hub que acepta y cuelga al instante: sin pausa entre re-dials el
	// loop de Run machacaría al servidor con cientos de conexiones
	var dials int64
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&dials, 1)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.Close()
	}))
	defer srv.Close()

	client := NewClient("ws" + strings.TrimPrefix(srv.URL, "http"))
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 600*time.Millisecond)
	defer cancel()
	client.Run(ctx)

	// con el suelo de 1s solo cabe el dial inicial (dos si el cierre llega
	// justo en la frontera del timeout)
	if got := atomic.LoadInt64(&dials); got > 2 {
		t.Errorf("server saw %d dials in 600ms, want at most 2", got)
	}
}

func TestSendRecoversAfterServerRestart(t *testing.T) {
	sink := newSinkServer(t)
	client := NewClient(sink.url())
	defer client.Close()

	if err := client.Send("first"); err != nil {
		t.Fatalf("first Send: %v", err)
	}
	sink.recv(t)

	// el hub se cae: la conexión cacheada está muerta
	sink.srv.Close()

	// la muerte del socket puede tardar un par de escrituras en aflorar,
	// pero Send debe acabar fallando sin colgarse
	var err error
	for i := 0; i < 20 && err == nil; i++ {
		err = client.Send("second")
		time.Sleep(50 * time.Millisecond)
	}
	if err == nil {
		t.Fatal("Send after hub death must fail")
	}
	if client.Connected() {
		t.Error("client still reports an open handle after failure")
	}
}
