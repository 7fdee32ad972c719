package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(data)
}

func expectNoFrame(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	if _, data, err := conn.ReadMessage(); err == nil {
		t.Fatalf("unexpected frame %q", data)
	}
}

func TestHubFanOutExcludesSender(t *testing.T) {
	hub := NewHub(":0")
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	a := dialHub(t, srv)
	defer a.Close()
	b := dialHub(t, srv)
	defer b.Close()
	c := dialHub(t, srv)
	defer c.Close()

	if err := a.WriteMessage(websocket.TextMessage, []byte("COUNT:7:feer:12:0")); err != nil {
		t.Fatal(err)
	}

	if got := readFrame(t, b); got != "COUNT:7:feer:12:0" {
		t.Errorf("b got %q", got)
	}
	if got := readFrame(t, c); got != "COUNT:7:feer:12:0" {
		t.Errorf("c got %q", got)
	}
	// el emisor no recibe su propio frame
	expectNoFrame(t, a)
}

func TestHubSurvivesMidBroadcastDisconnect(t *testing.T) {
	hub := NewHub(":0")
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	a := dialHub(t, srv)
	defer a.Close()
	b := dialHub(t, srv)
	c := dialHub(t, srv)
	defer c.Close()

	// b se va sin despedirse
	b.Close()

	// dar tiempo a que el hub procese la baja o no: ambas rutas deben valer
	for i := 0; i < 5; i++ {
		if err := a.WriteMessage(websocket.TextMessage, []byte("73")); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 5; i++ {
		if got := readFrame(t, c); got != "73" {
			t.Fatalf("c got %q, want 73", got)
		}
	}
}

func TestHubBinaryFramesIgnored(t *testing.T) {
	hub := NewHub(":0")
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	a := dialHub(t, srv)
	defer a.Close()
	b := dialHub(t, srv)
	defer b.Close()

	if err := a.WriteMessage(websocket.BinaryMessage, []byte{0x01, 0x02}); err != nil {
		t.Fatal(err)
	}
	expectNoFrame(t, b)

	// la conexión sigue viva para frames de texto
	if err := a.WriteMessage(websocket.TextMessage, []byte("ok")); err != nil {
		t.Fatal(err)
	}
	if got := readFrame(t, b); got != "ok" {
		t.Errorf("b got %q", got)
	}
}

func TestHubOversizedFrameDropsOnlyOffender(t *testing.T) {
	hub := NewHub(":0")
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	a := dialHub(t, srv)
	defer a.Close()
	b := dialHub(t, srv)
	defer b.Close()
	offender := dialHub(t, srv)
	defer offender.Close()

	huge := make([]byte, maxFrameBytes+1)
	for i := range huge {
		huge[i] = 'x'
	}
	if err := offender.WriteMessage(websocket.TextMessage, huge); err != nil {
		// el servidor puede cortar a mitad de escritura; también vale
		t.Logf("write cut short: %v", err)
	}

	// los demás siguen funcionando
	if err := a.WriteMessage(websocket.TextMessage, []byte("still here")); err != nil {
		t.Fatal(err)
	}
	if got := readFrame(t, b); got != "still here" {
		t.Errorf("b got %q", got)
	}
}
