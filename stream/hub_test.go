package stream

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/quadsphere/planet"
)

type envelope struct {
	Type     string       `json:"type"`
	Index    int          `json:"index"`
	Face     string       `json:"face"`
	Vertices [][3]float64 `json:"vertices"`
	Indices  []int32      `json:"indices"`
	Min      float64      `json:"min"`
	Max      float64      `json:"max"`
}

func newServer(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg envelope
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return msg
}

func rebuild(t *testing.T, sink planet.Sink) *planet.Result {
	t.Helper()
	g, err := planet.NewGenerator(planet.Settings{Resolution: 3, Radius: 1, Normals: planet.NormalsSphere}, planet.Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()
	res, err := g.Rebuild(context.Background(), sink)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestHubSnapshotOnConnect(t *testing.T) {
	hub, srv := newServer(t)
	res := rebuild(t, hub)

	conn := dial(t, srv)
	for i := 0; i < planet.NumFaces; i++ {
		msg := read(t, conn)
		if msg.Type != TypeFace || msg.Index != i {
			t.Fatalf("message %d: type %q index %d", i, msg.Type, msg.Index)
		}
		if len(msg.Vertices) != 9 || len(msg.Indices) != 24 {
			t.Errorf("face %s: %d vertices, %d indices", msg.Face, len(msg.Vertices), len(msg.Indices))
		}
	}

	msg := read(t, conn)
	if msg.Type != TypeElevation {
		t.Fatalf("expected elevation message, got %q", msg.Type)
	}
	if msg.Min != res.Elevation.Min || msg.Max != res.Elevation.Max {
		t.Errorf("elevation [%f,%f], want [%f,%f]", msg.Min, msg.Max, res.Elevation.Min, res.Elevation.Max)
	}
}

func TestHubBroadcastsUpserts(t *testing.T) {
	hub, srv := newServer(t)
	conn := dial(t, srv)

	deadline := time.Now().Add(5 * time.Second)
	for hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	rebuild(t, hub)

	for i := 0; i < planet.NumFaces; i++ {
		if msg := read(t, conn); msg.Type != TypeFace {
			t.Fatalf("message %d: type %q, want face", i, msg.Type)
		}
	}
	if msg := read(t, conn); msg.Type != TypeElevation {
		t.Fatalf("expected elevation message, got %q", msg.Type)
	}
}

func TestHubDropsClosedClients(t *testing.T) {
	hub, srv := newServer(t)
	conn := dial(t, srv)

	deadline := time.Now().Add(5 * time.Second)
	for hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	conn.Close()

	for hub.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("closed client never removed")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
