// Package stream publishes generated planets to websocket clients.
package stream

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/quadsphere/planet"
)

// Message types sent to clients.
const (
	TypeFace      = "face"
	TypeElevation = "elevation"
)

// FaceMessage carries one face mesh.
type FaceMessage struct {
	Type     string       `json:"type"`
	Index    int          `json:"index"`
	Face     string       `json:"face"`
	Vertices [][3]float64 `json:"vertices"`
	Normals  [][3]float64 `json:"normals"`
	Indices  []int32      `json:"indices"`
}

// ElevationMessage carries the global elevation range. It follows the six
// faces of every rebuild.
type ElevationMessage struct {
	Type string  `json:"type"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub is a planet.Sink that keeps the latest planet and pushes every upsert
// to connected clients. New clients receive the current planet on connect.
type Hub struct {
	writeTimeout time.Duration
	logger       *slog.Logger

	mu        sync.RWMutex
	faces     [planet.NumFaces]*FaceMessage
	elevation *ElevationMessage

	clientsMu sync.RWMutex
	clients   map[*websocket.Conn]*sync.Mutex
}

// NewHub creates a hub. A zero writeTimeout disables write deadlines.
func NewHub(writeTimeout time.Duration, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		writeTimeout: writeTimeout,
		logger:       logger,
		clients:      make(map[*websocket.Conn]*sync.Mutex),
	}
}

// UpsertFace replaces the face snapshot and broadcasts it.
func (h *Hub) UpsertFace(face planet.Face, mesh *planet.MeshData) error {
	msg := newFaceMessage(face, mesh)
	h.mu.Lock()
	h.faces[face.Index] = msg
	h.mu.Unlock()
	h.broadcast(msg)
	return nil
}

// SetElevation replaces the elevation snapshot and broadcasts it.
func (h *Hub) SetElevation(r planet.ElevationRange) error {
	msg := &ElevationMessage{Type: TypeElevation, Min: r.Min, Max: r.Max}
	h.mu.Lock()
	h.elevation = msg
	h.mu.Unlock()
	h.broadcast(msg)
	return nil
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request to a websocket and streams planets until
// the client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}

	// Register and send the snapshot under the connection lock so a
	// concurrent broadcast cannot interleave with it.
	connMutex.Lock()
	h.clientsMu.Lock()
	h.clients[conn] = connMutex
	h.clientsMu.Unlock()
	err = h.sendSnapshot(conn)
	connMutex.Unlock()

	defer func() {
		h.clientsMu.Lock()
		delete(h.clients, conn)
		h.clientsMu.Unlock()
	}()
	if err != nil {
		h.logger.Warn("websocket snapshot failed", "error", err)
		return
	}

	h.logger.Info("client connected", "remote", r.RemoteAddr)

	// Drain reads so close frames are processed
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.logger.Info("client disconnected", "remote", r.RemoteAddr)
			return
		}
	}
}

func (h *Hub) sendSnapshot(conn *websocket.Conn) error {
	h.mu.RLock()
	faces := h.faces
	elevation := h.elevation
	h.mu.RUnlock()

	for _, f := range faces {
		if f == nil {
			continue
		}
		if err := h.write(conn, f); err != nil {
			return err
		}
	}
	if elevation != nil {
		return h.write(conn, elevation)
	}
	return nil
}

func (h *Hub) write(conn *websocket.Conn, v any) error {
	if h.writeTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
	}
	return conn.WriteJSON(v)
}

func (h *Hub) broadcast(v any) {
	var failed []*websocket.Conn

	h.clientsMu.RLock()
	for client, mutex := range h.clients {
		mutex.Lock()
		err := h.write(client, v)
		mutex.Unlock()
		if err != nil {
			h.logger.Warn("websocket write failed", "error", err)
			client.Close()
			failed = append(failed, client)
		}
	}
	h.clientsMu.RUnlock()

	if len(failed) > 0 {
		h.clientsMu.Lock()
		for _, client := range failed {
			delete(h.clients, client)
		}
		h.clientsMu.Unlock()
	}
}

func newFaceMessage(face planet.Face, mesh *planet.MeshData) *FaceMessage {
	msg := &FaceMessage{
		Type:     TypeFace,
		Index:    face.Index,
		Face:     face.Name(),
		Vertices: make([][3]float64, len(mesh.Vertices)),
		Normals:  make([][3]float64, len(mesh.Normals)),
		Indices:  make([]int32, len(mesh.Triangles)),
	}
	for i, v := range mesh.Vertices {
		msg.Vertices[i] = [3]float64{v.X, v.Y, v.Z}
	}
	for i, n := range mesh.Normals {
		msg.Normals[i] = [3]float64{n.X, n.Y, n.Z}
	}
	for i, idx := range mesh.Triangles {
		msg.Indices[i] = int32(idx)
	}
	return msg
}
