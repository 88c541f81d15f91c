package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/head_tracker/internal/config"
	"github.com/relabs-tech/head_tracker/internal/pose"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// poseHub fans the fused pose stream out to the connected websocket clients.
type poseHub struct {
	mu       sync.RWMutex
	lastPose pose.Pose
	havePose bool
	clients  map[*websocket.Conn]struct{}
}

func newPoseHub() *poseHub {
	return &poseHub{clients: make(map[*websocket.Conn]struct{})}
}

func (h *poseHub) update(p pose.Pose) {
	h.mu.Lock()
	h.lastPose = p
	h.havePose = true
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		if err := c.WriteJSON(p); err != nil {
			h.remove(c)
		}
	}
}

func (h *poseHub) add(c *websocket.Conn) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *poseHub) remove(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.Close()
}

func (h *poseHub) latest() (pose.Pose, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastPose, h.havePose
}

// RunWeb subscribes to the fused pose topic and serves it as a JSON API and a
// websocket stream, plus static files from ./web.
func RunWeb() error {
	cfg := config.Get()
	hub := newPoseHub()

	// 1) Connect to MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	// 2) Subscribe to the fused pose topic
	token := client.Subscribe(cfg.TopicPoseFused, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var p pose.Pose
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Printf("web: pose unmarshal error: %v", err)
			return
		}
		hub.update(p)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to %s", cfg.TopicPoseFused)

	// 3) JSON API endpoint: latest pose
	http.HandleFunc("/api/pose", func(w http.ResponseWriter, r *http.Request) {
		p, ok := hub.latest()
		if !ok {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(p); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// 4) Websocket endpoint: pushes every fused pose
	http.HandleFunc("/ws/pose", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("web: websocket upgrade error: %v", err)
			return
		}
		hub.add(conn)
		// Drain client reads so pings and close frames are handled.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					hub.remove(conn)
					return
				}
			}
		}()
	})

	// 5) Static files from ./web as the root
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web: server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
