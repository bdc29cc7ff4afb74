package ws_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/equipsense/equipsense/internal/predict"
	"github.com/equipsense/equipsense/internal/store"
	wsHub "github.com/equipsense/equipsense/internal/ws"
)

const testInterval = 20 * time.Millisecond

// --- helpers ----------------------------------------------------------------

func newStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(5 * time.Minute)
}

func assessment(score float64, risk string) *predict.Assessment {
	return &predict.Assessment{HealthScore: score, RiskLevel: risk, EquipmentType: "pump"}
}

// startHub starts a test HTTP server with the hub as its handler.
// The hub's Run loop is started with a cancellable context.
// Returns the ws:// URL, the hub, and a cancel function.
func startHub(t *testing.T, st *store.Store) (wsURL string, hub *wsHub.Hub, cancel func()) {
	t.Helper()

	hub = wsHub.New(st, testInterval)
	ctx, cancelFn := context.WithCancel(context.Background())

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	go hub.Run(ctx)

	t.Cleanup(func() {
		cancelFn()
		srv.Close()
	})

	wsURL = "ws" + strings.TrimPrefix(srv.URL, "http")
	return wsURL, hub, cancelFn
}

// dial connects a WebSocket client to wsURL and returns the connection.
func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readMessage reads one text message from conn with a short deadline.
func readMessage(t *testing.T, conn *websocket.Conn) wsHub.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var msg wsHub.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("unmarshal %s: %v", raw, err)
	}
	return msg
}

// --- tests ------------------------------------------------------------------

func TestHub_Connect_ReceivesImmediateFleetView(t *testing.T) {
	st := newStore(t)
	st.Put("pump-07", assessment(55, "high"))
	wsURL, _, _ := startHub(t, st)

	conn := dial(t, wsURL)
	msg := readMessage(t, conn)

	if msg.Event != "fleet" {
		t.Errorf("event: got %q, want fleet", msg.Event)
	}
	if msg.Data.GeneratedAt == "" {
		t.Error("generated_at: missing")
	}
	if msg.Data.Fleet.EquipmentCount != 1 {
		t.Errorf("equipment_count: got %d, want 1", msg.Data.Fleet.EquipmentCount)
	}
	if msg.Data.Fleet.OverallRisk != "high" {
		t.Errorf("overall_risk: got %q, want high", msg.Data.Fleet.OverallRisk)
	}
}

func TestHub_EmptyStore_UnknownRisk(t *testing.T) {
	wsURL, _, _ := startHub(t, newStore(t))
	conn := dial(t, wsURL)
	msg := readMessage(t, conn)

	if msg.Data.Fleet.EquipmentCount != 0 {
		t.Errorf("equipment_count: got %d, want 0", msg.Data.Fleet.EquipmentCount)
	}
	if msg.Data.Fleet.OverallRisk != "unknown" {
		t.Errorf("overall_risk: got %q, want unknown", msg.Data.Fleet.OverallRisk)
	}
}

func TestHub_CountClients_SingleClient(t *testing.T) {
	wsURL, hub, _ := startHub(t, newStore(t))

	conn := dial(t, wsURL)
	readMessage(t, conn) // consume initial message

	// Give the hub a moment to register the client.
	time.Sleep(10 * time.Millisecond)
	if n := hub.Count(); n != 1 {
		t.Errorf("Count: got %d, want 1", n)
	}
}

func TestHub_CountClients_MultipleClients(t *testing.T) {
	wsURL, hub, _ := startHub(t, newStore(t))

	for i := 0; i < 3; i++ {
		conn := dial(t, wsURL)
		readMessage(t, conn) // consume initial message
	}

	time.Sleep(10 * time.Millisecond)
	if n := hub.Count(); n != 3 {
		t.Errorf("Count: got %d, want 3", n)
	}
}

func TestHub_CountClients_DecreasesOnDisconnect(t *testing.T) {
	wsURL, hub, _ := startHub(t, newStore(t))

	conn := dial(t, wsURL)
	readMessage(t, conn)
	time.Sleep(10 * time.Millisecond)

	if n := hub.Count(); n != 1 {
		t.Errorf("Count before disconnect: got %d, want 1", n)
	}

	conn.Close()
	time.Sleep(50 * time.Millisecond) // let readPump detect the close

	if n := hub.Count(); n != 0 {
		t.Errorf("Count after disconnect: got %d, want 0", n)
	}
}

func TestHub_ReceivesBroadcastOnTick(t *testing.T) {
	st := newStore(t)
	wsURL, _, _ := startHub(t, st)

	conn := dial(t, wsURL)
	readMessage(t, conn) // consume immediate view (empty store)

	// Add a unit after connect.
	st.Put("press-01", assessment(92, "low"))

	// The next tick should broadcast a view including the new unit.
	msg := readMessage(t, conn)
	if msg.Data.Fleet.EquipmentCount != 1 {
		t.Errorf("tick broadcast: equipment_count = %d, want 1", msg.Data.Fleet.EquipmentCount)
	}
	if msg.Data.Fleet.LowCount != 1 {
		t.Errorf("tick broadcast: low_count = %d, want 1", msg.Data.Fleet.LowCount)
	}
}

func TestHub_AllClientsReceiveBroadcast(t *testing.T) {
	st := newStore(t)
	st.Put("motor-3", assessment(88, "low"))
	wsURL, _, _ := startHub(t, st)

	conns := make([]*websocket.Conn, 3)
	for i := 0; i < 3; i++ {
		conns[i] = dial(t, wsURL)
	}

	for i, conn := range conns {
		msg := readMessage(t, conn)
		if msg.Event != "fleet" {
			t.Errorf("client %d: event: got %q, want fleet", i, msg.Event)
		}
	}
}

func TestHub_CancelContextClosesConnections(t *testing.T) {
	wsURL, hub, cancel := startHub(t, newStore(t))

	conn := dial(t, wsURL)
	readMessage(t, conn)
	time.Sleep(10 * time.Millisecond)

	cancel() // signal shutdown

	time.Sleep(50 * time.Millisecond)
	if n := hub.Count(); n != 0 {
		t.Errorf("Count after cancel: got %d, want 0", n)
	}
}

func TestHub_NonWebSocketRequest_Returns400(t *testing.T) {
	hub := wsHub.New(newStore(t), testInterval)
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	defer srv.Close()

	// Plain HTTP GET without WebSocket upgrade headers → 400
	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
}
