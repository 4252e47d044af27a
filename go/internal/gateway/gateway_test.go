package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/sidereal/go/internal/events"
	"github.com/mcdev12/sidereal/go/internal/game"
	"github.com/mcdev12/sidereal/go/internal/models"
	"github.com/mcdev12/sidereal/go/internal/power"
	"github.com/mcdev12/sidereal/go/internal/settings"
)

type harness struct {
	server     *httptest.Server
	cm         *ConnectionManager
	app        *game.App
	visibility *power.Visibility
	wakeLock   *power.WakeLock
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	clock := clockwork.NewFakeClock()
	cm := NewConnectionManager(DefaultConnectionConfig())
	platform := NewRemotePlatform(cm)
	visibility := power.NewVisibility()
	wakeLock := power.NewWakeLock(platform)
	app := game.NewApp(clock, settings.NewRepository(settings.NewMemoryStore()), visibility, wakeLock, cm)
	svc := NewService(cm, platform, visibility, app)

	mux := http.NewServeMux()
	svc.RegisterRoutes(mux)

	ctx, cancel := context.WithCancel(context.Background())
	go svc.Start(ctx)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		cancel()
		app.Close()
		wakeLock.Close()
	})

	return &harness{server: server, cm: cm, app: app, visibility: visibility, wakeLock: wakeLock}
}

func (h *harness) do(t *testing.T, method, path, body string) (int, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, h.server.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	return resp.StatusCode, buf.Bytes()
}

func (h *harness) state(t *testing.T, data []byte) game.State {
	t.Helper()
	var state game.State
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatalf("decode state %s: %v", data, err)
	}
	return state
}

func (h *harness) dial(t *testing.T) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(h.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	eventually(t, func() bool { return h.cm.ConnectionCount() == 1 }, "connection never registered")
	return conn
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func readEvent(t *testing.T, conn *websocket.Conn, typ events.Type) events.Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var event events.Event
		if err := conn.ReadJSON(&event); err != nil {
			t.Fatalf("waiting for %s: %v", typ, err)
		}
		if event.Type == typ {
			return event
		}
	}
}

const fourFactions = `{"kit":"base","caylion":"base","kjas":"expansion","faderan":"base"}`

func TestNewGameValidation(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, http.MethodPost, "/api/game", `{"factions":{"kit":"base","zeth":"base"}}`)
	if status != http.StatusBadRequest {
		t.Errorf("two factions: status %d, body %s", status, body)
	}

	status, _ = h.do(t, http.MethodPost, "/api/game", `{not json`)
	if status != http.StatusBadRequest {
		t.Errorf("bad body: status %d", status)
	}

	status, body = h.do(t, http.MethodPost, "/api/game", `{"factions":`+fourFactions+`,"trade_time_limit":600000}`)
	if status != http.StatusCreated {
		t.Fatalf("valid game: status %d, body %s", status, body)
	}
	state := h.state(t, body)
	if *state.Step != models.FirstStep() || state.TimeLimit != "600000" {
		t.Errorf("new game state = %+v", state)
	}
}

func TestNewGameFallsBackToPreferences(t *testing.T) {
	h := newHarness(t)

	status, _ := h.do(t, http.MethodPost, "/api/game", `{"factions":`+fourFactions+`,"trade_time_limit":"unlimited"}`)
	if status != http.StatusCreated {
		t.Fatalf("status %d", status)
	}
	if status, _ := h.do(t, http.MethodDelete, "/api/game", ""); status != http.StatusOK {
		t.Fatalf("main menu status %d", status)
	}

	status, body := h.do(t, http.MethodGet, "/api/preferences", "")
	if status != http.StatusOK || !strings.Contains(string(body), `"trade_time_limit":"unlimited"`) {
		t.Errorf("preferences: %d %s", status, body)
	}

	status, body = h.do(t, http.MethodPost, "/api/game", `{}`)
	if status != http.StatusCreated {
		t.Fatalf("status %d, body %s", status, body)
	}
	state := h.state(t, body)
	if state.Factions.PlayerCount() != 4 || state.TimeLimit != "unlimited" {
		t.Errorf("state from preferences = %+v", state)
	}
}

func TestErrorStatuses(t *testing.T) {
	h := newHarness(t)

	if status, _ := h.do(t, http.MethodPost, "/api/timer/start", ""); status != http.StatusConflict {
		t.Errorf("timer without game: %d", status)
	}
	if status, _ := h.do(t, http.MethodPost, "/api/game/advance", ""); status != http.StatusConflict {
		t.Errorf("advance without game: %d", status)
	}

	h.do(t, http.MethodPost, "/api/game", `{"factions":`+fourFactions+`}`)

	if status, _ := h.do(t, http.MethodPost, "/api/game/navigate", `{"descriptor":"round/9/phase/trade"}`); status != http.StatusUnprocessableEntity {
		t.Errorf("bad descriptor: %d", status)
	}

	status, body := h.do(t, http.MethodPost, "/api/game/navigate", `{"descriptor":"scoring"}`)
	if status != http.StatusOK {
		t.Fatalf("navigate to scoring: %d %s", status, body)
	}
	if status, _ := h.do(t, http.MethodPost, "/api/game/advance", ""); status != http.StatusConflict {
		t.Errorf("advance from scoring: %d", status)
	}
	if status, _ := h.do(t, http.MethodPost, "/api/timer/pause", ""); status != http.StatusConflict {
		t.Errorf("timer outside trade: %d", status)
	}
}

func TestGetFactions(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, http.MethodGet, "/api/factions", "")
	if status != http.StatusOK {
		t.Fatalf("status %d", status)
	}
	var factions []FactionInfo
	if err := json.Unmarshal(body, &factions); err != nil {
		t.Fatal(err)
	}
	if len(factions) != len(models.AllFactions) {
		t.Fatalf("got %d factions", len(factions))
	}
	last := factions[len(factions)-1]
	if last.ID != models.FactionZeth || last.Expansion != "Charity Syndicate" {
		t.Errorf("last faction = %+v", last)
	}
}

func TestWebSocketStepEvents(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t)

	h.do(t, http.MethodPost, "/api/game", `{"factions":`+fourFactions+`}`)
	event := readEvent(t, conn, events.TypeStepChanged)
	if event.SessionID == "" {
		t.Error("step event has no session id")
	}

	h.do(t, http.MethodPost, "/api/game/advance", "")
	event = readEvent(t, conn, events.TypeStepChanged)

	payload, err := events.ParsePayload(&event)
	if err != nil {
		t.Fatal(err)
	}
	changed := payload.(events.StepChangedPayload)
	if changed.Descriptor != "round/1/phase/economy" || changed.Title != "Round 1 Economy Phase" {
		t.Errorf("step event = %+v", changed)
	}
}

func TestWebSocketVisibilityReport(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t)

	msg := `{"type":"visibility","data":{"hidden":true}}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatal(err)
	}
	eventually(t, func() bool { return !h.visibility.Foregrounded() }, "visibility report not applied")

	msg = `{"type":"visibility","data":{"hidden":false}}`
	conn.WriteMessage(websocket.TextMessage, []byte(msg))
	eventually(t, h.visibility.Foregrounded, "foreground report not applied")
}

func TestReconnectAfterHiddenClientLeft(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t)

	conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"visibility","data":{"hidden":true}}`))
	eventually(t, func() bool { return !h.visibility.Foregrounded() }, "visibility report not applied")

	conn.Close()
	eventually(t, func() bool { return h.cm.ConnectionCount() == 0 }, "connection never unregistered")
	if h.visibility.Foregrounded() {
		t.Fatal("foregrounded before any client reconnected")
	}

	h.dial(t)
	eventually(t, h.visibility.Foregrounded, "reconnected client not treated as foregrounded")
}

func TestWebSocketStats(t *testing.T) {
	h := newHarness(t)
	h.dial(t)

	status, body := h.do(t, http.MethodGet, "/ws/stats", "")
	if status != http.StatusOK {
		t.Fatalf("stats: %d %s", status, body)
	}
	var stats struct {
		Service          string `json:"service"`
		TotalConnections int    `json:"total_connections"`
		Connections      []struct {
			ID          string    `json:"id"`
			ConnectedAt time.Time `json:"connected_at"`
			LastPong    time.Time `json:"last_pong"`
		} `json:"connections"`
	}
	if err := json.Unmarshal(body, &stats); err != nil {
		t.Fatalf("decode stats %s: %v", body, err)
	}
	if stats.Service != "sidereal_gateway" || stats.TotalConnections != 1 || len(stats.Connections) != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	c := stats.Connections[0]
	if c.ID == "" || c.ConnectedAt.IsZero() || c.LastPong.Before(c.ConnectedAt) {
		t.Errorf("connection stats = %+v", c)
	}
}

func TestWebSocketWakeLock(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t)

	h.do(t, http.MethodPost, "/api/game", `{"factions":`+fourFactions+`,"trade_time_limit":60000}`)
	if status, body := h.do(t, http.MethodPost, "/api/timer/start", ""); status != http.StatusOK {
		t.Fatalf("start: %d %s", status, body)
	}

	event := readEvent(t, conn, events.TypeWakeLock)
	payload, _ := events.ParsePayload(&event)
	if !payload.(events.WakeLockPayload).Acquire {
		t.Fatal("expected an acquire request")
	}

	reply := `{"type":"wake_lock","data":{"acquired":true}}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(reply)); err != nil {
		t.Fatal(err)
	}
	eventually(t, h.wakeLock.Held, "wake lock not held after the client granted it")

	h.do(t, http.MethodPost, "/api/timer/pause", "")
	event = readEvent(t, conn, events.TypeWakeLock)
	payload, _ = events.ParsePayload(&event)
	if payload.(events.WakeLockPayload).Acquire {
		t.Error("expected a release request after pausing")
	}
	if h.wakeLock.Held() {
		t.Error("wake lock still held after pause")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{game.ErrConfiguration, http.StatusBadRequest},
		{game.ErrParse, http.StatusUnprocessableEntity},
		{game.ErrInvalidTransition, http.StatusConflict},
		{game.ErrNoTimer, http.StatusConflict},
		{game.ErrNoGame, http.StatusConflict},
		{context.Canceled, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
