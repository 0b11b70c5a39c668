package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sweeney/eggy/internal/input"
	"github.com/sweeney/eggy/internal/pet"
	"github.com/sweeney/eggy/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		PetName:     "Eggy",
		Tone:        "pwm",
		PollMs:      5,
		DebounceMs:  10,
		HeartbeatMs: 900000,
		Broker:      "tcp://192.168.1.200:1883",
		HTTPAddr:    ":8080",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	srv.poll = 10 * time.Millisecond
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, srv, tr
}

func testView(hunger int) status.PetView {
	return status.PetView{
		Pet: pet.Snapshot{
			Name: "Eggy", Age: 12, Hunger: hunger, Happiness: 80, Cleanliness: 70,
			Energy: 60, Health: 90, Discipline: 50, Alive: true, State: pet.StateAlive,
		},
		Face:       pet.FaceHappy,
		Glyph:      "^_^",
		Stats:      "A12 H80 F30 E:60 Cl:70 Hp:90",
		StatusLine: "Happy!",
	}
}

func getJSON(t *testing.T, url string) status.StatusJSON {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}
	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	return sj
}

func TestJSONEndpoint(t *testing.T) {
	ts, _, tr := newTestServer(t)
	tr.UpdatePet(testView(30))
	tr.SetButtons(input.Held{true, false, false})
	tr.SetMQTTConnected(true)

	sj := getJSON(t, ts.URL+"/index.json")

	if !sj.Status.Ready {
		t.Error("expected Ready=true")
	}
	if sj.Status.Pet.Name != "Eggy" || sj.Status.Pet.Hunger != 30 || sj.Status.Pet.Glyph != "^_^" {
		t.Errorf("pet: got %+v", sj.Status.Pet)
	}
	if !sj.Status.Buttons.Left || sj.Status.Buttons.Middle {
		t.Errorf("buttons: got %+v", sj.Status.Buttons)
	}
	if !sj.Status.MQTT.Connected || sj.Status.MQTT.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("mqtt: got %+v", sj.Status.MQTT)
	}
	if sj.Status.Config.PollMs != 5 || sj.Status.Config.Tone != "pwm" {
		t.Errorf("config: got %+v", sj.Status.Config)
	}
}

func TestJSONBeforeFirstFrame(t *testing.T) {
	ts, _, _ := newTestServer(t)
	sj := getJSON(t, ts.URL+"/index.json")
	if sj.Status.Ready {
		t.Error("expected Ready=false before the first frame")
	}
}

func TestJSONNetworkInfo(t *testing.T) {
	ts, _, tr := newTestServer(t)
	tr.SetNetwork(&status.NetworkInfo{Type: "wifi", IP: "192.168.1.42", Status: "connected", SSID: "MyNet"})

	sj := getJSON(t, ts.URL+"/index.json")
	if sj.Status.Network == nil {
		t.Fatal("expected Network in JSON")
	}
	if sj.Status.Network.IP != "192.168.1.42" {
		t.Errorf("Network.IP: got %q, want 192.168.1.42", sj.Status.Network.IP)
	}
}

func TestHTMLEndpoint(t *testing.T) {
	ts, _, tr := newTestServer(t)
	tr.UpdatePet(testView(30))
	tr.SetNetwork(&status.NetworkInfo{Type: "wifi", IP: "192.168.1.42", Status: "connected", SSID: "MyNet"})

	for _, path := range []string{"/", "/index.html"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != 200 {
			t.Errorf("%s status: got %d, want 200", path, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("%s Content-Type: got %q", path, ct)
		}
		for _, want := range []string{"^_^", "Happy!", "MyNet", `<td id="pet-hunger">30</td>`} {
			if !strings.Contains(string(body), want) {
				t.Errorf("%s: body missing %q", path, want)
			}
		}
	}
}

func TestHTMLBeforeFirstFrame(t *testing.T) {
	ts, _, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "Waiting for the first frame") {
		t.Error("expected placeholder before the first frame")
	}
}

func TestNotFoundForUnknownPath(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nonexistent")
	if err != nil {
		t.Fatalf("GET /nonexistent: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readStatus(t *testing.T, conn *websocket.Conn) status.StatusJSON {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var sj status.StatusJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	return sj
}

func TestWebsocketPushesChanges(t *testing.T) {
	ts, _, tr := newTestServer(t)
	tr.UpdatePet(testView(30))

	conn := dialWS(t, ts)

	first := readStatus(t, conn)
	if first.Status.Pet.Hunger != 30 {
		t.Errorf("initial hunger: got %d, want 30", first.Status.Pet.Hunger)
	}

	tr.UpdatePet(testView(55))
	next := readStatus(t, conn)
	if next.Status.Pet.Hunger != 55 {
		t.Errorf("pushed hunger: got %d, want 55", next.Status.Pet.Hunger)
	}
}

func TestWebsocketSkipsUnchanged(t *testing.T) {
	ts, _, tr := newTestServer(t)
	tr.UpdatePet(testView(30))

	conn := dialWS(t, ts)
	readStatus(t, conn)

	conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected no message while the tracker is unchanged")
	}
}

func TestShutdownClosesWebsocket(t *testing.T) {
	ts, srv, tr := newTestServer(t)
	tr.UpdatePet(testView(30))

	conn := dialWS(t, ts)
	readStatus(t, conn)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	srv.Shutdown(ctx)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("expected going-away close, got %v", err)
	}
}
