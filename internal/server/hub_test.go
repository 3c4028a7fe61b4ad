package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/mnowicki/heatlab/internal/config"
	"github.com/mnowicki/heatlab/internal/experiment"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Grid.Dx = 0.2
	cfg.Grid.Dt = 0.005
	return cfg
}

func TestResolveScenario(t *testing.T) {
	scn, err := resolveScenario("under-window")
	if err != nil {
		t.Fatalf("preset lookup: %v", err)
	}
	if scn.Name != "under-window" {
		t.Errorf("name = %q", scn.Name)
	}

	custom := `{"Name":"custom","WindowLeft":true,"CostShare":1}`
	scn, err = resolveScenario(custom)
	if err != nil {
		t.Fatalf("json scenario: %v", err)
	}
	if !scn.WindowLeft {
		t.Error("WindowLeft not parsed")
	}

	if _, err := resolveScenario("{{{"); err == nil {
		t.Error("expected error for garbage content")
	}
}

func TestBuildFrame(t *testing.T) {
	exp, err := experiment.New(testConfig(), experiment.Scenario{
		Name:       "t",
		WindowLeft: true,
		Radiators:  []experiment.Radiator{{X: 0.2, Y: 1.5, Width: 0.2, Height: 1.0}},
		CostShare:  1,
	})
	if err != nil {
		t.Fatal(err)
	}
	exp.Solver().Run(10)

	frame := buildFrame(exp)
	if frame.Step != 10 {
		t.Errorf("step = %d, want 10", frame.Step)
	}
	if len(frame.Cells) == 0 || len(frame.Cells[0]) == 0 {
		t.Fatal("empty frame cells")
	}
	// started at 10 degC indoors, cells are in Celsius
	if frame.Cells[0][0] < -50 || frame.Cells[0][0] > 50 {
		t.Errorf("cell temperature %g looks like Kelvin", frame.Cells[0][0])
	}
}

func wsDial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func readMsg(t *testing.T, conn *websocket.Conn) Msg {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg Msg
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestWebsocketSession(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	srv := New("", testConfig(), log)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn := wsDial(t, ts)
	defer conn.Close()

	if err := conn.WriteJSON(Msg{Type: "scenario", Content: "under-window"}); err != nil {
		t.Fatal(err)
	}
	if msg := readMsg(t, conn); msg.Type != "configured" {
		t.Fatalf("reply = %+v, want configured", msg)
	}

	if err := conn.WriteJSON(Msg{Type: "start"}); err != nil {
		t.Fatal(err)
	}
	if msg := readMsg(t, conn); msg.Type != "started" {
		t.Fatalf("reply = %+v, want started", msg)
	}

	// at least one frame should arrive
	msg := readMsg(t, conn)
	if msg.Type != "frame" {
		t.Fatalf("reply = %+v, want frame", msg)
	}
	var frame Frame
	if err := json.Unmarshal([]byte(msg.Content), &frame); err != nil {
		t.Fatalf("frame decode: %v", err)
	}
	if frame.Step <= 0 {
		t.Errorf("frame step = %d", frame.Step)
	}

	if err := conn.WriteJSON(Msg{Type: "stop"}); err != nil {
		t.Fatal(err)
	}
	// drain frames already in flight until the stop ack shows up
	for i := 0; i < 50; i++ {
		msg := readMsg(t, conn)
		if msg.Type == "stopped" {
			return
		}
	}
	t.Fatal("no stopped reply")
}

func TestPresetsEndpoint(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	srv := New("", testConfig(), log)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/presets")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var names []string
	if err := json.NewDecoder(resp.Body).Decode(&names); err != nil {
		t.Fatal(err)
	}
	if len(names) != len(experiment.Names()) {
		t.Errorf("got %d presets, want %d", len(names), len(experiment.Names()))
	}
}

func TestUnknownMessageType(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	srv := New("", testConfig(), log)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn := wsDial(t, ts)
	defer conn.Close()

	if err := conn.WriteJSON(Msg{Type: "bogus"}); err != nil {
		t.Fatal(err)
	}
	if msg := readMsg(t, conn); msg.Type != "error" {
		t.Fatalf("reply = %+v, want error", msg)
	}
}
