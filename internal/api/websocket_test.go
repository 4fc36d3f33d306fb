package api

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/kryptokommunist/doyle-packing-sub000/internal/config"
)

func dialAnimate(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/spiral/animate"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	return conn
}

func TestAnimateStreamsFrames(t *testing.T) {
	cfg := config.AppConfig{Render: config.DefaultRender(), Server: config.DefaultServer()}
	server := NewServer(cfg)
	defer server.Stop()

	ts := httptest.NewServer(server.Router())
	defer ts.Close()

	conn := dialAnimate(t, ts)
	defer conn.Close()

	// Small spiral and few steps so the test stays fast.
	req := map[string]interface{}{
		"p": 8, "q": 8, "maxDistance": 500,
		"tStart": 0.0, "tEnd": 0.5, "steps": 2,
	}
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("send request: %v", err)
	}

	frames := 0
	for {
		var msg map[string]interface{}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read frame %d: %v", frames, err)
		}
		if errMsg, ok := msg["error"]; ok {
			t.Fatalf("stream error: %v", errMsg)
		}
		if msg["event"] == "done" {
			break
		}
		if msg["export"] == nil {
			t.Errorf("frame %d missing export", frames)
		}
		frames++
	}

	// steps=2 yields frames 0, 1, 2.
	if frames != 3 {
		t.Errorf("frames = %d, want 3", frames)
	}
}

func TestAnimateRejectsBadParams(t *testing.T) {
	cfg := config.AppConfig{Render: config.DefaultRender(), Server: config.DefaultServer()}
	server := NewServer(cfg)
	defer server.Stop()

	ts := httptest.NewServer(server.Router())
	defer ts.Close()

	conn := dialAnimate(t, ts)
	defer conn.Close()

	if err := conn.WriteJSON(map[string]interface{}{"p": 999}); err != nil {
		t.Fatalf("send request: %v", err)
	}

	var msg map[string]interface{}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read response: %v", err)
	}
	if _, ok := msg["error"]; !ok {
		t.Errorf("expected error message, got %v", msg)
	}
}
