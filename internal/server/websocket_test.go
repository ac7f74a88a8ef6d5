package server

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sw33tLie/geoshare/pkg/conversion"
)

type redirectNetwork struct {
	location string
}

func (n redirectNetwork) ResolveRedirect(context.Context, string, string) (string, error) {
	return n.location, nil
}

func (redirectNetwork) FetchBody(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("offline")
}

func dialSession(t *testing.T) *websocket.Conn {
	t.Helper()
	ts, _ := newTestServerWithNetwork(t,
		redirectNetwork{location: "https://www.google.com/maps/@52.5067296,13.2599309,11z"}, "", "")
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/api/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, m ClientMessage) {
	t.Helper()
	if err := conn.WriteJSON(m); err != nil {
		t.Fatal(err)
	}
}

func receive(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var m ServerMessage
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestWebSocketPromptAndResult(t *testing.T) {
	conn := dialSession(t)

	send(t, conn, ClientMessage{Type: "convert", Text: "https://maps.app.goo.gl/TmbeHMiLEfTBws9EA", Format: "google"})
	prompt := receive(t, conn)
	if prompt.Type != "prompt" || prompt.Category != "unshorten" || prompt.Input != "googlemaps" {
		t.Fatalf("prompt = %+v", prompt)
	}

	send(t, conn, ClientMessage{Type: "answer", Answer: "y"})
	result := receive(t, conn)
	if result.Type != "result" || result.Result == nil {
		t.Fatalf("result = %+v", result)
	}
	if result.Result.State != "succeeded" || result.Result.Format != "google" {
		t.Fatalf("result = %+v", result.Result)
	}
	if !strings.Contains(result.Result.Output, "52.5067296") {
		t.Fatalf("output = %q", result.Result.Output)
	}
}

func TestWebSocketDirectResult(t *testing.T) {
	conn := dialSession(t)

	send(t, conn, ClientMessage{Type: "convert", Text: "geo:52.47254,13.4345"})
	m := receive(t, conn)
	if m.Type != "result" || m.Result.State != "succeeded" || m.Result.Input != "geouri" {
		t.Fatalf("message = %+v", m)
	}
}

func TestWebSocketCancel(t *testing.T) {
	conn := dialSession(t)

	send(t, conn, ClientMessage{Type: "convert", Text: "https://maps.app.goo.gl/TmbeHMiLEfTBws9EA"})
	if m := receive(t, conn); m.Type != "prompt" {
		t.Fatalf("message = %+v", m)
	}
	send(t, conn, ClientMessage{Type: "cancel"})
	m := receive(t, conn)
	if m.Type != "result" || m.Result.State != "failed" || m.Result.Error != conversion.Cancelled.String() {
		t.Fatalf("message = %+v", m)
	}
}

func TestWebSocketErrors(t *testing.T) {
	conn := dialSession(t)

	send(t, conn, ClientMessage{Type: "answer", Answer: "y"})
	if m := receive(t, conn); m.Type != "error" {
		t.Fatalf("answer without prompt = %+v", m)
	}
	send(t, conn, ClientMessage{Type: "convert", Text: "geo:1,2", Format: "png"})
	if m := receive(t, conn); m.Type != "error" {
		t.Fatalf("bad format = %+v", m)
	}
	send(t, conn, ClientMessage{Type: "dance"})
	if m := receive(t, conn); m.Type != "error" || !strings.Contains(m.Error, "dance") {
		t.Fatalf("unknown type = %+v", m)
	}
}
