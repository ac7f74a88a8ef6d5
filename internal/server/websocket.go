package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sw33tLie/geoshare/pkg/conversion"
	"github.com/sw33tLie/geoshare/pkg/output"
)

const maxMessageSize = 64 * 1024

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ClientMessage is sent by websocket clients.
type ClientMessage struct {
	Type   string `json:"type"` // "convert", "answer", "cancel"
	Text   string `json:"text,omitempty"`
	Format string `json:"format,omitempty"`
	Answer string `json:"answer,omitempty"`
}

// ServerMessage is sent to websocket clients.
type ServerMessage struct {
	Type     string           `json:"type"` // "prompt", "result", "error"
	Category string           `json:"category,omitempty"`
	URL      string           `json:"url,omitempty"`
	Input    string           `json:"input,omitempty"`
	Result   *ConvertResponse `json:"result,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// handleWebSocket runs an interactive session: the client starts
// conversions and answers the permission prompts they raise. A new convert
// message cancels the conversion in flight.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Log.Debugf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conv := conversion.NewConverter(s.Env)
	defer conv.Cancel()

	msgs := make(chan ClientMessage)
	go func() {
		defer cancel()
		for {
			var m ClientMessage
			if err := conn.ReadJSON(&m); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.Log.Warnf("websocket read: %v", err)
				}
				return
			}
			select {
			case msgs <- m:
			case <-ctx.Done():
				return
			}
		}
	}()

	var (
		pending *conversion.Prompt
		results <-chan conversion.State
		text    string
		format  output.Format
		begin   time.Time
	)
	for {
		var reply ServerMessage
		select {
		case <-ctx.Done():
			return

		case m := <-msgs:
			switch m.Type {
			case "convert":
				f := output.FormatGeoURI
				if m.Format != "" {
					if f, err = output.ParseFormat(m.Format); err != nil {
						reply = ServerMessage{Type: "error", Error: err.Error()}
						break
					}
				}
				pending = nil
				text, format, begin = m.Text, f, time.Now()
				results = conv.Start(ctx, text)
				continue
			case "answer":
				if pending == nil {
					reply = ServerMessage{Type: "error", Error: "no pending prompt"}
					break
				}
				pending.Reply(conversion.ParseDecision(m.Answer))
				pending = nil
				continue
			case "cancel":
				pending = nil
				conv.Cancel()
				continue
			default:
				reply = ServerMessage{Type: "error", Error: "unknown message type " + m.Type}
			}

		case p := <-conv.Prompts():
			pending = p
			reply = ServerMessage{
				Type:     "prompt",
				Category: string(p.Category),
				URL:      p.URL,
				Input:    p.Input,
			}

		case st := <-results:
			results, pending = nil, nil
			s.finish(ctx, text, st, time.Since(begin))
			resp, err := newConvertResponse(st, format)
			if err != nil {
				reply = ServerMessage{Type: "error", Error: err.Error()}
				break
			}
			reply = ServerMessage{Type: "result", Result: &resp}
		}

		if err := conn.WriteJSON(reply); err != nil {
			s.Log.Debugf("websocket write: %v", err)
			return
		}
	}
}
