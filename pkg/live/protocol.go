package live

import (
	"github.com/goccy/go-json"

	"github.com/myui-dev/myui/internal/errors"
	"github.com/myui-dev/myui/pkg/dom"
)

// Message types.
const (
	TypeInit  = "init"
	TypePatch = "patch"
	TypeError = "error"
	TypeEvent = "event"
)

// ServerMessage is sent from the server to the browser.
type ServerMessage struct {
	Type      string         `json:"type"`
	Session   string         `json:"session,omitempty"`
	Seq       uint64         `json:"seq,omitempty"`
	Tree      *dom.Snapshot  `json:"tree,omitempty"`
	Mutations []dom.Mutation `json:"mutations,omitempty"`
	Code      string         `json:"code,omitempty"`
	Message   string         `json:"message,omitempty"`
	// Error is the full coded error of an error message.
	Error json.RawMessage `json:"error,omitempty"`
}

// ClientMessage is sent from the browser to the server.
type ClientMessage struct {
	Type  string `json:"type"`
	Node  uint64 `json:"node"`
	Event string `json:"event"`
	// Value is the target's value for form controls.
	Value *string `json:"value,omitempty"`
	Key   string  `json:"key,omitempty"`
}

// EncodeServerMessage encodes m as JSON.
func EncodeServerMessage(m ServerMessage) ([]byte, error) {
	return json.Marshal(m)
}

// DecodeClientMessage parses and checks a client frame.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var m ClientMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return m, errors.New("E061").WithDetail("malformed JSON").Wrap(err)
	}
	if m.Type != TypeEvent {
		return m, errors.New("E061").WithDetailf("unknown message type %q", m.Type)
	}
	if m.Node == 0 || m.Event == "" {
		return m, errors.New("E061").WithDetail("event messages need node and event")
	}
	return m, nil
}

func errorMessage(err *errors.MyUIError) ServerMessage {
	msg := err.Message
	if err.Detail != "" {
		msg += ": " + err.Detail
	}
	return ServerMessage{
		Type:    TypeError,
		Code:    err.Code,
		Message: msg,
		Error:   json.RawMessage(err.FormatJSON()),
	}
}
