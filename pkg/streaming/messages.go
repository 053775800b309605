// Package streaming defines the websocket wire format between the map
// server and browser clients: surface changes flow out, gestures flow in.
package streaming

import (
	"encoding/json"
	"fmt"

	"github.com/eastwood-fallfest/festmap/pkg/core"
)

// Outgoing message types.
const (
	TypeHello   = "hello"
	TypeChange  = "change"
	TypeCapture = "capture"
	TypeAck     = "ack"
	TypeError   = "error"
)

// Incoming message types.
const (
	TypeMarkerClick   = "marker_click"
	TypeMarkerDragEnd = "marker_dragend"
	TypeMarkerHover   = "marker_hover"
	TypePopupAction   = "popup_action"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope marshals payload into an envelope of the given type.
func NewEnvelope(typ string, payload any) (Envelope, error) {
	if payload == nil {
		return Envelope{Type: typ}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encoding %s payload: %w", typ, err)
	}
	return Envelope{Type: typ, Payload: raw}, nil
}

// Decode unmarshals the payload into v.
func (e Envelope) Decode(v any) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("%s: empty payload", e.Type)
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decoding %s payload: %w", e.Type, err)
	}
	return nil
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	For    string `json:"for"` // the message type being acknowledged
	Result any    `json:"result,omitempty"`
}

// ErrorMessage reports a rejected incoming message.
type ErrorMessage struct {
	For   string `json:"for"`
	Error string `json:"error"`
}

// HelloPayload greets a newly connected client.
type HelloPayload struct {
	Festival string      `json:"festival"`
	Center   core.LatLng `json:"center"`
	Zoom     int         `json:"zoom"`
	Session  string      `json:"session"`
}

// Hover directions for TypeMarkerHover.
const (
	HoverOver = "over"
	HoverOut  = "out"
)

// GesturePayload is a pointer interaction with one marker. Layer names the
// registry's layer group and Key the entity id.
type GesturePayload struct {
	Layer  string       `json:"layer"`
	Key    string       `json:"key"`
	LatLng *core.LatLng `json:"latlng,omitempty"` // dragend only
	Hover  string       `json:"hover,omitempty"`  // marker_hover only
}

// PopupActionPayload is a button press inside a popup.
type PopupActionPayload struct {
	Layer    string `json:"layer"`
	Kind     string `json:"kind"`
	EntityID string `json:"entityId"`
}
