package streaming

import (
	"encoding/json"
	"testing"

	"github.com/eastwood-fallfest/festmap/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	p := core.NewLatLng(36.1888487, -86.7383314)
	env, err := NewEnvelope(TypeMarkerDragEnd, GesturePayload{Layer: "vendors", Key: "food-001", LatLng: &p})
	require.NoError(t, err)

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"marker_dragend","payload":{"layer":"vendors","key":"food-001","latlng":[36.1888487,-86.7383314]}}`, string(raw))
}

func TestNewEnvelope_NilPayload(t *testing.T) {
	env, err := NewEnvelope(TypeAck, nil)
	require.NoError(t, err)

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"ack"}`, string(raw))
}

func TestNewEnvelope_Unencodable(t *testing.T) {
	_, err := NewEnvelope(TypeChange, make(chan int))
	assert.Error(t, err)
}

func TestEnvelope_Decode(t *testing.T) {
	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(`{"type":"popup_action","payload":{"layer":"vendors","kind":"view-details","entityId":"arts-001"}}`), &env))

	var action PopupActionPayload
	require.NoError(t, env.Decode(&action))
	assert.Equal(t, PopupActionPayload{Layer: "vendors", Kind: "view-details", EntityID: "arts-001"}, action)

	assert.Error(t, Envelope{Type: TypeMarkerClick}.Decode(&action))
	assert.Error(t, Envelope{Type: TypeMarkerClick, Payload: json.RawMessage(`[`)}.Decode(&action))
}
