package protocol

import (
	"encoding/json"
	"testing"

	"github.com/dkeye/Relay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

func TestKindOf(t *testing.T) {
	for typ, want := range map[string]Kind{
		"offer":         KindOffer,
		"answer":        KindAnswer,
		"ice-candidate": KindICECandidate,
		"reject-call":   KindRejectCall,
		"hang-up":       KindHangUp,
	} {
		k, ok := KindOf(typ)
		require.True(t, ok, typ)
		assert.Equal(t, want, k)
		assert.Equal(t, typ, k.String())
	}
	for _, typ := range []string{"join", "ping", "call-rejected", "update-users", ""} {
		_, ok := KindOf(typ)
		assert.False(t, ok, typ)
	}
}

func TestEventTag(t *testing.T) {
	assert.Equal(t, "call-rejected", KindRejectCall.EventTag())
	assert.Equal(t, "hang-up", KindHangUp.EventTag())
	assert.Equal(t, "offer", KindOffer.EventTag())
}

func TestDecodeNegotiation_PicksPayloadByKind(t *testing.T) {
	raw := []byte(`{"type":"answer","to":"bob","offer":{"sdp":"o"},"answer":{"sdp":"a"},"candidate":{"c":1}}`)

	n, err := DecodeNegotiation(KindAnswer, raw)
	require.NoError(t, err)
	assert.Equal(t, "bob", n.To)
	assert.JSONEq(t, `{"sdp":"a"}`, string(n.Payload))

	n, err = DecodeNegotiation(KindICECandidate, raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"c":1}`, string(n.Payload))

	n, err = DecodeNegotiation(KindRejectCall, raw)
	require.NoError(t, err)
	assert.Nil(t, n.Payload)

	_, err = DecodeNegotiation(KindOffer, []byte(`{"type":"offer","to":["x"]}`))
	assert.Error(t, err)
}

func TestDecodeNegotiation_RequiresTo(t *testing.T) {
	for _, raw := range []string{`{"type":"hang-up"}`, `{"type":"hang-up","to":null}`} {
		_, err := DecodeNegotiation(KindHangUp, []byte(raw))
		assert.ErrorIs(t, err, ErrNoRecipient, raw)
	}

	n, err := DecodeNegotiation(KindHangUp, []byte(`{"type":"hang-up","to":""}`))
	require.NoError(t, err)
	assert.Equal(t, "", n.To)
	assert.Equal(t, KindHangUp, n.Kind)
}

func TestEncodeRelayed(t *testing.T) {
	sdp := json.RawMessage(`{"type":"offer","sdp":"v=0"}`)

	b, err := EncodeRelayed(Negotiation{Kind: KindOffer, To: "bob", Payload: sdp}, "alice", true)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"type":  "offer",
		"from":  "alice",
		"offer": map[string]any{"type": "offer", "sdp": "v=0"},
	}, decode(t, b))

	b, err = EncodeRelayed(Negotiation{Kind: KindOffer, To: "bob", Payload: sdp}, "", false)
	require.NoError(t, err)
	_, hasFrom := decode(t, b)["from"]
	assert.False(t, hasFrom, "from is omitted before the sender joins")

	b, err = EncodeRelayed(Negotiation{Kind: KindOffer, To: "bob", Payload: sdp}, "", true)
	require.NoError(t, err)
	assert.Equal(t, "", decode(t, b)["from"], "an empty joined name is still a name")

	b, err = EncodeRelayed(Negotiation{Kind: KindRejectCall, To: "bob"}, "alice", true)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"type": "call-rejected", "from": "alice"}, decode(t, b))

	b, err = EncodeRelayed(Negotiation{Kind: KindHangUp, To: "bob"}, "alice", true)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"type": "hang-up"}, decode(t, b))
}

func TestEncodeUpdateUsers_EmptyIsArray(t *testing.T) {
	b, err := EncodeUpdateUsers(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"update-users","users":[]}`, string(b))

	b, err = EncodeUpdateUsers([]domain.User{{ID: "s1", Username: "alice"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"update-users","users":[{"id":"s1","username":"alice"}]}`, string(b))
}

func TestNewWhoAmI(t *testing.T) {
	b, err := json.Marshal(NewWhoAmI("s1", "", false))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"whoami","id":"s1"}`, string(b))

	b, err = json.Marshal(NewWhoAmI("s1", "alice", true))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"whoami","id":"s1","username":"alice"}`, string(b))
}

func TestDecodeJoin(t *testing.T) {
	j, err := DecodeJoin([]byte(`{"type":"join","username":"  spaced  "}`))
	require.NoError(t, err)
	assert.Equal(t, "  spaced  ", j.Username)

	j, err = DecodeJoin([]byte(`{"type":"join"}`))
	require.NoError(t, err)
	assert.Equal(t, "", j.Username)

	_, err = DecodeJoin([]byte(`{"type":"join","username":{}}`))
	assert.Error(t, err)
}
