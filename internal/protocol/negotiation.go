package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoRecipient is returned for a negotiation frame without a "to" field.
// An explicit empty string is a valid name and is not an error.
var ErrNoRecipient = errors.New("missing to")

// Kind is one of the five negotiation message kinds the relay forwards.
type Kind uint8

const (
	KindOffer Kind = iota + 1
	KindAnswer
	KindICECandidate
	KindRejectCall
	KindHangUp
)

var kindByType = map[string]Kind{
	TypeOffer:        KindOffer,
	TypeAnswer:       KindAnswer,
	TypeICECandidate: KindICECandidate,
	TypeRejectCall:   KindRejectCall,
	TypeHangUp:       KindHangUp,
}

// KindOf maps an inbound frame type to its negotiation kind.
func KindOf(msgType string) (Kind, bool) {
	k, ok := kindByType[msgType]
	return k, ok
}

// String returns the inbound type tag.
func (k Kind) String() string {
	switch k {
	case KindOffer:
		return TypeOffer
	case KindAnswer:
		return TypeAnswer
	case KindICECandidate:
		return TypeICECandidate
	case KindRejectCall:
		return TypeRejectCall
	case KindHangUp:
		return TypeHangUp
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// EventTag returns the type tag the receiving peer dispatches on.
func (k Kind) EventTag() string {
	if k == KindRejectCall {
		return TypeCallRejected
	}
	return k.String()
}

// Negotiation is a single relay request. Payload is opaque and never parsed.
type Negotiation struct {
	Kind    Kind
	To      string
	Payload json.RawMessage
}

type negotiationRequest struct {
	Message
	To        *string         `json:"to"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

// DecodeNegotiation parses an inbound negotiation frame of kind k. The "to"
// field is required; "to": null counts as missing.
// RejectCall and HangUp carry no payload; anything sent alongside is ignored.
func DecodeNegotiation(k Kind, data []byte) (Negotiation, error) {
	var req negotiationRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return Negotiation{}, fmt.Errorf("decode %s: %w", k, err)
	}
	if req.To == nil {
		return Negotiation{}, fmt.Errorf("decode %s: %w", k, ErrNoRecipient)
	}
	n := Negotiation{Kind: k, To: *req.To}
	switch k {
	case KindOffer:
		n.Payload = req.Offer
	case KindAnswer:
		n.Payload = req.Answer
	case KindICECandidate:
		n.Payload = req.Candidate
	}
	return n, nil
}

type relayed struct {
	Message
	From      *string         `json:"from,omitempty"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

// EncodeRelayed builds the frame delivered to the destination peer.
// from is attached only when the sender has joined; hang-up carries nothing.
func EncodeRelayed(n Negotiation, from string, joined bool) ([]byte, error) {
	out := relayed{Message: Message{Type: n.Kind.EventTag()}}
	if joined && n.Kind != KindHangUp {
		out.From = &from
	}
	switch n.Kind {
	case KindOffer:
		out.Offer = n.Payload
	case KindAnswer:
		out.Answer = n.Payload
	case KindICECandidate:
		out.Candidate = n.Payload
	}
	return json.Marshal(out)
}
