// Package protocol defines the JSON frames exchanged over the signaling
// WebSocket. Every frame is an object with a "type" field.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Relay/internal/domain"
)

// Client → server types.
const (
	TypeJoin         = "join"
	TypeOffer        = "offer"
	TypeAnswer       = "answer"
	TypeICECandidate = "ice-candidate"
	TypeRejectCall   = "reject-call"
	TypeHangUp       = "hang-up"
	TypePing         = "ping"
	TypeWhoAmI       = "whoami"
)

// Server → client types that have no inbound twin.
const (
	TypeUpdateUsers  = "update-users"
	TypeCallRejected = "call-rejected"
	TypePong         = "pong"
)

type Message struct {
	Type string `json:"type"`
}

func DecodeMessage(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, err
	}
	return msg, nil
}

type Join struct {
	Message
	Username string `json:"username"`
}

func DecodeJoin(data []byte) (Join, error) {
	var j Join
	if err := json.Unmarshal(data, &j); err != nil {
		return j, fmt.Errorf("decode join: %w", err)
	}
	return j, nil
}

// UpdateUsers is the presence snapshot frame.
type UpdateUsers struct {
	Message
	Users []domain.User `json:"users"`
}

func EncodeUpdateUsers(users []domain.User) ([]byte, error) {
	if users == nil {
		users = []domain.User{}
	}
	return json.Marshal(UpdateUsers{Message: Message{Type: TypeUpdateUsers}, Users: users})
}

type WhoAmI struct {
	Message
	ID       domain.UserID `json:"id"`
	Username *string       `json:"username,omitempty"`
}

// NewWhoAmI describes a connection to itself; username is omitted until it joins.
func NewWhoAmI(id domain.UserID, username string, joined bool) WhoAmI {
	resp := WhoAmI{Message: Message{Type: TypeWhoAmI}, ID: id}
	if joined {
		resp.Username = &username
	}
	return resp
}
