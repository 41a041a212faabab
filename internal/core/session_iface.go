package core

// SessionID identifies one live transport session. It is assigned by the
// server on connect and dies with the connection.
type SessionID string

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []SessionID
}
