package gateway

import "encoding/json"

// ClientMessage is the envelope for messages sent by clients.
type ClientMessage struct {
	Type ClientMessageType `json:"type"`
	Data json.RawMessage   `json:"data"`
}

// ClientMessageType names a client message.
type ClientMessageType string

const (
	ClientMessageVisibility ClientMessageType = "visibility"
	ClientMessageWakeLock   ClientMessageType = "wake_lock"
)

// VisibilityReport is sent when the page is hidden or shown.
type VisibilityReport struct {
	Hidden bool `json:"hidden"`
}

// WakeLockResult answers a WakeLock acquire request.
type WakeLockResult struct {
	Acquired bool   `json:"acquired"`
	Error    string `json:"error,omitempty"`
}
