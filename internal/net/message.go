package net

import "encoding/json"

// Message types.
const (
	MessageKey   = "key"
	MessageFrame = "frame"
)

// ClientMessage is what renderers send: {"type":"key","code":87,"down":true}.
type ClientMessage struct {
	Type string `json:"type"`
	Code int    `json:"code"`
	Down bool   `json:"down"`
}

// KeyEvent is a key edge reported by a client.
type KeyEvent struct {
	Session uint64
	Code    int
	Down    bool
}

// FrameMessage carries one tick's drawables to renderers.
type FrameMessage struct {
	Type  string `json:"type"`
	Tick  uint64 `json:"tick"`
	Frame any    `json:"frame"`
}

// EncodeFrame marshals a frame message.
func EncodeFrame(tick uint64, frame any) ([]byte, error) {
	return json.Marshal(FrameMessage{Type: MessageFrame, Tick: tick, Frame: frame})
}
