package websocket

import (
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/watchparty/cli/pkg/logger"
)

// MessageType is the "type" discriminator of every party socket frame
type MessageType string

const (
	TypeVideoControl    MessageType = "video_control"
	TypeSyncState       MessageType = "sync_state"
	TypeSyncRequest     MessageType = "sync_request"
	TypeChatMessage     MessageType = "chat_message"
	TypeReaction        MessageType = "reaction"
	TypeTyping          MessageType = "typing"
	TypeUserJoined      MessageType = "user_joined"
	TypeUserLeft        MessageType = "user_left"
	TypeHeartbeat       MessageType = "heartbeat"
	TypePong            MessageType = "pong"
	TypeError           MessageType = "error"
	TypeUserRoleUpdated MessageType = "user_role_updated"

	// Wildcard subscribes to every message type
	Wildcard MessageType = "*"
)

// Video control actions
const (
	ActionPlay  = "play"
	ActionPause = "pause"
	ActionSeek  = "seek"
)

var errMissingType = errors.New("message has no type")

// Message is one frame. The body is kept raw so handlers decode only the
// shape they care about.
type Message struct {
	Type MessageType
	raw  jsoniter.RawMessage
}

// Decode unmarshals the full frame into v
func (m Message) Decode(v interface{}) error {
	if len(m.raw) == 0 {
		return codec.Unmarshal([]byte(`{"type":"`+string(m.Type)+`"}`), v)
	}
	return codec.Unmarshal(m.raw, v)
}

// Raw returns the frame as received or encoded
func (m Message) Raw() []byte {
	return m.raw
}

func (m Message) MarshalJSON() ([]byte, error) {
	if len(m.raw) > 0 {
		return m.raw, nil
	}
	return codec.Marshal(struct {
		Type MessageType `json:"type"`
	}{m.Type})
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var head struct {
		Type MessageType `json:"type"`
	}
	if err := codec.Unmarshal(data, &head); err != nil {
		return err
	}
	if head.Type == "" {
		return errMissingType
	}
	m.Type = head.Type
	m.raw = append(jsoniter.RawMessage(nil), data...)
	return nil
}

// VideoControl is sent by the host to drive playback
type VideoControl struct {
	Type         MessageType `json:"type"`
	Action       string      `json:"action"`
	Timestamp    *float64    `json:"timestamp,omitempty"`
	PlaybackRate *float64    `json:"playback_rate,omitempty"`
	UserID       string      `json:"user_id,omitempty"`
	Username     string      `json:"username,omitempty"`
}

// SyncState is the playback state broadcast to participants
type SyncState struct {
	Type             MessageType `json:"type"`
	IsPlaying        bool        `json:"is_playing"`
	CurrentTimestamp float64     `json:"current_timestamp"`
	VideoDuration    float64     `json:"video_duration"`
	PlaybackRate     float64     `json:"playback_rate,omitempty"`
	Quality          string      `json:"quality,omitempty"`
	LastUpdate       string      `json:"last_update,omitempty"`
}

type ChatMessage struct {
	Type      MessageType `json:"type"`
	Message   string      `json:"message"`
	UserID    string      `json:"user_id,omitempty"`
	Username  string      `json:"username,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
	ReplyTo   string      `json:"reply_to,omitempty"`
}

// Reaction is an emoji pinned to a video position
type Reaction struct {
	Type      MessageType `json:"type"`
	Emoji     string      `json:"emoji"`
	Timestamp float64     `json:"timestamp"`
	UserID    string      `json:"user_id,omitempty"`
	Username  string      `json:"username,omitempty"`
	Position  *float64    `json:"position,omitempty"`
}

type Typing struct {
	Type     MessageType `json:"type"`
	IsTyping bool        `json:"is_typing"`
	UserID   string      `json:"user_id,omitempty"`
	Username string      `json:"username,omitempty"`
}

type UserJoined struct {
	Type     MessageType `json:"type"`
	UserID   string      `json:"user_id"`
	Username string      `json:"username"`
	Avatar   string      `json:"avatar,omitempty"`
	IsHost   bool        `json:"is_host,omitempty"`
}

type UserLeft struct {
	Type     MessageType `json:"type"`
	UserID   string      `json:"user_id"`
	Username string      `json:"username"`
}

type Heartbeat struct {
	Type      MessageType `json:"type"`
	Timestamp int64       `json:"timestamp,omitempty"`
}

// ServerError is an error frame; it does not close the socket
type ServerError struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
}

func (e *ServerError) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}

// UserRole announces a promotion or demotion (host, moderator, participant)
type UserRole struct {
	Type     MessageType `json:"type"`
	UserID   string      `json:"user_id"`
	Username string      `json:"username"`
	Role     string      `json:"role"`
}

func encode(t MessageType, v interface{}) Message {
	data, err := codec.Marshal(v)
	if err != nil {
		logger.Error("Failed to encode message", "type", t, "error", err)
		return Message{Type: t}
	}
	return Message{Type: t, raw: data}
}

// Control builds a video_control frame. A negative position is omitted.
func Control(action string, position float64) Message {
	vc := VideoControl{Type: TypeVideoControl, Action: action}
	if position >= 0 {
		vc.Timestamp = &position
	}
	return encode(TypeVideoControl, vc)
}

// SyncRequest asks the room for its current state
func SyncRequest() Message {
	return Message{Type: TypeSyncRequest}
}

// Chat builds a chat_message frame
func Chat(text, replyTo string) Message {
	return encode(TypeChatMessage, ChatMessage{Type: TypeChatMessage, Message: text, ReplyTo: replyTo})
}

// React builds a reaction frame at a video position in seconds
func React(emoji string, position float64) Message {
	return encode(TypeReaction, Reaction{Type: TypeReaction, Emoji: emoji, Timestamp: position})
}

// TypingIndicator builds a typing frame
func TypingIndicator(typing bool) Message {
	return encode(TypeTyping, Typing{Type: TypeTyping, IsTyping: typing})
}

// Pong answers a server heartbeat
func Pong(at time.Time) Message {
	return encode(TypePong, Heartbeat{Type: TypePong, Timestamp: at.UnixMilli()})
}
