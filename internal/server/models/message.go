package models

import "time"

// MessageType is the closed set of notification kinds.
type MessageType string

const (
	MessageLike    MessageType = "like"
	MessageCollect MessageType = "collect"
	MessageComment MessageType = "comment"
	MessageFollow  MessageType = "follow"
	MessageShare   MessageType = "share"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageLike, MessageCollect, MessageComment, MessageFollow, MessageShare:
		return true
	}
	return false
}

// Message is a notification addressed to Receiver. Content is a JSON
// document whose shape depends on Type.
type Message struct {
	ID        string
	Sender    string
	Receiver  string
	Content   string
	Type      MessageType
	Read      bool
	CreatedAt time.Time
}
