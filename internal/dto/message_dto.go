package dto

// MessageType classifies inbound chat messages.
type MessageType string

const (
	// MessageTypeText is a plain text message.
	MessageTypeText MessageType = "text"
	// MessageTypeOther covers stickers, photos, documents and anything else.
	MessageTypeOther MessageType = "other"
)

// Sender identifies the author of an inbound message.
type Sender struct {
	ID          int64  `json:"id" validate:"required"`
	DisplayName string `json:"display_name"`
}

// IncomingMessage is a message delivered by the messaging gateway.
type IncomingMessage struct {
	ChatID int64       `json:"chat_id" validate:"required"`
	Sender Sender      `json:"sender"`
	Text   string      `json:"text"`
	Type   MessageType `json:"type" validate:"required,oneof=text other"`
}

// ReplyKeyboard is a fixed set of labels the client offers as the next input.
type ReplyKeyboard struct {
	Rows   [][]string `json:"rows"`
	Resize bool       `json:"resize"`
}

// OutgoingMessage is a reply to be sent back through the gateway.
type OutgoingMessage struct {
	ChatID   int64          `json:"chat_id"`
	Text     string         `json:"text"`
	Keyboard *ReplyKeyboard `json:"keyboard,omitempty"`
}
