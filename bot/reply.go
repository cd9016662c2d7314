package bot

// Button is one inline keyboard button: a visible label and the callback
// tag sent back when pressed.
type Button struct {
	Label string
	Data  string
}

// Reply is a transport-neutral outbound message. PhotoURL switches the
// rendering from plain text to photo-with-caption.
type Reply struct {
	Text     string
	PhotoURL string
	Keyboard [][]Button
}

// MessageRef identifies a sent message so it can be removed later.
type MessageRef int

// Gateway is the messaging transport as seen by the dispatcher.
type Gateway interface {
	Send(userID int64, reply Reply) (MessageRef, error)
	Delete(userID int64, ref MessageRef) error
}
