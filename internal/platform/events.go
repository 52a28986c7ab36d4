package platform

// EventType enumerates inbound platform events.
type EventType string

const (
	EventReady          EventType = "ready"
	EventMessageCreated EventType = "message_created"
	EventChannelCreated EventType = "channel_created"
	EventButtonClicked  EventType = "button_clicked"
	EventFormSubmitted  EventType = "form_submitted"
)

// Interaction carries the context of a button click or form submission.
type Interaction struct {
	ID           string
	ChannelID    string
	ActorID      string
	ActorMention string
	ActorRoles   []string
	ActionID     string
	Values       map[string]string
}

// Event is one inbound platform event. Exactly one payload field is set
// depending on Type.
type Event struct {
	Type        EventType
	Message     *Message
	Channel     *Channel
	Interaction *Interaction
}
