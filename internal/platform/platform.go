// Package platform defines the narrow boundary to the chat platform.
// Everything behind Client is a fallible remote call; the bot core never
// assumes a call succeeds.
package platform

import "context"

// Channel is a live platform channel.
type Channel struct {
	ID       string
	Name     string
	ParentID string
}

// Member is a guild member as seen by the bot.
type Member struct {
	UserID      string
	DisplayName string
}

// EmbedField is one name/value pair inside an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Embed is the structured rich-message payload.
type Embed struct {
	Title  string       `json:"title"`
	Color  int          `json:"color"`
	Fields []EmbedField `json:"fields"`
}

// ButtonStyle selects the visual treatment of a button.
type ButtonStyle string

const (
	ButtonPrimary   ButtonStyle = "primary"
	ButtonSecondary ButtonStyle = "secondary"
	ButtonSuccess   ButtonStyle = "success"
	ButtonDanger    ButtonStyle = "danger"
)

// Button is one interactive action component.
type Button struct {
	ActionID string
	Label    string
	Style    ButtonStyle
	Disabled bool
}

// ButtonRow groups up to five buttons on one line.
type ButtonRow struct {
	Buttons []Button
}

// Outgoing is a message payload for send/edit operations.
type Outgoing struct {
	Content string
	Embed   *Embed
	Buttons []ButtonRow
}

// Message is a message as fetched from the platform.
type Message struct {
	ID         string
	ChannelID  string
	AuthorID   string
	Content    string
	Embed      *Embed
	HasButtons bool
}

// FormInput is one text field inside a form.
type FormInput struct {
	ID          string
	Label       string
	Required    bool
	Paragraph   bool
	Value       string
	Placeholder string
}

// Form is a structured input request shown to the acting user.
type Form struct {
	ID     string
	Title  string
	Inputs []FormInput
}

// Permission names a channel capability that can be granted or revoked
// per role.
type Permission string

const (
	PermissionView Permission = "view"
	PermissionSend Permission = "send"
)

// PermissionOverwrite grants or denies permissions for one role. The
// zero role id addresses the everyone role.
type PermissionOverwrite struct {
	RoleID string
	Allow  []Permission
	Deny   []Permission
}

// CreateChannelInput describes a new channel.
type CreateChannelInput struct {
	Name       string
	ParentID   string
	Overwrites []PermissionOverwrite
}

// Client is the outbound platform surface. All calls are remote and may
// fail with ErrNotFound, *RateLimitError or transport errors.
type Client interface {
	CreateChannel(ctx context.Context, input CreateChannelInput) (*Channel, error)
	FetchChannel(ctx context.Context, channelID string) (*Channel, error)
	RenameChannel(ctx context.Context, channelID, name string) error
	DeleteChannel(ctx context.Context, channelID string) error
	SetPermission(ctx context.Context, channelID string, overwrite PermissionOverwrite) error

	SendMessage(ctx context.Context, channelID string, msg Outgoing) (*Message, error)
	EditMessage(ctx context.Context, channelID, messageID string, msg Outgoing) error
	FetchMessage(ctx context.Context, channelID, messageID string) (*Message, error)
	FetchMessages(ctx context.Context, channelID string, limit int) ([]Message, error)
	DeleteMessage(ctx context.Context, channelID, messageID string) error

	FetchMembers(ctx context.Context) ([]Member, error)

	OpenForm(ctx context.Context, interactionID string, form Form) error
	Respond(ctx context.Context, interactionID, content string) error

	Events() <-chan Event
}
