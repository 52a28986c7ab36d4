package platform

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryClient is a Client backed by process-local state. It serves
// tests and dry-run deployments where no real gateway is attached;
// production wiring swaps in a gateway adapter behind the same
// interface.
type InMemoryClient struct {
	mu       sync.Mutex
	channels map[string]*Channel
	messages map[string][]*Message
	perms    map[string][]PermissionOverwrite
	members  []Member
	forms    map[string]Form
	events   chan Event
}

// NewInMemoryClient constructs an empty in-memory platform.
func NewInMemoryClient() *InMemoryClient {
	return &InMemoryClient{
		channels: make(map[string]*Channel),
		messages: make(map[string][]*Message),
		perms:    make(map[string][]PermissionOverwrite),
		forms:    make(map[string]Form),
		events:   make(chan Event, 64),
	}
}

// SeedMembers installs the guild member list.
func (c *InMemoryClient) SeedMembers(members []Member) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.members = append([]Member{}, members...)
}

// SeedChannel installs a pre-existing channel.
func (c *InMemoryClient) SeedChannel(ch Channel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := ch
	c.channels[ch.ID] = &copied
}

// Emit injects an inbound event, as the gateway would.
func (c *InMemoryClient) Emit(event Event) {
	c.events <- event
}

func (c *InMemoryClient) CreateChannel(_ context.Context, input CreateChannelInput) (*Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := &Channel{
		ID:       uuid.NewString(),
		Name:     input.Name,
		ParentID: input.ParentID,
	}
	c.channels[ch.ID] = ch
	c.perms[ch.ID] = append([]PermissionOverwrite{}, input.Overwrites...)
	return &Channel{ID: ch.ID, Name: ch.Name, ParentID: ch.ParentID}, nil
}

func (c *InMemoryClient) FetchChannel(_ context.Context, channelID string) (*Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := c.channels[channelID]
	if !ok {
		return nil, ErrNotFound
	}
	return &Channel{ID: ch.ID, Name: ch.Name, ParentID: ch.ParentID}, nil
}

func (c *InMemoryClient) RenameChannel(_ context.Context, channelID, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := c.channels[channelID]
	if !ok {
		return ErrNotFound
	}
	ch.Name = name
	return nil
}

func (c *InMemoryClient) DeleteChannel(_ context.Context, channelID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.channels[channelID]; !ok {
		return ErrNotFound
	}
	delete(c.channels, channelID)
	delete(c.messages, channelID)
	delete(c.perms, channelID)
	return nil
}

func (c *InMemoryClient) SetPermission(_ context.Context, channelID string, overwrite PermissionOverwrite) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.channels[channelID]; !ok {
		return ErrNotFound
	}
	for i, existing := range c.perms[channelID] {
		if existing.RoleID == overwrite.RoleID {
			c.perms[channelID][i] = overwrite
			return nil
		}
	}
	c.perms[channelID] = append(c.perms[channelID], overwrite)
	return nil
}

func (c *InMemoryClient) SendMessage(_ context.Context, channelID string, msg Outgoing) (*Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.channels[channelID]; !ok {
		return nil, ErrNotFound
	}
	stored := &Message{
		ID:         uuid.NewString(),
		ChannelID:  channelID,
		Content:    msg.Content,
		Embed:      msg.Embed,
		HasButtons: len(msg.Buttons) > 0,
	}
	c.messages[channelID] = append(c.messages[channelID], stored)
	copied := *stored
	return &copied, nil
}

func (c *InMemoryClient) EditMessage(_ context.Context, channelID, messageID string, msg Outgoing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, stored := range c.messages[channelID] {
		if stored.ID == messageID {
			if msg.Content != "" {
				stored.Content = msg.Content
			}
			stored.Embed = msg.Embed
			stored.HasButtons = len(msg.Buttons) > 0
			return nil
		}
	}
	return ErrNotFound
}

func (c *InMemoryClient) FetchMessage(_ context.Context, channelID, messageID string) (*Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, stored := range c.messages[channelID] {
		if stored.ID == messageID {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (c *InMemoryClient) FetchMessages(_ context.Context, channelID string, limit int) ([]Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.channels[channelID]; !ok {
		return nil, ErrNotFound
	}
	stored := c.messages[channelID]
	if limit > 0 && len(stored) > limit {
		stored = stored[len(stored)-limit:]
	}
	result := make([]Message, 0, len(stored))
	for _, msg := range stored {
		result = append(result, *msg)
	}
	return result, nil
}

func (c *InMemoryClient) DeleteMessage(_ context.Context, channelID, messageID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	msgs := c.messages[channelID]
	for i, stored := range msgs {
		if stored.ID == messageID {
			c.messages[channelID] = append(msgs[:i], msgs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (c *InMemoryClient) FetchMembers(_ context.Context) ([]Member, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Member{}, c.members...), nil
}

func (c *InMemoryClient) OpenForm(_ context.Context, interactionID string, form Form) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forms[interactionID] = form
	return nil
}

func (c *InMemoryClient) Respond(_ context.Context, _, _ string) error {
	return nil
}

func (c *InMemoryClient) Events() <-chan Event {
	return c.events
}

// Overwrites returns the current permission overwrites of a channel,
// for tests.
func (c *InMemoryClient) Overwrites(channelID string) []PermissionOverwrite {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]PermissionOverwrite{}, c.perms[channelID]...)
}

// OpenedForm returns the form last opened for an interaction, for tests.
func (c *InMemoryClient) OpenedForm(interactionID string) (Form, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	form, ok := c.forms[interactionID]
	return form, ok
}
