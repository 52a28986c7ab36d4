package registry

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DavidK2709/dcbot/internal/domain"
	"github.com/DavidK2709/dcbot/internal/platform"
	"github.com/DavidK2709/dcbot/internal/store"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	dir := t.TempDir()
	st := store.New(
		filepath.Join(dir, "tickets.json"),
		filepath.Join(dir, "archive.json"),
		filepath.Join(dir, "backups"),
		zap.NewNop(),
	)
	return New(st, domain.ReasonCatalog{}, zap.NewNop(), Options{
		BatchSize:  2,
		BatchPause: time.Millisecond,
		MaxRetries: 2,
	})
}

func TestSetPersistsSnapshot(t *testing.T) {
	reg := newTestRegistry(t)

	reg.Set("chan-1", domain.NewTicket("Station", "", "Husten", "Jane", "", ""))
	reg.Set("chan-2", domain.NewTicket("Station", "", "Angst", "John", "", ""))

	entries := reg.store.Load()
	require.Len(t, entries, 2)

	reg.Delete("chan-1")
	entries = reg.store.Load()
	require.Len(t, entries, 1)
	assert.Equal(t, "chan-2", entries[0].ID)
}

func TestListReturnsDeepCopies(t *testing.T) {
	reg := newTestRegistry(t)
	reg.Set("chan-1", domain.NewTicket("Station", "", "Husten", "Jane", "", ""))

	entries := reg.List()
	require.Len(t, entries, 1)
	entries[0].Data.Subject = "mutated"

	assert.Equal(t, "Jane", reg.Get("chan-1").Subject)
}

func TestInitializeDropsVanishedChannels(t *testing.T) {
	reg := newTestRegistry(t)
	client := platform.NewInMemoryClient()

	// chan-live exists on the platform, chan-gone does not.
	client.SeedChannel(platform.Channel{ID: "chan-live", Name: "old-name"})
	reg.Set("chan-live", domain.NewTicket("Station", "", "Husten", "Jane", "", ""))
	reg.Set("chan-gone", domain.NewTicket("Station", "", "Angst", "John", "", ""))

	// Simulate a restart: fresh registry over the same store.
	restarted := New(reg.store, domain.ReasonCatalog{}, zap.NewNop(), Options{
		BatchSize:  2,
		BatchPause: time.Millisecond,
		MaxRetries: 2,
	})
	restarted.Initialize(context.Background(), client)

	assert.NotNil(t, restarted.Get("chan-live"))
	assert.Nil(t, restarted.Get("chan-gone"))

	entries := restarted.store.Load()
	require.Len(t, entries, 1)
	assert.Equal(t, "chan-live", entries[0].ID)
}

// throttledClient answers one channel with rate limits until the
// retries run out, as a congested platform would.
type throttledClient struct {
	*platform.InMemoryClient
	throttledID string
}

func (c *throttledClient) FetchChannel(ctx context.Context, channelID string) (*platform.Channel, error) {
	if channelID == c.throttledID {
		return nil, &platform.RateLimitError{RetryAfter: time.Millisecond}
	}
	return c.InMemoryClient.FetchChannel(ctx, channelID)
}

func TestInitializeKeepsTicketWhenFetchKeepsFailing(t *testing.T) {
	reg := newTestRegistry(t)
	base := platform.NewInMemoryClient()
	base.SeedChannel(platform.Channel{ID: "chan-ok", Name: "ok"})
	base.SeedChannel(platform.Channel{ID: "chan-throttled", Name: "throttled"})
	reg.Set("chan-ok", domain.NewTicket("Station", "", "Husten", "Jane", "", ""))
	reg.Set("chan-throttled", domain.NewTicket("Station", "", "Angst", "John", "", ""))

	restarted := New(reg.store, domain.ReasonCatalog{}, zap.NewNop(), Options{
		BatchSize: 2, BatchPause: time.Millisecond, MaxRetries: 2,
	})
	restarted.Initialize(context.Background(), &throttledClient{
		InMemoryClient: base, throttledID: "chan-throttled",
	})

	// Exhausted retries abandon the refresh, never the ticket.
	require.NotNil(t, restarted.Get("chan-throttled"))

	entries := restarted.store.Load()
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}
	assert.Contains(t, ids, "chan-ok")
	assert.Contains(t, ids, "chan-throttled")
}

func TestInitializeRefreshesRenderedMessage(t *testing.T) {
	reg := newTestRegistry(t)
	client := platform.NewInMemoryClient()
	client.SeedChannel(platform.Channel{ID: "chan-1", Name: "old"})

	ticket := domain.NewTicket("Station", "", "Husten", "Jane", "", "")
	ticket.RenderedMessageID = "gone-message"
	reg.Set("chan-1", ticket)

	restarted := New(reg.store, domain.ReasonCatalog{}, zap.NewNop(), Options{
		BatchSize: 1, BatchPause: time.Millisecond, MaxRetries: 2,
	})
	restarted.Initialize(context.Background(), client)

	// The stale message reference was replaced by a freshly sent one.
	refreshed := restarted.Get("chan-1")
	require.NotNil(t, refreshed)
	assert.NotEmpty(t, refreshed.RenderedMessageID)
	assert.NotEqual(t, "gone-message", refreshed.RenderedMessageID)

	msgs, err := client.FetchMessages(context.Background(), "chan-1", 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.NotNil(t, msgs[0].Embed)
}

func TestUpdateRenderedMessageEditsExisting(t *testing.T) {
	reg := newTestRegistry(t)
	client := platform.NewInMemoryClient()
	client.SeedChannel(platform.Channel{ID: "chan-1"})

	ticket := domain.NewTicket("Station", "", "Husten", "Jane", "", "")
	require.NoError(t, reg.UpdateRenderedMessage(context.Background(), client, "chan-1", ticket))
	firstID := ticket.RenderedMessageID
	require.NotEmpty(t, firstID)

	ticket.CallAttempted = true
	require.NoError(t, reg.UpdateRenderedMessage(context.Background(), client, "chan-1", ticket))
	assert.Equal(t, firstID, ticket.RenderedMessageID, "existing embed message is edited in place")

	msgs, err := client.FetchMessages(context.Background(), "chan-1", 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestUpdateChannelNameSkipsVanishedChannel(t *testing.T) {
	reg := newTestRegistry(t)
	client := platform.NewInMemoryClient()

	// Must not panic or create anything.
	reg.UpdateChannelName(context.Background(), client, "nope", domain.NewTicket("Station", "", "Husten", "Jane", "", ""))

	_, err := client.FetchChannel(context.Background(), "nope")
	assert.ErrorIs(t, err, platform.ErrNotFound)
}
