// Package registry holds the live tickets keyed by channel id. It is
// the single source of truth at runtime; every mutation snapshots the
// whole registry to disk.
package registry

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/DavidK2709/dcbot/internal/domain"
	"github.com/DavidK2709/dcbot/internal/platform"
	"github.com/DavidK2709/dcbot/internal/render"
	"github.com/DavidK2709/dcbot/internal/store"
)

// Options tunes startup reconciliation.
type Options struct {
	BatchSize  int
	BatchPause time.Duration
	MaxRetries int
}

// Registry is the in-memory ticket collection with save-on-mutate
// persistence. File writes snapshot the whole registry; concurrent
// mutations interleave with last-write-wins for the file, which is
// accepted at this scale rather than guarded transactionally.
type Registry struct {
	mu      sync.RWMutex
	tickets map[string]*domain.Ticket

	store   *store.Store
	catalog domain.ReasonCatalog
	logger  *zap.Logger
	opts    Options
}

// New constructs an empty registry over the given store.
func New(st *store.Store, catalog domain.ReasonCatalog, logger *zap.Logger, opts Options) *Registry {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 10
	}
	if opts.BatchPause <= 0 {
		opts.BatchPause = time.Second
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	return &Registry{
		tickets: make(map[string]*domain.Ticket),
		store:   st,
		catalog: catalog,
		logger:  logger,
		opts:    opts,
	}
}

// Get returns the live ticket for a channel, or nil.
func (r *Registry) Get(channelID string) *domain.Ticket {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tickets[channelID]
}

// Set stores the ticket and persists the snapshot.
func (r *Registry) Set(channelID string, ticket *domain.Ticket) {
	r.mu.Lock()
	r.tickets[channelID] = ticket
	entries := r.entriesLocked()
	r.mu.Unlock()
	r.persist(entries)
}

// Delete removes the ticket and persists the snapshot.
func (r *Registry) Delete(channelID string) {
	r.mu.Lock()
	delete(r.tickets, channelID)
	entries := r.entriesLocked()
	r.mu.Unlock()
	r.persist(entries)
}

// Archive records the ticket in the deletion archive before it is
// removed from the registry.
func (r *Registry) Archive(channelID string, ticket *domain.Ticket) {
	if err := r.store.Archive(channelID, *ticket.Clone()); err != nil {
		r.logger.Warn("ticket archive failed",
			zap.String("channelId", channelID), zap.Error(err))
	}
}

// List returns a stable snapshot of all tickets, deep-copied.
func (r *Registry) List() []store.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]store.Entry, 0, len(r.tickets))
	for id, ticket := range r.tickets {
		entries = append(entries, store.Entry{ID: id, Data: *ticket.Clone()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

// Len returns the number of live tickets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tickets)
}

// Initialize loads the snapshot and reconciles every entry against the
// live platform: tickets whose channel vanished are dropped, surviving
// tickets get their rendered message refreshed and their channel renamed
// asynchronously. One ticket's failure never blocks the rest.
func (r *Registry) Initialize(ctx context.Context, client platform.Client) {
	entries := r.store.Load()
	if len(entries) == 0 {
		r.logger.Info("no tickets to initialize")
		return
	}

	for start := 0; start < len(entries); start += r.opts.BatchSize {
		end := start + r.opts.BatchSize
		if end > len(entries) {
			end = len(entries)
		}

		var wg sync.WaitGroup
		for _, entry := range entries[start:end] {
			wg.Add(1)
			go func(entry store.Entry) {
				defer wg.Done()
				r.reconcile(ctx, client, entry)
			}(entry)
		}
		wg.Wait()

		if end < len(entries) {
			select {
			case <-ctx.Done():
				return
			case <-time.After(r.opts.BatchPause):
			}
		}
	}
	r.logger.Info("ticket initialization complete", zap.Int("count", r.Len()))
}

func (r *Registry) reconcile(ctx context.Context, client platform.Client, entry store.Entry) {
	ticket := entry.Data
	channelID := entry.ID

	var channelErr error
	err := platform.WithRetry(ctx, r.logger, r.opts.MaxRetries, func() error {
		_, channelErr = client.FetchChannel(ctx, channelID)
		if errors.Is(channelErr, platform.ErrNotFound) {
			return nil
		}
		return channelErr
	})
	if errors.Is(channelErr, platform.ErrNotFound) {
		r.logger.Warn("channel gone, dropping ticket", zap.String("channel_id", channelID))
		r.Delete(channelID)
		return
	}
	if err != nil {
		// Only a vanished channel may drop a ticket. Any other failure
		// keeps it registered so the next snapshot write retains it;
		// render and rename are skipped until the channel answers again.
		r.Set(channelID, &ticket)
		r.logger.Error("failed to fetch channel, keeping ticket unrefreshed",
			zap.String("channel_id", channelID), zap.Error(err))
		return
	}

	r.Set(channelID, &ticket)

	if err := platform.WithRetry(ctx, r.logger, r.opts.MaxRetries, func() error {
		return r.UpdateRenderedMessage(ctx, client, channelID, &ticket)
	}); err != nil {
		r.logger.Warn("rendered message refresh failed, continuing",
			zap.String("channel_id", channelID), zap.Error(err))
	}

	go func() {
		if err := platform.WithRetry(ctx, r.logger, r.opts.MaxRetries, func() error {
			return client.RenameChannel(ctx, channelID, render.ChannelName(&ticket, r.catalog))
		}); err != nil {
			r.logger.Warn("channel rename abandoned",
				zap.String("channel_id", channelID), zap.Error(err))
		}
	}()
}

// UpdateRenderedMessage re-renders the ticket's embed message, creating
// a fresh one when the old message is gone or carries no embed. The
// ticket's rendered-message reference is updated (and persisted) when a
// new message had to be sent.
func (r *Registry) UpdateRenderedMessage(ctx context.Context, client platform.Client, channelID string, ticket *domain.Ticket) error {
	outgoing := render.Message(ticket, r.catalog)

	if ticket.RenderedMessageID != "" {
		msg, err := client.FetchMessage(ctx, channelID, ticket.RenderedMessageID)
		if err == nil && msg.Embed != nil {
			return client.EditMessage(ctx, channelID, ticket.RenderedMessageID, outgoing)
		}
		if err != nil && !errors.Is(err, platform.ErrNotFound) {
			return err
		}
	}

	sent, err := client.SendMessage(ctx, channelID, outgoing)
	if err != nil {
		return err
	}
	ticket.RenderedMessageID = sent.ID
	r.Set(channelID, ticket)
	return nil
}

// UpdateChannelName renames the channel to match the ticket state. A
// vanished channel is logged and skipped, never an error to the caller.
func (r *Registry) UpdateChannelName(ctx context.Context, client platform.Client, channelID string, ticket *domain.Ticket) {
	name := render.ChannelName(ticket, r.catalog)
	if err := client.RenameChannel(ctx, channelID, name); err != nil {
		if errors.Is(err, platform.ErrNotFound) {
			r.logger.Warn("channel gone, skipping rename", zap.String("channel_id", channelID))
			return
		}
		r.logger.Error("failed to rename channel",
			zap.String("channel_id", channelID), zap.Error(err))
	}
}

// Catalog exposes the reason catalog the registry renders with.
func (r *Registry) Catalog() domain.ReasonCatalog {
	return r.catalog
}

func (r *Registry) entriesLocked() []store.Entry {
	entries := make([]store.Entry, 0, len(r.tickets))
	for id, ticket := range r.tickets {
		entries = append(entries, store.Entry{ID: id, Data: *ticket})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

func (r *Registry) persist(entries []store.Entry) {
	if err := r.store.Save(entries); err != nil {
		r.logger.Error("failed to persist tickets", zap.Error(err))
	}
}
