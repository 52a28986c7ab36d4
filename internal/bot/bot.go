// Package bot runs the inbound event loop: startup reconciliation,
// intake messages and component interactions.
package bot

import (
	"context"

	"go.uber.org/zap"

	"github.com/DavidK2709/dcbot/internal/config"
	"github.com/DavidK2709/dcbot/internal/handlers"
	"github.com/DavidK2709/dcbot/internal/intake"
	"github.com/DavidK2709/dcbot/internal/platform"
	"github.com/DavidK2709/dcbot/internal/registry"
)

// Bot wires the platform event stream to intake and handlers.
type Bot struct {
	client   platform.Client
	registry *registry.Registry
	intake   *intake.Service
	env      *handlers.Env
	cfg      config.BotConfig
	logger   *zap.Logger
}

func New(
	client platform.Client,
	reg *registry.Registry,
	intakeSvc *intake.Service,
	env *handlers.Env,
	cfg config.BotConfig,
	logger *zap.Logger,
) *Bot {
	return &Bot{
		client:   client,
		registry: reg,
		intake:   intakeSvc,
		env:      env,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run consumes the event stream until the context is cancelled or the
// stream closes. No single event may take the loop down.
func (b *Bot) Run(ctx context.Context) {
	events := b.client.Events()
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("event loop stopped")
			return
		case event, ok := <-events:
			if !ok {
				b.logger.Info("event stream closed")
				return
			}
			b.handle(ctx, event)
		}
	}
}

func (b *Bot) handle(ctx context.Context, event platform.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("type", string(event.Type)),
				zap.Any("panic", r))
		}
	}()

	switch event.Type {
	case platform.EventReady:
		b.onReady(ctx)
	case platform.EventMessageCreated:
		b.onMessage(ctx, event.Message)
	case platform.EventButtonClicked, platform.EventFormSubmitted:
		if event.Interaction != nil {
			b.env.Dispatch(ctx, event.Interaction)
		}
	}
}

func (b *Bot) onReady(ctx context.Context) {
	b.logger.Info("platform ready, reconciling tickets",
		zap.Int("tickets", b.registry.Len()))
	b.registry.Initialize(ctx, b.client)
	b.ensureFormMessage(ctx)
}

// onMessage feeds structured intake messages into ticket creation. Only
// the configured intake author in the trigger channel qualifies.
func (b *Bot) onMessage(ctx context.Context, msg *platform.Message) {
	if msg == nil || msg.ChannelID != b.cfg.TriggerChannelID {
		return
	}
	if b.cfg.IntakeAuthorID != "" && msg.AuthorID != b.cfg.IntakeAuthorID {
		return
	}
	b.intake.CreateFromMessage(ctx, msg)
}
