package intake

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DavidK2709/dcbot/internal/domain"
	"github.com/DavidK2709/dcbot/internal/events"
	"github.com/DavidK2709/dcbot/internal/platform"
	"github.com/DavidK2709/dcbot/internal/registry"
	"github.com/DavidK2709/dcbot/internal/render"
	"github.com/DavidK2709/dcbot/pkg/util"
)

// Service creates tickets and their channels from intake submissions.
type Service struct {
	registry    *registry.Registry
	client      platform.Client
	departments map[string]domain.Department
	catalog     domain.ReasonCatalog
	adminRoles  []string
	rescueRoles []string
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

func NewService(
	reg *registry.Registry,
	client platform.Client,
	departments map[string]domain.Department,
	catalog domain.ReasonCatalog,
	adminRoles, rescueRoles []string,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *Service {
	return &Service{
		registry:    reg,
		client:      client,
		departments: departments,
		catalog:     catalog,
		adminRoles:  adminRoles,
		rescueRoles: rescueRoles,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// CreateFromMessage handles a structured intake message. A submission
// that fails validation is dropped silently towards the platform; the
// rejection is only logged.
func (s *Service) CreateFromMessage(ctx context.Context, msg *platform.Message) {
	sub, err := ParseMessage(msg.Content, s.departments)
	if err != nil {
		s.logger.Info("intake message rejected",
			zap.String("messageId", msg.ID),
			zap.Error(err))
		return
	}
	if _, err := s.create(ctx, sub, nil); err != nil {
		s.logger.Error("ticket creation from message failed",
			zap.String("messageId", msg.ID),
			zap.Error(err))
	}
}

// CreateFromForm handles a manual form submission for the given
// department. Validation failures are reported back to the acting user.
func (s *Service) CreateFromForm(ctx context.Context, inter *platform.Interaction, departmentName string) error {
	dept, ok := s.departments[departmentName]
	if !ok {
		return util.NewValidationError("Unbekannte Abteilung: "+departmentName, nil)
	}
	sub, err := ParseForm(inter.Values, dept)
	if err != nil {
		return err
	}
	channelID, err := s.create(ctx, sub, &inter.ActorMention)
	if err != nil {
		return err
	}
	return s.client.Respond(ctx, inter.ID, "Behandlungsanfrage erstellt: <#"+channelID+">")
}

// create provisions the channel, registers the ticket and posts the
// initial render. A failed initial post rolls the channel back so no
// ticket exists without its message.
func (s *Service) create(ctx context.Context, sub *Submission, createdBy *string) (string, error) {
	ticket := domain.NewTicket(sub.Department.Name, sub.DepartmentMention,
		sub.Reason, sub.Subject, sub.Phone, sub.Notes)
	ticket.CreatedBy = createdBy
	if info, ok := s.catalog[sub.Reason]; ok {
		price := info.Price
		ticket.Price = &price
	}
	if sub.InitialDate != "" && sub.InitialTime != "" {
		ticket.AppointmentDate = &sub.InitialDate
		ticket.AppointmentTime = &sub.InitialTime
	}

	channel, err := s.client.CreateChannel(ctx, platform.CreateChannelInput{
		Name:       render.ChannelName(ticket, s.catalog),
		ParentID:   sub.Department.CategoryID,
		Overwrites: s.overwrites(sub.Department, ticket),
	})
	if err != nil {
		return "", err
	}

	s.registry.Set(channel.ID, ticket)

	msg, err := s.client.SendMessage(ctx, channel.ID,
		withMention(render.Message(ticket, s.catalog), sub.DepartmentMention))
	if err != nil {
		s.logger.Error("initial ticket message failed, rolling back channel",
			zap.String("channelId", channel.ID),
			zap.Error(err))
		s.registry.Delete(channel.ID)
		if delErr := s.client.DeleteChannel(ctx, channel.ID); delErr != nil {
			s.logger.Error("channel rollback failed",
				zap.String("channelId", channel.ID),
				zap.Error(delErr))
		}
		return "", err
	}

	ticket.RenderedMessageID = msg.ID
	s.registry.Set(channel.ID, ticket)

	actor := domain.Unspecified
	if createdBy != nil {
		actor = *createdBy
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketCreated,
		ChannelID: channel.ID,
		Actor:     actor,
		Timestamp: time.Now(),
		Ticket:    ticket.Clone(),
	})

	s.logger.Info("ticket created",
		zap.String("channelId", channel.ID),
		zap.String("department", ticket.Department),
		zap.String("reason", ticket.Reason))
	return channel.ID, nil
}

// overwrites builds the channel permission set: hidden from everyone,
// visible to the department, and for manual tickets additionally to the
// rescue roles. Admin roles always see the channel.
func (s *Service) overwrites(dept domain.Department, ticket *domain.Ticket) []platform.PermissionOverwrite {
	over := []platform.PermissionOverwrite{
		{RoleID: "", Deny: []platform.Permission{platform.PermissionView}},
		{RoleID: dept.MemberRoleID, Allow: []platform.Permission{platform.PermissionView, platform.PermissionSend}},
	}
	if !ticket.IsAutomatic(s.catalog) {
		for _, role := range s.rescueRoles {
			over = append(over, platform.PermissionOverwrite{
				RoleID: role,
				Allow:  []platform.Permission{platform.PermissionView, platform.PermissionSend},
			})
		}
	}
	for _, role := range s.adminRoles {
		over = append(over, platform.PermissionOverwrite{
			RoleID: role,
			Allow:  []platform.Permission{platform.PermissionView, platform.PermissionSend},
		})
	}
	return over
}

func withMention(msg platform.Outgoing, mention string) platform.Outgoing {
	if mention != "" && mention != domain.Unspecified {
		msg.Content = "Eine neue Behandlungsanfrage (" + mention + ")"
	} else {
		msg.Content = "Eine neue Behandlungsanfrage"
	}
	return msg
}
