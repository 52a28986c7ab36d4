package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/DavidK2709/dcbot/internal/domain"
	"github.com/DavidK2709/dcbot/internal/registry"
	"github.com/DavidK2709/dcbot/pkg/util"
)

// TicketsHandler serves read-only views of the live registry.
type TicketsHandler struct {
	registry *registry.Registry
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(reg *registry.Registry) *TicketsHandler {
	return &TicketsHandler{registry: reg}
}

// List GET /tickets. Supports ?status=OPEN|CLOSED and ?department=.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	statusFilter := strings.ToUpper(c.Query("status"))
	departmentFilter := c.Query("department")

	entries := h.registry.List()
	items := make([]fiber.Map, 0, len(entries))
	for _, entry := range entries {
		ticket := entry.Data
		if statusFilter != "" && string(ticket.Status) != statusFilter {
			continue
		}
		if departmentFilter != "" && ticket.Department != departmentFilter {
			continue
		}
		items = append(items, ticketSummary(entry.ID, &ticket))
	}

	return c.JSON(fiber.Map{
		"data":  items,
		"total": len(items),
	})
}

// Get GET /tickets/:channelId.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	channelID := c.Params("channelId")
	ticket := h.registry.Get(channelID)
	if ticket == nil {
		return util.NewNotFound("ticket", map[string]any{"channelId": channelID})
	}
	return c.JSON(fiber.Map{"data": ticketDetail(channelID, ticket)})
}

func ticketSummary(channelID string, t *domain.Ticket) fiber.Map {
	return fiber.Map{
		"channelId":  channelID,
		"department": t.Department,
		"subject":    t.Subject,
		"reason":     t.Reason,
		"status":     t.Status,
		"assignedTo": t.AssigneeNames,
	}
}

func ticketDetail(channelID string, t *domain.Ticket) fiber.Map {
	return fiber.Map{
		"channelId":             channelID,
		"department":            t.Department,
		"subject":               t.Subject,
		"reason":                t.Reason,
		"phone":                 t.Phone,
		"notes":                 t.Notes,
		"status":                t.Status,
		"createdBy":             t.CreatedBy,
		"assignedTo":            t.AssignedTo,
		"assigneeNames":         t.AssigneeNames,
		"callAttempted":         t.CallAttempted,
		"appointmentDate":       t.AppointmentDate,
		"appointmentTime":       t.AppointmentTime,
		"appointmentCompleted":  t.AppointmentCompleted,
		"completedAppointments": t.CompletedAppointments,
		"caseFileLink":          t.CaseFileLink,
		"fileIssued":            t.FileIssued,
		"price":                 t.Price,
		"justReset":             t.JustReset,
	}
}
