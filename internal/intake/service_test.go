package intake

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DavidK2709/dcbot/internal/domain"
	"github.com/DavidK2709/dcbot/internal/events"
	"github.com/DavidK2709/dcbot/internal/platform"
	"github.com/DavidK2709/dcbot/internal/registry"
	"github.com/DavidK2709/dcbot/internal/store"
)

func newTestService(t *testing.T, catalog domain.ReasonCatalog) (*Service, *registry.Registry, *platform.InMemoryClient) {
	t.Helper()
	dir := t.TempDir()
	st := store.New(
		filepath.Join(dir, "tickets.json"),
		filepath.Join(dir, "archive.json"),
		filepath.Join(dir, "backups"),
		zap.NewNop(),
	)
	reg := registry.New(st, catalog, zap.NewNop(), registry.Options{})
	client := platform.NewInMemoryClient()
	svc := NewService(reg, client, testDepartments(), catalog,
		[]string{"admin-role"}, []string{"rescue-role"},
		events.NewInMemoryDispatcher(), zap.NewNop())
	return svc, reg, client
}

func TestCreateFromMessage(t *testing.T) {
	catalog := domain.ReasonCatalog{
		"ticket_arbeitsmedizinisches_pol": {
			InternalKey: "gutachten-polizei-patient",
			DisplayName: "Arbeitsmedizinisches Gutachten Polizeibewerber",
			Price:       5000,
		},
	}
	svc, reg, client := newTestService(t, catalog)

	content := "> **Abteilung:** <@&700>\n" +
		"> **Grund:** ticket_arbeitsmedizinisches_pol\n" +
		"> **Patient:** Jane Doe\n" +
		"> **Telefon:** 0152\n"
	svc.CreateFromMessage(context.Background(), &platform.Message{ID: "m1", Content: content})

	entries := reg.List()
	require.Len(t, entries, 1)
	ticket := entries[0].Data

	assert.Equal(t, "Station", ticket.Department)
	assert.Equal(t, "Jane Doe", ticket.Subject)
	require.NotNil(t, ticket.Price, "catalog price is seeded on creation")
	assert.Equal(t, 5000, *ticket.Price)
	assert.Nil(t, ticket.CreatedBy)
	assert.NotEmpty(t, ticket.RenderedMessageID)

	// Initial render is present in the fresh channel.
	msgs, err := client.FetchMessages(context.Background(), entries[0].ID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Content, "<@&700>")
	require.NotNil(t, msgs[0].Embed)
	assert.True(t, msgs[0].HasButtons)

	ch, err := client.FetchChannel(context.Background(), entries[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "cat-1", ch.ParentID)
	assert.Contains(t, ch.Name, "gutachten-polizei")
}

func TestCreateFromMessageRejectsSilently(t *testing.T) {
	svc, reg, _ := newTestService(t, domain.ReasonCatalog{})

	svc.CreateFromMessage(context.Background(), &platform.Message{
		ID:      "m1",
		Content: "> **Grund:** Husten\n",
	})

	assert.Zero(t, reg.Len())
}

func TestCreateFromForm(t *testing.T) {
	svc, reg, client := newTestService(t, domain.ReasonCatalog{})

	err := svc.CreateFromForm(context.Background(), &platform.Interaction{
		ID:           "i1",
		ActorMention: "<@55>",
		Values: map[string]string{
			"grund":   "Husten",
			"patient": "Jane",
			"telefon": "0152",
		},
	}, "Station")
	require.NoError(t, err)

	entries := reg.List()
	require.Len(t, entries, 1)
	ticket := entries[0].Data
	require.NotNil(t, ticket.CreatedBy)
	assert.Equal(t, "<@55>", *ticket.CreatedBy)
	assert.Nil(t, ticket.Price, "manual tickets have no seeded price")

	_, err = client.FetchChannel(context.Background(), entries[0].ID)
	assert.NoError(t, err)
}

func TestCreateFromFormUnknownDepartment(t *testing.T) {
	svc, reg, _ := newTestService(t, domain.ReasonCatalog{})

	err := svc.CreateFromForm(context.Background(), &platform.Interaction{
		ID:     "i1",
		Values: map[string]string{"grund": "x", "patient": "y", "telefon": "z"},
	}, "Nope")
	require.Error(t, err)
	assert.Zero(t, reg.Len())
}

func TestCreateSeedsInitialAppointment(t *testing.T) {
	svc, reg, _ := newTestService(t, domain.ReasonCatalog{})

	content := "> **Abteilung:** Station\n" +
		"> **Grund:** Husten\n" +
		"> **Patient:** Jane\n" +
		"> **Datum:** 31.05.2025\n" +
		"> **Uhrzeit:** 18:00\n"
	svc.CreateFromMessage(context.Background(), &platform.Message{ID: "m1", Content: content})

	entries := reg.List()
	require.Len(t, entries, 1)
	ticket := entries[0].Data
	require.NotNil(t, ticket.AppointmentDate)
	assert.Equal(t, "31.05.2025", *ticket.AppointmentDate)
	assert.Equal(t, "18:00", *ticket.AppointmentTime)
}
