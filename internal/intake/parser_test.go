package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DavidK2709/dcbot/internal/domain"
	"github.com/DavidK2709/dcbot/pkg/util"
)

func testDepartments() map[string]domain.Department {
	return map[string]domain.Department{
		"Station": {
			Name:         "Station",
			CategoryID:   "cat-1",
			MemberRoleID: "700",
			LeaderRoleID: "701",
		},
	}
}

func TestParseMessageFullIntake(t *testing.T) {
	content := "Neue Anfrage\n" +
		"> **Abteilung:** <@&700>\n" +
		"> **Grund:** Husten und Fieber\n" +
		"> **Patient:** Jane Doe\n" +
		"> **Telefon:** 0152-334455\n" +
		"> **Sonstiges:** bitte zeitnah\n" +
		"> **Datum:** 31.05.2025\n" +
		"> **Uhrzeit:** 18:00\n"

	sub, err := ParseMessage(content, testDepartments())
	require.NoError(t, err)

	assert.Equal(t, "Station", sub.Department.Name)
	assert.Equal(t, "<@&700>", sub.DepartmentMention)
	assert.Equal(t, "Husten und Fieber", sub.Reason)
	assert.Equal(t, "Jane Doe", sub.Subject)
	assert.Equal(t, "0152-334455", sub.Phone)
	assert.Equal(t, "bitte zeitnah", sub.Notes)
	assert.Equal(t, "31.05.2025", sub.InitialDate)
	assert.Equal(t, "18:00", sub.InitialTime)
}

func TestParseMessageIgnoresUnstructuredLines(t *testing.T) {
	content := "irgendein Vortext\n" +
		"> **Abteilung:** Station\n" +
		"kein strukturiertes Feld: wert\n" +
		"> **Grund:** Husten\n" +
		"> **Patient:** Jane\n" +
		"> **Unbekannt:** wird ignoriert\n"

	sub, err := ParseMessage(content, testDepartments())
	require.NoError(t, err)
	assert.Equal(t, "Station", sub.Department.Name)
	assert.Equal(t, "Station", sub.DepartmentMention)
	assert.Empty(t, sub.Phone)
}

func TestParseMessageLabelsAreCaseInsensitive(t *testing.T) {
	content := "> **ABTEILUNG:** Station\n" +
		"> **grund:** Husten\n" +
		"> **Patient:** Jane\n"

	sub, err := ParseMessage(content, testDepartments())
	require.NoError(t, err)
	assert.Equal(t, "Husten", sub.Reason)
}

func TestParseMessageRejectsMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing subject", "> **Abteilung:** Station\n> **Grund:** Husten\n"},
		{"missing reason", "> **Abteilung:** Station\n> **Patient:** Jane\n"},
		{"unknown department", "> **Abteilung:** Unbekannt\n> **Grund:** Husten\n> **Patient:** Jane\n"},
		{"unresolvable role mention", "> **Abteilung:** <@&999>\n> **Grund:** Husten\n> **Patient:** Jane\n"},
		{"empty message", "hallo welt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMessage(tt.content, testDepartments())
			require.Error(t, err)
			assert.True(t, util.IsValidation(err))
		})
	}
}

func TestParseForm(t *testing.T) {
	dept := testDepartments()["Station"]

	sub, err := ParseForm(map[string]string{
		"grund":   "Husten",
		"patient": " Jane ",
		"telefon": "0152",
	}, dept)
	require.NoError(t, err)
	assert.Equal(t, "Jane", sub.Subject)
	assert.Equal(t, "<@&700>", sub.DepartmentMention)

	_, err = ParseForm(map[string]string{
		"grund":   "Husten",
		"patient": "Jane",
	}, dept)
	require.Error(t, err, "form intake requires a phone number")
	assert.True(t, util.IsValidation(err))
}
