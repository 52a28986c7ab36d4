// Package intake turns structured messages and form submissions into
// new tickets.
package intake

import (
	"regexp"
	"strings"

	"github.com/DavidK2709/dcbot/internal/domain"
	"github.com/DavidK2709/dcbot/pkg/util"
)

var (
	labeledLine = regexp.MustCompile(`^>\s\*\*(.+?):\*\*\s(.+)$`)
	roleMention = regexp.MustCompile(`<@&(\d+)>`)
)

// Submission is a validated ticket-creation payload.
type Submission struct {
	Department        domain.Department
	DepartmentMention string
	Reason            string
	Subject           string
	Phone             string
	Notes             string
	InitialDate       string
	InitialTime       string
}

// ParseMessage extracts a submission from a semi-structured intake
// message of `> **Label:** value` lines. Unknown labels are ignored; an
// unresolvable department mention becomes the literal unspecified
// marker so the required-field check below rejects it.
func ParseMessage(content string, departments map[string]domain.Department) (*Submission, error) {
	var (
		departmentName    string
		departmentMention string
		sub               Submission
	)

	for _, line := range strings.Split(content, "\n") {
		match := labeledLine.FindStringSubmatch(strings.TrimSpace(line))
		if match == nil {
			continue
		}
		label := strings.ToLower(match[1])
		value := strings.TrimSpace(match[2])

		switch label {
		case "abteilung":
			departmentName, departmentMention = resolveDepartment(value, departments)
		case "grund":
			sub.Reason = value
		case "patient":
			sub.Subject = value
		case "telefon":
			sub.Phone = value
		case "sonstiges":
			sub.Notes = value
		case "datum":
			sub.InitialDate = value
		case "uhrzeit":
			sub.InitialTime = value
		}
	}

	dept, knownDepartment := departments[departmentName]

	missing := map[string]any{}
	if sub.Reason == "" {
		missing["grund"] = "fehlt"
	}
	if sub.Subject == "" {
		missing["patient"] = "fehlt"
	}
	if !knownDepartment {
		missing["abteilung"] = "fehlt oder unbekannt"
	}
	if len(missing) > 0 {
		return nil, util.NewValidationError("Grund, Patient oder Abteilung fehlt", missing)
	}

	sub.Department = dept
	sub.DepartmentMention = departmentMention
	return &sub, nil
}

// ParseForm validates a form submission for the given department.
func ParseForm(values map[string]string, dept domain.Department) (*Submission, error) {
	sub := Submission{
		Department:        dept,
		DepartmentMention: "<@&" + dept.MemberRoleID + ">",
		Reason:            strings.TrimSpace(values["grund"]),
		Subject:           strings.TrimSpace(values["patient"]),
		Phone:             strings.TrimSpace(values["telefon"]),
		Notes:             strings.TrimSpace(values["sonstiges"]),
	}
	if sub.Reason == "" || sub.Subject == "" || sub.Phone == "" {
		return nil, util.NewValidationError("Grund, Patient und Telefon sind erforderlich.", nil)
	}
	return &sub, nil
}

func resolveDepartment(value string, departments map[string]domain.Department) (string, string) {
	if match := roleMention.FindStringSubmatch(value); match != nil {
		if dept, ok := domain.DepartmentByRole(departments, match[1]); ok {
			return dept.Name, "<@&" + match[1] + ">"
		}
		return domain.Unspecified, domain.Unspecified
	}
	return value, value
}
