package domain

import "strings"

// ReasonInfo describes one known automatic-ticket reason.
type ReasonInfo struct {
	InternalKey string `json:"internalKey"`
	DisplayName string `json:"displayName"`
	Price       int    `json:"price"`
}

// ReasonCatalog maps reason keys to their static catalog entries.
type ReasonCatalog map[string]ReasonInfo

// DisplayName returns the catalog display name, or the raw reason for
// manual tickets.
func (c ReasonCatalog) DisplayName(reason string) string {
	if info, ok := c[reason]; ok {
		return info.DisplayName
	}
	return reason
}

// ShortName derives the channel-name fragment for an automatic reason:
// the internal key without its trailing placeholder segment.
func (c ReasonCatalog) ShortName(reason string) string {
	info, ok := c[reason]
	if !ok {
		return ""
	}
	parts := strings.Split(info.InternalKey, "-")
	if len(parts) <= 1 {
		return info.InternalKey
	}
	return strings.Join(parts[:len(parts)-1], "-")
}

// Department is a configured routing unit with its own channel category,
// permission roles and log destinations.
type Department struct {
	Name               string `json:"-"`
	CategoryID         string `json:"categoryId"`
	MemberRoleID       string `json:"memberRoleId"`
	LeaderRoleID       string `json:"leaderRoleId"`
	LogChannelID       string `json:"logChannelId"`
	TreatmentChannelID string `json:"treatmentChannelId,omitempty"`
	RequiresPrice      bool   `json:"requiresPrice"`
}

// LogDestination picks the summary-log channel for a closed or deleted
// ticket. Departments with a treatment channel route zero-priced tickets
// there instead of the regular log.
func (d Department) LogDestination(price *int) string {
	if d.TreatmentChannelID == "" {
		return d.LogChannelID
	}
	if price != nil && *price > 0 {
		return d.LogChannelID
	}
	return d.TreatmentChannelID
}

// DepartmentByRole finds the department whose member role matches roleID.
func DepartmentByRole(departments map[string]Department, roleID string) (Department, bool) {
	for _, dept := range departments {
		if dept.MemberRoleID == roleID {
			return dept, true
		}
	}
	return Department{}, false
}
