package directory

import (
	"fmt"
	"strings"
)

// EmployeeProfile is one row of the directory snapshot. Fields mirror the
// corporate HR export; only the attributes the affinity model consumes are
// kept.
type EmployeeProfile struct {
	EmployeeID     int64
	ManagerID      int64
	Location       string
	DaysSinceStart int
	Languages      []string
}

// employeeRecord is the wire form of one roster row.
type employeeRecord struct {
	EmployeeID     *int64   `json:"Employee_ID"`
	ManagerID      *int64   `json:"Manager_ID"`
	Location       *string  `json:"Location"`
	DaysSinceStart *int     `json:"Days_Since_Start"`
	Languages      []string `json:"languages"`
}

// NewEmployeeProfile validates a wire record into a typed profile. Every
// field the affinity model reads must be present.
func NewEmployeeProfile(rec employeeRecord) (EmployeeProfile, error) {
	var p EmployeeProfile

	if rec.EmployeeID == nil {
		return p, fmt.Errorf("roster row missing Employee_ID")
	}
	if rec.ManagerID == nil {
		return p, fmt.Errorf("roster row for employee %d missing Manager_ID", *rec.EmployeeID)
	}
	if rec.Location == nil || *rec.Location == "" {
		return p, fmt.Errorf("roster row for employee %d missing Location", *rec.EmployeeID)
	}
	if rec.DaysSinceStart == nil {
		return p, fmt.Errorf("roster row for employee %d missing Days_Since_Start", *rec.EmployeeID)
	}

	p = EmployeeProfile{
		EmployeeID:     *rec.EmployeeID,
		ManagerID:      *rec.ManagerID,
		Location:       *rec.Location,
		DaysSinceStart: *rec.DaysSinceStart,
		Languages:      rec.Languages,
	}
	return p, nil
}

// SplitLocation breaks a "city, country" location string into its parts.
func (p EmployeeProfile) SplitLocation() (city, country string, err error) {
	parts := strings.SplitN(p.Location, ", ", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("malformed location %q for employee %d", p.Location, p.EmployeeID)
	}
	return parts[0], parts[1], nil
}

// Roster is a consistent per-run snapshot of the directory.
type Roster struct {
	profiles map[int64]EmployeeProfile
}

func NewRoster(profiles []EmployeeProfile) *Roster {
	byID := make(map[int64]EmployeeProfile, len(profiles))
	for _, p := range profiles {
		byID[p.EmployeeID] = p
	}
	return &Roster{profiles: byID}
}

func (r *Roster) Profile(employeeID int64) (EmployeeProfile, bool) {
	p, ok := r.profiles[employeeID]
	return p, ok
}

func (r *Roster) Size() int {
	return len(r.profiles)
}

// MaxTenureDays is the tenure normalization ceiling. It is always derived
// from this snapshot; stale ceilings from earlier runs must never be reused.
func (r *Roster) MaxTenureDays() int {
	max := 0
	for _, p := range r.profiles {
		if p.DaysSinceStart > max {
			max = p.DaysSinceStart
		}
	}
	return max
}

// OrgGraph builds the reporting-line graph from this snapshot's
// (employee, manager) edges.
func (r *Roster) OrgGraph() *OrgGraph {
	g := NewOrgGraph()
	for _, p := range r.profiles {
		g.AddEdge(p.EmployeeID, p.ManagerID)
	}
	return g
}
