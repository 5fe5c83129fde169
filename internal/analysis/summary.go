package analysis

import (
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
)

// activityHeaderValues are header captions that leak into the activity column
// when sheets repeat their header row
var activityHeaderValues = []string{
	"actividad/proceso",
	"nombre de la actividad",
	"actividad",
	"proceso",
}

// CountParticipants returns the number of records, or of distinct identifiers when unique is set
func CountParticipants(records []Record, res Resolver, idField string, unique bool) int {
	if !unique {
		return len(records)
	}
	return DistinctCount(records, res, idField)
}

// DistinctCount counts the distinct non-empty values of field
func DistinctCount(records []Record, res Resolver, field string) int {
	seen := make(map[string]struct{})
	for _, rec := range records {
		if v := rec.Value(res, field); v != "" {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// CountActivities counts distinct activity names, ignoring repeated header captions
func CountActivities(records []Record, res Resolver, field string) int {
	seen := make(map[string]struct{})
	for _, rec := range records {
		v := rec.Value(res, field)
		if v == "" || isActivityHeader(v) {
			continue
		}
		seen[v] = struct{}{}
	}
	return len(seen)
}

func isActivityHeader(v string) bool {
	lower := strings.ToLower(v)
	for _, h := range activityHeaderValues {
		if lower == h {
			return true
		}
	}
	return false
}

// SumLeadingInts adds the leading integer of every cell of field; cells
// without one are skipped
func SumLeadingInts(records []Record, res Resolver, field string) int {
	total := 0
	for _, rec := range records {
		if n, ok := LeadingInt(rec.Value(res, field)); ok {
			total += n
		}
	}
	return total
}

// LeadingInt parses the integer prefix of s ("12 personas" -> 12)
func LeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParticipantSummary holds the summary cards of the participants page
type ParticipantSummary struct {
	Global     int     `json:"global"`
	Tab        int     `json:"tab"`
	Percent    float64 `json:"percent"`
	Activities int     `json:"activities"`
	Unique     bool    `json:"unique"`
}

// SummarizeParticipants computes the cards for the current tab against the
// global population (both subsets after filtering)
func SummarizeParticipants(global, tab []Record, res Resolver, idField, activityField string, unique, allTab bool) ParticipantSummary {
	s := ParticipantSummary{
		Global:     CountParticipants(global, res, idField, unique),
		Tab:        CountParticipants(tab, res, idField, unique),
		Activities: CountActivities(tab, res, activityField),
		Unique:     unique,
	}
	if allTab {
		s.Percent = 100
	} else {
		s.Percent = Percentage(s.Tab, s.Global)
	}
	return s
}

// IndicatorStats holds the summary cards of the indicators page
type IndicatorStats struct {
	Total      int `json:"total"`
	Teams      int `json:"teams"`
	MetGoal    int `json:"met_goal"`
	MissedGoal int `json:"missed_goal"`
}

// SummarizeIndicators counts indicators per goal status. Statuses that are
// blank, "no aplica" or "n/a" are left out of both goal counts.
func SummarizeIndicators(records []Record, res Resolver, teamField, statusField string) IndicatorStats {
	st := IndicatorStats{
		Total: len(records),
		Teams: DistinctCount(records, res, teamField),
	}
	for _, rec := range records {
		status := strings.ToLower(rec.Value(res, statusField))
		if status == "" || status == "no aplica" || status == "n/a" {
			continue
		}
		switch {
		case strings.Contains(status, "meta no cumplida"):
			st.MissedGoal++
		case strings.Contains(status, "meta cumplida"):
			st.MetGoal++
		}
	}
	return st
}

// ComplianceStats holds the summary cards of the compliance page
type ComplianceStats struct {
	Teams             int     `json:"teams"`
	Technologies      int     `json:"technologies"`
	States            int     `json:"states"`
	AverageCompletion float64 `json:"average_completion"`
}

// SummarizeCompliance counts distinct teams, technologies and states and
// averages the completion column. Blank completions count as 0, text that is
// not a number is skipped.
func SummarizeCompliance(records []Record, res Resolver, teamField, techField, stateField, completionField string) ComplianceStats {
	values := make([]float64, 0, len(records))
	for _, rec := range records {
		raw := rec.Value(res, completionField)
		if raw == "" {
			values = append(values, 0)
			continue
		}
		if v, ok := ParsePercent(raw); ok {
			values = append(values, v)
		}
	}

	st := ComplianceStats{
		Teams:        DistinctCount(records, res, teamField),
		Technologies: DistinctCount(records, res, techField),
		States:       DistinctCount(records, res, stateField),
	}
	if mean, err := stats.Mean(values); err == nil {
		st.AverageCompletion = Round1(mean)
	}
	return st
}

// WorkshopStats holds the summary of the workshops page
type WorkshopStats struct {
	Total   int         `json:"total"`
	Zones   Aggregation `json:"zones"`
	Comunas Aggregation `json:"comunas"`
}

// NoData labels workshops whose zone or comuna is blank
const NoData = "Sin Dato"

// SummarizeWorkshops counts workshops per zone and per comuna
func SummarizeWorkshops(records []Record, res Resolver, zoneField, comunaField string) WorkshopStats {
	return WorkshopStats{
		Total:   len(records),
		Zones:   CountWithDefault(records, zoneField, res, NoData),
		Comunas: CountWithDefault(records, comunaField, res, NoData),
	}
}
