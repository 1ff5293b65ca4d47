package sale

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StatusCounts buckets a list of sales by lifecycle state. Each sale lands
// in exactly one bucket.
type StatusCounts struct {
	Installed    int `json:"installed"`
	Canceled     int `json:"canceled"`
	Pending      int `json:"pending"`
	Provisioning int `json:"provisioning"`
}

// Summary is the per-scope KPI block shown on the dashboards.
type Summary struct {
	Counts         StatusCounts `json:"counts"`
	Total          int          `json:"total"`
	ConversionRate int          `json:"conversion_rate"`
	Goal           int          `json:"goal"`
	GoalProgress   int          `json:"goal_progress"`
}

func CountByStatus(sales []Sale) StatusCounts {
	var c StatusCounts
	for _, s := range sales {
		switch s.Status {
		case StatusInstalled:
			c.Installed++
		case StatusCanceled:
			c.Canceled++
		case StatusPending:
			c.Pending++
		case StatusProvisioning:
			c.Provisioning++
		}
	}
	return c
}

// Summarize computes the KPI block for one agent-month or org-month.
// Total is defined as the Installed count, not the sum of all buckets.
func Summarize(sales []Sale, goal int) Summary {
	counts := CountByStatus(sales)
	total := counts.Installed

	conversion := 0
	if denom := counts.Installed + counts.Canceled; denom > 0 {
		conversion = int(math.Round(100 * float64(counts.Installed) / float64(denom)))
		if conversion < 0 {
			conversion = 0
		}
		if conversion > 100 {
			conversion = 100
		}
	}

	progress := 0
	if goal > 0 {
		progress = int(math.Round(100 * float64(total) / float64(goal)))
	}

	return Summary{
		Counts:         counts,
		Total:          total,
		ConversionRate: conversion,
		Goal:           goal,
		GoalProgress:   progress,
	}
}

// TopAgent picks the agent with the strictly greatest sale count. Ties keep
// the agent encountered first in slice order. Returns "N/A" for an empty
// list and "Unknown" when the leading agent has no profile in names.
func TopAgent(sales []Sale, names map[uuid.UUID]string) (string, int) {
	if len(sales) == 0 {
		return "N/A", 0
	}

	counts := make(map[uuid.UUID]int, len(sales))
	var leader uuid.UUID
	max := 0
	for _, s := range sales {
		counts[s.AgentID]++
		if counts[s.AgentID] > max {
			max = counts[s.AgentID]
			leader = s.AgentID
		}
	}

	name, ok := names[leader]
	if !ok || name == "" {
		name = "Unknown"
	}
	return name, max
}

// RankEntry is one line of the monthly team ranking.
type RankEntry struct {
	AgentID      uuid.UUID `json:"agent_id"`
	Name         string    `json:"name"`
	TeamCode     string    `json:"team_code"`
	Installed    int       `json:"installed"`
	Canceled     int       `json:"canceled"`
	Provisioning int       `json:"provisioning"`
	Total        int       `json:"total"`
}

// RankAgents builds the team ranking for one month, sorted by installed
// count descending. The ranking total sums installed, canceled and
// provisioning, unlike the KPI total.
func RankAgents(sales []Sale, agents []RankEntry) []RankEntry {
	out := make([]RankEntry, len(agents))
	copy(out, agents)
	byID := make(map[uuid.UUID]*RankEntry, len(out))
	for i := range out {
		byID[out[i].AgentID] = &out[i]
	}

	for _, s := range sales {
		entry, ok := byID[s.AgentID]
		if !ok {
			continue
		}
		switch s.Status {
		case StatusInstalled:
			entry.Installed++
		case StatusCanceled:
			entry.Canceled++
		case StatusProvisioning:
			entry.Provisioning++
		}
	}

	for i := range out {
		out[i].Total = out[i].Installed + out[i].Canceled + out[i].Provisioning
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Installed > out[j].Installed
	})
	return out
}

// Filter narrows the enriched table rows by a free-text query and an
// inclusive sale-date range. The range end is widened to end-of-day.
// Empty predicates pass everything through.
type Filter struct {
	Query string
	Start *time.Time
	End   *time.Time
}

func (f Filter) Apply(rows []Row) []Row {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	if query == "" && f.Start == nil && f.End == nil {
		return rows
	}

	var end time.Time
	if f.End != nil {
		end = endOfDay(*f.End)
	}

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if f.Start != nil && row.SaleDate.Before(*f.Start) {
			continue
		}
		if f.End != nil && row.SaleDate.After(end) {
			continue
		}
		if query != "" {
			haystack := strings.ToLower(row.AgentName + row.CustomerTaxID + row.Ticket + row.WorkOrder)
			if !strings.Contains(haystack, query) {
				continue
			}
		}
		out = append(out, row)
	}
	return out
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// MonthWindow returns the inclusive [first day 00:00:00, last day 23:59:59]
// range for a calendar month.
func MonthWindow(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end
}
