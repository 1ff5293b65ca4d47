package sale

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkSales(statuses ...string) []Sale {
	out := make([]Sale, len(statuses))
	for i, s := range statuses {
		out[i] = Sale{ID: uuid.New(), Status: s}
	}
	return out
}

func TestCountByStatus(t *testing.T) {
	counts := CountByStatus(mkSales(
		StatusInstalled, StatusInstalled, StatusCanceled,
		StatusPending, StatusProvisioning, StatusProvisioning,
	))

	assert.Equal(t, 2, counts.Installed)
	assert.Equal(t, 1, counts.Canceled)
	assert.Equal(t, 1, counts.Pending)
	assert.Equal(t, 2, counts.Provisioning)
}

func TestSummarize(t *testing.T) {
	t.Run("total counts only installed", func(t *testing.T) {
		sum := Summarize(mkSales(StatusInstalled, StatusInstalled, StatusPending, StatusProvisioning), 0)
		assert.Equal(t, 2, sum.Total)
	})

	t.Run("conversion rounds to nearest percent", func(t *testing.T) {
		// 2 installed, 1 canceled: 66.67 -> 67
		sum := Summarize(mkSales(StatusInstalled, StatusInstalled, StatusCanceled), 0)
		assert.Equal(t, 67, sum.ConversionRate)
	})

	t.Run("conversion is zero without installed or canceled", func(t *testing.T) {
		sum := Summarize(mkSales(StatusPending, StatusProvisioning), 0)
		assert.Equal(t, 0, sum.ConversionRate)
	})

	t.Run("goal progress zero when goal unset", func(t *testing.T) {
		sum := Summarize(mkSales(StatusInstalled), 0)
		assert.Equal(t, 0, sum.GoalProgress)
	})

	t.Run("goal progress may exceed one hundred", func(t *testing.T) {
		sum := Summarize(mkSales(StatusInstalled, StatusInstalled, StatusInstalled), 2)
		assert.Equal(t, 150, sum.GoalProgress)
	})

	t.Run("empty input", func(t *testing.T) {
		sum := Summarize(nil, 26)
		assert.Equal(t, 0, sum.Total)
		assert.Equal(t, 0, sum.ConversionRate)
		assert.Equal(t, 26, sum.Goal)
		assert.Equal(t, 0, sum.GoalProgress)
	})
}

func TestTopAgent(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	names := map[uuid.UUID]string{alice: "Alice", bob: "Bob"}

	t.Run("empty list is N/A", func(t *testing.T) {
		name, count := TopAgent(nil, names)
		assert.Equal(t, "N/A", name)
		assert.Equal(t, 0, count)
	})

	t.Run("picks the agent with most sales", func(t *testing.T) {
		sales := []Sale{{AgentID: alice}, {AgentID: bob}, {AgentID: bob}}
		name, count := TopAgent(sales, names)
		assert.Equal(t, "Bob", name)
		assert.Equal(t, 2, count)
	})

	t.Run("ties keep the earlier agent", func(t *testing.T) {
		sales := []Sale{{AgentID: alice}, {AgentID: bob}}
		name, count := TopAgent(sales, names)
		assert.Equal(t, "Alice", name)
		assert.Equal(t, 1, count)
	})

	t.Run("missing profile renders Unknown", func(t *testing.T) {
		ghost := uuid.New()
		name, count := TopAgent([]Sale{{AgentID: ghost}}, names)
		assert.Equal(t, "Unknown", name)
		assert.Equal(t, 1, count)
	})
}

func TestRankAgents(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	agents := []RankEntry{
		{AgentID: alice, Name: "Alice"},
		{AgentID: bob, Name: "Bob"},
	}

	sales := []Sale{
		{AgentID: alice, Status: StatusInstalled},
		{AgentID: alice, Status: StatusPending},
		{AgentID: bob, Status: StatusInstalled},
		{AgentID: bob, Status: StatusInstalled},
		{AgentID: bob, Status: StatusCanceled},
		{AgentID: bob, Status: StatusProvisioning},
		{AgentID: uuid.New(), Status: StatusInstalled}, // no ranking entry
	}

	ranked := RankAgents(sales, agents)
	require.Len(t, ranked, 2)

	assert.Equal(t, "Bob", ranked[0].Name)
	assert.Equal(t, 2, ranked[0].Installed)
	assert.Equal(t, 1, ranked[0].Canceled)
	assert.Equal(t, 1, ranked[0].Provisioning)
	// Ranking total sums installed, canceled and provisioning. Pending is
	// excluded, unlike the status buckets.
	assert.Equal(t, 4, ranked[0].Total)

	assert.Equal(t, "Alice", ranked[1].Name)
	assert.Equal(t, 1, ranked[1].Installed)
	assert.Equal(t, 1, ranked[1].Total)
}

func TestFilterApply(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, time.June, d, 12, 0, 0, 0, time.UTC)
	}
	rows := []Row{
		{Sale: Sale{CustomerTaxID: "123456789", Ticket: "TK-0001", SaleDate: day(5)}, AgentName: "Alice Johnson"},
		{Sale: Sale{CustomerTaxID: "987654321", WorkOrder: "WO-0042", SaleDate: day(20)}, AgentName: "Bob Smith"},
	}

	t.Run("empty filter passes everything", func(t *testing.T) {
		assert.Len(t, Filter{}.Apply(rows), 2)
	})

	t.Run("query matches agent name case-insensitively", func(t *testing.T) {
		out := Filter{Query: "alice"}.Apply(rows)
		require.Len(t, out, 1)
		assert.Equal(t, "Alice Johnson", out[0].AgentName)
	})

	t.Run("query matches work order", func(t *testing.T) {
		out := Filter{Query: "wo-0042"}.Apply(rows)
		require.Len(t, out, 1)
		assert.Equal(t, "Bob Smith", out[0].AgentName)
	})

	t.Run("end date includes the whole day", func(t *testing.T) {
		end := time.Date(2026, time.June, 20, 0, 0, 0, 0, time.UTC)
		out := Filter{End: &end}.Apply(rows)
		assert.Len(t, out, 2)
	})

	t.Run("start date excludes earlier sales", func(t *testing.T) {
		start := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
		out := Filter{Start: &start}.Apply(rows)
		require.Len(t, out, 1)
		assert.Equal(t, "Bob Smith", out[0].AgentName)
	})

	t.Run("query and range combine", func(t *testing.T) {
		start := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
		out := Filter{Query: "alice", Start: &start}.Apply(rows)
		assert.Empty(t, out)
	})
}

func TestMonthWindow(t *testing.T) {
	start, end := MonthWindow(2026, 6)

	assert.Equal(t, time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.June, 30, 23, 59, 59, 0, time.UTC), end)

	// December rolls into the next year.
	start, end = MonthWindow(2026, 12)
	assert.Equal(t, time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.December, 31, 23, 59, 59, 0, time.UTC), end)
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusInstalled, StatusCanceled, StatusPending, StatusProvisioning} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("installed"))
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("Done"))
}
