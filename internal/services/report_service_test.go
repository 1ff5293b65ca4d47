package services

import (
	"context"
	"testing"
	"time"

	"salestrack/internal/domain/sale"
	"salestrack/internal/domain/user"
	apperrors "salestrack/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func juneSale(agentID uuid.UUID, day int, status string) sale.Sale {
	return sale.Sale{
		ID:       uuid.New(),
		AgentID:  agentID,
		Status:   status,
		SaleDate: time.Date(2026, time.June, day, 10, 0, 0, 0, time.UTC),
	}
}

func TestAgentSummary(t *testing.T) {
	ctx := context.Background()
	alice := user.User{ID: uuid.New(), Name: "Alice", Role: user.RoleAgent, Status: user.StatusActive, SalesGoal: 10}

	saleRepo := newMemSaleRepo(
		juneSale(alice.ID, 3, sale.StatusInstalled),
		juneSale(alice.ID, 10, sale.StatusInstalled),
		juneSale(alice.ID, 15, sale.StatusCanceled),
		// Outside the requested month, must not count.
		sale.Sale{ID: uuid.New(), AgentID: alice.ID, Status: sale.StatusInstalled, SaleDate: time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)},
	)
	svc := NewReportService(saleRepo, newMemUserRepo(alice))

	sum, err := svc.AgentSummary(ctx, alice.ID, 2026, 6)
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 67, sum.ConversionRate)
	assert.Equal(t, 10, sum.Goal)
	assert.Equal(t, 20, sum.GoalProgress)

	t.Run("unset goal falls back to the default", func(t *testing.T) {
		bob := user.User{ID: uuid.New(), Name: "Bob", Role: user.RoleAgent, SalesGoal: 0}
		svc := NewReportService(newMemSaleRepo(), newMemUserRepo(bob))
		sum, err := svc.AgentSummary(ctx, bob.ID, 2026, 6)
		require.NoError(t, err)
		assert.Equal(t, user.DefaultSalesGoal, sum.Goal)
	})

	t.Run("unknown agent", func(t *testing.T) {
		svc := NewReportService(newMemSaleRepo(), newMemUserRepo())
		_, err := svc.AgentSummary(ctx, uuid.New(), 2026, 6)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestAdminOverview(t *testing.T) {
	ctx := context.Background()
	alice := user.User{ID: uuid.New(), Name: "Alice", Role: user.RoleAgent, Status: user.StatusActive}
	bob := user.User{ID: uuid.New(), Name: "Bob", Role: user.RoleAgent, Status: user.StatusPending}
	admin := testAdmin()

	saleRepo := newMemSaleRepo(
		juneSale(alice.ID, 3, sale.StatusInstalled),
		juneSale(alice.ID, 4, sale.StatusPending),
		juneSale(bob.ID, 5, sale.StatusInstalled),
	)
	svc := NewReportService(saleRepo, newMemUserRepo(alice, bob, admin))

	overview, err := svc.AdminOverview(ctx, 2026, 6)
	require.NoError(t, err)

	assert.Equal(t, 1, overview.PendingRequests)
	assert.Equal(t, 2, overview.ActiveAgents, "admins are not agents")
	assert.Equal(t, 3, overview.MonthlySales)
	assert.Equal(t, "Alice", overview.TopAgentName)
	assert.Equal(t, 2, overview.TopAgentSales)

	t.Run("empty month reads N/A", func(t *testing.T) {
		overview, err := svc.AdminOverview(ctx, 2026, 1)
		require.NoError(t, err)
		assert.Equal(t, 0, overview.MonthlySales)
		assert.Equal(t, "N/A", overview.TopAgentName)
	})
}

func TestTeamSummaries(t *testing.T) {
	ctx := context.Background()
	alice := user.User{ID: uuid.New(), Name: "Alice", Email: "alice@test.local", TeamCode: "NORTH", Role: user.RoleAgent, Status: user.StatusActive, SalesGoal: 5}
	bob := user.User{ID: uuid.New(), Name: "Bob", Role: user.RoleAgent, Status: user.StatusActive}

	saleRepo := newMemSaleRepo(
		juneSale(alice.ID, 3, sale.StatusInstalled),
		juneSale(alice.ID, 8, sale.StatusCanceled),
	)
	svc := NewReportService(saleRepo, newMemUserRepo(alice, bob))

	rows, err := svc.TeamSummaries(ctx, 2026, 6)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byName := map[string]AgentMonthKPIs{}
	for _, r := range rows {
		byName[r.Name] = r
	}

	aliceRow := byName["Alice"]
	assert.Equal(t, alice.ID, aliceRow.AgentID)
	assert.Equal(t, "alice@test.local", aliceRow.Email)
	assert.Equal(t, "NORTH", aliceRow.TeamCode)
	assert.Equal(t, 1, aliceRow.Summary.Total)
	assert.Equal(t, 5, aliceRow.Summary.Goal)

	bobRow := byName["Bob"]
	assert.Equal(t, 0, bobRow.Summary.Total, "agents without sales still get a row")
	assert.Equal(t, user.DefaultSalesGoal, bobRow.Summary.Goal)
}

func TestRanking(t *testing.T) {
	ctx := context.Background()
	alice := user.User{ID: uuid.New(), Name: "Alice", Role: user.RoleAgent, Status: user.StatusActive}
	bob := user.User{ID: uuid.New(), Name: "Bob", Role: user.RoleAgent, Status: user.StatusActive}

	saleRepo := newMemSaleRepo(
		juneSale(alice.ID, 3, sale.StatusInstalled),
		juneSale(bob.ID, 4, sale.StatusInstalled),
		juneSale(bob.ID, 5, sale.StatusInstalled),
		juneSale(bob.ID, 6, sale.StatusPending),
	)
	svc := NewReportService(saleRepo, newMemUserRepo(alice, bob))

	ranked, err := svc.Ranking(ctx, 2026, 6)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	assert.Equal(t, "Bob", ranked[0].Name)
	assert.Equal(t, 2, ranked[0].Installed)
	assert.Equal(t, 2, ranked[0].Total, "pending does not count toward the ranking total")
	assert.Equal(t, "Alice", ranked[1].Name)
}
