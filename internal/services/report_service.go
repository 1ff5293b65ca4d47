package services

import (
	"context"

	"salestrack/internal/domain/sale"
	"salestrack/internal/domain/user"
	"salestrack/internal/repository"

	"github.com/google/uuid"
)

// ReportService aggregates sales into the KPI blocks the dashboards show.
// All arithmetic is in the sale package; this layer only fetches scopes.
type ReportService struct {
	saleRepo repository.SaleRepository
	userRepo repository.UserRepository
}

func NewReportService(saleRepo repository.SaleRepository, userRepo repository.UserRepository) *ReportService {
	return &ReportService{saleRepo: saleRepo, userRepo: userRepo}
}

// AgentSummary is the agent dashboard KPI block for one month.
func (s *ReportService) AgentSummary(ctx context.Context, agentID uuid.UUID, year, month int) (sale.Summary, error) {
	agent, err := s.userRepo.GetByID(ctx, agentID)
	if err != nil {
		return sale.Summary{}, err
	}

	start, end := sale.MonthWindow(year, month)
	sales, err := s.saleRepo.GetForAgentInRange(ctx, agentID, start, end)
	if err != nil {
		return sale.Summary{}, err
	}

	goal := agent.SalesGoal
	if goal == 0 {
		goal = user.DefaultSalesGoal
	}
	return sale.Summarize(sales, goal), nil
}

// Overview is the admin landing block: pending sign-ups, active agents,
// the month's sale count and the top performer.
type Overview struct {
	PendingRequests int    `json:"pending_requests"`
	ActiveAgents    int    `json:"active_agents"`
	MonthlySales    int    `json:"monthly_sales"`
	TopAgentName    string `json:"top_agent_name"`
	TopAgentSales   int    `json:"top_agent_sales"`
}

func (s *ReportService) AdminOverview(ctx context.Context, year, month int) (Overview, error) {
	pending, err := s.userRepo.GetPending(ctx)
	if err != nil {
		return Overview{}, err
	}
	agents, err := s.userRepo.GetAgents(ctx)
	if err != nil {
		return Overview{}, err
	}

	start, end := sale.MonthWindow(year, month)
	sales, err := s.saleRepo.GetAllInRange(ctx, start, end)
	if err != nil {
		return Overview{}, err
	}

	names := make(map[uuid.UUID]string, len(agents))
	for _, a := range agents {
		names[a.ID] = a.Name
	}
	topName, topCount := sale.TopAgent(sales, names)

	return Overview{
		PendingRequests: len(pending),
		ActiveAgents:    len(agents),
		MonthlySales:    len(sales),
		TopAgentName:    topName,
		TopAgentSales:   topCount,
	}, nil
}

// AgentMonthKPIs is one row of the team-management table.
type AgentMonthKPIs struct {
	AgentID  uuid.UUID    `json:"agent_id"`
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	TeamCode string       `json:"team_code"`
	Status   string       `json:"status"`
	Summary  sale.Summary `json:"summary"`
}

// TeamSummaries computes each agent's KPI block for a month in one pass
// over the month's sales.
func (s *ReportService) TeamSummaries(ctx context.Context, year, month int) ([]AgentMonthKPIs, error) {
	agents, err := s.userRepo.GetAgents(ctx)
	if err != nil {
		return nil, err
	}

	start, end := sale.MonthWindow(year, month)
	sales, err := s.saleRepo.GetAllInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	byAgent := make(map[uuid.UUID][]sale.Sale)
	for _, item := range sales {
		byAgent[item.AgentID] = append(byAgent[item.AgentID], item)
	}

	out := make([]AgentMonthKPIs, 0, len(agents))
	for _, agent := range agents {
		goal := agent.SalesGoal
		if goal == 0 {
			goal = user.DefaultSalesGoal
		}
		out = append(out, AgentMonthKPIs{
			AgentID:  agent.ID,
			Name:     agent.Name,
			Email:    agent.Email,
			TeamCode: agent.TeamCode,
			Status:   agent.Status,
			Summary:  sale.Summarize(byAgent[agent.ID], goal),
		})
	}
	return out, nil
}

// Ranking is the month's leaderboard, sorted by installed count.
func (s *ReportService) Ranking(ctx context.Context, year, month int) ([]sale.RankEntry, error) {
	agents, err := s.userRepo.GetAgents(ctx)
	if err != nil {
		return nil, err
	}

	start, end := sale.MonthWindow(year, month)
	sales, err := s.saleRepo.GetAllInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	entries := make([]sale.RankEntry, 0, len(agents))
	for _, agent := range agents {
		entries = append(entries, sale.RankEntry{
			AgentID:  agent.ID,
			Name:     agent.Name,
			TeamCode: agent.TeamCode,
		})
	}
	return sale.RankAgents(sales, entries), nil
}
