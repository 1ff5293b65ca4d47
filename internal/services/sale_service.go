package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"salestrack/internal/domain/sale"
	"salestrack/internal/domain/user"
	"salestrack/internal/repository"
	apperrors "salestrack/pkg/errors"

	"github.com/google/uuid"
)

// SaleService is the gateway between the HTTP surface and the sales store.
// It owns ownership checks (an agent touches only their own sales, admins
// touch anything) and month-window resolution; timestamp stamping lives in
// the repository.
type SaleService struct {
	saleRepo repository.SaleRepository
	userRepo repository.UserRepository
}

func NewSaleService(saleRepo repository.SaleRepository, userRepo repository.UserRepository) *SaleService {
	return &SaleService{saleRepo: saleRepo, userRepo: userRepo}
}

type SaleInput struct {
	CustomerTaxID    string
	CustomerPhone    string
	Status           string
	SaleDate         time.Time
	InstallationDate *time.Time
	Period           string
	SaleType         string
	PaymentMethod    string
	Ticket           string
	WorkOrder        string
	Notes            string
	Speed            string
	Region           string
}

func (in SaleInput) validate() error {
	if strings.TrimSpace(in.CustomerTaxID) == "" {
		return apperrors.ErrInvalidInput
	}
	if !sale.ValidStatus(in.Status) {
		return apperrors.ErrInvalidInput
	}
	if in.SaleDate.IsZero() {
		return apperrors.ErrInvalidInput
	}
	return nil
}

func (s *SaleService) Add(ctx context.Context, agentID uuid.UUID, in SaleInput) (uuid.UUID, error) {
	if err := in.validate(); err != nil {
		return uuid.Nil, err
	}

	newSale := &sale.Sale{
		ID:            uuid.New(),
		AgentID:       agentID,
		CustomerTaxID: in.CustomerTaxID,
		CustomerPhone: in.CustomerPhone,
		Status:        in.Status,
		SaleDate:      in.SaleDate,
		Period:        in.Period,
		SaleType:      in.SaleType,
		PaymentMethod: in.PaymentMethod,
		Ticket:        in.Ticket,
		WorkOrder:     in.WorkOrder,
		Notes:         in.Notes,
		Speed:         in.Speed,
		Region:        in.Region,
	}
	if in.InstallationDate != nil {
		newSale.InstallationDate.Time = *in.InstallationDate
		newSale.InstallationDate.Valid = true
	}

	if err := s.saleRepo.Create(ctx, newSale); err != nil {
		return uuid.Nil, err
	}
	return newSale.ID, nil
}

func (s *SaleService) Update(ctx context.Context, callerID, saleID uuid.UUID, in SaleInput) error {
	if err := in.validate(); err != nil {
		return err
	}

	existing, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return err
	}
	if err := s.authorizeSaleWrite(ctx, callerID, existing); err != nil {
		return err
	}

	existing.CustomerTaxID = in.CustomerTaxID
	existing.CustomerPhone = in.CustomerPhone
	existing.Status = in.Status
	existing.SaleDate = in.SaleDate
	existing.Period = in.Period
	existing.SaleType = in.SaleType
	existing.PaymentMethod = in.PaymentMethod
	existing.Ticket = in.Ticket
	existing.WorkOrder = in.WorkOrder
	existing.Notes = in.Notes
	existing.Speed = in.Speed
	existing.Region = in.Region
	existing.InstallationDate.Valid = in.InstallationDate != nil
	if in.InstallationDate != nil {
		existing.InstallationDate.Time = *in.InstallationDate
	}

	return s.saleRepo.Update(ctx, existing)
}

func (s *SaleService) Delete(ctx context.Context, callerID, saleID uuid.UUID) error {
	existing, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return err
	}
	if err := s.authorizeSaleWrite(ctx, callerID, existing); err != nil {
		return err
	}
	return s.saleRepo.Delete(ctx, saleID)
}

func (s *SaleService) authorizeSaleWrite(ctx context.Context, callerID uuid.UUID, target sale.Sale) error {
	if target.AgentID == callerID {
		return nil
	}
	caller, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return err
	}
	if !caller.IsAdmin() {
		return apperrors.ErrForbidden
	}
	return nil
}

func (s *SaleService) SalesForAgent(ctx context.Context, agentID uuid.UUID, year, month int) ([]sale.Sale, error) {
	start, end := sale.MonthWindow(year, month)
	return s.saleRepo.GetForAgentInRange(ctx, agentID, start, end)
}

func (s *SaleService) AllSalesForMonth(ctx context.Context, year, month int) ([]sale.Sale, error) {
	start, end := sale.MonthWindow(year, month)
	return s.saleRepo.GetAllInRange(ctx, start, end)
}

func (s *SaleService) AllSales(ctx context.Context) ([]sale.Sale, error) {
	return s.saleRepo.GetAll(ctx)
}

// AllRows returns every sale joined with its agent's display name and
// narrowed by the given filter. Sales whose agent profile is gone render
// as "Unknown".
func (s *SaleService) AllRows(ctx context.Context, filter sale.Filter) ([]sale.Row, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	rows := make([]sale.Row, 0, len(sales))
	for _, item := range sales {
		name, ok := names[item.AgentID]
		if !ok {
			name = "Unknown"
		}
		rows = append(rows, sale.Row{Sale: item, AgentName: name})
	}

	return filter.Apply(rows), nil
}

// Profile lookups mirror the document-store contract: a missing profile is
// a nil result, not an error.
func (s *SaleService) UserProfile(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (s *SaleService) AllUsers(ctx context.Context) ([]user.User, error) {
	return s.userRepo.GetAll(ctx)
}

func (s *SaleService) UpdateSalesGoal(ctx context.Context, id uuid.UUID, goal int) error {
	if goal < 0 {
		return apperrors.ErrInvalidInput
	}
	return s.userRepo.UpdateSalesGoal(ctx, id, goal)
}
