package repository

import (
	"context"
	"errors"
	"time"

	"salestrack/internal/domain/sale"
	apperrors "salestrack/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresSaleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &PostgresSaleRepository{db: db}
}

func (r *PostgresSaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *PostgresSaleRepository) GetByID(ctx context.Context, id uuid.UUID) (sale.Sale, error) {
	var s sale.Sale
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return sale.Sale{}, apperrors.ErrNotFound
		}
		return sale.Sale{}, err
	}
	return s, nil
}

// Range queries are inclusive on both ends; callers build the window with
// sale.MonthWindow so the last second of the month is covered.
func (r *PostgresSaleRepository) GetForAgentInRange(ctx context.Context, agentID uuid.UUID, start, end time.Time) ([]sale.Sale, error) {
	var sales []sale.Sale
	err := r.db.WithContext(ctx).
		Where("agent_id = ? AND sale_date >= ? AND sale_date <= ?", agentID, start, end).
		Order("sale_date ASC").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *PostgresSaleRepository) GetAllInRange(ctx context.Context, start, end time.Time) ([]sale.Sale, error) {
	var sales []sale.Sale
	err := r.db.WithContext(ctx).
		Where("sale_date >= ? AND sale_date <= ?", start, end).
		Order("sale_date ASC").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *PostgresSaleRepository) GetAll(ctx context.Context) ([]sale.Sale, error) {
	var sales []sale.Sale
	err := r.db.WithContext(ctx).Order("sale_date DESC").Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *PostgresSaleRepository) Update(ctx context.Context, s sale.Sale) error {
	s.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).Save(&s)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PostgresSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&sale.Sale{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PostgresSaleRepository) DeleteForAgent(ctx context.Context, agentID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&sale.Sale{}, "agent_id = ?", agentID).Error
}
