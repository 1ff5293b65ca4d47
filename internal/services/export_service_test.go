package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"salestrack/internal/domain/sale"
	"salestrack/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSalesWorkbook(t *testing.T) {
	ctx := context.Background()
	alice := user.User{ID: uuid.New(), Name: "Alice Johnson", Role: user.RoleAgent}

	saleRepo := newMemSaleRepo(sale.Sale{
		ID:            uuid.New(),
		AgentID:       alice.ID,
		CustomerTaxID: "123456789",
		Status:        sale.StatusInstalled,
		SaleDate:      time.Date(2026, time.June, 5, 0, 0, 0, 0, time.UTC),
		Ticket:        "TK-0001",
	})
	svc := NewExportService(NewSaleService(saleRepo, newMemUserRepo(alice)))

	data, err := svc.SalesWorkbook(ctx, sale.Filter{})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sales")
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus one data row")

	assert.Equal(t, "Agent", rows[0][0])
	assert.Equal(t, "Alice Johnson", rows[1][0])
	assert.Equal(t, "123456789", rows[1][1])
	assert.Equal(t, sale.StatusInstalled, rows[1][3])
	assert.Equal(t, "2026-06-05", rows[1][4])

	t.Run("filter narrows the export", func(t *testing.T) {
		data, err := svc.SalesWorkbook(ctx, sale.Filter{Query: "no-such-agent"})
		require.NoError(t, err)

		f, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows("Sales")
		require.NoError(t, err)
		assert.Len(t, rows, 1, "header only")
	})
}
