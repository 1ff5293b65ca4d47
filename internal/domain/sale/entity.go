package sale

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const (
	StatusInstalled    = "Installed"
	StatusCanceled     = "Canceled"
	StatusPending      = "Pending"
	StatusProvisioning = "Provisioning"
)

// ValidStatus reports whether s is one of the four lifecycle states.
func ValidStatus(s string) bool {
	switch s {
	case StatusInstalled, StatusCanceled, StatusPending, StatusProvisioning:
		return true
	}
	return false
}

// Sale represents the sales table. Owned by the agent that created it;
// mutable by that agent or an admin; deleted explicitly, no soft-delete.
type Sale struct {
	ID               uuid.UUID
	AgentID          uuid.UUID `gorm:"index"`
	CustomerTaxID    string
	CustomerPhone    string
	Status           string
	SaleDate         time.Time `gorm:"index"`
	InstallationDate sql.NullTime
	Period           string
	SaleType         string
	PaymentMethod    string
	Ticket           string
	WorkOrder        string
	Notes            string
	Speed            string
	Region           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Sale) TableName() string {
	return "sales"
}

// Row is a sale joined with the resolved agent display name, as rendered
// in the org-wide sales table.
type Row struct {
	Sale
	AgentName string `json:"agent_name"`
}
