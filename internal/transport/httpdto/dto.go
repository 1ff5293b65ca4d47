package httpdto

import (
	"time"

	"salestrack/internal/domain/chat"
	"salestrack/internal/domain/sale"
	"salestrack/internal/domain/user"
)

const dateLayout = "2006-01-02"

type UserDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	TeamCode  string `json:"team_code"`
	Role      string `json:"role"`
	SalesGoal int    `json:"sales_goal"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func FromUser(u user.User) UserDTO {
	return UserDTO{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		TeamCode:  u.TeamCode,
		Role:      u.Role,
		SalesGoal: u.SalesGoal,
		Status:    u.Status,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

type SaleDTO struct {
	ID               string `json:"id"`
	AgentID          string `json:"agent_id"`
	AgentName        string `json:"agent_name,omitempty"`
	CustomerTaxID    string `json:"customer_tax_id"`
	CustomerPhone    string `json:"customer_phone,omitempty"`
	Status           string `json:"status"`
	SaleDate         string `json:"sale_date"`
	InstallationDate string `json:"installation_date,omitempty"`
	Period           string `json:"period,omitempty"`
	SaleType         string `json:"sale_type,omitempty"`
	PaymentMethod    string `json:"payment_method,omitempty"`
	Ticket           string `json:"ticket,omitempty"`
	WorkOrder        string `json:"work_order,omitempty"`
	Notes            string `json:"notes,omitempty"`
	Speed            string `json:"speed,omitempty"`
	Region           string `json:"region,omitempty"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

func FromSale(s sale.Sale) SaleDTO {
	dto := SaleDTO{
		ID:            s.ID.String(),
		AgentID:       s.AgentID.String(),
		CustomerTaxID: s.CustomerTaxID,
		CustomerPhone: s.CustomerPhone,
		Status:        s.Status,
		SaleDate:      s.SaleDate.Format(dateLayout),
		Period:        s.Period,
		SaleType:      s.SaleType,
		PaymentMethod: s.PaymentMethod,
		Ticket:        s.Ticket,
		WorkOrder:     s.WorkOrder,
		Notes:         s.Notes,
		Speed:         s.Speed,
		Region:        s.Region,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     s.UpdatedAt.Format(time.RFC3339),
	}
	if s.InstallationDate.Valid {
		dto.InstallationDate = s.InstallationDate.Time.Format(dateLayout)
	}
	return dto
}

func FromRow(r sale.Row) SaleDTO {
	dto := FromSale(r.Sale)
	dto.AgentName = r.AgentName
	return dto
}

func FromSales(sales []sale.Sale) []SaleDTO {
	out := make([]SaleDTO, len(sales))
	for i, s := range sales {
		out[i] = FromSale(s)
	}
	return out
}

func FromRows(rows []sale.Row) []SaleDTO {
	out := make([]SaleDTO, len(rows))
	for i, r := range rows {
		out[i] = FromRow(r)
	}
	return out
}

type AttachmentDTO struct {
	Type     string `json:"type"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

type MessageDTO struct {
	ID         string         `json:"id"`
	RoomID     string         `json:"room_id"`
	SenderID   string         `json:"sender_id"`
	SenderName string         `json:"sender_name"`
	Text       string         `json:"text,omitempty"`
	Attachment *AttachmentDTO `json:"attachment,omitempty"`
	SentAt     string         `json:"sent_at"`
}

func FromMessage(m chat.Message) MessageDTO {
	dto := MessageDTO{
		ID:         m.ID.String(),
		RoomID:     m.RoomID,
		SenderID:   m.SenderID.String(),
		SenderName: m.SenderName,
		SentAt:     m.SentAt.Format(time.RFC3339Nano),
	}
	if m.Text.Valid {
		dto.Text = m.Text.String
	}
	if m.AttachmentURL.Valid {
		dto.Attachment = &AttachmentDTO{
			Type:     m.AttachmentType.String,
			URL:      m.AttachmentURL.String,
			Filename: m.AttachmentName.String,
		}
	}
	return dto
}

func FromMessages(msgs []chat.Message) []MessageDTO {
	out := make([]MessageDTO, len(msgs))
	for i, m := range msgs {
		out[i] = FromMessage(m)
	}
	return out
}

type ConversationDTO struct {
	RoomID       string `json:"room_id"`
	OtherID      string `json:"other_id"`
	LastText     string `json:"last_text,omitempty"`
	LastAt       string `json:"last_at,omitempty"`
	LastSenderID string `json:"last_sender_id,omitempty"`
	LastReadAt   string `json:"last_read_at,omitempty"`
}

func FromSnapshot(s chat.Snapshot) ConversationDTO {
	dto := ConversationDTO{
		RoomID:  s.RoomID,
		OtherID: s.OtherID.String(),
	}
	if s.HasLast {
		dto.LastText = s.LastText
		dto.LastAt = s.LastAt.Format(time.RFC3339Nano)
		dto.LastSenderID = s.LastSenderID.String()
	}
	if s.HasLastRead {
		dto.LastReadAt = s.LastReadAt.Format(time.RFC3339Nano)
	}
	return dto
}

func FromSnapshots(snaps []chat.Snapshot) []ConversationDTO {
	out := make([]ConversationDTO, len(snaps))
	for i, s := range snaps {
		out[i] = FromSnapshot(s)
	}
	return out
}

type ScriptDTO struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

func FromScript(s user.Script) ScriptDTO {
	return ScriptDTO{
		ID:        s.ID.String(),
		Title:     s.Title,
		Body:      s.Body,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}
