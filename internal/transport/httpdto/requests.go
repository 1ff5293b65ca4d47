package httpdto

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	TeamCode string `json:"team_code"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	SessionID    string `json:"session_id" binding:"required"`
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

type PasswordForgotRequest struct {
	Email string `json:"email" binding:"required"`
}

type PasswordResetRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// SaleRequest carries the sales form. Dates arrive as YYYY-MM-DD strings.
type SaleRequest struct {
	CustomerTaxID    string `json:"customer_tax_id" binding:"required"`
	CustomerPhone    string `json:"customer_phone"`
	Status           string `json:"status" binding:"required"`
	SaleDate         string `json:"sale_date" binding:"required"`
	InstallationDate string `json:"installation_date"`
	Period           string `json:"period"`
	SaleType         string `json:"sale_type"`
	PaymentMethod    string `json:"payment_method"`
	Ticket           string `json:"ticket"`
	WorkOrder        string `json:"work_order"`
	Notes            string `json:"notes"`
	Speed            string `json:"speed"`
	Region           string `json:"region"`
}

type SalesGoalRequest struct {
	Goal int `json:"goal"`
}

type ScriptRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

type DirectMessageRequest struct {
	RecipientID string         `json:"recipient_id" binding:"required"`
	Text        string         `json:"text"`
	Attachment  *AttachmentDTO `json:"attachment"`
}

type GroupMessageRequest struct {
	Text       string         `json:"text"`
	Attachment *AttachmentDTO `json:"attachment"`
}

type PresignRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	SizeBytes   int64  `json:"size_bytes" binding:"required"`
}

type AdminPasswordResetRequest struct {
	Email string `json:"email" binding:"required"`
}
