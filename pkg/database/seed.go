package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"salestrack/internal/domain/chat"
	"salestrack/internal/domain/sale"
	"salestrack/internal/domain/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SeedConfig holds configuration for seeding the database.
type SeedConfig struct {
	AdminEmail       string
	AdminPassword    string
	AdminName        string
	CreateTestAgents bool
	TestAgentCount   int
}

func DefaultSeedConfig() *SeedConfig {
	return &SeedConfig{
		AdminEmail:       "admin@salestrack.local",
		AdminPassword:    "Admin@123!",
		AdminName:        "System Admin",
		CreateTestAgents: true,
		TestAgentCount:   5,
	}
}

type SeedResult struct {
	Admin  *user.User
	Agents []*user.User
	Sales  int
}

// Seed fills the database with an admin account and, optionally, a set of
// active test agents with a month of sample sales and chat traffic.
func Seed(cfg *SeedConfig) (*SeedResult, error) {
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}

	result := &SeedResult{}
	log.Println("Starting database seeding...")

	admin, err := seedAdmin(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to seed admin user: %w", err)
	}
	result.Admin = admin

	if cfg.CreateTestAgents {
		agents, err := seedAgents(cfg.TestAgentCount)
		if err != nil {
			return nil, fmt.Errorf("failed to seed test agents: %w", err)
		}
		result.Agents = agents

		count, err := seedSales(agents)
		if err != nil {
			return nil, fmt.Errorf("failed to seed sales: %w", err)
		}
		result.Sales = count

		if err := seedChat(admin, agents); err != nil {
			return nil, fmt.Errorf("failed to seed chat: %w", err)
		}
	}

	log.Println("Database seeding completed successfully!")
	return result, nil
}

// SeedMinimal creates only the admin account.
func SeedMinimal(cfg *SeedConfig) (*user.User, error) {
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}
	return seedAdmin(cfg)
}

func seedAdmin(cfg *SeedConfig) (*user.User, error) {
	var existing user.User
	if err := DB.Where("email = ?", cfg.AdminEmail).First(&existing).Error; err == nil {
		log.Println("Admin user already exists, skipping creation")
		return &existing, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	admin := &user.User{
		ID:           uuid.New(),
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		Name:         cfg.AdminName,
		Role:         user.RoleAdmin,
		SalesGoal:    0,
		Status:       user.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := DB.Create(admin).Error; err != nil {
		return nil, err
	}

	log.Printf("Admin user seeded: %s (%s)", cfg.AdminEmail, admin.ID)
	return admin, nil
}

func seedAgents(count int) ([]*user.User, error) {
	agentData := []struct {
		email    string
		name     string
		teamCode string
	}{
		{"alice@test.local", "Alice Johnson", "NORTH"},
		{"bob@test.local", "Bob Smith", "NORTH"},
		{"carla@test.local", "Carla Mendes", "SOUTH"},
		{"diego@test.local", "Diego Alves", "SOUTH"},
		{"elena@test.local", "Elena Costa", "CENTER"},
		{"filipe@test.local", "Filipe Rocha", "CENTER"},
		{"gina@test.local", "Gina Torres", "NORTH"},
		{"hugo@test.local", "Hugo Lima", "SOUTH"},
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("Test@123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	agents := make([]*user.User, 0, count)
	for i := 0; i < count && i < len(agentData); i++ {
		data := agentData[i]

		var existing user.User
		if err := DB.Where("email = ?", data.email).First(&existing).Error; err == nil {
			log.Printf("Test agent %s already exists, skipping", data.email)
			agents = append(agents, &existing)
			continue
		}

		now := time.Now()
		agent := &user.User{
			ID:           uuid.New(),
			Email:        data.email,
			PasswordHash: string(hash),
			Name:         data.name,
			TeamCode:     data.teamCode,
			Role:         user.RoleAgent,
			SalesGoal:    user.DefaultSalesGoal,
			Status:       user.StatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := DB.Create(agent).Error; err != nil {
			return nil, err
		}
		agents = append(agents, agent)
		log.Printf("Test agent seeded: %s", data.email)
	}
	return agents, nil
}

func seedSales(agents []*user.User) (int, error) {
	statuses := []string{
		sale.StatusInstalled, sale.StatusInstalled, sale.StatusInstalled,
		sale.StatusCanceled, sale.StatusPending, sale.StatusProvisioning,
	}
	regions := []string{"North", "South", "Center"}
	speeds := []string{"100M", "500M", "1G"}

	monthStart := time.Date(time.Now().Year(), time.Now().Month(), 1, 0, 0, 0, 0, time.UTC)
	count := 0

	for i, agent := range agents {
		perAgent := 4 + i%3
		for j := 0; j < perAgent; j++ {
			now := time.Now()
			s := &sale.Sale{
				ID:            uuid.New(),
				AgentID:       agent.ID,
				CustomerTaxID: fmt.Sprintf("90000%02d%02d", i, j),
				CustomerPhone: fmt.Sprintf("+3519100000%02d", count),
				Status:        statuses[(i+j)%len(statuses)],
				SaleDate:      monthStart.AddDate(0, 0, (i+j*3)%27),
				Period:        "Morning",
				SaleType:      "New",
				PaymentMethod: "Direct debit",
				Ticket:        fmt.Sprintf("TK-%04d", count),
				WorkOrder:     fmt.Sprintf("WO-%04d", count),
				Speed:         speeds[j%len(speeds)],
				Region:        regions[i%len(regions)],
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if s.Status == sale.StatusInstalled {
				s.InstallationDate = sql.NullTime{Time: s.SaleDate.AddDate(0, 0, 3), Valid: true}
			}
			if err := DB.Create(s).Error; err != nil {
				return count, err
			}
			count++
		}
	}

	log.Printf("Seeded %d sales", count)
	return count, nil
}

func seedChat(admin *user.User, agents []*user.User) error {
	greetings := []string{
		"Good morning team",
		"Remember to log installations before noon",
		"Nice numbers this week, keep it up",
	}
	for i, text := range greetings {
		sender := admin
		if i > 0 && len(agents) > 0 {
			sender = agents[(i-1)%len(agents)]
		}
		msg := &chat.Message{
			ID:         uuid.New(),
			RoomID:     chat.GroupRoomID,
			SenderID:   sender.ID,
			SenderName: sender.Name,
			Text:       sql.NullString{String: text, Valid: true},
			SentAt:     time.Now().Add(time.Duration(i) * time.Minute),
		}
		if err := DB.Create(msg).Error; err != nil {
			return err
		}
	}

	if len(agents) >= 2 {
		a, b := agents[0], agents[1]
		roomID := chat.RoomID(a.ID, b.ID)
		memberA, memberB := a.ID, b.ID
		if memberB.String() < memberA.String() {
			memberA, memberB = memberB, memberA
		}

		sentAt := time.Now()
		conv := &chat.Conversation{
			ID:                  roomID,
			MemberA:             memberA,
			MemberB:             memberB,
			LastMessageText:     sql.NullString{String: "See you at the stand-up", Valid: true},
			LastMessageAt:       sql.NullTime{Time: sentAt, Valid: true},
			LastMessageSenderID: uuid.NullUUID{UUID: a.ID, Valid: true},
			CreatedAt:           sentAt,
			UpdatedAt:           sentAt,
		}
		if err := DB.Where("id = ?", roomID).FirstOrCreate(conv).Error; err != nil {
			return err
		}

		msg := &chat.Message{
			ID:         uuid.New(),
			RoomID:     roomID,
			SenderID:   a.ID,
			SenderName: a.Name,
			Text:       sql.NullString{String: "See you at the stand-up", Valid: true},
			SentAt:     sentAt,
		}
		if err := DB.Create(msg).Error; err != nil {
			return err
		}
		log.Printf("DM conversation seeded: %s", roomID)
	}

	return nil
}

// SeedDevelopment seeds a full development data set.
func SeedDevelopment() (*SeedResult, error) {
	cfg := DefaultSeedConfig()
	cfg.CreateTestAgents = true
	cfg.TestAgentCount = 8
	return Seed(cfg)
}

// SeedProduction seeds only the admin account.
func SeedProduction(adminEmail, adminPassword string) (*user.User, error) {
	cfg := &SeedConfig{
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
		AdminName:     "System Administrator",
	}
	return SeedMinimal(cfg)
}
