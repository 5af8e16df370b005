package database

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/codeforchange/community-api/model"
	"github.com/codeforchange/community-api/utils/auth"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedGrantPrograms(); err != nil {
		return fmt.Errorf("failed to seed grant programs: %w", err)
	}

	if err := s.SeedAnnouncements(); err != nil {
		return fmt.Errorf("failed to seed announcements: %w", err)
	}

	if err := s.SeedAppSettings(); err != nil {
		return fmt.Errorf("failed to seed app settings: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedAdminUser creates the default admin user from environment variables
func (s *Seeder) SeedAdminUser() error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", "admin").Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Admin user already exists, skipping...")
		return nil
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		log.Println("⚠️  ADMIN_EMAIL and ADMIN_PASSWORD environment variables not set, skipping admin user creation")
		return nil
	}

	if !auth.IsPasswordValid(adminPassword) {
		return fmt.Errorf("ADMIN_PASSWORD must be at least %d characters", auth.MinPasswordLength)
	}

	passwordHash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	admin := model.User{
		Email:        adminEmail,
		PasswordHash: passwordHash,
		Name:         "Platform Admin",
		Role:         "admin",
	}

	if err := s.db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("👤 Created admin user %s", adminEmail)
	return nil
}

func mustJSON(items []string) datatypes.JSON {
	data, _ := json.Marshal(items)
	return data
}

// SeedGrantPrograms creates a pair of demo programs so the listing pages
// have content on a fresh install
func (s *Seeder) SeedGrantPrograms() error {
	var count int64
	if err := s.db.Model(&model.GrantProgram{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Grant programs already exist, skipping...")
		return nil
	}

	now := time.Now().UTC()

	programs := []model.GrantProgram{
		{
			Title:        "Open Source Climate Tech Grant",
			Subtitle:     "Funding for climate-focused open source tools",
			Description:  "Supports teams building open source software that measures, reduces or communicates climate impact.",
			ExternalLink: "https://example.org/climate-grant",
			Tags:         mustJSON([]string{"climate", "open-source"}),

			GrantAmount:         25000,
			Currency:            model.CurrencyUSD,
			TotalProjectsFunded: 5,
			DisbursementPhases:  2,

			WorkingPrototypeRequired: true,
			ProgressDurationMonths:   6,
			Values:                   mustJSON([]string{"sustainability", "openness"}),

			RequiresProjectOverview: true,
			RequiresRoadmap:         true,

			ApplicationsOpen: now.AddDate(0, 0, -7),
			Deadline:         now.AddDate(0, 1, 0),
			WinnersAnnounced: now.AddDate(0, 2, 0),

			Status:     model.ProgramStatusActive,
			IsFeatured: true,
		},
		{
			Title:        "Women-Led Startup Fund",
			Subtitle:     "Early grants for women-led technology ventures",
			Description:  "Backs early-stage technology projects with majority women leadership.",
			ExternalLink: "https://example.org/women-led-fund",
			Tags:         mustJSON([]string{"diversity", "startup"}),

			GrantAmount:         1500000,
			Currency:            model.CurrencyINR,
			TotalProjectsFunded: 10,
			DisbursementPhases:  3,

			WomenLeadershipPercentage: 51,
			Values:                    mustJSON([]string{"inclusion"}),
			Region:                    "India",

			RequiresTeamDetails:  true,
			RequiresVisionImpact: true,
			RequiresWhyGrant:     true,

			ApplicationsOpen: now.AddDate(0, 0, 14),
			Deadline:         now.AddDate(0, 2, 0),
			WinnersAnnounced: now.AddDate(0, 3, 0),

			Status: model.ProgramStatusDraft,
		},
	}

	for i := range programs {
		if err := s.db.Create(&programs[i]).Error; err != nil {
			return err
		}
	}

	log.Printf("💰 Created %d demo grant programs", len(programs))
	return nil
}

// SeedAnnouncements creates the welcome announcement
func (s *Seeder) SeedAnnouncements() error {
	var count int64
	if err := s.db.Model(&model.Announcement{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Announcements already exist, skipping...")
		return nil
	}

	now := time.Now()
	announcement := model.Announcement{
		Title:       "Welcome to the community platform",
		Body:        "Browse active grant programs, register your project and submit applications.",
		IsPinned:    true,
		PublishedAt: &now,
	}

	if err := s.db.Create(&announcement).Error; err != nil {
		return err
	}

	log.Println("📣 Created welcome announcement")
	return nil
}

// SeedAppSettings creates default application settings
func (s *Seeder) SeedAppSettings() error {
	settings := []model.AppSetting{
		{
			Key:         "platform_name",
			Value:       "Code for Change",
			Type:        "string",
			Category:    "general",
			Description: "Display name of the platform",
			IsPublic:    true,
		},
		{
			Key:         "applications_enabled",
			Value:       "true",
			Type:        "bool",
			Category:    "grants",
			Description: "Global switch for accepting grant applications",
			IsPublic:    true,
		},
		{
			Key:         "support_email",
			Value:       "support@example.org",
			Type:        "string",
			Category:    "general",
			Description: "Contact address shown in footers and error pages",
			IsPublic:    true,
		},
	}

	for _, setting := range settings {
		var existing model.AppSetting
		err := s.db.Where("key = ?", setting.Key).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := s.db.Create(&setting).Error; err != nil {
			return err
		}
	}

	log.Println("⚙️  Seeded default app settings")
	return nil
}

// RunSeeds runs all database seeds
func RunSeeds(db *gorm.DB) error {
	return NewSeeder(db).SeedAll()
}
