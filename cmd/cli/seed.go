package cli

import (
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"github.com/zaplink/zaplink/cmd"
	"github.com/zaplink/zaplink/internal/config"
	"github.com/zaplink/zaplink/internal/models"
	"github.com/zaplink/zaplink/internal/repository"
	"github.com/zaplink/zaplink/internal/services"
	"gorm.io/gorm"
)

var (
	seedUserIDFlag   string
	seedUsernameFlag string
)

// SeedCmd creates a demo profile with a few starter links. Useful for local
// development against an empty database.
var SeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Creates a demo profile with starter links.",
	Run: func(cobraCmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("FATAL: Failed to get underlying SQL database: %v", err)
		}
		defer sqlDB.Close()

		profileRepo := repository.NewProfileRepository(db)
		linkRepo := repository.NewLinkRepository(db)
		profileService := services.NewProfileService(profileRepo, linkRepo)

		err = profileService.CompleteOnboarding(seedUserIDFlag, services.OnboardingInput{
			Username:    seedUsernameFlag,
			DisplayName: "Demo User",
			Bio:         "Just a demo profile.",
			Links: []services.OnboardingLink{
				{
					Title: "My website",
					URL:   "https://example.com",
					Type:  models.LinkTypeCustom,
				},
				{
					Title:            "Instagram",
					URL:              "https://instagram.com/demo",
					Type:             models.LinkTypePlatform,
					PlatformName:     "instagram",
					PlatformCategory: models.PlatformCategorySocial,
				},
			},
		})
		if err != nil {
			log.Fatalf("Failed to seed profile: %v", err)
		}

		fmt.Printf("Seeded profile @%s for user %s\n", seedUsernameFlag, seedUserIDFlag)
	},
}

func init() {
	SeedCmd.Flags().StringVar(&seedUserIDFlag, "user-id", "demo-user", "owner id for the seeded profile")
	SeedCmd.Flags().StringVar(&seedUsernameFlag, "username", "demo", "username for the seeded profile")
	cmd.RootCmd.AddCommand(SeedCmd)
}
