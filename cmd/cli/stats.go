package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"github.com/zaplink/zaplink/cmd"
	"github.com/zaplink/zaplink/internal/config"
	"github.com/zaplink/zaplink/internal/repository"
	"github.com/zaplink/zaplink/internal/services"
	"gorm.io/gorm"
)

var statsRangeFlag string

// StatsCmd prints the analytics report for a profile.
var StatsCmd = &cobra.Command{
	Use:   "stats [username]",
	Short: "Print view/click statistics for a profile",
	Long: `Prints totals, click-through rate and period-over-period changes for
the given username over a named range (today, yesterday, last7, last30,
last90, thisWeek, thisMonth).`,
	Args: cobra.ExactArgs(1),
	Run:  runStats,
}

func init() {
	StatsCmd.Flags().StringVar(&statsRangeFlag, "range", services.RangeLast7, "date range selector")
	cmd.RootCmd.AddCommand(StatsCmd)
}

func runStats(cmd *cobra.Command, args []string) {
	username := args[0]
	if statsRangeFlag != "" && !services.IsValidRange(statsRangeFlag) {
		fmt.Printf("Error: unknown range %q\n", statsRangeFlag)
		os.Exit(1)
	}

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
	analyticsRepo := repository.NewAnalyticsRepository(db)
	analyticsService := services.NewAnalyticsService(analyticsRepo, linkRepo, profileRepo, nil)

	profile, err := profileRepo.GetByUsername(username)
	if err != nil {
		fmt.Printf("Error: profile %q not found\n", username)
		os.Exit(1)
	}

	report, err := analyticsService.GetStats(profile.UserID, services.StatsQuery{Range: statsRangeFlag})
	if err != nil {
		fmt.Printf("Error retrieving statistics: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Statistics for @%s (%s)\n", profile.Username, statsRangeFlag)
	fmt.Printf("Views:  %d (%+.1f%%)\n", report.TotalViews, report.ViewsChange)
	fmt.Printf("Clicks: %d (%+.1f%%)\n", report.TotalClicks, report.ClicksChange)
	fmt.Printf("CTR:    %.2f%% (%+.1f%%)\n", report.CTR, report.CTRChange)
	if len(report.TopLinks) > 0 {
		fmt.Println("Top links:")
		for _, top := range report.TopLinks {
			fmt.Printf("  %d clicks  %s (%s)\n", top.Clicks, top.Title, top.URL)
		}
	}
}
