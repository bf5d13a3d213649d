package main

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/dev-metrics/sprint-pulse/pkg/server"
	"github.com/dev-metrics/sprint-pulse/pkg/services/insight"
	"github.com/dev-metrics/sprint-pulse/pkg/services/performance"
	sqlstore "github.com/dev-metrics/sprint-pulse/pkg/store/sql"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	addr        string
	insightPath string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Sprint Pulse",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Address to listen on")
	rootCmd.Flags().StringVarP(&insightPath, "insight-config", "c", "",
		"Path to the insight service config file (optional)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	dbURL := os.Getenv("TRACKING_DB_URL")
	if dbURL == "" {
		return fmt.Errorf("TRACKING_DB_URL is not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return fmt.Errorf("failed to open tracking database: %w", err)
	}
	defer db.Close()

	var analyzer insight.Analyzer
	if insightPath != "" {
		cfg, err := insight.LoadConfig(insightPath)
		if err != nil {
			return fmt.Errorf("failed to load insight config: %w", err)
		}
		analyzer = insight.NewGateway(*cfg, nil)
	} else {
		logger.Warn().Msg("no insight config supplied, reports will use the fallback summary")
	}

	svc := performance.NewService(sqlstore.NewEntityStore(db), analyzer)

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr:            addr,
		ShutdownTimeout: 10 * time.Second,
		Dependencies: server.Dependencies{
			Performance: svc,
		},
	})

	return webAPI.Start()
}
