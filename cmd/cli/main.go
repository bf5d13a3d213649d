package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/dev-metrics/sprint-pulse/pkg/runtime/terminal"
	"github.com/dev-metrics/sprint-pulse/pkg/services/insight"
	"github.com/dev-metrics/sprint-pulse/pkg/services/performance"
	sqlstore "github.com/dev-metrics/sprint-pulse/pkg/store/sql"

	_ "github.com/lib/pq"
)

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Factory: newService,
		Output:  os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newService(_ context.Context, dbURL, insightConfigPath string) (performance.Service, func() error, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open tracking database: %w", err)
	}

	var analyzer insight.Analyzer
	if insightConfigPath != "" {
		cfg, err := insight.LoadConfig(insightConfigPath)
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to load insight config: %w", err)
		}
		analyzer = insight.NewGateway(*cfg, nil)
	}

	return performance.NewService(sqlstore.NewEntityStore(db), analyzer), db.Close, nil
}
