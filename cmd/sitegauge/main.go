package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sitegauge/sitegauge/internal/config"
	"github.com/sitegauge/sitegauge/internal/logging"
	"github.com/sitegauge/sitegauge/internal/models"
	"github.com/sitegauge/sitegauge/internal/server"
	"github.com/sitegauge/sitegauge/pkg/analyzer"
	"github.com/sitegauge/sitegauge/pkg/connectors"
	"github.com/sitegauge/sitegauge/pkg/crawlability"
	"github.com/sitegauge/sitegauge/pkg/extractor"
	"github.com/sitegauge/sitegauge/pkg/fetcher"
	"github.com/sitegauge/sitegauge/pkg/reporter"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "sitegauge",
	Short: "SiteGauge - Single-Page SEO Audit Engine",
	Long: `SiteGauge audits a single web page across seven SEO dimensions:
meta tags, content quality, links, page structure, performance,
crawlability, and external factors, producing a scored report.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var auditCmd = &cobra.Command{
	Use:   "audit [URL]",
	Short: "Audit a page and print the scored report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]
		strategy, _ := cmd.Flags().GetString("strategy")
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		engine := buildEngine(cfg, log)
		analysis, err := engine.Audit(context.Background(), models.AuditRequest{
			URL:      url,
			Strategy: strategy,
		})
		if err != nil {
			return fmt.Errorf("audit failed: %w", err)
		}

		r := reporter.New()
		report, err := r.Render(analysis, format)
		if err != nil {
			return err
		}

		if output != "" {
			if err := os.WriteFile(output, []byte(report), 0644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			fmt.Printf("Report saved to %s\n", output)
		} else {
			fmt.Println(report)
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the audit HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		engine := buildEngine(cfg, log)
		srv := server.New(cfg.Server, engine, log)
		return srv.Run()
	},
}

func loadConfig(cmd *cobra.Command) (*config.Config, *logrus.Logger, error) {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, logging.New(cfg.Logging), nil
}

func buildEngine(cfg *config.Config, log *logrus.Logger) *analyzer.Engine {
	f := fetcher.New(cfg.Fetcher)
	ex := extractor.New()
	cr := crawlability.NewAnalyzer(f, cfg.Fetcher.UserAgent, log)
	ps := connectors.NewPageSpeed(cfg.Connectors.PageSpeed, log)
	dt := connectors.NewDomainTrust(cfg.Connectors.DomainTrust, log)
	return analyzer.NewEngine(f, ex, cr, ps, dt, log)
}

func init() {
	auditCmd.Flags().String("strategy", "", "Performance strategy (mobile, desktop)")
	auditCmd.Flags().String("format", "json", "Report format (json, markdown, html)")
	auditCmd.Flags().String("output", "", "Output file for the report")

	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(serveCmd)

	rootCmd.PersistentFlags().String("config", "", "Config file path")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
