package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexgaoth/campus-crime-api/models"
	"github.com/alexgaoth/campus-crime-api/reports"
	"github.com/alexgaoth/campus-crime-api/sitemap"
)

var (
	feedPath string
	baseURL  string
	output   string
)

var rootCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Generate sitemap.xml from the incident feed",
	Long: `Reads the published incident feed (local file or URL) and writes a
sitemap listing the fixed top-level pages plus the 20 most recent
incidents by occurrence date.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&feedPath, "feed", "police_reports.json", "path or URL of the incident feed")
	rootCmd.Flags().StringVar(&baseURL, "base-url", "", "site base URL for generated links")
	rootCmd.Flags().StringVarP(&output, "output", "o", "sitemap.xml", "output file, or - for stdout")
	rootCmd.MarkFlagRequired("base-url")
}

func run(cmd *cobra.Command, args []string) error {
	feed, err := loadFeed(feedPath)
	if err != nil {
		return err
	}
	incidents := reports.Normalize(feed)

	body, err := sitemap.Generate(incidents, strings.TrimRight(baseURL, "/"), time.Now())
	if err != nil {
		return err
	}

	if output == "-" {
		_, err = cmd.OutOrStdout().Write(body)
		return err
	}
	if err := os.WriteFile(output, body, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d incidents in feed)\n", output, len(incidents))
	return nil
}

func loadFeed(path string) (models.Feed, error) {
	var feed models.Feed

	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		client := &http.Client{Timeout: 30 * time.Second}
		resp, err := client.Get(path)
		if err != nil {
			return feed, fmt.Errorf("failed to fetch feed: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return feed, fmt.Errorf("failed to fetch feed: status %d", resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
			return feed, fmt.Errorf("failed to decode feed: %w", err)
		}
		return feed, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return feed, fmt.Errorf("failed to read feed: %w", err)
	}
	if err := json.Unmarshal(data, &feed); err != nil {
		return feed, fmt.Errorf("failed to decode feed: %w", err)
	}
	return feed, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
