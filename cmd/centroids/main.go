package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Pledgebase/pledgebase/config"
	"github.com/Pledgebase/pledgebase/internal/database"
	"github.com/Pledgebase/pledgebase/internal/domain"
	"github.com/Pledgebase/pledgebase/internal/repository"
	"github.com/Pledgebase/pledgebase/pkg/logger"
)

const batchSize = 500

// centroidWriter is the part of the centroid repository the import uses
type centroidWriter interface {
	UpsertCentroids(ctx context.Context, centroids []domain.PostalCodeCentroid) error
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/centroids/main.go <centroids.csv>")
		fmt.Println("CSV columns: country_code,postal_code,latitude,longitude")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewLoggerForEnvironment(cfg.LogLevel, cfg.Environment)

	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to open %s: %v", os.Args[1], err))
	}
	defer f.Close()

	ctx := context.Background()
	db, err := database.Open(ctx, &cfg.Database, false)
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to connect to database: %v", err))
	}
	defer db.Close()

	n, err := importCentroids(ctx, f, repository.NewPostalCentroidRepository(db))
	if err != nil {
		log.WithField("imported", n).Fatal(fmt.Sprintf("Import failed: %v", err))
	}
	log.WithField("imported", n).Info("Postal code centroids imported")
}

// importCentroids reads CSV rows and upserts them in batches. A header row
// starting with "country" is skipped.
func importCentroids(ctx context.Context, r io.Reader, w centroidWriter) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 4
	reader.TrimLeadingSpace = true

	var (
		batch    []domain.PostalCodeCentroid
		imported int
		line     int
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := w.UpsertCentroids(ctx, batch); err != nil {
			return err
		}
		imported += len(batch)
		batch = batch[:0]
		return nil
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if line == 1 && strings.HasPrefix(strings.ToLower(record[0]), "country") {
			continue
		}

		c, err := parseCentroid(record)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		batch = append(batch, c)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return imported, err
			}
		}
	}
	return imported, flush()
}

func parseCentroid(record []string) (domain.PostalCodeCentroid, error) {
	var c domain.PostalCodeCentroid
	c.CountryCode = record[0]
	c.PostalCode = record[1]
	if strings.TrimSpace(c.CountryCode) == "" || strings.TrimSpace(c.PostalCode) == "" {
		return c, errors.New("country code and postal code are required")
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil || math.IsNaN(lat) || lat < -90 || lat > 90 {
		return c, fmt.Errorf("invalid latitude %q", record[2])
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
	if err != nil || math.IsNaN(lng) || lng < -180 || lng > 180 {
		return c, fmt.Errorf("invalid longitude %q", record[3])
	}
	c.Latitude, c.Longitude = lat, lng
	return c, nil
}
