package directory

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Guen0x/Redis-mongo-ubereat/core/logger"
	"github.com/Guen0x/Redis-mongo-ubereat/core/model"
)

// column aliases seen across the public restaurant datasets.
var (
	idColumns      = []string{"id", "restaurant_id", "business_id", "place_id", "identifier"}
	nameColumns    = []string{"name", "restaurant_name", "business_name", "title"}
	cityColumns    = []string{"city", "ville", "locality", "town"}
	addressColumns = []string{"address", "adresse", "street", "street_address"}
	cuisineColumns = []string{"cuisine", "categories", "category", "food_type"}
	latColumns     = []string{"latitude", "lat", "geo_lat"}
	lonColumns     = []string{"longitude", "lng", "lon", "geo_lon"}
	ratingColumns  = []string{"rating", "stars", "review_score"}
)

// Loader bulk-loads restaurant CSV exports into a Store, normalizing the
// wildly varying column names into one record shape.
type Loader struct {
	store Store
	log   logger.Logger
}

// NewLoader creates a Loader.
func NewLoader(store Store, log logger.Logger) *Loader {
	return &Loader{store: store, log: log}
}

// Load reads CSV rows from r and stores one restaurant per row. Rows that
// cannot be read are skipped and logged. Returns the number of restaurants
// stored.
func (l *Loader) Load(ctx context.Context, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	n := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			l.log.Warnf("skipping unreadable csv row: %v", err)
			continue
		}
		rec := normalizeRow(cols, row, n)
		if err := l.store.Put(ctx, rec); err != nil {
			return n, fmt.Errorf("store restaurant %s: %w", rec.Key, err)
		}
		n++
	}
	l.log.Infof("loaded %d restaurants", n)
	return n, nil
}

func normalizeRow(cols map[string]int, row []string, ordinal int) model.Restaurant {
	get := func(candidates []string) string {
		for _, c := range candidates {
			if i, ok := cols[c]; ok && i < len(row) {
				if v := strings.TrimSpace(row[i]); v != "" {
					return v
				}
			}
		}
		return ""
	}
	id := get(idColumns)
	if id == "" {
		id = strconv.Itoa(ordinal)
	}
	return model.Restaurant{
		Key:     "restaurant:" + id,
		Name:    get(nameColumns),
		City:    get(cityColumns),
		Address: get(addressColumns),
		Cuisine: get(cuisineColumns),
		Lat:     get(latColumns),
		Lon:     get(lonColumns),
		Rating:  get(ratingColumns),
	}
}
