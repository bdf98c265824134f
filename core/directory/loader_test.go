package directory

import (
	"context"
	"strings"
	"testing"

	infralogger "github.com/Guen0x/Redis-mongo-ubereat/infra/logger"
)

func TestLoaderNormalizesAliasedColumns(t *testing.T) {
	csv := strings.Join([]string{
		"Business_ID,Restaurant_Name,Ville,Adresse,Categories,Stars",
		"42,Chez Momo,Lyon,1 rue Victor Hugo,\"Lebanese, Grill\",4.5",
		"43,Da Luigi,Paris,8 rue de Rivoli,Italian,4.1",
	}, "\n")

	store := NewMemoryStore(nil)
	loader := NewLoader(store, infralogger.NopLogger{})
	n, err := loader.Load(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n != 2 {
		t.Fatalf("loaded %d rows, want 2", n)
	}

	r, err := store.Get(context.Background(), "restaurant:42")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if r.Name != "Chez Momo" || r.City != "Lyon" || r.Address != "1 rue Victor Hugo" {
		t.Fatalf("normalized record = %+v", r)
	}
	if r.Cuisine != "Lebanese, Grill" || r.Rating != "4.5" {
		t.Fatalf("cuisine/rating = %q/%q", r.Cuisine, r.Rating)
	}
}

func TestLoaderSynthesizesMissingIDs(t *testing.T) {
	csv := "name,city\nNo ID Diner,Lille\nAnother,Metz\n"
	store := NewMemoryStore(nil)
	n, err := NewLoader(store, infralogger.NopLogger{}).Load(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n != 2 {
		t.Fatalf("loaded %d rows, want 2", n)
	}
	if _, err := store.Get(context.Background(), "restaurant:0"); err != nil {
		t.Fatalf("ordinal key missing: %v", err)
	}
	if _, err := store.Get(context.Background(), "restaurant:1"); err != nil {
		t.Fatalf("ordinal key missing: %v", err)
	}
}

func TestLoaderRaggedRows(t *testing.T) {
	csv := "id,name,city\n1,Chez Momo\n2,Da Luigi,Paris,extra\n"
	store := NewMemoryStore(nil)
	n, err := NewLoader(store, infralogger.NopLogger{}).Load(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n != 2 {
		t.Fatalf("loaded %d rows, want 2 (ragged rows are tolerated)", n)
	}
	r, err := store.Get(context.Background(), "restaurant:1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if r.City != "" {
		t.Fatalf("short row city = %q, want empty", r.City)
	}
}

func TestLoaderEmptyInput(t *testing.T) {
	store := NewMemoryStore(nil)
	if _, err := NewLoader(store, infralogger.NopLogger{}).Load(context.Background(), strings.NewReader("")); err == nil {
		t.Fatal("empty input must fail on the header read")
	}
}
