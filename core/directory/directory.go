// Package directory is the restaurant directory: lookup by key, random
// sampling for the client menu flow, and menu synthesis when a restaurant
// has no stored menu.
package directory

import (
	"context"
	"errors"
	"math/rand"
	"strings"

	"github.com/Guen0x/Redis-mongo-ubereat/core/model"
)

// ErrNotFound is returned when a restaurant key is unknown.
var ErrNotFound = errors.New("directory: restaurant not found")

// Store persists restaurant records. Implementations live next to the
// channel bindings so restaurants sit in the same backend as the orders.
type Store interface {
	Put(ctx context.Context, r model.Restaurant) error
	Get(ctx context.Context, key string) (model.Restaurant, error)
	Random(ctx context.Context, n int) ([]model.Restaurant, error)
	SaveMenu(ctx context.Context, key string, menu []string) error
}

// cuisineMenus maps a cuisine keyword to a synthesized menu, used when a
// restaurant record carries no menu of its own.
var cuisineMenus = map[string][]string{
	"italian":  {"Margherita", "Carbonara", "Lasagne", "Penne Arrabiata"},
	"pizza":    {"Margherita", "Diavola", "4 Fromages", "Regina"},
	"japanese": {"Sushi Mix", "Ramen Shoyu", "Ramen Miso", "Donburi"},
	"chinese":  {"Poulet croustillant", "Nouilles sautées", "Canard laqué", "Riz cantonais"},
	"thai":     {"Pad Thaï", "Green Curry", "Tom Yum", "Basilic sauté"},
	"indian":   {"Butter Chicken", "Tikka Masala", "Biryani", "Dal"},
	"lebanese": {"Chawarma", "Mezzé", "Falafel", "Taboulé"},
	"greek":    {"Gyros", "Moussaka", "Souvlaki", "Salade grecque"},
	"mexican":  {"Tacos", "Burrito", "Quesadilla", "Chili con carne"},
	"burger":   {"Cheeseburger", "Bacon Burger", "Veggie Burger", "Double"},
	"french":   {"Boeuf bourguignon", "Quiche", "Croque-monsieur", "Salade niçoise"},
}

var defaultMenu = []string{"Plat du jour", "Salade composée", "Pâtes", "Dessert maison"}

// Directory answers lookup and menu queries over a Store.
type Directory struct {
	store Store
}

// New creates a Directory over the store.
func New(store Store) *Directory { return &Directory{store: store} }

// Lookup returns the restaurant for the key.
func (d *Directory) Lookup(ctx context.Context, key string) (model.Restaurant, error) {
	return d.store.Get(ctx, key)
}

// Pickup builds the announcement pickup line for the key. An unknown key
// degrades to the raw key so an auction never fails on directory gaps.
func (d *Directory) Pickup(ctx context.Context, key string) string {
	r, err := d.store.Get(ctx, key)
	if err != nil {
		return key
	}
	return r.PickupLine()
}

// Sample returns up to n random restaurants for the client to choose from.
func (d *Directory) Sample(ctx context.Context, n int) ([]model.Restaurant, error) {
	return d.store.Random(ctx, n)
}

// Menu returns the restaurant's menu, synthesizing one from its cuisine
// when none is stored. A synthesized menu is persisted so later calls see
// the same dishes.
func (d *Directory) Menu(ctx context.Context, key string) ([]string, error) {
	r, err := d.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(r.Menu) > 0 {
		return r.Menu, nil
	}
	menu := MenuForCuisine(r.Cuisine)
	if err := d.store.SaveMenu(ctx, key, menu); err != nil {
		return nil, err
	}
	return menu, nil
}

// MenuForCuisine synthesizes a menu from a cuisine description.
func MenuForCuisine(cuisine string) []string {
	c := strings.ToLower(cuisine)
	for keyword, menu := range cuisineMenus {
		if strings.Contains(c, keyword) {
			return append([]string(nil), menu...)
		}
	}
	return append([]string(nil), defaultMenu...)
}

// MemoryStore is an in-memory Store for tests and the in-process binding.
type MemoryStore struct {
	restaurants map[string]model.Restaurant
	keys        []string
	rng         *rand.Rand
}

// NewMemoryStore creates an empty MemoryStore. The rng drives Random; a
// nil rng falls back to a fixed-seed source.
func NewMemoryStore(rng *rand.Rand) *MemoryStore {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &MemoryStore{restaurants: make(map[string]model.Restaurant), rng: rng}
}

func (s *MemoryStore) Put(_ context.Context, r model.Restaurant) error {
	if _, ok := s.restaurants[r.Key]; !ok {
		s.keys = append(s.keys, r.Key)
	}
	s.restaurants[r.Key] = r
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (model.Restaurant, error) {
	r, ok := s.restaurants[key]
	if !ok {
		return model.Restaurant{}, ErrNotFound
	}
	return r, nil
}

func (s *MemoryStore) Random(_ context.Context, n int) ([]model.Restaurant, error) {
	if n > len(s.keys) {
		n = len(s.keys)
	}
	picked := make([]model.Restaurant, 0, n)
	for _, i := range s.rng.Perm(len(s.keys))[:n] {
		picked = append(picked, s.restaurants[s.keys[i]])
	}
	return picked, nil
}

func (s *MemoryStore) SaveMenu(_ context.Context, key string, menu []string) error {
	r, ok := s.restaurants[key]
	if !ok {
		return ErrNotFound
	}
	r.Menu = append([]string(nil), menu...)
	s.restaurants[key] = r
	return nil
}
