package model

import "strings"

// Restaurant is a normalized directory record. Key is the storage key the
// order requests reference.
type Restaurant struct {
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	City    string   `json:"city"`
	Address string   `json:"address"`
	Cuisine string   `json:"cuisine"`
	Rating  string   `json:"rating"`
	Lat     string   `json:"lat"`
	Lon     string   `json:"lon"`
	Menu    []string `json:"menu,omitempty"`
}

// PickupLine renders the human-readable pickup description used in
// announcements: "Name (City) · Address", omitting empty parts.
func (r Restaurant) PickupLine() string {
	name := r.Name
	if name == "" {
		name = r.Key
	}
	var b strings.Builder
	b.WriteString(name)
	if r.City != "" {
		b.WriteString(" (")
		b.WriteString(r.City)
		b.WriteString(")")
	}
	if r.Address != "" {
		b.WriteString(" · ")
		b.WriteString(r.Address)
	}
	return b.String()
}
