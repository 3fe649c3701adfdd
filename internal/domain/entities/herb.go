// Package entities contains domain entities used across the application.
package entities

// Herb represents one record of the Ayurvedic herb knowledge base.
// Records are loaded once at startup and never mutated afterwards.
type Herb struct {
	Key            string   `json:"key"`             // canonical lowercase key, unique in the catalog
	Name           string   `json:"name"`            // display name, e.g. "Turmeric (Haldi)"
	ScientificName string   `json:"scientific_name"` // botanical name or formula composition
	Description    string   `json:"description"`
	Properties     []string `json:"properties"`
	Uses           []string `json:"uses"`
	WhereFound     string   `json:"where_found"`
	Availability   string   `json:"availability"`
	Forms          []string `json:"forms"`
	Dosage         string   `json:"dosage"`
	Precautions    string   `json:"precautions"`
}

// HerbAlias maps an alternate name or synonym to a canonical herb key.
type HerbAlias struct {
	Alias string `json:"alias"`
	Key   string `json:"key"`
}

// HerbSummary is the short listing shape used by the herb browser.
type HerbSummary struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Properties string `json:"properties"`
	Usage      string `json:"usage"`
}
