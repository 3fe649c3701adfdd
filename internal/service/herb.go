package service

import (
	"strings"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
)

var herbKeywords = []string{
	"herb", "herbs", "plant", "plants", "medicine", "medicinal",
	"where to find", "where can i find", "where to buy", "where to get",
	"availability", "available", "grow", "cultivation", "native",
	"tell me about", "what is", "about",
}

// MissingHerbMessage is the reply to a herb question nothing in the catalog answers.
const MissingHerbMessage = "I couldn't find specific information about that herb. " +
	"Could you please be more specific or try asking about common Ayurvedic herbs like " +
	"turmeric, ashwagandha, neem, tulsi, ginger, brahmi, amla, or triphala?"

type indexedHerb struct {
	herb       entities.Herb
	name       string // lowercased display name
	scientific string // lowercased scientific name
	corpus     string // lowercased uses, properties and description
}

// HerbCatalog answers herb questions from the knowledge base.
// It is immutable after construction and safe for concurrent use.
type HerbCatalog struct {
	herbs   []indexedHerb
	byKey   map[string]int
	aliases []entities.HerbAlias
}

// NewHerbCatalog indexes the records supplied by src.
func NewHerbCatalog(src HerbSource) *HerbCatalog {
	herbs := src.All()
	c := &HerbCatalog{
		herbs:   make([]indexedHerb, 0, len(herbs)),
		byKey:   make(map[string]int, len(herbs)),
		aliases: src.Aliases(),
	}

	for _, h := range herbs {
		corpus := strings.Join(h.Uses, " ") + " " +
			strings.Join(h.Properties, " ") + " " +
			h.Description

		c.byKey[h.Key] = len(c.herbs)
		c.herbs = append(c.herbs, indexedHerb{
			herb:       h,
			name:       strings.ToLower(h.Name),
			scientific: strings.ToLower(h.ScientificName),
			corpus:     strings.ToLower(corpus),
		})
	}

	return c
}

// Search finds the herb a query is about. Aliases are tried first in table
// order, then keys and names, then the free-text fields. The first hit wins.
func (c *HerbCatalog) Search(query string) (entities.Herb, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entities.Herb{}, false
	}

	for _, a := range c.aliases {
		if strings.Contains(q, a.Alias) {
			if idx, ok := c.byKey[a.Key]; ok {
				return clone(c.herbs[idx].herb), true
			}
		}
	}

	for _, h := range c.herbs {
		if strings.Contains(q, h.herb.Key) ||
			(h.name != "" && strings.Contains(q, h.name)) ||
			(h.scientific != "" && strings.Contains(q, h.scientific)) {
			return clone(h.herb), true
		}
	}

	for _, h := range c.herbs {
		if strings.Contains(h.corpus, q) {
			return clone(h.herb), true
		}
	}

	return entities.Herb{}, false
}

// IsHerbQuery reports whether a message looks like a question about herbs.
func (c *HerbCatalog) IsHerbQuery(query string) bool {
	q := strings.ToLower(query)

	for _, kw := range herbKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	for _, h := range c.herbs {
		if strings.Contains(q, h.herb.Key) || (h.name != "" && strings.Contains(q, h.name)) {
			return true
		}
	}
	for _, a := range c.aliases {
		if strings.Contains(q, a.Alias) {
			return true
		}
	}

	return false
}

func clone(h entities.Herb) entities.Herb {
	h.Properties = append([]string(nil), h.Properties...)
	h.Uses = append([]string(nil), h.Uses...)
	h.Forms = append([]string(nil), h.Forms...)
	return h
}
