package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aliskhannn/ayurbot/assets"
	"github.com/aliskhannn/ayurbot/internal/domain/entities"
)

var (
	ErrHerbNotFound   = errors.New("herb not found")
	ErrInvalidCatalog = errors.New("invalid herb catalog")
	ErrInvalidPage    = errors.New("invalid page")
)

// HerbRepository provides read-only access to the herb knowledge base.
// Records keep the order they had in the source file.
type HerbRepository struct {
	herbs   []entities.Herb
	byKey   map[string]int
	aliases []entities.HerbAlias
}

// NewHerbRepository loads herbs and aliases from the JSON file at path,
// or from the embedded dataset when path is empty.
func NewHerbRepository(path string) (*HerbRepository, error) {
	var wrapper struct {
		Herbs   []entities.Herb      `json:"herbs"`
		Aliases []entities.HerbAlias `json:"aliases"`
	}
	if err := readJSON(path, assets.HerbsFile, &wrapper); err != nil {
		return nil, fmt.Errorf("load herbs: %w", err)
	}

	return NewHerbRepositoryFrom(wrapper.Herbs, wrapper.Aliases)
}

// NewHerbRepositoryFrom builds a repository from in-memory records.
func NewHerbRepositoryFrom(herbs []entities.Herb, aliases []entities.HerbAlias) (*HerbRepository, error) {
	r := &HerbRepository{
		herbs:   make([]entities.Herb, 0, len(herbs)),
		byKey:   make(map[string]int, len(herbs)),
		aliases: make([]entities.HerbAlias, 0, len(aliases)),
	}

	for _, h := range herbs {
		key := strings.ToLower(strings.TrimSpace(h.Key))
		if key == "" {
			return nil, fmt.Errorf("%w: herb %q has empty key", ErrInvalidCatalog, h.Name)
		}
		if _, ok := r.byKey[key]; ok {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrInvalidCatalog, key)
		}
		h.Key = key
		r.byKey[key] = len(r.herbs)
		r.herbs = append(r.herbs, h)
	}

	for _, a := range aliases {
		alias := strings.ToLower(strings.TrimSpace(a.Alias))
		key := strings.ToLower(strings.TrimSpace(a.Key))
		if alias == "" {
			return nil, fmt.Errorf("%w: empty alias for %q", ErrInvalidCatalog, key)
		}
		if _, ok := r.byKey[key]; !ok {
			return nil, fmt.Errorf("%w: alias %q points to unknown herb %q", ErrInvalidCatalog, alias, key)
		}
		r.aliases = append(r.aliases, entities.HerbAlias{Alias: alias, Key: key})
	}

	return r, nil
}

// GetByKey returns a copy of the herb with the given key.
func (r *HerbRepository) GetByKey(key string) (entities.Herb, error) {
	idx, ok := r.byKey[strings.ToLower(key)]
	if !ok {
		return entities.Herb{}, ErrHerbNotFound
	}
	return cloneHerb(r.herbs[idx]), nil
}

// All returns copies of all herbs in catalog order.
func (r *HerbRepository) All() []entities.Herb {
	out := make([]entities.Herb, len(r.herbs))
	for i, h := range r.herbs {
		out[i] = cloneHerb(h)
	}
	return out
}

// Aliases returns the alias table in its declared order.
func (r *HerbRepository) Aliases() []entities.HerbAlias {
	out := make([]entities.HerbAlias, len(r.aliases))
	copy(out, r.aliases)
	return out
}

// ListHerbs returns a page of herb summaries. IDs are 1-based catalog positions.
func (r *HerbRepository) ListHerbs(_ context.Context, skip, limit int) ([]entities.HerbSummary, error) {
	if skip < 0 || limit <= 0 {
		return nil, ErrInvalidPage
	}
	if skip >= len(r.herbs) {
		return []entities.HerbSummary{}, nil
	}

	end := min(skip+limit, len(r.herbs))
	out := make([]entities.HerbSummary, 0, end-skip)
	for i := skip; i < end; i++ {
		h := r.herbs[i]
		out = append(out, entities.HerbSummary{
			ID:         i + 1,
			Name:       h.Name,
			Properties: strings.Join(h.Properties, ", "),
			Usage:      strings.Join(h.Uses, ", "),
		})
	}

	return out, nil
}

func cloneHerb(h entities.Herb) entities.Herb {
	h.Properties = append([]string(nil), h.Properties...)
	h.Uses = append([]string(nil), h.Uses...)
	h.Forms = append([]string(nil), h.Forms...)
	return h
}
