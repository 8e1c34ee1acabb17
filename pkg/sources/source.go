// Package sources holds the per-outlet page adapters. Each adapter knows how
// to build a page URL and how to pull headline, description, date and link
// out of that outlet's markup; the ingest pipeline never inspects article
// structure itself.
package sources

import (
	"fmt"
	"strings"
	"sync"
)

// Article is an opaque, source-specific record. Only the owning Source can
// read it, through the accessor methods below.
type Article any

// Source is the adapter contract for one news outlet.
type Source interface {
	ID() string
	// URL builds the fetch URL for the given zero-based page index.
	URL(page int) string
	// Articles parses raw page content into article records.
	Articles(content []byte) ([]Article, error)
	// Accessors return ok=false when the field cannot be extracted.
	Headline(a Article) (string, bool)
	Description(a Article) (string, bool)
	Date(a Article) (string, bool)
	Link(a Article) (string, bool)
}

type registry struct {
	sources map[string]Source
	mu      sync.RWMutex
}

// Registry resolves sources by id.
type Registry interface {
	SourceFor(id string) (Source, error)
}

// NewRegistry builds a registry for the provided source implementations.
func NewRegistry(sources ...Source) Registry {
	reg := &registry{
		sources: make(map[string]Source, len(sources)),
	}

	for _, s := range sources {
		if s == nil {
			continue
		}
		reg.sources[strings.ToLower(strings.TrimSpace(s.ID()))] = s
	}

	return reg
}

// SourceFor selects the source adapter registered under the given id.
func (r *registry) SourceFor(id string) (Source, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("source id is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.sources[strings.ToLower(strings.TrimSpace(id))]; ok {
		return s, nil
	}

	return nil, fmt.Errorf("no source registered for id %q", id)
}

// Headers returns the request headers used when fetching outlet pages.
func Headers() map[string]string {
	return map[string]string{
		"User-Agent": "Mozilla/5.0 (compatible; headline-harvester/1.0)",
	}
}
