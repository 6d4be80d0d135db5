package provider

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/skoolgrab/scanner/pkg/models"
)

// Registry is an ordered collection of providers. Registration order is the
// URL-ownership tie-break: no two providers should claim the same URL, but
// if one ever did, the earliest registration wins. It is constructed
// explicitly and passed by reference so tests can assemble isolated
// registries with fake providers.
type Registry struct {
	providers []Provider
	byName    map[models.Platform]Provider
}

func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[models.Platform]Provider),
	}
}

// NewDefaultRegistry registers every supported platform in precedence order.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewYouTube())
	r.Register(NewLoom())
	r.Register(NewVimeo())
	r.Register(NewWistia())
	r.Register(NewSkool())
	return r
}

func (r *Registry) Register(p Provider) {
	r.providers = append(r.providers, p)
	r.byName[p.Name()] = p
}

func (r *Registry) Providers() []Provider {
	return r.providers
}

// ByURL returns the first registered provider that owns the URL, or nil.
func (r *Registry) ByURL(url string) Provider {
	for _, p := range r.providers {
		if p.OwnsURL(url) {
			return p
		}
	}
	return nil
}

func (r *Registry) ByName(name models.Platform) Provider {
	return r.byName[name]
}

// DetectInDocument fans the structured-context scan out to every provider
// and merges the results. Cross-provider duplicates are not suppressed here;
// each provider already de-duplicates its own output.
func (r *Registry) DetectInDocument(doc *goquery.Document, rawHTML string) []models.VideoRecord {
	var records []models.VideoRecord
	for _, p := range r.providers {
		records = append(records, stampOwner(p, p.DetectInDocument(doc, rawHTML))...)
	}
	return records
}

// DetectInSelection fans the subtree scan out to every provider.
func (r *Registry) DetectInSelection(sel *goquery.Selection) []models.VideoRecord {
	var records []models.VideoRecord
	for _, p := range r.providers {
		records = append(records, stampOwner(p, p.DetectInSelection(sel))...)
	}
	return records
}

func stampOwner(p Provider, records []models.VideoRecord) []models.VideoRecord {
	for i := range records {
		if records[i].Provider == "" {
			records[i].Provider = p.Name()
		}
		if records[i].Type == "" {
			records[i].Type = records[i].Provider
		}
	}
	return records
}
