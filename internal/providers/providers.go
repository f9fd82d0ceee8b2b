package providers

import (
	"context"
	"fmt"

	"github.com/desertthunder/topcharts/internal/models"
	"github.com/desertthunder/topcharts/internal/shared"
)

// DefaultLimit caps result size when a request does not specify one.
const DefaultLimit = 50

// GetTopParams describes one chart request.
type GetTopParams struct {
	SubjectType  models.SubjectType
	SubjectID    int64  // 0 when absent
	SubjectValue string // "" when absent
	ItemType     models.ItemType
	ScopeKey     string
	Limit        int // 0 means DefaultLimit
}

// EffectiveLimit returns the requested limit, defaulted and floored.
func (p GetTopParams) EffectiveLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}
	return p.Limit
}

// Provider is a pluggable data source capable of producing ranked items for a
// subject, item type and scope.
type Provider interface {
	// Name returns the stable provider identifier used in cache keys.
	Name() string

	// Supports reports whether this provider can answer the given
	// (subject type, item type) combination.
	Supports(params GetTopParams) bool

	// GetTop produces the ranked item list. "No data" is an empty slice,
	// never an error; errors indicate transport or configuration failure.
	GetTop(ctx context.Context, params GetTopParams) ([]models.TopItem, error)
}

// Registry selects a provider by name plus capability check.
type Registry struct {
	providers []Provider
}

// NewRegistry creates a Registry over the given providers.
func NewRegistry(providers ...Provider) *Registry {
	return &Registry{providers: providers}
}

// Select returns the provider with the given name whose Supports accepts the
// params. Selection is by declared capability, never by type inspection.
func (r *Registry) Select(name string, params GetTopParams) (Provider, error) {
	for _, p := range r.providers {
		if p.Name() == name && p.Supports(params) {
			return p, nil
		}
	}

	return nil, fmt.Errorf("%w: provider %q for %s/%s",
		shared.ErrNoProvider, name, params.SubjectType, params.ItemType)
}

// Names lists the registered provider identifiers in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for _, p := range r.providers {
		names = append(names, p.Name())
	}
	return names
}
