package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-landing/components/landing"
)

// TypesRequest filters the type catalog. An empty Category lists every type.
type TypesRequest struct {
	Category string
}

// TypeView is the public description of a registered widget type.
type TypeView struct {
	Name        string           `json:"name"`
	Label       string           `json:"label"`
	Description string           `json:"description,omitempty"`
	Category    string           `json:"category,omitempty"`
	Schema      map[string]any   `json:"schema,omitempty"`
	Defaults    landing.Settings `json:"defaults,omitempty"`
}

// TypesQuery lists the widget types available to the page composer.
type TypesQuery struct {
	registry landing.TypeRegistry
}

// NewTypesQuery builds the query.
func NewTypesQuery(registry landing.TypeRegistry) *TypesQuery {
	return &TypesQuery{registry: registry}
}

var _ gocommand.Querier[TypesRequest, []TypeView] = (*TypesQuery)(nil)

// Query returns the catalog ordered by type name.
func (q *TypesQuery) Query(_ context.Context, req TypesRequest) ([]TypeView, error) {
	if q.registry == nil {
		return nil, nil
	}
	var out []TypeView
	for _, wt := range q.registry.Types() {
		if req.Category != "" && wt.Category != req.Category {
			continue
		}
		out = append(out, TypeView{
			Name:        wt.Name,
			Label:       wt.Label,
			Description: wt.Description,
			Category:    wt.Category,
			Schema:      wt.Schema,
			Defaults:    wt.Defaults.Clone(),
		})
	}
	return out, nil
}
