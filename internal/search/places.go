package search

import (
	"context"
	"fmt"
	"strings"

	"daytrip/internal/maps"
)

type placesSearcher interface {
	TextSearch(ctx context.Context, query string, limit int) ([]maps.Place, error)
}

// Places answers queries with Google Places text search results.
type Places struct {
	svc placesSearcher
}

func NewPlaces(svc *maps.PlacesService) *Places {
	return &Places{svc: svc}
}

func (p *Places) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	places, err := p.svc.TextSearch(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(places))
	for _, place := range places {
		var snippet []string
		if place.Address != "" {
			snippet = append(snippet, place.Address)
		}
		if place.Rating > 0 {
			snippet = append(snippet, fmt.Sprintf("rating %.1f (%d reviews)", place.Rating, place.UserRatingsTotal))
		}
		if len(place.Types) > 0 {
			snippet = append(snippet, strings.Join(place.Types, ", "))
		}
		results = append(results, Result{
			Title:   place.Name,
			Snippet: strings.Join(snippet, "; "),
		})
	}
	return results, nil
}
