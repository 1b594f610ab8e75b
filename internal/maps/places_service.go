package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// Place represents a simplified location result.
type Place struct {
	Name             string
	Address          string
	Rating           float32
	PlaceID          string
	UserRatingsTotal int
	Types            []string
}

// textSearchAPI is the subset of *maps.Client used by PlacesService.
type textSearchAPI interface {
	TextSearch(ctx context.Context, r *maps.TextSearchRequest) (maps.PlacesSearchResponse, error)
}

// PlacesService handles interactions with Google Places API.
type PlacesService struct {
	client   textSearchAPI
	language string
	region   string
}

// NewPlacesService creates a new PlacesService with the given API Key.
// language and region may be empty.
func NewPlacesService(apiKey, language, region string, clientOpts ...maps.ClientOption) (*PlacesService, error) {
	opts := append([]maps.ClientOption{maps.WithAPIKey(apiKey), maps.WithRateLimit(0)}, clientOpts...)
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesService{client: client, language: language, region: region}, nil
}

// TextSearch returns at most limit places matching query, in the order the API ranks them.
// A limit <= 0 returns everything on the first result page.
func (s *PlacesService) TextSearch(ctx context.Context, query string, limit int) ([]Place, error) {
	r := &maps.TextSearchRequest{
		Query:    query,
		Language: s.language,
		Region:   s.region,
	}

	resp, err := s.client.TextSearch(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	var results []Place
	for _, result := range resp.Results {
		results = append(results, Place{
			Name:             result.Name,
			Address:          result.FormattedAddress,
			Rating:           result.Rating,
			PlaceID:          result.PlaceID,
			UserRatingsTotal: result.UserRatingsTotal,
			Types:            result.Types,
		})
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, nil
}
