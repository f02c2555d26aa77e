package insights

import (
	"context"

	"github.com/bobmcallan/aide-portal/internal/market"
	"github.com/bobmcallan/aide-portal/internal/models"
)

// ProfileResolver resolves tickers and free-text queries to company profiles.
// Implemented by *market.Client.
type ProfileResolver interface {
	FetchProfile(ctx context.Context, ticker string) market.Result[*models.CompanyProfile]
	SearchProfile(ctx context.Context, query, expectedTicker string) market.Result[*models.CompanyProfile]
}

// RegistryLookup returns the statutory filing record for a ticker, or nil.
// Implemented by *registry.Client.
type RegistryLookup interface {
	Lookup(ctx context.Context, ticker string, forceRefresh bool) (*models.RegistryRecord, error)
}

// WikiLookup finds the representative named in an encyclopedia infobox.
// Implemented by *wikipedia.Client.
type WikiLookup interface {
	Representative(ctx context.Context, companyName, ticker string) (models.Officer, bool)
}

// LogoFinder resolves logo URLs and the provider-reported chief executive.
// Implemented by *logo.Resolver.
type LogoFinder interface {
	Resolve(ctx context.Context, ticker, website string) string
	ChiefExecutive(ctx context.Context, ticker string) string
}
