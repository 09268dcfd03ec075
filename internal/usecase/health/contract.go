package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// TaxonomyChecker checks the loaded keyword taxonomy still satisfies its invariants.
type TaxonomyChecker interface {
	Validate() error
}
