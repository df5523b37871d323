package sheets

import (
	"context"

	"financeiro/internal/core"
)

// Ports for outbound adapters.
type (
	// ReportWriter publishes one year of the reports view to an external
	// sheet. Writing the same report twice must be harmless.
	ReportWriter interface {
		WriteYearReport(ctx context.Context, r core.YearReport) error
	}
)
