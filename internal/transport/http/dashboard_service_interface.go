package http

import (
	"context"
	"io"

	"hospitalpulse/internal/services"
	"hospitalpulse/pkg/contracts/domain"
)

// DashboardServiceInterface is what the handlers need from the dashboard
// state machine
type DashboardServiceInterface interface {
	Load(ctx context.Context, r io.Reader, name string) (domain.DatasetInfo, error)
	Dataset(ctx context.Context) (domain.DatasetInfo, error)
	Dashboard(ctx context.Context, cities []string) (*domain.Dashboard, error)
	RenderDashboard(ctx context.Context, cities []string) (*services.RenderedDashboard, error)
	Summary(ctx context.Context, id string, cities []string) (domain.Summary, error)
	Chart(ctx context.Context, w io.Writer, id string, cities []string) error
	Export(ctx context.Context, w io.Writer) error
	ExportXLSX(ctx context.Context, w io.Writer) error
}

var _ DashboardServiceInterface = (*services.DashboardService)(nil)
