// Package services holds the dashboard state machine and health reporting
// that sit between the HTTP handlers and the dataset, analytics and charts
// packages.
//
// DashboardService starts with no file loaded. Load moves it to the loaded
// state; a failed Load leaves the previous state untouched. Every other
// operation returns an error wrapping errors.ErrNoDataset until a file has
// been loaded.
//
//	svc := services.NewDashboardService(services.DashboardOptions{Logger: logger})
//	info, err := svc.Load(ctx, file, "records.csv")
//	d, err := svc.Dashboard(ctx, []string{"Boston"})
package services
