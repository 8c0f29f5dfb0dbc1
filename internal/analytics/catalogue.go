package analytics

import (
	"fmt"

	"hospitalpulse/internal/dataset"
	apierrors "hospitalpulse/internal/errors"
	"hospitalpulse/pkg/contracts/domain"
)

// Aggregator binds one summary to its columns, title and chart kind
type Aggregator struct {
	ID      string
	Title   string
	Kind    domain.ChartKind
	Shape   domain.SummaryShape
	Columns []string
}

var catalogue = []Aggregator{
	{ID: "age-distribution", Title: "Age Distribution", Kind: domain.ChartHistogram, Shape: domain.ShapeValues, Columns: []string{domain.ColumnAge}},
	{ID: "appointment-status", Title: "Appointment Status", Kind: domain.ChartStackedBar, Shape: domain.ShapeGroups, Columns: []string{domain.ColumnAppointmentDate, domain.ColumnStatus}},
	{ID: "appointment-frequency", Title: "Appointment Frequency", Kind: domain.ChartLine, Shape: domain.ShapeDates, Columns: []string{domain.ColumnAppointmentDate}},
	{ID: "doctor-utilization", Title: "Doctor Utilization", Kind: domain.ChartBar, Shape: domain.ShapeCounts, Columns: []string{domain.ColumnDoctor}},
	{ID: "payment-status", Title: "Payment Status", Kind: domain.ChartDonut, Shape: domain.ShapeCounts, Columns: []string{domain.ColumnPaymentStatus}},
	{ID: "billing-amounts", Title: "Billing Amounts", Kind: domain.ChartBox, Shape: domain.ShapeValues, Columns: []string{domain.ColumnAmount}},
	{ID: "common-diagnoses", Title: "Common Diagnoses", Kind: domain.ChartBar, Shape: domain.ShapeCounts, Columns: []string{domain.ColumnTreatment}},
	{ID: "treatment-outcomes", Title: "Treatment Outcomes", Kind: domain.ChartStackedBar, Shape: domain.ShapeGroups, Columns: []string{domain.ColumnTreatment, domain.ColumnStatus}},
	{ID: "department-utilization", Title: "Department Utilization", Kind: domain.ChartTreemap, Shape: domain.ShapeGroups, Columns: []string{domain.ColumnDepartment, domain.ColumnDoctor}},
	{ID: "specialization-demand", Title: "Specialization Demand", Kind: domain.ChartPie, Shape: domain.ShapeCounts, Columns: []string{domain.ColumnSpecialization}},
	{ID: "common-symptoms", Title: "Common Symptoms", Kind: domain.ChartBar, Shape: domain.ShapeCounts, Columns: []string{domain.ColumnSymptom}},
	{ID: "nurse-workload", Title: "Nurse Workload", Kind: domain.ChartBar, Shape: domain.ShapeCounts, Columns: []string{domain.ColumnNurse}},
	{ID: "diagnosis-date-analysis", Title: "Diagnosis Date Analysis", Kind: domain.ChartLine, Shape: domain.ShapeDates, Columns: []string{domain.ColumnDiagnosisDate}},
}

// Catalogue returns the dashboard aggregators in display order
func Catalogue() []Aggregator {
	out := make([]Aggregator, len(catalogue))
	copy(out, catalogue)
	return out
}

// Lookup finds an aggregator by id. Unknown ids wrap
// apierrors.ErrUnknownChart.
func Lookup(id string) (Aggregator, error) {
	for _, a := range catalogue {
		if a.ID == id {
			return a, nil
		}
	}
	return Aggregator{}, fmt.Errorf("%w: %q", apierrors.ErrUnknownChart, id)
}

// Run computes the aggregator's summary over v
func (a Aggregator) Run(v *dataset.View) (domain.Summary, error) {
	s := domain.Summary{
		ID:      a.ID,
		Title:   a.Title,
		Kind:    a.Kind,
		Shape:   a.Shape,
		Columns: append([]string(nil), a.Columns...),
	}

	var err error
	switch a.Shape {
	case domain.ShapeCounts:
		s.Counts, err = CountBy(v, a.Columns[0])
	case domain.ShapeGroups:
		s.Groups, err = GroupCount(v, a.Columns[0], a.Columns[1])
	case domain.ShapeDates:
		s.Dates, err = DateCount(v, a.Columns[0])
	case domain.ShapeValues:
		s.Values, err = Values(v, a.Columns[0])
	default:
		err = fmt.Errorf("unknown summary shape %q", a.Shape)
	}
	if err != nil {
		return domain.Summary{}, fmt.Errorf("%s: %w", a.ID, err)
	}
	return s, nil
}

// Run computes every catalogue summary over v in display order. The first
// failure aborts the pass.
func Run(v *dataset.View) ([]domain.Summary, error) {
	out := make([]domain.Summary, 0, len(catalogue))
	for _, a := range catalogue {
		s, err := a.Run(v)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
