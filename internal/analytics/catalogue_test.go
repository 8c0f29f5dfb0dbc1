package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospitalpulse/internal/dataset"
	apierrors "hospitalpulse/internal/errors"
	"hospitalpulse/pkg/contracts/domain"
)

func TestCatalogue(t *testing.T) {
	cat := Catalogue()
	require.Len(t, cat, 13)

	want := []struct {
		id    string
		title string
		kind  domain.ChartKind
	}{
		{"age-distribution", "Age Distribution", domain.ChartHistogram},
		{"appointment-status", "Appointment Status", domain.ChartStackedBar},
		{"appointment-frequency", "Appointment Frequency", domain.ChartLine},
		{"doctor-utilization", "Doctor Utilization", domain.ChartBar},
		{"payment-status", "Payment Status", domain.ChartDonut},
		{"billing-amounts", "Billing Amounts", domain.ChartBox},
		{"common-diagnoses", "Common Diagnoses", domain.ChartBar},
		{"treatment-outcomes", "Treatment Outcomes", domain.ChartStackedBar},
		{"department-utilization", "Department Utilization", domain.ChartTreemap},
		{"specialization-demand", "Specialization Demand", domain.ChartPie},
		{"common-symptoms", "Common Symptoms", domain.ChartBar},
		{"nurse-workload", "Nurse Workload", domain.ChartBar},
		{"diagnosis-date-analysis", "Diagnosis Date Analysis", domain.ChartLine},
	}
	for i, w := range want {
		assert.Equal(t, w.id, cat[i].ID)
		assert.Equal(t, w.title, cat[i].Title)
		assert.Equal(t, w.kind, cat[i].Kind)
	}

	cat[0].Title = "mutated"
	assert.Equal(t, "Age Distribution", Catalogue()[0].Title, "callers get a copy")
}

func TestLookup(t *testing.T) {
	a, err := Lookup("payment-status")
	require.NoError(t, err)
	assert.Equal(t, domain.ChartDonut, a.Kind)

	_, err = Lookup("nope")
	assert.ErrorIs(t, err, apierrors.ErrUnknownChart)
}

func TestRun(t *testing.T) {
	table := mixedTable(t)
	v := dataset.All(table)

	summaries, err := Run(v)
	require.NoError(t, err)
	require.Len(t, summaries, 13)

	byID := map[string]domain.Summary{}
	for _, s := range summaries {
		byID[s.ID] = s
	}

	assert.Equal(t, 4, byID["age-distribution"].Total())
	assert.Equal(t, table.Len(), byID["doctor-utilization"].Total())
	assert.Equal(t, table.Len(), byID["department-utilization"].Total())
	assert.Equal(t, table.Len(), byID["treatment-outcomes"].Total())
	assert.Equal(t, 4, byID["appointment-status"].Total(), "missing date skipped")
	assert.Equal(t, 4, byID["appointment-frequency"].Total())
	assert.Equal(t, []float64{100, 100, 100, 250.5, 100}, byID["billing-amounts"].Values)
}

func TestRun_Idempotent(t *testing.T) {
	v := dataset.Filter(mixedTable(t), []string{"A", "B"})

	first, err := Run(v)
	require.NoError(t, err)
	second, err := Run(v)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRun_EmptyTable(t *testing.T) {
	summaries, err := Run(dataset.All(newTable(t)))
	require.NoError(t, err)
	require.Len(t, summaries, 13)
	for _, s := range summaries {
		assert.True(t, s.Empty(), s.ID)
	}
}
