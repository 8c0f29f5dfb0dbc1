package dataset

import (
	"strings"

	"hospitalpulse/pkg/contracts/domain"
)

var defaultCells = map[string]string{
	domain.ColumnAge:             "34",
	domain.ColumnAppointmentDate: "2024-01-15",
	domain.ColumnStatus:          "Completed",
	domain.ColumnDoctor:          "Alice",
	domain.ColumnPaymentStatus:   "Paid",
	domain.ColumnAmount:          "120.50",
	domain.ColumnTreatment:       "Checkup",
	domain.ColumnDepartment:      "Cardiology",
	domain.ColumnSpecialization:  "Cardiologist",
	domain.ColumnSymptom:         "Cough",
	domain.ColumnNurse:           "Nina",
	domain.ColumnDiagnosisDate:   "2024-01-16",
}

// record builds one data row in RequiredColumns order
func record(city string, overrides map[string]string) []string {
	out := make([]string, len(domain.RequiredColumns))
	for i, col := range domain.RequiredColumns {
		switch v, ok := overrides[col]; {
		case ok:
			out[i] = v
		case col == domain.ColumnCity:
			out[i] = city
		default:
			out[i] = defaultCells[col]
		}
	}
	return out
}

// csvText renders header and rows as comma-separated text
func csvText(header []string, rows ...[]string) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(header, ","))
	sb.WriteString("\n")
	for _, r := range rows {
		sb.WriteString(strings.Join(r, ","))
		sb.WriteString("\n")
	}
	return sb.String()
}

func without(header []string, drop string) []string {
	out := make([]string, 0, len(header))
	for _, h := range header {
		if h != drop {
			out = append(out, h)
		}
	}
	return out
}
