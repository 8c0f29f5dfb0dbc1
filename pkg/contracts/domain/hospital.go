package domain

// Column names referenced by the dashboard. Any uploaded file must carry
// every column in RequiredColumns.
const (
	ColumnCity            = "city"
	ColumnAge             = "age"
	ColumnAppointmentDate = "appointmentdate"
	ColumnStatus          = "status"
	ColumnDoctor          = "doctor_firstname"
	ColumnPaymentStatus   = "paymentstatus"
	ColumnAmount          = "amount"
	ColumnTreatment       = "treatmentname"
	ColumnDepartment      = "departmentname"
	ColumnSpecialization  = "specialization"
	ColumnSymptom         = "symptomname"
	ColumnNurse           = "nurse_firstname"
	ColumnDiagnosisDate   = "diagnosisdate"
)

// RequiredColumns lists the header names an upload must contain.
var RequiredColumns = []string{
	ColumnCity,
	ColumnAge,
	ColumnAppointmentDate,
	ColumnStatus,
	ColumnDoctor,
	ColumnPaymentStatus,
	ColumnAmount,
	ColumnTreatment,
	ColumnDepartment,
	ColumnSpecialization,
	ColumnSymptom,
	ColumnNurse,
	ColumnDiagnosisDate,
}

// DateColumns are parsed into calendar values at ingestion.
var DateColumns = []string{ColumnAppointmentDate, ColumnDiagnosisDate}

// NumericColumns are parsed into numbers at ingestion.
var NumericColumns = []string{ColumnAge, ColumnAmount}

// DatasetInfo describes the currently loaded record table
type DatasetInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Rows        int      `json:"rows"`
	Columns     []string `json:"columns"`
	Cities      []string `json:"cities"`
	Fingerprint string   `json:"fingerprint"`
	LoadedAt    string   `json:"loaded_at"`
}
