package export

// Format identifiers accepted by the export pipeline. Aliases ("docx",
// "pptx") are resolved to their canonical format before dispatch.
const (
	FormatJSON        = "json"
	FormatCSV         = "csv"
	FormatExcel       = "excel"
	FormatPDF         = "pdf"
	FormatWord        = "word"
	FormatWordAlias   = "docx"
	FormatSlides      = "powerpoint"
	FormatSlidesAlias = "pptx"
)

// Export type labels used in file names and report titles.
const (
	ExportTypeComplete = "complete"
	ExportTypeFiltered = "filtered"
)

// Row caps per document format. A cap only limits the rendered table; the
// snapshot itself always carries every employee.
const (
	PDFEmployeeRowCap    = 20
	WordEmployeeRowCap   = 10
	SlidesEmployeeRowCap = 12
)

// summaryMetricsCount is the fixed number of always-present summary metrics
// counted into ExportStats.TotalRecordsExported on top of the per-section
// record counts.
const summaryMetricsCount = 5

// Filter describes one already-applied quick filter, echoed into filtered
// exports as a "Filters Applied" section.
type Filter struct {
	Name     string `json:"name"`
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
	Type     string `json:"type,omitempty"`
}

// Options carries the per-export switches recognized by every encoder.
type Options struct {
	IsFiltered    bool     `json:"isFiltered"`
	ActiveFilters []Filter `json:"activeFilters,omitempty"`
	ExportType    string   `json:"exportType,omitempty"` // "complete" or "filtered"
	IncludeCharts bool     `json:"includeCharts"`

	// RowCapOverride replaces the per-format employee row cap when > 0.
	RowCapOverride int `json:"rowCapOverride,omitempty"`
}

// ExportTypeLabel returns the label used in file names and titles.
func (o Options) ExportTypeLabel() string {
	if o.ExportType != "" {
		return o.ExportType
	}
	if o.IsFiltered {
		return ExportTypeFiltered
	}
	return ExportTypeComplete
}

// SystemInfo captures the environment the export was produced from.
type SystemInfo struct {
	UserAgent string `json:"userAgent"`
	Timezone  string `json:"timezone"`
}

// Metadata is the informational header of a snapshot. All fields are filled
// with sensible defaults; none carry invariants.
type Metadata struct {
	ExportID    string     `json:"exportId"`
	ExportedAt  string     `json:"exportedAt"`
	ExportedBy  string     `json:"exportedBy"`
	SourceLabel string     `json:"sourceLabel"`
	Version     string     `json:"version"`
	Format      string     `json:"format"`
	Environment string     `json:"environment"`
	SystemInfo  SystemInfo `json:"systemInfo"`
	LastUpdated string     `json:"lastUpdated"`
}

// SystemMetrics holds headcount, task counts and resource gauges.
// InactiveEmployees is always derived as Total - Active (clamped at zero);
// an upstream "inactive" field is only consulted when the total itself is
// missing.
type SystemMetrics struct {
	TotalEmployees    int     `json:"totalEmployees"`
	ActiveEmployees   int     `json:"activeEmployees"`
	InactiveEmployees int     `json:"inactiveEmployees"`
	PendingTasks      int     `json:"pendingTasks"`
	CompletedTasks    int     `json:"completedTasks"`
	CPUUsage          float64 `json:"cpuUsage"`
	MemoryUsage       float64 `json:"memoryUsage"`
	DiskUsage         float64 `json:"diskUsage"`
}

// Employee is one normalized employee record. Every raw record maps to
// exactly one Employee; records that cannot be identified keep placeholder
// values rather than being dropped.
type Employee struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Title      string  `json:"title"`
	Department string  `json:"department"`
	Salary     float64 `json:"salary"`
	Active     bool    `json:"active"`
	HireDate   string  `json:"hireDate"`
	Phone      string  `json:"phone"`
}

// Performance holds the organization-level percentage metrics.
type Performance struct {
	Productivity float64 `json:"productivity"`
	Efficiency   float64 `json:"efficiency"`
	Satisfaction float64 `json:"satisfaction"`
	Retention    float64 `json:"retention"`
}

// Balance is the accounting balance block. NetDifference is always
// recomputed as TotalCredits - TotalDebits during normalization.
type Balance struct {
	TotalDebits   float64 `json:"totalDebits"`
	TotalCredits  float64 `json:"totalCredits"`
	NetDifference float64 `json:"netDifference"`
}

// CashFlow is the monthly cash-flow block.
type CashFlow struct {
	MonthlyIncome   float64 `json:"monthlyIncome"`
	MonthlyExpenses float64 `json:"monthlyExpenses"`
	MonthlyNet      float64 `json:"monthlyNet"`
}

// Vouchers holds voucher state counts.
type Vouchers struct {
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Rejected  int `json:"rejected"`
}

// Accounting groups the financial sections of a snapshot.
type Accounting struct {
	Balance  Balance  `json:"balance"`
	CashFlow CashFlow `json:"cashFlow"`
	Vouchers Vouchers `json:"vouchers"`
}

// Payroll aggregates the monthly payroll section.
type Payroll struct {
	MonthlyRecords     int     `json:"monthlyRecords"`
	TotalMonthlyAmount float64 `json:"totalMonthlyAmount"`
	AverageSalary      float64 `json:"averageSalary"`
	PendingPayments    int     `json:"pendingPayments"`
}

// Loans aggregates the loan section.
type Loans struct {
	ActiveLoans         int     `json:"activeLoans"`
	TotalLoanAmount     float64 `json:"totalLoanAmount"`
	PendingInstallments int     `json:"pendingInstallments"`
}

// Locations aggregates office/branch counts.
type Locations struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

// Items aggregates inventory counts.
type Items struct {
	Total    int `json:"total"`
	LowStock int `json:"lowStock"`
}

// Roles aggregates the role catalog.
type Roles struct {
	Total int      `json:"total"`
	Names []string `json:"names"`
}

// Projects aggregates project counts.
type Projects struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

// Activity aggregates recent-activity counters.
type Activity struct {
	RecentLogins int    `json:"recentLogins"`
	LastActivity string `json:"lastActivity"`
}

// Configuration echoes organization-level settings into the snapshot.
type Configuration struct {
	CompanyName string `json:"companyName"`
	Currency    string `json:"currency"`
	FiscalYear  string `json:"fiscalYear"`
}

// ExportStats summarizes what the export contains. ExportSize is back-filled
// by the orchestrator after encoding, once the payload size is known.
type ExportStats struct {
	TotalRecordsExported int      `json:"totalRecordsExported"`
	DataTypes            []string `json:"dataTypes"`
	ExportSize           int64    `json:"exportSize"`
}

// ExportSnapshot is the canonical, normalized record produced once per
// export call and consumed by every encoder. It is never mutated after
// construction except for the ExportSize back-fill.
type ExportSnapshot struct {
	Metadata      Metadata      `json:"metadata"`
	SystemMetrics SystemMetrics `json:"systemMetrics"`
	Employees     []Employee    `json:"employees"`
	Performance   Performance   `json:"performance"`
	Accounting    Accounting    `json:"accounting"`
	Payroll       Payroll       `json:"payroll"`
	Loans         Loans         `json:"loans"`
	Locations     Locations     `json:"locations"`
	Items         Items         `json:"items"`
	Roles         Roles         `json:"roles"`
	Projects      Projects      `json:"projects"`
	Activity      Activity      `json:"activity"`
	Configuration Configuration `json:"configuration"`
	ExportStats   ExportStats   `json:"exportStats"`
}

// ChartRaster is one captured chart image plus the metadata the document
// encoders need to decide whether it is worth embedding.
type ChartRaster struct {
	ID           string `json:"id"`
	ImageData    []byte `json:"imageData"`
	Title        string `json:"title"`
	ChartType    string `json:"chartType"`
	DatasetCount int    `json:"datasetCount"`
	HasData      bool   `json:"hasData"`
}

// Artifact is the output of one encoder: the encoded payload plus the name
// and MIME type the download layer needs.
type Artifact struct {
	Payload  []byte
	FileName string
	MimeType string
}
