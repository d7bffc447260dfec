package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Normalizer builds a canonical ExportSnapshot from a raw, inconsistently
// shaped dashboard data object. The backend has been through three naming
// conventions (current snake_case, legacy camelCase, and the original
// Spanish field names), so every scalar is read through an ordered list of
// candidate paths and the first defined, non-null value wins.
//
// Normalize is pure: it never mutates the raw map and performs no I/O.
type Normalizer struct {
	now   func() time.Time
	newID func() string
}

// NewNormalizer creates a Normalizer with wall-clock time and UUID export
// IDs.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// NewNormalizerWithClock creates a Normalizer with an injected clock and ID
// source, for reproducible snapshots in tests.
func NewNormalizerWithClock(now func() time.Time, newID func() string) *Normalizer {
	return &Normalizer{now: now, newID: newID}
}

// Normalize builds the snapshot for one export call.
func (n *Normalizer) Normalize(raw map[string]any, user string, lastUpdated time.Time, format string) ExportSnapshot {
	if user == "" {
		user = "N/A"
	}

	snap := ExportSnapshot{
		Metadata:      n.normalizeMetadata(raw, user, lastUpdated, format),
		SystemMetrics: normalizeSystemMetrics(raw),
		Employees:     normalizeEmployees(raw),
		Performance:   normalizePerformance(raw),
		Accounting:    normalizeAccounting(raw),
		Payroll:       normalizePayroll(raw),
		Loans:         normalizeLoans(raw),
		Locations:     normalizeLocations(raw),
		Items:         normalizeItems(raw),
		Roles:         normalizeRoles(raw),
		Projects:      normalizeProjects(raw),
		Activity:      normalizeActivity(raw),
		Configuration: normalizeConfiguration(raw),
	}

	// Headcount is reconciled here rather than trusted from upstream:
	// inactive is always total - active, clamped at zero.
	if snap.SystemMetrics.TotalEmployees == 0 && len(snap.Employees) > 0 {
		snap.SystemMetrics.TotalEmployees = len(snap.Employees)
	}
	inactive := snap.SystemMetrics.TotalEmployees - snap.SystemMetrics.ActiveEmployees
	if inactive < 0 {
		inactive = 0
	}
	snap.SystemMetrics.InactiveEmployees = inactive

	snap.ExportStats = buildExportStats(raw, snap)
	return snap
}

func (n *Normalizer) normalizeMetadata(raw map[string]any, user string, lastUpdated time.Time, format string) Metadata {
	updated := "N/A"
	if !lastUpdated.IsZero() {
		updated = lastUpdated.Format(time.RFC3339)
	}
	return Metadata{
		ExportID:    n.newID(),
		ExportedAt:  n.now().Format(time.RFC3339),
		ExportedBy:  user,
		SourceLabel: pickString(raw, "N/A", "source_label", "sourceLabel", "metadata.source"),
		Version:     pickString(raw, "1.0", "version", "metadata.version"),
		Format:      format,
		Environment: pickString(raw, "production", "environment", "metadata.environment"),
		SystemInfo: SystemInfo{
			UserAgent: pickString(raw, "N/A", "system_info.user_agent", "systemInfo.userAgent", "userAgent"),
			Timezone:  pickString(raw, "UTC", "system_info.timezone", "systemInfo.timezone", "timezone"),
		},
		LastUpdated: updated,
	}
}

func normalizeSystemMetrics(raw map[string]any) SystemMetrics {
	total := pickInt(raw, 0, "system_metrics.total_employees", "systemMetrics.totalEmployees", "totalEmployees", "total_empleados")
	active := pickInt(raw, 0, "system_metrics.active_employees", "systemMetrics.activeEmployees", "activeEmployees", "empleados_activos")
	if total == 0 {
		// Only when the total is missing does the upstream inactive field
		// participate, reconstructing total = active + inactive.
		inactive := pickInt(raw, 0, "system_metrics.inactive_employees", "systemMetrics.inactiveEmployees", "inactiveEmployees")
		total = active + inactive
	}
	return SystemMetrics{
		TotalEmployees:  total,
		ActiveEmployees: active,
		PendingTasks:    pickInt(raw, 0, "system_metrics.pending_tasks", "systemMetrics.pendingTasks", "pendingTasks"),
		CompletedTasks:  pickInt(raw, 0, "system_metrics.completed_tasks", "systemMetrics.completedTasks", "completedTasks"),
		CPUUsage:        clampPercent(pickFloat(raw, 0, "system_metrics.cpu_usage", "systemMetrics.cpuUsage", "cpuUsage")),
		MemoryUsage:     clampPercent(pickFloat(raw, 0, "system_metrics.memory_usage", "systemMetrics.memoryUsage", "memoryUsage")),
		DiskUsage:       clampPercent(pickFloat(raw, 0, "system_metrics.disk_usage", "systemMetrics.diskUsage", "diskUsage")),
	}
}

func normalizeEmployees(raw map[string]any) []Employee {
	list := pickSlice(raw, "employees", "empleados", "employee_list", "hr.employees")
	out := make([]Employee, 0, len(list))
	for i, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			// Malformed entries still occupy a row so the input length is
			// preserved.
			out = append(out, placeholderEmployee(i))
			continue
		}
		out = append(out, normalizeEmployee(entry, i))
	}
	return out
}

func placeholderEmployee(idx int) Employee {
	return Employee{
		ID:         fmt.Sprintf("emp-%d", idx+1),
		Name:       "N/A",
		Email:      "N/A",
		Title:      "N/A",
		Department: "N/A",
		HireDate:   "N/A",
		Phone:      "N/A",
	}
}

func normalizeEmployee(entry map[string]any, idx int) Employee {
	name := pickString(entry, "", "name", "full_name", "fullName", "nombre_completo")
	if name == "" {
		first := pickString(entry, "", "first_name", "firstName", "nombre")
		last := pickString(entry, "", "last_name", "lastName", "apellido")
		name = strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	}
	if name == "" {
		name = "N/A"
	}

	salary := pickFloat(entry, 0, "salary", "salario_base", "salario", "base_salary", "baseSalary")
	if salary < 0 {
		salary = 0
	}

	id := pickString(entry, "", "id", "employee_id", "employeeId", "cedula")
	if id == "" {
		id = fmt.Sprintf("emp-%d", idx+1)
	}

	return Employee{
		ID:         id,
		Name:       name,
		Email:      pickString(entry, "N/A", "email", "correo", "mail"),
		Title:      pickString(entry, "N/A", "title", "position", "cargo", "job_title", "jobTitle"),
		Department: pickString(entry, "N/A", "department", "departamento", "dept", "area"),
		Salary:     salary,
		Active:     pickBool(entry, "is_active", "isActive", "active", "activo", "estado"),
		HireDate:   pickString(entry, "N/A", "hire_date", "hireDate", "fecha_ingreso", "start_date", "startDate"),
		Phone:      pickString(entry, "N/A", "phone", "telefono", "phone_number", "phoneNumber"),
	}
}

func normalizePerformance(raw map[string]any) Performance {
	return Performance{
		Productivity: clampPercent(pickFloat(raw, 0, "performance.productivity", "performance.productividad", "productivity")),
		Efficiency:   clampPercent(pickFloat(raw, 0, "performance.efficiency", "performance.eficiencia", "efficiency")),
		Satisfaction: clampPercent(pickFloat(raw, 0, "performance.satisfaction", "performance.satisfaccion", "satisfaction")),
		Retention:    clampPercent(pickFloat(raw, 0, "performance.retention", "performance.retencion", "retention")),
	}
}

func normalizeAccounting(raw map[string]any) Accounting {
	debits := pickFloat(raw, 0, "accounting.balance.totalDebits", "accounting.balance.total_debits", "accounting.balance.totalDebitos", "contabilidad.balance.debitos")
	credits := pickFloat(raw, 0, "accounting.balance.totalCredits", "accounting.balance.total_credits", "accounting.balance.totalCreditos", "contabilidad.balance.creditos")
	income := pickFloat(raw, 0, "accounting.cash_flow.monthly_income", "accounting.cashFlow.monthlyIncome", "cashFlow.income")
	expenses := pickFloat(raw, 0, "accounting.cash_flow.monthly_expenses", "accounting.cashFlow.monthlyExpenses", "cashFlow.expenses")
	return Accounting{
		Balance: Balance{
			TotalDebits:   debits,
			TotalCredits:  credits,
			NetDifference: credits - debits,
		},
		CashFlow: CashFlow{
			MonthlyIncome:   income,
			MonthlyExpenses: expenses,
			MonthlyNet:      income - expenses,
		},
		Vouchers: Vouchers{
			Pending:   pickInt(raw, 0, "accounting.vouchers.pending", "accounting.vouchers.pendientes", "vouchers.pending"),
			Confirmed: pickInt(raw, 0, "accounting.vouchers.confirmed", "accounting.vouchers.confirmados", "vouchers.confirmed"),
			Rejected:  pickInt(raw, 0, "accounting.vouchers.rejected", "accounting.vouchers.rechazados", "vouchers.rejected"),
		},
	}
}

func normalizePayroll(raw map[string]any) Payroll {
	return Payroll{
		MonthlyRecords:     pickInt(raw, 0, "payroll.monthly_records", "payroll.monthlyRecords", "nomina.registros"),
		TotalMonthlyAmount: pickFloat(raw, 0, "payroll.total_monthly_amount", "payroll.totalMonthlyAmount", "nomina.total"),
		AverageSalary:      pickFloat(raw, 0, "payroll.average_salary", "payroll.averageSalary", "nomina.promedio"),
		PendingPayments:    pickInt(raw, 0, "payroll.pending_payments", "payroll.pendingPayments"),
	}
}

func normalizeLoans(raw map[string]any) Loans {
	return Loans{
		ActiveLoans:         pickInt(raw, 0, "loans.active_loans", "loans.activeLoans", "prestamos.activos"),
		TotalLoanAmount:     pickFloat(raw, 0, "loans.total_loan_amount", "loans.totalLoanAmount", "prestamos.total"),
		PendingInstallments: pickInt(raw, 0, "loans.pending_installments", "loans.pendingInstallments", "prestamos.cuotas_pendientes"),
	}
}

func normalizeLocations(raw map[string]any) Locations {
	total := pickInt(raw, 0, "locations.total", "locations.count", "sedes.total")
	if total == 0 {
		total = len(pickSlice(raw, "locations.list", "locations", "sedes"))
	}
	return Locations{
		Total:  total,
		Active: pickInt(raw, total, "locations.active", "sedes.activas"),
	}
}

func normalizeItems(raw map[string]any) Items {
	total := pickInt(raw, 0, "items.total", "items.count", "inventario.total")
	if total == 0 {
		total = len(pickSlice(raw, "items.list", "items", "inventario"))
	}
	return Items{
		Total:    total,
		LowStock: pickInt(raw, 0, "items.low_stock", "items.lowStock", "inventario.bajo_stock"),
	}
}

func normalizeRoles(raw map[string]any) Roles {
	names := []string{}
	for _, item := range pickSlice(raw, "roles.list", "roles") {
		switch v := item.(type) {
		case string:
			names = append(names, v)
		case map[string]any:
			if n := pickString(v, "", "name", "nombre"); n != "" {
				names = append(names, n)
			}
		}
	}
	total := pickInt(raw, 0, "roles.total", "roles.count")
	if total == 0 {
		total = len(names)
	}
	return Roles{Total: total, Names: names}
}

func normalizeProjects(raw map[string]any) Projects {
	return Projects{
		Active:    pickInt(raw, 0, "projects.active", "proyectos.activos"),
		Completed: pickInt(raw, 0, "projects.completed", "proyectos.completados"),
	}
}

func normalizeActivity(raw map[string]any) Activity {
	return Activity{
		RecentLogins: pickInt(raw, 0, "activity.recent_logins", "activity.recentLogins"),
		LastActivity: pickString(raw, "N/A", "activity.last_activity", "activity.lastActivity"),
	}
}

func normalizeConfiguration(raw map[string]any) Configuration {
	return Configuration{
		CompanyName: pickString(raw, "N/A", "configuration.company_name", "configuration.companyName", "config.empresa"),
		Currency:    pickString(raw, "COP", "configuration.currency", "config.moneda"),
		FiscalYear:  pickString(raw, "N/A", "configuration.fiscal_year", "configuration.fiscalYear"),
	}
}

func buildExportStats(raw map[string]any, snap ExportSnapshot) ExportStats {
	total := len(snap.Employees) +
		snap.Locations.Total +
		snap.Items.Total +
		snap.Loans.ActiveLoans +
		snap.Payroll.MonthlyRecords +
		snap.Roles.Total +
		summaryMetricsCount

	sections := []string{"metadata", "systemMetrics", "performance", "accounting", "exportStats"}
	if len(snap.Employees) > 0 {
		sections = append(sections, "employees")
	}
	for _, key := range []string{"payroll", "loans", "locations", "items", "roles", "projects", "activity", "configuration"} {
		if _, ok := raw[key]; ok {
			sections = append(sections, key)
		}
	}

	return ExportStats{
		TotalRecordsExported: total,
		DataTypes:            sections,
	}
}

// --- field fan-in helpers ---

// lookupPath walks a dot-separated path through nested maps and returns the
// first defined, non-nil value.
func lookupPath(raw map[string]any, path string) (any, bool) {
	cur := any(raw)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

func pickString(raw map[string]any, def string, paths ...string) string {
	for _, p := range paths {
		if v, ok := lookupPath(raw, p); ok {
			switch s := v.(type) {
			case string:
				if strings.TrimSpace(s) != "" {
					return strings.TrimSpace(s)
				}
			case float64:
				return strconv.FormatFloat(s, 'f', -1, 64)
			case int:
				return strconv.Itoa(s)
			}
		}
	}
	return def
}

func pickFloat(raw map[string]any, def float64, paths ...string) float64 {
	for _, p := range paths {
		if v, ok := lookupPath(raw, p); ok {
			switch n := v.(type) {
			case float64:
				return n
			case int:
				return float64(n)
			case int64:
				return float64(n)
			case string:
				if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
					return f
				}
			}
		}
	}
	return def
}

func pickInt(raw map[string]any, def int, paths ...string) int {
	for _, p := range paths {
		if v, ok := lookupPath(raw, p); ok {
			switch n := v.(type) {
			case int:
				return n
			case int64:
				return int(n)
			case float64:
				return int(n)
			case string:
				if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
					return i
				}
			}
		}
	}
	return def
}

// pickBool reads boolean-ish values: real booleans, 0/1 numerics, and the
// usual string spellings including the legacy "activo"/"inactivo" states.
func pickBool(raw map[string]any, paths ...string) bool {
	for _, p := range paths {
		v, ok := lookupPath(raw, p)
		if !ok {
			continue
		}
		switch b := v.(type) {
		case bool:
			return b
		case float64:
			return b != 0
		case int:
			return b != 0
		case string:
			switch strings.ToLower(strings.TrimSpace(b)) {
			case "true", "yes", "si", "sí", "1", "active", "activo":
				return true
			case "false", "no", "0", "inactive", "inactivo":
				return false
			}
		}
	}
	return false
}

func pickSlice(raw map[string]any, paths ...string) []any {
	for _, p := range paths {
		if v, ok := lookupPath(raw, p); ok {
			if list, ok := v.([]any); ok {
				return list
			}
		}
	}
	return nil
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
