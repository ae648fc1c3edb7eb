package reporting

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// MeasureDefinition defines a reporting measure with its SQL query.
type MeasureDefinition struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	SQL         string   `json:"sql"`
	Parameters  []string `json:"parameters"`
}

// MeasureReport holds the results of evaluating a measure.
type MeasureReport struct {
	MeasureID   string                   `json:"measure_id"`
	MeasureName string                   `json:"measure_name"`
	GeneratedAt time.Time                `json:"generated_at"`
	Results     []map[string]interface{} `json:"results"`
	Parameters  map[string]string        `json:"parameters,omitempty"`
}

// DashboardStats is the landing-page summary block.
type DashboardStats struct {
	TotalPatients     int     `json:"total_patients"`
	TotalDoctors      int     `json:"total_doctors"`
	TodayAppointments int     `json:"today_appointments"`
	TotalIncome       float64 `json:"total_income"`
}

// PredefinedMeasures is the list of available reporting measures.
var PredefinedMeasures = []MeasureDefinition{
	{
		ID:          "patient-count",
		Name:        "Patient Count",
		Description: "Total number of registered patients",
		SQL:         `SELECT COUNT(*) AS total FROM patients`,
		Parameters:  []string{},
	},
	{
		ID:          "doctors-by-specialization",
		Name:        "Doctors by Specialization",
		Description: "Number of doctors grouped by specialization",
		SQL:         `SELECT specialization, COUNT(*) AS total FROM doctors GROUP BY specialization ORDER BY total DESC`,
		Parameters:  []string{},
	},
	{
		ID:          "appointments-by-status",
		Name:        "Appointments by Status",
		Description: "Count of appointments grouped by lifecycle status",
		SQL:         `SELECT status, COUNT(*) AS total FROM appointments GROUP BY status ORDER BY total DESC`,
		Parameters:  []string{},
	},
	{
		ID:          "daily-income",
		Name:        "Daily Income",
		Description: "Appointment fees summed per calendar day, most recent first",
		SQL:         `SELECT appointment_date::date AS day, SUM(fee) AS income FROM appointments GROUP BY day ORDER BY day DESC LIMIT 30`,
		Parameters:  []string{},
	},
}

// FindMeasure looks up a measure by ID.
func FindMeasure(id string) *MeasureDefinition {
	for i := range PredefinedMeasures {
		if PredefinedMeasures[i].ID == id {
			return &PredefinedMeasures[i]
		}
	}
	return nil
}

// Handler provides HTTP handlers for the dashboard and reporting API.
type Handler struct {
	pool *pgxpool.Pool
}

// NewHandler creates a new reporting handler.
func NewHandler(pool *pgxpool.Pool) *Handler {
	return &Handler{pool: pool}
}

// RegisterRoutes registers the dashboard and reporting API routes.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard", h.Dashboard)

	reports := api.Group("/reports")
	reports.GET("/measures", h.ListMeasures)
	reports.GET("/measures/:id/evaluate", h.EvaluateMeasure)
	reports.GET("/patients/pdf", h.ExportPatientsPDF)
	reports.GET("/patients/xlsx", h.ExportPatientsXLSX)
	reports.GET("/doctors/pdf", h.ExportDoctorsPDF)
	reports.GET("/doctors/xlsx", h.ExportDoctorsXLSX)
	reports.GET("/appointments/pdf", h.ExportAppointmentsPDF)
	reports.GET("/appointments/xlsx", h.ExportAppointmentsXLSX)
}

// Dashboard stat queries. Income deliberately carries no status predicate:
// the total counts Cancelled appointments the same as Completed ones.
const (
	totalPatientsSQL     = `SELECT COUNT(*) FROM patients`
	totalDoctorsSQL      = `SELECT COUNT(*) FROM doctors`
	todayAppointmentsSQL = `SELECT COUNT(*) FROM appointments WHERE appointment_date::date = CURRENT_DATE`
	totalIncomeSQL       = `SELECT COALESCE(SUM(fee), 0) FROM appointments`
)

// statQuerier is the slice of the pool the dashboard needs.
type statQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func loadDashboardStats(ctx context.Context, q statQuerier) (DashboardStats, error) {
	var stats DashboardStats

	queries := []struct {
		sql  string
		dest interface{}
	}{
		{totalPatientsSQL, &stats.TotalPatients},
		{totalDoctorsSQL, &stats.TotalDoctors},
		{todayAppointmentsSQL, &stats.TodayAppointments},
		{totalIncomeSQL, &stats.TotalIncome},
	}
	for _, qr := range queries {
		if err := q.QueryRow(ctx, qr.sql).Scan(qr.dest); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// Dashboard returns the aggregate counters for the landing page.
func (h *Handler) Dashboard(c echo.Context) error {
	stats, err := loadDashboardStats(c.Request().Context(), h.pool)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "loading dashboard stats failed")
	}
	return c.JSON(http.StatusOK, stats)
}

// ListMeasures returns all available measure definitions.
func (h *Handler) ListMeasures(c echo.Context) error {
	return c.JSON(http.StatusOK, PredefinedMeasures)
}

// EvaluateMeasure executes a measure's SQL and returns the results.
func (h *Handler) EvaluateMeasure(c echo.Context) error {
	measure := FindMeasure(c.Param("id"))
	if measure == nil {
		return echo.NewHTTPError(http.StatusNotFound, "measure not found")
	}

	params := map[string]string{}
	for _, p := range measure.Parameters {
		if v := c.QueryParam(p); v != "" {
			params[p] = v
		}
	}

	results, err := h.executeSQL(c.Request().Context(), measure.SQL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "query failed")
	}

	return c.JSON(http.StatusOK, MeasureReport{
		MeasureID:   measure.ID,
		MeasureName: measure.Name,
		GeneratedAt: time.Now(),
		Results:     results,
		Parameters:  params,
	})
}

// executeSQL runs a SQL query and returns results as a slice of maps.
func (h *Handler) executeSQL(ctx context.Context, sql string) ([]map[string]interface{}, error) {
	rows, err := h.pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	var results []map[string]interface{}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(map[string]interface{}, len(fieldDescs))
		for i, fd := range fieldDescs {
			row[string(fd.Name)] = values[i]
		}
		results = append(results, row)
	}

	if results == nil {
		results = []map[string]interface{}{}
	}
	return results, rows.Err()
}
