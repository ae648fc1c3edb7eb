package reporting

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
)

// -- Dashboard stats over a canned store --

type statRow struct {
	val interface{}
}

func (r statRow) Scan(dest ...interface{}) error {
	switch d := dest[0].(type) {
	case *int:
		*d = r.val.(int)
	case *float64:
		*d = r.val.(float64)
	}
	return nil
}

type feeEntry struct {
	fee    float64
	status string
}

type statStore struct {
	patients     int
	doctors      int
	today        int
	appointments []feeEntry
}

func (s statStore) QueryRow(_ context.Context, sql string, _ ...interface{}) pgx.Row {
	switch sql {
	case totalPatientsSQL:
		return statRow{s.patients}
	case totalDoctorsSQL:
		return statRow{s.doctors}
	case todayAppointmentsSQL:
		return statRow{s.today}
	case totalIncomeSQL:
		var sum float64
		for _, a := range s.appointments {
			sum += a.fee
		}
		return statRow{sum}
	}
	return statRow{0}
}

func TestLoadDashboardStats(t *testing.T) {
	store := statStore{
		patients: 12,
		doctors:  3,
		today:    2,
		appointments: []feeEntry{
			{fee: 100, status: "Completed"},
			{fee: 50, status: "Cancelled"},
		},
	}

	stats, err := loadDashboardStats(context.Background(), store)
	if err != nil {
		t.Fatalf("loadDashboardStats: %v", err)
	}
	if stats.TotalPatients != 12 || stats.TotalDoctors != 3 || stats.TodayAppointments != 2 {
		t.Errorf("counts = %d/%d/%d, want 12/3/2",
			stats.TotalPatients, stats.TotalDoctors, stats.TodayAppointments)
	}
	// 100 + 50 with one Cancelled: the cancelled fee still counts
	if stats.TotalIncome != 150 {
		t.Errorf("income = %v, want 150", stats.TotalIncome)
	}
}

func TestTotalIncomeCountsEveryStatus(t *testing.T) {
	// The income total must never grow a status filter.
	if strings.Contains(totalIncomeSQL, "status") || strings.Contains(totalIncomeSQL, "WHERE") {
		t.Errorf("income query filters rows: %s", totalIncomeSQL)
	}
	if !strings.Contains(totalIncomeSQL, "COALESCE(SUM(fee), 0)") {
		t.Errorf("income query lost its zero default: %s", totalIncomeSQL)
	}
	// Today's count is filtered by date only.
	if strings.Contains(todayAppointmentsSQL, "status") {
		t.Errorf("today query filters by status: %s", todayAppointmentsSQL)
	}
}

func TestPredefinedMeasures(t *testing.T) {
	expectedIDs := []string{
		"patient-count",
		"doctors-by-specialization",
		"appointments-by-status",
		"daily-income",
	}
	if len(PredefinedMeasures) != len(expectedIDs) {
		t.Fatalf("expected %d predefined measures, got %d", len(expectedIDs), len(PredefinedMeasures))
	}
	for i, expectedID := range expectedIDs {
		if PredefinedMeasures[i].ID != expectedID {
			t.Errorf("expected measure[%d].ID = %s, got %s", i, expectedID, PredefinedMeasures[i].ID)
		}
	}
}

func TestPredefinedMeasures_HaveSQL(t *testing.T) {
	for _, m := range PredefinedMeasures {
		if m.SQL == "" {
			t.Errorf("measure %s has empty SQL", m.ID)
		}
		if m.Name == "" {
			t.Errorf("measure %s has empty name", m.ID)
		}
		if m.Description == "" {
			t.Errorf("measure %s has empty description", m.ID)
		}
	}
}

func TestFindMeasure_Exists(t *testing.T) {
	m := FindMeasure("patient-count")
	if m == nil {
		t.Fatal("expected to find patient-count measure")
	}
	if m.Name != "Patient Count" {
		t.Errorf("expected 'Patient Count', got %s", m.Name)
	}
}

func TestFindMeasure_NotFound(t *testing.T) {
	if m := FindMeasure("nonexistent"); m != nil {
		t.Error("expected nil for nonexistent measure")
	}
}

func TestFindMeasure_AllPredefined(t *testing.T) {
	for _, def := range PredefinedMeasures {
		found := FindMeasure(def.ID)
		if found == nil {
			t.Errorf("expected to find measure %s", def.ID)
			continue
		}
		if found.ID != def.ID {
			t.Errorf("ID mismatch: expected %s, got %s", def.ID, found.ID)
		}
	}
}

func TestNewHandler(t *testing.T) {
	if h := NewHandler(nil); h == nil {
		t.Fatal("expected non-nil handler")
	}
}
