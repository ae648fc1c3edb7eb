package reporting

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// table is a rendered report: the same rows feed the PDF and XLSX writers.
type table struct {
	Title   string
	Headers []string
	Widths  []float64
	Rows    [][]string
}

// renderPDF lays the table out on landscape A4. An empty Rows slice still
// produces a valid document with just the header row.
func renderPDF(t table) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, t.Title)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, "Generated "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, head := range t.Headers {
		pdf.CellFormat(t.Widths[i], 8, head, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, row := range t.Rows {
		for i, cell := range row {
			pdf.CellFormat(t.Widths[i], 7, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// renderXLSX writes the table to the default sheet of a new workbook.
func renderXLSX(t table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for col, head := range t.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("rendering xlsx: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, head); err != nil {
			return nil, fmt.Errorf("rendering xlsx: %w", err)
		}
	}
	for r, row := range t.Rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return nil, fmt.Errorf("rendering xlsx: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("rendering xlsx: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("rendering xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// exportFilename is <entity>_report_<YYYYMMDD>.<ext>, the name the browser
// saves the download under.
func exportFilename(entity, ext string) string {
	return fmt.Sprintf("%s_report_%s.%s", entity, time.Now().Format("20060102"), ext)
}

func (h *Handler) sendAttachment(c echo.Context, entity, ext, contentType string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%s`, exportFilename(entity, ext)))
	return c.Blob(http.StatusOK, contentType, data)
}

// -- Row fetchers --

func (h *Handler) patientTable(ctx context.Context) (table, error) {
	t := table{
		Title:   "Patient Register",
		Headers: []string{"Name", "Age", "Gender", "Phone", "Email", "Address"},
		Widths:  []float64{55, 15, 20, 35, 60, 90},
	}
	rows, err := h.pool.Query(ctx, `
		SELECT name, age, gender, phone, COALESCE(email, ''), COALESCE(address, '')
		FROM patients ORDER BY name ASC`)
	if err != nil {
		return t, err
	}
	defer rows.Close()

	for rows.Next() {
		var name, gender, phone, email, address string
		var age int
		if err := rows.Scan(&name, &age, &gender, &phone, &email, &address); err != nil {
			return t, err
		}
		t.Rows = append(t.Rows, []string{name, fmt.Sprintf("%d", age), gender, phone, email, address})
	}
	return t, rows.Err()
}

func (h *Handler) doctorTable(ctx context.Context) (table, error) {
	t := table{
		Title:   "Doctor Register",
		Headers: []string{"Name", "Specialization", "Phone", "Experience (yrs)", "Fee"},
		Widths:  []float64{60, 60, 40, 40, 30},
	}
	rows, err := h.pool.Query(ctx, `
		SELECT name, specialization, phone, experience, fee
		FROM doctors ORDER BY name ASC`)
	if err != nil {
		return t, err
	}
	defer rows.Close()

	for rows.Next() {
		var name, spec, phone string
		var experience int
		var fee float64
		if err := rows.Scan(&name, &spec, &phone, &experience, &fee); err != nil {
			return t, err
		}
		t.Rows = append(t.Rows, []string{
			name, spec, phone, fmt.Sprintf("%d", experience), fmt.Sprintf("%.2f", fee),
		})
	}
	return t, rows.Err()
}

func (h *Handler) appointmentTable(ctx context.Context) (table, error) {
	t := table{
		Title:   "Appointment Schedule",
		Headers: []string{"Patient", "Doctor", "Specialization", "Date", "Fee", "Status"},
		Widths:  []float64{50, 50, 45, 45, 25, 30},
	}
	rows, err := h.pool.Query(ctx, `
		SELECT p.name, d.name, d.specialization, a.appointment_date, a.fee, a.status
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		JOIN doctors d ON d.id = a.doctor_id
		ORDER BY a.appointment_date DESC`)
	if err != nil {
		return t, err
	}
	defer rows.Close()

	for rows.Next() {
		var patient, doctor, spec, status string
		var when time.Time
		var fee float64
		if err := rows.Scan(&patient, &doctor, &spec, &when, &fee, &status); err != nil {
			return t, err
		}
		t.Rows = append(t.Rows, []string{
			patient, doctor, spec, when.Format("2006-01-02 15:04"), fmt.Sprintf("%.2f", fee), status,
		})
	}
	return t, rows.Err()
}

// -- Export handlers --

func (h *Handler) exportPDF(c echo.Context, entity string, fetch func(context.Context) (table, error)) error {
	t, err := fetch(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "loading report data failed")
	}
	data, err := renderPDF(t)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "generating pdf failed")
	}
	return h.sendAttachment(c, entity, "pdf", "application/pdf", data)
}

func (h *Handler) exportXLSX(c echo.Context, entity string, fetch func(context.Context) (table, error)) error {
	t, err := fetch(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "loading report data failed")
	}
	data, err := renderXLSX(t)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "generating spreadsheet failed")
	}
	return h.sendAttachment(c, entity, "xlsx", xlsxContentType, data)
}

func (h *Handler) ExportPatientsPDF(c echo.Context) error {
	return h.exportPDF(c, "patients", h.patientTable)
}

func (h *Handler) ExportPatientsXLSX(c echo.Context) error {
	return h.exportXLSX(c, "patients", h.patientTable)
}

func (h *Handler) ExportDoctorsPDF(c echo.Context) error {
	return h.exportPDF(c, "doctors", h.doctorTable)
}

func (h *Handler) ExportDoctorsXLSX(c echo.Context) error {
	return h.exportXLSX(c, "doctors", h.doctorTable)
}

func (h *Handler) ExportAppointmentsPDF(c echo.Context) error {
	return h.exportPDF(c, "appointments", h.appointmentTable)
}

func (h *Handler) ExportAppointmentsXLSX(c echo.Context) error {
	return h.exportXLSX(c, "appointments", h.appointmentTable)
}
