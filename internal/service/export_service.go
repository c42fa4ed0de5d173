package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dcmonitor/internal/domain"
	"dcmonitor/internal/rack"

	"github.com/xuri/excelize/v2"
)

// ExportFormat output file type of a sensor export
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

// ParseExportFormat defaults to csv when empty.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", ExportCSV:
		return ExportCSV, nil
	case ExportXLSX:
		return ExportXLSX, nil
	}
	return "", fmt.Errorf("%w: unknown export format %q", domain.ErrValidation, s)
}

// SensorExportHeader column titles of the sensor export
var SensorExportHeader = []string{
	"Sensor ID",
	"Rack ID",
	"DC",
	"Room",
	"Position",
	"Temperature(°C)",
	"Humidity(%)",
	"Airflow(CFM)",
}

// ExportFile rendered export ready to be sent as an attachment
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

type ExportService interface {
	Export(ctx context.Context, filter SensorFilter, format ExportFormat) (*ExportFile, error)
}

type exportService struct {
	sensors SensorService
	now     func() time.Time
}

func NewExportService(sensors SensorService) ExportService {
	return &exportService{sensors: sensors, now: time.Now}
}

func positionLabel(p rack.Position) string {
	if p == rack.PositionIntake {
		return "Intake"
	}
	return "Exhaust"
}

func sensorRow(s domain.Sensor) []string {
	return []string{
		s.SensorID,
		s.RackID,
		s.DCID,
		s.RoomID,
		positionLabel(s.Position),
		strconv.FormatFloat(s.Temperature, 'f', 1, 64),
		strconv.FormatFloat(s.Humidity, 'f', 1, 64),
		strconv.FormatFloat(s.Airflow, 'f', 0, 64),
	}
}

func (s *exportService) Export(ctx context.Context, filter SensorFilter, format ExportFormat) (*ExportFile, error) {
	sensors, err := s.sensors.Query(ctx, filter)
	if err != nil {
		return nil, err
	}
	base := "sensor_data_" + s.now().UTC().Format("2006-01-02")

	switch format {
	case ExportXLSX:
		body, err := GenerateSensorExcel(sensors)
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Filename:    base + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Body:        body,
		}, nil
	default:
		body, err := GenerateSensorCSV(sensors)
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Filename:    base + ".csv",
			ContentType: "text/csv; charset=utf-8",
			Body:        body,
		}, nil
	}
}

// GenerateSensorCSV header line followed by one line per sensor.
func GenerateSensorCSV(sensors []domain.Sensor) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(SensorExportHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, s := range sensors {
		if err := w.Write(sensorRow(s)); err != nil {
			return nil, fmt.Errorf("write csv row %s: %w", s.SensorID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateSensorExcel same columns as the CSV; numeric cells stay numeric.
func GenerateSensorExcel(sensors []domain.Sensor) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo needs the file open, so Close runs after it
	defer f.Close()

	sheetName := "Sensors"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]any, len(SensorExportHeader))
	for i, h := range SensorExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(SensorExportHeader))
	if err != nil {
		return nil, fmt.Errorf("failed to convert column number: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	columnWidths := []float64{
		26, // Sensor ID
		18, // Rack ID
		10, // DC
		12, // Room
		10, // Position
		16, // Temperature
		14, // Humidity
		14, // Airflow
	}
	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, s := range sensors {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		row := []any{
			s.SensorID, s.RackID, s.DCID, s.RoomID, positionLabel(s.Position),
			s.Temperature, s.Humidity, s.Airflow,
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write excel: %w", err)
	}
	return buf.Bytes(), nil
}
