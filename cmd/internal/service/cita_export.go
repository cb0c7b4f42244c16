package service

import (
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"gymadmin/cmd/internal/domain/entity"
	"gymadmin/cmd/internal/domain/sqlite/repository"
	"gymadmin/cmd/internal/utils"
	"gymadmin/cmd/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

// ExportCitas renders the filtered citas as "csv" or "ical".
func (s *DefaultCitaService) ExportCitas(q *repository.CitaQuery, format string) (string, apierror.ErrorResponse) {
	citas, err := s.CitaRepo.FindFiltered(q)
	if err != nil {
		log.Errorf("failed to fetch citas for export: %v", err)
		return "", apierror.NewSimple(500, "Error al exportar las citas")
	}

	switch format {
	case "", "csv":
		return exportCitasCSV(citas), nil
	case "ical":
		return exportCitasICal(citas), nil
	default:
		return "", apierror.NewInvalidParamTypeError("format", "csv|ical")
	}
}

func exportCitasCSV(citas []*entity.Cita) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	_ = w.Write([]string{
		"ID", "Título", "Fecha", "Hora", "Duración", "Alumno",
		"Estado", "Tipo", "Notas", "Recurrente",
	})

	for _, cita := range citas {
		recurrente := "No"
		if cita.Recurring {
			recurrente = "Sí"
		}
		_ = w.Write([]string{
			cita.ID,
			cita.Title,
			cita.Date,
			cita.Time,
			strconv.Itoa(cita.Duration) + " min",
			cita.AlumnoID,
			string(cita.Status),
			string(cita.Type),
			cita.Notes,
			recurrente,
		})
	}

	w.Flush()
	return sb.String()
}

func exportCitasICal(citas []*entity.Cita) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Gimnasia App//ES",
	}

	for _, cita := range citas {
		start, err := citaStartTime(cita)
		if err != nil {
			continue
		}
		end := start.Add(time.Duration(cita.Duration) * time.Minute)

		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+cita.ID+"@gimnasia.app",
			"DTSTART:"+formatICalTime(start),
			"DTEND:"+formatICalTime(end),
			"SUMMARY:"+cita.Title,
			"DESCRIPTION:"+cita.Notes,
			"STATUS:"+strings.ToUpper(string(cita.Status)),
			"END:VEVENT",
		)
	}

	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, "\n")
}

func citaStartTime(cita *entity.Cita) (time.Time, error) {
	day, err := utils.ParseDate(cita.Date)
	if err != nil {
		return time.Time{}, err
	}
	minutes, err := utils.ParseClock(cita.Time)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(minutes) * time.Minute), nil
}

func formatICalTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}
