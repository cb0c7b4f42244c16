package service

import (
	"strings"
	"testing"

	"gymadmin/cmd/internal/domain/entity"
	"gymadmin/cmd/internal/domain/sqlite/repository"
)

func TestExportCitasCSV(t *testing.T) {
	cita := existingCita("c1", "2024-03-04", "09:00", 60, 0)
	cita.Recurring = true
	repo := &fakeCitaRepo{citas: []*entity.Cita{cita}}
	svc := newCitaTestService(repo)

	out, apierr := svc.ExportCitas(&repository.CitaQuery{}, "csv")
	if apierr != nil {
		t.Fatalf("export failed: %v", apierr)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ID,Título,Fecha,Hora") {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "60 min") || !strings.Contains(lines[1], "Sí") {
		t.Fatalf("row missing fields: %s", lines[1])
	}
}

func TestExportCitasICal(t *testing.T) {
	repo := &fakeCitaRepo{citas: []*entity.Cita{
		existingCita("c1", "2024-03-04", "09:00", 60, 0),
	}}
	svc := newCitaTestService(repo)

	out, apierr := svc.ExportCitas(&repository.CitaQuery{}, "ical")
	if apierr != nil {
		t.Fatalf("export failed: %v", apierr)
	}

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"PRODID:-//Gimnasia App//ES",
		"UID:c1@gimnasia.app",
		"DTSTART:20240304T090000Z",
		"DTEND:20240304T100000Z",
		"STATUS:SCHEDULED",
		"END:VCALENDAR",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("ical output missing %q:\n%s", want, out)
		}
	}
}

func TestExportCitasUnknownFormat(t *testing.T) {
	svc := newCitaTestService(&fakeCitaRepo{})
	if _, apierr := svc.ExportCitas(&repository.CitaQuery{}, "xlsx"); apierr == nil {
		t.Fatal("unknown format accepted")
	}
}
