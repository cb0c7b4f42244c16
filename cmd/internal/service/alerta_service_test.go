package service

import (
	"testing"
	"time"

	"gymadmin/cmd/internal/domain/entity"
	"gymadmin/cmd/internal/utils"
)

func alertableAlumno(id string, lastFecha string, estado entity.EstadoPago) *entity.Alumno {
	return &entity.Alumno{
		ID:                    id,
		Nombre:                "Ana",
		Apellido:              "García",
		Sede:                  entity.SedeArenales,
		Activo:                true,
		AlertasActivas:        true,
		FechaUltimaAsistencia: lastFecha,
		EstadoPago:            estado,
	}
}

func daysAgo(n int) string {
	return utils.FormatDate(time.Now().UTC().AddDate(0, 0, -n))
}

func TestGetAlertasAbsenceAndPayment(t *testing.T) {
	repo := &fakeAlumnoRepo{alumnos: []*entity.Alumno{
		alertableAlumno("a1", daysAgo(10), entity.PagoAlDia),
		alertableAlumno("a2", daysAgo(1), entity.PagoAtrasado),
		alertableAlumno("a3", daysAgo(2), entity.PagoAlDia),
	}}
	svc := NewAlertaService(repo)

	alertas, apierr := svc.GetAlertas(DefaultAlertaConfig())
	if apierr != nil {
		t.Fatalf("GetAlertas failed: %v", apierr)
	}
	if len(alertas) != 2 {
		t.Fatalf("expected 2 alertas, got %d: %+v", len(alertas), alertas)
	}

	byID := map[string]*AlertaResponse{}
	for _, a := range alertas {
		byID[a.ID] = a
	}
	if a := byID["asistencia-a1"]; a == nil || a.Tipo != AlertaAsistencia || a.Dias < 10 {
		t.Fatalf("absence alert wrong: %+v", a)
	}
	if a := byID["pago-a2"]; a == nil || a.Tipo != AlertaPago {
		t.Fatalf("payment alert wrong: %+v", a)
	}
}

func TestGetAlertasRespectsOptOut(t *testing.T) {
	optedOut := alertableAlumno("a1", daysAgo(30), entity.PagoAtrasado)
	optedOut.AlertasActivas = false
	inactive := alertableAlumno("a2", daysAgo(30), entity.PagoAtrasado)
	inactive.Activo = false

	svc := NewAlertaService(&fakeAlumnoRepo{alumnos: []*entity.Alumno{optedOut, inactive}})
	alertas, apierr := svc.GetAlertas(DefaultAlertaConfig())
	if apierr != nil {
		t.Fatalf("GetAlertas failed: %v", apierr)
	}
	if len(alertas) != 0 {
		t.Fatalf("opted-out/inactive alumnos produced %d alertas", len(alertas))
	}
}

func TestGetAlertasDisabledTypes(t *testing.T) {
	repo := &fakeAlumnoRepo{alumnos: []*entity.Alumno{
		alertableAlumno("a1", daysAgo(10), entity.PagoAtrasado),
	}}
	svc := NewAlertaService(repo)

	cfg := DefaultAlertaConfig()
	cfg.AsistenciaHabilitada = false
	alertas, apierr := svc.GetAlertas(cfg)
	if apierr != nil {
		t.Fatalf("GetAlertas failed: %v", apierr)
	}
	if len(alertas) != 1 || alertas[0].Tipo != AlertaPago {
		t.Fatalf("expected only the payment alert, got %+v", alertas)
	}

	cfg = DefaultAlertaConfig()
	cfg.PagoHabilitado = false
	alertas, apierr = svc.GetAlertas(cfg)
	if apierr != nil {
		t.Fatalf("GetAlertas failed: %v", apierr)
	}
	if len(alertas) != 1 || alertas[0].Tipo != AlertaAsistencia {
		t.Fatalf("expected only the absence alert, got %+v", alertas)
	}
}

func TestGetAlertasThreshold(t *testing.T) {
	repo := &fakeAlumnoRepo{alumnos: []*entity.Alumno{
		alertableAlumno("a1", daysAgo(5), entity.PagoAlDia),
	}}
	svc := NewAlertaService(repo)

	cfg := DefaultAlertaConfig()
	cfg.DiasSinAsistir = 5
	alertas, apierr := svc.GetAlertas(cfg)
	if apierr != nil {
		t.Fatalf("GetAlertas failed: %v", apierr)
	}
	if len(alertas) != 1 {
		t.Fatalf("absence at exactly the threshold not alerted")
	}

	cfg.DiasSinAsistir = 6
	alertas, apierr = svc.GetAlertas(cfg)
	if apierr != nil {
		t.Fatalf("GetAlertas failed: %v", apierr)
	}
	if len(alertas) != 0 {
		t.Fatalf("absence below the threshold alerted: %+v", alertas)
	}
}
