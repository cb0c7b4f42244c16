package service

import (
	"testing"

	"gymadmin/cmd/internal/domain/entity"
	"gymadmin/cmd/internal/domain/sqlite/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type fakePrecioRepo struct {
	precios []*entity.HistorialPrecio
}

func (f *fakePrecioRepo) FindByID(id string) (*entity.HistorialPrecio, error) {
	for _, p := range f.precios {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePrecioRepo) FindFiltered(q *repository.PrecioQuery) ([]*entity.HistorialPrecio, error) {
	return f.precios, nil
}

func (f *fakePrecioRepo) FindVigente(servicio, fecha string) (*entity.HistorialPrecio, error) {
	for _, p := range f.precios {
		if p.Servicio != servicio || !p.Activo {
			continue
		}
		if p.FechaInicio <= fecha && (p.FechaFin == "" || p.FechaFin > fecha) {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePrecioRepo) FindBetween(servicio, desde, hasta string, tipo entity.TipoServicio, moneda entity.Moneda) ([]*entity.HistorialPrecio, error) {
	var out []*entity.HistorialPrecio
	for _, p := range f.precios {
		if p.Servicio == servicio && p.FechaInicio >= desde && p.FechaInicio <= hasta {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePrecioRepo) FindActivos() ([]*entity.HistorialPrecio, error) {
	var out []*entity.HistorialPrecio
	for _, p := range f.precios {
		if p.Activo {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePrecioRepo) Save(precio *entity.HistorialPrecio) error {
	if precio.ID == "" {
		precio.ID = uuid.NewString()
		f.precios = append(f.precios, precio)
	}
	return nil
}

func (f *fakePrecioRepo) Delete(precio *entity.HistorialPrecio) error {
	for i, p := range f.precios {
		if p.ID == precio.ID {
			f.precios = append(f.precios[:i], f.precios[i+1:]...)
			return nil
		}
	}
	return nil
}

func newPrecioTestService(repo *fakePrecioRepo) *DefaultPrecioService {
	validate := validator.New()
	_ = validate.RegisterValidation("dateonly", func(fl validator.FieldLevel) bool { return true })
	return NewPrecioService(repo, validate)
}

func TestCreatePrecioClosesPreviousActive(t *testing.T) {
	anterior := &entity.HistorialPrecio{
		ID:          "p1",
		Servicio:    "Cuota mensual",
		Precio:      20000,
		FechaInicio: "2024-01-01",
		Activo:      true,
	}
	repo := &fakePrecioRepo{precios: []*entity.HistorialPrecio{anterior}}
	svc := newPrecioTestService(repo)

	nuevo, apierr := svc.CreatePrecio(&PrecioRequest{
		Servicio:    "Cuota mensual",
		Precio:      25000,
		FechaInicio: "2024-06-01",
	})
	if apierr != nil {
		t.Fatalf("create failed: %v", apierr)
	}

	if anterior.Activo {
		t.Fatal("previous price still active")
	}
	if anterior.FechaFin != "2024-06-01" {
		t.Fatalf("previous fecha_fin = %s, want 2024-06-01", anterior.FechaFin)
	}
	if len(anterior.HistorialCambios) != 1 {
		t.Fatalf("expected 1 change-log entry on the previous price, got %d", len(anterior.HistorialCambios))
	}
	cambio := anterior.HistorialCambios[0]
	if cambio.PrecioAnterior != 20000 || cambio.PrecioNuevo != 25000 {
		t.Fatalf("change log = %+v", cambio)
	}
	if !nuevo.Activo {
		t.Fatal("new price not active")
	}
	if nuevo.Moneda != "ARS" || nuevo.TipoServicio != "mensual" {
		t.Fatalf("defaults = %s/%s, want ARS/mensual", nuevo.Moneda, nuevo.TipoServicio)
	}
}

func TestUpdatePrecioAppendsChangeLog(t *testing.T) {
	precio := &entity.HistorialPrecio{
		ID:          "p1",
		Servicio:    "Cuota mensual",
		Precio:      20000,
		FechaInicio: "2024-01-01",
		Activo:      true,
	}
	svc := newPrecioTestService(&fakePrecioRepo{precios: []*entity.HistorialPrecio{precio}})

	if _, apierr := svc.UpdatePrecio("p1", &PrecioRequest{
		Servicio:    "Cuota mensual",
		Precio:      22000,
		FechaInicio: "2024-01-01",
	}); apierr != nil {
		t.Fatalf("update failed: %v", apierr)
	}
	if len(precio.HistorialCambios) != 1 {
		t.Fatalf("expected 1 change-log entry, got %d", len(precio.HistorialCambios))
	}

	// No price change, no new entry.
	if _, apierr := svc.UpdatePrecio("p1", &PrecioRequest{
		Servicio:    "Cuota mensual",
		Precio:      22000,
		FechaInicio: "2024-01-01",
	}); apierr != nil {
		t.Fatalf("update failed: %v", apierr)
	}
	if len(precio.HistorialCambios) != 1 {
		t.Fatalf("unchanged price appended a change-log entry")
	}
}

func TestTendenciaPrecios(t *testing.T) {
	precios := []*entity.HistorialPrecio{
		{Servicio: "Cuota mensual", Precio: 10000, FechaInicio: "2024-01-01"},
		{Servicio: "Cuota mensual", Precio: 12000, FechaInicio: "2024-02-01"},
		{Servicio: "Cuota mensual", Precio: 14000, FechaInicio: "2024-03-01"},
	}

	tend := tendenciaPrecios(precios)
	if tend.Promedio != 12000 {
		t.Fatalf("promedio = %.0f, want 12000", tend.Promedio)
	}
	if tend.Minimo != 10000 || tend.Maximo != 14000 {
		t.Fatalf("min/max = %.0f/%.0f", tend.Minimo, tend.Maximo)
	}
	if tend.VariacionPorcentual != 40 {
		t.Fatalf("variación = %.1f%%, want 40%%", tend.VariacionPorcentual)
	}
	if len(tend.TendenciaMensual) != 3 {
		t.Fatalf("expected 3 monthly buckets, got %d", len(tend.TendenciaMensual))
	}
	if tend.TendenciaMensual[0].Mes != "2024-01" {
		t.Fatalf("buckets not sorted: %+v", tend.TendenciaMensual)
	}
	if tend.ProyeccionProximoMes == nil {
		t.Fatal("no projection with 3 months of data")
	}
	// +20% then +16.7%: projected next ≈ 14000 * 1.183.
	if *tend.ProyeccionProximoMes < 16000 || *tend.ProyeccionProximoMes > 17000 {
		t.Fatalf("proyección = %.0f, expected around 16567", *tend.ProyeccionProximoMes)
	}
}

func TestTendenciaPreciosEmpty(t *testing.T) {
	tend := tendenciaPrecios(nil)
	if tend.Promedio != 0 || len(tend.Precios) != 0 || tend.ProyeccionProximoMes != nil {
		t.Fatalf("empty trend not zeroed: %+v", tend)
	}
}

func TestVerificarIncrementosMarksDue(t *testing.T) {
	precio := &entity.HistorialPrecio{
		ID:          "p1",
		Servicio:    "Cuota mensual",
		Precio:      20000,
		FechaInicio: "2024-01-01",
		Activo:      true,
		IncrementosProgramados: []entity.IncrementoProgramado{
			{Fecha: "2024-01-15", Porcentaje: 10},
			{Fecha: "2099-01-01", Porcentaje: 10},
		},
	}
	svc := newPrecioTestService(&fakePrecioRepo{precios: []*entity.HistorialPrecio{precio}})

	afectados, apierr := svc.VerificarIncrementos()
	if apierr != nil {
		t.Fatalf("VerificarIncrementos failed: %v", apierr)
	}
	if len(afectados) != 1 {
		t.Fatalf("expected 1 affected price, got %d", len(afectados))
	}
	if !precio.IncrementosProgramados[0].Notificado {
		t.Fatal("due increment not marked notificado")
	}
	if precio.IncrementosProgramados[1].Notificado {
		t.Fatal("future increment marked notificado")
	}

	// Second run: nothing newly due.
	afectados, apierr = svc.VerificarIncrementos()
	if apierr != nil {
		t.Fatalf("VerificarIncrementos failed: %v", apierr)
	}
	if len(afectados) != 0 {
		t.Fatalf("already-notified increment reported again")
	}
}
