package service

import (
	"testing"

	"gymadmin/cmd/internal/domain/entity"
	"gymadmin/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type fakeTurnoRepo struct {
	turnos []*entity.Turno
}

func (f *fakeTurnoRepo) FindByID(id string) (*entity.Turno, error) {
	for _, t := range f.turnos {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeTurnoRepo) FindAll() ([]*entity.Turno, error) {
	return f.turnos, nil
}

func (f *fakeTurnoRepo) FindActive(excludeID string) ([]*entity.Turno, error) {
	var out []*entity.Turno
	for _, t := range f.turnos {
		if !t.IsActive {
			continue
		}
		if excludeID != "" && t.ID == excludeID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTurnoRepo) Save(turno *entity.Turno) error {
	if turno.ID == "" {
		turno.ID = uuid.NewString()
		f.turnos = append(f.turnos, turno)
	}
	return nil
}

func (f *fakeTurnoRepo) Delete(turno *entity.Turno) error {
	for i, t := range f.turnos {
		if t.ID == turno.ID {
			f.turnos = append(f.turnos[:i], f.turnos[i+1:]...)
			return nil
		}
	}
	return nil
}

func newTurnoTestService(repo *fakeTurnoRepo) *DefaultTurnoService {
	validate := validator.New()
	_ = validate.RegisterValidation("clocktime", func(fl validator.FieldLevel) bool { return true })
	return NewTurnoService(repo, validate)
}

func activeTurno(id, start, end string) *entity.Turno {
	return &entity.Turno{ID: id, Name: "Turno " + id, StartTime: start, EndTime: end, IsActive: true}
}

func TestCreateTurnoRejectsOverlap(t *testing.T) {
	repo := &fakeTurnoRepo{turnos: []*entity.Turno{
		activeTurno("t1", "09:00", "12:00"),
	}}
	svc := newTurnoTestService(repo)

	_, apierr := svc.CreateTurno(&TurnoRequest{
		Name:      "Turno tarde",
		StartTime: "11:00",
		EndTime:   "14:00",
	})
	if apierr != apierror.TurnoOverlapError {
		t.Fatalf("expected TurnoOverlapError, got %v", apierr)
	}
}

func TestCreateTurnoAllowsAdjacent(t *testing.T) {
	repo := &fakeTurnoRepo{turnos: []*entity.Turno{
		activeTurno("t1", "09:00", "12:00"),
	}}
	svc := newTurnoTestService(repo)

	turno, apierr := svc.CreateTurno(&TurnoRequest{
		Name:      "Turno tarde",
		StartTime: "12:00",
		EndTime:   "15:00",
	})
	if apierr != nil {
		t.Fatalf("adjacent turno rejected: %v", apierr)
	}
	if turno.ID == "" {
		t.Fatal("created turno has no id")
	}
}

func TestCreateTurnoIgnoresInactive(t *testing.T) {
	inactive := activeTurno("t1", "09:00", "12:00")
	inactive.IsActive = false
	repo := &fakeTurnoRepo{turnos: []*entity.Turno{inactive}}
	svc := newTurnoTestService(repo)

	if _, apierr := svc.CreateTurno(&TurnoRequest{
		Name:      "Turno mañana",
		StartTime: "09:00",
		EndTime:   "12:00",
	}); apierr != nil {
		t.Fatalf("inactive turno still blocks: %v", apierr)
	}
}

func TestCreateTurnoRejectsInvertedRange(t *testing.T) {
	svc := newTurnoTestService(&fakeTurnoRepo{})

	if _, apierr := svc.CreateTurno(&TurnoRequest{
		Name:      "Turno roto",
		StartTime: "12:00",
		EndTime:   "09:00",
	}); apierr == nil {
		t.Fatal("inverted range accepted")
	}
}

func TestUpdateTurnoExcludesSelf(t *testing.T) {
	repo := &fakeTurnoRepo{turnos: []*entity.Turno{
		activeTurno("t1", "09:00", "12:00"),
	}}
	svc := newTurnoTestService(repo)

	// Shrinking a turno against only itself must pass.
	if _, apierr := svc.UpdateTurno("t1", &TurnoRequest{
		Name:      "Turno t1",
		StartTime: "09:00",
		EndTime:   "11:00",
	}); apierr != nil {
		t.Fatalf("self-overlap rejected on update: %v", apierr)
	}
}

func TestDeactivatedTurnoSkipsOverlapCheck(t *testing.T) {
	repo := &fakeTurnoRepo{turnos: []*entity.Turno{
		activeTurno("t1", "09:00", "12:00"),
		activeTurno("t2", "13:00", "16:00"),
	}}
	svc := newTurnoTestService(repo)

	inactive := false
	if _, apierr := svc.UpdateTurno("t2", &TurnoRequest{
		Name:      "Turno t2",
		StartTime: "09:00",
		EndTime:   "16:00",
		IsActive:  &inactive,
	}); apierr != nil {
		t.Fatalf("deactivated turno still overlap-checked: %v", apierr)
	}
}
