package service

import (
	"testing"

	"gymadmin/cmd/internal/domain/entity"
	"gymadmin/cmd/internal/domain/sqlite/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type fakeAlumnoRepo struct {
	alumnos []*entity.Alumno
}

func (f *fakeAlumnoRepo) FindByID(id string) (*entity.Alumno, error) {
	for _, a := range f.alumnos {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAlumnoRepo) FindAll() ([]*entity.Alumno, error) {
	return f.alumnos, nil
}

func (f *fakeAlumnoRepo) FindFiltered(q *repository.AlumnoQuery) ([]*entity.Alumno, int64, error) {
	return f.alumnos, int64(len(f.alumnos)), nil
}

func (f *fakeAlumnoRepo) Save(alumno *entity.Alumno) error {
	if alumno.ID == "" {
		alumno.ID = uuid.NewString()
		f.alumnos = append(f.alumnos, alumno)
	}
	return nil
}

func (f *fakeAlumnoRepo) Delete(alumno *entity.Alumno) error {
	for i, a := range f.alumnos {
		if a.ID == alumno.ID {
			f.alumnos = append(f.alumnos[:i], f.alumnos[i+1:]...)
			return nil
		}
	}
	return nil
}

func newAlumnoTestService(repo *fakeAlumnoRepo) *DefaultAlumnoService {
	return NewAlumnoService(repo, validator.New())
}

func TestRegistrarAsistenciaStreak(t *testing.T) {
	cases := []struct {
		name       string
		lastFecha  string
		lastStreak int
		fecha      string
		want       int
	}{
		{"first attendance", "", 0, "2024-03-04", 1},
		{"consecutive day", "2024-03-04", 3, "2024-03-05", 4},
		{"same day repeat", "2024-03-04", 3, "2024-03-04", 3},
		{"gap resets", "2024-03-01", 5, "2024-03-04", 1},
		{"earlier date resets", "2024-03-04", 5, "2024-03-01", 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			alumno := &entity.Alumno{
				ID:                         "a1",
				Nombre:                     "Ana",
				Apellido:                   "García",
				Activo:                     true,
				FechaUltimaAsistencia:      tc.lastFecha,
				DiasConsecutivosAsistencia: tc.lastStreak,
			}
			svc := newAlumnoTestService(&fakeAlumnoRepo{alumnos: []*entity.Alumno{alumno}})

			if apierr := svc.RegistrarAsistencia("a1", tc.fecha); apierr != nil {
				t.Fatalf("RegistrarAsistencia failed: %v", apierr)
			}
			if alumno.DiasConsecutivosAsistencia != tc.want {
				t.Fatalf("streak = %d, want %d", alumno.DiasConsecutivosAsistencia, tc.want)
			}
			if alumno.FechaUltimaAsistencia != tc.fecha {
				t.Fatalf("fecha_ultima_asistencia = %s, want %s", alumno.FechaUltimaAsistencia, tc.fecha)
			}
		})
	}
}

func TestRegistrarAsistenciaRejectsBadDate(t *testing.T) {
	svc := newAlumnoTestService(&fakeAlumnoRepo{})
	if apierr := svc.RegistrarAsistencia("a1", "04/03/2024"); apierr == nil {
		t.Fatal("malformed date accepted")
	}
}

func TestResetRacha(t *testing.T) {
	alumno := &entity.Alumno{ID: "a1", DiasConsecutivosAsistencia: 9}
	svc := newAlumnoTestService(&fakeAlumnoRepo{alumnos: []*entity.Alumno{alumno}})

	if apierr := svc.ResetRacha("a1"); apierr != nil {
		t.Fatalf("ResetRacha failed: %v", apierr)
	}
	if alumno.DiasConsecutivosAsistencia != 0 {
		t.Fatalf("streak = %d after reset", alumno.DiasConsecutivosAsistencia)
	}
}

func TestUpdateEstadoPagoValidation(t *testing.T) {
	alumno := &entity.Alumno{ID: "a1", EstadoPago: entity.PagoAlDia}
	svc := newAlumnoTestService(&fakeAlumnoRepo{alumnos: []*entity.Alumno{alumno}})

	if apierr := svc.UpdateEstadoPago("a1", "vencido"); apierr == nil {
		t.Fatal("unknown estado accepted")
	}
	if apierr := svc.UpdateEstadoPago("a1", "atrasado"); apierr != nil {
		t.Fatalf("valid estado rejected: %v", apierr)
	}
	if alumno.EstadoPago != entity.PagoAtrasado {
		t.Fatalf("estado = %s, want atrasado", alumno.EstadoPago)
	}
}

func TestCreateAlumnoDefaults(t *testing.T) {
	repo := &fakeAlumnoRepo{}
	svc := newAlumnoTestService(repo)

	alumno, apierr := svc.CreateAlumno(&AlumnoRequest{Nombre: "Ana", Apellido: "García"})
	if apierr != nil {
		t.Fatalf("create failed: %v", apierr)
	}
	if !alumno.Activo {
		t.Fatal("new alumno not active by default")
	}
	if alumno.EstadoPago != string(entity.PagoAlDia) {
		t.Fatalf("estado_pago = %s, want al_dia", alumno.EstadoPago)
	}
}
