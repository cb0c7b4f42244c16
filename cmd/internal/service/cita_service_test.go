package service

import (
	"testing"

	"gymadmin/cmd/internal/domain/entity"
	"gymadmin/cmd/internal/domain/sqlite/repository"
	"gymadmin/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// fakeCitaRepo keeps citas in memory and runs the check callbacks the way
// the real repository does inside its transaction.
type fakeCitaRepo struct {
	citas []*entity.Cita
}

func (f *fakeCitaRepo) FindByID(id string) (*entity.Cita, error) {
	for _, c := range f.citas {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCitaRepo) FindFiltered(q *repository.CitaQuery) ([]*entity.Cita, error) {
	return f.citas, nil
}

func (f *fakeCitaRepo) FindByDay(date, excludeID string) ([]*entity.Cita, error) {
	var out []*entity.Cita
	for _, c := range f.citas {
		if c.Date != date || c.Status == entity.CitaCancelled {
			continue
		}
		if excludeID != "" && c.ID == excludeID {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCitaRepo) CreateChecked(cita *entity.Cita, check func([]*entity.Cita) error) error {
	existing, _ := f.FindByDay(cita.Date, "")
	if err := check(existing); err != nil {
		return err
	}
	if cita.ID == "" {
		cita.ID = uuid.NewString()
	}
	f.citas = append(f.citas, cita)
	return nil
}

func (f *fakeCitaRepo) UpdateChecked(cita *entity.Cita, check func([]*entity.Cita) error) error {
	existing, _ := f.FindByDay(cita.Date, cita.ID)
	return check(existing)
}

func (f *fakeCitaRepo) CreateBatch(citas []*entity.Cita) error {
	for _, c := range citas {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
	}
	f.citas = append(f.citas, citas...)
	return nil
}

func (f *fakeCitaRepo) Delete(cita *entity.Cita) error {
	for i, c := range f.citas {
		if c.ID == cita.ID {
			f.citas = append(f.citas[:i], f.citas[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeCitaRepo) CountBetween(from, to string) (int64, error) {
	var n int64
	for _, c := range f.citas {
		if c.Date >= from && c.Date <= to {
			n++
		}
	}
	return n, nil
}

func (f *fakeCitaRepo) CountOnDate(date string) (int64, error) {
	var n int64
	for _, c := range f.citas {
		if c.Date == date {
			n++
		}
	}
	return n, nil
}

func (f *fakeCitaRepo) CountPendingFrom(date string) (int64, error) {
	var n int64
	for _, c := range f.citas {
		if c.Date >= date && (c.Status == entity.CitaScheduled || c.Status == entity.CitaConfirmed) {
			n++
		}
	}
	return n, nil
}

func newCitaTestService(repo *fakeCitaRepo) *DefaultCitaService {
	validate := validator.New()
	_ = validate.RegisterValidation("dateonly", func(fl validator.FieldLevel) bool { return true })
	_ = validate.RegisterValidation("clocktime", func(fl validator.FieldLevel) bool { return true })
	return NewCitaService(repo, validate)
}

func existingCita(id, date, timeStr string, duration, buffer int) *entity.Cita {
	return &entity.Cita{
		ID:         id,
		Title:      "Clase " + id,
		Date:       date,
		Time:       timeStr,
		Duration:   duration,
		BufferTime: buffer,
		Status:     entity.CitaScheduled,
		Type:       entity.CitaIndividual,
	}
}

func TestTimesOverlapSymmetry(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 int
		want           bool
	}{
		{"full overlap", 540, 600, 540, 600, true},
		{"partial overlap", 540, 600, 570, 630, true},
		{"contained", 540, 600, 550, 560, true},
		{"adjacent", 540, 600, 600, 660, false},
		{"disjoint", 540, 600, 660, 720, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := timesOverlap(tc.s1, tc.e1, tc.s2, tc.e2)
			if got != tc.want {
				t.Fatalf("timesOverlap(%d,%d,%d,%d) = %v, want %v", tc.s1, tc.e1, tc.s2, tc.e2, got, tc.want)
			}
			sym := timesOverlap(tc.s2, tc.e2, tc.s1, tc.e1)
			if sym != got {
				t.Fatalf("timesOverlap is not symmetric for %s: %v vs %v", tc.name, got, sym)
			}
		})
	}
}

func TestTimesOverlapAdjacencyIsHalfOpen(t *testing.T) {
	// 09:00-10:00 followed by 10:00-11:00: e1 == s2 must not collide.
	if timesOverlap(540, 600, 600, 660) {
		t.Fatal("back-to-back intervals reported as overlapping")
	}
}

func TestCheckAvailabilitySelfExclusion(t *testing.T) {
	repo := &fakeCitaRepo{citas: []*entity.Cita{
		existingCita("c1", "2024-03-04", "09:00", 60, 15),
	}}
	svc := newCitaTestService(repo)

	// Re-checking a cita's own slot with itself excluded must be free.
	avail, apierr := svc.CheckAvailability("2024-03-04", "09:00", 60, 15, "c1")
	if apierr != nil {
		t.Fatalf("unexpected error: %v", apierr)
	}
	if !avail.Available {
		t.Fatalf("own slot reported unavailable, conflicts: %+v", avail.Conflicts)
	}
}

func TestCheckAvailabilityBufferConflict(t *testing.T) {
	// Existing 09:00-10:00 with 15 min buffer. Candidate 10:10-11:10 does
	// not overlap but lands inside the buffered window: type "buffer".
	repo := &fakeCitaRepo{citas: []*entity.Cita{
		existingCita("c1", "2024-03-04", "09:00", 60, 15),
	}}
	svc := newCitaTestService(repo)

	avail, apierr := svc.CheckAvailability("2024-03-04", "10:10", 60, 0, "")
	if apierr != nil {
		t.Fatalf("unexpected error: %v", apierr)
	}
	if avail.Available {
		t.Fatal("expected buffer conflict, slot reported available")
	}
	if len(avail.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(avail.Conflicts))
	}
	if avail.Conflicts[0].Type != "buffer" || avail.Conflicts[0].Severity != "medium" {
		t.Fatalf("expected buffer/medium, got %s/%s", avail.Conflicts[0].Type, avail.Conflicts[0].Severity)
	}
}

func TestCheckAvailabilityOverlapBeatsBuffer(t *testing.T) {
	repo := &fakeCitaRepo{citas: []*entity.Cita{
		existingCita("c1", "2024-03-04", "09:00", 60, 15),
	}}
	svc := newCitaTestService(repo)

	avail, apierr := svc.CheckAvailability("2024-03-04", "09:30", 60, 0, "")
	if apierr != nil {
		t.Fatalf("unexpected error: %v", apierr)
	}
	if len(avail.Conflicts) != 1 {
		t.Fatalf("expected exactly 1 conflict per existing cita, got %d", len(avail.Conflicts))
	}
	if avail.Conflicts[0].Type != "overlap" || avail.Conflicts[0].Severity != "high" {
		t.Fatalf("expected overlap/high, got %s/%s", avail.Conflicts[0].Type, avail.Conflicts[0].Severity)
	}
}

func TestCheckAvailabilityIgnoresCancelled(t *testing.T) {
	cancelled := existingCita("c1", "2024-03-04", "09:00", 60, 15)
	cancelled.Status = entity.CitaCancelled
	repo := &fakeCitaRepo{citas: []*entity.Cita{cancelled}}
	svc := newCitaTestService(repo)

	avail, apierr := svc.CheckAvailability("2024-03-04", "09:00", 60, 0, "")
	if apierr != nil {
		t.Fatalf("unexpected error: %v", apierr)
	}
	if !avail.Available {
		t.Fatal("cancelled cita still blocks the slot")
	}
}

func TestCheckAvailabilityRejectsBadInput(t *testing.T) {
	svc := newCitaTestService(&fakeCitaRepo{})

	if _, apierr := svc.CheckAvailability("2024-03-04", "09:00", 0, 0, ""); apierr == nil {
		t.Fatal("zero duration accepted")
	}
	if _, apierr := svc.CheckAvailability("2024-03-04", "09:00", 60, -1, ""); apierr == nil {
		t.Fatal("negative buffer accepted")
	}
	if _, apierr := svc.CheckAvailability("04/03/2024", "09:00", 60, 0, ""); apierr == nil {
		t.Fatal("malformed date accepted")
	}
	if _, apierr := svc.CheckAvailability("2024-03-04", "9am", 60, 0, ""); apierr == nil {
		t.Fatal("malformed time accepted")
	}
}

func TestCreateCitaRejectsTakenSlot(t *testing.T) {
	repo := &fakeCitaRepo{citas: []*entity.Cita{
		existingCita("c1", "2024-03-04", "09:00", 60, 0),
	}}
	svc := newCitaTestService(repo)

	duration := 60
	_, apierr := svc.CreateCita(&CitaRequest{
		Title:    "Clase nueva",
		Date:     "2024-03-04",
		Time:     "09:30",
		Duration: &duration,
	})
	if apierr != apierror.SlotNotAvailableError {
		t.Fatalf("expected SlotNotAvailableError, got %v", apierr)
	}
	if len(repo.citas) != 1 {
		t.Fatalf("rejected cita was persisted anyway, %d citas stored", len(repo.citas))
	}
}

func TestCreateCitaForceOverridesConflict(t *testing.T) {
	repo := &fakeCitaRepo{citas: []*entity.Cita{
		existingCita("c1", "2024-03-04", "09:00", 60, 0),
	}}
	svc := newCitaTestService(repo)

	duration := 60
	cita, apierr := svc.CreateCita(&CitaRequest{
		Title:    "Clase forzada",
		Date:     "2024-03-04",
		Time:     "09:30",
		Duration: &duration,
		Force:    true,
	})
	if apierr != nil {
		t.Fatalf("forced create failed: %v", apierr)
	}
	if cita.ID == "" {
		t.Fatal("created cita has no id")
	}
	if len(repo.citas) != 2 {
		t.Fatalf("expected 2 citas stored, got %d", len(repo.citas))
	}
}

func TestCreateCitaDefaults(t *testing.T) {
	repo := &fakeCitaRepo{}
	svc := newCitaTestService(repo)

	cita, apierr := svc.CreateCita(&CitaRequest{
		Title: "Clase suelta",
		Date:  "2024-03-04",
		Time:  "09:00",
	})
	if apierr != nil {
		t.Fatalf("create failed: %v", apierr)
	}
	if cita.Duration != 60 {
		t.Fatalf("default duration = %d, want 60", cita.Duration)
	}
	if cita.BufferTime != 15 {
		t.Fatalf("default buffer = %d, want 15", cita.BufferTime)
	}
	if cita.MaxCapacity != 1 {
		t.Fatalf("default max capacity = %d, want 1", cita.MaxCapacity)
	}
	if cita.Status != string(entity.CitaScheduled) {
		t.Fatalf("default status = %s, want scheduled", cita.Status)
	}
}

func TestExpandRecurringWeekly(t *testing.T) {
	base := existingCita("c1", "2024-01-01", "09:00", 60, 0)
	base.Recurring = true
	base.RecurringType = entity.RecurringWeekly
	base.RecurringEnd = "2024-01-22"

	instances, err := expandRecurring(base)
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	if len(instances) != 3 {
		t.Fatalf("expected 3 instances, got %d", len(instances))
	}

	wantDates := []string{"2024-01-08", "2024-01-15", "2024-01-22"}
	for i, inst := range instances {
		if inst.Date != wantDates[i] {
			t.Fatalf("instance %d date = %s, want %s", i, inst.Date, wantDates[i])
		}
		if inst.Time != base.Time || inst.Duration != base.Duration || inst.Title != base.Title {
			t.Fatalf("instance %d does not inherit the base fields", i)
		}
		if inst.ID != "" {
			t.Fatalf("instance %d carries the base id", i)
		}
	}
}

func TestExpandRecurringDailyAndMonthly(t *testing.T) {
	base := existingCita("c1", "2024-01-01", "09:00", 60, 0)
	base.RecurringType = entity.RecurringDaily
	base.RecurringEnd = "2024-01-05"
	instances, err := expandRecurring(base)
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	if len(instances) != 4 {
		t.Fatalf("daily: expected 4 instances, got %d", len(instances))
	}

	base.RecurringType = entity.RecurringMonthly
	base.RecurringEnd = "2024-03-01"
	instances, err = expandRecurring(base)
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	// Flat 30-day steps: 01-31 and 03-01.
	if len(instances) != 2 {
		t.Fatalf("monthly: expected 2 instances, got %d", len(instances))
	}
	if instances[0].Date != "2024-01-31" || instances[1].Date != "2024-03-01" {
		t.Fatalf("monthly dates = %s, %s", instances[0].Date, instances[1].Date)
	}
}

func TestCreateRecurringCitaPersistsSeries(t *testing.T) {
	repo := &fakeCitaRepo{}
	svc := newCitaTestService(repo)

	_, apierr := svc.CreateCita(&CitaRequest{
		Title:         "Grupo lunes",
		Date:          "2024-01-01",
		Time:          "09:00",
		Recurring:     true,
		RecurringType: "weekly",
		RecurringEnd:  "2024-01-22",
	})
	if apierr != nil {
		t.Fatalf("create failed: %v", apierr)
	}
	// Base plus three generated instances.
	if len(repo.citas) != 4 {
		t.Fatalf("expected 4 citas stored, got %d", len(repo.citas))
	}
}

func TestScanConflictsCountsPairsOnce(t *testing.T) {
	citas := []*entity.Cita{
		existingCita("a", "2024-03-04", "09:00", 60, 0),
		existingCita("b", "2024-03-04", "09:30", 60, 0),
		existingCita("c", "2024-03-04", "11:00", 60, 0),
	}

	conflicts := scanConflicts(citas)
	if len(conflicts) != 1 {
		t.Fatalf("expected exactly 1 conflicting pair, got %d", len(conflicts))
	}
	if conflicts[0].ID != "a-b" {
		t.Fatalf("conflict pair = %s, want a-b", conflicts[0].ID)
	}
}

func TestScanConflictsSkipsCancelled(t *testing.T) {
	cancelled := existingCita("b", "2024-03-04", "09:30", 60, 0)
	cancelled.Status = entity.CitaCancelled
	citas := []*entity.Cita{
		existingCita("a", "2024-03-04", "09:00", 60, 0),
		cancelled,
	}

	if got := scanConflicts(citas); len(got) != 0 {
		t.Fatalf("cancelled cita produced %d conflicts", len(got))
	}
}

func TestUpdateCitaExcludesSelf(t *testing.T) {
	repo := &fakeCitaRepo{citas: []*entity.Cita{
		existingCita("c1", "2024-03-04", "09:00", 60, 0),
	}}
	svc := newCitaTestService(repo)

	duration := 90
	_, apierr := svc.UpdateCita("c1", &CitaRequest{
		Title:    "Clase c1",
		Date:     "2024-03-04",
		Time:     "09:00",
		Duration: &duration,
	})
	if apierr != nil {
		t.Fatalf("update against own slot failed: %v", apierr)
	}
}
