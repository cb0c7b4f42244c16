package service

import (
	"errors"
	"time"

	"gymadmin/cmd/internal/domain/entity"
	"gymadmin/cmd/internal/domain/sqlite/repository"
	"gymadmin/cmd/internal/utils"
	"gymadmin/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type CitaRepository interface {
	FindByID(id string) (*entity.Cita, error)
	FindFiltered(q *repository.CitaQuery) ([]*entity.Cita, error)
	FindByDay(date, excludeID string) ([]*entity.Cita, error)
	CreateChecked(cita *entity.Cita, check func(existing []*entity.Cita) error) error
	UpdateChecked(cita *entity.Cita, check func(existing []*entity.Cita) error) error
	CreateBatch(citas []*entity.Cita) error
	Delete(cita *entity.Cita) error
	CountBetween(from, to string) (int64, error)
	CountOnDate(date string) (int64, error)
	CountPendingFrom(date string) (int64, error)
}

type CitaRequest struct {
	Title         string `json:"title" validate:"required,max=128"`
	Date          string `json:"date" validate:"required,dateonly"`
	Time          string `json:"time" validate:"required,clocktime"`
	Duration      *int   `json:"duration" validate:"omitempty,min=1,max=480"`
	AlumnoID      string `json:"alumno_id"`
	Status        string `json:"status" validate:"omitempty,oneof=scheduled confirmed in-progress completed cancelled no-show"`
	Type          string `json:"type" validate:"omitempty,oneof=individual group evaluation consultation"`
	Notes         string `json:"notes"`
	Recurring     bool   `json:"recurring"`
	RecurringType string `json:"recurring_type" validate:"omitempty,oneof=daily weekly monthly"`
	RecurringEnd  string `json:"recurring_end" validate:"omitempty,dateonly"`
	MaxCapacity   *int   `json:"max_capacity" validate:"omitempty,min=1"`
	BufferTime    *int   `json:"buffer_time" validate:"omitempty,min=0"`

	// Force skips the availability gate: the caller saw the conflicts and
	// confirmed the booking anyway.
	Force bool `json:"force"`
}

type CitaResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Duration      int    `json:"duration"`
	AlumnoID      string `json:"alumno_id,omitempty"`
	Status        string `json:"status"`
	Type          string `json:"type"`
	Notes         string `json:"notes,omitempty"`
	Recurring     bool   `json:"recurring"`
	RecurringType string `json:"recurring_type,omitempty"`
	RecurringEnd  string `json:"recurring_end,omitempty"`
	MaxCapacity   int    `json:"max_capacity"`
	BufferTime    int    `json:"buffer_time"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type ConflictInfo struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Time     string `json:"time"`
	Type     string `json:"type"`     // "overlap" | "buffer"
	Severity string `json:"severity"` // "high" | "medium"
}

type AvailabilityResponse struct {
	Available bool            `json:"available"`
	Conflicts []*ConflictInfo `json:"conflicts"`
}

type CitaStatsResponse struct {
	TotalCitas      int64 `json:"total_citas"`
	CitasHoy        int64 `json:"citas_hoy"`
	CitasPendientes int64 `json:"citas_pendientes"`
	Conflictos      int   `json:"conflictos"`
	Utilizacion     int   `json:"utilizacion"`
}

const (
	defaultDuration   = 60
	defaultBufferTime = 15
)

// errSlotNotAvailable travels out of the transactional check callback.
var errSlotNotAvailable = errors.New("horario no disponible")

type DefaultCitaService struct {
	CitaRepo CitaRepository
	Validate *validator.Validate
}

func NewCitaService(citaRepo CitaRepository, validate *validator.Validate) *DefaultCitaService {
	return &DefaultCitaService{CitaRepo: citaRepo, Validate: validate}
}

func (s *DefaultCitaService) GetCitas(q *repository.CitaQuery) ([]*CitaResponse, apierror.ErrorResponse) {
	citas, err := s.CitaRepo.FindFiltered(q)
	if err != nil {
		log.Errorf("failed to fetch citas: %v", err)
		return nil, apierror.NewSimple(500, "Error al obtener las citas")
	}

	response := make([]*CitaResponse, len(citas))
	for i, cita := range citas {
		response[i] = toCitaResponse(cita)
	}
	return response, nil
}

func (s *DefaultCitaService) GetCita(id string) (*CitaResponse, apierror.ErrorResponse) {
	cita, err := s.CitaRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch cita %s: %v", id, err)
		return nil, apierror.NewSimple(500, "Error al obtener la cita")
	}
	if cita == nil {
		return nil, apierror.NotFoundError
	}
	return toCitaResponse(cita), nil
}

// CheckAvailability reports whether a candidate slot can be booked. It is
// read-only and advisory: the create/update flow re-runs the same decision
// inside its transaction.
func (s *DefaultCitaService) CheckAvailability(date, timeStr string, duration, buffer int, excludeID string) (*AvailabilityResponse, apierror.ErrorResponse) {
	if _, err := utils.ParseDate(date); err != nil {
		return nil, apierror.NewInvalidParamTypeError("date", "YYYY-MM-DD")
	}
	startMin, err := utils.ParseClock(timeStr)
	if err != nil {
		return nil, apierror.NewInvalidParamTypeError("time", "HH:MM")
	}
	if duration < 1 {
		return nil, apierror.NewSimple(400, "La duración debe ser mayor a cero")
	}
	if buffer < 0 {
		return nil, apierror.NewSimple(400, "El buffer no puede ser negativo")
	}

	existing, err := s.CitaRepo.FindByDay(date, excludeID)
	if err != nil {
		log.Errorf("failed to check availability on %s: %v", date, err)
		return nil, apierror.NewSimple(500, "Error al verificar disponibilidad")
	}

	conflicts := detectConflicts(startMin, startMin+duration, existing)
	return &AvailabilityResponse{
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}

func (s *DefaultCitaService) CreateCita(req *CitaRequest) (*CitaResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	now := utils.NowUTC()
	cita := citaFromRequest(req, now)

	err := s.CitaRepo.CreateChecked(cita, s.availabilityCheck(cita, req.Force))
	if errors.Is(err, errSlotNotAvailable) {
		return nil, apierror.SlotNotAvailableError
	}
	if err != nil {
		log.Errorf("failed to create cita: %v", err)
		return nil, apierror.NewSimple(500, "Error al crear la cita")
	}

	if cita.Recurring && cita.RecurringType != "" && cita.RecurringEnd != "" {
		if apierr := s.createRecurringCitas(cita); apierr != nil {
			return nil, apierr
		}
	}
	return toCitaResponse(cita), nil
}

func (s *DefaultCitaService) UpdateCita(id string, req *CitaRequest) (*CitaResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	cita, err := s.CitaRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch cita %s: %v", id, err)
		return nil, apierror.NewSimple(500, "Error al actualizar la cita")
	}
	if cita == nil {
		return nil, apierror.NotFoundError
	}

	applyRequest(cita, req)
	cita.UpdatedAt = utils.NowUTC()

	err = s.CitaRepo.UpdateChecked(cita, s.availabilityCheck(cita, req.Force))
	if errors.Is(err, errSlotNotAvailable) {
		return nil, apierror.SlotNotAvailableError
	}
	if err != nil {
		log.Errorf("failed to update cita %s: %v", id, err)
		return nil, apierror.NewSimple(500, "Error al actualizar la cita")
	}
	return toCitaResponse(cita), nil
}

func (s *DefaultCitaService) DeleteCita(id string) apierror.ErrorResponse {
	cita, err := s.CitaRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch cita %s: %v", id, err)
		return apierror.NewSimple(500, "Error al eliminar la cita")
	}
	if cita == nil {
		return apierror.NotFoundError
	}

	if err := s.CitaRepo.Delete(cita); err != nil {
		log.Errorf("failed to delete cita %s: %v", id, err)
		return apierror.NewSimple(500, "Error al eliminar la cita")
	}
	return nil
}

// GetConflicts enumerates every overlapping pair of non-cancelled citas on
// one day. Quadratic in the day's bookings, which stay small for a single
// venue.
func (s *DefaultCitaService) GetConflicts(date string) ([]*ConflictInfo, apierror.ErrorResponse) {
	if _, err := utils.ParseDate(date); err != nil {
		return nil, apierror.NewInvalidParamTypeError("date", "YYYY-MM-DD")
	}

	citas, err := s.CitaRepo.FindByDay(date, "")
	if err != nil {
		log.Errorf("failed to scan conflicts on %s: %v", date, err)
		return nil, apierror.NewSimple(500, "Error al obtener conflictos")
	}
	return scanConflicts(citas), nil
}

func (s *DefaultCitaService) GetStats() (*CitaStatsResponse, apierror.ErrorResponse) {
	now := time.Now().UTC()
	monthStart, monthEnd := utils.MonthBounds(now.Year(), now.Month())
	today := utils.TodayDate()

	totalCitas, err := s.CitaRepo.CountBetween(monthStart, monthEnd)
	if err != nil {
		log.Errorf("failed to count citas of the month: %v", err)
		return nil, apierror.NewSimple(500, "Error al obtener las estadísticas")
	}

	citasHoy, err := s.CitaRepo.CountOnDate(today)
	if err != nil {
		log.Errorf("failed to count citas of today: %v", err)
		return nil, apierror.NewSimple(500, "Error al obtener las estadísticas")
	}

	citasPendientes, err := s.CitaRepo.CountPendingFrom(today)
	if err != nil {
		log.Errorf("failed to count pending citas: %v", err)
		return nil, apierror.NewSimple(500, "Error al obtener las estadísticas")
	}

	// The conflict count is decorative on the dashboard; a failed scan
	// degrades to zero instead of failing the whole stats call.
	conflictos := 0
	if citas, err := s.CitaRepo.FindByDay(today, ""); err == nil {
		conflictos = len(scanConflicts(citas))
	}

	utilizacion := 0
	if totalCitas > 0 {
		utilizacion = int(float64(citasHoy)/float64(totalCitas)*100 + 0.5)
	}

	return &CitaStatsResponse{
		TotalCitas:      totalCitas,
		CitasHoy:        citasHoy,
		CitasPendientes: citasPendientes,
		Conflictos:      conflictos,
		Utilizacion:     utilizacion,
	}, nil
}

// availabilityCheck builds the callback the repository runs inside its
// transaction: recompute conflicts against the rows seen by the
// transaction and veto the write unless the caller forced it.
func (s *DefaultCitaService) availabilityCheck(cita *entity.Cita, force bool) func([]*entity.Cita) error {
	return func(existing []*entity.Cita) error {
		startMin, err := utils.ParseClock(cita.Time)
		if err != nil {
			return err
		}
		conflicts := detectConflicts(startMin, startMin+cita.Duration, existing)
		if len(conflicts) > 0 && !force {
			return errSlotNotAvailable
		}
		return nil
	}
}

// createRecurringCitas materializes the series of a recurring base cita:
// one instance per fixed interval, from base+interval through the end date
// inclusive, all inserted in a single batch. Generated instances are not
// availability-checked; a recurring series takes the slots it lands on.
func (s *DefaultCitaService) createRecurringCitas(base *entity.Cita) apierror.ErrorResponse {
	instances, err := expandRecurring(base)
	if err != nil {
		log.Errorf("failed to expand recurring cita %s: %v", base.ID, err)
		return apierror.NewSimple(500, "Error al crear la cita")
	}

	if err := s.CitaRepo.CreateBatch(instances); err != nil {
		log.Errorf("failed to insert recurring series for cita %s: %v", base.ID, err)
		return apierror.NewSimple(500, "Error al crear la cita")
	}
	return nil
}

func expandRecurring(base *entity.Cita) ([]*entity.Cita, error) {
	start, err := utils.ParseDate(base.Date)
	if err != nil {
		return nil, err
	}
	end, err := utils.ParseDate(base.RecurringEnd)
	if err != nil {
		return nil, err
	}

	interval := recurringInterval(base.RecurringType)
	now := utils.NowUTC()

	var instances []*entity.Cita
	for cur := start.AddDate(0, 0, interval); !cur.After(end); cur = cur.AddDate(0, 0, interval) {
		instance := *base
		instance.ID = ""
		instance.Date = utils.FormatDate(cur)
		instance.CreatedAt = now
		instance.UpdatedAt = now
		instances = append(instances, &instance)
	}
	return instances, nil
}

// recurringInterval maps a cadence to a fixed day count. "monthly" is a
// flat 30 days, not calendar-month arithmetic.
func recurringInterval(t entity.RecurringType) int {
	switch t {
	case entity.RecurringDaily:
		return 1
	case entity.RecurringWeekly:
		return 7
	case entity.RecurringMonthly:
		return 30
	default:
		return 7
	}
}

// timesOverlap is the half-open interval test: [s1,e1) and [s2,e2)
// intersect iff s1 < e2 && s2 < e1. Back-to-back citas do not overlap.
func timesOverlap(start1, end1, start2, end2 int) bool {
	return start1 < end2 && start2 < end1
}

// detectConflicts compares a candidate [startMin, endMin) against existing
// citas of the same day. Each existing cita yields at most one conflict:
// a raw interval overlap, or failing that, an intersection with the cita's
// interval expanded by its own buffer on both sides.
func detectConflicts(startMin, endMin int, existing []*entity.Cita) []*ConflictInfo {
	conflicts := []*ConflictInfo{}

	for _, cita := range existing {
		if cita.Status == entity.CitaCancelled {
			continue
		}
		citaStart, err := utils.ParseClock(cita.Time)
		if err != nil {
			log.Warnf("cita %s has malformed time %q, skipping", cita.ID, cita.Time)
			continue
		}
		citaEnd := citaStart + cita.Duration

		switch {
		case timesOverlap(startMin, endMin, citaStart, citaEnd):
			conflicts = append(conflicts, &ConflictInfo{
				ID:       cita.ID,
				Title:    cita.Title,
				Time:     cita.Time,
				Type:     "overlap",
				Severity: "high",
			})
		case timesOverlap(startMin, endMin, citaStart-cita.BufferTime, citaEnd+cita.BufferTime):
			conflicts = append(conflicts, &ConflictInfo{
				ID:       cita.ID,
				Title:    cita.Title,
				Time:     cita.Time,
				Type:     "buffer",
				Severity: "medium",
			})
		}
	}
	return conflicts
}

// scanConflicts pairwise-compares a day's citas and reports every
// overlapping pair once.
func scanConflicts(citas []*entity.Cita) []*ConflictInfo {
	conflicts := []*ConflictInfo{}

	for i := 0; i < len(citas); i++ {
		if citas[i].Status == entity.CitaCancelled {
			continue
		}
		start1, err := utils.ParseClock(citas[i].Time)
		if err != nil {
			continue
		}
		end1 := start1 + citas[i].Duration

		for j := i + 1; j < len(citas); j++ {
			if citas[j].Status == entity.CitaCancelled {
				continue
			}
			start2, err := utils.ParseClock(citas[j].Time)
			if err != nil {
				continue
			}
			end2 := start2 + citas[j].Duration

			if timesOverlap(start1, end1, start2, end2) {
				conflicts = append(conflicts, &ConflictInfo{
					ID:       citas[i].ID + "-" + citas[j].ID,
					Title:    citas[i].Title + " vs " + citas[j].Title,
					Time:     citas[j].Time,
					Type:     "overlap",
					Severity: "high",
				})
			}
		}
	}
	return conflicts
}

func citaFromRequest(req *CitaRequest, now int64) *entity.Cita {
	cita := &entity.Cita{
		Title:       req.Title,
		Date:        req.Date,
		Time:        req.Time,
		Duration:    defaultDuration,
		AlumnoID:    req.AlumnoID,
		Status:      entity.CitaScheduled,
		Type:        entity.CitaIndividual,
		Notes:       req.Notes,
		Recurring:   req.Recurring,
		MaxCapacity: 1,
		BufferTime:  defaultBufferTime,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	applyRequest(cita, req)
	return cita
}

func applyRequest(cita *entity.Cita, req *CitaRequest) {
	cita.Title = req.Title
	cita.Date = req.Date
	cita.Time = req.Time
	cita.AlumnoID = req.AlumnoID
	cita.Notes = req.Notes
	cita.Recurring = req.Recurring
	cita.RecurringType = entity.RecurringType(req.RecurringType)
	cita.RecurringEnd = req.RecurringEnd

	if req.Duration != nil {
		cita.Duration = *req.Duration
	}
	if req.BufferTime != nil {
		cita.BufferTime = *req.BufferTime
	}
	if req.MaxCapacity != nil {
		cita.MaxCapacity = *req.MaxCapacity
	}
	if req.Status != "" {
		cita.Status = entity.CitaStatus(req.Status)
	}
	if req.Type != "" {
		cita.Type = entity.CitaType(req.Type)
	}
}

func toCitaResponse(cita *entity.Cita) *CitaResponse {
	return &CitaResponse{
		ID:            cita.ID,
		Title:         cita.Title,
		Date:          cita.Date,
		Time:          cita.Time,
		Duration:      cita.Duration,
		AlumnoID:      cita.AlumnoID,
		Status:        string(cita.Status),
		Type:          string(cita.Type),
		Notes:         cita.Notes,
		Recurring:     cita.Recurring,
		RecurringType: string(cita.RecurringType),
		RecurringEnd:  cita.RecurringEnd,
		MaxCapacity:   cita.MaxCapacity,
		BufferTime:    cita.BufferTime,
		CreatedAt:     utils.FormatEpoch(cita.CreatedAt),
		UpdatedAt:     utils.FormatEpoch(cita.UpdatedAt),
	}
}
