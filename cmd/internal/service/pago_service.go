package service

import (
	"fmt"

	"gymadmin/cmd/internal/domain/entity"
	"gymadmin/cmd/internal/domain/sqlite/repository"
	"gymadmin/cmd/internal/utils"
	"gymadmin/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type PagoRepository interface {
	FindByID(id string) (*entity.Pago, error)
	FindPage(page, pageSize int, orderBy string, desc bool) ([]*entity.Pago, int64, error)
	FindFiltered(q *repository.PagoQuery) ([]*entity.Pago, error)
	Save(pago *entity.Pago) error
	SaveBatch(pagos []*entity.Pago) error
	Delete(pago *entity.Pago) error
}

type PagoRequest struct {
	AlumnoID     string  `json:"alumno_id" validate:"required"`
	FechaPago    string  `json:"fecha_pago" validate:"required,dateonly"`
	Monto        float64 `json:"monto" validate:"required,gt=0"`
	MetodoPago   string  `json:"metodo_pago" validate:"required,oneof=Efectivo Transferencia 'Mercado Pago'"`
	PeriodoDesde string  `json:"periodo_desde" validate:"omitempty,dateonly"`
	PeriodoHasta string  `json:"periodo_hasta" validate:"omitempty,dateonly"`
	Notas        string  `json:"notas"`
	Estado       string  `json:"estado" validate:"omitempty,oneof=Pagado Pendiente"`
	Mes          int     `json:"mes" validate:"required,min=1,max=12"`
	Anio         int     `json:"anio" validate:"required,min=2000,max=2100"`
}

type PagoResponse struct {
	ID           string  `json:"id"`
	AlumnoID     string  `json:"alumno_id"`
	FechaPago    string  `json:"fecha_pago"`
	Monto        float64 `json:"monto"`
	MetodoPago   string  `json:"metodo_pago"`
	PeriodoDesde string  `json:"periodo_desde,omitempty"`
	PeriodoHasta string  `json:"periodo_hasta,omitempty"`
	Notas        string  `json:"notas,omitempty"`
	Estado       string  `json:"estado"`
	Mes          int     `json:"mes"`
	Anio         int     `json:"anio"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type PagoListResponse struct {
	Pagos    []*PagoResponse `json:"pagos"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

type ResumenPagosResponse struct {
	TotalRecaudado float64            `json:"total_recaudado"`
	CantidadPagos  int                `json:"cantidad_pagos"`
	PromedioMonto  float64            `json:"promedio_monto"`
	PorMetodoPago  map[string]float64 `json:"por_metodo_pago"`
	PorEstado      map[string]int     `json:"por_estado"`
}

type EstadisticasPagosResponse struct {
	TotalRecaudado  float64            `json:"total_recaudado"`
	PagosPorMes     map[string]float64 `json:"pagos_por_mes"`
	PagosPorMetodo  map[string]float64 `json:"pagos_por_metodo"`
	PromedioMensual float64            `json:"promedio_mensual"`
	CantidadPagos   int                `json:"cantidad_pagos"`
	MontoPromedio   float64            `json:"monto_promedio"`
}

type DefaultPagoService struct {
	PagoRepo PagoRepository
	Validate *validator.Validate
}

func NewPagoService(pagoRepo PagoRepository, validate *validator.Validate) *DefaultPagoService {
	return &DefaultPagoService{PagoRepo: pagoRepo, Validate: validate}
}

func (s *DefaultPagoService) GetPagos(page, pageSize int, orderBy string, desc bool) (*PagoListResponse, apierror.ErrorResponse) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	pagos, total, err := s.PagoRepo.FindPage(page, pageSize, orderBy, desc)
	if err != nil {
		log.Errorf("failed to fetch pagos: %v", err)
		return nil, apierror.NewSimple(500, "Error al obtener pagos")
	}

	response := make([]*PagoResponse, len(pagos))
	for i, pago := range pagos {
		response[i] = toPagoResponse(pago)
	}
	return &PagoListResponse{Pagos: response, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *DefaultPagoService) GetPagosFiltered(q *repository.PagoQuery) ([]*PagoResponse, apierror.ErrorResponse) {
	pagos, err := s.PagoRepo.FindFiltered(q)
	if err != nil {
		log.Errorf("failed to fetch filtered pagos: %v", err)
		return nil, apierror.NewSimple(500, "Error al obtener pagos")
	}

	response := make([]*PagoResponse, len(pagos))
	for i, pago := range pagos {
		response[i] = toPagoResponse(pago)
	}
	return response, nil
}

func (s *DefaultPagoService) CreatePago(req *PagoRequest) (*PagoResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	pago := pagoFromRequest(req, utils.NowUTC())
	if err := s.PagoRepo.Save(pago); err != nil {
		log.Errorf("failed to create pago: %v", err)
		return nil, apierror.NewSimple(500, "Error al crear el pago")
	}
	return toPagoResponse(pago), nil
}

// CreatePagosBulk registers several payments at once (e.g. a month's cash
// closing). The insert is a single batch.
func (s *DefaultPagoService) CreatePagosBulk(reqs []*PagoRequest) ([]*PagoResponse, apierror.ErrorResponse) {
	now := utils.NowUTC()
	pagos := make([]*entity.Pago, len(reqs))
	for i, req := range reqs {
		utils.Sanitize(req)
		if err := s.Validate.Struct(req); err != nil {
			return nil, apierror.FromValidationError(err)
		}
		pagos[i] = pagoFromRequest(req, now)
	}

	if err := s.PagoRepo.SaveBatch(pagos); err != nil {
		log.Errorf("failed to create %d pagos: %v", len(pagos), err)
		return nil, apierror.NewSimple(500, "Error al crear los pagos")
	}

	response := make([]*PagoResponse, len(pagos))
	for i, pago := range pagos {
		response[i] = toPagoResponse(pago)
	}
	return response, nil
}

func (s *DefaultPagoService) UpdatePago(id string, req *PagoRequest) (*PagoResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	pago, err := s.PagoRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch pago %s: %v", id, err)
		return nil, apierror.NewSimple(500, "Error al actualizar el pago")
	}
	if pago == nil {
		return nil, apierror.NotFoundError
	}

	pago.AlumnoID = req.AlumnoID
	pago.FechaPago = req.FechaPago
	pago.Monto = req.Monto
	pago.MetodoPago = entity.MetodoPago(req.MetodoPago)
	pago.PeriodoDesde = req.PeriodoDesde
	pago.PeriodoHasta = req.PeriodoHasta
	pago.Notas = req.Notas
	if req.Estado != "" {
		pago.Estado = entity.EstadoDePago(req.Estado)
	}
	pago.Mes = req.Mes
	pago.Anio = req.Anio
	pago.UpdatedAt = utils.NowUTC()

	if err := s.PagoRepo.Save(pago); err != nil {
		log.Errorf("failed to update pago %s: %v", id, err)
		return nil, apierror.NewSimple(500, "Error al actualizar el pago")
	}
	return toPagoResponse(pago), nil
}

func (s *DefaultPagoService) DeletePago(id string) apierror.ErrorResponse {
	pago, err := s.PagoRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch pago %s: %v", id, err)
		return apierror.NewSimple(500, "Error al eliminar el pago")
	}
	if pago == nil {
		return apierror.NotFoundError
	}

	if err := s.PagoRepo.Delete(pago); err != nil {
		log.Errorf("failed to delete pago %s: %v", id, err)
		return apierror.NewSimple(500, "Error al eliminar el pago")
	}
	return nil
}

func (s *DefaultPagoService) GetResumen(desde, hasta string) (*ResumenPagosResponse, apierror.ErrorResponse) {
	pagos, err := s.PagoRepo.FindFiltered(&repository.PagoQuery{FechaDesde: desde, FechaHasta: hasta})
	if err != nil {
		log.Errorf("failed to fetch pagos for summary: %v", err)
		return nil, apierror.NewSimple(500, "Error al obtener el resumen de pagos")
	}
	return resumenPagos(pagos), nil
}

func (s *DefaultPagoService) GetEstadisticas(desde, hasta string) (*EstadisticasPagosResponse, apierror.ErrorResponse) {
	pagos, err := s.PagoRepo.FindFiltered(&repository.PagoQuery{FechaDesde: desde, FechaHasta: hasta})
	if err != nil {
		log.Errorf("failed to fetch pagos for stats: %v", err)
		return nil, apierror.NewSimple(500, "Error al obtener estadísticas de pagos")
	}
	return estadisticasPagos(pagos), nil
}

func resumenPagos(pagos []*entity.Pago) *ResumenPagosResponse {
	resumen := &ResumenPagosResponse{
		CantidadPagos: len(pagos),
		PorMetodoPago: map[string]float64{},
		PorEstado:     map[string]int{},
	}

	for _, pago := range pagos {
		resumen.TotalRecaudado += pago.Monto
		resumen.PorMetodoPago[string(pago.MetodoPago)] += pago.Monto
		resumen.PorEstado[string(pago.Estado)]++
	}
	if len(pagos) > 0 {
		resumen.PromedioMonto = resumen.TotalRecaudado / float64(len(pagos))
	}
	return resumen
}

func estadisticasPagos(pagos []*entity.Pago) *EstadisticasPagosResponse {
	stats := &EstadisticasPagosResponse{
		PagosPorMes:    map[string]float64{},
		PagosPorMetodo: map[string]float64{},
		CantidadPagos:  len(pagos),
	}

	for _, pago := range pagos {
		key := fmt.Sprintf("%d-%02d", pago.Anio, pago.Mes)
		stats.TotalRecaudado += pago.Monto
		stats.PagosPorMes[key] += pago.Monto
		stats.PagosPorMetodo[string(pago.MetodoPago)] += pago.Monto
	}

	if len(stats.PagosPorMes) > 0 {
		stats.PromedioMensual = stats.TotalRecaudado / float64(len(stats.PagosPorMes))
	}
	if len(pagos) > 0 {
		stats.MontoPromedio = stats.TotalRecaudado / float64(len(pagos))
	}
	return stats
}

func pagoFromRequest(req *PagoRequest, now int64) *entity.Pago {
	estado := entity.PagoPagado
	if req.Estado != "" {
		estado = entity.EstadoDePago(req.Estado)
	}
	return &entity.Pago{
		AlumnoID:     req.AlumnoID,
		FechaPago:    req.FechaPago,
		Monto:        req.Monto,
		MetodoPago:   entity.MetodoPago(req.MetodoPago),
		PeriodoDesde: req.PeriodoDesde,
		PeriodoHasta: req.PeriodoHasta,
		Notas:        req.Notas,
		Estado:       estado,
		Mes:          req.Mes,
		Anio:         req.Anio,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func toPagoResponse(pago *entity.Pago) *PagoResponse {
	return &PagoResponse{
		ID:           pago.ID,
		AlumnoID:     pago.AlumnoID,
		FechaPago:    pago.FechaPago,
		Monto:        pago.Monto,
		MetodoPago:   string(pago.MetodoPago),
		PeriodoDesde: pago.PeriodoDesde,
		PeriodoHasta: pago.PeriodoHasta,
		Notas:        pago.Notas,
		Estado:       string(pago.Estado),
		Mes:          pago.Mes,
		Anio:         pago.Anio,
		CreatedAt:    utils.FormatEpoch(pago.CreatedAt),
		UpdatedAt:    utils.FormatEpoch(pago.UpdatedAt),
	}
}
