package service

import (
	"sort"

	"gymadmin/cmd/internal/domain/entity"
	"gymadmin/cmd/internal/domain/sqlite/repository"
	"gymadmin/cmd/internal/utils"
	"gymadmin/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type PrecioRepository interface {
	FindByID(id string) (*entity.HistorialPrecio, error)
	FindFiltered(q *repository.PrecioQuery) ([]*entity.HistorialPrecio, error)
	FindVigente(servicio, fecha string) (*entity.HistorialPrecio, error)
	FindBetween(servicio, desde, hasta string, tipo entity.TipoServicio, moneda entity.Moneda) ([]*entity.HistorialPrecio, error)
	FindActivos() ([]*entity.HistorialPrecio, error)
	Save(precio *entity.HistorialPrecio) error
	Delete(precio *entity.HistorialPrecio) error
}

type PrecioRequest struct {
	Servicio     string  `json:"servicio" validate:"required,max=80"`
	Precio       float64 `json:"precio" validate:"required,gt=0"`
	FechaInicio  string  `json:"fecha_inicio" validate:"required,dateonly"`
	FechaFin     string  `json:"fecha_fin" validate:"omitempty,dateonly"`
	Notas        string  `json:"notas"`
	Activo       *bool   `json:"activo"`
	Moneda       string  `json:"moneda" validate:"omitempty,oneof=ARS USD"`
	TipoServicio string  `json:"tipo_servicio" validate:"omitempty,oneof=mensual clase evaluacion"`

	IncrementosProgramados []entity.IncrementoProgramado `json:"incrementos_programados"`
}

type PrecioResponse struct {
	ID           string  `json:"id"`
	Servicio     string  `json:"servicio"`
	Precio       float64 `json:"precio"`
	FechaInicio  string  `json:"fecha_inicio"`
	FechaFin     string  `json:"fecha_fin,omitempty"`
	Notas        string  `json:"notas,omitempty"`
	Activo       bool    `json:"activo"`
	Moneda       string  `json:"moneda"`
	TipoServicio string  `json:"tipo_servicio"`

	HistorialCambios       []entity.CambioPrecio         `json:"historial_cambios,omitempty"`
	IncrementosProgramados []entity.IncrementoProgramado `json:"incrementos_programados,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type TendenciaMensual struct {
	Mes             string  `json:"mes"` // "YYYY-MM"
	Promedio        float64 `json:"promedio"`
	CantidadCambios int     `json:"cantidad_cambios"`
}

type TendenciaPreciosResponse struct {
	Precios              []*PrecioResponse  `json:"precios"`
	Promedio             float64            `json:"promedio"`
	Minimo               float64            `json:"minimo"`
	Maximo               float64            `json:"maximo"`
	VariacionPorcentual  float64            `json:"variacion_porcentual"`
	TendenciaMensual     []TendenciaMensual `json:"tendencia_mensual"`
	ProyeccionProximoMes *float64           `json:"proyeccion_proximo_mes,omitempty"`
}

type DefaultPrecioService struct {
	PrecioRepo PrecioRepository
	Validate   *validator.Validate
}

func NewPrecioService(precioRepo PrecioRepository, validate *validator.Validate) *DefaultPrecioService {
	return &DefaultPrecioService{PrecioRepo: precioRepo, Validate: validate}
}

func (s *DefaultPrecioService) GetHistorial(q *repository.PrecioQuery) ([]*PrecioResponse, apierror.ErrorResponse) {
	precios, err := s.PrecioRepo.FindFiltered(q)
	if err != nil {
		log.Errorf("failed to fetch historial de precios: %v", err)
		return nil, apierror.NewSimple(500, "Error al obtener el historial de precios")
	}

	response := make([]*PrecioResponse, len(precios))
	for i, precio := range precios {
		response[i] = toPrecioResponse(precio)
	}
	return response, nil
}

func (s *DefaultPrecioService) GetVigente(servicio, fecha string) (*PrecioResponse, apierror.ErrorResponse) {
	if fecha == "" {
		fecha = utils.TodayDate()
	}

	precio, err := s.PrecioRepo.FindVigente(servicio, fecha)
	if err != nil {
		log.Errorf("failed to fetch precio vigente for %s: %v", servicio, err)
		return nil, apierror.NewSimple(500, "Error al obtener el precio vigente")
	}
	if precio == nil {
		return nil, apierror.NotFoundError
	}
	return toPrecioResponse(precio), nil
}

// CreatePrecio inserts a new price entry. When the entry is active, the
// previous active price of the same service is closed: deactivated, its
// fecha_fin set to the new entry's start, and a change-log line appended.
func (s *DefaultPrecioService) CreatePrecio(req *PrecioRequest) (*PrecioResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	activo := true
	if req.Activo != nil {
		activo = *req.Activo
	}

	if activo {
		if apierr := s.closePreviousPrice(req); apierr != nil {
			return nil, apierr
		}
	}

	now := utils.NowUTC()
	precio := &entity.HistorialPrecio{
		Servicio:               req.Servicio,
		Precio:                 req.Precio,
		FechaInicio:            req.FechaInicio,
		FechaFin:               req.FechaFin,
		Notas:                  req.Notas,
		Activo:                 activo,
		Moneda:                 entity.MonedaARS,
		TipoServicio:           entity.ServicioMensual,
		IncrementosProgramados: req.IncrementosProgramados,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if req.Moneda != "" {
		precio.Moneda = entity.Moneda(req.Moneda)
	}
	if req.TipoServicio != "" {
		precio.TipoServicio = entity.TipoServicio(req.TipoServicio)
	}

	if err := s.PrecioRepo.Save(precio); err != nil {
		log.Errorf("failed to create precio: %v", err)
		return nil, apierror.NewSimple(500, "Error al crear el registro de precio")
	}
	return toPrecioResponse(precio), nil
}

func (s *DefaultPrecioService) closePreviousPrice(req *PrecioRequest) apierror.ErrorResponse {
	anterior, err := s.PrecioRepo.FindVigente(req.Servicio, utils.TodayDate())
	if err != nil {
		log.Errorf("failed to fetch previous price for %s: %v", req.Servicio, err)
		return apierror.NewSimple(500, "Error al crear el registro de precio")
	}
	if anterior == nil {
		return nil
	}

	anterior.Activo = false
	anterior.FechaFin = req.FechaInicio
	anterior.HistorialCambios = append(anterior.HistorialCambios, entity.CambioPrecio{
		Fecha:          utils.FormatEpoch(utils.NowUTC()),
		PrecioAnterior: anterior.Precio,
		PrecioNuevo:    req.Precio,
		Motivo:         req.Notas,
	})
	anterior.UpdatedAt = utils.NowUTC()

	if err := s.PrecioRepo.Save(anterior); err != nil {
		log.Errorf("failed to close previous price %s: %v", anterior.ID, err)
		return apierror.NewSimple(500, "Error al crear el registro de precio")
	}
	return nil
}

func (s *DefaultPrecioService) UpdatePrecio(id string, req *PrecioRequest) (*PrecioResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	precio, err := s.PrecioRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch precio %s: %v", id, err)
		return nil, apierror.NewSimple(500, "Error al actualizar el registro de precio")
	}
	if precio == nil {
		return nil, apierror.NotFoundError
	}

	if req.Precio != precio.Precio {
		precio.HistorialCambios = append(precio.HistorialCambios, entity.CambioPrecio{
			Fecha:          utils.FormatEpoch(utils.NowUTC()),
			PrecioAnterior: precio.Precio,
			PrecioNuevo:    req.Precio,
			Motivo:         req.Notas,
		})
	}

	precio.Servicio = req.Servicio
	precio.Precio = req.Precio
	precio.FechaInicio = req.FechaInicio
	precio.FechaFin = req.FechaFin
	precio.Notas = req.Notas
	if req.Activo != nil {
		precio.Activo = *req.Activo
	}
	if req.Moneda != "" {
		precio.Moneda = entity.Moneda(req.Moneda)
	}
	if req.TipoServicio != "" {
		precio.TipoServicio = entity.TipoServicio(req.TipoServicio)
	}
	if req.IncrementosProgramados != nil {
		precio.IncrementosProgramados = req.IncrementosProgramados
	}
	precio.UpdatedAt = utils.NowUTC()

	if err := s.PrecioRepo.Save(precio); err != nil {
		log.Errorf("failed to update precio %s: %v", id, err)
		return nil, apierror.NewSimple(500, "Error al actualizar el registro de precio")
	}
	return toPrecioResponse(precio), nil
}

func (s *DefaultPrecioService) DeletePrecio(id string) apierror.ErrorResponse {
	precio, err := s.PrecioRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch precio %s: %v", id, err)
		return apierror.NewSimple(500, "Error al eliminar el registro de precio")
	}
	if precio == nil {
		return apierror.NotFoundError
	}

	if err := s.PrecioRepo.Delete(precio); err != nil {
		log.Errorf("failed to delete precio %s: %v", id, err)
		return apierror.NewSimple(500, "Error al eliminar el registro de precio")
	}
	return nil
}

func (s *DefaultPrecioService) GetTendencia(servicio, desde, hasta string, tipo, moneda string) (*TendenciaPreciosResponse, apierror.ErrorResponse) {
	precios, err := s.PrecioRepo.FindBetween(servicio, desde, hasta, entity.TipoServicio(tipo), entity.Moneda(moneda))
	if err != nil {
		log.Errorf("failed to fetch price trend for %s: %v", servicio, err)
		return nil, apierror.NewSimple(500, "Error al obtener tendencias de precios")
	}
	return tendenciaPrecios(precios), nil
}

// VerificarIncrementos marks due scheduled increments as notified and
// returns the affected entries.
func (s *DefaultPrecioService) VerificarIncrementos() ([]*PrecioResponse, apierror.ErrorResponse) {
	precios, err := s.PrecioRepo.FindActivos()
	if err != nil {
		log.Errorf("failed to fetch active prices: %v", err)
		return nil, apierror.NewSimple(500, "Error al verificar incrementos programados")
	}

	hoy := utils.TodayDate()
	afectados := []*PrecioResponse{}

	for _, precio := range precios {
		due := false
		for i := range precio.IncrementosProgramados {
			inc := &precio.IncrementosProgramados[i]
			if !inc.Notificado && inc.Fecha <= hoy {
				inc.Notificado = true
				due = true
			}
		}
		if !due {
			continue
		}

		precio.UpdatedAt = utils.NowUTC()
		if err := s.PrecioRepo.Save(precio); err != nil {
			log.Errorf("failed to mark increments for precio %s: %v", precio.ID, err)
			return nil, apierror.NewSimple(500, "Error al verificar incrementos programados")
		}
		afectados = append(afectados, toPrecioResponse(precio))
	}
	return afectados, nil
}

func tendenciaPrecios(precios []*entity.HistorialPrecio) *TendenciaPreciosResponse {
	resp := &TendenciaPreciosResponse{
		Precios:          make([]*PrecioResponse, len(precios)),
		TendenciaMensual: []TendenciaMensual{},
	}
	for i, precio := range precios {
		resp.Precios[i] = toPrecioResponse(precio)
	}
	if len(precios) == 0 {
		return resp
	}

	var sum float64
	resp.Minimo = precios[0].Precio
	resp.Maximo = precios[0].Precio
	for _, p := range precios {
		sum += p.Precio
		if p.Precio < resp.Minimo {
			resp.Minimo = p.Precio
		}
		if p.Precio > resp.Maximo {
			resp.Maximo = p.Precio
		}
	}
	resp.Promedio = sum / float64(len(precios))

	if len(precios) >= 2 {
		primero := precios[0].Precio
		ultimo := precios[len(precios)-1].Precio
		resp.VariacionPorcentual = (ultimo - primero) / primero * 100
	}

	type acumulado struct {
		suma    float64
		n       int
		cambios int
	}
	porMes := map[string]*acumulado{}
	for _, p := range precios {
		if len(p.FechaInicio) < 7 {
			continue
		}
		mes := p.FechaInicio[:7]
		if porMes[mes] == nil {
			porMes[mes] = &acumulado{}
		}
		porMes[mes].suma += p.Precio
		porMes[mes].n++
		porMes[mes].cambios += len(p.HistorialCambios)
	}

	for mes, acc := range porMes {
		resp.TendenciaMensual = append(resp.TendenciaMensual, TendenciaMensual{
			Mes:             mes,
			Promedio:        acc.suma / float64(acc.n),
			CantidadCambios: acc.cambios,
		})
	}
	sort.Slice(resp.TendenciaMensual, func(i, j int) bool {
		return resp.TendenciaMensual[i].Mes < resp.TendenciaMensual[j].Mes
	})

	// Naive projection: average month-over-month variation of the last
	// three months applied to the most recent average.
	if n := len(resp.TendenciaMensual); n >= 3 {
		ultimos := resp.TendenciaMensual[n-3:]
		var variacion float64
		for i := 1; i < len(ultimos); i++ {
			variacion += (ultimos[i].Promedio - ultimos[i-1].Promedio) / ultimos[i-1].Promedio
		}
		variacion /= float64(len(ultimos) - 1)

		proyeccion := ultimos[len(ultimos)-1].Promedio * (1 + variacion)
		resp.ProyeccionProximoMes = &proyeccion
	}
	return resp
}

func toPrecioResponse(precio *entity.HistorialPrecio) *PrecioResponse {
	return &PrecioResponse{
		ID:                     precio.ID,
		Servicio:               precio.Servicio,
		Precio:                 precio.Precio,
		FechaInicio:            precio.FechaInicio,
		FechaFin:               precio.FechaFin,
		Notas:                  precio.Notas,
		Activo:                 precio.Activo,
		Moneda:                 string(precio.Moneda),
		TipoServicio:           string(precio.TipoServicio),
		HistorialCambios:       precio.HistorialCambios,
		IncrementosProgramados: precio.IncrementosProgramados,
		CreatedAt:              utils.FormatEpoch(precio.CreatedAt),
		UpdatedAt:              utils.FormatEpoch(precio.UpdatedAt),
	}
}
