package main

import (
	"net/http"
	"os"

	"gymadmin/cmd/internal/domain/sqlite"
	"gymadmin/cmd/internal/domain/sqlite/repository"
	authmw "gymadmin/cmd/internal/middleware"
	"gymadmin/cmd/internal/routes"
	"gymadmin/cmd/internal/service"
	"gymadmin/cmd/internal/utils/validators"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func main() {
	validate := validator.New()
	registerValidators(validate)

	if err := godotenv.Load(); err != nil {
		log.Warnf("no .env file loaded: %v", err)
	}

	jwtSecret := os.Getenv("GYMADMIN_JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("GYMADMIN_JWT_SECRET is not set")
	}

	dbPath := os.Getenv("GYMADMIN_DB")
	if dbPath == "" {
		dbPath = "gymadmin.db"
	}

	// Init SQLite
	db, err := sqlite.Init(dbPath)
	if err != nil {
		log.Fatal("failed to initialize database", err)
	}

	// Getting repositories
	alumnoRepo := repository.NewAlumnoRepository(db)
	citaRepo := repository.NewCitaRepository(db)
	asistenciaRepo := repository.NewAsistenciaRepository(db)
	pagoRepo := repository.NewPagoRepository(db)
	notaRepo := repository.NewNotaRepository(db)
	precioRepo := repository.NewPrecioRepository(db)
	turnoRepo := repository.NewTurnoRepository(db)
	usuarioRepo := repository.NewUsuarioRepository(db)

	// Getting services
	alumnoService := service.NewAlumnoService(alumnoRepo, validate)
	citaService := service.NewCitaService(citaRepo, validate)
	asistenciaService := service.NewAsistenciaService(asistenciaRepo, alumnoService, validate)
	pagoService := service.NewPagoService(pagoRepo, validate)
	notaService := service.NewNotaService(notaRepo, validate)
	precioService := service.NewPrecioService(precioRepo, validate)
	turnoService := service.NewTurnoService(turnoRepo, validate)
	alertaService := service.NewAlertaService(alumnoRepo)
	reportService := service.NewReportService(alumnoRepo, asistenciaRepo, pagoRepo)
	usuarioService := service.NewUsuarioService(usuarioRepo, validate, jwtSecret)

	// Getting routes
	alumnoRoutes := routes.NewAlumnoDefault(alumnoService)
	citaRoutes := routes.NewCitaDefault(citaService)
	asistenciaRoutes := routes.NewAsistenciaDefault(asistenciaService)
	pagoRoutes := routes.NewPagoDefault(pagoService)
	notaRoutes := routes.NewNotaDefault(notaService)
	precioRoutes := routes.NewPrecioDefault(precioService)
	turnoRoutes := routes.NewTurnoDefault(turnoService)
	reporteRoutes := routes.NewReporteDefault(reportService, alertaService)
	usuarioRoutes := routes.NewUsuarioDefault(usuarioService)

	e := echo.New()
	e.Use(middleware.CORS())

	e.GET("/api/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	// Auth (public)
	e.POST("/api/usuarios/register", usuarioRoutes.Register)
	e.POST("/api/usuarios/login", usuarioRoutes.Login)

	api := e.Group("/api", authmw.JWTAuth(jwtSecret))

	api.GET("/usuarios/@me", usuarioRoutes.GetMe)

	// Alumnos
	api.GET("/alumnos", alumnoRoutes.GetAlumnos)
	api.GET("/alumnos/:id", alumnoRoutes.GetAlumno)
	api.POST("/alumnos", alumnoRoutes.CreateAlumno)
	api.PUT("/alumnos/:id", alumnoRoutes.UpdateAlumno)
	api.DELETE("/alumnos/:id", alumnoRoutes.DeleteAlumno)
	api.PATCH("/alumnos/:id/estado-pago", alumnoRoutes.UpdateEstadoPago)
	api.POST("/alumnos/:id/reset-racha", alumnoRoutes.ResetRacha)

	// Citas
	api.GET("/citas", citaRoutes.GetCitas)
	api.GET("/citas/availability", citaRoutes.GetAvailability)
	api.GET("/citas/conflicts", citaRoutes.GetConflicts)
	api.GET("/citas/stats", citaRoutes.GetStats)
	api.GET("/citas/export", citaRoutes.ExportCitas)
	api.GET("/citas/:id", citaRoutes.GetCita)
	api.POST("/citas", citaRoutes.CreateCita)
	api.PUT("/citas/:id", citaRoutes.UpdateCita)
	api.DELETE("/citas/:id", citaRoutes.DeleteCita)

	// Asistencias
	api.GET("/asistencias", asistenciaRoutes.GetAsistencias)
	api.GET("/asistencias/estadisticas", asistenciaRoutes.GetEstadisticas)
	api.POST("/asistencias", asistenciaRoutes.CreateAsistencia)
	api.PUT("/asistencias/:id", asistenciaRoutes.UpdateAsistencia)
	api.DELETE("/asistencias/:id", asistenciaRoutes.DeleteAsistencia)

	// Pagos
	api.GET("/pagos", pagoRoutes.GetPagos)
	api.GET("/pagos/resumen", pagoRoutes.GetResumen)
	api.GET("/pagos/estadisticas", pagoRoutes.GetEstadisticas)
	api.POST("/pagos", pagoRoutes.CreatePago)
	api.POST("/pagos/bulk", pagoRoutes.CreatePagosBulk)
	api.PUT("/pagos/:id", pagoRoutes.UpdatePago)
	api.DELETE("/pagos/:id", pagoRoutes.DeletePago)

	// Notas
	api.GET("/notas", notaRoutes.GetNotas)
	api.GET("/notas/periodo", notaRoutes.GetNotasPorPeriodo)
	api.GET("/notas/estadisticas", notaRoutes.GetEstadisticas)
	api.GET("/notas/:id", notaRoutes.GetNota)
	api.POST("/notas", notaRoutes.CreateNota)
	api.PUT("/notas/:id", notaRoutes.UpdateNota)
	api.DELETE("/notas/:id", notaRoutes.DeleteNota)

	// Historial de precios
	api.GET("/precios", precioRoutes.GetHistorial)
	api.GET("/precios/vigente", precioRoutes.GetVigente)
	api.GET("/precios/tendencia", precioRoutes.GetTendencia)
	api.POST("/precios", precioRoutes.CreatePrecio)
	api.POST("/precios/incrementos/verificar", precioRoutes.VerificarIncrementos)
	api.PUT("/precios/:id", precioRoutes.UpdatePrecio)
	api.DELETE("/precios/:id", precioRoutes.DeletePrecio)

	// Turnos
	api.GET("/turnos", turnoRoutes.GetTurnos)
	api.GET("/turnos/:id", turnoRoutes.GetTurno)
	api.POST("/turnos", turnoRoutes.CreateTurno)
	api.PUT("/turnos/:id", turnoRoutes.UpdateTurno)
	api.DELETE("/turnos/:id", turnoRoutes.DeleteTurno)

	// Reportes y alertas
	api.GET("/reportes/dashboard", reporteRoutes.GetDashboard)
	api.GET("/reportes/asistencias", reporteRoutes.GetTendenciaAsistencias)
	api.GET("/reportes/ingresos", reporteRoutes.GetTendenciaIngresos)
	api.GET("/reportes/estado-alumnos", reporteRoutes.GetEstadoAlumnos)
	api.GET("/reportes/alertas", reporteRoutes.GetAlertas)

	addr := os.Getenv("GYMADMIN_ADDR")
	if addr == "" {
		addr = ":6060"
	}
	if err := e.Start(addr); err != nil {
		e.Logger.Fatal(err)
	}
}

func registerValidators(validate *validator.Validate) {
	_ = validate.RegisterValidation("hasupper", validators.HasUpper)
	_ = validate.RegisterValidation("haslower", validators.HasLower)
	_ = validate.RegisterValidation("hasdigit", validators.HasDigit)
	_ = validate.RegisterValidation("hasspecial", validators.HasSpecial)
	_ = validate.RegisterValidation("dateonly", validators.IsDateOnly)
	_ = validate.RegisterValidation("clocktime", validators.IsClockTime)
}
