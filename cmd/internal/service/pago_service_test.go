package service

import (
	"testing"

	"gymadmin/cmd/internal/domain/entity"
)

func pagoMonto(monto float64, metodo entity.MetodoPago, estado entity.EstadoDePago, mes, anio int) *entity.Pago {
	return &entity.Pago{Monto: monto, MetodoPago: metodo, Estado: estado, Mes: mes, Anio: anio}
}

func TestResumenPagos(t *testing.T) {
	pagos := []*entity.Pago{
		pagoMonto(10000, entity.MetodoEfectivo, entity.PagoPagado, 1, 2024),
		pagoMonto(12000, entity.MetodoTransferencia, entity.PagoPagado, 1, 2024),
		pagoMonto(8000, entity.MetodoEfectivo, entity.PagoPendiente, 2, 2024),
	}

	resumen := resumenPagos(pagos)
	if resumen.TotalRecaudado != 30000 {
		t.Fatalf("total = %.0f, want 30000", resumen.TotalRecaudado)
	}
	if resumen.CantidadPagos != 3 {
		t.Fatalf("cantidad = %d, want 3", resumen.CantidadPagos)
	}
	if resumen.PromedioMonto != 10000 {
		t.Fatalf("promedio = %.0f, want 10000", resumen.PromedioMonto)
	}
	if resumen.PorMetodoPago["Efectivo"] != 18000 {
		t.Fatalf("efectivo = %.0f, want 18000", resumen.PorMetodoPago["Efectivo"])
	}
	if resumen.PorEstado["Pagado"] != 2 || resumen.PorEstado["Pendiente"] != 1 {
		t.Fatalf("por estado = %v", resumen.PorEstado)
	}
}

func TestResumenPagosEmpty(t *testing.T) {
	resumen := resumenPagos(nil)
	if resumen.TotalRecaudado != 0 || resumen.CantidadPagos != 0 || resumen.PromedioMonto != 0 {
		t.Fatalf("empty summary not zeroed: %+v", resumen)
	}
}

func TestEstadisticasPagosMonthKeys(t *testing.T) {
	pagos := []*entity.Pago{
		pagoMonto(10000, entity.MetodoEfectivo, entity.PagoPagado, 1, 2024),
		pagoMonto(5000, entity.MetodoEfectivo, entity.PagoPagado, 1, 2024),
		pagoMonto(9000, entity.MetodoMercadoPago, entity.PagoPagado, 11, 2024),
	}

	stats := estadisticasPagos(pagos)
	if stats.PagosPorMes["2024-01"] != 15000 {
		t.Fatalf("2024-01 = %.0f, want 15000", stats.PagosPorMes["2024-01"])
	}
	if stats.PagosPorMes["2024-11"] != 9000 {
		t.Fatalf("2024-11 = %.0f, want 9000", stats.PagosPorMes["2024-11"])
	}
	// Two distinct months: 24000 / 2.
	if stats.PromedioMensual != 12000 {
		t.Fatalf("promedio mensual = %.0f, want 12000", stats.PromedioMensual)
	}
	if stats.MontoPromedio != 8000 {
		t.Fatalf("monto promedio = %.0f, want 8000", stats.MontoPromedio)
	}
}
