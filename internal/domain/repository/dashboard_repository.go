package repository

// DashboardSummary agregados para el tablero de inicio.
type DashboardSummary struct {
	ProductCount  int
	TotalStock    int
	TodayTxnCount int
	TodayStockIn  int
	TodayStockOut int
}

// DashboardRepository puerto de lectura para estadísticas agregadas.
type DashboardRepository interface {
	Summary() (*DashboardSummary, error)
}
