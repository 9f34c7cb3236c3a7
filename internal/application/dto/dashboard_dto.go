package dto

// DashboardSummaryResponse agregados del tablero de inicio.
type DashboardSummaryResponse struct {
	ProductCount  int `json:"productCount"`
	TotalStock    int `json:"totalStock"`
	TodayTxnCount int `json:"todayTxnCount"`
	TodayStockIn  int `json:"todayStockIn"`
	TodayStockOut int `json:"todayStockOut"`
}
