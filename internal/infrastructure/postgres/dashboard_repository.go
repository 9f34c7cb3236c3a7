package postgres

import (
	"context"
	"fmt"

	"github.com/blockbyjamez/stockroom-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo lecturas agregadas para el tablero de inicio.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador de estadísticas.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// Summary calcula los agregados en una sola consulta.
func (r *DashboardRepo) Summary() (*repository.DashboardSummary, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COALESCE(SUM(stock), 0) FROM products),
			(SELECT COUNT(*) FROM transactions WHERE DATE(timestamp) = CURRENT_DATE),
			(SELECT COALESCE(SUM(quantity), 0) FROM transactions WHERE type = 'in'  AND DATE(timestamp) = CURRENT_DATE),
			(SELECT COALESCE(SUM(quantity), 0) FROM transactions WHERE type = 'out' AND DATE(timestamp) = CURRENT_DATE)`
	var s repository.DashboardSummary
	err := r.q.QueryRow(context.Background(), query).Scan(
		&s.ProductCount, &s.TotalStock, &s.TodayTxnCount, &s.TodayStockIn, &s.TodayStockOut,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard summary: %w", err)
	}
	return &s, nil
}
