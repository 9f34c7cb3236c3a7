package analytics

import (
	"context"

	"github.com/blockbyjamez/stockroom-api/internal/domain/repository"
)

// DashboardUseCase agregados de inicio: tamaño del catálogo, stock total y
// actividad del día.
type DashboardUseCase struct {
	repo repository.DashboardRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.DashboardRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo}
}

// Summary devuelve los agregados del tablero.
func (uc *DashboardUseCase) Summary(ctx context.Context) (*repository.DashboardSummary, error) {
	_ = ctx
	return uc.repo.Summary()
}
