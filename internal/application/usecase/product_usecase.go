package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/blockbyjamez/stockroom-api/internal/application/audit"
	"github.com/blockbyjamez/stockroom-api/internal/domain"
	"github.com/blockbyjamez/stockroom-api/internal/domain/entity"
	"github.com/blockbyjamez/stockroom-api/internal/domain/repository"
)

// ProductUseCase CRUD de catálogo. El stock inicial se fija al crear; después
// solo cambia a través del ledger de movimientos, nunca por Update.
type ProductUseCase struct {
	repo  repository.ProductRepository
	trail *audit.Trail
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, trail *audit.Trail) *ProductUseCase {
	return &ProductUseCase{repo: repo, trail: trail}
}

// Create crea un producto con su stock inicial.
func (uc *ProductUseCase) Create(ctx context.Context, p *entity.Product, operator string) (*entity.Product, error) {
	_ = ctx
	if p.Name == "" || p.Stock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if err := uc.repo.Create(p); err != nil {
		return nil, err
	}
	uc.trail.Record(operator, "add_product", map[string]any{"id": p.ID, "name": p.Name})
	return p, nil
}

// GetByID obtiene un producto.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	_ = ctx
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// List lista el catálogo completo.
func (uc *ProductUseCase) List(ctx context.Context) ([]*entity.Product, error) {
	_ = ctx
	return uc.repo.List()
}

// Update actualiza los campos de catálogo (no el stock).
func (uc *ProductUseCase) Update(ctx context.Context, p *entity.Product, operator string) (*entity.Product, error) {
	_ = ctx
	if p.ID == "" || p.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByID(p.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	// El stock vigente se preserva siempre: los ajustes van por el ledger.
	p.Stock = existing.Stock
	if err := uc.repo.Update(p); err != nil {
		return nil, err
	}
	uc.trail.Record(operator, "update_product", map[string]any{
		"id": p.ID, "name": p.Name, "price": p.Price, "category": p.Category,
	})
	return p, nil
}

// Delete elimina un producto del catálogo.
func (uc *ProductUseCase) Delete(ctx context.Context, id, operator string) error {
	_ = ctx
	existing, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(id); err != nil {
		return err
	}
	uc.trail.Record(operator, "delete_product", map[string]any{"id": id})
	return nil
}
