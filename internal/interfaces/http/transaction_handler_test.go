package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockbyjamez/stockroom-api/internal/application/audit"
	"github.com/blockbyjamez/stockroom-api/internal/application/inventory"
	"github.com/blockbyjamez/stockroom-api/internal/domain/entity"
	"github.com/blockbyjamez/stockroom-api/internal/domain/repository"
	apphttp "github.com/blockbyjamez/stockroom-api/internal/interfaces/http"
	"github.com/blockbyjamez/stockroom-api/pkg/logger"
)

// Fakes mínimos para ejercitar el mapeo de errores de dominio a códigos HTTP
// del handler de movimientos. La semántica transaccional fina se cubre en los
// tests del caso de uso; aquí solo importan el status y el cuerpo de error.

type stubProductRepo struct {
	products map[string]*entity.Product
}

func (r *stubProductRepo) Create(p *entity.Product) error { return nil }

func (r *stubProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) List() ([]*entity.Product, error) { return nil, nil }
func (r *stubProductRepo) Update(p *entity.Product) error   { return nil }
func (r *stubProductRepo) Delete(id string) error           { return nil }

func (r *stubProductRepo) UpdateStock(id string, stock int) error {
	if p, ok := r.products[id]; ok {
		p.Stock = stock
	}
	return nil
}

func (r *stubProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.GetByID(id) }

type stubMovementRepo struct {
	created []*entity.StockMovement
}

func (r *stubMovementRepo) Create(m *entity.StockMovement) error {
	r.created = append(r.created, m)
	return nil
}

func (r *stubMovementRepo) ListWithProduct() ([]*entity.StockMovement, error) {
	return r.created, nil
}

type stubTxRunner struct {
	products  *stubProductRepo
	movements *stubMovementRepo
}

func (r *stubTxRunner) Run(ctx context.Context, fn func(
	products repository.ProductRepository,
	movements repository.MovementRepository,
) error) error {
	return fn(r.products, r.movements)
}

type stubAuditRepo struct{}

func (r *stubAuditRepo) Insert(e *entity.AuditEntry) error { return nil }

func (r *stubAuditRepo) List(limit int) ([]*entity.AuditEntry, error) { return nil, nil }

func buildTransactionApp(products ...*entity.Product) *fiber.App {
	productRepo := &stubProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		cp := *p
		productRepo.products[p.ID] = &cp
	}
	movementRepo := &stubMovementRepo{}
	trail := audit.NewTrail(&stubAuditRepo{}, logger.NewNop())
	uc := inventory.NewLedgerUseCase(
		&stubTxRunner{products: productRepo, movements: movementRepo},
		movementRepo, trail,
	)
	handler := apphttp.NewTransactionHandler(uc)

	app := fiber.New()
	app.Post("/api/transactions", handler.Create)
	return app
}

func postTransaction(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestTransactionCreate_Retorna201ConID(t *testing.T) {
	app := buildTransactionApp(&entity.Product{ID: "p1", Name: "Tornillos", Stock: 10})

	resp := postTransaction(t, app, `{"product_id":"p1","type":"out","quantity":4}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["transaction_id"])
}

func TestTransactionCreate_StockInsuficiente_Retorna400(t *testing.T) {
	app := buildTransactionApp(&entity.Product{ID: "p1", Name: "Tornillos", Stock: 3})

	resp := postTransaction(t, app, `{"product_id":"p1","type":"out","quantity":4}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
}

func TestTransactionCreate_ProductoInexistente_Retorna404(t *testing.T) {
	app := buildTransactionApp()

	resp := postTransaction(t, app, `{"product_id":"no-existe","type":"in","quantity":1}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTransactionCreate_EntradaInvalida_Retorna400(t *testing.T) {
	app := buildTransactionApp(&entity.Product{ID: "p1", Name: "Tornillos", Stock: 10})

	cases := []struct {
		name string
		body string
	}{
		{"cantidad cero", `{"product_id":"p1","type":"in","quantity":0}`},
		{"cantidad negativa", `{"product_id":"p1","type":"out","quantity":-2}`},
		{"tipo desconocido", `{"product_id":"p1","type":"ajuste","quantity":1}`},
		{"sin producto", `{"type":"in","quantity":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postTransaction(t, app, tc.body)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, "VALIDATION", body["code"])
		})
	}
}
