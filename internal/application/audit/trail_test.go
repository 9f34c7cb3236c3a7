package audit_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockbyjamez/stockroom-api/internal/application/audit"
	"github.com/blockbyjamez/stockroom-api/internal/domain/entity"
	"github.com/blockbyjamez/stockroom-api/pkg/logger"
)

type fakeAuditRepo struct {
	entries   []*entity.AuditEntry
	insertErr error
	lastLimit int
}

func (r *fakeAuditRepo) Insert(e *entity.AuditEntry) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeAuditRepo) List(limit int) ([]*entity.AuditEntry, error) {
	r.lastLimit = limit
	return r.entries, nil
}

func TestAppend_SerializaDetalles(t *testing.T) {
	repo := &fakeAuditRepo{}
	trail := audit.NewTrail(repo, logger.NewNop())

	err := trail.Append("ana", "add_product", map[string]any{"id": "p1", "name": "Tornillos"})
	require.NoError(t, err)

	require.Len(t, repo.entries, 1)
	e := repo.entries[0]
	assert.Equal(t, "ana", e.Username)
	assert.Equal(t, "add_product", e.Action)
	assert.JSONEq(t, `{"id":"p1","name":"Tornillos"}`, string(e.Details))
}

func TestAppend_SinDetalles(t *testing.T) {
	repo := &fakeAuditRepo{}
	trail := audit.NewTrail(repo, logger.NewNop())

	require.NoError(t, trail.Append("ana", "login_success", nil))
	require.Len(t, repo.entries, 1)
	assert.Nil(t, repo.entries[0].Details)
}

// Record es best-effort: un fallo de persistencia no se propaga nunca.
func TestRecord_TragaElFallo(t *testing.T) {
	repo := &fakeAuditRepo{insertErr: errors.New("db caída")}
	trail := audit.NewTrail(repo, logger.NewNop())

	assert.NotPanics(t, func() {
		trail.Record("ana", "add_product", map[string]any{"id": "p1"})
	})
	assert.Empty(t, repo.entries)
}

func TestList_LimiteDefensivo(t *testing.T) {
	repo := &fakeAuditRepo{}
	trail := audit.NewTrail(repo, logger.NewNop())

	_, err := trail.List(0)
	require.NoError(t, err)
	assert.Equal(t, 100, repo.lastLimit, "limit no positivo cae al valor por defecto")

	_, err = trail.List(9999)
	require.NoError(t, err)
	assert.Equal(t, 100, repo.lastLimit, "limit excesivo cae al valor por defecto")

	_, err = trail.List(25)
	require.NoError(t, err)
	assert.Equal(t, 25, repo.lastLimit)
}
