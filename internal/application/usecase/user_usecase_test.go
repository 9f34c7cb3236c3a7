package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockbyjamez/stockroom-api/internal/application/audit"
	"github.com/blockbyjamez/stockroom-api/internal/application/usecase"
	"github.com/blockbyjamez/stockroom-api/internal/domain"
	"github.com/blockbyjamez/stockroom-api/internal/domain/entity"
	"github.com/blockbyjamez/stockroom-api/pkg/logger"
)

type fakeUserRepo struct {
	users map[string]*entity.User // por id
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		cp := *u
		r.users[u.ID] = &cp
	}
	return r
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) List() ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeUserRepo) UpsertPendingCode(username, email, code string, expiresAt time.Time) error {
	return nil
}

func (r *fakeUserRepo) SetPendingCode(id, code string, expiresAt time.Time) error { return nil }

func (r *fakeUserRepo) RedeemForRegistration(username, email, code, passwordHash string, now time.Time) (bool, error) {
	return false, nil
}

func (r *fakeUserRepo) RedeemForReset(userID, passwordHash string) (bool, error) { return false, nil }

func (r *fakeUserRepo) UpdatePassword(id, passwordHash string) error { return nil }

func (r *fakeUserRepo) UpdateRole(id, role string) error {
	if u, ok := r.users[id]; ok {
		u.Role = role
	}
	return nil
}

func (r *fakeUserRepo) CountAdmins() (int, error) {
	n := 0
	for _, u := range r.users {
		if u.Role == entity.RoleAdmin {
			n++
		}
	}
	return n, nil
}

type fakeAuditRepo struct {
	entries []*entity.AuditEntry
}

func (r *fakeAuditRepo) Insert(e *entity.AuditEntry) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeAuditRepo) List(limit int) ([]*entity.AuditEntry, error) {
	return r.entries, nil
}

func newUserUC(repo *fakeUserRepo) *usecase.UserUseCase {
	trail := audit.NewTrail(&fakeAuditRepo{}, logger.NewNop())
	return usecase.NewUserUseCase(repo, trail)
}

func TestUpdateRole_PromueveViewerAAdmin(t *testing.T) {
	repo := newFakeUserRepo(
		&entity.User{ID: "a1", Username: "ana", Role: entity.RoleAdmin},
		&entity.User{ID: "v1", Username: "beto", Role: entity.RoleViewer},
	)
	uc := newUserUC(repo)

	require.NoError(t, uc.UpdateRole(context.Background(), "ana", "v1", entity.RoleAdmin))
	assert.Equal(t, entity.RoleAdmin, repo.users["v1"].Role)
}

func TestUpdateRole_RolInvalido(t *testing.T) {
	repo := newFakeUserRepo(&entity.User{ID: "v1", Username: "beto", Role: entity.RoleViewer})
	uc := newUserUC(repo)

	err := uc.UpdateRole(context.Background(), "ana", "v1", "superuser")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateRole_UsuarioInexistente(t *testing.T) {
	uc := newUserUC(newFakeUserRepo())
	err := uc.UpdateRole(context.Background(), "ana", "no-existe", entity.RoleViewer)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// Nadie puede quitarse su propio rol de admin: quedaría fuera de la
// administración que está usando.
func TestUpdateRole_AutoDegradacionBloqueada(t *testing.T) {
	repo := newFakeUserRepo(
		&entity.User{ID: "a1", Username: "ana", Role: entity.RoleAdmin},
		&entity.User{ID: "a2", Username: "carla", Role: entity.RoleAdmin},
	)
	uc := newUserUC(repo)

	err := uc.UpdateRole(context.Background(), "ana", "a1", entity.RoleViewer)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, entity.RoleAdmin, repo.users["a1"].Role)
}

// Siempre debe quedar al menos un admin en el sistema.
func TestUpdateRole_UltimoAdminBloqueado(t *testing.T) {
	repo := newFakeUserRepo(
		&entity.User{ID: "a1", Username: "ana", Role: entity.RoleAdmin},
		&entity.User{ID: "v1", Username: "beto", Role: entity.RoleViewer},
	)
	uc := newUserUC(repo)

	err := uc.UpdateRole(context.Background(), "carla", "a1", entity.RoleViewer)
	assert.ErrorIs(t, err, domain.ErrLastAdmin)
	assert.Equal(t, entity.RoleAdmin, repo.users["a1"].Role)
}

// Con dos admins, degradar a uno (que no es el actor) sí procede.
func TestUpdateRole_DegradaAdminCuandoHayOtro(t *testing.T) {
	repo := newFakeUserRepo(
		&entity.User{ID: "a1", Username: "ana", Role: entity.RoleAdmin},
		&entity.User{ID: "a2", Username: "carla", Role: entity.RoleAdmin},
	)
	uc := newUserUC(repo)

	require.NoError(t, uc.UpdateRole(context.Background(), "ana", "a2", entity.RoleViewer))
	assert.Equal(t, entity.RoleViewer, repo.users["a2"].Role)
}
