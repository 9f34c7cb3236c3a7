package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/blockbyjamez/stockroom-api/internal/application/audit"
	"github.com/blockbyjamez/stockroom-api/internal/domain"
	"github.com/blockbyjamez/stockroom-api/internal/domain/entity"
	"github.com/blockbyjamez/stockroom-api/pkg/jwt"
	"github.com/blockbyjamez/stockroom-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

// fakeUserRepo replica en memoria la semántica de los UPDATEs condicionales
// del adaptador PostgreSQL: canjear un código limpia el código y aplica el
// cambio en el mismo paso, y solo reporta éxito si hubo match.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User // por username
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		cp := *u
		r.users[u.Username] = &cp
	}
	return r
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) List() ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeUserRepo) UpsertPendingCode(username, email, code string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		u = &entity.User{ID: "id-" + username, Username: username, Role: entity.RoleViewer}
		r.users[username] = u
	} else if u.Provisioned() {
		return domain.ErrUsernameTaken
	}
	u.Email = email
	u.VerificationCode = code
	exp := expiresAt
	u.CodeExpiresAt = &exp
	return nil
}

func (r *fakeUserRepo) SetPendingCode(id, code string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			u.VerificationCode = code
			exp := expiresAt
			u.CodeExpiresAt = &exp
			return nil
		}
	}
	return nil
}

func (r *fakeUserRepo) RedeemForRegistration(username, email, code, passwordHash string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok || u.Email != email || u.VerificationCode == "" || u.VerificationCode != code {
		return false, nil
	}
	if u.CodeExpiresAt == nil || !now.Before(*u.CodeExpiresAt) {
		return false, nil
	}
	u.PasswordHash = passwordHash
	u.VerificationCode = ""
	u.CodeExpiresAt = nil
	return true, nil
}

func (r *fakeUserRepo) RedeemForReset(userID, passwordHash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			if u.VerificationCode == "" {
				return false, nil
			}
			u.PasswordHash = passwordHash
			u.VerificationCode = ""
			u.CodeExpiresAt = nil
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) UpdatePassword(id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			u.PasswordHash = passwordHash
		}
	}
	return nil
}

func (r *fakeUserRepo) UpdateRole(id, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			u.Role = role
		}
	}
	return nil
}

func (r *fakeUserRepo) CountAdmins() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.users {
		if u.Role == entity.RoleAdmin {
			n++
		}
	}
	return n, nil
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
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

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	testSecret = "secret-para-tests"
	testIssuer = "stockroom-api-test"
)

func newTestUseCase(repo *fakeUserRepo, mailer *fakeMailer) *UseCase {
	trail := audit.NewTrail(&fakeAuditRepo{}, logger.NewNop())
	return NewUseCase(repo, mailer, trail,
		JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: testIssuer},
		CodeConfig{
			RegisterTTL: 3 * time.Minute,
			ResetTTL:    3 * time.Minute,
			ResetToken:  5 * time.Minute,
		},
	)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func provisionedUser(t *testing.T, id, username, password, role string) *entity.User {
	t.Helper()
	return &entity.User{
		ID:           id,
		Username:     username,
		PasswordHash: hashOf(t, password),
		Email:        username + "@test.local",
		Role:         role,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_Exitoso_TokenConRol(t *testing.T) {
	repo := newFakeUserRepo(provisionedUser(t, "u1", "ana", "clave123", entity.RoleAdmin))
	uc := newTestUseCase(repo, &fakeMailer{})

	token, user, err := uc.Login(context.Background(), "ana", "clave123")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, entity.RoleAdmin, user.Role)

	claims, err := jwt.Parse(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
	assert.Equal(t, jwt.PurposeSession, claims.Purpose)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	repo := newFakeUserRepo(provisionedUser(t, "u1", "ana", "clave123", entity.RoleViewer))
	uc := newTestUseCase(repo, &fakeMailer{})

	_, _, err := uc.Login(context.Background(), "ana", "otra-clave")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistenteOSinRegistrar(t *testing.T) {
	// Cuenta provisional (solo código pendiente, sin contraseña): no puede loguear.
	exp := time.Now().Add(time.Minute)
	repo := newFakeUserRepo(&entity.User{
		ID: "u2", Username: "beto", Email: "beto@test.local",
		VerificationCode: "123456", CodeExpiresAt: &exp,
	})
	uc := newTestUseCase(repo, &fakeMailer{})

	_, _, err := uc.Login(context.Background(), "nadie", "x")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, _, err = uc.Login(context.Background(), "beto", "x")
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "una cuenta provisional no es una cuenta registrada")
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro con código de verificación
// ──────────────────────────────────────────────────────────────────────────────

func TestSendRegisterCode_PersisteCodigoConExpiracion(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeMailer{}
	uc := newTestUseCase(repo, mailer)
	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return base }

	require.NoError(t, uc.SendRegisterCode(context.Background(), "carla", "carla@test.local"))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "carla@test.local", mailer.sent[0].to)

	u, err := repo.GetByUsername("carla")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Len(t, u.VerificationCode, 6, "el código es de 6 dígitos")
	assert.Contains(t, mailer.sent[0].body, u.VerificationCode, "el correo lleva el código emitido")
	require.NotNil(t, u.CodeExpiresAt)
	assert.Equal(t, base.Add(3*time.Minute), *u.CodeExpiresAt)
	assert.False(t, u.Provisioned(), "la fila provisional no tiene contraseña")
}

func TestSendRegisterCode_UsernameYaRegistrado(t *testing.T) {
	repo := newFakeUserRepo(provisionedUser(t, "u1", "ana", "clave123", entity.RoleViewer))
	mailer := &fakeMailer{}
	uc := newTestUseCase(repo, mailer)

	err := uc.SendRegisterCode(context.Background(), "ana", "otra@test.local")
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
	assert.Empty(t, mailer.sent, "no se envía correo si el username ya está tomado")
}

func TestSendRegisterCode_FalloDeEntrega_NoPersisteNada(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeMailer{err: errors.New("smtp caído")}
	uc := newTestUseCase(repo, mailer)

	err := uc.SendRegisterCode(context.Background(), "carla", "carla@test.local")
	assert.ErrorIs(t, err, domain.ErrDeliveryFailure)

	u, _ := repo.GetByUsername("carla")
	assert.Nil(t, u, "si el correo no sale, no debe quedar código pendiente")
}

func TestSendRegisterCode_ReemplazaCodigoAnterior(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeMailer{}
	uc := newTestUseCase(repo, mailer)

	require.NoError(t, uc.SendRegisterCode(context.Background(), "carla", "carla@test.local"))
	first, _ := repo.GetByUsername("carla")
	require.NoError(t, uc.SendRegisterCode(context.Background(), "carla", "carla@test.local"))
	second, _ := repo.GetByUsername("carla")

	// last-write-wins: el primero deja de valer en cuanto se emite el segundo
	if first.VerificationCode != second.VerificationCode {
		ok, err := repo.RedeemForRegistration("carla", "carla@test.local", first.VerificationCode, "hash", time.Now())
		require.NoError(t, err)
		assert.False(t, ok, "el código reemplazado no debe poder canjearse")
	}
	ok, err := repo.RedeemForRegistration("carla", "carla@test.local", second.VerificationCode, "hash", time.Now())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegister_CanjeaCodigoUnaSolaVez(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeMailer{}
	uc := newTestUseCase(repo, mailer)

	require.NoError(t, uc.SendRegisterCode(context.Background(), "carla", "carla@test.local"))
	pending, _ := repo.GetByUsername("carla")
	code := pending.VerificationCode

	require.NoError(t, uc.Register(context.Background(), "carla", "clave-nueva", "carla@test.local", code))

	u, _ := repo.GetByUsername("carla")
	assert.True(t, u.Provisioned())
	assert.Empty(t, u.VerificationCode, "el canje limpia el código")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("clave-nueva")))

	// Segundo canje con el mismo código: ya no existe
	err := uc.Register(context.Background(), "carla", "otra", "carla@test.local", code)
	assert.ErrorIs(t, err, domain.ErrCodeMismatchOrExpired)
}

func TestRegister_CodigoIncorrectoOExpirado(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeMailer{}
	uc := newTestUseCase(repo, mailer)
	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return base }

	require.NoError(t, uc.SendRegisterCode(context.Background(), "carla", "carla@test.local"))
	pending, _ := repo.GetByUsername("carla")

	err := uc.Register(context.Background(), "carla", "clave", "carla@test.local", "000000")
	assert.ErrorIs(t, err, domain.ErrCodeMismatchOrExpired, "código incorrecto")

	// Exactamente en el instante de expiración el código ya no vale
	uc.now = func() time.Time { return base.Add(3 * time.Minute) }
	err = uc.Register(context.Background(), "carla", "clave", "carla@test.local", pending.VerificationCode)
	assert.ErrorIs(t, err, domain.ErrCodeMismatchOrExpired, "código expirado")
}

// ──────────────────────────────────────────────────────────────────────────────
// Recuperación de contraseña
// ──────────────────────────────────────────────────────────────────────────────

func TestForgotPassword_EnviaCodigoAlCorreoRegistrado(t *testing.T) {
	user := provisionedUser(t, "u1", "ana", "clave123", entity.RoleViewer)
	repo := newFakeUserRepo(user)
	mailer := &fakeMailer{}
	uc := newTestUseCase(repo, mailer)

	require.NoError(t, uc.ForgotPassword(context.Background(), "ana"))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, user.Email, mailer.sent[0].to, "el código va al correo registrado, no a uno del request")

	u, _ := repo.GetByUsername("ana")
	assert.NotEmpty(t, u.VerificationCode)
}

func TestForgotPassword_UsuarioInexistente(t *testing.T) {
	uc := newTestUseCase(newFakeUserRepo(), &fakeMailer{})
	err := uc.ForgotPassword(context.Background(), "nadie")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestForgotPassword_FalloDeEntrega_NoPersisteCodigo(t *testing.T) {
	repo := newFakeUserRepo(provisionedUser(t, "u1", "ana", "clave123", entity.RoleViewer))
	uc := newTestUseCase(repo, &fakeMailer{err: errors.New("smtp caído")})

	err := uc.ForgotPassword(context.Background(), "ana")
	assert.ErrorIs(t, err, domain.ErrDeliveryFailure)

	u, _ := repo.GetByUsername("ana")
	assert.Empty(t, u.VerificationCode)
}

func TestVerifyCode_DevuelveTokenDeReseteoSinConsumirElCodigo(t *testing.T) {
	repo := newFakeUserRepo(provisionedUser(t, "u1", "ana", "clave123", entity.RoleViewer))
	uc := newTestUseCase(repo, &fakeMailer{})

	require.NoError(t, uc.ForgotPassword(context.Background(), "ana"))
	u, _ := repo.GetByUsername("ana")

	token, err := uc.VerifyCode(context.Background(), "ana", u.VerificationCode)
	require.NoError(t, err)

	claims, err := jwt.Parse(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, jwt.PurposePasswordReset, claims.Purpose)
	assert.Equal(t, "u1", claims.UserID, "el token queda ligado a la cuenta verificada")

	// Verificar no consume: una segunda verificación sigue funcionando
	_, err = uc.VerifyCode(context.Background(), "ana", u.VerificationCode)
	assert.NoError(t, err)
}

func TestVerifyCode_ExpiradoJustoEnElLimite(t *testing.T) {
	repo := newFakeUserRepo(provisionedUser(t, "u1", "ana", "clave123", entity.RoleViewer))
	uc := newTestUseCase(repo, &fakeMailer{})
	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return base }

	require.NoError(t, uc.ForgotPassword(context.Background(), "ana"))
	u, _ := repo.GetByUsername("ana")

	// Un instante antes del límite: válido
	uc.now = func() time.Time { return base.Add(3*time.Minute - time.Second) }
	_, err := uc.VerifyCode(context.Background(), "ana", u.VerificationCode)
	assert.NoError(t, err)

	// En el instante exacto de expiración: inválido
	uc.now = func() time.Time { return base.Add(3 * time.Minute) }
	_, err = uc.VerifyCode(context.Background(), "ana", u.VerificationCode)
	assert.ErrorIs(t, err, domain.ErrCodeMismatchOrExpired)
}

func TestVerifyCode_CodigoIncorrecto(t *testing.T) {
	repo := newFakeUserRepo(provisionedUser(t, "u1", "ana", "clave123", entity.RoleViewer))
	uc := newTestUseCase(repo, &fakeMailer{})

	require.NoError(t, uc.ForgotPassword(context.Background(), "ana"))

	_, err := uc.VerifyCode(context.Background(), "ana", "000000")
	assert.ErrorIs(t, err, domain.ErrCodeMismatchOrExpired)
}

func TestResetPassword_FlujoCompletoYTokenDeUnSoloUso(t *testing.T) {
	repo := newFakeUserRepo(provisionedUser(t, "u1", "ana", "clave123", entity.RoleViewer))
	uc := newTestUseCase(repo, &fakeMailer{})

	require.NoError(t, uc.ForgotPassword(context.Background(), "ana"))
	u, _ := repo.GetByUsername("ana")
	token, err := uc.VerifyCode(context.Background(), "ana", u.VerificationCode)
	require.NoError(t, err)

	require.NoError(t, uc.ResetPassword(context.Background(), token, "clave-nueva"))

	after, _ := repo.GetByUsername("ana")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(after.PasswordHash), []byte("clave-nueva")))
	assert.Empty(t, after.VerificationCode, "el reseteo limpia el código pendiente")

	// Reusar el token tras el primer reseteo: ya no hay código pendiente
	err = uc.ResetPassword(context.Background(), token, "tercera-clave")
	assert.ErrorIs(t, err, domain.ErrCodeMismatchOrExpired)
}

func TestResetPassword_RechazaTokenDeSesion(t *testing.T) {
	repo := newFakeUserRepo(provisionedUser(t, "u1", "ana", "clave123", entity.RoleViewer))
	uc := newTestUseCase(repo, &fakeMailer{})

	sessionToken, _, err := uc.Login(context.Background(), "ana", "clave123")
	require.NoError(t, err)

	err = uc.ResetPassword(context.Background(), sessionToken, "clave-nueva")
	assert.ErrorIs(t, err, domain.ErrCodeMismatchOrExpired,
		"un token de sesión no sirve para resetear contraseña")
}

// ──────────────────────────────────────────────────────────────────────────────
// Cambio de contraseña autenticado
// ──────────────────────────────────────────────────────────────────────────────

func TestChangePassword_VerificaLaAnterior(t *testing.T) {
	repo := newFakeUserRepo(provisionedUser(t, "u1", "ana", "clave123", entity.RoleViewer))
	uc := newTestUseCase(repo, &fakeMailer{})

	err := uc.ChangePassword(context.Background(), "ana", "incorrecta", "nueva")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, uc.ChangePassword(context.Background(), "ana", "clave123", "nueva"))
	u, _ := repo.GetByUsername("ana")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("nueva")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Generación de códigos
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerateCode_SeisDigitos(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}
