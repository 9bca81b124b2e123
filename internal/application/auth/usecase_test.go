package auth

import (
	"context"
	"testing"

	"github.com/jhoicas/shipdash-api/internal/application/dto"
	"github.com/jhoicas/shipdash-api/internal/domain"
	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/jhoicas/shipdash-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const secret = "test-secret"

type memUsers map[string]*entity.User

func (m memUsers) Create(_ context.Context, u *entity.User) error { m[u.Email] = u; return nil }
func (m memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range m {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}
func (m memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return m[email], nil
}

type memClients []*entity.Client

func (m memClients) GetByID(_ context.Context, id string) (*entity.Client, error) {
	for _, c := range m {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}
func (m memClients) List(context.Context) ([]*entity.Client, error) { return m, nil }

func newUseCase(t *testing.T) *AuthUseCase {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	require.NoError(t, err)
	users := memUsers{
		"ops@3pl.test":   {ID: "u1", Email: "ops@3pl.test", PasswordHash: string(hash), Role: entity.RoleAdmin, Status: "active"},
		"ana@acme.test":  {ID: "u2", Email: "ana@acme.test", ClientID: "c1", PasswordHash: string(hash), Role: entity.RoleClient, Status: "active"},
		"old@acme.test":  {ID: "u3", Email: "old@acme.test", ClientID: "c1", PasswordHash: string(hash), Role: entity.RoleClient, Status: "inactive"},
		"lost@acme.test": {ID: "u4", Email: "lost@acme.test", PasswordHash: string(hash), Role: entity.RoleClient, Status: "active"},
	}
	clients := memClients{{ID: "c1", Name: "Acme"}, {ID: "c2", Name: "Globex"}}
	return NewAuthUseCase(users, clients, JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "shipdash"})
}

func TestLogin(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	res, err := uc.Login(ctx, dto.LoginRequest{Email: " Ana@Acme.test", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, "c1", res.User.ClientID)

	id, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, jwt.Identity{UserID: "u2", ClientID: "c1", Role: entity.RoleClient}, id)
}

func TestLogin_Rechazos(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@acme.test", Password: "nope"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ghost@acme.test", Password: "s3cret!"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "old@acme.test", Password: "s3cret!"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "lost@acme.test", Password: "s3cret!"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListClients(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	all, err := uc.ListClients(ctx, jwt.Identity{UserID: "u1", Role: entity.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := uc.ListClients(ctx, jwt.Identity{UserID: "u2", ClientID: "c1", Role: entity.RoleClient})
	require.NoError(t, err)
	assert.Equal(t, []dto.ClientDTO{{ID: "c1", Name: "Acme"}}, own)
}

func TestMe(t *testing.T) {
	uc := newUseCase(t)
	me, err := uc.Me(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, me.Role)

	_, err = uc.Me(context.Background(), "zz")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
