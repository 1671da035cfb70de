package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"promptifyr/config"
	"promptifyr/internal/apperror"
	"promptifyr/internal/dto"
	"promptifyr/internal/model"
)

type fakeUserRepo struct {
	nextID uint
	users  map[uint]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*model.User{}}
}

func (f *fakeUserRepo) Create(user *model.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.JoinedAt = time.Now()
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) FindByID(id uint) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *user
	return &found, nil
}

func (f *fakeUserRepo) FindByIDWithProgress(id uint) (*model.User, error) {
	return f.FindByID(id)
}

func (f *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			found := *user
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) TouchLastActive(id uint) error {
	if user, ok := f.users[id]; ok {
		user.LastActive = time.Now()
	}
	return nil
}

func (f *fakeUserRepo) Leaderboard(limit int) ([]model.User, error) {
	var out []model.User
	for _, user := range f.users {
		out = append(out, *user)
	}
	return out, nil
}

func testAuthConfig() *config.Config {
	return &config.Config{
		Auth: config.Auth{JWTSecret: "test-secret", TokenTTLHrs: 1},
	}
}

func TestRegisterIssuesVerifiableToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testAuthConfig())

	resp, err := svc.Register(&dto.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Alice", resp.User.Name)
	assert.Equal(t, 1, resp.User.Level)

	userID, err := svc.VerifyToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testAuthConfig())

	resp, err := svc.Register(&dto.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "hunter22"})
	require.NoError(t, err)

	stored := repo.users[resp.User.ID]
	assert.NotEqual(t, "hunter22", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("hunter22")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testAuthConfig())

	_, err := svc.Register(&dto.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.Register(&dto.RegisterRequest{Name: "Imposter", Email: "alice@example.com", Password: "password"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testAuthConfig())
	_, err := svc.Register(&dto.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "hunter22"})
	require.NoError(t, err)

	resp, err := svc.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = svc.Login(&dto.LoginRequest{Email: "nobody@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestVerifyTokenRejectsGarbageAndWrongSecret(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testAuthConfig())

	_, err := svc.VerifyToken("not-a-token")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	otherCfg := testAuthConfig()
	otherCfg.Auth.JWTSecret = "different-secret"
	otherSvc := NewAuthService(repo, otherCfg)
	resp, err := otherSvc.Register(&dto.RegisterRequest{Name: "Bob", Email: "bob@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = svc.VerifyToken(resp.Token)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}
