package users

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trajefino/api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	users     map[int64]*domain.User
	nextID    int64
	createErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{users: make(map[int64]*domain.User), nextID: 1}
}

func (m *mockRepository) Create(_ context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.UserName == user.UserName {
			return ErrUserNameExists
		}
	}
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	return nil
}

func (m *mockRepository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := m.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) GetByUserName(_ context.Context, userName string) (*domain.User, error) {
	for _, u := range m.users {
		if u.UserName == userName {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) ExistsByUserName(_ context.Context, userName string) (bool, error) {
	for _, u := range m.users {
		if u.UserName == userName {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepository) List(_ context.Context) ([]domain.User, error) {
	list := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		list = append(list, *u)
	}
	return list, nil
}

func (m *mockRepository) Update(_ context.Context, user *domain.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func TestRegister_DefaultsRoleAndHashesPassword(t *testing.T) {
	// Arrange
	repo := newMockRepository()
	service := NewService(repo)

	// Act
	user, err := service.Register(context.Background(), CreateUserInput{
		UserName: "bob",
		FullName: "Bob Silva",
		Password: "secret123",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.True(t, user.Enabled)
	assert.NotEqual(t, "secret123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")))
}

func TestRegister_DuplicateUserName(t *testing.T) {
	// Arrange
	repo := newMockRepository()
	service := NewService(repo)

	first, err := service.Register(context.Background(), CreateUserInput{
		UserName: "bob",
		FullName: "Bob Silva",
		Password: "secret123",
	})
	require.NoError(t, err)

	// Act
	second, err := service.Register(context.Background(), CreateUserInput{
		UserName: "bob",
		FullName: "Another Bob",
		Password: "other456",
	})

	// Assert: second call fails, first account untouched
	assert.Nil(t, second)
	assert.ErrorIs(t, err, ErrUserNameExists)

	stored, err := repo.GetByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob Silva", stored.FullName)
}

func TestRegister_RequiredFields(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	_, err := service.Register(context.Background(), CreateUserInput{
		FullName: "Bob Silva",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrUserNameRequired)

	_, err = service.Register(context.Background(), CreateUserInput{
		UserName: "bob",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrFullNameRequired)

	_, err = service.Register(context.Background(), CreateUserInput{
		UserName: "bob",
		FullName: "Bob Silva",
		Password: "   ",
	})
	assert.ErrorIs(t, err, ErrPasswordRequired)
}

func TestRegister_RejectsUnknownRole(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	_, err := service.Register(context.Background(), CreateUserInput{
		UserName: "bob",
		FullName: "Bob Silva",
		Password: "secret123",
		Role:     domain.Role("ROLE_USER"),
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestPartialUpdate_OmittedFieldsKeepValues(t *testing.T) {
	// Arrange
	repo := newMockRepository()
	service := NewService(repo)

	user, err := service.Register(context.Background(), CreateUserInput{
		UserName:  "bob",
		FullName:  "Bob Silva",
		Password:  "secret123",
		BirthDate: "1990-05-01",
	})
	require.NoError(t, err)

	// Act: only fullName provided
	newName := "Roberto Silva"
	updated, err := service.PartialUpdate(context.Background(), user.ID, UpdateUserInput{
		FullName: &newName,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Roberto Silva", updated.FullName)
	assert.Equal(t, "bob", updated.UserName)
	assert.Equal(t, "1990-05-01", updated.BirthDate)
	assert.Equal(t, user.Password, updated.Password)
}

func TestPartialUpdate_BlankFieldTreatedAsOmitted(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	user, err := service.Register(context.Background(), CreateUserInput{
		UserName: "bob",
		FullName: "Bob Silva",
		Password: "secret123",
	})
	require.NoError(t, err)

	blank := "   "
	updated, err := service.PartialUpdate(context.Background(), user.ID, UpdateUserInput{
		FullName: &blank,
	})

	require.NoError(t, err)
	assert.Equal(t, "Bob Silva", updated.FullName)
}

func TestPartialUpdate_RehashesPassword(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	user, err := service.Register(context.Background(), CreateUserInput{
		UserName: "bob",
		FullName: "Bob Silva",
		Password: "secret123",
	})
	require.NoError(t, err)

	newPassword := "newsecret456"
	updated, err := service.PartialUpdate(context.Background(), user.ID, UpdateUserInput{
		Password: &newPassword,
	})

	require.NoError(t, err)
	assert.NotEqual(t, user.Password, updated.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("newsecret456")))
}

func TestPartialUpdate_NotFound(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	name := "whoever"
	_, err := service.PartialUpdate(context.Background(), 42, UpdateUserInput{UserName: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRegister_RepositoryError(t *testing.T) {
	repo := newMockRepository()
	repo.createErr = errors.New("database error")
	service := NewService(repo)

	user, err := service.Register(context.Background(), CreateUserInput{
		UserName: "bob",
		FullName: "Bob Silva",
		Password: "secret123",
	})

	assert.Nil(t, user)
	assert.Error(t, err)
}
