package addresses

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trajefino/api/internal/domain"
	"github.com/trajefino/api/internal/users"
)

// mockRepository implements Repository for testing. Like the real
// implementation, marking an address default demotes its siblings.
type mockRepository struct {
	addresses map[int64]*domain.Address
	nextID    int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{addresses: make(map[int64]*domain.Address), nextID: 1}
}

func (m *mockRepository) Create(_ context.Context, address *domain.Address) error {
	if address.IsDefault {
		m.clearDefaults(address.UserID, 0)
	}
	address.ID = m.nextID
	m.nextID++
	copied := *address
	m.addresses[address.ID] = &copied
	return nil
}

func (m *mockRepository) GetByID(_ context.Context, id int64) (*domain.Address, error) {
	if a, ok := m.addresses[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, ErrAddressNotFound
}

func (m *mockRepository) GetDefaultByUser(_ context.Context, userID int64) (*domain.Address, error) {
	for _, a := range m.addresses {
		if a.UserID == userID && a.IsDefault {
			copied := *a
			return &copied, nil
		}
	}
	return nil, ErrNoDefaultAddress
}

func (m *mockRepository) ListByUser(_ context.Context, userID int64) ([]domain.Address, error) {
	list := make([]domain.Address, 0)
	for id := int64(1); id < m.nextID; id++ {
		if a, ok := m.addresses[id]; ok && a.UserID == userID {
			list = append(list, *a)
		}
	}
	return list, nil
}

func (m *mockRepository) Update(_ context.Context, address *domain.Address) error {
	if _, ok := m.addresses[address.ID]; !ok {
		return ErrAddressNotFound
	}
	if address.IsDefault {
		m.clearDefaults(address.UserID, address.ID)
	}
	copied := *address
	m.addresses[address.ID] = &copied
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id int64) error {
	if _, ok := m.addresses[id]; !ok {
		return ErrAddressNotFound
	}
	delete(m.addresses, id)
	return nil
}

func (m *mockRepository) SetDefault(_ context.Context, id int64) (*domain.Address, error) {
	a, ok := m.addresses[id]
	if !ok {
		return nil, ErrAddressNotFound
	}
	m.clearDefaults(a.UserID, id)
	a.IsDefault = true
	copied := *a
	return &copied, nil
}

func (m *mockRepository) clearDefaults(userID, keepID int64) {
	for _, a := range m.addresses {
		if a.UserID == userID && a.ID != keepID {
			a.IsDefault = false
		}
	}
}

// mockUserResolver implements UserResolver for testing.
type mockUserResolver struct {
	known map[int64]bool
}

func (m *mockUserResolver) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if m.known[id] {
		return &domain.User{ID: id}, nil
	}
	return nil, users.ErrUserNotFound
}

func newTestService() (*Service, *mockRepository) {
	repo := newMockRepository()
	resolver := &mockUserResolver{known: map[int64]bool{1: true}}
	return NewService(repo, resolver), repo
}

func validInput() CreateAddressInput {
	return CreateAddressInput{
		Street:  "Main St",
		City:    "Springfield",
		State:   "SP",
		ZipCode: "01000-000",
		UserID:  1,
	}
}

func TestCreate_DefaultsCountry(t *testing.T) {
	// Arrange
	service, _ := newTestService()

	// Act
	address, err := service.Create(context.Background(), validInput())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Brasil", address.Country)
	assert.False(t, address.IsDefault)
	assert.NotZero(t, address.ID)
}

func TestCreate_UnknownUser(t *testing.T) {
	service, _ := newTestService()

	input := validInput()
	input.UserID = 99

	_, err := service.Create(context.Background(), input)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreate_RequiredFields(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	input := validInput()
	input.Street = " "
	_, err := service.Create(ctx, input)
	assert.ErrorIs(t, err, ErrStreetRequired)

	input = validInput()
	input.City = ""
	_, err = service.Create(ctx, input)
	assert.ErrorIs(t, err, ErrCityRequired)

	input = validInput()
	input.State = "SAO"
	_, err = service.Create(ctx, input)
	assert.ErrorIs(t, err, ErrStateLength)

	input = validInput()
	input.ZipCode = ""
	_, err = service.Create(ctx, input)
	assert.ErrorIs(t, err, ErrZipCodeRequired)

	input = validInput()
	input.UserID = 0
	_, err = service.Create(ctx, input)
	assert.ErrorIs(t, err, ErrUserIDRequired)
}

func TestCreate_SecondDefaultDemotesFirst(t *testing.T) {
	// Arrange
	service, repo := newTestService()
	ctx := context.Background()

	input := validInput()
	input.IsDefault = true
	first, err := service.Create(ctx, input)
	require.NoError(t, err)

	// Act: create a second default for the same user
	second, err := service.Create(ctx, input)
	require.NoError(t, err)

	// Assert: exactly one default remains
	firstStored, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, firstStored.IsDefault)
	assert.True(t, second.IsDefault)
}

func TestSetDefault_ExactlyOneDefault(t *testing.T) {
	// Arrange
	service, repo := newTestService()
	ctx := context.Background()

	input := validInput()
	input.IsDefault = true
	first, err := service.Create(ctx, input)
	require.NoError(t, err)

	input.IsDefault = false
	second, err := service.Create(ctx, input)
	require.NoError(t, err)

	// Act
	updated, err := service.SetDefault(ctx, second.ID)

	// Assert
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)

	defaults := 0
	list, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	for _, a := range list {
		if a.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
	firstStored, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, firstStored.IsDefault)
}

func TestPartialUpdate_OmittedFieldsKeepValues(t *testing.T) {
	// Arrange
	service, _ := newTestService()
	ctx := context.Background()

	address, err := service.Create(ctx, validInput())
	require.NoError(t, err)

	// Act: only city provided
	newCity := "Campinas"
	updated, err := service.PartialUpdate(ctx, address.ID, UpdateAddressInput{
		City: &newCity,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Campinas", updated.City)
	assert.Equal(t, "Main St", updated.Street)
	assert.Equal(t, "SP", updated.State)
	assert.Equal(t, "Brasil", updated.Country)
}

func TestPartialUpdate_StateMustHaveTwoCharacters(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	address, err := service.Create(ctx, validInput())
	require.NoError(t, err)

	badState := "SAO"
	_, err = service.PartialUpdate(ctx, address.ID, UpdateAddressInput{State: &badState})
	assert.ErrorIs(t, err, ErrStateLength)

	stored, err := repo.GetByID(ctx, address.ID)
	require.NoError(t, err)
	assert.Equal(t, "SP", stored.State)
}

func TestPartialUpdate_NotFound(t *testing.T) {
	service, _ := newTestService()

	city := "Campinas"
	_, err := service.PartialUpdate(context.Background(), 42, UpdateAddressInput{City: &city})
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestDelete_NoDefaultReElection(t *testing.T) {
	// Arrange
	service, _ := newTestService()
	ctx := context.Background()

	input := validInput()
	input.IsDefault = true
	def, err := service.Create(ctx, input)
	require.NoError(t, err)

	input.IsDefault = false
	_, err = service.Create(ctx, input)
	require.NoError(t, err)

	// Act: delete the default
	require.NoError(t, service.Delete(ctx, def.ID))

	// Assert: remaining address is not promoted
	_, err = service.GetDefault(ctx, 1)
	assert.ErrorIs(t, err, ErrNoDefaultAddress)
}

func TestDelete_NotFound(t *testing.T) {
	service, _ := newTestService()
	err := service.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestListByUser_UnknownUser(t *testing.T) {
	service, _ := newTestService()
	_, err := service.ListByUser(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
