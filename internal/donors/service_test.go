package donors

import (
	"context"
	"errors"
	"testing"

	"github.com/bissquit/bloodbridge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	donors map[string]domain.Document
	err    error
}

func newMockRepository() *mockRepository {
	return &mockRepository{donors: make(map[string]domain.Document)}
}

func (m *mockRepository) GetDonor(_ context.Context, username string) (*domain.Donor, error) {
	if m.err != nil {
		return nil, m.err
	}
	attrs, ok := m.donors[username]
	if !ok {
		return nil, ErrDonorNotFound
	}
	return &domain.Donor{Username: username, Attributes: attrs}, nil
}

func (m *mockRepository) UpsertDonor(_ context.Context, donor *domain.Donor) error {
	if m.err != nil {
		return m.err
	}
	m.donors[donor.Username] = donor.Attributes
	return nil
}

func TestGetDonor(t *testing.T) {
	repo := newMockRepository()
	repo.donors["alice"] = domain.Document{"bloodType": "A-"}
	service := NewService(repo)

	donor, err := service.GetDonor(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, "alice", donor.Username)
	assert.Equal(t, "A-", donor.Attributes["bloodType"])
}

func TestGetDonor_NotFound(t *testing.T) {
	_, err := NewService(newMockRepository()).GetDonor(context.Background(), "bob")

	assert.ErrorIs(t, err, ErrDonorNotFound)
}

func TestGetDonor_StoreError(t *testing.T) {
	repo := newMockRepository()
	repo.err = errors.New("no route to host")

	_, err := NewService(repo).GetDonor(context.Background(), "alice")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDonorNotFound)
}

func TestPutDonor_PathUsernameWins(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	donor, err := service.PutDonor(context.Background(), "alice", domain.Document{
		"_id":       "x",
		"username":  "mallory",
		"bloodType": "O+",
	})

	require.NoError(t, err)
	assert.Equal(t, "alice", donor.Username)
	assert.Equal(t, domain.Document{"bloodType": "O+"}, repo.donors["alice"])
	assert.NotContains(t, repo.donors, "mallory")
}

func TestPutDonor_RejectsEmpty(t *testing.T) {
	service := NewService(newMockRepository())

	_, err := service.PutDonor(context.Background(), "alice", domain.Document{"username": "alice"})

	assert.ErrorIs(t, err, ErrEmptyDonor)
}
