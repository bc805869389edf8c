package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-voiceagent/internal/entity"
	"github.com/xavierca1/ligue-voiceagent/internal/infra/queue"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) List(ctx context.Context) ([]entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateContactFlag(ctx context.Context, leadID string, value bool) error {
	args := m.Called(ctx, leadID, value)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) PublishLeadCaptured(ctx context.Context, payload queue.LeadCapturedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func TestRegisterLeadPublishesEvent(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		lead := args.Get(1).(*entity.Lead)
		lead.ID = "lead-123"
		lead.CreatedAt = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	}).Return(nil)

	mockNotifier := new(MockNotifier)
	mockNotifier.On("PublishLeadCaptured", mock.Anything, mock.MatchedBy(func(p queue.LeadCapturedPayload) bool {
		return p.LeadID == "lead-123" && p.Email == "joao@example.com"
	})).Return(nil)

	uc := NewRegisterLeadUseCase(mockRepo, mockNotifier)

	output, err := uc.Execute(context.Background(), RegisterLeadInput{
		Nome: "João", Email: "joao@example.com", Telefone: "11999999999", Empresa: "Acme",
	})

	require.NoError(t, err)
	assert.True(t, output.Success)
	assert.Equal(t, "lead-123", output.LeadID)

	mockNotifier.AssertExpectations(t)
}

func TestRegisterLeadSucceedsWhenNotifierFails(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Lead).ID = "lead-456"
	}).Return(nil)

	mockNotifier := new(MockNotifier)
	mockNotifier.On("PublishLeadCaptured", mock.Anything, mock.Anything).
		Return(errors.New("broker fora do ar"))

	uc := NewRegisterLeadUseCase(mockRepo, mockNotifier)

	output, err := uc.Execute(context.Background(), RegisterLeadInput{
		Nome: "J", Email: "j@x.com", Telefone: "1", Empresa: "E",
	})

	require.NoError(t, err, "falha na fila nunca desfaz um cadastro confirmado")
	assert.True(t, output.Success)
}

func TestRegisterLeadWorksWithoutNotifier(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	uc := NewRegisterLeadUseCase(mockRepo, nil)

	output, err := uc.Execute(context.Background(), RegisterLeadInput{
		Nome: "J", Email: "j@x.com", Telefone: "1", Empresa: "E",
	})

	require.NoError(t, err)
	assert.True(t, output.Success)
}

func TestRegisterLeadRejectsEmptyInput(t *testing.T) {
	mockRepo := new(MockLeadRepository)

	uc := NewRegisterLeadUseCase(mockRepo, nil)

	_, err := uc.Execute(context.Background(), RegisterLeadInput{})

	require.Error(t, err)
	assert.True(t, IsCode(err, ErrValidation))
	assert.Contains(t, err.Error(), "nome")
	assert.Contains(t, err.Error(), "empresa")
	mockRepo.AssertNotCalled(t, "Create")
}

func TestRegisterLeadRejectsMissingField(t *testing.T) {
	mockRepo := new(MockLeadRepository)

	uc := NewRegisterLeadUseCase(mockRepo, nil)

	_, err := uc.Execute(context.Background(), RegisterLeadInput{
		Nome: "João", Email: "joao@example.com", Telefone: "  ", Empresa: "Acme",
	})

	require.Error(t, err)
	assert.True(t, IsCode(err, ErrValidation))
	assert.Contains(t, err.Error(), "telefone")
	assert.NotContains(t, err.Error(), "nome,")
	mockRepo.AssertNotCalled(t, "Create")
}

func TestRegisterLeadPropagatesRepositoryError(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockRepo.On("Create", mock.Anything, mock.Anything).
		Return(NewPersistenceError("inserção do lead não confirmada pela releitura", nil))

	uc := NewRegisterLeadUseCase(mockRepo, nil)

	_, err := uc.Execute(context.Background(), RegisterLeadInput{
		Nome: "J", Email: "j@x.com", Telefone: "1", Empresa: "E",
	})

	require.Error(t, err)
	assert.True(t, IsCode(err, ErrPersistence))
}
