package ticket

import (
	"context"

	domain "github.com/BruksfildServices01/smartq/internal/domain/ticket"
	"github.com/BruksfildServices01/smartq/internal/models"
)

type StaffQueueView struct {
	Provider *models.Provider
	Service  *models.Service
	// Waiting is in call order; Waiting[i] has position i+1.
	Waiting []models.QueueTicket
	Serving *models.QueueTicket
}

type GetStaffQueue struct {
	repo domain.Repository
}

func NewGetStaffQueue(repo domain.Repository) *GetStaffQueue {
	return &GetStaffQueue{repo: repo}
}

func (uc *GetStaffQueue) Execute(
	ctx context.Context,
	userID uint,
) (*StaffQueueView, error) {

	provider, err := resolveProvider(ctx, uc.repo, userID)
	if err != nil {
		return nil, err
	}

	svc, err := uc.repo.GetService(ctx, provider.ServiceID)
	if err != nil {
		return nil, err
	}

	waiting, err := uc.repo.ListWaiting(ctx, svc.ID)
	if err != nil {
		return nil, err
	}

	serving, err := uc.repo.GetServing(ctx, svc.ID)
	if err != nil {
		return nil, err
	}

	return &StaffQueueView{
		Provider: provider,
		Service:  svc,
		Waiting:  waiting,
		Serving:  serving,
	}, nil
}

// GetStaffService returns the provider profile and its assigned service.
type GetStaffService struct {
	repo domain.Repository
}

func NewGetStaffService(repo domain.Repository) *GetStaffService {
	return &GetStaffService{repo: repo}
}

func (uc *GetStaffService) Execute(
	ctx context.Context,
	userID uint,
) (*models.Provider, *models.Service, error) {

	provider, err := resolveProvider(ctx, uc.repo, userID)
	if err != nil {
		return nil, nil, err
	}

	svc, err := uc.repo.GetService(ctx, provider.ServiceID)
	if err != nil {
		return nil, nil, err
	}
	return provider, svc, nil
}
