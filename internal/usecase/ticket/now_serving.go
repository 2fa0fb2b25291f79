package ticket

import (
	"context"

	domain "github.com/BruksfildServices01/smartq/internal/domain/ticket"
	"github.com/BruksfildServices01/smartq/internal/models"
)

type NowServingView struct {
	Service      *models.Service
	Serving      *models.QueueTicket
	WaitingCount int64
}

type GetNowServing struct {
	repo domain.Repository
}

func NewGetNowServing(repo domain.Repository) *GetNowServing {
	return &GetNowServing{repo: repo}
}

func (uc *GetNowServing) Execute(
	ctx context.Context,
	serviceID uint,
) (*NowServingView, error) {

	svc, err := uc.repo.GetActiveService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	serving, err := uc.repo.GetServing(ctx, svc.ID)
	if err != nil {
		return nil, err
	}

	waiting, err := uc.repo.CountWaiting(ctx, svc.ID)
	if err != nil {
		return nil, err
	}

	return &NowServingView{
		Service:      svc,
		Serving:      serving,
		WaitingCount: waiting,
	}, nil
}
