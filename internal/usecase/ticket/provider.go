package ticket

import (
	"context"

	domain "github.com/BruksfildServices01/smartq/internal/domain/ticket"
	"github.com/BruksfildServices01/smartq/internal/models"
)

// resolveProvider loads the active provider profile of a staff user.
func resolveProvider(
	ctx context.Context,
	repo domain.Repository,
	userID uint,
) (*models.Provider, error) {

	p, err := repo.GetProviderByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, domain.ErrProviderInactive
	}
	return p, nil
}
