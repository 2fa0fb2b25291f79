package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/smartq/internal/domain/ticket"
	"github.com/BruksfildServices01/smartq/internal/httperr"
	"github.com/BruksfildServices01/smartq/internal/models"
)

const (
	queueNumberConstraint = "ux_queue_tickets_queue_number"
	// OneServingConstraint is the partial unique index created in db.NewDB.
	OneServingConstraint = "ux_queue_tickets_one_serving"

	queueOrder = "priority DESC, created_at ASC, id ASC"
)

type TicketGormRepository struct {
	db *gorm.DB
}

func NewTicketGormRepository(db *gorm.DB) *TicketGormRepository {
	return &TicketGormRepository{db: db}
}

// --------------------------------------------------
// Service / Provider
// --------------------------------------------------

func (r *TicketGormRepository) GetService(
	ctx context.Context,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, serviceID).Error; err != nil {
		return nil, notFound(err, domain.ErrServiceNotFound)
	}
	return &svc, nil
}

func (r *TicketGormRepository) GetActiveService(
	ctx context.Context,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", serviceID, true).
		First(&svc).Error; err != nil {
		return nil, notFound(err, domain.ErrServiceNotFound)
	}
	return &svc, nil
}

func (r *TicketGormRepository) GetProviderByUser(
	ctx context.Context,
	userID uint,
) (*models.Provider, error) {

	var p models.Provider
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&p).Error; err != nil {
		return nil, notFound(err, domain.ErrProviderNotFound)
	}
	return &p, nil
}

// --------------------------------------------------
// Queue reads
// --------------------------------------------------

func (r *TicketGormRepository) CountWaiting(
	ctx context.Context,
	serviceID uint,
) (int64, error) {

	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.QueueTicket{}).
		Where("service_id = ? AND status = ?", serviceID, string(domain.StatusWaiting)).
		Count(&n).Error
	return n, err
}

func (r *TicketGormRepository) CountAhead(
	ctx context.Context,
	t *models.QueueTicket,
) (int64, error) {

	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.QueueTicket{}).
		Where("service_id = ? AND status = ? AND id <> ?", t.ServiceID, string(domain.StatusWaiting), t.ID).
		Where(
			"priority > ? OR (priority = ? AND created_at < ?) OR (priority = ? AND created_at = ? AND id < ?)",
			t.Priority,
			t.Priority, t.CreatedAt,
			t.Priority, t.CreatedAt, t.ID,
		).
		Count(&n).Error
	return n, err
}

func (r *TicketGormRepository) ListWaiting(
	ctx context.Context,
	serviceID uint,
) ([]models.QueueTicket, error) {

	var ts []models.QueueTicket
	err := r.db.WithContext(ctx).
		Where("service_id = ? AND status = ?", serviceID, string(domain.StatusWaiting)).
		Order(queueOrder).
		Find(&ts).Error
	return ts, err
}

func (r *TicketGormRepository) GetServing(
	ctx context.Context,
	serviceID uint,
) (*models.QueueTicket, error) {

	var t models.QueueTicket
	err := r.db.WithContext(ctx).
		Where("service_id = ? AND status = ?", serviceID, string(domain.StatusServing)).
		Take(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TicketGormRepository) GetTicketByNumber(
	ctx context.Context,
	queueNumber string,
) (*models.QueueTicket, error) {

	var t models.QueueTicket
	if err := r.db.WithContext(ctx).
		Where("queue_number = ?", queueNumber).
		First(&t).Error; err != nil {
		return nil, notFound(err, domain.ErrTicketNotFound)
	}
	return &t, nil
}

func (r *TicketGormRepository) GetTicketForService(
	ctx context.Context,
	ticketID uint,
	serviceID uint,
) (*models.QueueTicket, error) {

	var t models.QueueTicket
	if err := r.db.WithContext(ctx).
		Where("id = ? AND service_id = ?", ticketID, serviceID).
		First(&t).Error; err != nil {
		return nil, notFound(err, domain.ErrTicketNotFound)
	}
	return &t, nil
}

// --------------------------------------------------
// Queue writes
// --------------------------------------------------

func (r *TicketGormRepository) NextSequence(
	ctx context.Context,
	day string,
) (int64, error) {

	seq := models.TicketSequence{Day: day, LastNumber: 1}
	err := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "day"}},
				DoUpdates: clause.Assignments(map[string]any{
					"last_number": gorm.Expr("ticket_sequences.last_number + 1"),
				}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "last_number"}}},
		).
		Create(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq.LastNumber, nil
}

func (r *TicketGormRepository) CreateTicket(
	ctx context.Context,
	t *models.QueueTicket,
) error {

	err := r.db.WithContext(ctx).Create(t).Error
	if httperr.IsUniqueViolation(err, queueNumberConstraint) {
		return domain.ErrDuplicateQueueNumber
	}
	return err
}

func (r *TicketGormRepository) CallNext(
	ctx context.Context,
	serviceID uint,
	providerID uint,
	now time.Time,
) (*models.QueueTicket, error) {

	var called *models.QueueTicket

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialises call-next per service.
		var svc models.Service
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&svc, serviceID).Error; err != nil {
			return notFound(err, domain.ErrServiceNotFound)
		}

		var serving int64
		if err := tx.Model(&models.QueueTicket{}).
			Where("service_id = ? AND status = ?", serviceID, string(domain.StatusServing)).
			Count(&serving).Error; err != nil {
			return err
		}
		if serving > 0 {
			return domain.ErrAlreadyServing
		}

		var next models.QueueTicket
		if err := tx.Where("service_id = ? AND status = ?", serviceID, string(domain.StatusWaiting)).
			Order(queueOrder).
			Limit(1).
			Take(&next).Error; err != nil {
			return notFound(err, domain.ErrQueueEmpty)
		}

		if err := domain.Serve(&next, providerID, now); err != nil {
			return err
		}

		res := tx.Model(&models.QueueTicket{}).
			Where("id = ? AND status = ?", next.ID, string(domain.StatusWaiting)).
			Updates(map[string]any{
				"status":             next.Status,
				"called_at":          next.CalledAt,
				"serving_started_at": next.ServingStartedAt,
				"provider_id":        next.ProviderID,
				"updated_at":         now,
			})
		if httperr.IsUniqueViolation(res.Error, OneServingConstraint) {
			return domain.ErrAlreadyServing
		}
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrInvalidState
		}

		called = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return called, nil
}

func (r *TicketGormRepository) ApplyTransition(
	ctx context.Context,
	t *models.QueueTicket,
	from domain.Status,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.QueueTicket{}).
		Where("id = ? AND status = ?", t.ID, string(from)).
		Updates(map[string]any{
			"status":             t.Status,
			"called_at":          t.CalledAt,
			"serving_started_at": t.ServingStartedAt,
			"completed_at":       t.CompletedAt,
			"provider_id":        t.ProviderID,
			"updated_at":         time.Now(),
		})
	if httperr.IsUniqueViolation(res.Error, OneServingConstraint) {
		return domain.ErrAlreadyServing
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

// --------------------------------------------------
// Stats
// --------------------------------------------------

func (r *TicketGormRepository) ListClosedByProvider(
	ctx context.Context,
	providerID uint,
	start time.Time,
	end time.Time,
) ([]models.QueueTicket, error) {

	var ts []models.QueueTicket
	err := r.db.WithContext(ctx).
		Where(
			"provider_id = ? AND status IN ? AND completed_at >= ? AND completed_at < ?",
			providerID,
			[]string{string(domain.StatusCompleted), string(domain.StatusSkipped)},
			start,
			end,
		).
		Find(&ts).Error
	return ts, err
}

func notFound(err error, domainErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return err
}

var _ domain.Repository = (*TicketGormRepository)(nil)
