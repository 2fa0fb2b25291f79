package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/smartq/internal/domain/analytics"
	"github.com/BruksfildServices01/smartq/internal/domain/ticket"
	"github.com/BruksfildServices01/smartq/internal/models"
)

type AnalyticsGormRepository struct {
	db *gorm.DB
}

func NewAnalyticsGormRepository(db *gorm.DB) *AnalyticsGormRepository {
	return &AnalyticsGormRepository{db: db}
}

func (r *AnalyticsGormRepository) ListTicketsCreated(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.QueueTicket, error) {

	var ts []models.QueueTicket
	err := r.db.WithContext(ctx).
		Select("id", "service_id", "status", "created_at", "serving_started_at", "completed_at").
		Where("created_at >= ? AND created_at < ?", start, end).
		Find(&ts).Error
	return ts, err
}

func (r *AnalyticsGormRepository) CountOpen(
	ctx context.Context,
) ([]domain.StatusCount, error) {

	var rows []domain.StatusCount
	err := r.db.WithContext(ctx).
		Model(&models.QueueTicket{}).
		Select("service_id, status, COUNT(*) AS count").
		Where("status IN ?", []string{string(ticket.StatusWaiting), string(ticket.StatusServing)}).
		Group("service_id, status").
		Scan(&rows).Error
	return rows, err
}

func (r *AnalyticsGormRepository) ListActiveServices(
	ctx context.Context,
) ([]domain.ServiceRef, error) {

	var refs []domain.ServiceRef
	err := r.db.WithContext(ctx).
		Table("services").
		Select("services.id, services.name, services.organization_id, organizations.name AS organization_name").
		Joins("JOIN organizations ON organizations.id = services.organization_id").
		Where("services.active = ?", true).
		Order("organizations.name, services.name").
		Scan(&refs).Error
	return refs, err
}

func (r *AnalyticsGormRepository) CountOrganizations(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Organization{}).Count(&n).Error
	return n, err
}

func (r *AnalyticsGormRepository) CountActiveServices(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Service{}).
		Where("active = ?", true).
		Count(&n).Error
	return n, err
}

func (r *AnalyticsGormRepository) CountUsers(ctx context.Context, role string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", role).
		Count(&n).Error
	return n, err
}

func (r *AnalyticsGormRepository) UpsertSnapshots(
	ctx context.Context,
	snaps []models.AnalyticsSnapshot,
) error {

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "day"}, {Name: "service_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"organization_id",
				"total_tickets",
				"completed",
				"skipped",
				"waiting",
				"avg_wait_minutes",
				"avg_service_minutes",
				"updated_at",
			}),
		}).
		Create(&snaps).Error
}

func (r *AnalyticsGormRepository) ListSnapshots(
	ctx context.Context,
	f domain.SnapshotFilter,
) ([]models.AnalyticsSnapshot, error) {

	q := r.db.WithContext(ctx).Model(&models.AnalyticsSnapshot{})

	if !f.From.IsZero() {
		q = q.Where("day >= ?", f.From.Format("2006-01-02"))
	}
	if !f.To.IsZero() {
		q = q.Where("day <= ?", f.To.Format("2006-01-02"))
	}
	if f.ServiceID != 0 {
		q = q.Where("service_id = ?", f.ServiceID)
	}

	var snaps []models.AnalyticsSnapshot
	err := q.Order("day DESC, service_id ASC").Find(&snaps).Error
	return snaps, err
}

var _ domain.Repository = (*AnalyticsGormRepository)(nil)
