package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/flexprice/ordertax/internal/domain/taxconfig"
	ierr "github.com/flexprice/ordertax/internal/errors"
	"github.com/flexprice/ordertax/internal/logger"
	"github.com/flexprice/ordertax/internal/postgres"
	"github.com/flexprice/ordertax/internal/types"
	"github.com/lib/pq"
	"github.com/samber/lo"
)

const defaultSlotConstraint = "idx_tax_configurations_default_slot"

const taxConfigurationColumns = `
	id, organization_id, name, tax_type, tax_rate, service_type,
	is_default, is_active, is_tax_exempt, is_price_inclusive,
	applicable_region, metadata,
	status, created_at, updated_at, created_by, updated_by`

type taxConfigurationRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewTaxConfigurationRepository(db *postgres.DB, logger *logger.Logger) taxconfig.Repository {
	return &taxConfigurationRepository{db: db, logger: logger}
}

func (r *taxConfigurationRepository) Create(ctx context.Context, c *taxconfig.TaxConfiguration) error {
	span := StartRepositorySpan(ctx, "tax_configuration", "create", map[string]interface{}{
		"tax_configuration_id": c.ID,
		"organization_id":      c.OrganizationID,
	})
	defer FinishSpan(span)

	query := `
		INSERT INTO tax_configurations (` + taxConfigurationColumns + `
		) VALUES (
			:id, :organization_id, :name, :tax_type, :tax_rate, :service_type,
			:is_default, :is_active, :is_tax_exempt, :is_price_inclusive,
			:applicable_region, :metadata,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating tax configuration",
		"tax_configuration_id", c.ID,
		"organization_id", c.OrganizationID,
		"service_type", c.ServiceType,
	)

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, c); err != nil {
		SetSpanError(span, err)
		return r.writeError(err, c, "Failed to create tax configuration")
	}

	SetSpanSuccess(span)
	return nil
}

func (r *taxConfigurationRepository) Get(ctx context.Context, id string) (*taxconfig.TaxConfiguration, error) {
	span := StartRepositorySpan(ctx, "tax_configuration", "get", map[string]interface{}{
		"tax_configuration_id": id,
	})
	defer FinishSpan(span)

	query := `SELECT ` + taxConfigurationColumns + `
		FROM tax_configurations
		WHERE id = $1 AND status <> $2`

	var c taxconfig.TaxConfiguration
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &c, query, id, types.StatusDeleted); err != nil {
		SetSpanError(span, err)
		if isNoRows(err) {
			return nil, ierr.WithError(err).
				WithHintf("Tax configuration with ID %s was not found", id).
				WithReportableDetails(map[string]any{
					"tax_configuration_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get tax configuration").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return &c, nil
}

func (r *taxConfigurationRepository) Update(ctx context.Context, c *taxconfig.TaxConfiguration) error {
	span := StartRepositorySpan(ctx, "tax_configuration", "update", map[string]interface{}{
		"tax_configuration_id": c.ID,
	})
	defer FinishSpan(span)

	c.UpdatedAt = time.Now().UTC()
	c.UpdatedBy = types.GetUserID(ctx)

	query := `
		UPDATE tax_configurations SET
			name = :name,
			tax_type = :tax_type,
			tax_rate = :tax_rate,
			service_type = :service_type,
			is_default = :is_default,
			is_active = :is_active,
			is_tax_exempt = :is_tax_exempt,
			is_price_inclusive = :is_price_inclusive,
			applicable_region = :applicable_region,
			metadata = :metadata,
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND organization_id = :organization_id AND status <> 'deleted'`

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, c)
	if err != nil {
		SetSpanError(span, err)
		return r.writeError(err, c, "Failed to update tax configuration")
	}

	if err := r.ensureAffected(result.RowsAffected, c.ID); err != nil {
		SetSpanError(span, err)
		return err
	}

	SetSpanSuccess(span)
	return nil
}

// Delete is a soft delete, the row keeps its values with status deleted
func (r *taxConfigurationRepository) Delete(ctx context.Context, c *taxconfig.TaxConfiguration) error {
	span := StartRepositorySpan(ctx, "tax_configuration", "delete", map[string]interface{}{
		"tax_configuration_id": c.ID,
	})
	defer FinishSpan(span)

	query := `
		UPDATE tax_configurations
		SET status = $1, updated_at = $2, updated_by = $3
		WHERE id = $4 AND organization_id = $5 AND status <> $1`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		types.StatusDeleted,
		time.Now().UTC(),
		types.GetUserID(ctx),
		c.ID,
		c.OrganizationID,
	)
	if err != nil {
		SetSpanError(span, err)
		return ierr.WithError(err).
			WithHint("Failed to delete tax configuration").
			Mark(ierr.ErrDatabase)
	}

	if err := r.ensureAffected(result.RowsAffected, c.ID); err != nil {
		SetSpanError(span, err)
		return err
	}

	SetSpanSuccess(span)
	return nil
}

func (r *taxConfigurationRepository) List(ctx context.Context, organizationID string, filter *types.TaxConfigurationFilter) ([]*taxconfig.TaxConfiguration, error) {
	span := StartRepositorySpan(ctx, "tax_configuration", "list", map[string]interface{}{
		"organization_id": organizationID,
	})
	defer FinishSpan(span)

	if filter == nil {
		filter = types.NewTaxConfigurationFilter()
	}

	where := r.filterConditions(organizationID, filter)
	query := fmt.Sprintf(`SELECT %s FROM tax_configurations%s ORDER BY %s %s, id %s`,
		taxConfigurationColumns, where.String(), filter.GetSort(), filter.GetOrder(), filter.GetOrder())

	if !filter.IsUnlimited() {
		query += " LIMIT " + where.arg(filter.GetLimit())
	}
	if filter.GetOffset() > 0 {
		query += " OFFSET " + where.arg(filter.GetOffset())
	}

	var configs []*taxconfig.TaxConfiguration
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &configs, query, where.args...); err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to list tax configurations").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return configs, nil
}

func (r *taxConfigurationRepository) Count(ctx context.Context, organizationID string, filter *types.TaxConfigurationFilter) (int, error) {
	span := StartRepositorySpan(ctx, "tax_configuration", "count", map[string]interface{}{
		"organization_id": organizationID,
	})
	defer FinishSpan(span)

	if filter == nil {
		filter = types.NewTaxConfigurationFilter()
	}

	where := r.filterConditions(organizationID, filter)
	query := `SELECT COUNT(*) FROM tax_configurations` + where.String()

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, where.args...); err != nil {
		SetSpanError(span, err)
		return 0, ierr.WithError(err).
			WithHint("Failed to count tax configurations").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return count, nil
}

func (r *taxConfigurationRepository) GetDefault(ctx context.Context, organizationID string, serviceType types.ServiceType) (*taxconfig.TaxConfiguration, error) {
	span := StartRepositorySpan(ctx, "tax_configuration", "get_default", map[string]interface{}{
		"organization_id": organizationID,
		"service_type":    serviceType,
	})
	defer FinishSpan(span)

	query := `SELECT ` + taxConfigurationColumns + `
		FROM tax_configurations
		WHERE organization_id = $1
			AND service_type = $2
			AND is_default AND is_active
			AND status = $3
		ORDER BY updated_at DESC, id DESC
		LIMIT 1`

	var c taxconfig.TaxConfiguration
	err := r.db.GetQuerier(ctx).GetContext(ctx, &c, query, organizationID, serviceType, types.StatusPublished)
	if err != nil {
		SetSpanError(span, err)
		if isNoRows(err) {
			return nil, ierr.WithError(err).
				WithHintf("No default tax configuration for %s", serviceType).
				WithReportableDetails(map[string]any{
					"organization_id": organizationID,
					"service_type":    serviceType,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get default tax configuration").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return &c, nil
}

func (r *taxConfigurationRepository) ListCandidates(ctx context.Context, organizationID string, serviceType types.ServiceType) ([]*taxconfig.TaxConfiguration, error) {
	span := StartRepositorySpan(ctx, "tax_configuration", "list_candidates", map[string]interface{}{
		"organization_id": organizationID,
		"service_type":    serviceType,
	})
	defer FinishSpan(span)

	scopes := lo.Uniq([]string{string(serviceType), string(types.ServiceTypeAll)})

	query := `SELECT ` + taxConfigurationColumns + `
		FROM tax_configurations
		WHERE organization_id = $1
			AND service_type = ANY($2)
			AND is_default AND is_active
			AND status = $3`

	var configs []*taxconfig.TaxConfiguration
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &configs, query, organizationID, pq.Array(scopes), types.StatusPublished)
	if err != nil {
		SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to load tax configurations").
			Mark(ierr.ErrDatabase)
	}

	SetSpanSuccess(span)
	return configs, nil
}

func (r *taxConfigurationRepository) filterConditions(organizationID string, filter *types.TaxConfigurationFilter) *whereBuilder {
	where := &whereBuilder{}
	where.add("organization_id = $%d", organizationID)
	where.add("status <> $%d", string(types.StatusDeleted))

	if status := filter.GetStatus(); status != "" {
		where.add("status = $%d", status)
	}
	if len(filter.TaxConfigurationIDs) > 0 {
		where.add("id = ANY($%d)", pq.Array(filter.TaxConfigurationIDs))
	}
	if len(filter.ServiceTypes) > 0 {
		where.add("service_type = ANY($%d)", pq.Array(lo.Map(filter.ServiceTypes, func(st types.ServiceType, _ int) string {
			return string(st)
		})))
	}
	if filter.IsActive != nil {
		where.add("is_active = $%d", *filter.IsActive)
	}
	if filter.IsDefault != nil {
		where.add("is_default = $%d", *filter.IsDefault)
	}

	return where
}

func (r *taxConfigurationRepository) ensureAffected(rowsAffected func() (int64, error), id string) error {
	rows, err := rowsAffected()
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to read affected rows").
			Mark(ierr.ErrDatabase)
	}
	if rows == 0 {
		return ierr.NewError("tax configuration not found").
			WithHintf("Tax configuration with ID %s was not found", id).
			WithReportableDetails(map[string]any{
				"tax_configuration_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *taxConfigurationRepository) writeError(err error, c *taxconfig.TaxConfiguration, hint string) error {
	r.logger.Errorw("error writing tax configuration",
		"tax_configuration_id", c.ID,
		"error", err,
	)

	if constraint, ok := uniqueViolation(err); ok {
		if constraint == defaultSlotConstraint {
			return ierr.WithError(err).
				WithHintf("An active default tax configuration already exists for %s", c.ServiceType).
				WithReportableDetails(map[string]any{
					"organization_id": c.OrganizationID,
					"service_type":    c.ServiceType,
				}).
				Mark(ierr.ErrConflict)
		}
		return ierr.WithError(err).
			WithHint("A tax configuration with this ID already exists").
			WithReportableDetails(map[string]any{
				"tax_configuration_id": c.ID,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	return ierr.WithError(err).
		WithHint(hint).
		Mark(ierr.ErrDatabase)
}
