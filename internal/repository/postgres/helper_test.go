package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/flexprice/ordertax/internal/types"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestWhereBuilder(t *testing.T) {
	where := &whereBuilder{}
	assert.Equal(t, "", where.String())

	where.add("organization_id = $%d", "org_1")
	where.add("is_active = $%d", true)
	limit := where.arg(10)

	assert.Equal(t, " WHERE organization_id = $1 AND is_active = $2", where.String())
	assert.Equal(t, "$3", limit)
	assert.Equal(t, []interface{}{"org_1", true, 10}, where.args)
}

func TestUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pq.Error{Code: pqUniqueViolation, Constraint: defaultSlotConstraint})

	constraint, ok := uniqueViolation(err)
	assert.True(t, ok)
	assert.Equal(t, defaultSlotConstraint, constraint)

	_, ok = uniqueViolation(&pq.Error{Code: "23503"})
	assert.False(t, ok)

	_, ok = uniqueViolation(errors.New("boom"))
	assert.False(t, ok)
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, isNoRows(fmt.Errorf("get: %w", sql.ErrNoRows)))
	assert.False(t, isNoRows(errors.New("boom")))
}

func TestFilterConditionsExcludeDeleted(t *testing.T) {
	r := &taxConfigurationRepository{}

	where := r.filterConditions("org_1", types.NewTaxConfigurationFilter())
	assert.Equal(t, " WHERE organization_id = $1 AND status <> $2 AND status = $3", where.String())
	assert.Equal(t, []interface{}{"org_1", "deleted", "published"}, where.args)
}
