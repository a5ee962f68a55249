package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/factoryerp/backend/internal/domain/accesscontrol"
)

// newMockAccessGrantRepository creates a GormAccessGrantRepository with a mocked SQL connection
func newMockAccessGrantRepository(t *testing.T) (*GormAccessGrantRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormAccessGrantRepository(gormDB), mock, mockDB
}

func newTestGrant(t *testing.T, role accesscontrol.Role) *accesscontrol.AccessGrant {
	t.Helper()
	target, err := accesscontrol.NewPageTarget(accesscontrol.PageOrders)
	require.NoError(t, err)
	return accesscontrol.NewAccessGrant(target, role)
}

func TestGormAccessGrantRepository_Upsert(t *testing.T) {
	t.Run("inserts new grant", func(t *testing.T) {
		repo, mock, mockDB := newMockAccessGrantRepository(t)
		defer mockDB.Close()

		grant := newTestGrant(t, accesscontrol.RoleFinance)

		mock.ExpectExec(`INSERT INTO "access_control" .* ON CONFLICT \("type","target","role"\) DO NOTHING`).
			WithArgs(grant.ID, "page", "orders", "finance", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Upsert(context.Background(), grant)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate grant succeeds without writing", func(t *testing.T) {
		repo, mock, mockDB := newMockAccessGrantRepository(t)
		defer mockDB.Close()

		grant := newTestGrant(t, accesscontrol.RoleFinance)

		mock.ExpectExec(`INSERT INTO "access_control" .* ON CONFLICT \("type","target","role"\) DO NOTHING`).
			WithArgs(grant.ID, "page", "orders", "finance", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Upsert(context.Background(), grant)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates database errors", func(t *testing.T) {
		repo, mock, mockDB := newMockAccessGrantRepository(t)
		defer mockDB.Close()

		grant := newTestGrant(t, accesscontrol.RoleFinance)

		mock.ExpectExec(`INSERT INTO "access_control"`).
			WillReturnError(errors.New("connection reset"))

		err := repo.Upsert(context.Background(), grant)
		assert.Error(t, err)
	})
}

func TestGormAccessGrantRepository_Delete(t *testing.T) {
	t.Run("deletes matching row", func(t *testing.T) {
		repo, mock, mockDB := newMockAccessGrantRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`DELETE FROM "access_control" WHERE type = \$1 AND target = \$2 AND role = \$3`).
			WithArgs("page", "orders", "finance").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), accesscontrol.GrantTypePage, "orders", accesscontrol.RoleFinance)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deleting an absent row succeeds", func(t *testing.T) {
		repo, mock, mockDB := newMockAccessGrantRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`DELETE FROM "access_control"`).
			WithArgs("feature", "order_delete", "ground-team").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), accesscontrol.GrantTypeFeature, "order_delete", accesscontrol.RoleGroundTeam)
		assert.NoError(t, err)
	})
}

func TestGormAccessGrantRepository_FindByType(t *testing.T) {
	repo, mock, mockDB := newMockAccessGrantRepository(t)
	defer mockDB.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "type", "target", "role", "created_at", "updated_at"}).
		AddRow(uuid.New(), "page", "invoice", "finance", now, now).
		AddRow(uuid.New(), "page", "orders", "owner", now, now)

	mock.ExpectQuery(`SELECT \* FROM "access_control" WHERE type = \$1 ORDER BY target, role`).
		WithArgs("page").
		WillReturnRows(rows)

	grants, err := repo.FindByType(context.Background(), accesscontrol.GrantTypePage)
	require.NoError(t, err)
	require.Len(t, grants, 2)
	assert.Equal(t, "invoice", grants[0].Target)
	assert.Equal(t, accesscontrol.RoleOwner, grants[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormAccessGrantRepository_FindByTypeAndTargets(t *testing.T) {
	t.Run("restricts to the given targets", func(t *testing.T) {
		repo, mock, mockDB := newMockAccessGrantRepository(t)
		defer mockDB.Close()

		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "type", "target", "role", "created_at", "updated_at"}).
			AddRow(uuid.New(), "manage_order", "5", "owner", now, now)

		mock.ExpectQuery(`SELECT \* FROM "access_control" WHERE type = \$1 AND target IN \(\$2,\$3,\$4\) ORDER BY target, role`).
			WithArgs("manage_order", "2", "5", "9").
			WillReturnRows(rows)

		grants, err := repo.FindByTypeAndTargets(context.Background(), accesscontrol.GrantTypeManageOrder, []string{"2", "5", "9"})
		require.NoError(t, err)
		require.Len(t, grants, 1)
		assert.Equal(t, "5", grants[0].Target)
	})

	t.Run("empty target list short-circuits", func(t *testing.T) {
		repo, mock, mockDB := newMockAccessGrantRepository(t)
		defer mockDB.Close()

		grants, err := repo.FindByTypeAndTargets(context.Background(), accesscontrol.GrantTypeManageOrder, nil)
		require.NoError(t, err)
		assert.Empty(t, grants)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAccessGrantRepository_FindRolesByTarget(t *testing.T) {
	repo, mock, mockDB := newMockAccessGrantRepository(t)
	defer mockDB.Close()

	rows := sqlmock.NewRows([]string{"role"}).
		AddRow("owner").
		AddRow("finance")

	mock.ExpectQuery(`SELECT "role" FROM "access_control" WHERE type = \$1 AND target = \$2`).
		WithArgs("page", "orders").
		WillReturnRows(rows)

	roles, err := repo.FindRolesByTarget(context.Background(), accesscontrol.GrantTypePage, "orders")
	require.NoError(t, err)
	assert.Equal(t, []accesscontrol.Role{accesscontrol.RoleOwner, accesscontrol.RoleFinance}, roles)
}

func TestGormAccessGrantRepository_FindTargetsByRole(t *testing.T) {
	repo, mock, mockDB := newMockAccessGrantRepository(t)
	defer mockDB.Close()

	rows := sqlmock.NewRows([]string{"target"}).
		AddRow("orders").
		AddRow("home")

	mock.ExpectQuery(`SELECT "target" FROM "access_control" WHERE type = \$1 AND role = \$2`).
		WithArgs("page", "ground-team").
		WillReturnRows(rows)

	targets, err := repo.FindTargetsByRole(context.Background(), accesscontrol.GrantTypePage, accesscontrol.RoleGroundTeam)
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "home"}, targets)
}
