package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "postgres://app:****@db:5432/upra", maskDSN("postgres://app:secret@db:5432/upra"))
	assert.Equal(t, "database.db", maskDSN("database.db"))
	assert.Equal(t, "[masked]", maskDSN("host=db user=app password=secret dbname=upra"))
}

func TestInitRejectsUnknownDriver(t *testing.T) {
	_, err := Init(Options{Driver: "oracle"})
	require.Error(t, err)
}

func TestInitPostgresRequiresDSN(t *testing.T) {
	_, err := Init(Options{Driver: DriverPostgres})
	require.Error(t, err)
}

func TestInitMigratesSQLite(t *testing.T) {
	db, err := Init(Options{Driver: DriverSQLite, DSN: "file:init_test?mode=memory&cache=shared"})
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable("shareholders"))
	assert.True(t, db.Migrator().HasIndex("shareholders", "idx_shareholder_email_company"))
	assert.True(t, db.Migrator().HasIndex("shareholders", "idx_shareholder_phone_company"))
}
