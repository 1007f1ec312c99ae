package db

import (
	"os"
	"path/filepath"
	"testing"

	"bitwise74/auth-api/config"
	"bitwise74/auth-api/internal/model"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLDSN(config.DBConfig{
		Host:     "db",
		Port:     3306,
		User:     "root",
		Password: "p@ss:word",
		Database: "auth",
	})

	c, err := mysqldriver.ParseDSN(dsn)
	require.NoError(t, err)

	assert.Equal(t, "root", c.User)
	assert.Equal(t, "p@ss:word", c.Passwd)
	assert.Equal(t, "db:3306", c.Addr)
	assert.Equal(t, "auth", c.DBName)
	assert.True(t, c.ParseTime)
	assert.True(t, c.ClientFoundRows)
}

func TestPostgresDSN(t *testing.T) {
	dsn := PostgresDSN(config.DBConfig{
		Host:     "db",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss word",
		Database: "auth",
	})

	assert.Equal(t, "postgres://postgres:p%40ss%20word@db:5432/auth?sslmode=disable", dsn)
}

func TestDialector_UnknownDriver(t *testing.T) {
	_, err := Dialector(config.DBConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestNew_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.db")
	// inside docker the file has to exist up front
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	db, err := New(config.DBConfig{Driver: "sqlite", Path: path})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	assert.True(t, db.Migrator().HasTable(&model.User{}))
	assert.True(t, db.Migrator().HasIndex(&model.User{}, "Email"))
}
