package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aria/internal/config"
	"aria/internal/repository/postgres"
)

func TestNewDB_Unreachable(t *testing.T) {
	db, err := postgres.NewDB(context.Background(), &config.DBConfig{
		Host: "127.0.0.1", Port: 1, User: "aria", Password: "x", Name: "aria", SSLMode: "disable",
		MaxOpen: 1, MaxIdle: 1,
	})

	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "connecting to postgres")
}
