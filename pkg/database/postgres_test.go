package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/korepetycje-admin/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "admin",
		Password: "secret",
		Name:     "korepetycje",
		SSLMode:  "disable",
	})

	assert.Equal(t, "host=db port=5432 user=admin password=secret dbname=korepetycje sslmode=disable", dsn)
}
