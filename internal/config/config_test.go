package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DriverMySQL, cfg.DB.Driver)
	assert.Equal(t, "root:root@tcp(localhost:3306)/crush?parseTime=true&charset=utf8mb4&loc=UTC", cfg.DB.DSN)
	assert.Equal(t, "sunday", cfg.Reveal.Weekday)
	assert.Equal(t, 20, cfg.Reveal.Hour)
	assert.Equal(t, 24*time.Hour, cfg.Reveal.Window)
	assert.Equal(t, "127.0.0.1:50051", cfg.GRPCAddr())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "crush.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
db:
  driver: sqlite
  name: campus
reveal:
  weekday: friday
  hour: 18
  timezone: Asia/Kolkata
  window: 12h
http:
  allowedOrigins:
    - https://genwin.example
`), 0o600))

	t.Setenv("REVEAL_HOUR", "21")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("AUTH_BCRYPT_COST", "4")

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "campus.db", cfg.DB.DSN)
	assert.Equal(t, "friday", cfg.Reveal.Weekday)
	assert.Equal(t, 21, cfg.Reveal.Hour, "env must win over the file")
	assert.Equal(t, "Asia/Kolkata", cfg.Reveal.Timezone)
	assert.Equal(t, 12*time.Hour, cfg.Reveal.Window)
	assert.Equal(t, []string{"https://genwin.example"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
}

func TestLoad_ExplicitDSNIsKept(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "postgres://u:p@db/crush")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db/crush", cfg.DB.DSN)
}

func TestBuildDSN_Postgres(t *testing.T) {
	d := DBConfig{Driver: DriverPostgres, Host: "db", Port: "5432", User: "u", Password: "p", Name: "crush"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=crush sslmode=disable TimeZone=UTC", d.BuildDSN())
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.DB.Driver = "mongo"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.HTTP.Port = "http"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Log.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
