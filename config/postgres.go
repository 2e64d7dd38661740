package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"webservers/service"

	"gopkg.in/yaml.v3"
)

// Env variable names of the database connection.
const (
	envAppSettingsPath = "APPSETTINGS_PATH"
	envDBHost          = "DB_HOST"
	envDBPort          = "DB_PORT"
	envDBName          = "DB_NAME"
	envDBUser          = "DB_USER"
	envDBPassword      = "DB_PASSWORD"
	envDBSchema        = "DB_SCHEMA"
	envDBSSLMode       = "DB_SSLMODE"
)

const (
	defaultDBPort    = 5432
	defaultDBSchema  = "fish_mmo_postgresql"
	defaultDBSSLMode = "disable"
)

// Postgres holds the endpoint store connection settings.
type Postgres struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	Schema   string
	SSLMode  string
}

// appSettings is the part of the game's appsettings file read here. JSON files parse as YAML.
type appSettings struct {
	Npgsql struct {
		Host     string `yaml:"Host"`
		Port     string `yaml:"Port"`
		Database string `yaml:"Database"`
		Username string `yaml:"Username"`
		Password string `yaml:"Password"`
	} `yaml:"Npgsql"`
}

// LoadPostgres reads the Npgsql section of APPSETTINGS_PATH when set, then applies DB_* overrides.
// Host, database and user are required.
func LoadPostgres() (Postgres, error) {
	p := Postgres{Port: defaultDBPort}

	if path := String(envAppSettingsPath, ""); path != "" {
		if err := p.loadAppSettings(path); err != nil {
			return Postgres{}, err
		}
	}

	p.Host = String(envDBHost, p.Host)
	p.Database = String(envDBName, p.Database)
	p.User = String(envDBUser, p.User)
	p.Password = String(envDBPassword, p.Password)
	p.Schema = String(envDBSchema, defaultDBSchema)
	p.SSLMode = String(envDBSSLMode, defaultDBSSLMode)

	port, err := Port(envDBPort, p.Port)
	if err != nil {
		return Postgres{}, err
	}
	p.Port = port

	required := []struct{ name, value string }{
		{envDBHost, p.Host},
		{envDBName, p.Database},
		{envDBUser, p.User},
	}
	for _, r := range required {
		if r.value == "" {
			return Postgres{}, service.NewConfigError(fmt.Sprintf("%s is required (or Npgsql section of %s)", r.name, envAppSettingsPath), nil)
		}
	}
	return p, nil
}

func (p *Postgres) loadAppSettings(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return service.NewConfigError("cannot read appsettings file", err)
	}
	var settings appSettings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return service.NewConfigError("cannot parse appsettings file", err)
	}

	n := settings.Npgsql
	p.Host, p.Database, p.User, p.Password = n.Host, n.Database, n.Username, n.Password
	if n.Port != "" {
		port, err := strconv.Atoi(strings.TrimSpace(n.Port))
		if err != nil || port < 1 || port > 65535 {
			return service.NewConfigError("invalid Npgsql.Port in appsettings file", err)
		}
		p.Port = port
	}
	return nil
}

// DSN returns the libpq keyword/value connection string.
func (p Postgres) DSN() string {
	parts := []string{
		dsnPair("host", p.Host),
		dsnPair("port", strconv.Itoa(p.Port)),
		dsnPair("dbname", p.Database),
		dsnPair("user", p.User),
	}
	if p.Password != "" {
		parts = append(parts, dsnPair("password", p.Password))
	}
	parts = append(parts, dsnPair("sslmode", p.SSLMode))
	return strings.Join(parts, " ")
}

// String is DSN without the password, for logs.
func (p Postgres) String() string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s sslmode=%s", p.Host, p.Port, p.Database, p.User, p.SSLMode)
}

// dsnPair quotes value when it is empty or holds spaces, quotes or backslashes.
func dsnPair(key, value string) string {
	if value != "" && !strings.ContainsAny(value, ` '\`) {
		return key + "=" + value
	}
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(value)
	return key + "='" + escaped + "'"
}
