package config

import "os"

const (
	postgresHostEnvKey = "POSTGRES_HOST"
	postgresDbEnvKey   = "POSTGRES_DB"
	postgresUserEnvKey = "POSTGRES_USER"
	postgresPswdEnvKey = "POSTGRES_PASSWORD"
)

type PostgresConfig struct {
	Hostname string `yaml:"host"`
	Db       string `yaml:"db"`
	User     string `yaml:"username"`
	Pswd     string `yaml:"password"`
}

func (s *PostgresConfig) applyEnv() {
	if host := os.Getenv(postgresHostEnvKey); host != "" {
		s.Hostname = host
	}
	if db := os.Getenv(postgresDbEnvKey); db != "" {
		s.Db = db
	}
	if user := os.Getenv(postgresUserEnvKey); user != "" {
		s.User = user
	}
	if pswd := os.Getenv(postgresPswdEnvKey); pswd != "" {
		s.Pswd = pswd
	}
}

func (s *PostgresConfig) Host() string {
	return s.Hostname
}

func (s *PostgresConfig) Database() string {
	return s.Db
}

func (s *PostgresConfig) Username() string {
	return s.User
}

func (s *PostgresConfig) Password() string {
	return s.Pswd
}
