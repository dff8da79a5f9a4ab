package config

import "os"

const (
	storageBackendEnvKey = "STORAGE_BACKEND"

	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type AppConfig struct {
	Backend string `yaml:"storage-backend"`
}

func (s *AppConfig) applyEnv() {
	if backend := os.Getenv(storageBackendEnvKey); backend != "" {
		s.Backend = backend
	}
}

func (s *AppConfig) StorageBackend() string {
	if s.Backend == "" {
		return BackendMemory
	}
	return s.Backend
}
