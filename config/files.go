package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// FileSystem is what the loader needs from the disk.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
	UserConfigDir() (string, error)
}

type osFS struct{}

func (osFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (osFS) LoadEnv(path string) error { return godotenv.Load(path) }

func (osFS) UserConfigDir() (string, error) { return os.UserConfigDir() }

// locate returns the config and .env files to read. Explicit paths win;
// otherwise the first existing candidate is used, most specific first.
func (lc LoaderConfig) locate(service string) (configFile, envFile string) {
	configFile, envFile = lc.ConfigFile, lc.EnvFile
	if configFile == "" {
		candidates := []string{
			filepath.Join(".", "cmd", service, "config.yml"),
			filepath.Join(".", "config", "config.yml"),
			filepath.Join(".", "config.yml"),
		}
		if dir, err := lc.FileSystem.UserConfigDir(); err == nil && dir != "" {
			candidates = append(candidates, filepath.Join(dir, "geokit", "config.yml"))
		}
		configFile = lc.firstExisting(candidates)
	}
	if envFile == "" {
		envFile = lc.firstExisting([]string{".env." + service, ".env", filepath.Join(".", "cmd", service, ".env")})
	}
	return configFile, envFile
}

func (lc LoaderConfig) firstExisting(paths []string) string {
	for _, p := range paths {
		if lc.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}
