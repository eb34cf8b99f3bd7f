package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// envDirs lists the directories searched for env files: the working
// directory, then the executable's directory.
func envDirs() []string {
	var dirs []string
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	if exe, err := os.Executable(); err == nil {
		if dir := filepath.Dir(exe); dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// loadEnvFiles applies .env.local then .env from each dir. Variables that
// are already non-empty are left alone, so earlier files win.
func loadEnvFiles(dirs []string) {
	for _, dir := range dirs {
		for _, name := range []string{".env.local", ".env"} {
			vars, err := godotenv.Read(filepath.Join(dir, name))
			if err != nil {
				continue
			}
			applyEnv(vars)
		}
	}
}

func applyEnv(vars map[string]string) {
	for key, value := range vars {
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
}
