package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// expandEnvVar expands an environment variable reference.
// Supports both $VAR and ${VAR} syntax; an unset variable expands to "".
func expandEnvVar(value string) string {
	if !strings.HasPrefix(value, "$") {
		return value
	}

	var envVarName string
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVarName = value[2 : len(value)-1]
	} else {
		envVarName = strings.TrimPrefix(value, "$")
	}

	return os.Getenv(envVarName)
}

// UserConfigDir returns $HOME/.config/sitechat
func UserConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", "sitechat"), nil
}

// DefaultSessionDir returns the directory archives go to when session_dir is
// not configured: "sessions" next to the config file in use, otherwise
// $HOME/.config/sitechat/sessions.
func DefaultSessionDir(v *viper.Viper) (string, error) {
	if configFile := v.ConfigFileUsed(); configFile != "" {
		configDir, err := absDir(filepath.Dir(configFile))
		if err != nil {
			return "", err
		}
		return filepath.Join(configDir, "sessions"), nil
	}

	userDir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userDir, "sessions"), nil
}

// ResolvePath converts a relative path to an absolute one, relative to the
// directory of the config file in use or to the working directory.
func ResolvePath(v *viper.Viper, path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("error getting user home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}

	if filepath.IsAbs(path) {
		return path, nil
	}

	configFile := v.ConfigFileUsed()
	if configFile == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("error getting current working directory: %w", err)
		}
		return filepath.Join(cwd, path), nil
	}

	configDir, err := absDir(filepath.Dir(configFile))
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, path), nil
}

func absDir(dir string) (string, error) {
	if filepath.IsAbs(dir) {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("error getting current working directory: %w", err)
	}
	return filepath.Join(cwd, dir), nil
}
