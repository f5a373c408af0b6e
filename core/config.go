package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const APP_NAME = "SteamLibrarian"

// Config is built once in main and handed to every component. Nothing
// below core reads the environment on its own.
type Config struct {
	SteamAPIKey  string `json:"steam_api_key"`
	SteamID      string `json:"steam_id"`
	ITADKey      string `json:"itad_key"`
	Country      string `json:"country"`
	SteamRoot    string `json:"steam_root"`
	SteamCmd     string `json:"steamcmd"`
	SteamLogin   string `json:"steamcmd_login"`
	DatabasePath string `json:"database_path"`
}

func getConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, APP_NAME), nil
}

func getConfigPath() (string, error) {
	dir, err := getConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "settings.json"), nil
}

func readConfigFile() (*Config, error) {
	config := &Config{}
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}
	return config, nil
}

// CommitConfig persists the settings file, creating the config dir on
// first use.
func CommitConfig(config *Config) error {
	data, err := json.Marshal(config)
	if err != nil {
		return err
	}
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	dir, err := getConfigDir()
	if err != nil {
		return err
	}

	err = os.MkdirAll(dir, os.ModePerm)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, os.ModePerm)
}

// LoadConfig builds the runtime configuration: settings file first (a
// missing file is fine), environment overrides on top, then defaults.
// defaultSteamRoot comes from the platform layer.
func LoadConfig(defaultSteamRoot string) (*Config, error) {
	config, err := readConfigFile()
	if err != nil {
		config = &Config{}
	}

	applyEnvOverrides(config)

	if config.Country == "" {
		config.Country = "US"
	}
	if config.SteamRoot == "" {
		config.SteamRoot = defaultSteamRoot
	}
	if config.SteamCmd == "" {
		config.SteamCmd = "steamcmd"
	}
	if config.SteamLogin == "" {
		config.SteamLogin = "anonymous"
	}
	if config.DatabasePath == "" {
		dir, err := getConfigDir()
		if err != nil {
			return nil, err
		}
		config.DatabasePath = filepath.Join(dir, "steam_games.db")
	}

	return config, nil
}

func applyEnvOverrides(config *Config) {
	overrides := []struct {
		env    string
		target *string
	}{
		{"STEAM_API_KEY", &config.SteamAPIKey},
		{"STEAM_ID", &config.SteamID},
		{"ITAD_KEY", &config.ITADKey},
		{"COUNTRY", &config.Country},
		{"STEAM_ROOT", &config.SteamRoot},
		{"STEAMCMD", &config.SteamCmd},
		{"STEAMCMD_LOGIN", &config.SteamLogin},
	}

	for _, o := range overrides {
		if value := os.Getenv(o.env); value != "" {
			*o.target = value
		}
	}
}

// SteamAppsDir is where the client keeps its appmanifest files.
func (c *Config) SteamAppsDir() string {
	return filepath.Join(c.SteamRoot, "steamapps")
}

// LibraryRoot is the shared install root all games live under.
func (c *Config) LibraryRoot() string {
	return filepath.Join(c.SteamAppsDir(), "common")
}

// ManifestPath returns the client-visible manifest location for an app.
func (c *Config) ManifestPath(appid int) string {
	return filepath.Join(c.SteamAppsDir(), fmt.Sprintf("appmanifest_%d.acf", appid))
}

// RequireSteamAPI validates the credentials the Steam Web API endpoints
// need, mirroring the original .env contract.
func (c *Config) RequireSteamAPI() error {
	if c.SteamAPIKey == "" || c.SteamID == "" {
		return fmt.Errorf("STEAM_API_KEY or STEAM_ID not set")
	}
	return nil
}

func (c *Config) RequireITAD() error {
	if c.ITADKey == "" {
		return fmt.Errorf("ITAD_KEY not set")
	}
	return nil
}
