// Package config provides bcdl's settings file handling.
//
// Settings live in a JSON file (by default under the user config
// directory) and every field can be overridden through BCDL_* environment
// variables, which is how CI and one-off invocations avoid writing the
// identity cookie to disk.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
)

// Settings holds all configuration. The identity cookie is a credential:
// the file is written 0600 and the value must never be logged.
type Settings struct {
	// LibraryFolder is the root of the local music library.
	LibraryFolder string `json:"library_folder" env:"BCDL_LIBRARY_FOLDER"`

	// FanID identifies the account whose collection is enumerated.
	FanID string `json:"fan_id" env:"BCDL_FAN_ID"`

	// IdentityCookie is the opaque identity-session credential sent as a
	// cookie on every request.
	IdentityCookie string `json:"identity_cookie" env:"BCDL_IDENTITY_COOKIE"`

	// CachePath is the bbolt collection-cache location.
	CachePath string `json:"cache_path" env:"BCDL_CACHE_PATH"`

	// MaxConcurrentDownloads caps the per-album download fan-out.
	MaxConcurrentDownloads int `json:"max_concurrent_downloads" env:"BCDL_MAX_CONCURRENT_DOWNLOADS" env-default:"10"`

	// CollectionPageSize is the page size used against the listing API.
	CollectionPageSize int `json:"collection_page_size" env:"BCDL_COLLECTION_PAGE_SIZE" env-default:"25"`

	// ModifyTags enables ID3 tagging of downloaded tracks.
	ModifyTags bool `json:"modify_tags" env:"BCDL_MODIFY_TAGS"`

	// EmbedCoverArt embeds downloaded album art into the track tags.
	EmbedCoverArt bool `json:"embed_cover_art" env:"BCDL_EMBED_COVER_ART"`

	// CoverArtMaxSize is the maximum edge length of embedded art.
	CoverArtMaxSize int `json:"cover_art_max_size" env:"BCDL_COVER_ART_MAX_SIZE" env-default:"1000"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		LibraryFolder:          filepath.Join(homeDir, "Music", "bandcamp"),
		CachePath:              filepath.Join(homeDir, ".cache", "bcdl", "collection.db"),
		MaxConcurrentDownloads: 10,
		CollectionPageSize:     25,
		ModifyTags:             true,
		EmbedCoverArt:          true,
		CoverArtMaxSize:        1000,
	}
}

// DefaultPath returns the default settings file location.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(configDir, "bcdl", "config.json")
}

// Load reads settings from path, falling back to defaults when the file
// does not exist, and applies environment overrides in either case. Stat
// errors other than non-existence are returned rather than treated as a
// missing file, so an unreadable settings file is never silently ignored.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err := cleanenv.ReadConfig(path, settings); err != nil {
			return nil, err
		}
	case os.IsNotExist(err):
		if err := cleanenv.ReadEnv(settings); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return settings, nil
}

// Save writes settings to path as indented JSON, creating parent
// directories. Mode is 0600 because the file contains the credential.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
