package config

// StorageConfig представляет конфигурацию файлового хранилища пользователей.
type StorageConfig struct {
	Path string `yaml:"path" env:"NOTES_STORAGE_PATH" env-default:"data/users.json"`
}
