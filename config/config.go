package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Storage struct {
		// Driver selects the durable key-value backend: "postgres" or "redis".
		Driver        string `mapstructure:"driver"`
		TokenKey      string `mapstructure:"token_key"`
		EncryptionKey string `mapstructure:"encryption_key"`
		Migrations    string `mapstructure:"migrations"`
	} `mapstructure:"storage"`
	API struct {
		BaseURL string        `mapstructure:"base_url"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"api"`
	Cache struct {
		TTL time.Duration `mapstructure:"ttl"`
	} `mapstructure:"cache"`
	DeepLink struct {
		Scheme         string   `mapstructure:"scheme"`
		WebPrefixes    []string `mapstructure:"web_prefixes"`
		CoercionPolicy string   `mapstructure:"coercion_policy"`
	} `mapstructure:"deeplink"`
}

var AppConfig Config

func setDefaults() {
	viper.SetDefault("server.port", "8787")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("storage.driver", "postgres")
	viper.SetDefault("storage.token_key", "authToken")
	viper.SetDefault("storage.migrations", "file://db/migrations")
	viper.SetDefault("api.timeout", 15*time.Second)
	viper.SetDefault("cache.ttl", 5*time.Minute)
	viper.SetDefault("deeplink.scheme", "granite://")
	viper.SetDefault("deeplink.coercion_policy", "fail")
}

func LoadConfig(path string) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load(path + "/.env")

	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	setDefaults()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
