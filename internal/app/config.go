package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (SHOPNOW_ prefix), flags, or YAML config files.
type Config struct {
	StoreDir   string `usage:"Directory for the persistent store (SHOPNOW_STORE_DIR)" flag:"store-dir"`
	CatalogKey string `default:"shopnow_products" usage:"Store key holding the product catalog" flag:"catalog-key"`
	CartKey    string `default:"shopnow_cart_v1" usage:"Store key holding the cart" flag:"cart-key"`
	Health     HealthConfig
}

// HealthConfig controls the background self-checks.
type HealthConfig struct {
	Interval           time.Duration `default:"10s" usage:"Check interval" flag:"health-interval"`
	GoroutineThreshold int           `default:"10000" usage:"Goroutine count liveness threshold" flag:"goroutine-threshold"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SHOPNOW",
		Files:     []string{"config.yaml", "/etc/shopnow/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	return &cfg, nil
}

// applyPlatformDefaults places the store under the platform cache directory
// when no explicit directory was configured.
func (c *Config) applyPlatformDefaults() {
	if c.StoreDir != "" {
		return
	}
	if dir, err := os.UserCacheDir(); err == nil {
		c.StoreDir = filepath.Join(dir, "shopnow")
	} else {
		c.StoreDir = filepath.Join(os.TempDir(), "shopnow")
	}
}
