// Package config loads gompage settings from a TOML file, .env files and
// GOMPAGE_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gompdf/gompage/internal/geometry"
	"github.com/gompdf/gompage/internal/render"
	"github.com/gompdf/gompage/internal/storage"
	"github.com/gompdf/gompage/pkg/api"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Page     PageConfig     `mapstructure:"page"`
	Chrome   ChromeConfig   `mapstructure:"chrome"`
	Output   OutputConfig   `mapstructure:"output"`
	Server   ServerConfig   `mapstructure:"server"`
	Printer  PrinterConfig  `mapstructure:"printer"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Resource ResourceConfig `mapstructure:"resources"`
}

// PageConfig describes the medium. Lengths are in millimetres.
type PageConfig struct {
	Size         string  `mapstructure:"size"`
	Orientation  string  `mapstructure:"orientation"`
	MarginTop    float64 `mapstructure:"margin_top"`
	MarginRight  float64 `mapstructure:"margin_right"`
	MarginBottom float64 `mapstructure:"margin_bottom"`
	MarginLeft   float64 `mapstructure:"margin_left"`
	HeaderHeight float64 `mapstructure:"header_height"`
	FooterHeight float64 `mapstructure:"footer_height"`
}

// ChromeConfig holds the running header and footer.
type ChromeConfig struct {
	Header      string `mapstructure:"header"`
	Footer      string `mapstructure:"footer"`
	PageNumbers bool   `mapstructure:"page_numbers"`
}

// OutputConfig holds CLI output settings.
type OutputConfig struct {
	Mode   string `mapstructure:"mode"`
	Format string `mapstructure:"format"`
	Debug  bool   `mapstructure:"debug"`
}

// ServerConfig holds preview server settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// PrinterConfig holds headless Chrome settings.
type PrinterConfig struct {
	ChromePath  string `mapstructure:"chrome_path"`
	PageNumbers bool   `mapstructure:"page_numbers"`
}

// StorageConfig selects where printed documents are kept.
type StorageConfig struct {
	Driver          string `mapstructure:"driver"`
	Dir             string `mapstructure:"dir"`
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	PublicURL       string `mapstructure:"public_url"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

// ResourceConfig lists directories searched for images and stylesheets.
type ResourceConfig struct {
	Paths []string `mapstructure:"paths"`
}

// Load reads configuration from path, or from GOMPAGE_CONFIG, ./gompage.toml
// or ~/.config/gompage/config.toml when path is empty. Values from .env files
// are added to the environment first; GOMPAGE_ variables override the file,
// e.g. GOMPAGE_PAGE_SIZE=letter.
func Load(path string, envFiles ...string) (Config, error) {
	if err := loadEnv(envFiles); err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if path == "" {
		path = os.Getenv("GOMPAGE_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "gompage"))
		v.SetConfigName("gompage")
	}

	v.SetEnvPrefix("GOMPAGE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("page.size", "A4")
	v.SetDefault("page.orientation", "portrait")
	v.SetDefault("page.margin_top", 15.0)
	v.SetDefault("page.margin_right", 20.0)
	v.SetDefault("page.margin_bottom", 20.0)
	v.SetDefault("page.margin_left", 20.0)
	v.SetDefault("page.header_height", 12.0)
	v.SetDefault("page.footer_height", 12.0)

	v.SetDefault("chrome.header", "")
	v.SetDefault("chrome.footer", "")
	v.SetDefault("chrome.page_numbers", true)

	v.SetDefault("output.mode", "preview")
	v.SetDefault("output.format", "html")
	v.SetDefault("output.debug", false)

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("printer.chrome_path", "")
	v.SetDefault("printer.page_numbers", true)

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.dir", "output")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.region", "")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key_id", "")
	v.SetDefault("storage.secret_access_key", "")
	v.SetDefault("storage.public_url", "")
	v.SetDefault("storage.use_path_style", false)

	v.SetDefault("resources.paths", []string{})
}

// loadEnv loads the given .env files, or ./.env when none are given.
// Missing files are skipped; variables already set are kept.
func loadEnv(files []string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Validate checks the values that cannot be checked by type alone
func (c Config) Validate() error {
	if _, ok := geometry.LookupPageSize(c.Page.Size); !ok {
		return fmt.Errorf("unknown page size %q", c.Page.Size)
	}
	switch strings.ToLower(c.Page.Orientation) {
	case "", "portrait", "landscape":
	default:
		return fmt.Errorf("unknown orientation %q", c.Page.Orientation)
	}
	if _, err := render.ParseMode(c.Output.Mode); err != nil {
		return err
	}
	if _, err := api.ParseFormat(c.Output.Format); err != nil {
		return err
	}
	return nil
}

// APIOptions converts the configuration into paginator options
func (c Config) APIOptions() []api.Option {
	p := c.Page
	opts := []api.Option{
		api.WithNamedPageSize(p.Size),
		api.WithMargins(geometry.MM(p.MarginTop), geometry.MM(p.MarginRight), geometry.MM(p.MarginBottom), geometry.MM(p.MarginLeft)),
		api.WithBands(geometry.MM(p.HeaderHeight), geometry.MM(p.FooterHeight)),
		api.WithPageNumbers(c.Chrome.PageNumbers),
		api.WithDebug(c.Output.Debug),
	}
	if strings.EqualFold(p.Orientation, "landscape") {
		opts = append(opts, api.WithPageOrientation(api.PageOrientationLandscape))
	}
	if c.Chrome.Header != "" || c.Chrome.Footer != "" {
		header, footer := c.Chrome.Header, c.Chrome.Footer
		opts = append(opts, func(o *api.Options) {
			if header != "" {
				o.Header = header
			}
			if footer != "" {
				o.Footer = footer
			}
		})
	}
	for _, path := range c.Resource.Paths {
		opts = append(opts, api.WithResourcePath(path))
	}
	return opts
}

// StorageOptions converts the storage section into a storage configuration
func (c Config) StorageOptions() storage.Config {
	s := c.Storage
	return storage.Config{
		Driver:          s.Driver,
		Dir:             s.Dir,
		Bucket:          s.Bucket,
		Region:          s.Region,
		Endpoint:        s.Endpoint,
		AccessKeyID:     s.AccessKeyID,
		SecretAccessKey: s.SecretAccessKey,
		PublicURL:       s.PublicURL,
		UsePathStyle:    s.UsePathStyle,
	}
}
