package utils

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"gopkg.in/yaml.v2"
)

var EtcDir = "."
var DataDir = "."

// DefaultExtensions are tried in order when looking for the data file
// that belongs to a header.
var DefaultExtensions = []string{".dat", ".DAT", ".raw", ""}

// APIConfig holds the settings of the metadata API server.
type APIConfig struct {
	Port        int    `yaml:"port"`
	MaxConns    int    `yaml:"max_conns"`
	Memcache    string `yaml:"memcache"`
	DBName      string `yaml:"database"`
	DBUser      string `yaml:"db_user"`
	DBHost      string `yaml:"db_host"`
	DBPool      int    `yaml:"db_pool"`
	DBLimit     int    `yaml:"db_limit"`
	TemplateDir string `yaml:"template_dir"`
}

// CrawlConfig holds the defaults of the crawler.
type CrawlConfig struct {
	Concurrency int    `yaml:"concurrency"`
	Pattern     string `yaml:"pattern"`
	Format      string `yaml:"format"`
}

// Config is the YAML configuration shared by the executables.
type Config struct {
	Extensions  []string    `yaml:"extensions"`
	Quiet       bool        `yaml:"quiet"`
	JPEGQuality int         `yaml:"jpeg_quality"`
	Palette     *Palette    `yaml:"palette"`
	API         APIConfig   `yaml:"api"`
	Crawl       CrawlConfig `yaml:"crawl"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

func (config *Config) applyDefaults() {
	if len(config.Extensions) == 0 {
		config.Extensions = append([]string{}, DefaultExtensions...)
	}
	if config.JPEGQuality <= 0 {
		config.JPEGQuality = DefaultJPEGQuality
	}
	if config.API.Port <= 0 {
		config.API.Port = 8080
	}
	if config.API.MaxConns <= 0 {
		config.API.MaxConns = 256
	}
	if len(config.API.DBName) == 0 {
		config.API.DBName = "mas"
	}
	if len(config.API.DBUser) == 0 {
		config.API.DBUser = "api"
	}
	if len(config.API.DBHost) == 0 {
		config.API.DBHost = "/var/run/postgresql"
	}
	if config.API.DBPool <= 0 {
		config.API.DBPool = 8
	}
	if config.API.DBLimit <= 0 {
		config.API.DBLimit = 64
	}
	if len(config.API.TemplateDir) == 0 {
		config.API.TemplateDir = DataDir + "/templates"
	}
	if config.Crawl.Concurrency <= 0 {
		config.Crawl.Concurrency = 16
	}
	if len(config.Crawl.Format) == 0 {
		config.Crawl.Format = "tsv"
	}
}

// Validate checks the settings that defaults cannot repair.
func (config *Config) Validate() error {
	if config.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be between 1 and 100: %d", config.JPEGQuality)
	}
	if config.Palette != nil {
		if _, err := GradientRGBAPalette(config.Palette); err != nil {
			return err
		}
	}
	switch config.Crawl.Format {
	case "tsv", "json", "yaml":
	default:
		return fmt.Errorf("unsupported crawl format: %s", config.Crawl.Format)
	}
	return nil
}

// LoadConfigFile reads a YAML document, fills in defaults for absent
// settings and validates the result.
func LoadConfigFile(configFile string) (*Config, error) {
	cfg, err := ioutil.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("Error while reading config file: %s. Error: %v", configFile, err)
	}
	return ParseConfig(cfg, configFile)
}

func ParseConfig(cfg []byte, name string) (*Config, error) {
	config := &Config{}
	err := yaml.Unmarshal(cfg, config)
	if err != nil {
		return nil, fmt.Errorf("Error at YAML parsing config document: %s. Error: %v", name, err)
	}
	config.applyDefaults()
	if err = config.Validate(); err != nil {
		return nil, fmt.Errorf("Invalid config document: %s. Error: %v", name, err)
	}
	return config, nil
}

// DumpConfig renders config back to YAML.
func DumpConfig(config *Config) (string, error) {
	out, err := yaml.Marshal(config)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// WatchConfig reloads configFile into current whenever the process
// receives SIGHUP. A file that fails to load leaves current untouched.
func WatchConfig(infoLog, errLog *log.Logger, configFile string, current *atomic.Value) {
	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	go func() {
		for range sighup {
			infoLog.Println("Caught SIGHUP, reloading config...")
			config, err := LoadConfigFile(configFile)
			if err != nil {
				errLog.Printf("Error in loading config file: %v\n", err)
				continue
			}
			current.Store(config)
		}
	}()
}
