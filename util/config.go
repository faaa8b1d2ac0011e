package util

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const Name = "folio"
const ConfigFileName = "config.yaml"

// FallbackDomain is used when no public URL is configured.
const FallbackDomain = "localhost"

//go:embed config_default.yaml
var embeddedConfig []byte

type AppConfig struct {
	Conf struct {
		Host      string
		HttpPort  int    `yaml:"httpPort"`
		PublicUrl string `yaml:"publicUrl"`
		DbPath    string `yaml:"dbPath"`
	}
}

// Domain returns the public hostname every federation identifier is built
// from: the configured public URL with a leading scheme stripped, or
// FallbackDomain when nothing is configured. Recomputed on every call so a
// reloaded configuration takes effect without a restart.
func (c *AppConfig) Domain() string {
	domain := c.Conf.PublicUrl
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	if domain == "" {
		return FallbackDomain
	}
	return domain
}

func ReadConf() (*AppConfig, error) {

	c := &AppConfig{}

	buf, err := os.ReadFile(ConfigFileName)
	if err != nil {
		log.Printf("Config file not found at %s, using embedded defaults", ConfigFileName)
		buf = embeddedConfig
	}

	err = yaml.Unmarshal(buf, c)
	if err != nil {
		return nil, fmt.Errorf("in config file: %w", err)
	}

	envHost := os.Getenv("FOLIO_HOST")
	envHttpPort := os.Getenv("FOLIO_HTTPPORT")
	envPublicUrl := os.Getenv("FOLIO_PUBLICURL")
	envDbPath := os.Getenv("FOLIO_DBPATH")

	if envHost != "" {
		c.Conf.Host = envHost
	}

	if envHttpPort != "" {
		v, err := strconv.Atoi(envHttpPort)
		if err != nil {
			fmt.Println(err)
		}
		c.Conf.HttpPort = v
	}

	if envPublicUrl != "" {
		c.Conf.PublicUrl = envPublicUrl
	}

	if envDbPath != "" {
		c.Conf.DbPath = envDbPath
	}

	return c, nil
}
