// Package config reads binary settings from flags and an optional YAML file.
// Flags given on the command line win over the file.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	op "github.com/XJIeI5/keypad/internal/operation"
)

type Config struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	DB         string `yaml:"db"`
	Secret     string `yaml:"secret"`
	Vocabulary string `yaml:"vocabulary"`
	History    string `yaml:"history"`
}

func Default() Config {
	return Config{
		Host:    "localhost",
		Port:    8080,
		DB:      "store.db",
		Secret:  "keypad",
		History: ".keypad_history",
	}
}

// FromFlags parses args with fs. A -config file is read first and the
// flags that were set explicitly are applied over it.
func FromFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Default()
	var path string
	fs.StringVar(&path, "config", "", "YAML config file")
	fs.StringVar(&cfg.Host, "host", cfg.Host, "host of server")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "port of server")
	fs.StringVar(&cfg.DB, "db", cfg.DB, "sqlite database file")
	fs.StringVar(&cfg.Secret, "secret", cfg.Secret, "token signing key")
	fs.StringVar(&cfg.Vocabulary, "vocabulary", cfg.Vocabulary, "YAML operator vocabulary (default built in)")
	fs.StringVar(&cfg.History, "history", cfg.History, "line history file, relative to the home directory")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if path == "" {
		return cfg, nil
	}

	fromFile, err := Load(path)
	if err != nil {
		return Config{}, err
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["host"] {
		cfg.Host = fromFile.Host
	}
	if !set["port"] {
		cfg.Port = fromFile.Port
	}
	if !set["db"] {
		cfg.DB = fromFile.DB
	}
	if !set["secret"] {
		cfg.Secret = fromFile.Secret
	}
	if !set["vocabulary"] {
		cfg.Vocabulary = fromFile.Vocabulary
	}
	if !set["history"] {
		cfg.History = fromFile.History
	}
	return cfg, nil
}

// Load reads a YAML file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Addr is the listen address; local hosts listen on every interface.
// A URL scheme in Host is dropped.
func (c Config) Addr() string {
	host := c.Host
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	host = strings.TrimSuffix(host, "/")
	if host == "localhost" || host == "127.0.0.1" {
		return fmt.Sprintf(":%d", c.Port)
	}
	return fmt.Sprintf("%s:%d", host, c.Port)
}

// Registry builds the operator registry from the configured vocabulary.
func (c Config) Registry() (*op.Registry, error) {
	if c.Vocabulary == "" {
		return op.Default(), nil
	}
	f, err := os.Open(c.Vocabulary)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	v, err := op.LoadVocabulary(f)
	if err != nil {
		return nil, fmt.Errorf("vocabulary %s: %w", c.Vocabulary, err)
	}
	return op.NewRegistry(v)
}
