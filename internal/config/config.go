// Package config provides functionality for managing configuration options
// for the server and the client using command-line flags, JSON config files
// and environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
)

// Default upstream endpoints used by the backend.
const (
	DefaultWordsURL = "https://random-word-api.herokuapp.com/word?number=100"
	DefaultHIBPURL  = "https://api.pwnedpasswords.com"
)

// Options holds the configuration values for the server.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"address"`

	// RedisAddr enables the breach range cache when set.
	RedisAddr string `json:"redis_addr"`

	// CertFile and KeyFile enable TLS when both are set.
	CertFile string `json:"cert"`
	KeyFile  string `json:"key"`

	// WordsURL is the remote word list used for passphrases.
	WordsURL string `json:"words_url"`

	// HIBPURL is the base URL of the Pwned Passwords range API.
	HIBPURL string `json:"hibp_url"`

	// Config is the path to the Config file.
	Config string `json:"-"`
}

// Parse reads the server configuration from os.Args and the environment.
func Parse() (*Options, error) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses args, then the JSON config file, then environment
// variables, each overriding the previous source.
func ParseArgs(args []string) (*Options, error) {
	options := &Options{}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	fs.StringVar(&options.RedisAddr, "redis", "", "redis address for the breach range cache")
	fs.StringVar(&options.CertFile, "cert", "", "path to TLS certificate")
	fs.StringVar(&options.KeyFile, "key", "", "path to TLS key")
	fs.StringVar(&options.WordsURL, "words-url", DefaultWordsURL, "remote word list URL")
	fs.StringVar(&options.HIBPURL, "hibp-url", DefaultHIBPURL, "pwned passwords API base URL")
	fs.StringVar(&options.Config, "config", "config.json", "path to config file")
	fs.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if err := readJSON(options.Config, options); err != nil {
		return nil, err
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Port = serverAddress
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		options.RedisAddr = redisAddr
	}

	if (options.CertFile == "") != (options.KeyFile == "") {
		return nil, errors.New("both -cert and -key are required for TLS")
	}

	return options, nil
}

// readJSON decodes the file at path into v. A missing file is not an error.
func readJSON(path string, v any) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	return nil
}
