package main

import (
	"os"

	"braces.dev/errtrace"
	"gopkg.in/yaml.v3"

	"github.com/always-cache/cache-directive/rules"
)

type Config struct {
	Origin string      `yaml:"origin"`
	Host   string      `yaml:"host"`
	Port   int         `yaml:"port"`
	Rules  rules.Rules `yaml:"rules"`
}

func getConfig(filename string) (Config, error) {
	var config Config
	configBytes, err := os.ReadFile(filename)
	if err != nil {
		return config, errtrace.Wrap(err)
	}
	err = yaml.Unmarshal(configBytes, &config)
	return config, errtrace.Wrap(err)
}
