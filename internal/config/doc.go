// Package config turns viper settings, environment variables and an
// optional .env file into the typed configuration of every component.
package config
