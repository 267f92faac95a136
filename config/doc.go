// Package config loads and validates the client configuration.
//
// Configuration is read with viper from an optional YAML file plus
// BURROW_-prefixed environment variables, decoded with duration-aware
// hooks, then validated with struct tags. [Manager.Watch] re-loads the
// file on change so a running client can pick up a refreshed server list
// without restarting.
package config
