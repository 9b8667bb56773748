// Package config loads and validates the server configuration: API bind
// address, Elasticsearch connection, the service registry, streaming,
// authentication and alerting. Values come from an optional YAML file with
// environment overrides (ELASTICSEARCH_HOST, API_HOST, API_PORT) layered on
// top; secrets are always resolved from the environment.
package config
