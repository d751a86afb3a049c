// Package config loads ssocache binary settings from a YAML file and
// SSOCACHE_* environment variables.
//
//	database:
//	  url: postgres://sso:secret@db:5432/sso
//	cache:
//	  backend: postgres   # redis or memory
//	  ttl_millis: 600000
//	  reaper: river       # local, river or none
//	log:
//	  level: info
//	  format: json
//
// Nested keys map to environment variables with dots replaced by
// underscores: SSOCACHE_CACHE_TTL_MILLIS, SSOCACHE_DATABASE_URL.
package config
