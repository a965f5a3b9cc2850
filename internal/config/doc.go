// Package config loads, normalizes, and validates yt2audio configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// YT2AUDIO_STORE_DIR and YT2AUDIO_REDIS_ADDR. The Limits table carries the
// numeric bounds shared by command validation, split planning and payload
// assembly so that none of them hard-code their own copies.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
