package config

import (
	"crypto/tls"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisOptions accepts either a redis:// URL or the Azure Cache style
// "host:port,password=...,ssl=True" string.
func (c Config) RedisOptions() (*redis.Options, error) {
	raw := strings.TrimSpace(c.RedisConnectionString)
	if raw == "" {
		return nil, errors.New("missing redis_connection_string")
	}
	if opts, err := redis.ParseURL(raw); err == nil {
		return opts, nil
	}
	parts := strings.Split(raw, ",")
	opts := &redis.Options{Addr: strings.TrimSpace(parts[0])}
	for _, p := range parts[1:] {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "password":
			opts.Password = v
		case "ssl":
			if strings.EqualFold(strings.TrimSpace(v), "true") {
				opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
			}
		}
	}
	return opts, nil
}
