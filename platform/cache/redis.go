// Package cache provides the shared Redis connection settings.
// This is part of the platform layer and contains no business logic.
package cache

import (
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// ParseOptions parses a redis:// or rediss:// URL, optionally relaxing TLS
// verification for managed providers with self-signed chains.
func ParseOptions(redisURL string, tlsInsecure bool) (*redis.Options, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		opt.TLSConfig = clone
	} else if tlsInsecure {
		opt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return opt, nil
}

// NewClient opens a go-redis client for the given URL.
func NewClient(redisURL string, tlsInsecure bool) (*redis.Client, error) {
	opt, err := ParseOptions(redisURL, tlsInsecure)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}
