package net

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
	"github.com/rs/zerolog/log"
)

// ServiceType is the mDNS service an authority advertises on the LAN.
const ServiceType = "_pixelboard._tcp"

const defaultPath = "/ws"

// ErrNoAuthority is returned when discovery finds nothing before the timeout.
var ErrNoAuthority = errors.New("no authority found on the local network")

// Discover browses the LAN for an authority and returns its websocket URL.
// The path comes from a "path=" TXT field and defaults to /ws.
func Discover(ctx context.Context, timeout time.Duration) (string, error) {
	return browse(ctx, ServiceType, timeout)
}

// Resolve returns the discovered authority URL. When discovery fails it
// falls back to fallback, if one is set.
func Resolve(ctx context.Context, fallback string, timeout time.Duration) (string, error) {
	return resolve(ctx, ServiceType, fallback, timeout)
}

func resolve(ctx context.Context, service, fallback string, timeout time.Duration) (string, error) {
	url, err := browse(ctx, service, timeout)
	switch {
	case err == nil:
		return url, nil
	case fallback != "":
		log.Warn().Err(err).Str("fallback", fallback).Msg("discovery failed, using configured url")
		return fallback, nil
	default:
		return "", err
	}
}

func browse(ctx context.Context, service string, timeout time.Duration) (string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	params := mdns.DefaultParams(service)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true

	queryErr := make(chan error, 1)
	go func() {
		queryErr <- mdns.Query(params)
		close(entries)
	}()

	for {
		select {
		case <-ctx.Done():
			go drain(entries)
			return "", ctx.Err()
		case e, ok := <-entries:
			if !ok {
				if err := <-queryErr; err != nil {
					return "", fmt.Errorf("mdns lookup failed: %w", err)
				}
				return "", ErrNoAuthority
			}
			url, ok := entryURL(e)
			if !ok {
				continue
			}
			log.Info().Str("instance", e.Name).Str("url", url).Msg("discovered authority")
			go drain(entries)
			return url, nil
		}
	}
}

// entryURL builds ws://ip:port/path from a service entry.
func entryURL(e *mdns.ServiceEntry) (string, bool) {
	if e == nil || e.AddrV4 == nil || e.Port == 0 {
		return "", false
	}
	path := defaultPath
	for _, field := range e.InfoFields {
		if v, ok := strings.CutPrefix(field, "path="); ok && strings.HasPrefix(v, "/") {
			path = v
		}
	}
	return fmt.Sprintf("ws://%s:%d%s", e.AddrV4.String(), e.Port, path), true
}

// drain keeps the query goroutine from blocking once a result was taken.
func drain(entries <-chan *mdns.ServiceEntry) {
	for range entries {
	}
}
