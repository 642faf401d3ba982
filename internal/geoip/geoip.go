// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip provides IP-to-region lookup using the MaxMind GeoLite2-City database.
// The detected US state is used to suggest a default location context for
// visitors who land on pages without a location segment.
package geoip

import (
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/oschwald/maxminddb-golang"
)

// privateCIDRs contains parsed CIDR blocks for private IP ranges.
// Initialized once at package load time for efficiency.
var privateCIDRs []*net.IPNet

func init() {
	privateBlocks := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"fc00::/7",  // IPv6 unique local
		"fe80::/10", // IPv6 link-local
	}

	for _, block := range privateBlocks {
		_, cidr, err := net.ParseCIDR(block)
		if err == nil {
			privateCIDRs = append(privateCIDRs, cidr)
		}
	}
}

// Lookup handles IP to region lookup using the MaxMind GeoLite2-City database.
type Lookup struct {
	db          *maxminddb.Reader
	dbPath      string
	dbModTime   time.Time
	initialized bool
	enabled     bool
	mu          sync.RWMutex
}

// geoRecord matches the GeoLite2-City database structure.
type geoRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
	Subdivisions []struct {
		ISOCode string `maxminddb:"iso_code"`
		Names   struct {
			En string `maxminddb:"en"`
		} `maxminddb:"names"`
	} `maxminddb:"subdivisions"`
}

// NewLookup creates a new GeoIP lookup instance.
func NewLookup() *Lookup {
	return &Lookup{}
}

// Init initializes the GeoIP database from the given path.
// If path is empty, GeoIP lookups are disabled (graceful degradation).
func (g *Lookup) Init(dbPath string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.initialized = true
	g.dbPath = dbPath

	if dbPath == "" {
		g.enabled = false
		return nil
	}

	return g.loadDatabase()
}

// loadDatabase loads or reloads the MaxMind database.
// Caller must hold g.mu write lock.
func (g *Lookup) loadDatabase() error {
	// Check if file exists and get mod time
	info, err := os.Stat(g.dbPath)
	if err != nil {
		g.enabled = false
		if os.IsNotExist(err) {
			return fmt.Errorf("GeoIP database not found: %s", g.dbPath)
		}
		return fmt.Errorf("GeoIP database stat error: %w", err)
	}

	// Skip reload if not modified
	if g.db != nil && info.ModTime().Equal(g.dbModTime) {
		return nil
	}

	// Close existing database if any
	if g.db != nil {
		_ = g.db.Close()
		g.db = nil
	}

	db, err := maxminddb.Open(g.dbPath)
	if err != nil {
		g.enabled = false
		return fmt.Errorf("failed to open GeoIP database: %w", err)
	}

	g.db = db
	g.dbModTime = info.ModTime()
	g.enabled = true

	return nil
}

// Reload reloads the GeoIP database if it has been updated.
// Safe to call periodically (e.g., from a cron job).
func (g *Lookup) Reload() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.dbPath == "" {
		return nil
	}

	return g.loadDatabase()
}

// lookupRecord resolves an IP to a raw database record.
// Returns false for private, loopback or unresolvable addresses.
func (g *Lookup) lookupRecord(ip string) (geoRecord, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var record geoRecord

	if !g.initialized || !g.enabled || g.db == nil {
		return record, false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return record, false
	}
	if isPrivateIP(parsedIP) || parsedIP.IsLoopback() {
		return record, false
	}

	if err := g.db.Lookup(parsedIP, &record); err != nil {
		return record, false
	}
	return record, true
}

// LookupCountry returns the 2-letter ISO country code for an IP address.
// Returns empty string if GeoIP is disabled or the country cannot be determined.
func (g *Lookup) LookupCountry(ip string) string {
	record, ok := g.lookupRecord(ip)
	if !ok {
		return ""
	}
	return record.Country.ISOCode
}

// LookupStateSlug returns a lowercase state slug (e.g. "ga") for a US
// visitor IP, or empty string when the state cannot be determined.
// Non-US addresses always return empty string.
func (g *Lookup) LookupStateSlug(ip string) string {
	record, ok := g.lookupRecord(ip)
	if !ok {
		return ""
	}
	if record.Country.ISOCode != "US" || len(record.Subdivisions) == 0 {
		return ""
	}
	return strings.ToLower(record.Subdivisions[0].ISOCode)
}

// IsEnabled returns whether GeoIP lookups are available.
func (g *Lookup) IsEnabled() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.enabled
}

// Close closes the GeoIP database.
func (g *Lookup) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.db != nil {
		err := g.db.Close()
		g.db = nil
		g.enabled = false
		return err
	}
	return nil
}

// isPrivateIP checks if an IP address is in a private range.
func isPrivateIP(ip net.IP) bool {
	for _, cidr := range privateCIDRs {
		if cidr.Contains(ip) {
			return true
		}
	}
	return false
}
