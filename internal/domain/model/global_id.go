// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"regexp"
	"strconv"
)

// RecordType identifies one of the inventory record variants
type RecordType string

const (
	RecordTypeSample    RecordType = "SAMPLE"
	RecordTypeSubSample RecordType = "SUBSAMPLE"
	RecordTypeContainer RecordType = "CONTAINER"
	RecordTypeTemplate  RecordType = "TEMPLATE"
)

// Global id prefixes, unique across every record variant.
const (
	PrefixSample    = "SA"
	PrefixSubSample = "SS"
	PrefixContainer = "IC"
	PrefixBench     = "BE"
	PrefixTemplate  = "IT"
)

var globalIDPattern = regexp.MustCompile(`^(SA|SS|IC|BE|IT)([0-9]+)$`)

// GlobalID is a stable, type-prefixed record identifier such as "SA12" or
// "IC1". The zero value means "no record".
type GlobalID string

// ParseGlobalID validates s and returns it as a GlobalID
func ParseGlobalID(s string) (GlobalID, error) {
	if !globalIDPattern.MatchString(s) {
		return "", fmt.Errorf("malformed global id %q", s)
	}
	return GlobalID(s), nil
}

// NewGlobalID builds the global id of a record of the given type and numeric id
func NewGlobalID(recordType RecordType, id int64) GlobalID {
	var prefix string
	switch recordType {
	case RecordTypeSample:
		prefix = PrefixSample
	case RecordTypeSubSample:
		prefix = PrefixSubSample
	case RecordTypeContainer:
		prefix = PrefixContainer
	case RecordTypeTemplate:
		prefix = PrefixTemplate
	}
	return GlobalID(prefix + strconv.FormatInt(id, 10))
}

// IsZero reports whether the id is unset
func (g GlobalID) IsZero() bool {
	return g == ""
}

// Valid reports whether the id is well formed
func (g GlobalID) Valid() bool {
	return globalIDPattern.MatchString(string(g))
}

// Prefix returns the two letter type prefix, or "" for a malformed id
func (g GlobalID) Prefix() string {
	m := globalIDPattern.FindStringSubmatch(string(g))
	if m == nil {
		return ""
	}
	return m[1]
}

// ID returns the numeric part, or 0 for a malformed id
func (g GlobalID) ID() int64 {
	m := globalIDPattern.FindStringSubmatch(string(g))
	if m == nil {
		return 0
	}
	id, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// RecordType returns the record variant encoded in the prefix.
// Benches are containers.
func (g GlobalID) RecordType() RecordType {
	switch g.Prefix() {
	case PrefixSample:
		return RecordTypeSample
	case PrefixSubSample:
		return RecordTypeSubSample
	case PrefixContainer, PrefixBench:
		return RecordTypeContainer
	case PrefixTemplate:
		return RecordTypeTemplate
	}
	return ""
}

// IsContainer reports whether the id names a container or a bench
func (g GlobalID) IsContainer() bool {
	return g.RecordType() == RecordTypeContainer
}

func (g GlobalID) String() string {
	return string(g)
}
