/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"github.com/suparena/metastore/errors"
)

// rootsPartition is the index partition every root item shares.
const rootsPartition = "ROOTS"

// GSIConfig names the global secondary index root items are listed through.
type GSIConfig struct {
	// IndexName is the GSI name in DynamoDB (e.g., "GSI1")
	IndexName string
	// PartitionKeyName holds rootsPartition on every root item (e.g., "PK1").
	PartitionKeyName string
	// SortKeyName holds "<created>#<root id>" so roots list oldest first (e.g., "SK1").
	SortKeyName string
}

// DefaultGSIConfigs are the index layouts known by name.
var DefaultGSIConfigs = map[string]GSIConfig{
	"GSI1": {
		IndexName:        "GSI1",
		PartitionKeyName: "PK1",
		SortKeyName:      "SK1",
	},
}

// GetGSIConfig returns the GSI configuration for a given index name
func GetGSIConfig(indexName string) (GSIConfig, bool) {
	config, ok := DefaultGSIConfigs[indexName]
	return config, ok
}

// RootsIndex returns the known layout for name, or a layout named name with
// the PK1/SK1 key attributes. An empty name selects GSI1.
func RootsIndex(name string) GSIConfig {
	if name == "" {
		return defaultIndex()
	}
	if cfg, ok := GetGSIConfig(name); ok {
		return cfg
	}
	return GSIConfig{IndexName: name, PartitionKeyName: "PK1", SortKeyName: "SK1"}
}

// Validate reports a layout that cannot be queried.
func (c GSIConfig) Validate() error {
	switch {
	case c.IndexName == "":
		return errors.NewValidationError("index", "index name is required")
	case c.PartitionKeyName == "" || c.SortKeyName == "":
		return errors.NewValidationError(c.IndexName, "index key attributes are required")
	case c.PartitionKeyName == "PK" || c.SortKeyName == "SK":
		return errors.NewValidationError(c.IndexName, "index keys must differ from the table keys")
	}
	return nil
}

// rootKeys are the index attribute values of a root item.
func (c GSIConfig) rootKeys(created, id string) map[string]string {
	return map[string]string{
		c.PartitionKeyName: rootsPartition,
		c.SortKeyName:      created + "#" + id,
	}
}

func defaultIndex() GSIConfig {
	cfg, _ := GetGSIConfig("GSI1")
	return cfg
}
