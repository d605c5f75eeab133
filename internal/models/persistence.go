package models

// Storage is the V2 snapshot envelope with an explicit version field.
// V1 files (no version, bare users map) still unmarshal into this struct
// with Version as zero-value, enabling seamless migration.
type Storage struct {
	Version    int                          `json:"version"`
	Users      map[string]*User             `json:"users"`
	Activities map[string]*Activity         `json:"activities"`
	History    map[string][]*XPHistoryEntry `json:"history"`
	Accounts   []ConnectedAccount           `json:"accounts"`
}

// StorageVersion is the current snapshot format version.
const StorageVersion = 2
