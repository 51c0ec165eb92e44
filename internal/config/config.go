// Package config loads the four JSON configuration documents that drive an
// incident generation run and persists the runtime counter between runs.
package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Document filenames within the configuration directory.
const (
	restConfigFile     = "RestConfig.json"
	standardConfigFile = "StandardConfig.json"
	customerConfigFile = "CustomerConfig.json"
	runtimeValuesFile  = "RuntimeValues.json"
)

// Default Remedy interface forms used when RestConfig.json does not name them.
const (
	DefaultCreateForm = "HPD:IncidentInterface_Create"
	DefaultModifyForm = "HPD:IncidentInterface"
)

// RestConfig holds the Remedy connection settings. The password is stored
// base64-encoded in the document and decoded exactly once at load time; the
// decoded value must never be logged.
type RestConfig struct {
	APIURL         string `json:"remedyApiUrl"`
	Username       string `json:"remedyUser"`
	Base64Password string `json:"remedyBase64Password"`
	CreateForm     string `json:"remedyCreateForm"`
	ModifyForm     string `json:"remedyModifyForm"`

	// Password is the decoded credential, populated by Load.
	Password string `json:"-"`
}

// StandardConfig holds the shared field value pools that apply to every
// company.
type StandardConfig struct {
	Statuses       []string `json:"Statuses"`
	Impacts        []string `json:"Impacts"`
	Urgencies      []string `json:"Urgencies"`
	Sources        []string `json:"Sources"`
	IncidentTypes  []string `json:"IncidentTypes"`
	PendingReasons []string `json:"PendingReasons"`
}

// CustomerConfig maps a company name to its installation-specific value pools.
type CustomerConfig map[string]CompanyConfig

// CompanyConfig holds the value pools configured for one company.
type CompanyConfig struct {
	ContactLogonIDs []string                `json:"ContactLogonIDs"`
	Services        []string                `json:"Services"`
	CIs             []string                `json:"CIs"`
	Assignees       map[string]SupportGroup `json:"Assignees"`
}

// SupportGroup describes the assignment routing for one support group plus
// the assignees that can be picked when an incident needs an owner.
type SupportGroup struct {
	SupportCompany      string   `json:"Support Company"`
	SupportOrganisation string   `json:"Support Organisation"`
	SupportAssignees    []string `json:"Support Assignees"`
}

// RuntimeValues holds the mutable state carried between runs. Users edit
// IncidentsToCreate by hand; NextIncidentNumber is advanced by each run.
type RuntimeValues struct {
	NextIncidentNumber int `json:"nextIncidentNumber"`
	IncidentsToCreate  int `json:"incidentsToCreate"`
}

// Config aggregates all four loaded documents.
type Config struct {
	Rest      RestConfig
	Standard  StandardConfig
	Customers CustomerConfig
	Runtime   RuntimeValues
}

// Load reads the four configuration documents from dir and returns the
// aggregate. Any missing file, malformed document, undecodable password or
// missing required key is an error; callers treat these as fatal before any
// network activity.
func Load(dir string) (*Config, error) {
	var cfg Config

	if err := loadJSON(filepath.Join(dir, restConfigFile), &cfg.Rest); err != nil {
		return nil, err
	}
	if err := loadJSON(filepath.Join(dir, standardConfigFile), &cfg.Standard); err != nil {
		return nil, err
	}
	if err := loadJSON(filepath.Join(dir, customerConfigFile), &cfg.Customers); err != nil {
		return nil, err
	}
	if err := loadJSON(filepath.Join(dir, runtimeValuesFile), &cfg.Runtime); err != nil {
		return nil, err
	}

	password, err := base64.StdEncoding.DecodeString(cfg.Rest.Base64Password)
	if err != nil {
		return nil, fmt.Errorf("%s: remedyBase64Password is not valid base64: %w", restConfigFile, err)
	}
	cfg.Rest.Password = string(password)

	if cfg.Rest.CreateForm == "" {
		cfg.Rest.CreateForm = DefaultCreateForm
	}
	if cfg.Rest.ModifyForm == "" {
		cfg.Rest.ModifyForm = DefaultModifyForm
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadJSON reads one document into v.
func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config document: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// validate checks that all required configuration fields are present.
func (c *Config) validate() error {
	if c.Rest.APIURL == "" {
		return fmt.Errorf("%s: remedyApiUrl is required", restConfigFile)
	}
	if c.Rest.Username == "" {
		return fmt.Errorf("%s: remedyUser is required", restConfigFile)
	}
	if c.Rest.Password == "" {
		return fmt.Errorf("%s: remedyBase64Password is required", restConfigFile)
	}
	if len(c.Customers) == 0 {
		return fmt.Errorf("%s: at least one company must be configured", customerConfigFile)
	}
	if c.Runtime.NextIncidentNumber < 0 {
		return fmt.Errorf("%s: nextIncidentNumber must not be negative", runtimeValuesFile)
	}
	if c.Runtime.IncidentsToCreate < 0 {
		return fmt.Errorf("%s: incidentsToCreate must not be negative", runtimeValuesFile)
	}
	return nil
}

// SaveRuntime writes the runtime values document back to dir. The document
// is human-edited between runs, so it is written indented. A failure here is
// reported by the caller but never undoes incidents already created.
func SaveRuntime(dir string, rv RuntimeValues) error {
	data, err := json.MarshalIndent(rv, "", "    ")
	if err != nil {
		return fmt.Errorf("encode runtime values: %w", err)
	}
	path := filepath.Join(dir, runtimeValuesFile)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", runtimeValuesFile, err)
	}
	return nil
}
