package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validRestConfig = `{
	"remedyApiUrl": "https://remedy.example.com/api",
	"remedyUser": "blaster",
	"remedyBase64Password": "c2VjcmV0"
}`

const validStandardConfig = `{
	"Statuses": ["Assigned", "In Progress", "Pending"],
	"Impacts": ["3-Moderate/Limited"],
	"Urgencies": ["3-Medium"],
	"Sources": ["Direct Input"],
	"IncidentTypes": ["User Service Restoration"],
	"PendingReasons": ["Client Hold"]
}`

const validCustomerConfig = `{
	"Calbro Services": {
		"ContactLogonIDs": ["Allen"],
		"Services": ["Payroll Service"],
		"CIs": ["Payroll Application"],
		"Assignees": {
			"Service Desk": {
				"Support Company": "Calbro Services",
				"Support Organisation": "IT Support",
				"Support Assignees": ["Ian Plyment"]
			}
		}
	}
}`

const validRuntimeValues = `{
	"nextIncidentNumber": 42,
	"incidentsToCreate": 3
}`

// writeConfigDir lays down a complete, valid configuration directory and
// returns its path. Individual tests overwrite single documents to break
// them.
func writeConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeDoc(t, dir, restConfigFile, validRestConfig)
	writeDoc(t, dir, standardConfigFile, validStandardConfig)
	writeDoc(t, dir, customerConfigFile, validCustomerConfig)
	writeDoc(t, dir, runtimeValuesFile, validRuntimeValues)
	return dir
}

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func TestLoad(t *testing.T) {
	dir := writeConfigDir(t)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Rest.APIURL != "https://remedy.example.com/api" {
		t.Errorf("unexpected API URL %q", cfg.Rest.APIURL)
	}
	if cfg.Rest.Password != "secret" {
		t.Errorf("expected decoded password 'secret', got %q", cfg.Rest.Password)
	}
	if cfg.Rest.CreateForm != DefaultCreateForm {
		t.Errorf("expected default create form, got %q", cfg.Rest.CreateForm)
	}
	if cfg.Rest.ModifyForm != DefaultModifyForm {
		t.Errorf("expected default modify form, got %q", cfg.Rest.ModifyForm)
	}
	if cfg.Runtime.NextIncidentNumber != 42 {
		t.Errorf("expected counter 42, got %d", cfg.Runtime.NextIncidentNumber)
	}
	if cfg.Runtime.IncidentsToCreate != 3 {
		t.Errorf("expected incidentsToCreate 3, got %d", cfg.Runtime.IncidentsToCreate)
	}
	if _, ok := cfg.Customers["Calbro Services"]; !ok {
		t.Error("expected company 'Calbro Services' in customer config")
	}
}

func TestLoad_MissingDocument(t *testing.T) {
	dir := writeConfigDir(t)
	if err := os.Remove(filepath.Join(dir, runtimeValuesFile)); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("Load() expected error for missing document, got nil")
	}
}

func TestLoad_MalformedDocument(t *testing.T) {
	dir := writeConfigDir(t)
	writeDoc(t, dir, restConfigFile, `{"remedyApiUrl": `)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("Load() expected error for malformed document, got nil")
	}
	if !strings.Contains(err.Error(), restConfigFile) {
		t.Errorf("error should name the bad document, got %q", err)
	}
}

func TestLoad_BadBase64Password(t *testing.T) {
	dir := writeConfigDir(t)
	writeDoc(t, dir, restConfigFile, `{
		"remedyApiUrl": "https://remedy.example.com/api",
		"remedyUser": "blaster",
		"remedyBase64Password": "not!!base64"
	}`)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("Load() expected error for undecodable password, got nil")
	}
	if !strings.Contains(err.Error(), "base64") {
		t.Errorf("error should mention base64, got %q", err)
	}
}

func TestLoad_MissingRequiredKey(t *testing.T) {
	dir := writeConfigDir(t)
	writeDoc(t, dir, restConfigFile, `{
		"remedyUser": "blaster",
		"remedyBase64Password": "c2VjcmV0"
	}`)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("Load() expected error for missing remedyApiUrl, got nil")
	}
	if !strings.Contains(err.Error(), "remedyApiUrl") {
		t.Errorf("error should name the missing key, got %q", err)
	}
}

func TestLoad_NegativeCounter(t *testing.T) {
	dir := writeConfigDir(t)
	writeDoc(t, dir, runtimeValuesFile, `{"nextIncidentNumber": -1, "incidentsToCreate": 3}`)

	if _, err := Load(dir); err == nil {
		t.Error("Load() expected error for negative counter, got nil")
	}
}

func TestSaveRuntime_RoundTrip(t *testing.T) {
	dir := writeConfigDir(t)

	rv := RuntimeValues{NextIncidentNumber: 1234, IncidentsToCreate: 7}
	if err := SaveRuntime(dir, rv); err != nil {
		t.Fatalf("SaveRuntime() error = %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() after save error = %v", err)
	}
	if cfg.Runtime != rv {
		t.Errorf("round trip mismatch: saved %+v, loaded %+v", rv, cfg.Runtime)
	}
}

func TestSaveRuntime_UnwritablePath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does-not-exist")

	if err := SaveRuntime(dir, RuntimeValues{NextIncidentNumber: 1}); err == nil {
		t.Error("SaveRuntime() expected error for missing directory, got nil")
	}
}
