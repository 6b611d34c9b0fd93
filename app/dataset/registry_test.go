package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRegistryLoadValidConfig(t *testing.T) {
	tempDir := t.TempDir()

	content := `
title: "국회앞 식당정보"
sheet_id: "12xZfClkzATbByAZDYtM5KV2THzVvg2cV3KvVAZ621PQ"
gid: "0"
ttl: 300
link_column: "링크"
link_targets:
  - "상호명"
  - "장소"
`

	err := os.WriteFile(filepath.Join(tempDir, "restaurants.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	registry := NewRegistry(tempDir, 600)
	if err := registry.Run(); err != nil {
		t.Fatal(err)
	}

	if registry.GetConfigCount() != 1 {
		t.Errorf("Expected 1 dataset, got %d", registry.GetConfigCount())
	}

	config, err := registry.GetConfig("restaurants")
	if err != nil {
		t.Fatal(err)
	}

	if config.Name != "restaurants" {
		t.Errorf("Expected name 'restaurants', got '%s'", config.Name)
	}
	if config.Title != "국회앞 식당정보" {
		t.Errorf("Expected title '국회앞 식당정보', got '%s'", config.Title)
	}
	if config.CacheTTL() != 300*time.Second {
		t.Errorf("Expected TTL 300s, got %v", config.CacheTTL())
	}
	if len(config.LinkTargets) != 2 {
		t.Errorf("Expected 2 link targets, got %d", len(config.LinkTargets))
	}
}

func TestRegistryLoadConfigWithDefaults(t *testing.T) {
	tempDir := t.TempDir()

	err := os.WriteFile(filepath.Join(tempDir, "menu.yml"), []byte(`sheet_id: "abc"`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	registry := NewRegistry(tempDir, 120)
	if err := registry.Run(); err != nil {
		t.Fatal(err)
	}

	config, err := registry.GetConfig("menu")
	if err != nil {
		t.Fatal(err)
	}

	if config.TTL != 120 {
		t.Errorf("Expected default TTL 120, got %d", config.TTL)
	}
	if config.Title != "menu" {
		t.Errorf("Expected title to default to name, got '%s'", config.Title)
	}
}

func TestRegistryInvalidConfig(t *testing.T) {
	tempDir := t.TempDir()

	err := os.WriteFile(filepath.Join(tempDir, "broken.yml"), []byte(`title: "no sheet"`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	registry := NewRegistry(tempDir, 600)
	err = registry.Run()
	if err == nil {
		t.Fatal("Expected error for config without sheet ID")
	}
	if !strings.Contains(err.Error(), "sheet ID is required") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestRegistryNegativeTTL(t *testing.T) {
	registry := NewRegistry(t.TempDir(), 600)

	err := registry.Add(&Config{Name: "x", SheetID: "abc", TTL: -1})
	if err == nil {
		t.Error("Expected error for negative TTL")
	}
}

func TestRegistryMissingDirectory(t *testing.T) {
	registry := NewRegistry(filepath.Join(t.TempDir(), "missing"), 600)

	if err := registry.Run(); err != nil {
		t.Errorf("Expected no error for missing directory, got %v", err)
	}
	if registry.GetConfigCount() != 0 {
		t.Errorf("Expected no datasets, got %d", registry.GetConfigCount())
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	registry := NewRegistry(t.TempDir(), 600)

	if _, err := registry.GetConfig("nope"); err == nil {
		t.Error("Expected error for unknown dataset")
	}
}

func TestRegistryGetConfigsSorted(t *testing.T) {
	registry := NewRegistry(t.TempDir(), 600)
	registry.Add(&Config{Name: "b", SheetID: "2"})
	registry.Add(&Config{Name: "a", SheetID: "1"})

	configs := registry.GetConfigs()
	if len(configs) != 2 || configs[0].Name != "a" || configs[1].Name != "b" {
		t.Errorf("Expected datasets sorted by name, got %v", configs)
	}
}

func TestConfigExportURL(t *testing.T) {
	base := "https://docs.google.com/spreadsheets/d/"

	config := &Config{SheetID: "12xZfClk"}
	if got := config.ExportURL(base); got != base+"12xZfClk/export?format=csv" {
		t.Errorf("Unexpected export URL: %s", got)
	}

	config.GID = "123456"
	if got := config.ExportURL(base); got != base+"12xZfClk/export?format=csv&gid=123456" {
		t.Errorf("Unexpected export URL with gid: %s", got)
	}

	config = &Config{SheetID: "시트 1"}
	if got := config.ExportURL(base); strings.ContainsAny(got, " 시") {
		t.Errorf("Expected sheet ID to be percent-encoded, got %s", got)
	}
}
