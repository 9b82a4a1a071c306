package connstr

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestProvider_ResolveRegistered(t *testing.T) {
	p := NewProvider(Map{"Default": "host=db dbname=app"})

	cs, err := p.ConnectionString()
	if err != nil {
		t.Fatalf("ConnectionString: %v", err)
	}
	if cs != "host=db dbname=app" {
		t.Errorf("unexpected connection string %q", cs)
	}
}

func TestProvider_UnregisteredName(t *testing.T) {
	p := NewProvider(Map{"Default": "host=db"})

	// a successful resolution must not affect later failures
	if _, err := p.Resolve("Default"); err != nil {
		t.Fatalf("Resolve(Default): %v", err)
	}

	p.SetName("BadConnectionStringName")
	_, err := p.ConnectionString()
	if !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}

	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatal("expected *Error")
	}
	if cerr.Name != "BadConnectionStringName" {
		t.Errorf("expected name BadConnectionStringName, got %s", cerr.Name)
	}
}

func TestProvider_SetName(t *testing.T) {
	p := NewProvider(Map{
		"Default":      "Data Source=OldDataSource;Initial Catalog=App",
		"NewValidName": "Data Source=NewDataSource;Initial Catalog=App",
	})

	p.SetName("NewValidName")
	cs, err := p.ConnectionString()
	if err != nil {
		t.Fatalf("ConnectionString: %v", err)
	}
	if !strings.Contains(cs, "NewDataSource") {
		t.Errorf("expected NewDataSource in %q", cs)
	}

	p.Reset()
	if p.Name() != DefaultName {
		t.Errorf("expected %s after Reset, got %s", DefaultName, p.Name())
	}
}

func TestProvider_ApplicationName(t *testing.T) {
	p := NewProvider(Map{
		"Default": "postgres://app@localhost:5432/app?sslmode=disable",
		"Ado":     "Data Source=db;Initial Catalog=App",
		"Keyword": "host=db dbname=app",
	})

	p.SetApplicationName("NewApplicationName")
	for _, name := range []string{"Default", "Ado", "Keyword"} {
		cs, err := p.Resolve(name)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", name, err)
		}
		if !strings.Contains(cs, "NewApplicationName") {
			t.Errorf("%s: expected application name in %q", name, cs)
		}
	}

	p.ClearApplicationName()
	cs, err := p.Resolve("Default")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cs != "postgres://app@localhost:5432/app?sslmode=disable" {
		t.Errorf("expected the unmodified connection string after clear, got %q", cs)
	}
	if _, ok := p.ApplicationName(); ok {
		t.Error("application name should be unset")
	}
}

func TestProvider_RegisterOverridesSources(t *testing.T) {
	p := NewProvider(Map{"Default": "from-source"})
	p.Register("Default", "host=registered")

	cs, err := p.Resolve("Default")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cs != "host=registered" {
		t.Errorf("expected registered entry, got %q", cs)
	}
}

func TestChain_FirstMatchWins(t *testing.T) {
	c := Chain{nil, Map{"a": "first"}, Map{"a": "second", "b": "other"}}

	if cs, _ := c.Lookup("a"); cs != "first" {
		t.Errorf("expected first, got %q", cs)
	}
	if cs, _ := c.Lookup("b"); cs != "other" {
		t.Errorf("expected other, got %q", cs)
	}
	if _, ok := c.Lookup("c"); ok {
		t.Error("expected no match for c")
	}
}

func TestEnv_Lookup(t *testing.T) {
	t.Setenv("CONNECTIONSTRINGS_REPORTING_DB", "host=reporting")
	t.Setenv("MYAPP_DEFAULT", "host=custom")

	if cs, ok := (Env{}).Lookup("Reporting-DB"); !ok || cs != "host=reporting" {
		t.Errorf("unexpected lookup result %q, %v", cs, ok)
	}
	if cs, ok := (Env{Prefix: "MYAPP_"}).Lookup("default"); !ok || cs != "host=custom" {
		t.Errorf("unexpected lookup result %q, %v", cs, ok)
	}
	if _, ok := (Env{}).Lookup(""); ok {
		t.Error("empty name should not resolve")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connections.yaml")
	data := []byte("connection_strings:\n  Default: host=db dbname=app\n  Reporting: host=replica\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	m, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if m["Reporting"] != "host=replica" {
		t.Errorf("unexpected map %v", m)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := ParseYAML([]byte("connection_strings: [")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("CONNECTIONSTRINGS_DOTENV=host=dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("CONNECTIONSTRINGS_DOTENV") })

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}

	cs, err := NewProvider(Env{}).Resolve("dotenv")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cs != "host=dotenv" {
		t.Errorf("unexpected connection string %q", cs)
	}
}

func TestDefaultProvider(t *testing.T) {
	t.Cleanup(Reset)

	Register("DefaultProviderTest", "host=global")
	SetName("DefaultProviderTest")
	SetApplicationName("GlobalApp")

	cs, err := ConnectionString()
	if err != nil {
		t.Fatalf("ConnectionString: %v", err)
	}
	if cs != "host=global application_name=GlobalApp" {
		t.Errorf("unexpected connection string %q", cs)
	}

	ClearApplicationName()
	if cs, _ := Resolve("DefaultProviderTest"); cs != "host=global" {
		t.Errorf("unexpected connection string %q", cs)
	}
}
