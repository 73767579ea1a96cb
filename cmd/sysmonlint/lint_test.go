package main

import (
	"os"
	"path/filepath"
	"testing"

	"sysmon-tools/sysmonlint/pkg/config"
	"sysmon-tools/sysmonlint/pkg/sysmon/schema"
)

const testManifest = `<manifest schemaversion="4.50" binaryversion="15.0">
  <configuration>
    <options>
      <option name="ArchiveDirectory" switch="a" argument="required" noconfig="false"/>
      <option name="HashAlgorithms" switch="h" argument="required" rule="true" noconfig="false"/>
    </options>
  </configuration>
  <events>
    <event name="SYSMONEVENT_CREATE_PROCESS" value="1" rulename="ProcessCreate">
      <data name="UtcTime" inType="win:UnicodeString"/>
      <data name="Image" inType="win:UnicodeString"/>
    </event>
  </events>
  <filters>is,is not,contains</filters>
</manifest>`

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testPipeline(t *testing.T) (*schema.Schema, *config.Config) {
	t.Helper()
	s, err := schema.ParseBytes([]byte(testManifest), "sysmonschema.xml")
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	return s, config.DefaultConfig()
}

func TestValidateConfigFile_Valid(t *testing.T) {
	s, cfg := testPipeline(t)
	path := writeTestFile(t, "sysmon.xml", `<Sysmon schemaversion="4.50">
  <EventFiltering>
    <RuleGroup groupRelation="or">
      <ProcessCreate onmatch="include">
        <Image condition="contains">powershell</Image>
      </ProcessCreate>
    </RuleGroup>
  </EventFiltering>
</Sysmon>`)

	result := validateConfigFile(newConfigParser(cfg), newValidator(s, cfg), path)
	if !result.Valid {
		t.Fatalf("result not valid: %+v", result.Errors)
	}
	if result.configVersion != "4.50" {
		t.Errorf("configVersion = %q, want 4.50", result.configVersion)
	}
}

func TestValidateConfigFile_Findings(t *testing.T) {
	s, cfg := testPipeline(t)
	path := writeTestFile(t, "sysmon.xml", `<Sysmon schemaversion="4.50">
  <EventFiltering>
    <RuleGroup groupRelation="xor">
      <ProcessCreate onmatch="included">
        <Imgae condition="contains">powershell</Imgae>
      </ProcessCreate>
    </RuleGroup>
  </EventFiltering>
</Sysmon>`)

	result := validateConfigFile(newConfigParser(cfg), newValidator(s, cfg), path)
	if result.Valid {
		t.Fatal("result should not be valid")
	}
	if result.parseError {
		t.Fatal("findings should not be flagged as a parse error")
	}
	if len(result.Errors) != 3 {
		t.Fatalf("got %d errors, want 3: %+v", len(result.Errors), result.Errors)
	}
	// The misspelled field gets a did-you-mean suggestion.
	var suggested bool
	for _, e := range result.Errors {
		if e.Rule == "unknown-field" && e.Suggestion != "" {
			suggested = true
		}
		if e.Line == 0 {
			t.Errorf("error without a line number: %+v", e)
		}
	}
	if !suggested {
		t.Error("expected a suggestion for the misspelled field")
	}
}

func TestValidateConfigFile_ParseError(t *testing.T) {
	s, cfg := testPipeline(t)
	path := writeTestFile(t, "broken.xml", `<Sysmon schemaversion="4.50">`)

	result := validateConfigFile(newConfigParser(cfg), newValidator(s, cfg), path)
	if result.Valid || !result.parseError {
		t.Fatalf("result = %+v, want parse error", result)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(result.Errors))
	}
}

func TestResolveSchemaPath(t *testing.T) {
	cfg := config.DefaultConfig()

	if _, err := resolveSchemaPath("", cfg); err == nil {
		t.Error("expected error when no schema is configured")
	}

	cfg.Schema.Path = "/etc/sysmon/schema.xml"
	got, err := resolveSchemaPath("", cfg)
	if err != nil || got != "/etc/sysmon/schema.xml" {
		t.Errorf("resolveSchemaPath = %q, %v", got, err)
	}

	got, err = resolveSchemaPath("override.xml", cfg)
	if err != nil || got != "override.xml" {
		t.Errorf("resolveSchemaPath with flag = %q, %v", got, err)
	}
}

func TestLintCommandRegistered(t *testing.T) {
	for _, name := range []string{"lint", "merge", "schema", "watch", "history"} {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}
