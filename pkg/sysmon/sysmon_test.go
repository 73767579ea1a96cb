package sysmon

import (
	"os"
	"path/filepath"
	"testing"

	sysmonErrors "sysmon-tools/sysmonlint/pkg/sysmon/errors"
)

const testManifest = `<manifest schemaversion="4.50" binaryversion="14.16">
  <configuration>
    <options>
      <option name="HashAlgorithms" switch="h" argument="required"/>
    </options>
    <filters>is,is not,contains</filters>
  </configuration>
  <events>
    <event name="SYSMONEVENT_CREATE_PROCESS" rulename="ProcessCreate">
      <data name="Image" inType="win:UnicodeString"/>
    </event>
  </events>
</manifest>`

const validConfig = `<Sysmon schemaversion="4.50">
  <HashAlgorithms switch="h">SHA256</HashAlgorithms>
  <EventFiltering>
    <RuleGroup groupRelation="or">
      <ProcessCreate onmatch="exclude">
        <Image condition="contains">explorer</Image>
      </ProcessCreate>
    </RuleGroup>
  </EventFiltering>
</Sysmon>`

func TestValidateBytes_Valid(t *testing.T) {
	report, err := ValidateBytes([]byte(testManifest), []byte(validConfig), "schema.xml", "config.xml")
	if err != nil {
		t.Fatalf("ValidateBytes() error = %v", err)
	}
	if report.HasFindings() {
		t.Errorf("valid config produced findings: %v", report.Findings)
	}
}

func TestValidateBytes_Findings(t *testing.T) {
	config := `<Sysmon schemaversion="4.50"><MadeUpOption/></Sysmon>`

	report, err := ValidateBytes([]byte(testManifest), []byte(config), "schema.xml", "config.xml")
	if err != nil {
		t.Fatalf("ValidateBytes() error = %v", err)
	}
	if report.Count() != 1 || report.Findings[0].Rule != sysmonErrors.RuleUnknownOption {
		t.Errorf("report = %v, want one unknown-option finding", report.Findings)
	}
}

// A parse failure must stay distinguishable from a completed validation
// with findings.
func TestValidateBytes_ParseFailure(t *testing.T) {
	report, err := ValidateBytes([]byte(testManifest), []byte(`<Sysmon schemaversion="4.50">`), "schema.xml", "config.xml")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if report != nil {
		t.Errorf("report should be nil on parse failure, got %v", report)
	}
	if _, ok := err.(*sysmonErrors.ParseError); !ok {
		t.Errorf("expected *ParseError, got %T", err)
	}
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.xml")
	configPath := filepath.Join(dir, "config.xml")
	if err := os.WriteFile(schemaPath, []byte(testManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(configPath, []byte(validConfig), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := ValidateFile(schemaPath, configPath)
	if err != nil {
		t.Fatalf("ValidateFile() error = %v", err)
	}
	if report.HasFindings() {
		t.Errorf("valid config produced findings: %v", report.Findings)
	}

	s, err := LoadSchema(schemaPath)
	if err != nil {
		t.Fatalf("LoadSchema() error = %v", err)
	}
	if _, ok := s.LookupEvent("ProcessCreate"); !ok {
		t.Error("LookupEvent(ProcessCreate) not found")
	}

	doc, err := ParseConfig(configPath)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if doc.Root.Tag != "Sysmon" {
		t.Errorf("root tag = %q", doc.Root.Tag)
	}
}
