// Sysmonlint validates Sysmon configuration files against a Sysmon schema
// manifest.
//
// It parses both documents, checks the configuration's declared
// schemaversion, its command-line options, rule groups, event filters, data
// fields and filter conditions, and reports every problem with its source
// location and, where possible, a suggested fix.
//
// Usage:
//
//	# Validate a configuration
//	sysmonlint lint --schema sysmonschema.xml sysmon.xml
//
//	# JSON output for CI
//	sysmonlint lint --schema sysmonschema.xml --format json sysmon.xml
//
//	# Merge rule fragments into one configuration
//	sysmonlint merge --schema sysmonschema.xml -o merged.xml base.xml rules/*.xml
//
//	# Inspect a schema manifest
//	sysmonlint schema sysmonschema.xml
//
//	# Revalidate on every change
//	sysmonlint watch --schema sysmonschema.xml sysmon.xml
//
//	# Review past validation runs
//	sysmonlint history list
package main

func main() {
	Execute()
}
