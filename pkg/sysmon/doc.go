/*
Package sysmon statically validates Sysmon configuration files against a
schema manifest, without invoking Sysmon itself.

The package is a thin facade over four subpackages:

  - parser: XML documents → generic trees with source locations
  - schema: the schema manifest → an immutable configuration grammar
  - validator: the configuration tree checked entry by entry against the
    grammar
  - errors: fatal parse failures and the finding accumulator

Typical use:

	report, err := sysmon.ValidateFile("schema.xml", "config.xml")
	if err != nil {
		// could not validate: one of the documents failed to parse
		log.Fatal(err)
	}
	if report.HasFindings() {
		for _, f := range report.Findings {
			fmt.Print(f)
		}
	}

err and the report are deliberately distinct: a *errors.ParseError means
"could not validate" while a non-empty report means "validated, found
problems". Loading the schema once with schema.Parse and reusing it across
many Validate calls (including concurrently) is supported because a parsed
Schema is immutable.
*/
package sysmon
