/*
Package validator checks a parsed Sysmon configuration against a schema.

Validation is a single synchronous walk over the configuration tree. Each
kind of node gets its own check:

  - the root's declared schemaversion must not exceed the schema's version
  - top-level options must exist in the schema with a matching switch and
    argument arity
  - RuleGroup (and nested Rule) groupRelation values must be an allowed
    relation
  - event filter elements must name a known event, with a valid onmatch
    disposition
  - data fields must exist in their event's definition
  - condition attributes must name an allowed filter operator

Every violated check yields an independent finding and the walk continues,
so one run reports all discoverable problems in document order. The
validator holds no state across runs: Validate is a pure function of
(schema, configuration) and the same inputs always produce the same report.
A Schema may therefore be shared by concurrent Validate calls.

Whether an inType restricts its operator set is not declared by current
manifests; WithOperatorsByType is the extension point for deployments that
know better, and the schema-wide operator set is the fallback.
*/
package validator
