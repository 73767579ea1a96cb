/*
Package parser turns Sysmon XML documents into generic ast trees.

The parser is grammar-unaware: it produces the same kind of tree for a
configuration file and for a schema manifest, preserving document order,
attributes, and source locations. Grammar is applied later by the schema
and validator packages.

Guards against pathological input (maximum file size, element count, and
nesting depth) are enforced during decoding and fail with a limit-kind
ParseError rather than unbounded recursion.

MergeConfigs combines several configuration fragments into one document,
which backs linting of rule sets split across files.
*/
package parser
