/*
Package errors defines the two failure kinds a validation run can produce.

A ParseError is fatal: the schema or configuration document could not be
turned into a tree at all (malformed XML, missing root, input too large).
No findings are produced past a ParseError, and callers can always tell
"could not validate" apart from "validated and found problems".

A Finding is one validation problem. Findings are never fatal: the walk
continues after each one so a single run reports everything it can see.
FindingList accumulates them in document order and doubles as the
validation report handed back to the caller; an empty list means the
configuration is valid under the loaded schema.
*/
package errors
