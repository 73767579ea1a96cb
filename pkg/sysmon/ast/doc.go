/*
Package ast defines the generic document tree produced by parsing a Sysmon
configuration or schema manifest.

Nodes carry no grammar meaning: a Node is just a tag, its attributes, its
character data, and its children in document order. Meaning is attached
later by the schema and validator packages. Every node records the source
location it was parsed from so findings can point back at the offending
line without re-parsing the document.
*/
package ast
