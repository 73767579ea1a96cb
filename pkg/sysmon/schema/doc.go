/*
Package schema models the configuration grammar extracted from a Sysmon
schema manifest.

A Schema is built once from the manifest XML and is read-only afterwards:
option, event, and field definitions are indexed by name at parse time so
validation of large configurations stays near-linear in document size.
Multiple validation runs may share one Schema concurrently.

The manifest shape this package understands:

	<manifest schemaversion="4.50" binaryversion="14.16">
	  <configuration>
	    <options>
	      <option name="ArchiveDirectory" switch="a" argument="required" .../>
	    </options>
	    <filters>is,is not,contains,excludes,...</filters>
	  </configuration>
	  <events>
	    <event name="SYSMONEVENT_CREATE_PROCESS" rulename="ProcessCreate" ...>
	      <data name="UtcTime" inType="win:UnicodeString" outType="xs:string"/>
	    </event>
	  </events>
	</manifest>

Options flagged noconfig are command-line only and are excluded from the
configuration grammar.
*/
package schema
