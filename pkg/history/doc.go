/*
Package history records validation runs in a SQLite database.

Every recorded run captures the schema and configuration paths, the declared
and supported schema versions, the outcome, and the full finding list as
JSON. The store is useful for auditing configuration churn: "when did this
config start failing, and with what findings".

The store uses the pure-Go modernc.org/sqlite driver, so the history
feature works without cgo.

Usage:

	store, err := history.NewStore(&history.Config{Path: "data/history.db"})
	if err != nil {
		return err
	}
	defer store.Close()

	err = store.Record(ctx, run)
	runs, err := store.List(ctx, history.Query{ConfigPath: "sysmon.xml", Limit: 20})
*/
package history
