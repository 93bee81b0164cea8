package entity

// ScreenerRow is one row of the screener export CSV, keyed by the header
// column names. Columns vary with the configured export URL, so rows stay
// schemaless rather than binding to a fixed struct.
type ScreenerRow map[string]string
