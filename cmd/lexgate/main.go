// Lexgate codifies statutes as structured predicates and effects, decides
// them against subject facts, and records every decision in a tamper-evident
// hash-chained audit ledger.
//
// The decision engine is a library; this command is the operator tooling
// over the catalog and the ledger:
//
//	# Validate a statute catalog
//	lexgate lint --file statutes.yaml
//
//	# Verify ledger chain integrity
//	lexgate verify --config /path/to/config.yaml
//
//	# Query audit records
//	lexgate query --subject citizen-9 --limit 20
//
//	# Export audit records for a regulator
//	lexgate export --format csv --output audit.csv
//
//	# Show version information
//	lexgate version
package main

func main() {
	Execute()
}
