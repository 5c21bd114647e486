// Command maqamat renders the maqamat reference site and exposes the jins
// registry, combination resolver and binary encoder on the command line.
//
// Common invocations:
//
//	maqamat render                    # every configured language
//	maqamat maqamat show rast         # combinations and binary views
//	maqamat encode "rast3 + nahawand" # intervals and mask of an expression
//	maqamat match 0 7 14              # maqamat containing these degrees
//	maqamat doctor                    # preflight checks
//
// Failures exit with 2 for configuration problems, 3 for external tool
// failures and 1 otherwise.
package main
