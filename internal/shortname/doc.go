// Package shortname maps full course names to short display labels.
//
// Labels come from a name table (a JSON object of full name to short name)
// when one of its entries matches, and are generated from the name itself
// otherwise. Table loading never fails: a missing or malformed resource
// yields an empty table and a warning.
package shortname
