// Package table loads benchmark result tables into memory.
//
// A [Table] is an ordered sequence of rows addressed by unique column names.
// Every cell keeps its raw text; each [Column] additionally carries a
// dominant [Kind] inferred at load time:
//
//   - [Numeric]: every present cell parses as a floating point number
//   - [Text]: at least one present cell does not
//   - [Unparsed]: the column has no present cells at all
//
// Missing cells are empty strings and the usual NA spellings ("NA", "NaN",
// "null", "None", ...).
//
// # Loading
//
// [Load] picks a reader from the file extension:
//
//	t, err := table.Load("results.csv")         // comma separated
//	t, err := table.Load("results.tsv")         // tab separated
//	t, err := table.Load("results.xlsx")        // first sheet
//	t, err := table.Load("results.xlsx#Run 2")  // named sheet
//
// Tables are read-only after loading. Accessors such as [Table.Floats] and
// [Table.Strings] return copies, so derived data (parsed timestamps, samples)
// never writes back into the loaded table.
package table
