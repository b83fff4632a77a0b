package engine

// Validate checks every requested table before anything is written.
//
// Without ignore, a requested table missing from the origin is an error. A
// requested table already in the destination is an error unless replace is
// set; ignore does not lift that check for tables the origin still has. Under
// ignore, tables absent from the origin are skipped here and again at copy
// time, which tolerates tables that an earlier run already moved.
func Validate(originTables, destinationTables []string, req Request) error {
	inOrigin := nameSet(originTables)
	inDestination := nameSet(destinationTables)

	for _, name := range req.Tables {
		key := foldASCII(name)
		if !inOrigin[key] {
			if req.Ignore {
				continue
			}
			return &MissingTableError{Table: name, Path: req.Origin.Path}
		}
		if inDestination[key] && !req.Replace {
			return &TableExistsError{Table: name, Path: req.Destination.Path}
		}
	}
	return nil
}

// nameSet normalizes names for case-insensitive lookups.
func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[foldASCII(n)] = true
	}
	return set
}

// foldASCII upper-cases a-z only, matching SQLite's NOCASE collation.
// Other letters keep their case, so "été" and "ÉTÉ" stay distinct.
func foldASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}
