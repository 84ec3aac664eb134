package schema

// Set is an ordered, immutable group of columns. The zero value is an empty
// set.
type Set struct {
	name    string
	columns []Column
}

func NewSet(name string, columns ...Column) Set {
	cp := make([]Column, len(columns))
	copy(cp, columns)
	return Set{name: name, columns: cp}
}

func (s Set) Name() string { return s.name }

func (s Set) Len() int { return len(s.columns) }

// Columns returns a copy of the set's columns in order.
func (s Set) Columns() []Column {
	cp := make([]Column, len(s.columns))
	copy(cp, s.columns)
	return cp
}

func (s Set) Names() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name
	}
	return names
}

func (s Set) Lookup(name string) (Column, bool) {
	for _, c := range s.columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Union concatenates s and others into a new set called name.
func (s Set) Union(name string, others ...Set) Set {
	n := len(s.columns)
	for _, o := range others {
		n += len(o.columns)
	}
	columns := make([]Column, 0, n)
	columns = append(columns, s.columns...)
	for _, o := range others {
		columns = append(columns, o.columns...)
	}
	return Set{name: name, columns: columns}
}
