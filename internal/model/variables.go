package model

// Variables holds the catalog variables attached to a requested item,
// keyed by variable name. Values are the raw strings stored by the
// platform; an empty value is treated the same as a missing one.
type Variables map[string]string

// Get returns the value for name, or def when the variable is absent
// or empty.
func (v Variables) Get(name, def string) string {
	if val, ok := v[name]; ok && val != "" {
		return val
	}
	return def
}

// Has reports whether name is present with a non-empty value.
func (v Variables) Has(name string) bool {
	return v[name] != ""
}

// IsTrue reports whether name holds exactly the string "true".
// Checkbox variables arrive as strings; anything else, including
// "yes" or "TRUE", is false.
func (v Variables) IsTrue(name string) bool {
	return v[name] == "true"
}

// FirstOf returns the first non-empty value among names, or def.
func (v Variables) FirstOf(def string, names ...string) string {
	for _, name := range names {
		if val := v[name]; val != "" {
			return val
		}
	}
	return def
}
