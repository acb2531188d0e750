package mounts

// IconEntry is where the icon of a mount type can be downloaded from.
type IconEntry struct {
	Type     string `json:"-"`
	Url      string `json:"url"`
	Filename string `json:"filename"`
}

// IconRegistry maps a type name to its icon, the first registration of a type
// name wins. The zero value is ready to use.
type IconRegistry struct {
	order   []string
	entries map[string]IconEntry
}

func NewIconRegistry() *IconRegistry {
	return &IconRegistry{entries: map[string]IconEntry{}}
}

// Register stores the icon of typeName unless one is already stored, it
// returns true if the entry was added.
func (r *IconRegistry) Register(typeName, url, filename string) bool {
	if r.entries == nil {
		r.entries = map[string]IconEntry{}
	}
	if _, exists := r.entries[typeName]; exists {
		return false
	}
	r.entries[typeName] = IconEntry{
		Type:     typeName,
		Url:      url,
		Filename: filename,
	}
	r.order = append(r.order, typeName)
	return true
}

func (r *IconRegistry) Has(typeName string) bool {
	_, exists := r.entries[typeName]
	return exists
}

func (r *IconRegistry) Lookup(typeName string) (IconEntry, bool) {
	entry, exists := r.entries[typeName]
	return entry, exists
}

// Entries returns every entry in registration order.
func (r *IconRegistry) Entries() []IconEntry {
	out := make([]IconEntry, len(r.order))
	for i, typeName := range r.order {
		out[i] = r.entries[typeName]
	}
	return out
}

func (r *IconRegistry) Len() int {
	return len(r.order)
}
