package domain

import (
	"encoding/json"
	"maps"
)

// Document is a free-form record whose shape is owned by whoever populates it.
type Document map[string]any

// InternalIDField is the store-level identifier key; it never leaves the store.
const InternalIDField = "_id"

// Clean returns a copy of d without store-internal keys.
func (d Document) Clean() Document {
	out := make(Document, len(d))
	for k, v := range d {
		if k == InternalIDField {
			continue
		}
		out[k] = v
	}
	return out
}

// Donor is a donor record keyed by the owning account's username.
type Donor struct {
	Username   string
	Attributes Document
}

// MarshalJSON flattens attributes and username into a single object.
// The username field always reflects Username.
func (d Donor) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Attributes)+1)
	maps.Copy(out, d.Attributes.Clean())
	out["username"] = d.Username
	return json.Marshal(out)
}
