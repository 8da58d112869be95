package archive

import (
	"strings"

	"clinic-archive/internal/model"
)

// NameAvailable reports whether a new record called name may be created.
// Reusing a name is allowed only when every existing entity with that name is archived.
func NameAvailable(name string, existing []model.Entity, archived Store) bool {
	wanted := normalizeName(name)
	if wanted == "" {
		return false
	}

	for _, entity := range existing {
		if normalizeName(entity.Name) != wanted {
			continue
		}
		if len(archived[entity.ID]) == 0 {
			return false
		}
	}

	return true
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
