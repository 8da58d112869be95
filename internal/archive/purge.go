package archive

import (
	"time"

	"clinic-archive/internal/model"
)

// PurgeExpired returns a copy of store without the entries that expired before now,
// along with how many were dropped. Entities left without entries lose their key.
// The input store is not modified.
func PurgeExpired(store Store, now time.Time) (Store, int) {
	out := make(Store, len(store))
	purged := 0

	for id, entries := range store {
		kept := make([]model.ArchiveEntry, 0, len(entries))
		for _, entry := range entries {
			if entry.Expired(now) {
				purged++
				continue
			}
			kept = append(kept, entry)
		}

		if len(kept) > 0 {
			out[id] = kept
		}
	}

	return out, purged
}
