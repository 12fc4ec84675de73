// Package report renders correlated service entries as the final text
// report on standard output.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/mmr-tortoise/portwho/internal/model"
)

// Render prints one block per service entry, each preceded by a blank
// line:
//
//	Port 8080 (tcp6)
//	  [Docker] web (PID: 1234) [container port: 80]
//
// The protocol and pid sets print sorted and comma-joined. Given the
// same entries, Render always produces byte-identical output.
func Render(w io.Writer, entries map[model.ServiceKey]*model.ServiceEntry) error {
	for _, entry := range Sorted(entries) {
		protocols := strings.Join(entry.SortedProtocols(), ", ")
		pids := strings.Join(entry.SortedPIDs(), ", ")

		if _, err := fmt.Fprintf(w, "\nPort %d (%s)\n", entry.Port, protocols); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  %s %s (PID: %s)%s\n",
			entry.Kind.Tag(), entry.Name, pids, annotation(entry)); err != nil {
			return err
		}
	}
	return nil
}

// Sorted flattens the entry map into report order: port ascending,
// ties broken by name and then kind. The total order is what makes
// repeated runs over identical input render identically — map
// iteration alone would shuffle entries that share a port.
func Sorted(entries map[model.ServiceKey]*model.ServiceEntry) []*model.ServiceEntry {
	out := make([]*model.ServiceEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Port != out[j].Port {
			return out[i].Port < out[j].Port
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

// annotation returns the container-port suffix, present only for
// container entries whose inside port is known and differs from the
// host port. The comparison is on raw string tokens, matching how the
// ports were captured.
func annotation(entry *model.ServiceEntry) string {
	if entry.Kind != model.OwnerContainer || entry.InternalPort == "" {
		return ""
	}
	if entry.InternalPort == strconv.Itoa(entry.Port) {
		return ""
	}
	return fmt.Sprintf(" [container port: %s]", entry.InternalPort)
}
