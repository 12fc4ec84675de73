package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/portwho/internal/model"
)

// makeEntry builds a ServiceEntry with its pid and protocol sets
// pre-filled, avoiding repetitive construction across test cases.
func makeEntry(port int, name string, kind model.OwnerKind, internalPort string, pids, protocols []string) *model.ServiceEntry {
	entry := model.NewServiceEntry(model.ServiceKey{Port: port, Name: name, Kind: kind})
	entry.InternalPort = internalPort
	for _, pid := range pids {
		entry.PIDs[pid] = struct{}{}
	}
	for _, proto := range protocols {
		entry.Protocols[proto] = struct{}{}
	}
	return entry
}

// entriesOf keys a set of entries the way the correlator does.
func entriesOf(entries ...*model.ServiceEntry) map[model.ServiceKey]*model.ServiceEntry {
	m := make(map[model.ServiceKey]*model.ServiceEntry, len(entries))
	for _, e := range entries {
		m[model.ServiceKey{Port: e.Port, Name: e.Name, Kind: e.Kind}] = e
	}
	return m
}

// TestRender_SystemEntry verifies the exact two-line block for a plain
// system process.
func TestRender_SystemEntry(t *testing.T) {
	entries := entriesOf(
		makeEntry(22, "sshd", model.OwnerSystem, "", []string{"892"}, []string{"tcp"}),
	)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, entries))

	assert.Equal(t, "\nPort 22 (tcp)\n  [System] sshd (PID: 892)\n", buf.String())
}

// TestRender_ContainerAnnotation verifies the container-port suffix for
// a resolved container whose inside port differs from the host port.
func TestRender_ContainerAnnotation(t *testing.T) {
	entries := entriesOf(
		makeEntry(8080, "web", model.OwnerContainer, "80", []string{"1234"}, []string{"tcp6"}),
	)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, entries))

	assert.Equal(t, "\nPort 8080 (tcp6)\n  [Docker] web (PID: 1234) [container port: 80]\n", buf.String())
}

// TestRender_AnnotationSuppressed checks the two cases that print no
// suffix: inside port equal to the host port, and a degraded
// resolution with no inside port at all.
func TestRender_AnnotationSuppressed(t *testing.T) {
	t.Run("equal ports", func(t *testing.T) {
		entries := entriesOf(
			makeEntry(5432, "db", model.OwnerContainer, "5432", []string{"2002"}, []string{"tcp"}),
		)

		var buf bytes.Buffer
		require.NoError(t, Render(&buf, entries))
		assert.Equal(t, "\nPort 5432 (tcp)\n  [Docker] db (PID: 2002)\n", buf.String())
	})

	t.Run("degraded resolution", func(t *testing.T) {
		entries := entriesOf(
			makeEntry(9000, model.UnknownContainerName, model.OwnerContainer, "", []string{"777"}, []string{"tcp6"}),
		)

		var buf bytes.Buffer
		require.NoError(t, Render(&buf, entries))
		assert.Equal(t, "\nPort 9000 (tcp6)\n  [Docker] unknown container (PID: 777)\n", buf.String())
	})
}

// TestRender_MergedSets verifies that merged entries print their
// protocol and pid sets sorted and comma-joined — pids
// lexicographically, so "100" precedes "99".
func TestRender_MergedSets(t *testing.T) {
	entries := entriesOf(
		makeEntry(80, "nginx", model.OwnerSystem, "", []string{"99", "100"}, []string{"tcp6", "tcp"}),
	)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, entries))

	assert.Equal(t, "\nPort 80 (tcp, tcp6)\n  [System] nginx (PID: 100, 99)\n", buf.String())
}

// TestRender_PortOrder verifies ascending port order across blocks.
func TestRender_PortOrder(t *testing.T) {
	entries := entriesOf(
		makeEntry(8080, "web", model.OwnerContainer, "80", []string{"1234"}, []string{"tcp6"}),
		makeEntry(22, "sshd", model.OwnerSystem, "", []string{"892"}, []string{"tcp"}),
		makeEntry(443, "nginx", model.OwnerSystem, "", []string{"77"}, []string{"tcp"}),
	)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, entries))

	expected := "\nPort 22 (tcp)\n" +
		"  [System] sshd (PID: 892)\n" +
		"\nPort 443 (tcp)\n" +
		"  [System] nginx (PID: 77)\n" +
		"\nPort 8080 (tcp6)\n" +
		"  [Docker] web (PID: 1234) [container port: 80]\n"
	assert.Equal(t, expected, buf.String())
}

// TestRender_SharedPortDeterministic checks the tie-break: two owners
// on the same port render in name order, and repeated renders are
// byte-identical despite map iteration being randomized.
func TestRender_SharedPortDeterministic(t *testing.T) {
	entries := entriesOf(
		makeEntry(53, "systemd-resolve", model.OwnerSystem, "", []string{"701"}, []string{"tcp"}),
		makeEntry(53, "dnsmasq", model.OwnerSystem, "", []string{"1800"}, []string{"tcp6"}),
	)

	var first bytes.Buffer
	require.NoError(t, Render(&first, entries))

	expected := "\nPort 53 (tcp6)\n" +
		"  [System] dnsmasq (PID: 1800)\n" +
		"\nPort 53 (tcp)\n" +
		"  [System] systemd-resolve (PID: 701)\n"
	assert.Equal(t, expected, first.String())

	for i := 0; i < 10; i++ {
		var again bytes.Buffer
		require.NoError(t, Render(&again, entries))
		require.Equal(t, first.String(), again.String())
	}
}

// TestRender_Empty verifies that no entries produce no output at all.
func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, nil))
	assert.Zero(t, buf.Len())
}

// TestSorted_Order verifies the full comparator chain on a mixed set.
func TestSorted_Order(t *testing.T) {
	entries := entriesOf(
		makeEntry(80, "web", model.OwnerContainer, "", []string{"1"}, []string{"tcp"}),
		makeEntry(80, "web", model.OwnerSystem, "", []string{"2"}, []string{"tcp"}),
		makeEntry(80, "apache", model.OwnerSystem, "", []string{"3"}, []string{"tcp"}),
		makeEntry(22, "sshd", model.OwnerSystem, "", []string{"4"}, []string{"tcp"}),
	)

	sorted := Sorted(entries)
	require.Len(t, sorted, 4)

	assert.Equal(t, 22, sorted[0].Port)
	assert.Equal(t, "apache", sorted[1].Name)
	// Same port and name: kind breaks the tie, container before system.
	assert.Equal(t, model.OwnerContainer, sorted[2].Kind)
	assert.Equal(t, model.OwnerSystem, sorted[3].Kind)
}
