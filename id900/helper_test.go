package id900

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var errLinkDown = errors.New("link down")

// recorder is a Commander remembering every command. Queries are answered from replies,
// set commands get an empty reply. Exec fails once failAt commands have been recorded.
type recorder struct {
	cmds    []string
	replies map[string]string
	failAt  int
}

func newRecorder() *recorder {
	return &recorder{replies: map[string]string{}, failAt: -1}
}

func (r *recorder) Exec(cmd string) (string, error) {
	if r.failAt >= 0 && len(r.cmds) >= r.failAt {
		return "", errLinkDown
	}
	r.cmds = append(r.cmds, cmd)

	return r.replies[cmd], nil
}

func (r *recorder) reset() {
	r.cmds = nil
}

// newTestDevice creates a device on a recorder and drops the initialization commands.
func newTestDevice(t *testing.T) (*Device, *recorder) {
	t.Helper()

	rec := newRecorder()
	d, err := New(rec)
	require.NoError(t, err)
	rec.reset()

	return d, rec
}

// commandsWithPrefix filters the recorded commands addressed to prefix, e.g. "TSCO5:".
func (r *recorder) commandsWithPrefix(prefix string) []string {
	var out []string
	for _, cmd := range r.cmds {
		if strings.HasPrefix(cmd, prefix) {
			out = append(out, cmd)
		}
	}

	return out
}
