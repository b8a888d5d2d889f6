package checker

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_RerunsOnWrite(t *testing.T) {
	path := writeTemp(t, "dates.txt", "1984\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runs := make(chan Summary, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, 20*time.Millisecond, testOptions(t), func(s Summary, err error) {
			assert.NoError(t, err)
			runs <- s
		})
	}()

	first := waitRun(t, runs)
	assert.True(t, first.OK())

	require.NoError(t, os.WriteFile(path, []byte("1984\nnot a date\n"), 0644))

	second := waitRun(t, runs)
	assert.Equal(t, 2, second.Total)
	assert.Equal(t, 1, second.Failed)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop after cancel")
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), "/nonexistent/dir/dates.txt", time.Millisecond, testOptions(t), func(Summary, error) {})
	assert.Error(t, err)
}

func waitRun(t *testing.T, runs <-chan Summary) Summary {
	t.Helper()
	select {
	case s := <-runs:
		return s
	case <-time.After(5 * time.Second):
		t.Fatal("no run")
		return Summary{}
	}
}
