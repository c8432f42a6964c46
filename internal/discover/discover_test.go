package discover

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/jobsweep/internal/slugfile"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type countingWaiter struct{ calls int }

func (w *countingWaiter) Wait(context.Context, string) error {
	w.calls++
	return nil
}

func fakeProber(live map[string]bool, failing map[string]bool, probed *[]string) Prober {
	return func(_ context.Context, _ *http.Client, id string) (bool, error) {
		*probed = append(*probed, id)
		if failing[id] {
			return false, errors.New("connection reset")
		}
		return live[id], nil
	}
}

func TestDiscover_AppendsOnlyNewValidBoards(t *testing.T) {
	dir := t.TempDir()
	seed := filepath.Join(dir, "seed.txt")
	out := filepath.Join(dir, "greenhouse_slugs.txt")
	require.NoError(t, os.WriteFile(seed, []byte("# seeds\nUniswap\nkraken\nuniswap\ndeadco\nflaky\nnewco\n"), 0o644))
	require.NoError(t, os.WriteFile(out, []byte("kraken\n"), 0o644))

	var probed []string
	target := Target{
		Name:       "greenhouse",
		SeedFile:   seed,
		OutputFile: out,
		Probe:      fakeProber(map[string]bool{"uniswap": true, "newco": true, "kraken": true}, map[string]bool{"flaky": true}, &probed),
	}
	waiter := &countingWaiter{}

	report, err := New(http.DefaultClient, waiter, discardLogger()).Discover(context.Background(), target)
	require.NoError(t, err)

	assert.Equal(t, []string{"uniswap", "deadco", "flaky", "newco"}, probed, "known and duplicate seeds are not probed")
	assert.Equal(t, 4, waiter.calls)
	assert.Equal(t, 4, report.Candidates)
	assert.Equal(t, []string{"uniswap", "newco"}, report.Found)
	assert.Equal(t, 3, report.Total)

	ids, err := slugfile.Read(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"kraken", "uniswap", "newco"}, ids)
}

func TestDiscover_MissingSeedFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "lever_sites.txt")

	var probed []string
	target := Target{Name: "lever", SeedFile: filepath.Join(dir, "missing.txt"), OutputFile: out, Probe: fakeProber(nil, nil, &probed)}

	report, err := New(http.DefaultClient, nil, discardLogger()).Discover(context.Background(), target)
	require.NoError(t, err)
	assert.Empty(t, probed)
	assert.Empty(t, report.Found)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "output file must not be created when nothing is found")
}

func TestDiscover_NoOutputFile(t *testing.T) {
	_, err := New(http.DefaultClient, nil, discardLogger()).Discover(context.Background(), Lever("seed.txt", ""))
	assert.Error(t, err)
}
