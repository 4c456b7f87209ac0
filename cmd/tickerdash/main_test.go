package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/tickerdash/pkg/dash/config"
)

const fixture = "../../pkg/dash/source/testdata/AAPL.yaml"

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(config.New())
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestPlain(t *testing.T) {
	out, _, err := run(t, "aapl", "--fixture", fixture, "--format", "plain", "--period", "1mo")
	require.NoError(t, err)
	for _, want := range []string{
		"Stock Info\tMarket Cap\t$2.8T",
		"Stock Info\tEmployees\t164000",
		"Price Info\tCurrent Price\t$171.48",
		"Business Metrics\tPEG Ratio\tN/A",
		"Business Metrics\tDiv Yield (FWD)\t0.56%",
		"Business Metrics\tRecommendation\tBuy",
	} {
		assert.Contains(t, out, want)
	}
}

func TestTable(t *testing.T) {
	out, _, err := run(t, "AAPL", "--fixture", fixture, "--tables", "info", "--color=false")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "AAPL - Apple Inc.\n"))
	assert.Contains(t, out, "Closing Price, 15 SMA")
	assert.Contains(t, out, "Stock Info")
	assert.NotContains(t, out, "Business Metrics")
}

func TestJSON_NoData(t *testing.T) {
	out, _, err := run(t, "AAPL", "--fixture", fixture, "--format", "json", "--interval", "5 Min")
	require.NoError(t, err)

	var res struct {
		Status    string   `json:"status"`
		Warnings  []string `json:"warnings"`
		Dashboard struct {
			Chart  *json.RawMessage `json:"chart"`
			Tables []any            `json:"tables"`
		} `json:"dashboard"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "ok", res.Status)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "period='6mo' and interval='5m'")
	assert.Nil(t, res.Dashboard.Chart)
	assert.Len(t, res.Dashboard.Tables, 3)
}

func TestHTMLToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aapl.html")
	_, stderr, err := run(t, "AAPL", "--fixture", fixture, "--format", "html", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "wrote "+path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "<title>AAPL - Apple Inc.</title>")
}

func TestFailures(t *testing.T) {
	_, stderr, err := run(t, " ", "--fixture", fixture)
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "Please provide a valid stock ticker.")

	_, stderr, err = run(t, "MSFT", "--fixture", fixture)
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "An error occurred: no recorded snapshot for MSFT")

	_, _, err = run(t, "AAPL", "--fixture", fixture, "--period", "2 Year")
	assert.Error(t, err)

	_, _, err = run(t, "AAPL", "--fixture", fixture, "--format", "xml")
	assert.Error(t, err)

	_, _, err = run(t)
	assert.Error(t, err)
}

func TestFailures_JSONDocument(t *testing.T) {
	out, _, err := run(t, "MSFT", "--fixture", fixture, "--format", "json")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, `"status": "failed"`)
}

func TestRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "AAPL.yaml")
	_, stderr, err := run(t, "record", "aapl", "--fixture", fixture, "--period", "1mo", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "wrote "+path+" (21 bars)")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "symbol: AAPL\ninterval: 1d\n"))

	out, _, err := run(t, "AAPL", "--fixture", path, "--format", "plain", "--period", "1mo")
	require.NoError(t, err)
	assert.Contains(t, out, "Stock Info\tMarket Cap\t$2.8T")

	_, _, err = run(t, "record")
	assert.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickerdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: plain\ntables: [price]\nfixture: "+fixture+"\n"), 0o644))

	out, _, err := run(t, "AAPL", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Price Info\tDay High\t$172.23")
	assert.NotContains(t, out, "Stock Info")
}
