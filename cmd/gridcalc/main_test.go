package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/store"
)

// execute runs the CLI with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeDoc(t *testing.T, dir string, inputs map[string]string) string {
	t.Helper()
	s := models.NewSheet("doc", 3, 3)
	for addr, input := range inputs {
		row, col := int(addr[1]-'1'), int(addr[0]-'A')
		s = s.With(models.NewCell(addr, row, col, input))
	}
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, store.WriteFile(path, s, store.FileOptions{}))
	return path
}

func TestEvalCommand(t *testing.T) {
	out, _, err := execute(t, "eval", "=1+2*3")
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)

	out, _, err = execute(t, "eval", "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello\n", out)

	out, errOut, err := execute(t, "eval", "--explain", "=10/0")
	require.NoError(t, err)
	assert.Equal(t, "#ERROR\n", out)
	assert.Contains(t, errOut, "division by zero")
}

func TestEvalWithInput(t *testing.T) {
	path := writeDoc(t, t.TempDir(), map[string]string{"A1": "10", "A2": "20", "B1": "=A1*3"})
	out, _, err := execute(t, "eval", "--input", path, "=SUM(A1:A2)+B1")
	require.NoError(t, err)
	assert.Equal(t, "60\n", out)
}

func TestRecalcCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, map[string]string{"A1": "2", "A2": "=A1*A1", "A3": "=A2+1"})

	out, _, err := execute(t, "recalc", "--mode", "ordered", path)
	require.NoError(t, err)
	s, err := store.FromJSON([]byte(out))
	require.NoError(t, err)
	c, _ := s.Cell(2, 0)
	assert.Equal(t, "5", c.DisplayValue)

	target := filepath.Join(dir, "out.csv")
	_, _, err = execute(t, "recalc", "--mode", "ordered", "-o", target, path)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "2,,\n4,,\n5,,", string(data))

	_, _, err = execute(t, "recalc", "--mode", "fast", path)
	assert.Error(t, err)
}

func TestSetCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, map[string]string{"A1": "1", "B1": "=A1+1"})

	_, _, err := execute(t, "set", path, "A1", "41")
	require.NoError(t, err)
	s, err := store.ReadFile(path, store.FileOptions{})
	require.NoError(t, err)
	c, _ := s.Cell(0, 1)
	assert.Equal(t, "42", c.DisplayValue)

	_, _, err = execute(t, "set", path, "1A", "x")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, map[string]string{"A1": "日本", "B1": "=1+1"})
	target := filepath.Join(dir, "out.csv")

	_, _, err := execute(t, "export", "--recalc", "--encoding", "shift_jis", path, target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte{0x93, 0xfa, 0x96, 0x7b, ',', '2'}))

	xlsx := filepath.Join(dir, "out.xlsx")
	_, _, err = execute(t, "export", path, xlsx)
	require.NoError(t, err)
	s, err := store.ReadFile(xlsx, store.FileOptions{})
	require.NoError(t, err)
	c, _ := s.Cell(0, 1)
	assert.Equal(t, "=1+1", c.Formula)

	_, _, err = execute(t, "export", path, filepath.Join(dir, "out.txt"))
	assert.ErrorIs(t, err, store.ErrUnsupportedFormat)
}

func TestShowCommand(t *testing.T) {
	path := writeDoc(t, t.TempDir(), map[string]string{"A1": "5", "B2": "=A1/0"})
	out, _, err := execute(t, "show", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "   A  B       C", lines[0])
	assert.Equal(t, "1  5", lines[1])
	assert.Equal(t, "2     #ERROR", lines[2])
}

func TestShowComputesCSVFormulas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("1,2,=A1+B1\n"), 0644))

	out, _, err := execute(t, "show", "--data", path)
	require.NoError(t, err)
	assert.Equal(t, "   A  B  C\n1  1  2  3\n", out)
}

func TestConfigAndVerbose(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "gridcalc.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("mode: ordered\npretty: true\n"), 0644))
	path := writeDoc(t, dir, map[string]string{"A1": "1", "A2": "=A1+1", "A3": "=A2+1"})

	out, errOut, err := execute(t, "--config", cfg, "--verbose", "recalc", path)
	require.NoError(t, err)
	assert.Contains(t, out, "\n  \"name\": \"doc\"")
	assert.Contains(t, errOut, "gridcalc: ")
	assert.Contains(t, errOut, "[recalc] mode=ordered")

	s, err := store.FromJSON([]byte(out))
	require.NoError(t, err)
	c, _ := s.Cell(2, 0)
	assert.Equal(t, "3", c.DisplayValue)

	_, _, err = execute(t, "--config", filepath.Join(dir, "missing.yaml"), "eval", "1")
	assert.Error(t, err)
}

func TestRenderGrid(t *testing.T) {
	s := models.NewSheet("t", 2, 2)
	s = s.With(models.NewCell("A1", 0, 0, "10"))
	s = s.With(models.NewCell("B1", 0, 1, "名前"))
	errCell := models.NewCell("A2", 1, 0, "=1/0")
	errCell.DisplayValue = "#ERROR"
	s = s.With(errCell)
	s = s.With(models.NewCell("B2", 1, 1, "x"))

	var buf bytes.Buffer
	require.NoError(t, renderGrid(&buf, s, gridOptions{}))
	assert.Equal(t, "   A       B\n1      10  名前\n2  #ERROR  x\n", buf.String())

	buf.Reset()
	require.NoError(t, renderGrid(&buf, s, gridOptions{Color: true}))
	assert.Contains(t, buf.String(), ansiRed+"#ERROR"+ansiReset)
	assert.Contains(t, buf.String(), ansiBold+"A     "+ansiReset)
}

func TestRenderGridTruncates(t *testing.T) {
	s := models.NewSheet("t", 1, 1)
	s = s.With(models.NewCell("A1", 0, 0, "abcdefghij"))

	var buf bytes.Buffer
	require.NoError(t, renderGrid(&buf, s, gridOptions{MaxWidth: 4}))
	assert.Contains(t, buf.String(), "ab")
	assert.NotContains(t, buf.String(), "abcdefghij")
}

func TestTerminalWriter(t *testing.T) {
	var buf bytes.Buffer
	w, color := terminalWriter(&buf)
	assert.False(t, color)
	assert.Equal(t, &buf, w)
}

func TestShowRegions(t *testing.T) {
	path := writeDoc(t, t.TempDir(), map[string]string{"B2": "7", "C2": "=B2*2", "C3": "end"})

	out, _, err := execute(t, "show", "--data", "--formulas", path)
	require.NoError(t, err)
	assert.Equal(t, "   B  C\n2  7  =B2*2\n3     end\n", out)

	out, _, err = execute(t, "show", "--range", "C3:B2", path)
	require.NoError(t, err)
	assert.Equal(t, "   B  C\n2  7   14\n3     end\n", out)

	_, _, err = execute(t, "show", "--range", "B2:", path)
	assert.Error(t, err)
}

func TestEvalExplainUnknownFunction(t *testing.T) {
	_, errOut, err := execute(t, "eval", "--explain", "=MEDIAN(A1:A2)")
	require.NoError(t, err)
	assert.Contains(t, errOut, "supported functions: AVERAGE, COUNT, MAX, MIN, SUM")
}
