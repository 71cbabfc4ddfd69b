package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-dxu/internal/cli/commands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	exampleFile = filepath.Join("..", "..", "testdata", "example", "dxu.yml")
	goldenFile  = filepath.Join("..", "..", "testdata", "example", "template.golden")
	badUnitFile = filepath.Join("..", "..", "testdata", "broken", "bad-unit.yml")
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "dxu", cmd.Use)
	for _, name := range []string{"config", "schema", "log-level", "log-format", "output", "max-include-depth", "legacy-uint32-bias"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "flag %q should exist", name)
	}
	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"validate", "template", "columns", "init"})
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", exampleFile)
	require.NoError(t, err)
	assert.Equal(t, "processing "+exampleFile+"... ok\n", out)
}

func TestValidateCommand_Failures(t *testing.T) {
	out, err := execute(t, "validate", badUnitFile, exampleFile)
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrInvalidFiles)
	assert.Contains(t, err.Error(), "1 of 2 files")

	assert.Contains(t, out, "processing "+badUnitFile+"... failed\n")
	assert.Contains(t, out, `  extensions[1].columns[0].unit: invalid unit "meter/s"`)
	assert.Contains(t, out, "processing "+exampleFile+"... ok\n", "later files are still processed")
}

func TestValidateCommand_JSON(t *testing.T) {
	out, err := execute(t, "validate", "-o", "json", badUnitFile)
	require.Error(t, err)

	var reports []struct {
		Path   string `json:"path"`
		Valid  bool   `json:"valid"`
		Issues []struct {
			Path    string `json:"path"`
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 1)
	assert.False(t, reports[0].Valid)
	require.Len(t, reports[0].Issues, 1)
	assert.Equal(t, "/extensions/1/columns/0/unit", reports[0].Issues[0].Path)
}

func TestValidateCommand_RequiresFiles(t *testing.T) {
	_, err := execute(t, "validate")
	require.Error(t, err)
}

func TestTemplateCommand(t *testing.T) {
	want, err := os.ReadFile(goldenFile)
	require.NoError(t, err)

	out, err := execute(t, "template", exampleFile)
	require.NoError(t, err)
	assert.Equal(t, string(want), out)
}

func TestTemplateCommand_JSON(t *testing.T) {
	out, err := execute(t, "template", exampleFile, "--output", "json")
	require.NoError(t, err)

	var tmpl struct {
		Primary struct {
			Name string `json:"name"`
		} `json:"primary"`
		Tables []struct {
			Name    string `json:"name"`
			Columns []struct {
				Keyword string `json:"keyword"`
				Width   int    `json:"width"`
			} `json:"columns"`
		} `json:"tables"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &tmpl))
	assert.Equal(t, "PRIMARY", tmpl.Primary.Name)
	require.Len(t, tmpl.Tables, 1)
	assert.Equal(t, "QXP_Z", tmpl.Tables[0].Name)
	require.Len(t, tmpl.Tables[0].Columns, 7)
	assert.Equal(t, "ZFLAG", tmpl.Tables[0].Columns[3].Keyword)
	assert.Equal(t, 3, tmpl.Tables[0].Columns[3].Width)
}

func TestTemplateCommand_InvalidDefinition(t *testing.T) {
	_, err := execute(t, "template", badUnitFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "meter/s")

	out, err := execute(t, "template", badUnitFile, "--skip-validation")
	require.NoError(t, err)
	assert.Contains(t, out, "TUNIT1  = 'meter/s '")
}

func TestColumnsCommand(t *testing.T) {
	out, err := execute(t, "columns", exampleFile)
	require.NoError(t, err)
	assert.Contains(t, out, "QXP_Z (41 bytes per row)")
	assert.Contains(t, out, "OBJ_ID")
	assert.Contains(t, out, "32768")

	out, err = execute(t, "columns", exampleFile, "-o", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "| 4 | ZFLAG | str | 3A |")
}

func TestInitCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "survey")

	out, err := execute(t, "init", dir, "--yes", "--name", "qxp", "--table", "QXP_Z")
	require.NoError(t, err)
	assert.Contains(t, out, "created "+filepath.Join(dir, "dxu.yml"))
	assert.Contains(t, out, `Definition "qxp" is valid`)

	for _, name := range []string{"dxu.yml", "primary.yml", filepath.Join("tables", "qxp_z.yml")} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	entry, err := os.ReadFile(filepath.Join(dir, "dxu.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(entry), "!include primary.yml")
	assert.Contains(t, string(entry), "!include tables/qxp_z.yml")

	out, err = execute(t, "validate", filepath.Join(dir, "dxu.yml"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "... ok\n"))
}

func TestInitCommand_ExistingDefinition(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "init", dir, "--yes", "--name", "qxp")
	require.NoError(t, err)

	_, err = execute(t, "init", dir, "--yes", "--name", "qxp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "init", dir, "--yes", "--name", "other", "--force")
	require.NoError(t, err)
}

func TestConfigErrors(t *testing.T) {
	_, err := execute(t, "validate", exampleFile, "-o", "html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output")

	_, err = execute(t, "validate", exampleFile, "--schema", filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load meta-schema")
}

func TestExecute(t *testing.T) {
	require.NoError(t, Execute(context.Background(), []string{"--version"}))
	require.Error(t, Execute(context.Background(), []string{"nope"}))
}
