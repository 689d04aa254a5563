package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toydbms/pkg/dberror"
	"toydbms/pkg/logging"
)

const testCatalog = `
tables:
  - name: emp
    rows: 4
    columns:
      - {name: id, type: int, order: asc, unique: true, min: 1, max: 4}
      - {name: name, type: string}
      - {name: dept, type: int, min: 10, max: 20}
  - name: dept
    rows: 2
    columns:
      - {name: id, type: int, unique: true, min: 10, max: 20}
      - {name: title, type: string}
`

func testFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/db/catalog.yaml": testCatalog,
		"/db/tables/emp.csv": "id,name,dept\n1,ann,10\n2,bob,20\n3,cid,10\n4,dan,20\n",
		"/db/tables/dept.csv": "id,title\n10,eng\n20,ops\n",
		"/db/toydbms.toml": "[log]\nlevel = \"error\"\n\n[data]\ncatalog = \"/db/catalog.yaml\"\ntables = \"/db/tables\"\n",
		"/q/join.yaml": `
from: [emp, dept]
select: [emp.name, dept.title]
where:
  and:
    - {left: emp.dept, op: "=", right: dept.id}
    - {attr: emp.id, op: "<", value: 3}
`,
		"/q/or.yaml": `
from: [emp]
where:
  or:
    - {attr: emp.id, op: "=", value: 1}
    - {attr: emp.id, op: "=", value: 2}
`,
	}
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return fs
}

func execute(t *testing.T, fs afero.Fs, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCommand(fs, strings.NewReader(stdin), &out)
	cmd.SetArgs(append(args, "--config", "/db/toydbms.toml"))
	err := cmd.Execute()
	require.NoError(t, logging.Close())
	return out.String(), err
}

func TestRunPrintsTSV(t *testing.T) {
	out, err := execute(t, testFs(t), "", "run", "--query", "/q/join.yaml")
	require.NoError(t, err)
	assert.Equal(t, "emp.name\tdept.title\nann\teng\nbob\tops\n", out)
}

func TestRunReadsStdin(t *testing.T) {
	out, err := execute(t, testFs(t), "from: [dept]\nselect: [dept.title]\n", "run")
	require.NoError(t, err)
	assert.Equal(t, "dept.title\neng\nops\n", out)
}

func TestRunTableFormat(t *testing.T) {
	out, err := execute(t, testFs(t), "", "run", "-q", "/q/join.yaml", "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "emp.name")
	assert.Contains(t, out, "ann")
	assert.True(t, strings.HasSuffix(out, "(2 rows)\n"), out)
}

func TestRunFailureWritesNothing(t *testing.T) {
	out, err := execute(t, testFs(t), "", "run", "--query", "/q/or.yaml")
	require.Error(t, err)
	assert.True(t, dberror.Is(err, dberror.ErrCategoryUnsupported), "%v", err)
	assert.Empty(t, out)
}

func TestRunRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, testFs(t), "", "run", "-q", "/q/join.yaml", "--format", "xml")
	require.Error(t, err)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	fs := testFs(t)
	for _, name := range []string{"emp.csv", "dept.csv"} {
		data, err := afero.ReadFile(fs, "/db/tables/"+name)
		require.NoError(t, err)
		require.NoError(t, afero.WriteFile(fs, "/elsewhere/"+name, data, 0o644))
		require.NoError(t, fs.Remove("/db/tables/"+name))
	}

	_, err := execute(t, fs, "", "run", "-q", "/q/join.yaml")
	require.Error(t, err)

	out, err := execute(t, fs, "", "run", "-q", "/q/join.yaml", "--tables", "/elsewhere")
	require.NoError(t, err)
	assert.Contains(t, out, "bob\tops")
}

func TestExplain(t *testing.T) {
	out, err := execute(t, testFs(t), "", "explain", "--query", "/q/join.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "distinct: none\n")
	assert.Contains(t, out, "NLJoin")
	assert.Contains(t, out, "Scan emp")
	assert.Contains(t, out, "Scan dept")
}
