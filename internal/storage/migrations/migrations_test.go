package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestLoadSQL_LexicalOrderSkipsBlanks(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/002_second.sql": {Data: []byte("CREATE TABLE b (id INT);")},
		"sql/001_first.sql":  {Data: []byte("CREATE TABLE a (id INT);")},
		"sql/003_blank.sql":  {Data: []byte("  \n\t\n")},
		"sql/notes.txt":      {Data: []byte("not a migration")},
	}

	files, err := loadSQL(fsys, "sql")
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.Equal(t, "001_first.sql", files[0].name)
	require.Equal(t, "002_second.sql", files[1].name)
	require.Contains(t, files[0].body, "CREATE TABLE a")
}

func TestLoadSQL_EmbeddedFilesPresent(t *testing.T) {
	pg, err := loadSQL(postgresFS, "postgres")
	require.NoError(t, err)
	require.NotEmpty(t, pg)

	ch, err := loadSQL(clickhouseFS, "clickhouse")
	require.NoError(t, err)
	require.NotEmpty(t, ch)
}

func TestSplitStatements(t *testing.T) {
	input := `-- bars table
CREATE TABLE bars (id INT);

-- another
CREATE TABLE alerts (
    id INT
);
`
	stmts := splitStatements(input)
	require.Len(t, stmts, 2)
	require.Equal(t, "CREATE TABLE bars (id INT)", stmts[0])
	require.Contains(t, stmts[1], "CREATE TABLE alerts")
}
