package git

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	t.Parallel()

	out := " M README.md\n" +
		"?? notes/todo.txt\n" +
		" D gone.txt\n" +
		"A  staged.go\n" +
		"MM both.go\n" +
		"R  old name.go -> new name.go\n" +
		"\"\"\n" +
		"x\n"

	got := parseStatus(out)
	require.Equal(t, []ChangedFile{
		{Path: "README.md", Status: StatusModified},
		{Path: "notes/todo.txt", Status: StatusUntracked},
		{Path: "gone.txt", Status: StatusDeleted},
		{Path: "staged.go", Status: StatusModified},
		{Path: "both.go", Status: StatusModified},
		{Path: "new name.go", OldPath: "old name.go", Status: StatusRenamed},
	}, got)
}

func TestParseStatus_QuotedPath(t *testing.T) {
	t.Parallel()

	got := parseStatus("?? \"with\\ttab.txt\"\n")
	require.Len(t, got, 1)
	require.Equal(t, "with\ttab.txt", got[0].Path)
}

func TestParseStatus_RenameWithWorktreeEdit(t *testing.T) {
	t.Parallel()

	got := parseStatus("RM a.txt -> b.txt\n")
	require.Equal(t, []ChangedFile{{Path: "b.txt", Status: StatusModified}}, got)
}

func TestParseStatus_Empty(t *testing.T) {
	t.Parallel()

	require.Empty(t, parseStatus(""))
	require.Empty(t, parseStatus("\n\n"))
}

func TestNonEmptyLines(t *testing.T) {
	t.Parallel()

	got := slices.Collect(nonEmptyLines("a\r\n\n  \nb\n"))
	require.Equal(t, []string{"a", "b"}, got)
}
