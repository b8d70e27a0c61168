package git

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBranches(t *testing.T) {
	t.Parallel()

	local := "main|abc1234|false||origin/main\n" +
		"feature/login|def5678|false||\n"
	got := parseBranches(local)
	require.Equal(t, []Branch{
		{Name: "main", CommitSHA: "abc1234", Upstream: "origin/main"},
		{Name: "feature/login", CommitSHA: "def5678"},
	}, got)
}

func TestParseBranches_Remote(t *testing.T) {
	t.Parallel()

	remote := "origin/HEAD|abc1234|true||\n" +
		"origin/main|abc1234|true||\n" +
		"upstream/release/1.x|0a0b0c0|true||\n"
	got := parseBranches(remote)
	require.Len(t, got, 2)
	require.Equal(t, Branch{Name: "origin/main", CommitSHA: "abc1234", IsRemote: true, RemoteName: "origin"}, got[0])
	require.Equal(t, "upstream", got[1].RemoteName)
	require.Equal(t, "upstream/release/1.x", got[1].Name)
}

func TestParseBranches_SkipsShortLines(t *testing.T) {
	t.Parallel()

	got := parseBranches("broken|abc\n\n|abc|false||\nok|123|false|\n")
	require.Equal(t, []Branch{{Name: "ok", CommitSHA: "123"}}, got)
}

func TestParseTags(t *testing.T) {
	t.Parallel()

	out := "v2.0.0|aaa1111|Release 2.0.0\n" +
		"v1.0.0|bbb2222|\n" +
		"bad-line\n"
	got := parseTags(out)
	require.Len(t, got, 2)

	require.Equal(t, "v2.0.0", got[0].Name)
	require.Equal(t, "aaa1111", got[0].CommitSHA)
	require.True(t, got[0].IsAnnotated())
	require.Equal(t, "Release 2.0.0", *got[0].Message)

	require.Equal(t, "v1.0.0", got[1].Name)
	require.False(t, got[1].IsAnnotated())
	require.Nil(t, got[1].Message)
}

func TestParseTags_SubjectKeepsPipes(t *testing.T) {
	t.Parallel()

	got := parseTags("v1|abc|one | two\n")
	require.Len(t, got, 1)
	require.Equal(t, "one | two", *got[0].Message)
}
