package result_test

import (
	"encoding/json"
	"sort"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/lintgate/internal/result"
)

func TestStore_SnapshotSortsFilesAndLines(t *testing.T) {
	t.Parallel()

	s := result.NewStore()
	s.AddIssue("a.php", 10, "ToolA", "error", "msg1")
	s.AddIssue("a.php", 5, "ToolB", "warning", "msg2")

	data, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)

	want := `{"a.php":{"5":[{"tool":"ToolB","type":"warning","message":"msg2"}],` +
		`"10":[{"tool":"ToolA","type":"error","message":"msg1"}]}}`
	assert.Equal(t, want, string(data))
}

func TestStore_SnapshotOrdering(t *testing.T) {
	t.Parallel()

	s := result.NewStore()
	s.AddIssue("z.php", 3, "t", "x", "m")
	s.AddIssue("b/a.php", 100, "t", "x", "m")
	s.AddIssue("b/a.php", 9, "t", "x", "m")
	s.AddIssue("a.php", 2, "t", "x", "m")
	s.AddIssue("b/a.php", 20, "t", "x", "m")

	snap := s.Snapshot()
	files := snap.Files()
	assert.True(t, sort.StringsAreSorted(files), "files not sorted: %v", files)
	assert.Equal(t, []string{"a.php", "b/a.php", "z.php"}, files)

	for _, f := range snap {
		nums := make([]int, 0, len(f.Lines))
		for _, l := range f.Lines {
			nums = append(nums, l.Line)
		}
		assert.True(t, sort.IntsAreSorted(nums), "lines of %s not sorted: %v", f.Path, nums)
	}
	assert.Equal(t, 9, snap[1].Lines[0].Line)
	assert.Equal(t, 100, snap[1].Lines[2].Line)
}

func TestStore_BucketKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	s := result.NewStore()
	s.AddIssue("a.php", 1, "phpcs", "x", "first")
	s.AddIssue("a.php", 1, "phpmd", "y", "second")
	s.AddIssue("a.php", 1, "phpcs", "x", "first")

	snap := s.Snapshot()
	require.Len(t, snap, 1)
	require.Len(t, snap[0].Lines, 1)
	issues := snap[0].Lines[0].Issues
	require.Len(t, issues, 3)
	assert.Equal(t, "first", issues[0].Message)
	assert.Equal(t, "second", issues[1].Message)
	assert.Equal(t, "first", issues[2].Message)
}

func TestStore_HasIssues(t *testing.T) {
	t.Parallel()

	s := result.NewStore()
	assert.False(t, s.HasIssues())
	assert.Empty(t, s.Snapshot())

	s.AddIssue("a.php", 1, "t", "x", "m")
	assert.True(t, s.HasIssues())

	s.SetResultsFilter(result.FilterFunc(func(result.Snapshot) result.Snapshot {
		return result.Snapshot{}
	}))
	assert.False(t, s.HasIssues())
	assert.Equal(t, 1, s.Len())
}

func TestStore_SetResultsFilterReplaces(t *testing.T) {
	t.Parallel()

	s := result.NewStore()
	s.AddIssue("a.php", 1, "t", "x", "m")
	s.AddIssue("b.php", 1, "t", "x", "m")

	onlyA := result.FilterFunc(func(in result.Snapshot) result.Snapshot {
		var out result.Snapshot
		for _, f := range in {
			if f.Path == "a.php" {
				out = append(out, f)
			}
		}
		return out
	})
	onlyB := result.FilterFunc(func(in result.Snapshot) result.Snapshot {
		var out result.Snapshot
		for _, f := range in {
			if f.Path == "b.php" {
				out = append(out, f)
			}
		}
		return out
	})

	s.SetResultsFilter(onlyA)
	s.SetResultsFilter(onlyB)
	assert.Equal(t, []string{"b.php"}, s.Snapshot().Files())

	s.SetResultsFilter(nil)
	assert.Equal(t, []string{"a.php", "b.php"}, s.Snapshot().Files())
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	t.Parallel()

	s := result.NewStore()
	s.AddIssue("a.php", 1, "t", "x", "m")

	snap := s.Snapshot()
	snap[0].Lines[0].Issues[0].Message = "changed"
	snap[0].Path = "other.php"

	again := s.Snapshot()
	assert.Equal(t, "a.php", again[0].Path)
	assert.Equal(t, "m", again[0].Lines[0].Issues[0].Message)
	assert.Equal(t, s.Snapshot(), again)
}

func TestStore_MergeWithCollisionOrder(t *testing.T) {
	t.Parallel()

	x := result.NewStore()
	x.AddIssue("a.php", 3, "X", "t", "issueX")

	y := result.NewStore()
	y.AddIssue("a.php", 3, "Y", "t", "issueY")
	y.AddIssue("b.php", 1, "Z", "t", "issueZ")

	merged := x.MergeWith(y)
	assert.Same(t, x, merged)

	snap := merged.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, []result.Issue{
		{Tool: "X", Type: "t", Message: "issueX"},
		{Tool: "Y", Type: "t", Message: "issueY"},
	}, snap[0].Lines[0].Issues)
	assert.Equal(t, "b.php", snap[1].Path)
	assert.Equal(t, []result.Issue{{Tool: "Z", Type: "t", Message: "issueZ"}}, snap[1].Lines[0].Issues)
}

func TestStore_MergeWithAppliesOtherFilter(t *testing.T) {
	t.Parallel()

	other := result.NewStore()
	other.AddIssue("a.php", 1, "t", "x", "kept")
	other.AddIssue("a.php", 2, "t", "x", "dropped")
	other.SetResultsFilter(result.FilterFunc(func(in result.Snapshot) result.Snapshot {
		out := make(result.Snapshot, 0, len(in))
		for _, f := range in {
			f.Lines = f.Lines[:1]
			out = append(out, f)
		}
		return out
	}))

	master := result.NewStore().MergeWith(other)
	assert.Equal(t, 1, master.Len())
	assert.Equal(t, "kept", master.Snapshot()[0].Lines[0].Issues[0].Message)
}

func TestStore_MergeDisjointIsCommutative(t *testing.T) {
	t.Parallel()

	build := func(prefix string, lines ...int) *result.Store {
		s := result.NewStore()
		for _, n := range lines {
			s.AddIssue(prefix+".php", n, prefix, "t", prefix+strconv.Itoa(n))
		}
		return s
	}

	ab := build("a", 4, 1, 9).MergeWith(build("b", 2, 7))
	ba := build("b", 2, 7).MergeWith(build("a", 4, 1, 9))

	assert.Equal(t, ab.Snapshot(), ba.Snapshot())
}

func TestStore_MergeNil(t *testing.T) {
	t.Parallel()

	s := result.NewStore()
	s.AddIssue("a.php", 1, "t", "x", "m")
	assert.Equal(t, 1, s.MergeWith(nil).Len())
}

func TestStore_ZeroValue(t *testing.T) {
	t.Parallel()

	var s result.Store
	assert.False(t, s.HasIssues())
	s.AddIssue("a.php", 1, "t", "x", "m")
	assert.True(t, s.HasIssues())
}

func TestSnapshot_Counts(t *testing.T) {
	t.Parallel()

	s := result.NewStore()
	s.AddIssue("a.php", 1, "phpcs", "x", "m")
	s.AddIssue("a.php", 1, "phpmd", "x", "m")
	s.AddIssue("b.php", 4, "phpcs", "x", "m")

	snap := s.Snapshot()
	assert.Equal(t, 3, snap.Count())
	assert.False(t, snap.Empty())
	assert.Equal(t, map[string]int{"phpcs": 2, "phpmd": 1}, snap.CountByTool())
}

func TestSnapshot_MarshalEmpty(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(result.NewStore().Snapshot())
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	data, err = json.Marshal(result.Snapshot{{Path: "a.php", Lines: []result.LineIssues{{Line: 1}}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a.php":{"1":[]}}`, string(data))
}
