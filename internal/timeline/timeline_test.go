package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RuDeeVelops/ptIt-relo/internal/model"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func task(id string, d *time.Time) model.Task {
	return model.Task{ID: id, Date: d}
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestSortChronologically(t *testing.T) {
	tasks := []model.Task{
		task("undated-1", nil),
		task("march", date(2026, time.March, 5)),
		task("jan", date(2026, time.January, 10)),
		task("undated-2", nil),
		task("feb", date(2026, time.February, 1)),
	}

	sorted := SortChronologically(tasks)

	assert.Equal(t, []string{"jan", "feb", "march", "undated-1", "undated-2"}, ids(sorted))

	// Input must not be mutated.
	assert.Equal(t, "undated-1", tasks[0].ID)
}

func TestSortChronologicallyStableOnTies(t *testing.T) {
	d := date(2026, time.April, 1)
	tasks := []model.Task{
		task("first", d),
		task("second", d),
		task("third", d),
	}

	sorted := SortChronologically(tasks)

	assert.Equal(t, []string{"first", "second", "third"}, ids(sorted))
}

func TestSortChronologicallyDatedBeforeUndated(t *testing.T) {
	tasks := []model.Task{
		task("u1", nil),
		task("d1", date(2027, time.December, 31)),
		task("u2", nil),
	}

	sorted := SortChronologically(tasks)

	require.Len(t, sorted, 3)
	assert.NotNil(t, sorted[0].Date)
	assert.Nil(t, sorted[1].Date)
	assert.Nil(t, sorted[2].Date)
}

func TestClassify(t *testing.T) {
	reloc := date(2026, time.February, 1)

	tests := []struct {
		name  string
		date  *time.Time
		reloc *time.Time
		want  Placement
	}{
		{"undated task", nil, reloc, Undetermined},
		{"no relocation day", date(2026, time.January, 1), nil, Undetermined},
		{"both absent", nil, nil, Undetermined},
		{"day before", date(2026, time.January, 31), reloc, Before},
		{"well before", date(2025, time.June, 1), reloc, Before},
		{"move day itself", date(2026, time.February, 1), reloc, After},
		{"day after", date(2026, time.February, 2), reloc, After},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(task("t", tt.date), tt.reloc)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPartitionScenario(t *testing.T) {
	reloc := date(2026, time.February, 1)
	tasks := []model.Task{
		task("early", date(2026, time.January, 10)),
		task("late", date(2026, time.March, 5)),
		task("someday", nil),
	}

	p := Partition(tasks, reloc)

	assert.Equal(t, []string{"early"}, ids(p.Before))
	assert.Equal(t, []string{"late"}, ids(p.After))
	assert.Equal(t, []string{"someday"}, ids(p.Undated))
}

func TestPartitionIsStrictThreeWaySplit(t *testing.T) {
	tasks := []model.Task{
		task("a", date(2026, time.January, 1)),
		task("b", date(2026, time.June, 15)),
		task("c", nil),
		task("d", date(2026, time.February, 1)),
		task("e", nil),
	}

	for _, reloc := range []*time.Time{date(2026, time.February, 1), nil} {
		p := Partition(tasks, reloc)

		seen := map[string]int{}
		for _, t := range p.Before {
			seen[t.ID]++
		}
		for _, t := range p.After {
			seen[t.ID]++
		}
		for _, t := range p.Undated {
			seen[t.ID]++
		}

		require.Len(t, seen, len(tasks))
		for id, count := range seen {
			assert.Equal(t, 1, count, "task %s appears %d times", id, count)
		}
	}
}

func TestPartitionUndatedIndependentOfRelocationDate(t *testing.T) {
	tasks := []model.Task{
		task("dated", date(2026, time.May, 1)),
		task("undated", nil),
	}

	withReloc := Partition(tasks, date(2026, time.February, 1))
	withoutReloc := Partition(tasks, nil)

	assert.Equal(t, []string{"undated"}, ids(withReloc.Undated))
	assert.Equal(t, []string{"undated"}, ids(withoutReloc.Undated))
}

func TestGroupByMonth(t *testing.T) {
	tasks := SortChronologically([]model.Task{
		task("jan-a", date(2026, time.January, 5)),
		task("jan-b", date(2026, time.January, 20)),
		task("march", date(2026, time.March, 1)),
		task("next-jan", date(2027, time.January, 10)),
		task("undated", nil),
	})

	groups := GroupByMonth(tasks)

	require.Len(t, groups, 3)

	assert.Equal(t, 2026, groups[0].Year)
	assert.Equal(t, time.January, groups[0].Month)
	assert.Equal(t, []string{"jan-a", "jan-b"}, ids(groups[0].Tasks))

	assert.Equal(t, time.March, groups[1].Month)
	assert.Equal(t, []string{"march"}, ids(groups[1].Tasks))

	// Same month in a different year opens a new group.
	assert.Equal(t, 2027, groups[2].Year)
	assert.Equal(t, time.January, groups[2].Month)
}

func TestGroupByMonthEmpty(t *testing.T) {
	assert.Empty(t, GroupByMonth(nil))
	assert.Empty(t, GroupByMonth([]model.Task{task("u", nil)}))
}
