// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mapper

import (
	"reflect"
	"testing"

	"github.com/pdiddy/skillcast/internal/skill"
	"github.com/pdiddy/skillcast/pkg/types"
)

func testDict(t *testing.T) *skill.Dictionary {
	t.Helper()
	d := &skill.Dictionary{
		Version: "test-1",
		Skills: []skill.Entry{
			{ID: "sql", Name: "SQL", Patterns: []string{"postgresql", "databases"}},
			{ID: "python", Name: "Python"},
			{ID: "basket-weaving", Name: "Basket Weaving"},
		},
	}
	if err := d.Compile(); err != nil {
		t.Fatal(err)
	}
	return d
}

func testCourses() []types.Course {
	return []types.Course{
		{ID: "db101", ContentText: "sql postgresql databases relational schema design"},
		{ID: "py201", ContentText: "python scripting automation pandas"},
		{ID: "mixed", ContentText: "python sql pipelines orchestration"},
	}
}

func buildTestMatrix(t *testing.T, cfg types.MapperConfig) (*Space, *Matrix) {
	t.Helper()
	courses := testCourses()
	space := BuildSpace(courses, nil)
	return space, Build(space, courses, testDict(t), nil, cfg)
}

func TestBuildFullContainment(t *testing.T) {
	// db101 contains the skill's entire vocabulary, so with max row
	// normalization its weight is the row maximum: 1.0.
	_, m := buildTestMatrix(t, types.MapperConfig{RowNorm: types.NormMax})

	if got := m.Weight("sql", "db101"); got < 0.999 {
		t.Errorf("Weight(sql, db101) = %v, want ~1.0", got)
	}
}

func TestBuildUnrelatedSkill(t *testing.T) {
	_, m := buildTestMatrix(t, types.MapperConfig{})

	for _, courseID := range m.Courses() {
		if got := m.Weight("basket-weaving", courseID); got != 0 {
			t.Errorf("Weight(basket-weaving, %s) = %v, want 0", courseID, got)
		}
	}
}

func TestBuildWeightsInRange(t *testing.T) {
	_, m := buildTestMatrix(t, types.MapperConfig{RowNorm: types.NormMax})

	for _, e := range m.Entries() {
		if e.Weight <= 0 || e.Weight > 1 {
			t.Errorf("Weight(%s, %s) = %v, out of (0,1]", e.SkillID, e.CourseID, e.Weight)
		}
	}
}

func TestBuildSumNormalization(t *testing.T) {
	_, m := buildTestMatrix(t, types.MapperConfig{RowNorm: types.NormSum})

	row := m.Row("sql")
	if len(row) == 0 {
		t.Fatal("empty sql row")
	}
	var sum float64
	for _, w := range row {
		sum += w
	}
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("sum of sql row = %v, want 1.0", sum)
	}
}

func TestBuildDeterministic(t *testing.T) {
	courses := testCourses()
	dict := testDict(t)
	cfg := types.MapperConfig{RowNorm: types.NormMax}

	space := BuildSpace(courses, nil)
	first := Build(space, courses, dict, nil, cfg).Entries()
	for i := 0; i < 10; i++ {
		sp := BuildSpace(courses, nil)
		again := Build(sp, courses, dict, nil, cfg).Entries()
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs:\n%v\nvs\n%v", i, again, first)
		}
	}
}

func TestBuildContextsInfluenceRow(t *testing.T) {
	courses := testCourses()
	dict := testDict(t)
	cfg := types.MapperConfig{RowNorm: types.NormMax}
	space := BuildSpace(courses, nil)

	bare := Build(space, courses, dict, nil, cfg)
	ctx := map[string][]string{
		"python": {"python scripting automation", "python pandas"},
	}
	enriched := Build(space, courses, dict, ctx, cfg)

	// Contexts pull the python row toward the course sharing their
	// vocabulary. With max normalization py201 becomes the row max.
	if enriched.Weight("python", "py201") < bare.Weight("python", "py201") {
		t.Errorf("contexts lowered py201 weight: %v < %v",
			enriched.Weight("python", "py201"), bare.Weight("python", "py201"))
	}
}

func TestCourseVector(t *testing.T) {
	space, _ := buildTestMatrix(t, types.MapperConfig{})

	if _, ok := space.CourseVector("db101"); !ok {
		t.Error("CourseVector(db101) not found")
	}
	if _, ok := space.CourseVector("ghost"); ok {
		t.Error("CourseVector(ghost) found")
	}
}

func TestMatrixAccessors(t *testing.T) {
	_, m := buildTestMatrix(t, types.MapperConfig{RowNorm: types.NormMax})

	if got := m.Skills(); !reflect.DeepEqual(got, []string{"basket-weaving", "python", "sql"}) {
		t.Errorf("Skills() = %v", got)
	}
	if got := m.Courses(); !reflect.DeepEqual(got, []string{"db101", "mixed", "py201"}) {
		t.Errorf("Courses() = %v", got)
	}
	if got := m.Weight("ghost", "db101"); got != 0 {
		t.Errorf("Weight(ghost, db101) = %v, want 0", got)
	}
}

func TestRowAggregate(t *testing.T) {
	m := &Matrix{
		weights: map[string]map[string]float64{
			"sql": {"a": 1.0, "b": 0.5},
		},
		skills:    []string{"sql"},
		courseIDs: []string{"a", "b", "c"},
	}

	if got := m.RowAggregate("sql", types.CoverageMax); got != 1.0 {
		t.Errorf("max aggregate = %v, want 1.0", got)
	}
	if got := m.RowAggregate("sql", types.CoverageMean); got != 0.5 {
		t.Errorf("mean aggregate = %v, want 0.5", got)
	}
	if got := m.RowAggregate("ghost", types.CoverageMax); got != 0 {
		t.Errorf("missing row max = %v, want 0", got)
	}
}

func TestTopSkills(t *testing.T) {
	m := &Matrix{
		weights: map[string]map[string]float64{
			"a": {"course": 0.5},
			"b": {"course": 0.9},
			"c": {"course": 0.5},
			"d": {"other": 1.0},
		},
		skills: []string{"a", "b", "c", "d"},
	}

	got := m.TopSkills("course", 2)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].SkillID != "b" {
		t.Errorf("top skill = %q, want b", got[0].SkillID)
	}
	// Tie between a and c at 0.5 breaks by ascending skill ID.
	if got[1].SkillID != "a" {
		t.Errorf("second skill = %q, want a", got[1].SkillID)
	}

	if all := m.TopSkills("course", 0); len(all) != 3 {
		t.Errorf("n=0 returned %d entries, want all 3", len(all))
	}
}

func TestEntriesSorted(t *testing.T) {
	_, m := buildTestMatrix(t, types.MapperConfig{RowNorm: types.NormMax})

	entries := m.Entries()
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if prev.SkillID > cur.SkillID ||
			(prev.SkillID == cur.SkillID && prev.CourseID >= cur.CourseID) {
			t.Errorf("entries out of order at %d: %+v before %+v", i, prev, cur)
		}
	}
}
