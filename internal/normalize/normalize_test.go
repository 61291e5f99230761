package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases and collapses", "  Python   and\tSQL\n", "python and sql"},
		{"strips punctuation", "pandas, numpy; (matplotlib)!", "pandas numpy matplotlib"},
		{"keeps hyphens", "scikit-learn and ci-cd", "scikit-learn and ci-cd"},
		{"rewrites c++", "C++ and C#", "cpp and csharp"},
		{"rewrites dotted names", "Node.js, Next.js and .NET", "nodejs nextjs and dotnet"},
		{"rewrites slashed names", "CI/CD pipelines, UI/UX", "ci-cd pipelines ui-ux"},
		{"asp.net before .net", "ASP.NET MVC", "aspnet mvc"},
		{"drops non-ascii", "café résumé", "caf rsum"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"machine-learning", "and", "sql"}, Words("machine-learning - and sql --"))
	assert.Empty(t, Words(""))
}

func TestNGrams(t *testing.T) {
	grams := NGrams([]string{"deep", "learning", "with", "pytorch"}, 2)

	for _, want := range []string{"deep", "learning", "with", "pytorch", "deep learning", "learning with", "with pytorch"} {
		assert.True(t, grams[want], "missing %q", want)
	}
	assert.False(t, grams["deep learning with"], "3-gram generated with maxN 2")
	assert.Len(t, grams, 7)
}

func TestVariants(t *testing.T) {
	assert.Equal(t, []string{"python"}, Variants("python"))
	assert.Equal(t, []string{"machine-learning", "machine learning"}, Variants("machine-learning"))
	assert.Equal(t, []string{"data analysis", "data-analysis"}, Variants("data analysis"))
}

func TestKeyAndCompact(t *testing.T) {
	assert.Equal(t, "machine learning", Key("Machine-Learning"))
	assert.Equal(t, "ci cd", Key("CI/CD"))
	assert.Equal(t, "machinelearning", Compact("machine learning"))
	assert.Equal(t, "scikitlearn", Compact("scikit-learn"))
}

func TestWordPositions(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		phrase string
		want   [][2]int
	}{
		{"single word", "python and sql", "sql", [][2]int{{11, 14}}},
		{"repeated", "go to go", "go", [][2]int{{0, 2}, {6, 8}}},
		{"inside a longer word", "django cargo", "go", nil},
		{"multi word", "built machine learning models", "machine learning", [][2]int{{6, 22}}},
		{"empty phrase", "anything", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WordPositions(tt.text, tt.phrase))
		})
	}
}

func TestHasWord(t *testing.T) {
	assert.True(t, HasWord("senior data analyst", "senior"))
	assert.False(t, HasWord("seniority matters", "senior"))
	assert.True(t, HasAnyWord("led the team", []string{"managed", "led"}))
	assert.False(t, HasAnyWord("led the team", nil))
}
