package compose

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/staffer/ai/mock"
	"github.com/poiesic/staffer/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidates() []core.RankedCandidate {
	return []core.RankedCandidate{
		{Profile: core.Profile{Id: 1, Name: "Alice Johnson", Role: "Backend Engineer", Skills: []string{"Python", "AWS"},
			ExperienceYears: 5, Projects: []string{"Healthcare Dashboard"}, Availability: "available"}, Score: 0.9},
		{Profile: core.Profile{Id: 3, Name: "Carol White", Skills: []string{"Python", "TensorFlow"},
			ExperienceYears: 7, Projects: []string{"Medical Imaging AI"}}, Score: 0.7},
	}
}

func TestTemplate(t *testing.T) {
	t.Run("no candidates apologizes", func(t *testing.T) {
		out := Template("rust wizard", nil)
		assert.Equal(t, `Sorry, I couldn't find anyone matching: "rust wizard". Could you provide more details or relax some constraints?`, out)
	})

	t.Run("lists candidates", func(t *testing.T) {
		out := Template("python devs", candidates())
		want := strings.Join([]string{
			`Based on your requirements for "python devs", I found 2 candidate(s):` + "\n",
			"**Alice Johnson** (Backend Engineer) has 5 years of experience and worked on projects like Healthcare Dashboard. Key skills: Python, AWS. Availability: available.\n",
			"**Carol White** has 7 years of experience and worked on projects like Medical Imaging AI. Key skills: Python, TensorFlow. Availability: unknown.\n",
			followUp,
		}, "\n")
		assert.Equal(t, want, out)
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, Template("q", candidates()), Template("q", candidates()))
	})
}

func TestFormatCandidates(t *testing.T) {
	out := FormatCandidates(candidates())
	assert.Equal(t,
		"1. Alice Johnson - 5 years. Projects: Healthcare Dashboard. Skills: Python, AWS. Availability: available.\n"+
			"2. Carol White - 7 years. Projects: Medical Imaging AI. Skills: Python, TensorFlow. Availability: unknown.",
		out)
	assert.Empty(t, FormatCandidates(nil))
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("python devs", candidates())
	assert.Contains(t, prompt, `User query: "python devs"`)
	assert.Contains(t, prompt, "1. Alice Johnson")
	assert.Contains(t, prompt, "follow-up question")
}

func TestNewComposer(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := NewComposer()
		require.NoError(t, err)
		assert.Equal(t, defaultTimeout, c.timeout)
	})

	t.Run("invalid timeout", func(t *testing.T) {
		_, err := NewComposer(WithTimeout(0))
		assert.ErrorIs(t, err, ErrInvalidTimeout)
	})

	t.Run("nil logger falls back to default", func(t *testing.T) {
		_, err := NewComposer(WithLogger(nil))
		require.NoError(t, err)
	})
}

func TestComposeAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("no generator uses template", func(t *testing.T) {
		c, err := NewComposer()
		require.NoError(t, err)

		answer := c.ComposeAnswer(ctx, "python devs", candidates())
		assert.Equal(t, SourceTemplate, answer.Source)
		assert.Equal(t, Template("python devs", candidates()), answer.Text)

		gen := c.Generate(ctx, "python devs", candidates())
		assert.ErrorIs(t, gen.Err, ErrGeneratorDisabled)
	})

	t.Run("generator reply is trimmed", func(t *testing.T) {
		g := mock.NewMockGenerator()
		g.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
			return "  I recommend Alice.\n", nil
		}
		c, err := NewComposer(WithGenerator(g))
		require.NoError(t, err)

		answer := c.ComposeAnswer(ctx, "python devs", candidates())
		assert.Equal(t, Answer{Text: "I recommend Alice.", Source: SourceGenerator}, answer)
		assert.Equal(t, BuildPrompt("python devs", candidates()), g.LastPrompt())
	})

	t.Run("generator error falls back", func(t *testing.T) {
		g := mock.NewMockGenerator()
		g.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("connection refused")
		}
		c, err := NewComposer(WithGenerator(g))
		require.NoError(t, err)

		gen := c.Generate(ctx, "q", candidates())
		assert.ErrorIs(t, gen.Err, core.ErrGeneratorUnavailable)
		assert.Equal(t, Template("q", candidates()), c.Compose(ctx, "q", candidates()))
	})

	t.Run("blank reply falls back", func(t *testing.T) {
		g := mock.NewMockGenerator()
		g.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
			return " \n\t", nil
		}
		c, err := NewComposer(WithGenerator(g))
		require.NoError(t, err)

		gen := c.Generate(ctx, "q", nil)
		assert.ErrorIs(t, gen.Err, ErrEmptyResponse)
		assert.Equal(t, Template("q", nil), c.Compose(ctx, "q", nil))
	})

	t.Run("timeout falls back", func(t *testing.T) {
		g := mock.NewMockGenerator()
		g.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		}
		c, err := NewComposer(WithGenerator(g), WithTimeout(10*time.Millisecond))
		require.NoError(t, err)

		start := time.Now()
		answer := c.ComposeAnswer(ctx, "q", candidates())
		assert.Equal(t, SourceTemplate, answer.Source)
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("late reply after deadline is discarded", func(t *testing.T) {
		g := mock.NewMockGenerator()
		g.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
			<-ctx.Done()
			return "too late", nil
		}
		c, err := NewComposer(WithGenerator(g), WithTimeout(10*time.Millisecond))
		require.NoError(t, err)

		gen := c.Generate(ctx, "q", candidates())
		assert.ErrorIs(t, gen.Err, context.DeadlineExceeded)
	})
}
