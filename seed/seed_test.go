package seed_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenlms/sessionkit/seed"
)

func TestPromptEngineeringCourse_TreeIsWellFormed(t *testing.T) {
	t.Parallel()

	course := seed.PromptEngineeringCourse()
	require.Equal(t, "prompt-engineering", course.Slug)
	require.NotEmpty(t, course.Title)
	require.NotEmpty(t, course.Modules)

	moduleSlugs := map[string]bool{}
	for _, module := range course.Modules {
		require.NotEmpty(t, module.Slug)
		require.NotEmpty(t, module.Title)
		require.False(t, moduleSlugs[module.Slug], "duplicate module slug %q", module.Slug)
		moduleSlugs[module.Slug] = true

		require.NotEmpty(t, module.Lessons, "module %q has no lessons", module.Slug)

		lessonSlugs := map[string]bool{}
		for _, lesson := range module.Lessons {
			require.NotEmpty(t, lesson.Slug)
			require.NotEmpty(t, lesson.Title)
			require.False(t, lessonSlugs[lesson.Slug], "duplicate lesson slug %q", lesson.Slug)
			lessonSlugs[lesson.Slug] = true

			require.NotEmpty(t, lesson.Sections, "lesson %q has no sections", lesson.Slug)
			for i, section := range lesson.Sections {
				assert.NotEmpty(t, section.Heading, "lesson %q section %d", lesson.Slug, i+1)
				assert.NotEmpty(t, section.Body, "lesson %q section %d", lesson.Slug, i+1)
			}
		}
	}
}

func TestMintAdminToken(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		token, err := seed.MintAdminToken("s3cret", "admin@lms.dev", time.Hour)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		subject, err := seed.VerifyAdminToken("s3cret", token)
		require.NoError(t, err)
		assert.Equal(t, "admin@lms.dev", subject)
	})

	t.Run("empty secret", func(t *testing.T) {
		t.Parallel()

		_, err := seed.MintAdminToken("", "admin@lms.dev", time.Hour)
		assert.ErrorIs(t, err, seed.ErrEmptySecret)
	})

	t.Run("wrong secret fails verification", func(t *testing.T) {
		t.Parallel()

		token, err := seed.MintAdminToken("s3cret", "admin@lms.dev", time.Hour)
		require.NoError(t, err)

		_, err = seed.VerifyAdminToken("other", token)
		assert.Error(t, err)
	})

	t.Run("expired token fails verification", func(t *testing.T) {
		t.Parallel()

		token, err := seed.MintAdminToken("s3cret", "admin@lms.dev", -time.Minute)
		require.NoError(t, err)

		_, err = seed.VerifyAdminToken("s3cret", token)
		assert.Error(t, err)
	})
}
