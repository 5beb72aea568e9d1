package main_test

import (
	"bytes"
	"context"
	"testing"

	main "github.com/fwojciec/techdoc/cmd/techdoc"
	"github.com/fwojciec/techdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoriesCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists categories", func(t *testing.T) {
		t.Parallel()

		docs := &mock.DocumentService{
			CategoriesFn: func(context.Context) ([]string, error) {
				return []string{"python", "vue"}, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Documents: docs}

		err := (&main.CategoriesCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "python\nvue\n", stdout.String())
	})

	t.Run("shows hint when empty", func(t *testing.T) {
		t.Parallel()

		docs := &mock.DocumentService{
			CategoriesFn: func(context.Context) ([]string, error) {
				return nil, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Documents: docs}

		err := (&main.CategoriesCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "techdoc build")
	})
}
