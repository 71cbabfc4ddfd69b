package prompt

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	ctx := context.Background()
	d := Defaults()

	got, err := d.Input(ctx, InputConfig{Message: "Name", Default: "qxp"})
	require.NoError(t, err)
	assert.Equal(t, "qxp", got)

	ok, err := d.Confirm(ctx, ConfirmConfig{Message: "Sure?", Default: true})
	require.NoError(t, err)
	assert.True(t, ok)

	idx, err := d.Select(ctx, SelectConfig{Message: "Type", Options: []string{"a", "b"}, DefaultIndex: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestDefaults_Errors(t *testing.T) {
	ctx := context.Background()
	d := Defaults()

	_, err := d.Input(ctx, InputConfig{
		Message:   "Name",
		Validator: func(s string) error { return fmt.Errorf("required") },
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Name: required")

	_, err = d.Select(ctx, SelectConfig{Message: "Type", DefaultIndex: 3})
	require.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = d.Confirm(cancelled, ConfirmConfig{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTranslateSurveyErr(t *testing.T) {
	assert.ErrorIs(t, translateSurveyErr(terminal.InterruptErr), ErrAborted)
	other := errors.New("boom")
	assert.Same(t, other, translateSurveyErr(other))
}

func TestValidatorAdapter(t *testing.T) {
	v := validator(func(s string) error {
		if s == "" {
			return errors.New("empty")
		}
		return nil
	})
	assert.NoError(t, v("x"))
	assert.EqualError(t, v(""), "empty")
	assert.EqualError(t, v(42), "empty")
}
