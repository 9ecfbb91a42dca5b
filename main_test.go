package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type closeRecorder struct {
	name string
	log  *[]string
	err  error
}

func (c closeRecorder) Close() error {
	*c.log = append(*c.log, "close "+c.name)
	return c.err
}

func TestRunThenCloseClosesAfterGameError(t *testing.T) {
	var calls []string
	gameErr := errors.New("window lost")
	closeErr := errors.New("socket gone")

	err := runThenClose(func() error {
		calls = append(calls, "play")
		return gameErr
	}, closeRecorder{name: "relay", log: &calls, err: closeErr})

	assert.Equal(t, []string{"play", "close relay"}, calls)
	assert.ErrorIs(t, err, gameErr)
	assert.ErrorIs(t, err, closeErr)
}

func TestRunThenCloseWithoutClosers(t *testing.T) {
	assert.NoError(t, runThenClose(func() error { return nil }))
}
