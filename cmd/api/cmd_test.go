package main

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalcRequiresTown(t *testing.T) {
	cmd := calcCmd()
	cmd.SetArgs([]string{"--income", "45 000"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	assert.ErrorContains(t, cmd.Execute(), `required flag(s) "town" not set`)
}

func TestSeedRequiresConnection(t *testing.T) {
	t.Setenv("DB_CONN", "")
	cmd := seedCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	assert.ErrorContains(t, cmd.Execute(), "DB_CONN is required")
}
