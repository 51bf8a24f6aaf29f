package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootRegistersCommands(t *testing.T) {
	root := newRootCmd()
	names := []string{}
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"migrate", "seed-admin", "seed-employees", "sweep", "export"})
}

func TestSeedAdminRequiresFlags(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"seed-admin", "--email", "admin@example.com"})
	root.SetOut(new(nopWriter))
	root.SetErr(new(nopWriter))
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")
}

func TestSeedAdminRejectsWeakPassword(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"seed-admin", "--email", "admin@example.com", "--password", "pendek"})
	root.SetOut(new(nopWriter))
	root.SetErr(new(nopWriter))
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "minimal 8")
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
