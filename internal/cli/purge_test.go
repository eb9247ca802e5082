package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurge_WithoutAllFlag_Errors(t *testing.T) {
	var err error
	captureOutput(t, func() {
		err = RunWithArgs("test", []string{"purge"})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "purge requires --all flag for safety")
}

func TestPurge_ConfirmationMismatch(t *testing.T) {
	cmd := &PurgeCommand{All: true, globals: &GlobalFlags{}, stdin: strings.NewReader("nope\n")}

	var err error
	output := captureOutput(t, func() { err = cmd.Execute(nil) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "confirmation text did not match")
	assert.Contains(t, output, `Type "PURGE" to confirm`)
}

func TestPurge_NoInput(t *testing.T) {
	cmd := &PurgeCommand{All: true, globals: &GlobalFlags{}, stdin: strings.NewReader("")}

	var err error
	captureOutput(t, func() { err = cmd.Execute(nil) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input received")
}

func TestPurge_Confirmed(t *testing.T) {
	cmd := &PurgeCommand{All: true, globals: &GlobalFlags{}, stdin: strings.NewReader("PURGE\n")}
	assert.NoError(t, cmd.confirm())
}

func TestPurge_DeletesAllRuns(t *testing.T) {
	store, _ := openTestStore(t)
	seedRuns(t, store)

	cmd := &PurgeCommand{All: true, Force: true, globals: &GlobalFlags{}}
	var err error
	output := captureOutput(t, func() { err = cmd.executeWithStore(store) })
	require.NoError(t, err)

	assert.Contains(t, output, "Purged all runs")
	assert.Empty(t, listAll(t, store))
}

func TestPurge_JSONOutput(t *testing.T) {
	store, _ := openTestStore(t)

	cmd := &PurgeCommand{All: true, Force: true, globals: &GlobalFlags{JSON: true}}
	var err error
	output := captureOutput(t, func() { err = cmd.executeWithStore(store) })
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, true, got["purged"])
}
