package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCELConf(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cel.conf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runStatus(t *testing.T, confPath string) (string, error) {
	t.Helper()
	celConfPath = confPath

	buf := &bytes.Buffer{}
	showStatusCmd.SetOut(buf)
	showStatusCmd.SetArgs(nil)
	err := showStatusCmd.RunE(showStatusCmd, nil)
	return buf.String(), err
}

func TestStatusReportsEnabledAndTrackedEvents(t *testing.T) {
	path := writeCELConf(t, `
[general]
enable = yes
events = HANGUP,ANSWER,APP_START
apps = dial
`)
	out, err := runStatus(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "enabled: true")
	assert.Contains(t, out, "ANSWER")
	assert.Contains(t, out, "HANGUP")
	assert.Contains(t, out, "dial")
	assert.Contains(t, out, "mqtt")
}

func TestStatusReportsDisabledAndEmptySets(t *testing.T) {
	path := writeCELConf(t, `
[general]
enable = no
`)
	out, err := runStatus(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "enabled: false")
	assert.Contains(t, out, "tracked events: (none)")
	assert.Contains(t, out, "tracked apps: (none)")
}

func TestStatusRejectsUnknownEventName(t *testing.T) {
	path := writeCELConf(t, `
[general]
enable = yes
events = BOGUS
`)
	_, err := runStatus(t, path)
	require.Error(t, err)
}

func TestStatusCommandRejectsExtraArguments(t *testing.T) {
	err := showStatusCmd.Args(showStatusCmd, []string{"extra"})
	assert.Error(t, err)
}
