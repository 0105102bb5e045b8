package cmd

import (
	"testing"

	"github.com/longkey1/sitechat/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	assert.Contains(t, versionCmd.Short, "sitechat")

	stdout, _, err := runCommand(t, "", "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version.Short()+"\n", stdout)

	stdout, _, err = runCommand(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, version.Info()+"\n", stdout)
}
