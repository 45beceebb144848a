package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate"}, names)
	assert.NotNil(t, cmd.RunE, "root command serves by default")

	flag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
}

func TestRootCmd_DefaultConfigPathFromEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/etc/auth")
	assert.Equal(t, "/etc/auth", defaultConfigPath())

	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, ".", defaultConfigPath())
}

func TestMigrateCmd_AppliesSchema(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STORE_URI", "sqlite://"+dir+"/auth.db")
	t.Setenv("LOG_OUTPUT_PATH", "stderr")

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"migrate", "--config", dir})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Migrations completed successfully")
}

func TestMigrateCmd_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BCRYPT_COST", "99")
	t.Setenv("LOG_OUTPUT_PATH", "stderr")

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"migrate", "--config", dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BCRYPT_COST")
}
