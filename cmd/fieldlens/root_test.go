package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntime_Print(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	r := &runtime{}
	require.NoError(t, r.print(cmd, "UNIT  DEPTH\n"))
	assert.EqualValues(t, "UNIT  DEPTH\n", out.String())
}
