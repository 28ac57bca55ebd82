package main

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keylessanchor/rssiprox/proxrssi"
)

func Test_Run_emitsUnlockOnSustainedNear(t *testing.T) {
	ins, err := proxrssi.New(proxrssi.DefaultParams(), proxrssi.DefaultAlphaLUT())
	require.NoError(t, err)

	var b strings.Builder
	b.WriteString("t_ms,rssi_dbm\n")

	for tMs := 100; tMs <= 10000; tMs += 100 {
		b.WriteString(strconv.Itoa(tMs))
		b.WriteString(",-40\n")
	}

	var out bytes.Buffer
	logger := log.NewWithOptions(&out, log.Options{Level: log.InfoLevel})

	err = run(ins, strings.NewReader(b.String()), logger, false)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "UNLOCK_TRIGGERED")
	assert.Equal(t, proxrssi.StateLockout, ins.State())
}

func Test_Run_rejectsMalformedRssiColumn(t *testing.T) {
	ins, err := proxrssi.New(proxrssi.DefaultParams(), proxrssi.DefaultAlphaLUT())
	require.NoError(t, err)

	var out bytes.Buffer
	logger := log.NewWithOptions(&out, log.Options{Level: log.InfoLevel})

	err = run(ins, strings.NewReader("100,not-a-number\n"), logger, false)
	assert.Error(t, err)
}

func Test_Run_handlesEmptyInput(t *testing.T) {
	ins, err := proxrssi.New(proxrssi.DefaultParams(), proxrssi.DefaultAlphaLUT())
	require.NoError(t, err)

	logger := log.NewWithOptions(io.Discard, log.Options{})

	err = run(ins, strings.NewReader(""), logger, false)
	assert.NoError(t, err)
}
