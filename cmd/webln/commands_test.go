package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRecords(t *testing.T) {
	records, err := parseRecords([]string{"696969=hello", "7629169=a=b"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"696969": "hello", "7629169": "a=b"}, records)

	records, err = parseRecords(nil)
	require.NoError(t, err)
	require.Nil(t, records)

	for _, bad := range [][]string{{"novalue"}, {"=x"}, {"1=a", "1=b"}} {
		_, err := parseRecords(bad)
		require.Error(t, err, "%v", bad)
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]bool{"enabled": true}))
	require.Equal(t, "{\n  \"enabled\": true\n}\n", buf.String())
}
