package utils

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestQRLink(t *testing.T) {
	link, err := QRLink(PassLinkPayload{Unit: "A-12-3", Pass: true})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(link, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, pngMagic, raw[:4], "payload should be a PNG")
}

func TestQRImage(t *testing.T) {
	png, err := QRImage(PassImagePayload{Unit: "A-12-3", VisitDate: "2024-03-01", Pass: true})
	require.NoError(t, err)
	require.Greater(t, len(png), 4)
	assert.Equal(t, pngMagic, png[:4])
}

func TestFlavorKeepsReasonSuffix(t *testing.T) {
	const reason = "no such visitor or pass status false"
	for i := 0; i < 20; i++ {
		msg := Flavor(reason)
		assert.True(t, strings.HasSuffix(msg, reason), "reason suffix must survive the flavor prefix")
		assert.Greater(t, len(msg), len(reason), "a prefix should always be prepended")
	}
}
