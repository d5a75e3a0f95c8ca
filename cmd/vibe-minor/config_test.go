package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnownSetting(t *testing.T) {
	assert.True(t, knownSetting("call.merge_outliers"))
	assert.True(t, knownSetting("call.drm_only"))
	assert.False(t, knownSetting("call.verbose"))
	assert.False(t, knownSetting("merge_outliers"))
	assert.False(t, knownSetting(""))
}

func TestParseSettingValue(t *testing.T) {
	for _, v := range []string{"true", "yes", "on", "1", "TRUE", "Yes"} {
		b, err := parseSettingValue(v)
		require.NoError(t, err, v)
		assert.True(t, b, v)
	}
	for _, v := range []string{"false", "no", "off", "0", "FALSE"} {
		b, err := parseSettingValue(v)
		require.NoError(t, err, v)
		assert.False(t, b, v)
	}

	_, err := parseSettingValue("maybe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maybe")
}

func TestSettingKeys(t *testing.T) {
	assert.Equal(t, []string{"call.merge_outliers", "call.drm_only"}, settingKeys())
}
