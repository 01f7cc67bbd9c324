package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionWindow(t *testing.T) {
	cases := []struct {
		minutes int
		want    time.Duration
	}{
		{0, 30 * time.Minute},
		{1, time.Minute},
		{45, 45 * time.Minute},
		{-1, -time.Minute},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SiteConfig{SessionTimeout: tc.minutes}.SessionWindow(), "minutes=%d", tc.minutes)
	}
}

func TestDefaultAdminIsExempt(t *testing.T) {
	admin := DefaultAdmin()
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.Exempt())

	u := User{Username: "bob", Role: RoleUser}
	assert.False(t, u.Exempt())
	u.AllowConcurrent = true
	assert.True(t, u.Exempt())
}

func TestSiteConfig_JSONKeepsUnknownFields(t *testing.T) {
	in := `{"siteTitle":"X","baseUrl":"b","sessionTimeout":5,"links":[],"theme":"dark","wallpaper":{"url":"/bg.png"}}`

	var cfg SiteConfig
	require.NoError(t, json.Unmarshal([]byte(in), &cfg))
	assert.Equal(t, "X", cfg.SiteTitle)
	assert.Equal(t, 5, cfg.SessionTimeout)
	assert.NotNil(t, cfg.Links)
	assert.Len(t, cfg.Extra, 2)

	out, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestSiteConfig_LooseSessionTimeout(t *testing.T) {
	cases := map[string]int{
		`{"sessionTimeout":"60"}`:   60,
		`{"sessionTimeout":" 15 "}`: 15,
		`{"sessionTimeout":"soon"}`: 0,
		`{"sessionTimeout":null}`:   0,
		`{"sessionTimeout":2.0}`:    2,
		`{}`:                        0,
	}
	for in, want := range cases {
		var cfg SiteConfig
		require.NoError(t, json.Unmarshal([]byte(in), &cfg), in)
		assert.Equal(t, want, cfg.SessionTimeout, in)
	}
}

func TestSiteConfig_RejectsWrongShapes(t *testing.T) {
	var cfg SiteConfig
	assert.Error(t, json.Unmarshal([]byte(`{"links":"plex"}`), &cfg))
	assert.Error(t, json.Unmarshal([]byte(`{"siteTitle":["a"]}`), &cfg))
	assert.Error(t, json.Unmarshal([]byte(`[]`), &cfg))
}

func TestUser_DecodesScalarsLoosely(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"username":"kid","password":1234,"role":"user","allowConcurrent":1,"createdAt":"1700000000000"}`), &u))
	assert.Equal(t, User{Username: "kid", Password: "1234", Role: RoleUser, AllowConcurrent: true, CreatedAt: 1700000000000}, u)

	require.NoError(t, json.Unmarshal([]byte(`{"username":"kid","password":"pw","allowConcurrent":"false"}`), &u))
	assert.False(t, u.AllowConcurrent)
	assert.Equal(t, int64(0), u.CreatedAt)
}

func TestClone_DoesNotShare(t *testing.T) {
	cfg := SiteConfig{
		Links: []NavLink{{ID: "1", Name: "Plex"}},
		Extra: map[string]json.RawMessage{"theme": json.RawMessage(`"dark"`)},
	}
	c := cfg.Clone()
	c.Links[0].Name = "changed"
	c.Extra["theme"] = json.RawMessage(`"light"`)

	assert.Equal(t, "Plex", cfg.Links[0].Name)
	assert.Equal(t, `"dark"`, string(cfg.Extra["theme"]))

	empty := SiteConfig{Links: []NavLink{}}.Clone()
	assert.NotNil(t, empty.Links)
}
