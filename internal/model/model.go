package model

import (
	"encoding/json"
	"time"
)

const DefaultSessionTimeoutMinutes = 30

type NavLink struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Port    string `json:"port"`
	IconURL string `json:"iconUrl"`
}

func (l *NavLink) UnmarshalJSON(b []byte) error {
	var aux struct {
		ID      looseString `json:"id"`
		Name    looseString `json:"name"`
		Port    looseString `json:"port"`
		IconURL looseString `json:"iconUrl"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*l = NavLink{
		ID:      string(aux.ID),
		Name:    string(aux.Name),
		Port:    string(aux.Port),
		IconURL: string(aux.IconURL),
	}
	return nil
}

// SiteConfig is the UI-facing configuration persisted in config.json.
type SiteConfig struct {
	SiteTitle      string    `json:"siteTitle"`
	BaseURL        string    `json:"baseUrl"`
	SessionTimeout int       `json:"sessionTimeout"` // minutes
	Links          []NavLink `json:"links"`

	// Extra holds the fields the server does not interpret. They are written
	// back unchanged.
	Extra map[string]json.RawMessage `json:"-"`
}

func (c SiteConfig) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Extra)+4)
	for k, v := range c.Extra {
		out[k] = v
	}
	out["siteTitle"] = c.SiteTitle
	out["baseUrl"] = c.BaseURL
	out["sessionTimeout"] = c.SessionTimeout
	out["links"] = c.Links
	return json.Marshal(out)
}

func (c *SiteConfig) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	var (
		title, baseURL looseString
		timeout        looseInt
		links          []NavLink
	)
	if err := decodeField(fields, "siteTitle", &title); err != nil {
		return err
	}
	if err := decodeField(fields, "baseUrl", &baseURL); err != nil {
		return err
	}
	if err := decodeField(fields, "sessionTimeout", &timeout); err != nil {
		return err
	}
	if err := decodeField(fields, "links", &links); err != nil {
		return err
	}

	*c = SiteConfig{
		SiteTitle:      string(title),
		BaseURL:        string(baseURL),
		SessionTimeout: int(timeout),
		Links:          links,
	}
	if len(fields) > 0 {
		c.Extra = fields
	}
	return nil
}

// Clone returns a copy that shares no slices or maps with c.
func (c SiteConfig) Clone() SiteConfig {
	if c.Links != nil {
		c.Links = append(make([]NavLink, 0, len(c.Links)), c.Links...)
	}
	if c.Extra != nil {
		extra := make(map[string]json.RawMessage, len(c.Extra))
		for k, v := range c.Extra {
			extra[k] = append(json.RawMessage(nil), v...)
		}
		c.Extra = extra
	}
	return c
}

// SessionWindow is how long an idle session keeps blocking logins from
// another address. Zero falls back to the default; negative values are
// passed through and make every session count as expired.
func (c SiteConfig) SessionWindow() time.Duration {
	minutes := c.SessionTimeout
	if minutes == 0 {
		minutes = DefaultSessionTimeoutMinutes
	}
	return time.Duration(minutes) * time.Minute
}

func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		SiteTitle:      "My NAS",
		BaseURL:        "192.168.1.100",
		SessionTimeout: DefaultSessionTimeoutMinutes,
		Links: []NavLink{
			{ID: "1", Name: "Plex", Port: "32400"},
			{ID: "2", Name: "Sonarr", Port: "8989"},
			{ID: "3", Name: "Radarr", Port: "7878"},
			{ID: "4", Name: "Transmission", Port: "9091"},
			{ID: "5", Name: "Home Assistant", Port: "8123"},
		},
	}
}
