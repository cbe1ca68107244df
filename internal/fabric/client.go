// Package fabric implements a client for the Fabric meta API
// (meta.fabricmc.net), used during project initialization to enumerate
// game, loader, and installer versions and to download the server launcher.
package fabric

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/craftctl-project/craftctl/internal/util"
)

const (
	defaultBaseURL = "https://meta.fabricmc.net/v2"
	userAgent      = "craftctl-project/craftctl/0.1.0"
)

// GameVersion is one Minecraft version entry.
type GameVersion struct {
	Version string `json:"version"`
	Stable  bool   `json:"stable"`
}

// LoaderVersion is one Fabric loader release.
type LoaderVersion struct {
	Separator string `json:"separator"`
	Build     int    `json:"build"`
	Maven     string `json:"maven"`
	Version   string `json:"version"`
	Stable    bool   `json:"stable"`
}

// InstallerVersion is one Fabric installer release.
type InstallerVersion struct {
	URL     string `json:"url"`
	Maven   string `json:"maven"`
	Version string `json:"version"`
	Stable  bool   `json:"stable"`
}

// Client talks to the Fabric meta API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a Fabric meta API client.
func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: util.ComponentLogger("fabric"),
	}
}

// WithBaseURL overrides the API base URL, mainly for tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// GameVersions lists Minecraft versions, newest first.
func (c *Client) GameVersions(ctx context.Context) ([]GameVersion, error) {
	var versions []GameVersion
	if err := c.getJSON(ctx, "/versions/game", &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// LoaderVersions lists Fabric loader releases, newest first.
func (c *Client) LoaderVersions(ctx context.Context) ([]LoaderVersion, error) {
	var versions []LoaderVersion
	if err := c.getJSON(ctx, "/versions/loader", &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// InstallerVersions lists Fabric installer releases, newest first.
func (c *Client) InstallerVersions(ctx context.Context) ([]InstallerVersion, error) {
	var versions []InstallerVersion
	if err := c.getJSON(ctx, "/versions/installer", &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// LatestStableGame returns the newest stable Minecraft version.
func (c *Client) LatestStableGame(ctx context.Context) (GameVersion, error) {
	versions, err := c.GameVersions(ctx)
	if err != nil {
		return GameVersion{}, err
	}
	for _, v := range versions {
		if v.Stable {
			return v, nil
		}
	}
	return GameVersion{}, fmt.Errorf("no stable game version available")
}

// ServerJarURL builds the download URL for the combined server launcher jar.
func (c *Client) ServerJarURL(game, loader, installer string) string {
	return fmt.Sprintf("%s/versions/loader/%s/%s/%s/server/jar", c.baseURL, game, loader, installer)
}

// DownloadServerJar streams the server launcher jar for the given version
// triple into dest.
func (c *Client) DownloadServerJar(ctx context.Context, game, loader, installer, dest string) error {
	u := c.ServerJarURL(game, loader, installer)
	c.logger.Debug().Str("url", u).Str("dest", dest).Msg("downloading server jar")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build download request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("server jar download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server jar download failed with status %s", resp.Status)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("server jar download interrupted: %w", err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	u := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("api request %s failed with status %s", path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode api response: %w", err)
	}
	return nil
}
