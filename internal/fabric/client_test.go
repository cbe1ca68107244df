package fabric

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestLatestStableGame(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/versions/game" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]GameVersion{
			{Version: "1.21.2-pre1", Stable: false},
			{Version: "1.21.1", Stable: true},
			{Version: "1.21", Stable: true},
		})
	}))
	defer srv.Close()

	c := NewClient().WithBaseURL(srv.URL)
	v, err := c.LatestStableGame(context.Background())
	if err != nil {
		t.Fatalf("LatestStableGame failed: %s", err)
	}
	if v.Version != "1.21.1" {
		t.Errorf("LatestStableGame = %q, want 1.21.1", v.Version)
	}
}

func TestLoaderAndInstallerVersions(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/versions/loader", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]LoaderVersion{{Version: "0.16.5", Stable: true}})
	})
	mux.HandleFunc("/versions/installer", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]InstallerVersion{{Version: "1.0.1", Stable: true}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient().WithBaseURL(srv.URL)
	loaders, err := c.LoaderVersions(context.Background())
	if err != nil {
		t.Fatalf("LoaderVersions failed: %s", err)
	}
	if len(loaders) != 1 || loaders[0].Version != "0.16.5" {
		t.Errorf("unexpected loaders: %+v", loaders)
	}

	installers, err := c.InstallerVersions(context.Background())
	if err != nil {
		t.Fatalf("InstallerVersions failed: %s", err)
	}
	if len(installers) != 1 || installers[0].Version != "1.0.1" {
		t.Errorf("unexpected installers: %+v", installers)
	}
}

func TestDownloadServerJar(t *testing.T) {
	jarBody := "launcher bytes"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := "/versions/loader/1.21.1/0.16.5/1.0.1/server/jar"
		if r.URL.Path != want {
			t.Errorf("download path = %s, want %s", r.URL.Path, want)
		}
		w.Write([]byte(jarBody))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "server.jar")
	c := NewClient().WithBaseURL(srv.URL)
	if err := c.DownloadServerJar(context.Background(), "1.21.1", "0.16.5", "1.0.1", dest); err != nil {
		t.Fatalf("DownloadServerJar failed: %s", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != jarBody {
		t.Errorf("downloaded %q, want %q", data, jarBody)
	}
}
