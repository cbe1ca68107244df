package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const sampleProject = `
name = "my-minecraft-server"

[versions]
mc_version = "1.20.1"
fabric_version = "0.15.0"
craftctl_version = "0.1.0"

[mods]
fabric-api = "0.92.0"
lithium = "0.11.2"
sodium = "0.5.3"

[datapacks]
vanilla-tweaks = "1.0.0"

[resourcepacks]
faithful = "1.20.1"

[console]
launch_cmd = ["java", "-Xmx4G", "-jar", "server.jar", "nogui"]
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadProject(t *testing.T) {
	path := writeTemp(t, "mc.toml", sampleProject)

	p, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %s", err)
	}

	if p.Name != "my-minecraft-server" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.Versions.MCVersion != "1.20.1" || p.Versions.FabricVersion != "0.15.0" {
		t.Errorf("Versions = %+v", p.Versions)
	}
	if got := p.Mods["fabric-api"]; got != "0.92.0" {
		t.Errorf("Mods[fabric-api] = %q", got)
	}
	if len(p.Mods) != 3 || len(p.Datapacks) != 1 || len(p.Resourcepacks) != 1 {
		t.Errorf("content counts = %d/%d/%d", len(p.Mods), len(p.Datapacks), len(p.Resourcepacks))
	}
	if len(p.Console.LaunchCmd) != 5 {
		t.Errorf("LaunchCmd = %v", p.Console.LaunchCmd)
	}
}

func TestProjectSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	p := DefaultProject("test-server")
	p.path = filepath.Join(dir, "mc.toml")
	p.Mods["lithium"] = "0.11.2"
	p.Versions.MCVersion = "1.21.0"

	if err := p.Save(); err != nil {
		t.Fatalf("Save failed: %s", err)
	}

	got, err := LoadFrom(p.path)
	if err != nil {
		t.Fatalf("LoadFrom after Save failed: %s", err)
	}

	if diff := cmp.Diff(p, got, cmpopts.IgnoreUnexported(Project{})); diff != "" {
		t.Fatalf("project round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultProject(t *testing.T) {
	p := DefaultProject("fresh")

	if p.Name != "fresh" {
		t.Errorf("Name = %q", p.Name)
	}
	if len(p.Mods) != 0 || len(p.Datapacks) != 0 || len(p.Resourcepacks) != 0 {
		t.Error("default project should have no installed content")
	}
	if len(p.Console.LaunchCmd) == 0 {
		t.Error("default project is missing a launch command")
	}
}
