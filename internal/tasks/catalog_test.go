package tasks

import (
	"bytes"
	"testing"

	"github.com/kmorwood/lintcage/internal/config"
	"github.com/kmorwood/lintcage/internal/registry"
)

func TestCatalogSorted(t *testing.T) {
	infos := Catalog()
	if len(infos) != 10 {
		t.Fatalf("len(Catalog()) = %d, want 10", len(infos))
	}
	for i := 1; i < len(infos); i++ {
		if infos[i-1].Name >= infos[i].Name {
			t.Errorf("Catalog() not sorted: %q before %q", infos[i-1].Name, infos[i].Name)
		}
	}
	for _, info := range infos {
		if info.Description == "" {
			t.Errorf("task %q has no description", info.Name)
		}
	}
}

func TestExists(t *testing.T) {
	if !Exists("lint-markdown") {
		t.Error("Exists(lint-markdown) = false")
	}
	if Exists("unknown-tool") {
		t.Error("Exists(unknown-tool) = true")
	}
}

func TestCatalogMatchesBuiltGraph(t *testing.T) {
	cfg := &config.Config{
		Root: t.TempDir(),
		Registry: config.RegistryConfig{
			Prefix: "docker.io/",
			Images: map[string]string{},
		},
	}
	g, err := Build(cfg, registry.New(cfg), &fakeInvoker{}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	built := g.Tasks()
	infos := Catalog()
	if len(built) != len(infos) {
		t.Fatalf("graph has %d tasks, catalog has %d", len(built), len(infos))
	}
	for i := range built {
		if built[i].Name != infos[i].Name {
			t.Errorf("task %d: graph %q vs catalog %q", i, built[i].Name, infos[i].Name)
		}
		if built[i].Description != infos[i].Description {
			t.Errorf("%s: descriptions differ", built[i].Name)
		}
	}
}
