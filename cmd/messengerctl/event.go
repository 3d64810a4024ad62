package main

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/claves/redmine-messenger/internal/config"
	"github.com/claves/redmine-messenger/internal/types"
)

// loadEvent reads an event file (YAML or JSON). When the file does not
// name a kind, it is derived from the presence of a change record.
func loadEvent(path string) (types.Event, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.Event{}, fmt.Errorf("read event file: %w", err)
	}
	var ev types.Event
	if err := yaml.Unmarshal(raw, &ev); err != nil {
		return types.Event{}, fmt.Errorf("parse event file: %w", err)
	}
	if ev.Kind == "" {
		if ev.Change != nil {
			ev.Kind = types.EventUpdated
		} else {
			ev.Kind = types.EventCreated
		}
	}
	return ev, nil
}

// loadProject resolves the event's project config from the projects file.
func loadProject(projects *config.Projects, ev types.Event) (types.ProjectConfig, error) {
	cfg, ok := projects.Get(ev.Project.Identifier)
	if !ok {
		return types.ProjectConfig{}, fmt.Errorf("unknown project %q", ev.Project.Identifier)
	}
	return cfg, nil
}
