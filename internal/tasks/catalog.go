package tasks

import "sort"

// Info describes a task for help listings.
type Info struct {
	Name        string
	Description string
}

// Catalog returns every task name with its one-line description, sorted
// alphabetically. It needs no container runtime, so the CLI can list tasks
// and reject unknown names before touching Docker.
func Catalog() []Info {
	infos := []Info{
		{Name: "pull", Description: "Ensure every tool image is available locally"},
		{Name: "lint", Description: "Run every lint task"},
		{Name: "format", Description: "Run every format task"},
		{Name: "all", Description: "Run every lint and format task"},
	}
	for _, tt := range toolTasks {
		infos = append(infos, Info{Name: tt.name, Description: tt.desc})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Exists reports whether name is a declared task.
func Exists(name string) bool {
	for _, info := range Catalog() {
		if info.Name == name {
			return true
		}
	}
	return false
}
