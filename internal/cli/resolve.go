package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/alexanderramin/wbsdesk/internal/wbs"
)

// matchID resolves input against ids: an exact match wins, then a unique
// prefix.
func matchID(kind, input string, ids []string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%s ID is required", kind)
	}
	var matches []string
	for _, id := range ids {
		if id == input {
			return id, nil
		}
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
}

func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	projects, err := app.Projects.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	return matchID("project", input, ids)
}

func resolveCompanyID(ctx context.Context, app *App, input string) (string, error) {
	companies, err := app.Companies.ListForUser(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(companies))
	for i, c := range companies {
		ids[i] = c.ID
	}
	return matchID("company", input, ids)
}

// activeProjectID resolves --project, falling back to the sidebar's
// selected project.
func activeProjectID(ctx context.Context, app *App, flag string) (string, error) {
	if flag != "" {
		return resolveProjectID(ctx, app, flag)
	}
	if p := app.Sidebar.SelectedProject(); p != nil && p.ID != "" {
		return p.ID, nil
	}
	return "", fmt.Errorf("no project selected (use --project or 'wbsdesk mode project ID')")
}

// resolveTaskID accepts a full task id, or a prefix of a task in the
// active project.
func resolveTaskID(ctx context.Context, app *App, projectFlag, input string) (string, error) {
	if _, err := app.Tasks.Get(ctx, input); err == nil {
		return input, nil
	}
	projectID, err := activeProjectID(ctx, app, projectFlag)
	if err != nil {
		return "", fmt.Errorf("task not found: %q", input)
	}
	forest, err := app.Tasks.LoadForest(ctx, projectID)
	if err != nil {
		return "", err
	}
	var ids []string
	wbs.Walk(forest, func(t *domain.Task, _ int) bool {
		ids = append(ids, t.ID)
		return true
	})
	return matchID("task", input, ids)
}
