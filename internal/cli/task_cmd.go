package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/wbsdesk/internal/cli/formatter"
	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/alexanderramin/wbsdesk/internal/editor"
	"github.com/alexanderramin/wbsdesk/internal/importer"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Work with the WBS task tree",
	}
	cmd.PersistentFlags().String("project", "", "Project ID or prefix (defaults to the selected project)")
	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskTreeCmd(app),
		newTaskShowCmd(app),
		newTaskParentCmd(app),
		newTaskChildrenCmd(app),
		newTaskEditCmd(app),
		newTaskMoveCmd(app),
		newTaskRemoveCmd(app),
		newTaskAttachCmd(app),
		newTaskDetachCmd(app),
		newTaskImportCmd(app),
	)
	return cmd
}

func projectFlag(cmd *cobra.Command) string {
	v, _ := cmd.Flags().GetString("project")
	return v
}

func newTaskAddCmd(app *App) *cobra.Command {
	var (
		name, parent, start, end, assignee, assigneeID, desc string
		progress                                             int
		status                                               = domain.TaskPending
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task, as a root or under --parent",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := activeProjectID(ctx, app, projectFlag(cmd))
			if err != nil {
				return err
			}
			parentID := ""
			if parent != "" {
				if parentID, err = resolveTaskID(ctx, app, projectID, parent); err != nil {
					return err
				}
			}
			t := &domain.Task{
				ProjectID:   projectID,
				Name:        name,
				StartDate:   start,
				EndDate:     end,
				Assignee:    assignee,
				AssigneeID:  assigneeID,
				Status:      status,
				Progress:    progress,
				Description: desc,
			}
			if err := app.Tasks.Create(ctx, t, parentID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %s [%s]\n", t.Name, t.DisplayID())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "Task name")
	f.StringVar(&parent, "parent", "", "Parent task ID or prefix")
	addDateFlag(f, &start, "start", "Start date")
	addDateFlag(f, &end, "end", "End date")
	f.StringVar(&assignee, "assignee", "", "Assignee display name")
	f.StringVar(&assigneeID, "assignee-id", "", "Assignee profile id")
	f.IntVar(&progress, "progress", 0, "Progress 0-100")
	f.StringVar(&desc, "desc", "", "Description")
	addTaskStatusFlag(f, &status, "pending|in_progress|done|on_hold|cancelled")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newTaskTreeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the project's task tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := activeProjectID(ctx, app, projectFlag(cmd))
			if err != nil {
				return err
			}
			p, err := app.Projects.Get(ctx, projectID)
			if err != nil {
				return err
			}
			forest, err := app.Tasks.LoadForest(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskTree(p.Name, forest))
			return nil
		},
	}
}

func newTaskShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a task with its files and subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, app, projectFlag(cmd), args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.Get(ctx, id)
			if err != nil {
				return err
			}
			parent, _, err := app.Tasks.Parent(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskDetail(formatter.TaskDetailData{
				Task:   t,
				Parent: parent,
				Now:    app.now(),
			}))
			return nil
		},
	}
}

func newTaskParentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "parent ID",
		Short: "Show the parent of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, app, projectFlag(cmd), args[0])
			if err != nil {
				return err
			}
			parent, ok, err := app.Tasks.Parent(ctx, id)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Root task (no parent).")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskList([]*domain.Task{parent}))
			return nil
		},
	}
}

func newTaskChildrenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "children ID",
		Short: "List the direct children of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, app, projectFlag(cmd), args[0])
			if err != nil {
				return err
			}
			children, err := app.Tasks.Children(ctx, id)
			if err != nil {
				return err
			}
			if len(children) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No subtasks.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskList(children))
			return nil
		},
	}
}

// newTaskEditCmd applies each given flag as one editor field edit, in
// the editor's field order. Every field is saved as its own revision.
func newTaskEditCmd(app *App) *cobra.Command {
	var assigneeID string
	values := map[editor.Field]*string{}

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, app, projectFlag(cmd), args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.Get(ctx, id)
			if err != nil {
				return err
			}
			ed := editor.New(t, app.Tasks.Save)
			changed := 0
			for _, f := range editor.Fields {
				if !cmd.Flags().Changed(flagName(f)) {
					continue
				}
				if err := ed.Begin(f); err != nil {
					return err
				}
				if f == editor.FieldAssignee && cmd.Flags().Changed("assignee-id") {
					err = ed.SelectAssignee(assigneeID, *values[f])
				} else {
					err = ed.SetDraft(*values[f])
				}
				if err == nil {
					err = ed.Save(ctx)
				}
				if err != nil {
					ed.Cancel()
					return err
				}
				changed++
			}
			if changed == 0 {
				return fmt.Errorf("nothing to edit (use --name, --status, --progress, ...)")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d field(s) of %s (revision %d)\n", changed, ed.Task().Name, ed.Revision())
			return nil
		},
	}
	for _, f := range editor.Fields {
		v := new(string)
		values[f] = v
		cmd.Flags().StringVar(v, flagName(f), "", f.Label())
	}
	cmd.Flags().StringVar(&assigneeID, "assignee-id", "", "Assignee profile id, used with --assignee")
	return cmd
}

func flagName(f editor.Field) string {
	switch f {
	case editor.FieldStartDate:
		return "start"
	case editor.FieldEndDate:
		return "end"
	case editor.FieldDescription:
		return "desc"
	}
	return string(f)
}

func newTaskMoveCmd(app *App) *cobra.Command {
	var parent string
	var root bool

	cmd := &cobra.Command{
		Use:   "move ID",
		Short: "Move a task under --parent, or to the top level with --root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if root == (parent != "") {
				return fmt.Errorf("give exactly one of --parent or --root")
			}
			id, err := resolveTaskID(ctx, app, projectFlag(cmd), args[0])
			if err != nil {
				return err
			}
			parentID := ""
			if parent != "" {
				if parentID, err = resolveTaskID(ctx, app, projectFlag(cmd), parent); err != nil {
					return err
				}
			}
			if err := app.Tasks.Move(ctx, id, parentID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Moved.")
			return nil
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "New parent task ID or prefix")
	cmd.Flags().BoolVar(&root, "root", false, "Make the task a root task")
	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a task and its subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, app, projectFlag(cmd), args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.Get(ctx, id)
			if err != nil {
				return err
			}
			title := fmt.Sprintf("Delete task %q?", t.Name)
			if n := len(t.Children); n > 0 {
				title = fmt.Sprintf("Delete task %q and its %d subtask(s)?", t.Name, n)
			}
			ok, err := confirmDestructive(cmd, app, title)
			if err != nil || !ok {
				return err
			}
			if err := app.Tasks.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", t.Name)
			return nil
		},
	}
	addYesFlag(cmd)
	return cmd
}

var fileKinds = map[string]bool{string(domain.FileAttachment): true, string(domain.FileDeliverable): true}

func newTaskAttachCmd(app *App) *cobra.Command {
	var kind, url string

	cmd := &cobra.Command{
		Use:   "attach ID FILE...",
		Short: "Attach local files to a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, app, projectFlag(cmd), args[0])
			if err != nil {
				return err
			}
			inputs := make([]editor.FileInput, 0, len(args)-1)
			for _, path := range args[1:] {
				in, err := fileInput(path, url)
				if err != nil {
					return err
				}
				inputs = append(inputs, in)
			}
			t, err := app.Tasks.Get(ctx, id)
			if err != nil {
				return err
			}
			ed := editor.New(t, app.Tasks.Save)
			created, err := ed.AddAttachments(ctx, domain.FileKind(kind), inputs)
			if err != nil {
				return err
			}
			for _, f := range created {
				fmt.Fprintf(cmd.OutOrStdout(), "Attached %s [%s] (%s)\n", f.Name, shortID(f.ID), formatter.FormatSize(f.Size))
			}
			return nil
		},
	}
	addChoiceFlag(cmd.Flags(), &kind, "kind", string(domain.FileAttachment), fileKinds, "attachment|deliverable")
	cmd.Flags().StringVar(&url, "url", "", "Uploaded URL (defaults to the local file URL)")
	return cmd
}

func fileInput(path, url string) (editor.FileInput, error) {
	info, err := os.Stat(path)
	if err != nil {
		return editor.FileInput{}, err
	}
	if info.IsDir() {
		return editor.FileInput{}, fmt.Errorf("%s is a directory", path)
	}
	if url == "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return editor.FileInput{}, err
		}
		url = "file://" + filepath.ToSlash(abs)
	}
	return editor.FileInput{
		Name: filepath.Base(path),
		Size: info.Size(),
		Type: mime.TypeByExtension(filepath.Ext(path)),
		URL:  url,
	}, nil
}

func newTaskDetachCmd(app *App) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "detach ID FILE_ID",
		Short: "Remove an attachment or deliverable from a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, app, projectFlag(cmd), args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.Get(ctx, id)
			if err != nil {
				return err
			}
			files := t.Files(domain.FileKind(kind))
			ids := make([]string, len(files))
			for i, f := range files {
				ids[i] = f.ID
			}
			fileID, err := matchID(kind, args[1], ids)
			if err != nil {
				return err
			}
			ed := editor.New(t, app.Tasks.Save)
			if err := ed.RemoveAttachment(ctx, domain.FileKind(kind), fileID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Removed.")
			return nil
		},
	}
	addChoiceFlag(cmd.Flags(), &kind, "kind", string(domain.FileAttachment), fileKinds, "attachment|deliverable")
	return cmd
}

func newTaskImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a nested WBS from a JSON or YAML file",
		Long: strings.TrimSpace(`
Import a task tree. The file holds {project_id, tasks: [...]}, each task
with name, start_date, end_date, assignee, status, progress, description
and children. The target project is --project, else the file's
project_id, else the selected project. Imported roots are appended after
the existing ones; nothing is written if any task fails.`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := importer.LoadDocument(args[0])
			if err != nil {
				return fmt.Errorf("loading import file: %w", err)
			}
			projectID := ""
			switch {
			case projectFlag(cmd) != "":
				if projectID, err = resolveProjectID(ctx, app, projectFlag(cmd)); err != nil {
					return err
				}
			case doc.ProjectID == "":
				if projectID, err = activeProjectID(ctx, app, ""); err != nil {
					return err
				}
			}
			res, err := app.Import.ImportDocument(ctx, projectID, doc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks (%d roots) into project %s\n",
				res.TaskCount, res.RootCount, shortID(res.ProjectID))
			return nil
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
