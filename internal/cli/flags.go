package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/spf13/pflag"
)

// dateValue is an optional YYYY-MM-DD flag.
type dateValue struct{ s *string }

func (d dateValue) String() string { return *d.s }
func (d dateValue) Type() string   { return "date" }

func (d dateValue) Set(v string) error {
	v = strings.TrimSpace(v)
	if v != "" {
		if _, err := time.Parse(domain.DateLayout, v); err != nil {
			return fmt.Errorf("want YYYY-MM-DD")
		}
	}
	*d.s = v
	return nil
}

func addDateFlag(fs *pflag.FlagSet, p *string, name, usage string) {
	fs.Var(dateValue{s: p}, name, usage+" (YYYY-MM-DD)")
}

// taskStatusValue accepts a stored code or its Korean label.
type taskStatusValue struct{ s *domain.TaskStatus }

func (v taskStatusValue) String() string { return string(*v.s) }
func (v taskStatusValue) Type() string   { return "status" }

func (v taskStatusValue) Set(s string) error {
	st, err := domain.ParseTaskStatus(s)
	if err != nil {
		return err
	}
	*v.s = st
	return nil
}

func addTaskStatusFlag(fs *pflag.FlagSet, p *domain.TaskStatus, usage string) {
	fs.Var(taskStatusValue{s: p}, "status", usage)
}

// choiceValue restricts a string flag to a fixed set.
type choiceValue struct {
	s       *string
	allowed map[string]bool
}

func (c choiceValue) String() string { return *c.s }
func (c choiceValue) Type() string   { return "string" }

func (c choiceValue) Set(v string) error {
	v = strings.ToLower(strings.TrimSpace(v))
	if !c.allowed[v] {
		return fmt.Errorf("unknown value %q", v)
	}
	*c.s = v
	return nil
}

func addChoiceFlag(fs *pflag.FlagSet, p *string, name, def string, allowed map[string]bool, usage string) {
	*p = def
	fs.Var(choiceValue{s: p, allowed: allowed}, name, usage)
}

func parseDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateLayout, v)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", v, err)
	}
	return &t, nil
}
