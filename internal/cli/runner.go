// Package cli is the terminal surface: one-shot subcommands plus an
// interactive browser.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vbonduro/prepstock/internal/domain"
	"github.com/vbonduro/prepstock/internal/filter"
	"github.com/vbonduro/prepstock/internal/form"
	"github.com/vbonduro/prepstock/internal/reference"
	"github.com/vbonduro/prepstock/internal/service"
	"github.com/vbonduro/prepstock/internal/status"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Options wire the runner to its environment.
type Options struct {
	Out, Err io.Writer
	Theme    Theme
	Now      func() time.Time
	// Serve runs the HTTP server until ctx is cancelled.
	Serve func(ctx context.Context) error
	// Browse runs the interactive browser. Defaults to a bubbletea program
	// on the real terminal.
	Browse func(m tea.Model) error
}

type Runner struct {
	svc *service.InventoryService
	opt Options
}

func NewRunner(svc *service.InventoryService, opt Options) *Runner {
	if opt.Now == nil {
		opt.Now = time.Now
	}
	if opt.Browse == nil {
		opt.Browse = runProgram
	}
	return &Runner{svc: svc, opt: opt}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func (r *Runner) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		r.printHelp(r.opt.Err)
		return ExitUsage
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		r.printHelp(r.opt.Out)
		return ExitOK
	case "summary":
		return r.doSummary()
	case "ls":
		return r.doList(a)
	case "show":
		if len(a) != 1 {
			return r.usage("usage: prepstock show <id>")
		}
		return r.doShow(a[0])
	case "add":
		return r.doAdd(ctx, a)
	case "edit":
		if len(a) < 1 {
			return r.usage("usage: prepstock edit <id> [flags]")
		}
		return r.doEdit(ctx, a[0], a[1:])
	case "rm":
		if len(a) != 1 {
			return r.usage("usage: prepstock rm <id>")
		}
		return r.doRemove(ctx, a[0])
	case "settings":
		return r.doSettings(ctx, a)
	case "category":
		return r.doCategory(ctx, a)
	case "phones":
		if len(a) > 1 {
			return r.usage("usage: prepstock phones [kind]")
		}
		return r.doPhones(a)
	case "browse":
		if err := r.opt.Browse(newBrowseModel(r.svc, r.opt.Theme)); err != nil {
			r.fail("browse: " + err.Error())
			return ExitError
		}
		return ExitOK
	case "serve":
		if r.opt.Serve == nil {
			r.fail("serve: no server configured")
			return ExitError
		}
		if err := r.opt.Serve(ctx); err != nil {
			r.fail("serve: " + err.Error())
			return ExitError
		}
		return ExitOK
	}

	r.fail("unknown subcommand: " + cmd)
	fmt.Fprintln(r.opt.Err)
	r.printHelp(r.opt.Err)
	return ExitUsage
}

func (r *Runner) printHelp(w io.Writer) {
	fmt.Fprint(w, `prepstock - emergency supply tracker

Usage:
  prepstock <subcommand> [args]

Subcommands:
  summary                          Items per category with expiring and expired counts
  ls [-q text] [-category c]       List items, optionally filtered
     [-status s] [-days d]         status: safe|warning|danger, days: today|week|month|expired
  show <id>                        Show one item
  add -name n [flags]              Add an item (-category -location -expires -reminder -notes -image)
  edit <id> [flags]                Change the given fields of an item
  rm <id>                          Remove an item
  settings [-threshold n]          Show or change settings
           [-reminder n] [-notifications=bool]
  category ls|add|rm               Manage custom categories
  phones [kind]                    Emergency numbers (all|general|health|security|utility)
  browse                           Interactive browser
  serve                            Start the HTTP API

Ids may be shortened to any unique prefix.
`)
}

func (r *Runner) ok(msg string) {
	fmt.Fprintln(r.opt.Out, r.opt.Theme.Safe.Render(r.opt.Theme.SymOK+" "+msg))
}

func (r *Runner) fail(msg string) {
	fmt.Fprintln(r.opt.Err, r.opt.Theme.Error.Render(r.opt.Theme.SymFail+" "+msg))
}

func (r *Runner) usage(msg string) int {
	r.fail(msg)
	return ExitUsage
}

func (r *Runner) invalid(errs form.Errors) int {
	for _, field := range slices.Sorted(maps.Keys(errs)) {
		r.fail(field + ": " + errs[field])
	}
	return ExitUsage
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

// parseFlags reports a usage exit code when args are malformed.
func (r *Runner) parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK, false
		}
		return ExitUsage, false
	}
	return 0, true
}

var (
	errNoItem    = errors.New("no item with that id")
	errAmbiguous = errors.New("id prefix matches more than one item")
)

// resolveItem finds an item by full id or unique id prefix.
func (r *Runner) resolveItem(ref string) (domain.Item, error) {
	if item, ok := r.svc.GetItemByID(ref); ok {
		return item, nil
	}
	if ref == "" {
		return domain.Item{}, errNoItem
	}

	var found []domain.Item
	for _, item := range r.svc.ListItems(filter.Query{}).Items {
		if strings.HasPrefix(item.ID, ref) {
			found = append(found, item)
		}
	}
	switch len(found) {
	case 0:
		return domain.Item{}, errNoItem
	case 1:
		return found[0], nil
	default:
		return domain.Item{}, errAmbiguous
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// -------------- subcommand impls ----------------

func (r *Runner) doSummary() int {
	t := r.opt.Theme
	summaries := r.svc.GetCategorySummaries()
	resolver := r.svc.CategoryResolver()

	lines := []string{t.Title.Render("Supplies by category"), ""}
	if len(summaries) == 0 {
		lines = append(lines, t.Muted.Render("No items yet. Add one with `prepstock add -name \"Water\"`."))
		fmt.Fprintln(r.opt.Out, t.panel(lines))
		return ExitOK
	}

	var total, soon, expired int
	for _, s := range summaries {
		total += s.TotalItems
		soon += s.ExpiringSoon
		expired += s.Expired

		line := fmt.Sprintf("%-16s %3d items", resolver.Label(s.Category), s.TotalItems)
		if s.ExpiringSoon > 0 {
			line += "  " + t.Warning.Render(fmt.Sprintf("%d expiring soon", s.ExpiringSoon))
		}
		if s.Expired > 0 {
			line += "  " + t.Danger.Render(fmt.Sprintf("%d expired", s.Expired))
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", t.Muted.Render(fmt.Sprintf("%d items, %d expiring soon, %d expired", total, soon, expired)))

	fmt.Fprintln(r.opt.Out, t.panel(lines))
	return ExitOK
}

func (r *Runner) doList(args []string) int {
	fs := newFlagSet("ls", r.opt.Err)
	text := fs.String("q", "", "name contains")
	category := fs.String("category", filter.All, "category value")
	st := fs.String("status", filter.All, "safe|warning|danger")
	days := fs.String("days", filter.All, "today|week|month|expired")
	if code, ok := r.parseFlags(fs, args); !ok {
		return code
	}

	q := filter.Query{Text: *text, Category: domain.Category(*category)}
	var err error
	if q.Status, err = filter.ParseStatus(*st); err != nil {
		return r.usage("ls: " + err.Error())
	}
	if q.Days, err = filter.ParseBucket(*days); err != nil {
		return r.usage("ls: " + err.Error())
	}

	res := r.svc.ListItems(q)
	t := r.opt.Theme
	switch {
	case res.Empty():
		fmt.Fprintln(r.opt.Out, t.Muted.Render("No items yet."))
		return ExitOK
	case res.NoMatches():
		fmt.Fprintln(r.opt.Out, t.Muted.Render(fmt.Sprintf("No items match the filters (%d items in total).", res.Total)))
		return ExitOK
	}

	for _, v := range r.svc.Views(res.Items) {
		fmt.Fprintf(r.opt.Out, "%s  %s  %-28s %-14s %s\n",
			t.Muted.Render(shortID(v.ID)),
			t.Badge(v.Status),
			v.Name,
			v.CategoryLabel,
			t.status(v.Status).Render(status.DaysLabel(v.DaysRemaining)),
		)
	}
	fmt.Fprintln(r.opt.Out, t.Muted.Render(fmt.Sprintf("%d of %d items", len(res.Items), res.Total)))
	return ExitOK
}

func (r *Runner) doShow(ref string) int {
	item, err := r.resolveItem(ref)
	if err != nil {
		r.fail("show: " + err.Error())
		return ExitError
	}

	t := r.opt.Theme
	v := r.svc.View(item)
	lines := []string{
		t.Title.Render(v.Name) + "  " + t.Badge(v.Status),
		"",
		"id:          " + v.ID,
		"category:    " + v.CategoryLabel,
		"expires:     " + v.ExpirationDate.Format("2006-01-02") + "  " + t.status(v.Status).Render(status.DaysLabel(v.DaysRemaining)),
		"reminder:    " + v.ReminderDate.Format("2006-01-02"),
	}
	if v.Location != "" {
		lines = append(lines, "location:    "+v.Location)
	}
	if v.Notes != "" {
		lines = append(lines, "notes:       "+v.Notes)
	}
	if v.ImageURL != "" {
		img := v.ImageURL
		if strings.HasPrefix(img, "data:") {
			img = "(embedded image)"
		}
		lines = append(lines, "image:       "+img)
	}
	lines = append(lines, "", t.Muted.Render("updated "+v.UpdatedAt.Format(time.RFC3339)))

	fmt.Fprintln(r.opt.Out, t.panel(lines))
	return ExitOK
}

func (r *Runner) doAdd(ctx context.Context, args []string) int {
	var in form.ItemInput
	fs := newFlagSet("add", r.opt.Err)
	fs.StringVar(&in.Name, "name", "", "item name (or pass it as trailing words)")
	fs.StringVar(&in.Category, "category", "", "category value (default food)")
	fs.StringVar(&in.Location, "location", "", "where it is stored")
	fs.StringVar(&in.ExpirationDate, "expires", "", "expiration date YYYY-MM-DD (default in 3 months)")
	fs.StringVar(&in.ReminderDate, "reminder", "", "reminder date YYYY-MM-DD (default a week before expiry)")
	fs.StringVar(&in.Notes, "notes", "", "free-form notes")
	fs.StringVar(&in.ImageURL, "image", "", "image URL")
	if code, ok := r.parseFlags(fs, args); !ok {
		return code
	}
	if in.Name == "" {
		in.Name = strings.Join(fs.Args(), " ")
	}

	draft, errs := in.Draft(r.svc.CategoryResolver(), r.opt.Now())
	if len(errs) > 0 {
		return r.invalid(errs)
	}

	item := r.svc.AddItem(ctx, draft)
	r.ok(fmt.Sprintf("added %s (%s)", item.Name, shortID(item.ID)))
	return ExitOK
}

func (r *Runner) doEdit(ctx context.Context, ref string, args []string) int {
	item, err := r.resolveItem(ref)
	if err != nil {
		r.fail("edit: " + err.Error())
		return ExitError
	}

	fs := newFlagSet("edit", r.opt.Err)
	fs.String("name", "", "item name")
	fs.String("category", "", "category value")
	fs.String("location", "", "where it is stored")
	fs.String("expires", "", "expiration date YYYY-MM-DD")
	fs.String("reminder", "", "reminder date YYYY-MM-DD")
	fs.String("notes", "", "free-form notes")
	fs.String("image", "", "image URL, empty to clear")
	if code, ok := r.parseFlags(fs, args); !ok {
		return code
	}

	var in form.ItemPatchInput
	fields := map[string]**string{
		"name":     &in.Name,
		"category": &in.Category,
		"location": &in.Location,
		"expires":  &in.ExpirationDate,
		"reminder": &in.ReminderDate,
		"notes":    &in.Notes,
		"image":    &in.ImageURL,
	}
	fs.Visit(func(f *flag.Flag) {
		v := f.Value.String()
		*fields[f.Name] = &v
	})

	patch, errs := in.Patch(r.svc.CategoryResolver(), item)
	if len(errs) > 0 {
		return r.invalid(errs)
	}

	updated, ok := r.svc.UpdateItem(ctx, item.ID, patch)
	if !ok {
		r.fail("edit: " + errNoItem.Error())
		return ExitError
	}
	r.ok("updated " + updated.Name)
	return ExitOK
}

func (r *Runner) doRemove(ctx context.Context, ref string) int {
	item, err := r.resolveItem(ref)
	if err != nil {
		r.fail("rm: " + err.Error())
		return ExitError
	}
	if !r.svc.DeleteItem(ctx, item.ID) {
		r.fail("rm: " + errNoItem.Error())
		return ExitError
	}
	r.ok("removed " + item.Name)
	return ExitOK
}

func (r *Runner) doSettings(ctx context.Context, args []string) int {
	fs := newFlagSet("settings", r.opt.Err)
	threshold := fs.Int("threshold", 0, "warning threshold in days")
	reminder := fs.Int("reminder", 0, "reminder lead time in days")
	notifications := fs.Bool("notifications", false, "enable notifications")
	if code, ok := r.parseFlags(fs, args); !ok {
		return code
	}

	var in form.SettingsInput
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "threshold":
			in.WarningThreshold = threshold
		case "reminder":
			in.ReminderDays = reminder
		case "notifications":
			in.NotificationsEnabled = notifications
		}
	})

	settings := r.svc.Settings()
	if fs.NFlag() > 0 {
		patch, errs := in.Patch()
		if len(errs) > 0 {
			return r.invalid(errs)
		}
		settings = r.svc.UpdateSettings(ctx, patch)
		r.ok("settings saved")
	}

	t := r.opt.Theme
	fmt.Fprintln(r.opt.Out, t.panel([]string{
		t.Title.Render("Settings"),
		"",
		fmt.Sprintf("warning threshold:  %d days", settings.WarningThreshold),
		fmt.Sprintf("reminder:           %d days", settings.ReminderDays),
		fmt.Sprintf("notifications:      %t", settings.NotificationsEnabled),
		fmt.Sprintf("custom categories:  %d", len(settings.CustomCategories)),
	}))
	return ExitOK
}

func (r *Runner) doCategory(ctx context.Context, args []string) int {
	if len(args) == 0 {
		return r.usage("usage: prepstock category ls|add|rm")
	}
	sub, a := args[0], args[1:]

	switch sub {
	case "ls":
		t := r.opt.Theme
		for _, o := range r.svc.CategoryResolver().Options() {
			line := fmt.Sprintf("%-16s %-16s %s", o.Value, o.Label, t.Muted.Render(o.Icon))
			if o.Custom {
				line += "  " + t.Accent.Render("custom")
			}
			fmt.Fprintln(r.opt.Out, line)
		}
		for _, cc := range r.svc.Settings().CustomCategories {
			fmt.Fprintln(r.opt.Out, t.Muted.Render(fmt.Sprintf("%s id %s", cc.Value, cc.ID)))
		}
		return ExitOK

	case "add":
		var in form.CustomCategoryInput
		fs := newFlagSet("category add", r.opt.Err)
		fs.StringVar(&in.Label, "label", "", "display label")
		fs.StringVar(&in.Value, "value", "", "stored value (default derived from label)")
		fs.StringVar(&in.Icon, "icon", "", "icon name")
		if code, ok := r.parseFlags(fs, a); !ok {
			return code
		}
		if in.Label == "" {
			in.Label = strings.Join(fs.Args(), " ")
		}
		draft, errs := form.ValidateCustomCategory(in, r.svc.CategoryResolver())
		if len(errs) > 0 {
			return r.invalid(errs)
		}
		cc := r.svc.AddCustomCategory(ctx, draft)
		r.ok(fmt.Sprintf("added category %s (%s)", cc.Label, cc.Value))
		return ExitOK

	case "rm":
		if len(a) != 1 {
			return r.usage("usage: prepstock category rm <id|value>")
		}
		id := a[0]
		for _, cc := range r.svc.Settings().CustomCategories {
			if string(cc.Value) == id {
				id = cc.ID
				break
			}
		}
		if !r.svc.DeleteCustomCategory(ctx, id) {
			r.fail("category rm: no custom category " + a[0])
			return ExitError
		}
		r.ok("removed category " + a[0])
		return ExitOK
	}

	return r.usage("unknown category subcommand: " + sub)
}

func (r *Runner) doPhones(args []string) int {
	kind := reference.PhoneKindAll
	if len(args) == 1 {
		kind = reference.PhoneKind(strings.ToLower(args[0]))
	}
	if !reference.ValidPhoneKind(kind) {
		return r.usage("phones: unknown kind " + string(kind))
	}

	t := r.opt.Theme
	lines := []string{t.Title.Render("Emergency numbers"), ""}
	for _, p := range reference.Phones(kind) {
		lines = append(lines, fmt.Sprintf("%-44s %s", p.Name, t.Accent.Render(p.Number)))
	}
	fmt.Fprintln(r.opt.Out, t.panel(lines))
	return ExitOK
}
