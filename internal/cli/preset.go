package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/gritday/gritday/internal/constants"
	"github.com/gritday/gritday/internal/models"
	"github.com/gritday/gritday/internal/utils"
)

// findPreset resolves a preset reference, trying id first and then an
// exact name match.
func findPreset(ctx *Context, ref string) (models.Preset, error) {
	p, err := ctx.Store.GetPreset(ref)
	if err == nil {
		return p, nil
	}
	presets, listErr := ctx.Store.GetPresets()
	if listErr != nil {
		return models.Preset{}, listErr
	}
	for _, p := range presets {
		if p.Name == ref {
			return p, nil
		}
	}
	return models.Preset{}, fmt.Errorf("no preset %q", ref)
}

func savePreset(ctx *Context, p models.Preset) error {
	p.UpdatedAt = utils.Now()
	return ctx.save(func() error { return ctx.Store.SavePreset(p) })
}

type PresetCreateCmd struct {
	Name string `arg:"" help:"Name of the new preset."`
	Use  bool   `help:"Make it the active preset immediately."`
}

func (c *PresetCreateCmd) Run(ctx *Context) error {
	presets, err := ctx.Store.GetPresets()
	if err != nil {
		return err
	}
	for _, p := range presets {
		if p.Name == c.Name {
			return fmt.Errorf("preset %q already exists", c.Name)
		}
	}

	p := models.Preset{
		ID:   utils.NewID(),
		Name: c.Name,
	}
	if err := savePreset(ctx, p); err != nil {
		return err
	}
	fmt.Printf("Created preset %q\n", p.Name)

	if c.Use {
		return activatePreset(ctx, p)
	}
	return nil
}

type PresetListCmd struct{}

func (c *PresetListCmd) Run(ctx *Context) error {
	presets, err := ctx.Store.GetPresets()
	if err != nil {
		return err
	}
	if len(presets) == 0 {
		fmt.Println("No presets. Create one with 'gritday preset create'.")
		return nil
	}

	prog, err := ctx.Store.GetProgress()
	if err != nil {
		return err
	}

	for _, p := range presets {
		marker := "  "
		if p.ID == prog.ActivePresetID {
			marker = doneStyle.Render("* ")
		}
		fmt.Printf("%s%-20s  %d habit(s), %d task(s)\n", marker, p.Name, len(p.Habits), len(p.Tasks))
	}
	return nil
}

type PresetShowCmd struct {
	Preset string `arg:"" help:"Preset name or id."`
}

func (c *PresetShowCmd) Run(ctx *Context) error {
	p, err := findPreset(ctx, c.Preset)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(p.Name))
	fmt.Println()
	fmt.Println("Habits:")
	if len(p.Habits) == 0 {
		fmt.Println(mutedStyle.Render("  (none)"))
	}
	for _, it := range p.Habits {
		fmt.Printf("  - %s  %s\n", it.Text, mutedStyle.Render(it.ID))
	}
	fmt.Println("Tasks:")
	if len(p.Tasks) == 0 {
		fmt.Println(mutedStyle.Render("  (none)"))
	}
	for _, it := range p.Tasks {
		line := fmt.Sprintf("  - %s", it.Text)
		if it.Time != "" {
			line += "  @" + it.Time
		}
		fmt.Printf("%s  %s\n", line, mutedStyle.Render(it.ID))
	}
	return nil
}

type PresetRenameCmd struct {
	Preset  string `arg:"" help:"Preset name or id."`
	NewName string `arg:"" help:"New name."`
}

func (c *PresetRenameCmd) Run(ctx *Context) error {
	p, err := findPreset(ctx, c.Preset)
	if err != nil {
		return err
	}
	old := p.Name
	p.Name = c.NewName
	if err := savePreset(ctx, p); err != nil {
		return err
	}
	fmt.Printf("Renamed preset %q to %q\n", old, p.Name)
	return nil
}

type PresetDeleteCmd struct {
	Preset string `arg:"" help:"Preset name or id."`
	Yes    bool   `help:"Skip the confirmation prompt."`
}

func (c *PresetDeleteCmd) Run(ctx *Context) error {
	p, err := findPreset(ctx, c.Preset)
	if err != nil {
		return err
	}

	if !c.Yes && !ctx.Yes {
		ok, err := confirm(fmt.Sprintf("Delete preset %q?", p.Name),
			"Existing day plans keep their items; the template is gone for good.")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := ctx.save(func() error { return ctx.Store.DeletePreset(p.ID) }); err != nil {
		return err
	}

	// Deactivate if it was the active preset.
	if _, err := ctx.Store.UpdateProgress(func(prog models.UserProgress) models.UserProgress {
		if prog.ActivePresetID == p.ID {
			prog.ActivePresetID = ""
		}
		return prog
	}); err != nil {
		return err
	}

	fmt.Printf("Deleted preset %q\n", p.Name)
	return nil
}

type PresetUseCmd struct {
	Preset string `arg:"" help:"Preset name or id to activate."`
}

func (c *PresetUseCmd) Run(ctx *Context) error {
	p, err := findPreset(ctx, c.Preset)
	if err != nil {
		return err
	}
	return activatePreset(ctx, p)
}

func activatePreset(ctx *Context, p models.Preset) error {
	if _, err := ctx.Store.UpdateProgress(func(prog models.UserProgress) models.UserProgress {
		prog.ActivePresetID = p.ID
		return prog
	}); err != nil {
		return err
	}
	fmt.Printf("Active preset is now %q. New days will start from it.\n", p.Name)
	return nil
}

type PresetAddCmd struct {
	Preset string `arg:"" help:"Preset name or id."`
	Kind   string `arg:"" enum:"habit,task" help:"Item kind: habit or task."`
	Text   string `arg:"" help:"Item text."`
	Time   string `help:"Display time for tasks (HH:MM)."`
}

func (c *PresetAddCmd) Run(ctx *Context) error {
	if c.Time != "" {
		if c.Kind != constants.KindTask {
			return errors.New("only tasks carry a time")
		}
		if !utils.ValidTime(c.Time) {
			return fmt.Errorf("invalid time %q, expected HH:MM", c.Time)
		}
	}

	p, err := findPreset(ctx, c.Preset)
	if err != nil {
		return err
	}

	item := models.PresetItem{ID: utils.NewID(), Text: c.Text, Time: c.Time}
	if c.Kind == constants.KindHabit {
		p.Habits = append(p.Habits, item)
	} else {
		p.Tasks = append(p.Tasks, item)
	}
	if err := savePreset(ctx, p); err != nil {
		return err
	}
	fmt.Printf("Added %s %q to preset %q\n", c.Kind, c.Text, p.Name)
	return nil
}

type PresetRemoveCmd struct {
	Preset string `arg:"" help:"Preset name or id."`
	Item   string `arg:"" help:"Item id or exact text."`
}

func (c *PresetRemoveCmd) Run(ctx *Context) error {
	p, err := findPreset(ctx, c.Preset)
	if err != nil {
		return err
	}

	removed := false
	filter := func(items []models.PresetItem) []models.PresetItem {
		out := items[:0]
		for _, it := range items {
			if !removed && (it.ID == c.Item || it.Text == c.Item) {
				removed = true
				continue
			}
			out = append(out, it)
		}
		return out
	}
	p.Habits = filter(p.Habits)
	p.Tasks = filter(p.Tasks)

	if !removed {
		return fmt.Errorf("no item %q in preset %q", c.Item, p.Name)
	}
	if err := savePreset(ctx, p); err != nil {
		return err
	}
	fmt.Printf("Removed item from preset %q. Synced days will archive it, not delete it.\n", p.Name)
	return nil
}

type PresetMoveCmd struct {
	Preset   string `arg:"" help:"Preset name or id."`
	Item     string `arg:"" help:"Item id or exact text."`
	Position int    `arg:"" help:"New 1-based position within the item's kind."`
}

func (c *PresetMoveCmd) Run(ctx *Context) error {
	p, err := findPreset(ctx, c.Preset)
	if err != nil {
		return err
	}

	move := func(items []models.PresetItem) ([]models.PresetItem, bool) {
		for i, it := range items {
			if it.ID == c.Item || it.Text == c.Item {
				pos := c.Position - 1
				if pos < 0 {
					pos = 0
				}
				if pos >= len(items) {
					pos = len(items) - 1
				}
				items = append(items[:i], items[i+1:]...)
				items = append(items[:pos], append([]models.PresetItem{it}, items[pos:]...)...)
				return items, true
			}
		}
		return items, false
	}

	var moved bool
	if p.Habits, moved = move(p.Habits); !moved {
		if p.Tasks, moved = move(p.Tasks); !moved {
			return fmt.Errorf("no item %q in preset %q", c.Item, p.Name)
		}
	}

	if err := savePreset(ctx, p); err != nil {
		return err
	}
	fmt.Printf("Moved item to position %d in preset %q\n", c.Position, p.Name)
	return nil
}

// confirm shows a yes/no prompt and returns the choice.
func confirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Description(description).
			Value(&ok),
	)).Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}
