package engine

import (
	"sort"

	"github.com/vfx-pipeline/houdinictl/internal/config"
)

// Menu is the static command menu built from the configured app commands.
type Menu struct {
	// Context is the display string for the current production context.
	Context string
	// Sections holds the menu sections in display order.
	Sections []MenuSection
}

// MenuSection is a titled group of menu commands.
type MenuSection struct {
	// Title is the section label.
	Title string
	// Commands lists the section entries in display order.
	Commands []Command
}

// BuildMenu constructs the menu for the given context.
// Returns nil when enable_sg_menu is false. Favourites come first in the
// configured order, then one section per app instance with its remaining
// commands. Favourites that do not resolve are skipped with a warning.
func (e *Engine) BuildMenu(current Context) *Menu {
	if !e.cfg.MenuEnabled() {
		return nil
	}

	menu := &Menu{Context: current.String()}
	pinned := make(map[config.CommandRef]struct{})

	var favourites []Command
	for _, ref := range e.cfg.MenuFavourites {
		cmd, ok := e.Lookup(ref)
		if !ok {
			e.logger.Warn("skipping unknown menu favourite",
				"app_instance", ref.AppInstance, "name", ref.Name)
			continue
		}
		favourites = append(favourites, cmd)
		pinned[ref] = struct{}{}
	}
	if len(favourites) > 0 {
		menu.Sections = append(menu.Sections, MenuSection{Title: "Favourites", Commands: favourites})
	}

	byApp := make(map[string][]Command)
	for _, cmd := range e.Commands() {
		if _, isPinned := pinned[cmd.Ref()]; isPinned {
			continue
		}
		byApp[cmd.AppInstance] = append(byApp[cmd.AppInstance], cmd)
	}

	instances := make([]string, 0, len(byApp))
	for instance := range byApp {
		instances = append(instances, instance)
	}
	sort.Strings(instances)

	for _, instance := range instances {
		menu.Sections = append(menu.Sections, MenuSection{Title: instance, Commands: byApp[instance]})
	}

	return menu
}

// BuildShelf returns the commands placed on the dynamic shelf, or nil when
// enable_sg_shelf is false.
func (e *Engine) BuildShelf() []Command {
	if !e.cfg.ShelfEnabled() {
		return nil
	}

	var shelf []Command
	for _, cmd := range e.Commands() {
		if cmd.Shelf {
			shelf = append(shelf, cmd)
		}
	}
	return shelf
}
