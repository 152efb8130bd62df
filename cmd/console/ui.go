package main

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/FJavierRG/mansion-ambar/internal/storage"
	"github.com/FJavierRG/mansion-ambar/pkg/content"
	"github.com/FJavierRG/mansion-ambar/pkg/engine"
	"github.com/FJavierRG/mansion-ambar/pkg/shop"
	"github.com/FJavierRG/mansion-ambar/pkg/world"
)

var (
	mapPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(1).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // amber
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214")).
			Bold(true)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	playerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")). // teal
			Bold(true)

	npcStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("255")).
		Bold(true)
)

// GameUI is the BubbleTea model that runs the game client.
// https://github.com/charmbracelet/bubbletea
type GameUI struct {
	eng   *engine.Engine
	store storage.Storage
	rng   *rand.Rand

	zone     *world.Grid
	px, py   int
	messages []string

	mapViewport  viewport.Model
	metaViewport viewport.Model
	ready        bool
	width        int
	height       int

	// Shop screen state
	showShop     bool
	shop         *shop.Shop
	selectedItem int

	// Quit confirmation state
	showQuitModal bool

	statusMsg string
}

func NewGameUI(eng *engine.Engine, store storage.Storage) GameUI {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	ui := GameUI{
		eng:          eng,
		store:        store,
		rng:          rng,
		mapViewport:  viewport.New(60, 26),
		metaViewport: viewport.New(30, 26),
	}
	ui.enterZone(buildLobby())
	return ui
}

// enterZone swaps the active zone, spawns NPCs, and places the player.
func (m *GameUI) enterZone(g *world.Grid) {
	m.zone = g
	m.eng.EnterZone(g)
	m.px, m.py = findSpawn(g)
	m.drainMessages()
}

func (m *GameUI) drainMessages() {
	for _, msg := range m.eng.DrainMessages() {
		m.messages = append(m.messages, msg)
	}
	if len(m.messages) > 40 {
		m.messages = m.messages[len(m.messages)-40:]
	}
}

func (m GameUI) Init() tea.Cmd {
	return nil
}

func (m GameUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		mapWidth := int(float64(m.width)*0.65) - 4
		metaWidth := m.width - mapWidth - 6
		m.mapViewport.Width = mapWidth
		m.mapViewport.Height = m.height - 4
		m.metaViewport.Width = metaWidth
		m.metaViewport.Height = m.height - 4
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		if m.showQuitModal {
			return m.updateQuitModal(msg)
		}
		if m.showShop {
			return m.updateShop(msg)
		}
		if m.eng.Dialog.IsActive() {
			return m.updateDialog(msg)
		}
		return m.updatePlaying(msg)
	}

	return m, nil
}

func (m GameUI) updateQuitModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		return m, tea.Quit
	case "n", "N", "esc":
		m.showQuitModal = false
	}
	return m, nil
}

func (m GameUI) updatePlaying(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.showQuitModal = true
	case "up", "w":
		m.movePlayer(0, -1)
	case "down", "s":
		m.movePlayer(0, 1)
	case "left", "a":
		m.movePlayer(-1, 0)
	case "right", "d":
		m.movePlayer(1, 0)
	case " ", "enter":
		m.interactAdjacent()
	case ">":
		m.useStairs()
	case "f5":
		m.saveGame()
	}
	return m, nil
}

func (m *GameUI) movePlayer(dx, dy int) {
	m.statusMsg = ""
	nx, ny := m.px+dx, m.py+dy

	if blocker := m.zone.BlockingEntityAt(nx, ny); blocker != nil {
		// Bump to talk.
		m.startInteraction(blocker)
		return
	}
	if !m.zone.IsWalkable(nx, ny) {
		return
	}
	m.px, m.py = nx, ny
	m.pickupAt(nx, ny)
}

// pickupAt collects any gold pile on the tile. The first coin ever
// picked up unlocks the Wandering Merchant.
func (m *GameUI) pickupAt(x, y int) {
	for _, e := range m.zone.Entities() {
		if e.X != x || e.Y != y || e.Name != "Gold" {
			continue
		}
		m.zone.RemoveEntity(e)
		m.eng.Player.AddGold(5)
		m.messages = append(m.messages, "Picked up 5 gold.")
		if !m.eng.Events.IsTriggered(content.EventFirstGoldPickup) {
			m.eng.Events.Trigger(content.EventFirstGoldPickup, m.eng.Player, m.zone, true)
			m.drainMessages()
		}
		return
	}
}

func (m *GameUI) interactAdjacent() {
	for _, d := range [][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}, {0, 0}} {
		x, y := m.px+d[0], m.py+d[1]
		for _, e := range m.zone.Entities() {
			if e.X == x && e.Y == y && e.Dialog != nil {
				m.startInteraction(e)
				return
			}
		}
	}
	m.statusMsg = "There is nothing here to talk to."
}

func (m *GameUI) startInteraction(e *world.Entity) {
	if e.Dialog == nil {
		return
	}
	if m.eng.BeginInteraction(e) {
		m.drainMessages()
	}
}

func (m *GameUI) useStairs() {
	for _, e := range m.zone.Entities() {
		if e.X != m.px || e.Y != m.py {
			continue
		}
		switch e.Name {
		case "Stairs Down":
			if m.zone.ZoneType() == world.ZoneLobby {
				m.enterZone(buildDungeonFloorWithLoot(1, m.rng))
			} else {
				m.enterZone(buildDungeonFloorWithLoot(m.zone.Floor()+1, m.rng))
			}
			m.messages = append(m.messages, fmt.Sprintf("Floor %d.", m.zone.Floor()))
			return
		case "Stairs Up":
			// Surfacing alive ends the run.
			m.eng.CompleteRun()
			m.drainMessages()
			m.enterZone(buildLobby())
			m.messages = append(m.messages, "You climb back to the entrance hall.")
			return
		}
	}
	m.statusMsg = "No stairs here."
}

func (m *GameUI) saveGame() {
	save := m.eng.Snapshot()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.store.SaveSession(ctx, save.ID, &save); err != nil {
		m.statusMsg = errorStyle.Render("Save failed: " + err.Error())
		return
	}
	m.statusMsg = "Saved as " + save.ID.String()[:8] + "..."
}

func (m GameUI) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.eng.Dialog
	p := m.eng.Player

	if d.IsText() {
		switch msg.String() {
		case " ", "enter", "esc":
			if !d.Close() {
				m.finishInteraction()
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "w":
		d.SelectPrevious(p)
	case "down", "s":
		d.SelectNext(p)
	case "enter", " ":
		if !d.Select(p, m.zone) && !d.IsActive() {
			m.finishInteraction()
		}
	case "esc":
		if !d.Close() {
			m.finishInteraction()
		}
	}
	return m, nil
}

// finishInteraction runs the close contract and then any follow-ups the
// dialog requested, like opening the merchant's shop screen.
func (m *GameUI) finishInteraction() {
	m.eng.EndInteraction()
	m.drainMessages()

	if m.eng.Events.GetBool(content.KeyOpenShop, false) {
		m.eng.Events.SetData(content.KeyOpenShop, false)
		m.shop = shop.MerchantShop(m.eng.Events)
		m.selectedItem = 0
		m.showShop = true
	}
}

func (m GameUI) updateShop(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.showShop = false
		m.shop = nil
	case "up", "w":
		if m.selectedItem > 0 {
			m.selectedItem--
		}
	case "down", "s":
		if m.selectedItem < len(m.shop.Items)-1 {
			m.selectedItem++
		}
	case "enter", " ":
		if len(m.shop.Items) == 0 {
			break
		}
		item := m.shop.Items[m.selectedItem]
		ok, note := m.shop.Buy(m.eng.Player, m.selectedItem)
		m.messages = append(m.messages, note)
		if ok {
			if strings.HasSuffix(item.ID, "_potion") &&
				!m.eng.Events.IsTriggered(content.EventFirstPotionBought) {
				m.eng.Events.Trigger(content.EventFirstPotionBought, m.eng.Player, m.zone, true)
				m.drainMessages()
			}
			if m.selectedItem >= len(m.shop.Items) && m.selectedItem > 0 {
				m.selectedItem--
			}
		}
	}
	return m, nil
}

func (m GameUI) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showQuitModal {
		return dialogStyle.Render("Quit the game?\n\n[y] yes   [n] no")
	}

	m.mapViewport.SetContent(m.renderMap())
	m.metaViewport.SetContent(m.renderSidebar())

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		mapPanelStyle.Render(m.mapViewport.View()),
		metaPanelStyle.Render(m.metaViewport.View()),
	)

	var overlay string
	switch {
	case m.showShop:
		overlay = m.renderShop()
	case m.eng.Dialog.IsActive():
		overlay = m.renderDialog()
	}
	if overlay != "" {
		return main + "\n" + overlay
	}
	if m.statusMsg != "" {
		return main + "\n  " + m.statusMsg
	}
	return main
}

func (m GameUI) renderMap() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.zoneTitle()) + "\n\n")

	glyphs := make(map[[2]int]string)
	for _, e := range m.zone.Entities() {
		glyphs[[2]int{e.X, e.Y}] = npcStyle.Render(string(e.Glyph))
	}
	glyphs[[2]int{m.px, m.py}] = playerStyle.Render("@")

	for y := 0; y < m.zone.Height(); y++ {
		for x := 0; x < m.zone.Width(); x++ {
			if g, ok := glyphs[[2]int{x, y}]; ok {
				b.WriteString(g)
				continue
			}
			if m.zone.IsWalkable(x, y) {
				b.WriteString("·")
			} else {
				b.WriteString("#")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m GameUI) zoneTitle() string {
	if m.zone.ZoneType() == world.ZoneLobby {
		return "ENTRANCE HALL"
	}
	return fmt.Sprintf("DUNGEON / FLOOR %d", m.zone.Floor())
}

func (m GameUI) renderSidebar() string {
	var b strings.Builder
	p := m.eng.Player

	b.WriteString(titleStyle.Render("MANSION AMBAR") + "\n\n")
	b.WriteString(fmt.Sprintf("%s  lvl %d\n", p.Spec.Name, p.Level()))
	b.WriteString(fmt.Sprintf("HP %d/%d   Gold %d\n", p.Actor.HP(), p.Actor.MaxHP(), p.Gold()))
	b.WriteString(fmt.Sprintf("Runs completed: %d\n\n", m.eng.Events.RunCount()))

	b.WriteString("Keys:\n")
	b.WriteString("• arrows/wasd: move\n")
	b.WriteString("• space: talk\n")
	b.WriteString("• >: use stairs\n")
	b.WriteString("• F5: save\n")
	b.WriteString("• q: quit\n\n")

	if len(m.messages) > 0 {
		b.WriteString("Log:\n")
		start := 0
		if len(m.messages) > 8 {
			start = len(m.messages) - 8
		}
		for _, msg := range m.messages[start:] {
			b.WriteString(messageStyle.Render(wordwrap.String(msg, m.metaViewport.Width-2)) + "\n")
		}
	}
	return b.String()
}

func (m GameUI) renderDialog() string {
	d := m.eng.Dialog
	width := m.width - 10
	if width < 30 {
		width = 30
	}

	if d.IsText() {
		t := d.ActiveText()
		var b strings.Builder
		if t.Title != "" {
			b.WriteString(speakerStyle.Render(t.Title) + "\n\n")
		}
		b.WriteString(wordwrap.String(strings.Join(t.Lines, "\n"), width))
		b.WriteString("\n\n[space to continue]")
		return dialogStyle.Render(b.String())
	}

	n := d.CurrentNode()
	if n == nil {
		return ""
	}
	var b strings.Builder
	if n.Speaker != "" {
		b.WriteString(speakerStyle.Render(n.Speaker) + "\n\n")
	}
	b.WriteString(wordwrap.String(n.Text, width) + "\n\n")

	for i, opt := range n.Options {
		if opt.Available != nil && !opt.Available(m.eng.Player) {
			continue
		}
		line := "  " + opt.Text
		if i == d.Selected() {
			line = selectedStyle.Render("> " + opt.Text)
		}
		b.WriteString(line + "\n")
	}
	return dialogStyle.Render(b.String())
}

func (m GameUI) renderShop() string {
	var b strings.Builder
	b.WriteString(speakerStyle.Render("Merchant's wares") + "\n\n")

	if len(m.shop.Items) == 0 {
		b.WriteString("The table is bare. Maybe his man in the lobby could help.\n")
	}
	for i, item := range m.shop.Items {
		line := fmt.Sprintf("  %-24s %4d gold", item.Name, item.Price)
		if i == m.selectedItem {
			line = selectedStyle.Render(">" + line[1:])
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(fmt.Sprintf("\nYour gold: %d   [enter] buy  [esc] leave", m.eng.Player.Gold()))
	return dialogStyle.Render(b.String())
}

// buildDungeonFloorWithLoot scatters a few gold piles over a fresh floor.
func buildDungeonFloorWithLoot(floor int, rng *rand.Rand) *world.Grid {
	g := buildDungeonFloor(floor, rng)
	for i := 0; i < 3; i++ {
		x := 2 + rng.Intn(dungeonWidth-4)
		y := 2 + rng.Intn(dungeonHeight-4)
		if g.IsWalkable(x, y) && g.BlockingEntityAt(x, y) == nil {
			g.AddEntity(&world.Entity{Name: "Gold", X: x, Y: y, Glyph: '*', Color: "gold"})
		}
	}
	return g
}
