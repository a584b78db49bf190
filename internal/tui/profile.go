package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/meltforce/ironlog/internal/api"
	"github.com/meltforce/ironlog/internal/models"
)

// profileModel is the Profile tab: the gamified profile, cosmetic shop,
// achievements, and the level reward table.
type profileModel struct {
	client *api.Client

	user         *models.User
	shop         []models.ShopItem
	achievements []models.Achievement
	rewards      []models.LevelReward
	loaded       bool

	shopCursor   int
	editingEmail bool
	emailInput   textinput.Model
}

type profileDataMsg struct {
	user         *models.User
	shop         []models.ShopItem
	achievements []models.Achievement
	rewards      []models.LevelReward
}

type purchaseMsg struct{ result *models.PurchaseResult }

func newProfileModel(client *api.Client) profileModel {
	email := textinput.New()
	email.Placeholder = "new email"
	email.CharLimit = 128
	return profileModel{client: client, emailInput: email}
}

func (m profileModel) inputFocused() bool { return m.editingEmail }

func (m profileModel) load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var (
			wg           sync.WaitGroup
			user         *models.User
			shop         []models.ShopItem
			achievements []models.Achievement
			rewards      []models.LevelReward
			errs         [4]error
		)
		wg.Add(4)
		go func() {
			defer wg.Done()
			user, errs[0] = client.GetProfile(ctx)
		}()
		go func() {
			defer wg.Done()
			shop, errs[1] = client.GetShopItems(ctx)
		}()
		go func() {
			defer wg.Done()
			achievements, errs[2] = client.GetAchievements(ctx)
		}()
		go func() {
			defer wg.Done()
			rewards, errs[3] = client.GetLevelRewards(ctx)
		}()
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				return errMsg{err}
			}
		}
		return profileDataMsg{user: user, shop: shop, achievements: achievements, rewards: rewards}
	}
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileDataMsg:
		m.user = msg.user
		m.shop = msg.shop
		m.achievements = msg.achievements
		m.rewards = msg.rewards
		m.loaded = true
		if m.shopCursor >= len(m.shop) {
			m.shopCursor = 0
		}
		return m, nil

	case purchaseMsg:
		// Reload so coins and applied cosmetics reflect the purchase.
		return m, tea.Batch(
			func() tea.Msg { return statusMsg(msg.result.Msg) },
			m.load(),
		)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m profileModel) handleKey(msg tea.KeyMsg) (profileModel, tea.Cmd) {
	if m.editingEmail {
		switch msg.String() {
		case "esc":
			m.editingEmail = false
			m.emailInput.Blur()
			return m, nil
		case "enter":
			email := strings.TrimSpace(m.emailInput.Value())
			m.editingEmail = false
			m.emailInput.Blur()
			if email == "" {
				return m, nil
			}
			return m, m.updateEmail(email)
		}
		var cmd tea.Cmd
		m.emailInput, cmd = m.emailInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "up", "k":
		if m.shopCursor > 0 {
			m.shopCursor--
		}
	case "down", "j":
		if m.shopCursor < len(m.shop)-1 {
			m.shopCursor++
		}
	case "b", "enter":
		if len(m.shop) > 0 {
			item := m.shop[m.shopCursor]
			if !item.CanBuy {
				return m, func() tea.Msg { return statusMsg("you can't afford that yet") }
			}
			return m, m.purchase(item.ID)
		}
	case "e":
		m.editingEmail = true
		m.emailInput.SetValue("")
		return m, m.emailInput.Focus()
	case "r":
		return m, m.load()
	}
	return m, nil
}

func (m profileModel) purchase(itemID int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		result, err := client.PurchaseItem(ctx, itemID)
		if err != nil {
			return errMsg{err}
		}
		return purchaseMsg{result: result}
	}
}

func (m profileModel) updateEmail(email string) tea.Cmd {
	client, load := m.client, m.load()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := client.UpdateProfile(ctx, email); err != nil {
			return errMsg{err}
		}
		return load()
	}
}

func (m profileModel) View() string {
	if !m.loaded {
		return "\n" + dimStyle.Render("loading profile...")
	}

	out := "\n" + m.viewHeader()
	out += m.viewShop()
	out += m.viewAchievements()
	out += m.viewRewards()

	if m.editingEmail {
		out += "\n" + labelStyle.Render("New email: ") + m.emailInput.View() + "\n"
	}

	out += "\n" + footerKeys("b", "buy", "e", "email", "r", "refresh", "1-6", "tabs")
	return out
}

func (m profileModel) viewHeader() string {
	u := m.user
	out := valueStyle.Render(u.AvatarIcon+" "+u.Username)
	if u.IsVerified {
		out += " " + successStyle.Render("✓")
	}
	if u.Title != "" {
		out += "  " + dimStyle.Render(u.Title)
	}
	out += "\n"
	out += labelStyle.Render("Level "+fmt.Sprintf("%d", u.Level)) +
		dimStyle.Render(fmt.Sprintf("  %d XP  ", u.XP)) +
		labelStyle.Render("Coins: ") + valueStyle.Render(fmt.Sprintf("%d", u.Coins)) + "\n"
	if u.Email != "" {
		out += dimStyle.Render(u.Email) + "\n"
	}
	return out
}

func (m profileModel) viewShop() string {
	out := "\n" + sectionStyle.Render("┃ Shop") + "\n"
	for i, item := range m.shop {
		line := fmt.Sprintf("  %-22s %s", item.Name,
			labelStyle.Render(fmt.Sprintf("%d coins", item.Price)))
		switch {
		case item.Locked:
			line += dimStyle.Render(fmt.Sprintf("  (level %d)", item.RequiredLevel))
		case !item.CanBuy:
			line += dimStyle.Render("  (too pricey)")
		}
		if i == m.shopCursor {
			out += selectedStyle.Render("▸"+line) + "\n"
		} else {
			out += line + "\n"
		}
	}
	return out
}

func (m profileModel) viewAchievements() string {
	unlocked := 0
	for _, a := range m.achievements {
		if a.Unlocked {
			unlocked++
		}
	}

	out := "\n" + sectionStyle.Render(fmt.Sprintf("┃ Achievements (%d/%d)", unlocked, len(m.achievements))) + "\n"
	for _, a := range m.achievements {
		marker := dimStyle.Render("·")
		name := dimStyle.Render(a.Name)
		if a.Unlocked {
			marker = successStyle.Render("★")
			name = valueStyle.Render(a.Name)
		}
		out += fmt.Sprintf("  %s %s %s\n", marker, name,
			dimStyle.Render(fmt.Sprintf("+%dxp +%dc", a.XPReward, a.CoinsReward)))
	}
	return out
}

func (m profileModel) viewRewards() string {
	out := "\n" + sectionStyle.Render("┃ Level Rewards") + "\n"
	for _, r := range m.rewards {
		label := fmt.Sprintf("  lv%-3d %s", r.Level, r.Reward)
		if r.Unlocked {
			out += successStyle.Render(label) + "\n"
		} else {
			out += dimStyle.Render(label) + "\n"
		}
	}
	return out
}
