package client

import (
	"context"
	"fmt"

	"github.com/animeverse/animeverse/internal/models"
)

// Characters lists the characters of an anime with their roles.
func (c *client) Characters(ctx context.Context, id int) []models.CharacterRole {
	list, ok := fetchAs[[]models.CharacterRole](ctx, c, fmt.Sprintf("/anime/%d/characters", id))
	if !ok || list == nil {
		return []models.CharacterRole{}
	}
	for i := range list {
		normalizeEntity(&list[i].Character)
		for j := range list[i].VoiceActors {
			normalizeEntity(&list[i].VoiceActors[j].Person)
		}
	}
	return list
}

// Staff lists the people credited on an anime.
func (c *client) Staff(ctx context.Context, id int) []models.StaffMember {
	list, ok := fetchAs[[]models.StaffMember](ctx, c, fmt.Sprintf("/anime/%d/staff", id))
	if !ok || list == nil {
		return []models.StaffMember{}
	}
	for i := range list {
		normalizeEntity(&list[i].Person)
	}
	return list
}

// Recommendations lists anime recommended alongside id.
func (c *client) Recommendations(ctx context.Context, id int) []models.Recommendation {
	list, ok := fetchAs[[]models.Recommendation](ctx, c, fmt.Sprintf("/anime/%d/recommendations", id))
	if !ok || list == nil {
		return []models.Recommendation{}
	}
	for i := range list {
		normalizeEntity(&list[i].Entry)
	}
	return list
}

// Themes returns opening and ending songs, defaulting to two empty lists.
func (c *client) Themes(ctx context.Context, id int) models.Themes {
	themes, ok := fetchAs[models.Themes](ctx, c, fmt.Sprintf("/anime/%d/themes", id))
	if !ok {
		return models.EmptyThemes()
	}
	if themes.Openings == nil {
		themes.Openings = []string{}
	}
	if themes.Endings == nil {
		themes.Endings = []string{}
	}
	themes.Openings = cleanAll(themes.Openings)
	themes.Endings = cleanAll(themes.Endings)
	return themes
}

func cleanAll(items []string) []string {
	for i := range items {
		items[i] = cleanText(items[i])
	}
	return items
}
