package funnel

import (
	"time"

	"funnelboard/models"
)

// Classify buckets contacts into funnel stages for one channel. Each stage
// counts distinct contact IDs, never activity occurrences, and stages are
// mutually inclusive: one contact can sit in every stage at once. Activities
// without a contact reference or from another channel are skipped. The result
// is a pure function of the inputs.
func Classify(projectID string, contacts []models.Contact, activities []models.Activity, channel Channel, variant Variant, opt Options) *models.FunnelResult {
	defs := StageTable(channel, variant)

	sets := make(map[string]map[string]struct{}, len(defs))
	for _, def := range defs {
		sets[def.Key] = make(map[string]struct{})
	}

	groups := make(map[string][]*models.Activity)
	for i := range activities {
		a := &activities[i]
		if a.ContactID == "" || a.Type != string(channel) {
			continue
		}
		groups[a.ContactID] = append(groups[a.ContactID], a)
		for _, def := range defs {
			if def.Match != nil && def.Match(a, opt) {
				sets[def.Key][a.ContactID] = struct{}{}
			}
		}
	}

	for _, def := range defs {
		if def.Grouped == nil {
			continue
		}
		for contactID, group := range groups {
			if def.Grouped(group, opt) {
				sets[def.Key][contactID] = struct{}{}
			}
		}
	}

	stages := make([]models.StageCount, 0, len(defs)+1)
	stages = append(stages, models.StageCount{
		Key:   StageProspectData,
		Label: "Prospect Data",
		Count: len(contacts),
	})
	for _, def := range defs {
		stages = append(stages, models.StageCount{
			Key:   def.Key,
			Label: def.Label,
			Count: len(sets[def.Key]),
		})
	}

	return &models.FunnelResult{
		ProjectID:     projectID,
		Channel:       string(channel),
		SchemaVersion: string(variant),
		Stages:        stages,
		ComputedAt:    time.Now().UTC(),
	}
}

// ClassifyAll runs the current-scheme classifier for every channel.
func ClassifyAll(projectID string, contacts []models.Contact, activities []models.Activity, opt Options) map[string]*models.FunnelResult {
	return map[string]*models.FunnelResult{
		"coldCalling": Classify(projectID, contacts, activities, ChannelCall, VariantCurrent, opt),
		"email":       Classify(projectID, contacts, activities, ChannelEmail, VariantCurrent, opt),
		"linkedin":    Classify(projectID, contacts, activities, ChannelLinkedIn, VariantCurrent, opt),
	}
}
