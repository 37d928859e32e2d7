package recommendation

import (
	"fmt"
	"strings"

	"okada-agent-be/internal/entity"
	"okada-agent-be/pkg/agent"
)

const recommendationPrompt = `You are Okada's commercial real estate assistant. Help the user pick a property from the internal listings and book a viewing.

Conversation so far:
---
%s
---

Listings from Okada's database:
---
%s
---

Instructions:
1. Use the whole conversation to understand the user's requirements (location, budget, size).
2. If no listing matches exactly, say so briefly and offer the closest one.
3. Recommend exactly ONE listing and summarise it in a friendly, concise way.
4. Name the assigned associate of that listing.
5. End by offering to book a viewing with that associate.
Do not ask for information the conversation already contains.`

func buildPrompt(history []agent.Message, properties []*entity.Property) string {
	var convo []string
	for _, m := range history {
		if m.IsNotice() {
			continue
		}
		convo = append(convo, fmt.Sprintf("%s: %s", m.Role, m.Content))
	}
	return fmt.Sprintf(recommendationPrompt, strings.Join(convo, "\n"), FormatListings(properties))
}

// FormatListings renders properties as plain text blocks for a prompt.
func FormatListings(properties []*entity.Property) string {
	var b strings.Builder
	for _, p := range properties {
		fmt.Fprintf(&b, "Address: %s\n", p.Address)
		if p.Floor != "" || p.Suite != "" {
			fmt.Fprintf(&b, "Floor/Suite: %s %s\n", p.Floor, p.Suite)
		}
		fmt.Fprintf(&b, "Monthly Rent: $%.2f\n", p.MonthlyRent)
		if p.SizeSf > 0 {
			fmt.Fprintf(&b, "Size: %d SF\n", p.SizeSf)
		}
		if p.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n", p.Description)
		}
		fmt.Fprintf(&b, "Assigned Associate: %s\n---\n", orNA(p.AssignedAssociate))
	}
	return b.String()
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
