package carousel

// Variant selects the per-item action tag. All variants run the same
// composition; only the launch behavior attached to items differs.
type Variant string

const (
	VariantParty     Variant = "party"
	VariantCoop      Variant = "coop"
	VariantSweat     Variant = "sweat"
	VariantChallenge Variant = "challengeCreate"
)

func ParseVariant(s string) (Variant, bool) {
	switch Variant(s) {
	case VariantParty, VariantCoop, VariantSweat, VariantChallenge:
		return Variant(s), true
	case "":
		return VariantParty, true
	}
	return "", false
}

func (v Variant) ItemAction() string {
	switch v {
	case VariantCoop:
		return "launchCoopMap"
	case VariantSweat:
		return "launchSweatMap"
	case VariantChallenge:
		return "createChallenge"
	default:
		return "launchPartyMap"
	}
}
