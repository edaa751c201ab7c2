package riot

import "fmt"

// routingByPlatform maps a platform region (match data, league entries) to the
// routing region used by account-v1 and match-v5 calls.
var routingByPlatform = map[string]string{
	"na1": "americas",
	"br1": "americas",
	"la1": "americas",
	"la2": "americas",
	"euw1": "europe",
	"eun1": "europe",
	"tr1":  "europe",
	"ru":   "europe",
	"kr":  "asia",
	"jp1": "asia",
	"oc1": "sea",
	"ph2": "sea",
	"sg2": "sea",
	"th2": "sea",
	"tw2": "sea",
	"vn2": "sea",
}

// RoutingRegion resolves the routing region for a platform region.
func RoutingRegion(platform string) (string, error) {
	r, ok := routingByPlatform[platform]
	if !ok {
		return "", fmt.Errorf("unknown platform region %q", platform)
	}
	return r, nil
}

// Tiers lists the ranked solo-queue tiers crawled for training data, lowest
// first.
var Tiers = []string{
	"IRON", "BRONZE", "SILVER", "GOLD", "PLATINUM", "DIAMOND",
	"MASTER", "GRANDMASTER", "CHALLENGER",
}

// apexTiers are served by the league-list endpoint instead of paginated
// entries.
var apexTiers = map[string]string{
	"MASTER":      "masterleagues",
	"GRANDMASTER": "grandmasterleagues",
	"CHALLENGER":  "challengerleagues",
}

// IsApexTier reports whether tier uses the league-list endpoint.
func IsApexTier(tier string) bool {
	_, ok := apexTiers[tier]
	return ok
}
