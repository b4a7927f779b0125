package geocoding

import "strings"

var knownCities = map[string]Coordinates{
	"yerevan":      {40.1792, 44.4991},
	"երևան":        {40.1792, 44.4991},
	"gyumri":       {40.7942, 43.8453},
	"գյումրի":      {40.7942, 43.8453},
	"vanadzor":     {40.8128, 44.4883},
	"վանաձոր":      {40.8128, 44.4883},
	"vagharshapat": {40.1613, 44.2916},
	"etchmiadzin":  {40.1613, 44.2916},
	"abovyan":      {40.2739, 44.6256},
	"kapan":        {39.2077, 46.4057},
	"hrazdan":      {40.4974, 44.7662},
	"armavir":      {40.1545, 44.0383},
	"dilijan":      {40.7406, 44.8633},
	"sevan":        {40.5488, 44.9483},
	"goris":        {39.5111, 46.3381},
	"ijevan":       {40.8756, 45.1492},
	"gavar":        {40.3589, 45.1267},
	"artashat":     {39.9548, 44.5503},
	"ashtarak":     {40.2991, 44.3623},
	"jermuk":       {39.8417, 45.6722},
	"tsaghkadzor":  {40.5325, 44.7203},
}

// KnownCity looks a city up in the static coordinate table.
func KnownCity(name string) (Coordinates, bool) {
	c, ok := knownCities[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

func cityInText(text string) (Coordinates, bool) {
	lower := strings.ToLower(text)
	if lower == "" {
		return Coordinates{}, false
	}
	for _, part := range strings.FieldsFunc(lower, func(r rune) bool { return r == ',' || r == ' ' || r == '.' }) {
		if c, ok := knownCities[part]; ok {
			return c, true
		}
	}
	return Coordinates{}, false
}
