// Package salary implements the salary benchmark service: ingestion with
// location/market normalization and plausibility validation, plus the
// RAG-backed salary analysis.
package salary

import (
	"strings"
	"unicode"
)

// Experience bucket boundaries in years. These are the single authoritative
// thresholds; every caller buckets through ExperienceBucket.
const (
	JuniorMaxYears       = 2
	IntermediateMaxYears = 5
	SeniorMaxYears       = 10
)

// Location is a resolved location: an optional canonical city, a country and
// the coarse economic market the country belongs to.
type Location struct {
	City    string // empty when only the country could be resolved
	Country string
	Market  string
}

// countryCities maps each supported country to the lowercase city names that
// identify it. Order matters: countries are probed in sequence and the first
// match wins (so "london" resolves to Canada before the United Kingdom,
// matching the historical behavior).
var countryCities = []struct {
	country string
	cities  []string
}{
	{"Maroc", []string{
		"casablanca", "rabat", "tanger", "tangier", "fes", "fès", "marrakech", "marrakesh", "agadir",
		"meknes", "meknès", "kenitra", "kénitra", "tetouan", "tétouan", "safi", "el jadida", "oujda",
		"nador", "salé", "sale", "temara", "témara", "mohammedia", "khouribga", "laayoune", "al hoceima",
		"beni mellal", "berrechid", "berkan", "guelmim",
	}},
	{"France", []string{
		"paris", "lyon", "marseille", "toulouse", "nice", "nantes", "montpellier", "strasbourg",
		"bordeaux", "lille", "rennes", "reims", "toulon", "saint-étienne", "le havre", "grenoble",
		"dijon", "angers", "nîmes", "villeurbanne",
	}},
	{"United States", []string{
		"new york", "los angeles", "chicago", "houston", "phoenix", "philadelphia", "san antonio",
		"san diego", "dallas", "san jose", "austin", "jacksonville", "fort worth", "columbus",
		"charlotte", "san francisco", "indianapolis", "seattle", "denver", "boston", "el paso",
		"detroit", "nashville", "portland", "oklahoma city", "las vegas", "baltimore", "louisville",
		"milwaukee", "albuquerque", "tucson", "fresno", "sacramento", "mesa", "kansas city",
		"atlanta", "long beach", "colorado springs", "raleigh", "miami", "virginia beach", "omaha",
		"oakland", "minneapolis", "tulsa", "arlington", "wichita", "new orleans", "cleveland",
	}},
	{"Canada", []string{
		"toronto", "montreal", "vancouver", "calgary", "ottawa", "edmonton", "mississauga", "winnipeg",
		"quebec", "québec", "halifax", "hamilton", "london", "kitchener", "st. catharines", "niagara",
		"oshawa", "victoria", "windsor", "saskatoon", "regina", "sherbrooke", "kelowna", "barrie",
	}},
	{"Germany", []string{
		"berlin", "hamburg", "munich", "münchen", "cologne", "köln", "frankfurt", "stuttgart",
		"düsseldorf", "dortmund", "essen", "leipzig", "bremen", "dresden", "hanover", "hannover",
		"nuremberg", "nürnberg", "duisburg", "bochum", "wuppertal", "bielefeld", "bonn", "münster",
	}},
	{"United Kingdom", []string{
		"london", "birmingham", "liverpool", "leeds", "glasgow", "sheffield", "bradford", "edinburgh",
		"leicester", "manchester", "bristol", "wakefield", "cardiff", "coventry", "nottingham",
		"newcastle", "belfast", "brighton", "hull", "plymouth", "stoke", "wolverhampton", "derby",
		"swansea", "southampton", "salford", "aberdeen", "westminster", "portsmouth", "york",
	}},
}

// countryKeywords are fallback country names, synonyms and abbreviations,
// probed in order after the city tables miss.
var countryKeywords = []struct {
	country  string
	keywords []string
}{
	{"Maroc", []string{"maroc", "morocco", "ma"}},
	{"France", []string{"france", "french", "fr"}},
	{"United States", []string{"usa", "united states", "etats-unis", "états-unis", "us", "u.s.", "america"}},
	{"Canada", []string{"canada", "canadian", "ca"}},
	{"Germany", []string{"germany", "deutschland", "german", "de"}},
	{"United Kingdom", []string{"uk", "united kingdom", "britain", "england", "scotland", "wales", "gb"}},
}

var countryMarkets = map[string]string{
	"Maroc":          "Marché Maghreb",
	"France":         "Marché Européen",
	"United States":  "Marché Nord-Américain",
	"Canada":         "Marché Nord-Américain",
	"Germany":        "Marché Européen",
	"United Kingdom": "Marché Anglo-Saxon",
	"Global":         "Marché Global",
}

// Resolve infers a Location from a free-text location string. The city
// tables are probed first, then country keywords; on a total miss the first
// comma-delimited token becomes a generic city under the catch-all "Global"
// country. Deterministic for any input.
func Resolve(raw string) Location {
	loc := strings.ToLower(strings.Join(strings.Fields(raw), " "))
	if loc == "" {
		return Location{Country: "Global", Market: MarketFor("Global")}
	}

	for _, entry := range countryCities {
		for _, city := range entry.cities {
			if strings.Contains(loc, city) {
				return Location{
					City:    canonicalCity(city),
					Country: entry.country,
					Market:  MarketFor(entry.country),
				}
			}
		}
	}

	for _, entry := range countryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(loc, keyword) {
				return Location{Country: entry.country, Market: MarketFor(entry.country)}
			}
		}
	}

	city := titleCase(strings.TrimSpace(strings.SplitN(loc, ",", 2)[0]))
	return Location{City: city, Country: "Global", Market: MarketFor("Global")}
}

// MarketFor maps a country to its economic market bucket. Unknown countries
// fall into the global market.
func MarketFor(country string) string {
	if market, ok := countryMarkets[country]; ok {
		return market
	}
	return "Marché Global"
}

// ExperienceBucket buckets years of experience into a level name.
func ExperienceBucket(years int) string {
	switch {
	case years <= JuniorMaxYears:
		return "junior"
	case years <= IntermediateMaxYears:
		return "intermediate"
	case years <= SeniorMaxYears:
		return "senior"
	default:
		return "expert"
	}
}

// YearsLabel renders the French experience range label stored alongside
// observations and embedded in chunk text.
func YearsLabel(years int) string {
	switch {
	case years <= JuniorMaxYears:
		return "0-2 ans"
	case years <= IntermediateMaxYears:
		return "3-5 ans"
	case years <= SeniorMaxYears:
		return "5-10 ans"
	default:
		return "10+ ans"
	}
}

var levelCodes = map[string]string{
	"EN": "junior", "MI": "intermediate", "SE": "senior", "EX": "expert",
	"JUNIOR": "junior", "INTERMEDIATE": "intermediate", "SENIOR": "senior", "EXPERT": "expert",
}

var levelLabelsFR = map[string]string{
	"débutant": "junior", "debutant": "junior",
	"intermédiaire": "intermediate", "intermediaire": "intermediate",
	"senior":          "senior",
	"cadre supérieur": "expert", "cadre superieur": "expert",
}

var accentFolder = strings.NewReplacer(
	"é", "e", "è", "e", "ê", "e",
	"à", "a", "â", "a", "î", "i",
	"ô", "o", "ç", "c",
)

// NormalizeLevel maps a textual experience level (dataset codes, English or
// French labels, with or without accents) to the canonical bucket name.
// Unrecognized values fall back to "intermediate" deliberately; the default
// is a policy, not a detected condition.
func NormalizeLevel(label string) string {
	s := strings.TrimSpace(label)
	if s == "" {
		return "intermediate"
	}
	if level, ok := levelCodes[strings.ToUpper(s)]; ok {
		return level
	}
	low := strings.ToLower(s)
	if level, ok := levelLabelsFR[low]; ok {
		return level
	}
	if level, ok := levelLabelsFR[accentFolder.Replace(low)]; ok {
		return level
	}
	return "intermediate"
}

// canonicalCity renders the stored lowercase city name in its display form.
func canonicalCity(city string) string {
	c := titleCase(city)
	c = strings.ReplaceAll(c, "Fes", "Fès")
	c = strings.ReplaceAll(c, "Meknes", "Meknès")
	return c
}

// titleCase uppercases the first letter of every word, where words are
// separated by any non-letter (spaces, hyphens, periods).
func titleCase(s string) string {
	prevLetter := false
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			if !prevLetter {
				prevLetter = true
				return unicode.ToUpper(r)
			}
			prevLetter = true
			return r
		}
		prevLetter = false
		return r
	}, s)
}
