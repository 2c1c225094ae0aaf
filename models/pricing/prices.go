package pricing

import "github.com/serendibtrip/serendibtrip-api/types"

// knownPlace maps a lowercase name fragment to a foreign-visitor ticket
// price in LKR.
type knownPlace struct {
	match string
	price int64
}

// knownPlaces is matched in order; the first fragment contained in the
// item name wins, so more specific fragments come first.
var knownPlaces = []knownPlace{
	{"sigiriya", 10500},
	{"pidurangala", 1000},
	{"dambulla cave", 2000},
	{"dambulla", 2000},
	{"temple of the tooth", 2000},
	{"sri dalada maligawa", 2000},
	{"polonnaruwa", 9000},
	{"anuradhapura", 9000},
	{"mihintale", 1000},
	{"yala", 8000},
	{"wilpattu", 8000},
	{"udawalawe", 7000},
	{"minneriya", 7000},
	{"kaudulla", 7000},
	{"horton plains", 6000},
	{"sinharaja", 3000},
	{"pinnawala", 3000},
	{"peradeniya", 2000},
	{"royal botanic", 2000},
	{"hakgala", 1500},
	{"whale watching", 7500},
	{"turtle hatchery", 1000},
	{"lotus tower", 2000},
	{"national museum", 1200},
	{"gangaramaya", 500},
	{"galle fort", 0},
	{"nine arch", 0},
	{"little adam", 0},
	{"adam's peak", 0},
	{"sri pada", 0},
	{"ella rock", 0},
	{"ravana falls", 0},
	{"kandy lake", 0},
	{"galle face", 0},
	{"unawatuna", 0},
	{"mirissa beach", 0},
}

// categoryRanges are the fallback price bands per category, in LKR.
var categoryRanges = map[string]types.PriceRange{
	"attraction":    {Min: 500, Max: 5000},
	"temple":        {Min: 0, Max: 2000},
	"beach":         {Min: 0, Max: 1000},
	"museum":        {Min: 500, Max: 2500},
	"national_park": {Min: 3000, Max: 10000},
	"wildlife":      {Min: 5000, Max: 15000},
	"hiking":        {Min: 0, Max: 3000},
	"waterfall":     {Min: 0, Max: 500},
	"viewpoint":     {Min: 0, Max: 1000},
	"nature":        {Min: 500, Max: 4000},
	"cultural":      {Min: 1000, Max: 5000},
	"historical":    {Min: 1000, Max: 9000},
	"adventure":     {Min: 3000, Max: 15000},
	"shopping":      {Min: 1000, Max: 10000},
	"restaurant":    {Min: 1500, Max: 6000},
	"cafe":          {Min: 800, Max: 3000},
	"street_food":   {Min: 300, Max: 1500},
	"accommodation": {Min: 8000, Max: 35000},
	"transport":     {Min: 500, Max: 8000},
}

// defaultCategory is used for unrecognized categories.
const defaultCategory = "attraction"

// categoryAliases folds common spellings onto categoryRanges keys.
var categoryAliases = map[string]string{
	"park":           "national_park",
	"safari":         "wildlife",
	"hike":           "hiking",
	"trek":           "hiking",
	"culture":        "cultural",
	"heritage":       "historical",
	"history":        "historical",
	"food":           "restaurant",
	"dining":         "restaurant",
	"hotel":          "accommodation",
	"stay":           "accommodation",
	"transportation": "transport",
}
