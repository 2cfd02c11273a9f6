package taxonomy

import "github.com/Veraticus/industry-atlas/internal/model"

// FallbackID is the id of the default table's catch-all category.
const FallbackID = "T"

// Default returns the built-in table. Ids are single letters following the
// section letters of the Finnish TOL 2008 business classification, with
// media and IT split into J and K, which shifts the later sections by one.
// T (personal and other services) catches records no keyword matches.
func Default() *Table {
	return MustNew(DefaultDefinitions())
}

// DefaultDefinitions returns the built-in category definitions in priority order.
func DefaultDefinitions() []model.CategoryDefinition {
	return []model.CategoryDefinition{
		{
			ID:    "A",
			Label: "Agriculture & Farming",
			Keywords: []string{
				"agriculture", "forestry", "fishing", "farming", "crop", "animal", "hunting",
				"aquaculture", "silviculture", "logging", "growing", "marine", "freshwater",
				"cattle", "dairy", "poultry", "livestock", "cereals", "vegetables", "fruits",
				"grapes", "tobacco", "flowers", "plant", "propagation",
			},
		},
		{
			ID:    "B",
			Label: "Mining & Extraction",
			Keywords: []string{
				"mining", "quarrying", "extraction", "coal", "lignite", "petroleum", "natural gas",
				"metal", "iron", "uranium", "stone", "sand", "clay", "gravel", "salt", "peat",
				"chemical", "fertiliser", "minerals",
			},
		},
		{
			ID:    "C",
			Label: "Manufacturing & Production",
			Keywords: []string{
				"manufacturing", "manufacture", "production", "processing", "food", "beverage", "tobacco", "textile",
				"clothing", "leather", "wood", "paper", "printing", "coke", "petroleum", "chemical",
				"pharmaceutical", "rubber", "plastic", "metal", "machinery", "equipment",
				"furniture", "repair", "meat", "dairy", "bakery", "sugar", "wine", "beer", "spirits",
			},
		},
		{
			ID:    "D",
			Label: "Energy & Utilities",
			Keywords: []string{
				"electricity", "gas", "steam", "air conditioning", "energy", "power", "utility",
				"electric", "generation", "transmission", "distribution", "supply",
			},
		},
		{
			ID:    "E",
			Label: "Water & Waste Management",
			Keywords: []string{
				"water", "supply", "sewerage", "waste", "management", "remediation", "collection",
				"treatment", "disposal", "recovery", "materials", "recycling",
			},
		},
		{
			ID:    "F",
			Label: "Construction & Building",
			Keywords: []string{
				"construction", "building", "civil", "engineering", "specialized", "residential",
				"non-residential", "demolition", "site", "preparation", "electrical", "plumbing",
				"installation", "roofing", "finishing",
			},
		},
		{
			ID:    "G",
			Label: "Trade & Retail",
			Keywords: []string{
				"wholesale", "retail", "trade", "sale", "motor", "vehicle", "repair", "maintenance",
				"parts", "accessories", "fuel", "food", "beverage", "tobacco", "household", "goods",
				"machinery", "equipment",
			},
		},
		{
			ID:    "H",
			Label: "Transportation & Logistics",
			Keywords: []string{
				"transport", "storage", "land", "water", "air", "warehousing", "postal", "courier",
				"logistics", "shipping", "railway", "road", "freight", "passenger", "pipeline",
				"supporting", "handling",
			},
		},
		{
			ID:    "I",
			Label: "Hospitality & Tourism",
			Keywords: []string{
				"accommodation", "food", "service", "hotel", "restaurant", "catering", "tourism",
				"hospitality", "short-term", "camping", "recreational", "vehicle", "parks",
				"beverage", "serving",
			},
		},
		{
			ID:    "J",
			Label: "Media & Publishing",
			Keywords: []string{
				"publishing", "broadcasting", "content", "production", "distribution", "books",
				"journals", "newspapers", "software", "motion", "picture", "video", "television",
				"radio", "music", "sound", "recording",
			},
		},
		{
			ID:    "K",
			Label: "Technology & IT Services",
			Keywords: []string{
				"telecommunication", "computer", "programming", "consulting", "computing",
				"infrastructure", "information", "service", "wired", "wireless", "satellite",
				"internet", "data", "processing", "hosting", "web", "portals",
			},
		},
		{
			ID:    "L",
			Label: "Finance & Insurance",
			Keywords: []string{
				"financial", "insurance", "banking", "credit", "fund", "pension", "investment",
				"monetary", "intermediation", "central", "bank", "deposit", "taking", "life",
				"non-life", "reinsurance", "auxiliary",
			},
		},
		{
			ID:    "M",
			Label: "Real Estate & Property",
			Keywords: []string{
				"real estate", "property", "rental", "leasing", "estate", "buying", "selling",
				"renting", "operating", "own", "leased", "residential", "non-residential",
			},
		},
		{
			ID:    "N",
			Label: "Professional Services",
			Keywords: []string{
				"professional", "scientific", "technical", "legal", "accounting", "management",
				"consulting", "architectural", "engineering", "research", "development",
				"advertising", "market", "design", "photography", "translation", "veterinary",
				"head", "offices", "specialized",
			},
		},
		{
			ID:    "O",
			Label: "Administrative Support",
			Keywords: []string{
				"administrative", "support", "service", "rental", "leasing", "employment", "travel",
				"security", "investigation", "services", "building", "landscape", "office",
				"cleaning", "machinery", "equipment", "agency", "tour", "operator",
			},
		},
		{
			ID:    "P",
			Label: "Government & Public Services",
			Keywords: []string{
				"public", "administration", "defence", "social", "security", "government",
				"general", "regulation", "economic", "affairs", "foreign", "justice", "order",
				"safety", "compulsory",
			},
		},
		{
			ID:    "Q",
			Label: "Education & Training",
			Keywords: []string{
				"education", "teaching", "school", "university", "training", "learning",
				"pre-primary", "primary", "secondary", "higher", "technical", "vocational",
				"cultural", "sports", "recreation", "educational", "support",
			},
		},
		{
			ID:    "R",
			Label: "Healthcare & Social Services",
			Keywords: []string{
				"health", "social", "work", "human", "medical", "hospital", "nursing", "care",
				"residential", "diagnostic", "therapy", "dental", "practice", "activities",
				"mental", "disability", "elderly", "child", "day",
			},
		},
		{
			ID:    "S",
			Label: "Arts & Entertainment",
			Keywords: []string{
				"arts", "entertainment", "recreation", "creative", "sports", "amusement",
				"gambling", "library", "museum", "performing", "artistic", "literary", "cultural",
				"facilities", "fitness", "other",
			},
		},
		{
			ID:       FallbackID,
			Label:    "Personal & Other Services",
			Fallback: true,
			Keywords: []string{
				"other", "service", "activities", "membership", "organizations", "repair",
				"maintenance", "personal", "household", "goods", "religious", "political", "trade",
				"unions", "professional",
			},
		},
		{
			ID:    "U",
			Label: "Household Services",
			Keywords: []string{
				"households", "employers", "domestic", "personnel", "undifferentiated", "goods",
				"services", "producing", "activities", "own", "use",
			},
		},
		{
			ID:    "V",
			Label: "International Organizations",
			Keywords: []string{
				"extraterritorial", "organisations", "bodies", "international", "diplomatic",
				"consular", "missions", "foreign", "embassies",
			},
		},
	}
}
