package chains

// ChainAliases maps one canonical chain name to the raw spellings seen in
// vendor price feeds. Order matters: the first chain whose alias list matches
// a raw name wins.
type ChainAliases struct {
	Canonical string
	Aliases   []string
}

// BuildChainAliasTable returns the alias lists for the Israeli grocery chains
// present in the catalog feeds. Aliases are lowercase; transliterations and
// branding variants (Deal / Sheli / Express sub-brands etc.) all collapse to
// one canonical Hebrew display name.
func BuildChainAliasTable() []ChainAliases {
	return []ChainAliases{
		{
			Canonical: "שופרסל",
			Aliases: []string{
				"שופרסל",
				"שופרסל דיל",
				"שופרסל שלי",
				"שופרסל אקספרס",
				"shufersal",
				"shupersal",
				"shufersal deal",
				"shufersal sheli",
				"shufersal express",
				"shufersal online",
			},
		},
		{
			Canonical: "רמי לוי",
			Aliases: []string{
				"רמי לוי",
				"רמי לוי שיווק השקמה",
				"rami levy",
				"rami levi",
				"rami-levy",
				"rami levy shivuk hashikma",
				"rami levy hashikma marketing",
			},
		},
		{
			Canonical: "יוחננוף",
			Aliases: []string{
				"יוחננוף",
				"מ. יוחננוף ובניו",
				"יוחננוף טוב טעם",
				"yochananof",
				"yohananof",
				"yochananoff",
				"yohananoff",
				"yochananov",
				"m. yochananof",
				"yochananof tov taam",
			},
		},
		{
			Canonical: "ויקטורי",
			Aliases: []string{
				"ויקטורי",
				"victory",
				"viktory",
				"victory supermarket",
			},
		},
		{
			Canonical: "יינות ביתן",
			Aliases: []string{
				"יינות ביתן",
				"yeinot bitan",
				"yenot bitan",
				"einot bitan",
			},
		},
		{
			Canonical: "אושר עד",
			Aliases: []string{
				"אושר עד",
				"osher ad",
				"osher-ad",
				"osher ad hakol beshefa",
			},
		},
		{
			Canonical: "טיב טעם",
			Aliases: []string{
				"טיב טעם",
				"tiv taam",
				"tiv ta'am",
				"tiv tam",
			},
		},
		{
			// Mega branches were rebranded Carrefour; both spellings still
			// appear in feeds.
			Canonical: "קרפור",
			Aliases: []string{
				"קרפור",
				"מגה",
				"מגה בעיר",
				"carrefour",
				"carrefour market",
				"carrefour city",
				"carrefour hyper",
				"mega",
				"mega baair",
				"mega ba'ir",
			},
		},
		{
			Canonical: "חצי חינם",
			Aliases: []string{
				"חצי חינם",
				"hatzi hinam",
				"hazi hinam",
				"hatzi hinam outlet",
			},
		},
		{
			Canonical: "מחסני השוק",
			Aliases: []string{
				"מחסני השוק",
				"machsanei hashuk",
				"mahsanei hashuk",
				"machsaney hashuk",
			},
		},
	}
}
