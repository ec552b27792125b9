package normalize

// streetSuffixes maps street-type spellings to USPS Publication 28
// abbreviations.
var streetSuffixes = map[string]string{
	"ALLEY": "ALY",
	"ALLEE": "ALY",
	"ALLY":  "ALY",

	"ANEX":  "ANX",
	"ANNEX": "ANX",
	"ANNX":  "ANX",

	"ARCADE": "ARC",

	"AVENUE": "AVE",
	"AV":     "AVE",
	"AVEN":   "AVE",
	"AVN":    "AVE",
	"ANVUE":  "AVE",

	"BAYOU": "BYU",
	"BAYOO": "BYU",

	"BEACH": "BCH",

	"BEND": "BND",

	"BLUFF": "BLF",
	"BLUF":  "BLF",

	"BOTTOM": "BTM",
	"BOT":    "BTM",
	"BOTTM":  "BTM",

	"BOULEVARD": "BLVD",
	"BOULV":     "BLVD",
	"BOUL":      "BLVD",

	"BRANCH": "BR",
	"BRNCH":  "BR",

	"BRIDGE": "BRG",
	"BRDGE":  "BRG",

	"BROOK": "BRK",

	"BROOKS": "BRKS",

	"BURG": "BG",

	"BURGS": "BGS",

	"BYPASS": "BYP",
	"BYPA":   "BYP",
	"BYPAS":  "BYP",
	"BYPS":   "BYP",

	"CAMP": "CP",
	"CMP":  "CP",

	"CANYON": "CYN",
	"CANYN":  "CYN",
	"CNYN":   "CYN",

	"CAPE": "CPE",

	"CAUSEWAY": "CSWY",
	"CAUSWA":   "CSWY",

	"CENTER": "CTR",
	"CEN":    "CTR",
	"CENT":   "CTR",
	"CENTR":  "CTR",
	"CENTRE": "CTR",
	"CNTER":  "CTR",

	"CENTERS": "CTRS",

	"CIRCLE": "CIR",
	"CIRC":   "CIR",
	"CIRCL":  "CIR",
	"CRCL":   "CIR",
	"CRCLE":  "CIR",

	"CLIFF": "CLF",

	"CLIFFS": "CLFS",

	"CLUB": "CLB",

	"COMMON": "CMN",

	"COMMONS": "CMNS",

	"CORNER": "COR",

	"CORNERS": "CORS",

	"COURSE": "CRSE",

	"COURT": "CT",

	"COURTS": "CTS",

	"COVE": "CV",

	"COVES": "CVS",

	"CR": "COUNTY ROAD",

	"CREEK": "CRK",

	"CRESCENT": "CRES",
	"CRSENT":   "CRES",
	"CRSNT":    "CRES",

	"CREST": "CRST",

	"CROSSING": "XING",
	"CRSSING":  "XING",

	"CROSSROAD": "XRD",

	"CROSSROADS": "XRDS",

	"CURVE": "CURV",

	"DALE": "DL",

	"DAM": "DM",

	"DIVIDE": "DV",
	"DIV":    "DV",
	"DVD":    "DV",

	"DRIVE": "DR",
	"DRIV":  "DR",
	"DRV":   "DR",

	"DRIVES": "DRS",

	"ESTATE": "EST",

	"ESTATES": "ESTS",

	"EXPRESSWAY": "EXPY",
	"EXPR":       "EXPY",
	"EXPRESS":    "EXPY",
	"EXPW":       "EXPY",

	"EXTENSION": "EXT",
	"EXTN":      "EXT",
	"EXTNSN":    "EXT",

	"FALLS": "FLS",

	"FERRY": "FRY",
	"FRRY":  "FRY",

	"FIELD": "FLD",

	"FIELDS": "FLDS",

	"FLAT": "FLT",

	"FLATS": "FLTS",

	"FORD": "FRD",

	"FORDS": "FRDS",

	"FOREST": "FRST",

	"FORGE": "FRG",
	"FORG":  "FRG",

	"FORGES": "FRGS",

	"FORK": "FRK",

	"FORT": "FT",
	"FRT":  "FT",

	"FREEWAY": "FWY",
	"FREEWY":  "FWY",
	"FRWAY":   "FWY",
	"FRWY":    "FWY",

	"GARDEN": "GDN",
	"GARDN":  "GDN",
	"GRDEN":  "GDN",
	"GRDN":   "GDN",

	"GARDENS": "GDNS",
	"GRDNS":   "GDNS",

	"GATEWAY": "GTWY",
	"GATEWY":  "GTWY",
	"GATWAY":  "GTWY",
	"GTWAY":   "GTWY",

	"GLEN": "GLN",

	"GLENS": "GLNS",

	"GREEN": "GRN",

	"GREENS": "GRNS",

	"GROVE": "GRV",
	"GROV":  "GRV",

	"HARBOR": "HBR",
	"HARB":   "HBR",
	"HARBR":  "HBR",
	"HRBR":   "HBR",

	"HARBORS": "HBRS",

	"HAVEN": "HVN",

	"HEIGHTS": "HTS",
	"HT":      "HTS",

	"HIGHWAY": "HWY",
	"HIGHWY":  "HWY",
	"HIWAY":   "HWY",
	"HIWY":    "HWY",
	"HWAY":    "HWY",

	"HILL": "HL",

	"HILLS": "HLS",

	"HOLLOW":  "HOLW",
	"HLLW":    "HOLW",
	"HOLLOWS": "HOLW",
	"HOLWS":   "HOLW",

	"INLET": "INLT",

	"ISLAND": "IS",
	"ISLND":  "IS",

	"ISLES": "ISLE",

	"JUNCTION": "JCT",
	"JCTION":   "JCT",
	"JCTN":     "JCT",
	"JUNCTN":   "JCT",
	"JUNCTON":  "JCT",

	"JUNCTIONS": "JCTS",
	"JCTNS":     "JCTS",

	"KEY": "KY",

	"KEYS": "KYS",

	"KNOLL": "KNL",
	"KNOL":  "KNL",

	"KNOLLS": "KNLS",

	"LAKE": "LK",

	"LAKES": "LKS",

	"LANDING": "LNDG",
	"LNDNG":   "LNDG",

	"LANE": "LN",

	"LIGHT": "LGT",

	"LIGHTS": "LGTS",

	"LOAF": "LF",

	"LOCK": "LCK",

	"LOCKS": "LCKS",

	"LODGE": "LDG",
	"LDGE":  "LDG",
	"LODG":  "LDG",

	"LOOPS": "LOOP",

	"MANOR": "MNR",

	"MANORS": "MNRS",

	"MEADOWS": "MDWS",
	"MDW":     "MDWS",
	"MEADOW":  "MDWS",
	"MEDOWS":  "MDWS",

	"MILL": "ML",

	"MISSION": "MSN",
	"MISN":    "MSN",

	"MOTORWAY": "MTWY",

	"MOUNTAIN": "MTN",
	"MNTAIN":   "MTN",
	"MT":       "MTN",
	"MOUNTIN":  "MTN",
	"MTIN":     "MTN",

	"MOUNTAINS": "MTNS",

	"NECK": "NCK",

	"ORCHARD": "ORCH",
	"ORCHRD":  "ORCH",

	"OVAL": "OVL",

	"OVERPASS": "OPAS",

	"PARKS": "PARK",
	"PRK":   "PARK",

	"PARKWAY":  "PKWY",
	"PARKWY":   "PKWY",
	"PKWAY":    "PKWY",
	"PKY":      "PKWY",
	"PARKWAYS": "PKWY",
	"PKWYS":    "PKWY",

	"PASSAGE": "PSGE",

	"PIKES": "PIKE",

	"PINE": "PNE",

	"PINES": "PNES",

	"PLACE": "PL",

	"PLAIN": "PLN",

	"PLAINS": "PLNS",

	"PLAZA": "PLZ",
	"PLZA":  "PLZ",

	"POINT": "PT",

	"POINTS": "PTS",

	"PORT": "PRT",

	"PORTS": "PRTS",

	"PRARIE": "PR",
	"PRR":    "PR",

	"RADIAL": "RADL",
	"RAD":    "RADL",
	"RADIEL": "RADL",

	"RANCH":   "RNCH",
	"RANCHES": "RNCH",
	"RNCHS":   "RNCH",

	"RAPID": "RPD",

	"RIDGE": "RDG",
	"RDGE":  "RDG",

	"REST": "RST",

	"RIDGES": "RDGS",

	"ROUTE": "RTE",

	"SHOAL": "SHL",

	"SHOALS": "SHLS",

	"SHORE":  "SHR",
	"SHORES": "SHR",
	"SHRS":   "SHR",

	"SKYWAY": "SKWY",

	"SPRING": "SPG",
	"SPNG":   "SPG",
	"SPRNG":  "SPG",

	"SPRINGS": "SPGS",
	"SPNGS":   "SPGS",
	"SPRNGS":  "SPGS",

	"SPURS": "SPUR",

	"SQUARE": "SQ",
	"SQR":    "SQ",
	"SQRE":   "SQ",
	"SQU":    "SQ",

	"SQUARES": "SQS",
	"SQRS":    "SQS",

	"STATION": "STA",
	"STATN":   "STA",
	"STN":     "STA",

	"STRAVENUE": "STRA",
	"STRAV":     "STRA",
	"STRAVEN":   "STRA",
	"STRAVN":    "STRA",
	"STRVN":     "STRA",
	"STRVNUE":   "STRA",

	"STREAM": "STRM",
	"STREME": "STRM",

	"STREET": "ST",
	"STRT":   "ST",
	"STR":    "ST",

	"STREETS": "STS",

	"SUMMIT": "SMT",
	"SUMIT":  "SMT",
	"SUMITT": "SMT",

	"TERRACE": "TER",
	"TERR":    "TER",

	"THROUGHWAY": "TRWY",

	"TRACE":  "TRCE",
	"TRACES": "TRCE",

	"TRACK":  "TRAK",
	"TRACKS": "TRAK",
	"TRK":    "TRAK",
	"TRKS":   "TRAK",

	"TRAILER": "TRLR",
	"TRLRS":   "TRLR",

	"TUNNEL":  "TUNL",
	"TUNLS":   "TUNL",
	"TUNNELS": "TUNL",
	"TUNNL":   "TUNL",

	"TURNPIKE": "TPKE",
	"TRNP":     "TPKE",
	"TURNPK":   "TPKE",

	"UNDERPASS": "UPAS",

	"UNION": "UN",

	"VALLEY": "VLY",
	"VALLY":  "VLY",
	"VLLY":   "VLY",

	"VALLEYS": "VLYS",

	"VIADUCT": "VIA",
	"VDCT":    "VIA",
	"VIADCT":  "VIA",

	"VIEW": "VW",

	"VIEWS": "VWS",

	"VILLAGE":  "VLG",
	"VILLAG":   "VLG",
	"VILL":     "VLG",
	"VILLG":    "VLG",
	"VILLIAGE": "VLG",

	"VILLAGES": "VLGS",

	"VILLE": "VL",

	"VISTA": "VIS",
	"VIST":  "VIS",
	"VST":   "VIS",
	"VSTA":  "VIS",

	"WALKS": "WALK",

	"WY": "WAY",

	"WELL": "WL",

	"WELLS": "WLS",
}

// unitDesignators maps secondary unit designators to USPS abbreviations.
var unitDesignators = map[string]string{
	"APARTMENT": "APT",

	"BUILDING": "BLDG",
	"FLOOR":    "FL",
	"SUITE":    "STE",
	"ROOM":     "RM",

	"DEPARTMENT": "DEPT",
	"BASEMENT":   "BSMT",
	"PENTHOUSE":  "PH",
	"TRAILER":    "TRLR",
	"SPACE":      "SPC",
	"OFFICE":     "OFC",
	"HANGAR":     "HNGR",
}

// unitTokens are the canonical designators that start a trailing unit segment.
var unitTokens = map[string]bool{
	"APT": true, "BLDG": true, "FL": true, "STE": true, "RM": true, "UNIT": true,
	"DEPT": true, "BSMT": true, "PH": true, "TRLR": true, "SPC": true, "OFC": true,
	"HNGR": true,
}

// directionals maps English and Spanish cardinal directions to their
// one- or two-letter abbreviations.
var directionals = map[string]string{
	"NORTH":     "N",
	"SOUTH":     "S",
	"EAST":      "E",
	"WEST":      "W",
	"NORTHEAST": "NE",
	"NORTHWEST": "NW",
	"SOUTHEAST": "SE",
	"SOUTHWEST": "SW",

	"NORTE":    "N",
	"SUR":      "S",
	"ESTE":     "E",
	"OESTE":    "W",
	"NORESTE":  "NE",
	"NOROESTE": "NW",
	"SURESTE":  "SE",
	"SUROESTE": "SW",
}

// stateNames maps full state and territory names to USPS abbreviations.
var stateNames = map[string]string{
	"ALABAMA":              "AL",
	"ALASKA":               "AK",
	"ARIZONA":              "AZ",
	"ARKANSAS":             "AR",
	"CALIFORNIA":           "CA",
	"COLORADO":             "CO",
	"CONNECTICUT":          "CT",
	"DELAWARE":             "DE",
	"DISTRICT OF COLUMBIA": "DC",
	"FLORIDA":              "FL",
	"GEORGIA":              "GA",
	"HAWAII":               "HI",
	"IDAHO":                "ID",
	"ILLINOIS":             "IL",
	"INDIANA":              "IN",
	"IOWA":                 "IA",
	"KANSAS":               "KS",
	"KENTUCKY":             "KY",
	"LOUISIANA":            "LA",
	"MAINE":                "ME",
	"MARYLAND":             "MD",
	"MASSACHUSETTS":        "MA",
	"MICHIGAN":             "MI",
	"MINNESOTA":            "MN",
	"MISSISSIPPI":          "MS",
	"MISSOURI":             "MO",
	"MONTANA":              "MT",
	"NEBRASKA":             "NE",
	"NEVADA":               "NV",
	"NEW HAMPSHIRE":        "NH",
	"NEW JERSEY":           "NJ",
	"NEW MEXICO":           "NM",
	"NEW YORK":             "NY",
	"NORTH CAROLINA":       "NC",
	"NORTH DAKOTA":         "ND",
	"OHIO":                 "OH",
	"OKLAHOMA":             "OK",
	"OREGON":               "OR",
	"PENNSYLVANIA":         "PA",
	"PUERTO RICO":          "PR",
	"RHODE ISLAND":         "RI",
	"SOUTH CAROLINA":       "SC",
	"SOUTH DAKOTA":         "SD",
	"TENNESSEE":            "TN",
	"TEXAS":                "TX",
	"UTAH":                 "UT",
	"VERMONT":              "VT",
	"VIRGINIA":             "VA",
	"WASHINGTON":           "WA",
	"WEST VIRGINIA":        "WV",
	"WISCONSIN":            "WI",
	"WYOMING":              "WY",
}
