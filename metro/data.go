package metro

// Seeded by the server, IDs are stable across environments.
var seed = []MetroArea{
	// Alabama
	stateArea("01", "AL", 32.1977, -87.0527),
	metroArea("01111111-1111-1111-1111-111111111001", "Birmingham", "AL", 33.5186, -86.8104, 30),
	metroArea("01111111-1111-1111-1111-111111111002", "Montgomery", "AL", 32.3792, -86.3077, 25),
	metroArea("01111111-1111-1111-1111-111111111003", "Mobile", "AL", 30.6954, -88.0399, 25),
	// Alaska
	stateArea("02", "AK", 61.2181, -149.9003),
	metroArea("02111111-1111-1111-1111-111111111001", "Anchorage", "AK", 61.2181, -149.9003, 30),
	// Arizona
	stateArea("04", "AZ", 33.0287, -111.6269),
	metroArea("04111111-1111-1111-1111-111111111001", "Phoenix", "AZ", 33.4484, -112.0742, 35),
	metroArea("04111111-1111-1111-1111-111111111002", "Tucson", "AZ", 32.2226, -110.9747, 30),
	metroArea("04111111-1111-1111-1111-111111111003", "Mesa", "AZ", 33.4152, -111.8317, 25),
	// Arkansas
	stateArea("05", "AR", 35.4046, -93.2315),
	metroArea("05111111-1111-1111-1111-111111111001", "Little Rock", "AR", 34.7465, -92.2896, 30),
	metroArea("05111111-1111-1111-1111-111111111002", "Fayetteville", "AR", 36.0627, -94.1734, 25),
	// California
	stateArea("06", "CA", 35.6422, -119.3896),
	metroArea("06111111-1111-1111-1111-111111111001", "Los Angeles", "CA", 34.0522, -118.2437, 40),
	metroArea("06111111-1111-1111-1111-111111111002", "San Francisco Bay Area", "CA", 37.7749, -122.4194, 40),
	metroArea("06111111-1111-1111-1111-111111111003", "San Diego", "CA", 32.7157, -117.1611, 35),
	metroArea("06111111-1111-1111-1111-111111111004", "Sacramento", "CA", 38.5816, -121.4944, 30),
	metroArea("06111111-1111-1111-1111-111111111005", "Fresno", "CA", 36.7469, -119.7726, 25),
	metroArea("06111111-1111-1111-1111-111111111006", "Inland Empire", "CA", 33.9819, -117.2466, 35),
	// Colorado
	stateArea("08", "CO", 39.2865, -104.9052),
	metroArea("08111111-1111-1111-1111-111111111001", "Denver", "CO", 39.7392, -104.9903, 35),
	metroArea("08111111-1111-1111-1111-111111111002", "Colorado Springs", "CO", 38.8339, -104.8202, 30),
	// Connecticut
	stateArea("09", "CT", 41.4746, -72.9347),
	metroArea("09111111-1111-1111-1111-111111111001", "Hartford", "CT", 41.7658, -72.6734, 25),
	metroArea("09111111-1111-1111-1111-111111111002", "Bridgeport", "CT", 41.1834, -73.1959, 25),
	// Delaware
	stateArea("10", "DE", 39.7391, -75.5244),
	metroArea("10111111-1111-1111-1111-111111111001", "Wilmington", "DE", 39.7391, -75.5244, 25),
	// Florida
	stateArea("12", "FL", 28.1467, -81.4193),
	metroArea("12111111-1111-1111-1111-111111111001", "Miami", "FL", 25.7617, -80.1918, 35),
	metroArea("12111111-1111-1111-1111-111111111002", "Orlando", "FL", 28.5421, -81.3723, 30),
	metroArea("12111111-1111-1111-1111-111111111003", "Tampa Bay", "FL", 27.9506, -82.4572, 30),
	metroArea("12111111-1111-1111-1111-111111111004", "Jacksonville", "FL", 30.3322, -81.6557, 30),
	// Georgia
	stateArea("13", "GA", 32.9150, -82.7396),
	metroArea("13111111-1111-1111-1111-111111111001", "Atlanta", "GA", 33.7490, -84.3880, 40),
	metroArea("13111111-1111-1111-1111-111111111002", "Savannah", "GA", 32.0809, -81.0912, 25),
	// Hawaii
	stateArea("15", "HI", 21.3099, -157.8581),
	metroArea("15111111-1111-1111-1111-111111111001", "Honolulu", "HI", 21.3099, -157.8581, 30),
	// Idaho
	stateArea("16", "ID", 43.6150, -116.2023),
	metroArea("16111111-1111-1111-1111-111111111001", "Boise", "ID", 43.6150, -116.2023, 30),
	// Illinois
	stateArea("17", "IL", 41.8781, -87.6298),
	metroArea("17111111-1111-1111-1111-111111111001", "Chicago", "IL", 41.8781, -87.6298, 45),
	// Indiana
	stateArea("18", "IN", 39.7684, -86.1581),
	metroArea("18111111-1111-1111-1111-111111111001", "Indianapolis", "IN", 39.7684, -86.1581, 35),
	// Iowa
	stateArea("19", "IA", 41.5868, -93.6250),
	metroArea("19111111-1111-1111-1111-111111111001", "Des Moines", "IA", 41.5868, -93.6250, 30),
	// Kansas
	stateArea("20", "KS", 39.0997, -94.5786),
	metroArea("20111111-1111-1111-1111-111111111001", "Kansas City", "KS", 39.0997, -94.5786, 35),
	// Kentucky
	stateArea("21", "KY", 38.2527, -85.7585),
	metroArea("21111111-1111-1111-1111-111111111001", "Louisville", "KY", 38.2527, -85.7585, 30),
	// Louisiana
	stateArea("22", "LA", 29.9511, -90.2623),
	metroArea("22111111-1111-1111-1111-111111111001", "New Orleans", "LA", 29.9511, -90.2623, 30),
	// Maine
	stateArea("23", "ME", 43.6591, -70.2568),
	metroArea("23111111-1111-1111-1111-111111111001", "Portland", "ME", 43.6591, -70.2568, 25),
	// Maryland
	stateArea("24", "MD", 39.2904, -76.6122),
	metroArea("24111111-1111-1111-1111-111111111001", "Baltimore", "MD", 39.2904, -76.6122, 30),
	// Massachusetts
	stateArea("25", "MA", 42.3601, -71.0589),
	metroArea("25111111-1111-1111-1111-111111111001", "Boston", "MA", 42.3601, -71.0589, 35),
	// Michigan
	stateArea("26", "MI", 42.3314, -83.0458),
	metroArea("26111111-1111-1111-1111-111111111001", "Detroit", "MI", 42.3314, -83.0458, 40),
	// Minnesota
	stateArea("27", "MN", 44.9537, -93.0900),
	metroArea("27111111-1111-1111-1111-111111111001", "Minneapolis-St. Paul", "MN", 44.9537, -93.0900, 35),
	// Mississippi
	stateArea("28", "MS", 32.2988, -90.1848),
	metroArea("28111111-1111-1111-1111-111111111001", "Jackson", "MS", 32.2988, -90.1848, 25),
	// Missouri
	stateArea("29", "MO", 38.8633, -92.3890),
	metroArea("29111111-1111-1111-1111-111111111001", "St. Louis", "MO", 38.6270, -90.1994, 35),
	metroArea("29111111-1111-1111-1111-111111111002", "Kansas City", "MO", 39.0997, -94.5786, 35),
	// Montana
	stateArea("30", "MT", 45.7833, -103.8014),
	metroArea("30111111-1111-1111-1111-111111111001", "Billings", "MT", 45.7833, -103.8014, 25),
	// Nebraska
	stateArea("31", "NE", 41.2565, -95.9345),
	metroArea("31111111-1111-1111-1111-111111111001", "Omaha", "NE", 41.2565, -95.9345, 30),
	// Nevada
	stateArea("32", "NV", 37.8498, -117.4768),
	metroArea("32111111-1111-1111-1111-111111111001", "Las Vegas", "NV", 36.1699, -115.1398, 30),
	metroArea("32111111-1111-1111-1111-111111111002", "Reno", "NV", 39.5296, -119.8138, 25),
	// New Hampshire
	stateArea("33", "NH", 42.9956, -71.4548),
	metroArea("33111111-1111-1111-1111-111111111001", "Manchester", "NH", 42.9956, -71.4548, 25),
	// New Jersey
	stateArea("34", "NJ", 40.7357, -74.1724),
	metroArea("34111111-1111-1111-1111-111111111001", "Newark", "NJ", 40.7357, -74.1724, 30),
	// New Mexico
	stateArea("35", "NM", 35.0844, -106.6504),
	metroArea("35111111-1111-1111-1111-111111111001", "Albuquerque", "NM", 35.0844, -106.6504, 30),
	// New York
	stateArea("36", "NY", 42.0839, -75.5469),
	metroArea("36111111-1111-1111-1111-111111111001", "New York City", "NY", 40.7128, -74.0060, 40),
	metroArea("36111111-1111-1111-1111-111111111002", "Buffalo", "NY", 42.8864, -78.8784, 25),
	metroArea("36111111-1111-1111-1111-111111111003", "Albany", "NY", 42.6526, -73.7562, 25),
	// North Carolina
	stateArea("37", "NC", 35.5033, -79.7407),
	metroArea("37111111-1111-1111-1111-111111111001", "Charlotte", "NC", 35.2271, -80.8431, 30),
	metroArea("37111111-1111-1111-1111-111111111002", "Raleigh", "NC", 35.7796, -78.6382, 30),
	// Ohio
	stateArea("39", "OH", 40.6597, -82.8522),
	metroArea("39111111-1111-1111-1111-111111111001", "Cleveland", "OH", 41.4993, -81.6944, 30),
	metroArea("39111111-1111-1111-1111-111111111002", "Columbus", "OH", 39.9612, -82.9988, 30),
	metroArea("39111111-1111-1111-1111-111111111003", "Cincinnati", "OH", 39.1031, -84.5120, 30),
	metroArea("39111111-1111-1111-1111-111111111004", "Toledo", "OH", 41.6528, -83.5379, 25),
	metroArea("39111111-1111-1111-1111-111111111005", "Akron", "OH", 41.0823, -81.5178, 25),
	// Oklahoma
	stateArea("40", "OK", 35.4676, -97.5164),
	metroArea("40111111-1111-1111-1111-111111111001", "Oklahoma City", "OK", 35.4676, -97.5164, 30),
	// Oregon
	stateArea("41", "OR", 45.5152, -122.6784),
	metroArea("41111111-1111-1111-1111-111111111001", "Portland", "OR", 45.5152, -122.6784, 30),
	// Pennsylvania
	stateArea("42", "PA", 40.1966, -77.5806),
	metroArea("42111111-1111-1111-1111-111111111001", "Philadelphia", "PA", 39.9526, -75.1652, 35),
	metroArea("42111111-1111-1111-1111-111111111002", "Pittsburgh", "PA", 40.4406, -79.9959, 30),
	// Rhode Island
	stateArea("44", "RI", 41.8240, -71.4128),
	metroArea("44111111-1111-1111-1111-111111111001", "Providence", "RI", 41.8240, -71.4128, 25),
	// South Carolina
	stateArea("45", "SC", 32.7765, -79.9711),
	metroArea("45111111-1111-1111-1111-111111111001", "Charleston", "SC", 32.7765, -79.9711, 25),
	// Tennessee
	stateArea("47", "TN", 35.6561, -88.4153),
	metroArea("47111111-1111-1111-1111-111111111001", "Nashville", "TN", 36.1627, -86.7816, 30),
	metroArea("47111111-1111-1111-1111-111111111002", "Memphis", "TN", 35.1495, -90.0490, 30),
	// Texas
	stateArea("48", "TX", 30.5571, -97.1009),
	metroArea("48111111-1111-1111-1111-111111111001", "Houston", "TX", 29.7604, -95.3698, 40),
	metroArea("48111111-1111-1111-1111-111111111002", "Dallas-Fort Worth", "TX", 32.7767, -96.7970, 40),
	metroArea("48111111-1111-1111-1111-111111111003", "Austin", "TX", 30.2672, -97.7431, 30),
	metroArea("48111111-1111-1111-1111-111111111004", "San Antonio", "TX", 29.4241, -98.4936, 30),
	// Utah
	stateArea("49", "UT", 40.7608, -111.8910),
	metroArea("49111111-1111-1111-1111-111111111001", "Salt Lake City", "UT", 40.7608, -111.8910, 30),
	// Virginia
	stateArea("51", "VA", 37.5407, -77.4360),
	metroArea("51111111-1111-1111-1111-111111111001", "Richmond", "VA", 37.5407, -77.4360, 30),
	// Washington
	stateArea("53", "WA", 47.6062, -122.3321),
	metroArea("53111111-1111-1111-1111-111111111001", "Seattle", "WA", 47.6062, -122.3321, 35),
	// Wisconsin
	stateArea("55", "WI", 43.0389, -87.9065),
	metroArea("55111111-1111-1111-1111-111111111001", "Milwaukee", "WI", 43.0389, -87.9065, 30),
}

var stateNames = map[string]string{
	"AK": "Alaska",
	"AL": "Alabama",
	"AR": "Arkansas",
	"AZ": "Arizona",
	"CA": "California",
	"CO": "Colorado",
	"CT": "Connecticut",
	"DC": "District of Columbia",
	"DE": "Delaware",
	"FL": "Florida",
	"GA": "Georgia",
	"HI": "Hawaii",
	"IA": "Iowa",
	"ID": "Idaho",
	"IL": "Illinois",
	"IN": "Indiana",
	"KS": "Kansas",
	"KY": "Kentucky",
	"LA": "Louisiana",
	"MA": "Massachusetts",
	"MD": "Maryland",
	"ME": "Maine",
	"MI": "Michigan",
	"MN": "Minnesota",
	"MO": "Missouri",
	"MS": "Mississippi",
	"MT": "Montana",
	"NC": "North Carolina",
	"ND": "North Dakota",
	"NE": "Nebraska",
	"NH": "New Hampshire",
	"NJ": "New Jersey",
	"NM": "New Mexico",
	"NV": "Nevada",
	"NY": "New York",
	"OH": "Ohio",
	"OK": "Oklahoma",
	"OR": "Oregon",
	"PA": "Pennsylvania",
	"RI": "Rhode Island",
	"SC": "South Carolina",
	"SD": "South Dakota",
	"TN": "Tennessee",
	"TX": "Texas",
	"UT": "Utah",
	"VA": "Virginia",
	"VT": "Vermont",
	"WA": "Washington",
	"WI": "Wisconsin",
	"WV": "West Virginia",
	"WY": "Wyoming",
}
