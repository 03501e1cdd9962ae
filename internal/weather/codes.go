package weather

var conditionNames = map[int]string{
	0: "Clear", 1: "Mostly Clear", 2: "Partly Cloudy", 3: "Overcast",
	45: "Fog", 48: "Fog",
	51: "Light Drizzle", 53: "Drizzle", 55: "Heavy Drizzle",
	56: "Freezing Drizzle", 57: "Freezing Drizzle",
	61: "Light Rain", 63: "Rain", 65: "Heavy Rain",
	66: "Freezing Rain", 67: "Freezing Rain",
	71: "Light Snow", 73: "Snow", 75: "Heavy Snow", 77: "Sleet",
	80: "Light Showers", 81: "Showers", 82: "Heavy Showers",
	85: "Snow Showers", 86: "Heavy Snow Showers",
	95: "Thunderstorm", 96: "Thunderstorm + Hail", 99: "Thunderstorm + Hail",
}

// ConditionName maps a WMO weather code to a short description.
func ConditionName(code int) string {
	if name, ok := conditionNames[code]; ok {
		return name
	}
	return "Unknown"
}
