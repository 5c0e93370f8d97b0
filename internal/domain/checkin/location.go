package checkin

// Location is a best-effort geocoordinate with a human-readable address.
// When geolocation is unavailable the sentinel value is used and the
// session proceeds degraded.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// SentinelAddress marks a location that could not be resolved.
const SentinelAddress = "Location unavailable"

// SentinelLocation returns the placeholder location used when real
// geolocation is unavailable.
func SentinelLocation() Location {
	return Location{Latitude: 0, Longitude: 0, Address: SentinelAddress}
}

// IsSentinel reports whether the location is the unresolved placeholder.
func (l Location) IsSentinel() bool {
	return l.Address == SentinelAddress && l.Latitude == 0 && l.Longitude == 0
}
