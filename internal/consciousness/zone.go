package consciousness

// Zone is the agent's published safety zone. Zones order GREEN <
// YELLOW < RED < EMERGENCY; UNKNOWN sits outside the ordering.
type Zone string

const (
	ZoneGreen     Zone = "GREEN"
	ZoneYellow    Zone = "YELLOW"
	ZoneRed       Zone = "RED"
	ZoneEmergency Zone = "EMERGENCY"
	ZoneUnknown   Zone = "UNKNOWN"
)

// Severity returns the zone's position in the escalation order, with
// UNKNOWN reported as -1.
func (z Zone) Severity() int {
	switch z {
	case ZoneGreen:
		return 0
	case ZoneYellow:
		return 1
	case ZoneRed:
		return 2
	case ZoneEmergency:
		return 3
	default:
		return -1
	}
}

// ClassifyConfusion maps a normalized confusion level onto a zone.
// Bounds are closed at the lower edge and evaluated from the most
// severe zone down.
func ClassifyConfusion(confusion float64) Zone {
	switch {
	case confusion >= 0.98:
		return ZoneEmergency
	case confusion >= 0.90:
		return ZoneRed
	case confusion >= 0.80:
		return ZoneYellow
	default:
		return ZoneGreen
	}
}

// ZoneFromCode maps the numeric zone code published on chain by the
// agent contract onto a zone.
func ZoneFromCode(code uint8) Zone {
	switch code {
	case 0:
		return ZoneGreen
	case 1:
		return ZoneYellow
	case 2:
		return ZoneRed
	default:
		return ZoneUnknown
	}
}
