package ir

// Handshake is one raw observation of a nearby device advertisement.
type Handshake struct {
	ID             int64  `json:"id" yaml:"id,omitempty"`
	Timestamp      int64  `json:"timestamp" yaml:"timestamp"` // milliseconds since epoch
	EphID          EphID  `json:"ephid" yaml:"ephid"`
	TxPowerLevel   int    `json:"tx_power_level" yaml:"tx_power_level"`
	RSSI           int    `json:"rssi" yaml:"rssi"`
	PrimaryPhy     string `json:"phy_primary" yaml:"phy_primary"`
	SecondaryPhy   string `json:"phy_secondary" yaml:"phy_secondary"`
	TimestampNanos int64  `json:"timestamp_nanos" yaml:"timestamp_nanos"`
}

// Day returns the UTC calendar day the handshake was observed on.
func (h Handshake) Day() DayDate {
	return DayFromMillis(h.Timestamp)
}

// Contact records that handshakes with EphID matched a known case on Date.
type Contact struct {
	ID                  int64   `json:"id" yaml:"id,omitempty"`
	Date                DayDate `json:"date" yaml:"date"`
	EphID               EphID   `json:"ephid" yaml:"ephid"`
	WindowCount         int     `json:"window_count" yaml:"window_count"`
	AssociatedKnownCase int64   `json:"associated_known_case" yaml:"associated_known_case"`
}

// KnownCase is a published infection report key valid on Day.
type KnownCase struct {
	ID  int64    `json:"id" yaml:"id,omitempty"`
	Day DayDate  `json:"day" yaml:"day"`
	Key HexBytes `json:"key" yaml:"key"`
}

// ExposureDay records that the user was exposed on ReportDate.
type ExposureDay struct {
	ID         int64   `json:"id" yaml:"id,omitempty"`
	ReportDate DayDate `json:"report_date" yaml:"report_date"`
}
