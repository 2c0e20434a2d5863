package ir

// Batch is a group of records to append in file order, as read from an
// ingest file or a test scenario.
type Batch struct {
	Handshakes   []Handshake    `json:"handshakes,omitempty" yaml:"handshakes,omitempty"`
	Contacts     []Contact      `json:"contacts,omitempty" yaml:"contacts,omitempty"`
	KnownCases   []KnownCaseDay `json:"known_cases,omitempty" yaml:"known_cases,omitempty"`
	ExposureDays []ExposureDay  `json:"exposure_days,omitempty" yaml:"exposure_days,omitempty"`
}

// KnownCaseDay is one day's published keys, ingested atomically.
type KnownCaseDay struct {
	Day  DayDate    `json:"day" yaml:"day"`
	Keys []HexBytes `json:"keys" yaml:"keys"`
}

// RawKeys returns the keys as plain byte slices.
func (k KnownCaseDay) RawKeys() [][]byte {
	out := make([][]byte, len(k.Keys))
	for i, key := range k.Keys {
		out[i] = key
	}
	return out
}

// NormalizePhyLabels normalizes the PHY labels of every handshake in b.
func (b *Batch) NormalizePhyLabels() {
	for i := range b.Handshakes {
		b.Handshakes[i].PrimaryPhy = NormalizePhy(b.Handshakes[i].PrimaryPhy)
		b.Handshakes[i].SecondaryPhy = NormalizePhy(b.Handshakes[i].SecondaryPhy)
	}
}

// IsEmpty reports whether the batch holds no records.
func (b Batch) IsEmpty() bool {
	return len(b.Handshakes) == 0 && len(b.Contacts) == 0 &&
		len(b.KnownCases) == 0 && len(b.ExposureDays) == 0
}
