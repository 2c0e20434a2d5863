package store

import "github.com/roach88/contactstore/internal/ir"

// HandshakeMapping maps ir.Handshake to the handshakes table.
var HandshakeMapping = Mapping[ir.Handshake]{
	Table:   TableHandshakes,
	Columns: []string{"timestamp", "ephid", "tx_power_level", "rssi", "phy_primary", "phy_secondary", "timestamp_nanos"},
	ToRow: func(h ir.Handshake) Row {
		return Row{
			h.Timestamp,
			h.EphID.Bytes(),
			int64(h.TxPowerLevel),
			int64(h.RSSI),
			h.PrimaryPhy,
			h.SecondaryPhy,
			h.TimestampNanos,
		}
	},
	FromRow: func(r Row) (ir.Handshake, error) {
		var h ir.Handshake
		var err error
		if h.ID, err = r.int64At(0, "id"); err != nil {
			return h, err
		}
		if h.Timestamp, err = r.int64At(1, "timestamp"); err != nil {
			return h, err
		}
		if h.EphID, err = r.ephIDAt(2, "ephid"); err != nil {
			return h, err
		}
		if h.TxPowerLevel, err = r.intAt(3, "tx_power_level"); err != nil {
			return h, err
		}
		if h.RSSI, err = r.intAt(4, "rssi"); err != nil {
			return h, err
		}
		if h.PrimaryPhy, err = r.stringAt(5, "phy_primary"); err != nil {
			return h, err
		}
		if h.SecondaryPhy, err = r.stringAt(6, "phy_secondary"); err != nil {
			return h, err
		}
		if h.TimestampNanos, err = r.int64At(7, "timestamp_nanos"); err != nil {
			return h, err
		}
		return h, nil
	},
}

// ContactMapping maps ir.Contact to the contacts table.
var ContactMapping = Mapping[ir.Contact]{
	Table:   TableContacts,
	Columns: []string{"date", "ephid", "window_count", "associated_known_case"},
	ToRow: func(c ir.Contact) Row {
		return Row{
			c.Date.StartOfDayMillis(),
			c.EphID.Bytes(),
			int64(c.WindowCount),
			c.AssociatedKnownCase,
		}
	},
	FromRow: func(r Row) (ir.Contact, error) {
		var c ir.Contact
		var err error
		if c.ID, err = r.int64At(0, "id"); err != nil {
			return c, err
		}
		if c.Date, err = r.dayAt(1, "date"); err != nil {
			return c, err
		}
		if c.EphID, err = r.ephIDAt(2, "ephid"); err != nil {
			return c, err
		}
		if c.WindowCount, err = r.intAt(3, "window_count"); err != nil {
			return c, err
		}
		if c.AssociatedKnownCase, err = r.int64At(4, "associated_known_case"); err != nil {
			return c, err
		}
		return c, nil
	},
}

// KnownCaseMapping maps ir.KnownCase to the known_cases table.
var KnownCaseMapping = Mapping[ir.KnownCase]{
	Table:   TableKnownCases,
	Columns: []string{"bucket_time", "key"},
	ToRow: func(k ir.KnownCase) Row {
		key := []byte(k.Key)
		if key == nil {
			key = []byte{}
		}
		return Row{k.Day.StartOfDayMillis(), key}
	},
	FromRow: func(r Row) (ir.KnownCase, error) {
		var k ir.KnownCase
		var err error
		if k.ID, err = r.int64At(0, "id"); err != nil {
			return k, err
		}
		if k.Day, err = r.dayAt(1, "bucket_time"); err != nil {
			return k, err
		}
		key, err := r.bytesAt(2, "key")
		if err != nil {
			return k, err
		}
		k.Key = ir.HexBytes(key)
		return k, nil
	},
}

// ExposureDayMapping maps ir.ExposureDay to the exposure_days table.
var ExposureDayMapping = Mapping[ir.ExposureDay]{
	Table:   TableExposureDays,
	Columns: []string{"report_date"},
	ToRow: func(e ir.ExposureDay) Row {
		return Row{e.ReportDate.StartOfDayMillis()}
	},
	FromRow: func(r Row) (ir.ExposureDay, error) {
		var e ir.ExposureDay
		var err error
		if e.ID, err = r.int64At(0, "id"); err != nil {
			return e, err
		}
		if e.ReportDate, err = r.dayAt(1, "report_date"); err != nil {
			return e, err
		}
		return e, nil
	},
}
