package reconcile

// builder accumulates ordered join rows and the skip log into a Report.
// Slices are initialized empty so the rendered JSON carries [] rather than
// null for zero reports.
type builder struct {
	report     Report
	maxDetails int
}

func newBuilder(opts Options) *builder {
	return &builder{
		report: Report{
			MissingFromA: []string{},
			MissingFromB: []string{},
			Details:      []Detail{},
			Skipped:      []SkippedRecord{},
		},
		maxDetails: opts.MaxDetailRecords,
	}
}

// add records the classification of one join row. Detail records are emitted
// only for keys present on both sides; one-sided keys go into the missing
// lists in the order rows arrive.
func (b *builder) add(row JoinRow, c Classification) {
	switch c {
	case Matched:
		b.report.Matches++
		b.addDetail(Detail{Key: row.Key, Matches: true})
	case Mismatched:
		b.report.Mismatches++
		b.addDetail(Detail{
			Key:    row.Key,
			ValueA: row.ValueA,
			ValueB: row.ValueB,
		})
	case MissingFromA:
		b.report.MissingFromA = append(b.report.MissingFromA, row.Key)
	case MissingFromB:
		b.report.MissingFromB = append(b.report.MissingFromB, row.Key)
	}
}

func (b *builder) addDetail(d Detail) {
	if b.maxDetails > 0 && len(b.report.Details) >= b.maxDetails {
		return
	}
	b.report.Details = append(b.report.Details, d)
}

func (b *builder) addSkipped(skips []SkippedRecord) {
	b.report.Skipped = append(b.report.Skipped, skips...)
}

func (b *builder) markPartial() {
	b.report.Partial = true
}

func (b *builder) build() *Report {
	return &b.report
}
