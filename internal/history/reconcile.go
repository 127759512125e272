package history

// MergePortal folds freshly fetched portal items into persisted history.
// Identity is by normalized URL. Returns the merged history and the items
// that were genuinely new; running the same input twice yields an empty
// new set the second time.
func MergePortal(persisted, fetched []ReferenceItem) (merged, fresh []ReferenceItem) {
	merged = make([]ReferenceItem, len(persisted))
	copy(merged, persisted)

	known := make(map[string]struct{}, len(persisted))
	for _, item := range persisted {
		known[NormalizeURL(item.URL)] = struct{}{}
	}

	for _, item := range fetched {
		key := NormalizeURL(item.URL)
		if key == "" {
			continue
		}
		if _, seen := known[key]; seen {
			continue
		}
		known[key] = struct{}{}
		merged = append(merged, item)
		fresh = append(fresh, item)
	}
	return merged, fresh
}

// MergeAggregator folds newly accepted match records into persisted
// aggregator history, by exact URL.
func MergeAggregator(persisted, accepted []MatchRecord) (merged, fresh []MatchRecord) {
	merged = make([]MatchRecord, len(persisted))
	copy(merged, persisted)

	known := make(map[string]struct{}, len(persisted))
	for _, record := range persisted {
		known[record.URL] = struct{}{}
	}

	for _, record := range accepted {
		if record.URL == "" {
			continue
		}
		if _, seen := known[record.URL]; seen {
			continue
		}
		known[record.URL] = struct{}{}
		merged = append(merged, record)
		fresh = append(fresh, record)
	}
	return merged, fresh
}

// ApplyMatchFlags flips in_target_feed false→true on portal items claimed
// as sources by the given records. Returns the number of flips; already-set
// flags never count, keeping the operation idempotent.
func ApplyMatchFlags(portal []ReferenceItem, records []MatchRecord) int {
	if len(records) == 0 {
		return 0
	}

	claimed := make(map[string]struct{}, len(records))
	for _, record := range records {
		if record.SourceURL != "" {
			claimed[NormalizeURL(record.SourceURL)] = struct{}{}
		}
	}

	flipped := 0
	for i := range portal {
		if portal[i].InTargetFeed {
			continue
		}
		if _, ok := claimed[NormalizeURL(portal[i].URL)]; ok {
			portal[i].InTargetFeed = true
			flipped++
		}
	}
	return flipped
}
