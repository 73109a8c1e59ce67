package game

import (
	"strconv"
	"strings"
)

// The client's list encodings predate this server and are not symmetric:
// inventories join ids with %, award lists with |, and pin records are
// |-separated triples joined by %. Reproduced here byte for byte.

func joinIDs(ids []int64, sep string) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, sep)
}

// encodeInventory renders an owned-item list for the gi reply: a single
// item is sent bare, anything else %-joined (empty list becomes "").
func encodeInventory(ids []int64) string {
	if len(ids) == 1 {
		return strconv.FormatInt(ids[0], 10)
	}
	return joinIDs(ids, "%")
}

// encodeAwards renders a |-joined award id list.
func encodeAwards(ids []int64) string {
	return joinIDs(ids, "|")
}

// encodePins renders id|issued|0 triples joined by %. The issued stamp is
// the moment of the query, not an acquisition time.
func encodePins(ids []int64, issued int64) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, len(ids))
	stamp := strconv.FormatInt(issued, 10)
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10) + "|" + stamp + "|0"
	}
	return strings.Join(parts, "%")
}

// encodeIgnores renders id|username pairs joined by % ("" when empty).
func encodeIgnores(entries []IgnoreEntry) string {
	if len(entries) == 0 {
		return ""
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = strconv.FormatInt(e.ID, 10) + "|" + e.Username
	}
	return strings.Join(parts, "%")
}
